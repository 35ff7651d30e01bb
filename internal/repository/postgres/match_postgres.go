package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/tournament-stats-service/internal/model"
	"github.com/maxviazov/tournament-stats-service/internal/repository"
)

type matchRepository struct{ pool *pgxpool.Pool }

func NewMatchRepository(pool *pgxpool.Pool) repository.MatchRepository {
	return &matchRepository{pool: pool}
}

// Scores are not columns of matches; they are joined back from match_teams.
const (
	matchColumns = `m.id, m.scheduled_date, m.stadium, m.round,
		m.team1_id, t1.name, m.team2_id, t2.name,
		COALESCE(mt1.score, 0), COALESCE(mt2.score, 0), m.created_at`
	matchFrom = `
		FROM matches m
		JOIN teams t1 ON t1.id = m.team1_id
		JOIN teams t2 ON t2.id = m.team2_id
		LEFT JOIN match_teams mt1 ON mt1.match_id = m.id AND mt1.team_id = m.team1_id
		LEFT JOIN match_teams mt2 ON mt2.match_id = m.id AND mt2.team_id = m.team2_id`
)

func scanMatch(row interface{ Scan(...any) error }, out *model.Match, extra ...any) error {
	dest := append([]any{
		&out.ID, &out.ScheduledDate, &out.Stadium, &out.Round,
		&out.Team1ID, &out.Team1Name, &out.Team2ID, &out.Team2Name,
		&out.Team1Score, &out.Team2Score, &out.CreatedAt,
	}, extra...)
	return row.Scan(dest...)
}

func (r *matchRepository) Create(ctx context.Context, m model.Match) (model.Match, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Match{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO matches (scheduled_date, stadium, round, team1_id, team2_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		m.ScheduledDate, m.Stadium, string(m.Round), m.Team1ID, m.Team2ID,
	)
	out := m
	if err := row.Scan(&out.ID, &out.CreatedAt); err != nil {
		return model.Match{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *matchRepository) GetByID(ctx context.Context, id int64) (model.Match, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Match{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx, `SELECT `+matchColumns+matchFrom+` WHERE m.id = $1`, id)
	var out model.Match
	if err := scanMatch(row, &out); err != nil {
		return model.Match{}, scanErr(err)
	}
	return out, nil
}

// LockByID takes FOR UPDATE on the match row. A concurrent insert into
// match_players or match_teams blocks on its foreign key check until we finish.
func (r *matchRepository) LockByID(ctx context.Context, id int64) (model.Match, error) {
	return r.getLocked(ctx, id, "FOR UPDATE OF m")
}

// ShareByID takes FOR KEY SHARE, which conflicts only with deleting the row
// or changing its key.
func (r *matchRepository) ShareByID(ctx context.Context, id int64) (model.Match, error) {
	return r.getLocked(ctx, id, "FOR KEY SHARE OF m")
}

func (r *matchRepository) getLocked(ctx context.Context, id int64, clause string) (model.Match, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Match{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx, `SELECT `+matchColumns+matchFrom+` WHERE m.id = $1 `+clause, id)
	var out model.Match
	if err := scanMatch(row, &out); err != nil {
		return model.Match{}, scanErr(err)
	}
	return out, nil
}

func (r *matchRepository) List(ctx context.Context, p repository.Page) (repository.PageResult[model.Match], error) {
	if err := ensurePool(r.pool); err != nil {
		return repository.PageResult[model.Match]{}, err
	}
	limit, offset := sanitizeLimitOffset(p)
	rows, err := getQ(ctx, r.pool).Query(ctx,
		`SELECT `+matchColumns+`, COUNT(*) OVER() AS total`+matchFrom+`
		 ORDER BY m.id
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return repository.PageResult[model.Match]{}, repository.MapPgError(err)
	}
	defer rows.Close()
	res := repository.PageResult[model.Match]{Items: make([]model.Match, 0, limit)}
	for rows.Next() {
		var it model.Match
		var total int
		if err := scanMatch(rows, &it, &total); err != nil {
			return repository.PageResult[model.Match]{}, repository.MapPgError(err)
		}
		res.Items = append(res.Items, it)
		res.Total = total
	}
	if err := rows.Err(); err != nil {
		return repository.PageResult[model.Match]{}, repository.MapPgError(err)
	}
	return res, nil
}

func (r *matchRepository) ListIDsByTeam(ctx context.Context, teamID int64) ([]int64, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	rows, err := getQ(ctx, r.pool).Query(ctx,
		`SELECT id FROM matches WHERE team1_id = $1 OR team2_id = $1 ORDER BY id`, teamID,
	)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()
	ids := make([]int64, 0, 8)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, repository.MapPgError(err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.MapPgError(err)
	}
	return ids, nil
}

func (r *matchRepository) Delete(ctx context.Context, id int64) error {
	if err := ensurePool(r.pool); err != nil {
		return err
	}
	tag, err := getQ(ctx, r.pool).Exec(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return repository.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.MatchRepository = (*matchRepository)(nil)
