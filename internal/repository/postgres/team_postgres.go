package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/tournament-stats-service/internal/model"
	"github.com/maxviazov/tournament-stats-service/internal/repository"
	"github.com/shopspring/decimal"
)

type teamRepository struct{ pool *pgxpool.Pool }

func NewTeamRepository(pool *pgxpool.Pool) repository.TeamRepository {
	return &teamRepository{pool: pool}
}

const teamColumns = `id, name, average_score, created_at, updated_at`

func scanTeam(row interface{ Scan(...any) error }, out *model.Team, extra ...any) error {
	dest := append([]any{&out.ID, &out.Name, &out.AverageScore, &out.CreatedAt, &out.UpdatedAt}, extra...)
	return row.Scan(dest...)
}

func (r *teamRepository) Create(ctx context.Context, t model.Team) (model.Team, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Team{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`INSERT INTO teams (name) VALUES ($1)
		 RETURNING `+teamColumns,
		t.Name,
	)
	var out model.Team
	if err := scanTeam(row, &out); err != nil {
		return model.Team{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *teamRepository) GetByID(ctx context.Context, id int64) (model.Team, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Team{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = $1`, id)
	var out model.Team
	if err := scanTeam(row, &out); err != nil {
		return model.Team{}, scanErr(err)
	}
	return out, nil
}

func (r *teamRepository) List(ctx context.Context, p repository.Page) (repository.PageResult[model.Team], error) {
	if err := ensurePool(r.pool); err != nil {
		return repository.PageResult[model.Team]{}, err
	}
	limit, offset := sanitizeLimitOffset(p)
	exec := getQ(ctx, r.pool)
	rows, err := exec.Query(ctx,
		`SELECT `+teamColumns+`, COUNT(*) OVER() AS total
		 FROM teams
		 ORDER BY name
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return repository.PageResult[model.Team]{}, repository.MapPgError(err)
	}
	defer rows.Close()
	res := repository.PageResult[model.Team]{Items: make([]model.Team, 0, limit)}
	for rows.Next() {
		var t model.Team
		var total int
		if err := scanTeam(rows, &t, &total); err != nil {
			return repository.PageResult[model.Team]{}, repository.MapPgError(err)
		}
		res.Items = append(res.Items, t)
		res.Total = total
	}
	if err := rows.Err(); err != nil {
		return repository.PageResult[model.Team]{}, repository.MapPgError(err)
	}
	return res, nil
}

func (r *teamRepository) Rename(ctx context.Context, id int64, name string) (model.Team, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Team{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`UPDATE teams SET name = $2, updated_at = NOW() WHERE id = $1
		 RETURNING `+teamColumns,
		id, name,
	)
	var out model.Team
	if err := scanTeam(row, &out); err != nil {
		return model.Team{}, scanErr(err)
	}
	return out, nil
}

func (r *teamRepository) Delete(ctx context.Context, id int64) error {
	if err := ensurePool(r.pool); err != nil {
		return err
	}
	tag, err := getQ(ctx, r.pool).Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return repository.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Exists performs a lightweight check to see if a team with the given ID exists.
func (r *teamRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if err := ensurePool(r.pool); err != nil {
		return false, err
	}
	var exists bool
	exec := getQ(ctx, r.pool)
	err := exec.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM teams WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, repository.MapPgError(err)
	}
	return exists, nil
}

// LockByID uses FOR NO KEY UPDATE: it serializes concurrent refreshes of the same
// team but stays compatible with the KEY SHARE locks taken by FK checks on inserts
// into match_teams. Outside a transaction the lock is released immediately.
func (r *teamRepository) LockByID(ctx context.Context, id int64) (model.Team, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Team{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`SELECT `+teamColumns+` FROM teams WHERE id = $1 FOR NO KEY UPDATE`, id,
	)
	var out model.Team
	if err := scanTeam(row, &out); err != nil {
		return model.Team{}, scanErr(err)
	}
	return out, nil
}

func (r *teamRepository) UpdateAverageScore(ctx context.Context, id int64, avg decimal.Decimal) error {
	if err := ensurePool(r.pool); err != nil {
		return err
	}
	tag, err := getQ(ctx, r.pool).Exec(ctx,
		`UPDATE teams SET average_score = $2, updated_at = NOW() WHERE id = $1`, id, avg,
	)
	if err != nil {
		return repository.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.TeamRepository = (*teamRepository)(nil)
