package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/tournament-stats-service/internal/model"
	"github.com/maxviazov/tournament-stats-service/internal/repository"
	"github.com/shopspring/decimal"
)

type playerRepository struct{ pool *pgxpool.Pool }

func NewPlayerRepository(pool *pgxpool.Pool) repository.PlayerRepository {
	return &playerRepository{pool: pool}
}

// Players are always read together with their team name.
const (
	playerColumns = `p.id, p.team_id, t.name, p.name, p.height, p.average_score, p.matches, p.created_at, p.updated_at`
	playerFrom    = ` FROM players p JOIN teams t ON t.id = p.team_id`

	playerSelect          = `SELECT ` + playerColumns + playerFrom
	playerSelectWithTotal = `SELECT ` + playerColumns + `, COUNT(*) OVER() AS total` + playerFrom
)

func scanPlayer(row interface{ Scan(...any) error }, out *model.Player, extra ...any) error {
	dest := append([]any{&out.ID, &out.TeamID, &out.TeamName, &out.Name, &out.Height, &out.AverageScore, &out.Matches, &out.CreatedAt, &out.UpdatedAt}, extra...)
	return row.Scan(dest...)
}

func (r *playerRepository) Create(ctx context.Context, p model.Player) (model.Player, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Player{}, err
	}
	exec := getQ(ctx, r.pool)
	var id int64
	err := exec.QueryRow(ctx,
		`INSERT INTO players (team_id, name, height) VALUES ($1, $2, $3) RETURNING id`,
		p.TeamID, p.Name, p.Height,
	).Scan(&id)
	if err != nil {
		return model.Player{}, repository.MapPgError(err)
	}
	return r.GetByID(ctx, id)
}

func (r *playerRepository) GetByID(ctx context.Context, id int64) (model.Player, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Player{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx, playerSelect+` WHERE p.id = $1`, id)
	var out model.Player
	if err := scanPlayer(row, &out); err != nil {
		return model.Player{}, scanErr(err)
	}
	return out, nil
}

func (r *playerRepository) List(ctx context.Context, p repository.Page) (repository.PageResult[model.Player], error) {
	limit, offset := sanitizeLimitOffset(p)
	return r.list(ctx, playerSelectWithTotal+` ORDER BY p.id LIMIT $1 OFFSET $2`, limit, limit, offset)
}

func (r *playerRepository) ListByTeam(ctx context.Context, teamID int64, p repository.Page) (repository.PageResult[model.Player], error) {
	limit, offset := sanitizeLimitOffset(p)
	return r.list(ctx, playerSelectWithTotal+` WHERE p.team_id = $1
		 ORDER BY p.id LIMIT $2 OFFSET $3`, limit, teamID, limit, offset)
}

func (r *playerRepository) list(ctx context.Context, query string, capacity int, args ...any) (repository.PageResult[model.Player], error) {
	if err := ensurePool(r.pool); err != nil {
		return repository.PageResult[model.Player]{}, err
	}
	exec := getQ(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return repository.PageResult[model.Player]{}, repository.MapPgError(err)
	}
	defer rows.Close()
	res := repository.PageResult[model.Player]{Items: make([]model.Player, 0, capacity)}
	for rows.Next() {
		var it model.Player
		var total int
		if err := scanPlayer(rows, &it, &total); err != nil {
			return repository.PageResult[model.Player]{}, repository.MapPgError(err)
		}
		res.Items = append(res.Items, it)
		res.Total = total
	}
	if err := rows.Err(); err != nil {
		return repository.PageResult[model.Player]{}, repository.MapPgError(err)
	}
	return res, nil
}

func (r *playerRepository) Update(ctx context.Context, p model.Player) (model.Player, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Player{}, err
	}
	tag, err := getQ(ctx, r.pool).Exec(ctx,
		`UPDATE players SET team_id = $2, name = $3, height = $4, updated_at = NOW() WHERE id = $1`,
		p.ID, p.TeamID, p.Name, p.Height,
	)
	if err != nil {
		return model.Player{}, repository.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return model.Player{}, repository.ErrNotFound
	}
	return r.GetByID(ctx, p.ID)
}

func (r *playerRepository) Delete(ctx context.Context, id int64) error {
	if err := ensurePool(r.pool); err != nil {
		return err
	}
	tag, err := getQ(ctx, r.pool).Exec(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return repository.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Exists performs a lightweight check to see if a player with the given ID exists.
func (r *playerRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if err := ensurePool(r.pool); err != nil {
		return false, err
	}
	var exists bool
	exec := getQ(ctx, r.pool)
	err := exec.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM players WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, repository.MapPgError(err)
	}
	return exists, nil
}

// LockByID locks the player row FOR NO KEY UPDATE; see teamRepository.LockByID.
func (r *playerRepository) LockByID(ctx context.Context, id int64) (model.Player, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Player{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx, playerSelect+` WHERE p.id = $1 FOR NO KEY UPDATE OF p`, id)
	var out model.Player
	if err := scanPlayer(row, &out); err != nil {
		return model.Player{}, scanErr(err)
	}
	return out, nil
}

func (r *playerRepository) UpdateAggregates(ctx context.Context, id int64, avg decimal.Decimal, matches int) error {
	if err := ensurePool(r.pool); err != nil {
		return err
	}
	tag, err := getQ(ctx, r.pool).Exec(ctx,
		`UPDATE players SET average_score = $2, matches = $3, updated_at = NOW() WHERE id = $1`,
		id, avg, matches,
	)
	if err != nil {
		return repository.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.PlayerRepository = (*playerRepository)(nil)
