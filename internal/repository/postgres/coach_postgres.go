package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/tournament-stats-service/internal/model"
	"github.com/maxviazov/tournament-stats-service/internal/repository"
)

type coachRepository struct{ pool *pgxpool.Pool }

func NewCoachRepository(pool *pgxpool.Pool) repository.CoachRepository {
	return &coachRepository{pool: pool}
}

const coachSelect = `SELECT c.id, c.name, c.team_id, t.name, c.created_at, c.updated_at
	FROM coaches c JOIN teams t ON t.id = c.team_id`

func scanCoach(row interface{ Scan(...any) error }, out *model.Coach, extra ...any) error {
	dest := append([]any{&out.ID, &out.Name, &out.TeamID, &out.TeamName, &out.CreatedAt, &out.UpdatedAt}, extra...)
	return row.Scan(dest...)
}

func (r *coachRepository) Create(ctx context.Context, c model.Coach) (model.Coach, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Coach{}, err
	}
	var id int64
	err := getQ(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO coaches (name, team_id) VALUES ($1, $2) RETURNING id`, c.Name, c.TeamID,
	).Scan(&id)
	if err != nil {
		return model.Coach{}, repository.MapPgError(err)
	}
	return r.GetByID(ctx, id)
}

func (r *coachRepository) GetByID(ctx context.Context, id int64) (model.Coach, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Coach{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx, coachSelect+` WHERE c.id = $1`, id)
	var out model.Coach
	if err := scanCoach(row, &out); err != nil {
		return model.Coach{}, scanErr(err)
	}
	return out, nil
}

func (r *coachRepository) List(ctx context.Context, p repository.Page) (repository.PageResult[model.Coach], error) {
	if err := ensurePool(r.pool); err != nil {
		return repository.PageResult[model.Coach]{}, err
	}
	limit, offset := sanitizeLimitOffset(p)
	rows, err := getQ(ctx, r.pool).Query(ctx,
		`SELECT c.id, c.name, c.team_id, t.name, c.created_at, c.updated_at, COUNT(*) OVER() AS total
		 FROM coaches c JOIN teams t ON t.id = c.team_id
		 ORDER BY c.id
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return repository.PageResult[model.Coach]{}, repository.MapPgError(err)
	}
	defer rows.Close()
	res := repository.PageResult[model.Coach]{Items: make([]model.Coach, 0, limit)}
	for rows.Next() {
		var c model.Coach
		var total int
		if err := scanCoach(rows, &c, &total); err != nil {
			return repository.PageResult[model.Coach]{}, repository.MapPgError(err)
		}
		res.Items = append(res.Items, c)
		res.Total = total
	}
	if err := rows.Err(); err != nil {
		return repository.PageResult[model.Coach]{}, repository.MapPgError(err)
	}
	return res, nil
}

func (r *coachRepository) Update(ctx context.Context, c model.Coach) (model.Coach, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Coach{}, err
	}
	tag, err := getQ(ctx, r.pool).Exec(ctx,
		`UPDATE coaches SET name = $2, team_id = $3, updated_at = NOW() WHERE id = $1`,
		c.ID, c.Name, c.TeamID,
	)
	if err != nil {
		return model.Coach{}, repository.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return model.Coach{}, repository.ErrNotFound
	}
	return r.GetByID(ctx, c.ID)
}

func (r *coachRepository) Delete(ctx context.Context, id int64) error {
	if err := ensurePool(r.pool); err != nil {
		return err
	}
	tag, err := getQ(ctx, r.pool).Exec(ctx, `DELETE FROM coaches WHERE id = $1`, id)
	if err != nil {
		return repository.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.CoachRepository = (*coachRepository)(nil)
