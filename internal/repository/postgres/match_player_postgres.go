package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/tournament-stats-service/internal/model"
	"github.com/maxviazov/tournament-stats-service/internal/repository"
)

type matchPlayerRepository struct{ pool *pgxpool.Pool }

func NewMatchPlayerRepository(pool *pgxpool.Pool) repository.MatchPlayerRepository {
	return &matchPlayerRepository{pool: pool}
}

const matchPlayerSelect = `SELECT mp.id, mp.player_id, mp.match_id, mp.score, p.name, mp.created_at, mp.updated_at
	FROM match_players mp JOIN players p ON p.id = mp.player_id`

func scanMatchPlayer(row interface{ Scan(...any) error }, out *model.MatchPlayer) error {
	return row.Scan(&out.ID, &out.PlayerID, &out.MatchID, &out.Score, &out.PlayerName, &out.CreatedAt, &out.UpdatedAt)
}

func (r *matchPlayerRepository) Create(ctx context.Context, mp model.MatchPlayer) (model.MatchPlayer, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.MatchPlayer{}, err
	}
	_, err := getQ(ctx, r.pool).Exec(ctx,
		`INSERT INTO match_players (match_id, player_id, score) VALUES ($1, $2, $3)`,
		mp.MatchID, mp.PlayerID, mp.Score,
	)
	if err != nil {
		return model.MatchPlayer{}, repository.MapPgError(err)
	}
	return r.Get(ctx, mp.MatchID, mp.PlayerID)
}

func (r *matchPlayerRepository) Get(ctx context.Context, matchID, playerID int64) (model.MatchPlayer, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.MatchPlayer{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		matchPlayerSelect+` WHERE mp.match_id = $1 AND mp.player_id = $2`, matchID, playerID,
	)
	var out model.MatchPlayer
	if err := scanMatchPlayer(row, &out); err != nil {
		return model.MatchPlayer{}, scanErr(err)
	}
	return out, nil
}

func (r *matchPlayerRepository) UpdateScore(ctx context.Context, matchID, playerID int64, score int) (model.MatchPlayer, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.MatchPlayer{}, err
	}
	tag, err := getQ(ctx, r.pool).Exec(ctx,
		`UPDATE match_players SET score = $3, updated_at = NOW() WHERE match_id = $1 AND player_id = $2`,
		matchID, playerID, score,
	)
	if err != nil {
		return model.MatchPlayer{}, repository.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return model.MatchPlayer{}, repository.ErrNotFound
	}
	return r.Get(ctx, matchID, playerID)
}

func (r *matchPlayerRepository) ListByMatch(ctx context.Context, matchID int64) ([]model.MatchPlayer, error) {
	return r.list(ctx, matchPlayerSelect+` WHERE mp.match_id = $1 ORDER BY mp.id`, matchID)
}

func (r *matchPlayerRepository) ListByPlayer(ctx context.Context, playerID int64) ([]model.MatchPlayer, error) {
	return r.list(ctx, matchPlayerSelect+` WHERE mp.player_id = $1 ORDER BY mp.id`, playerID)
}

func (r *matchPlayerRepository) list(ctx context.Context, query string, id int64) ([]model.MatchPlayer, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	rows, err := getQ(ctx, r.pool).Query(ctx, query, id)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()
	res := make([]model.MatchPlayer, 0, 8)
	for rows.Next() {
		var it model.MatchPlayer
		if err := scanMatchPlayer(rows, &it); err != nil {
			return nil, repository.MapPgError(err)
		}
		res = append(res, it)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.MapPgError(err)
	}
	return res, nil
}

var _ repository.MatchPlayerRepository = (*matchPlayerRepository)(nil)
