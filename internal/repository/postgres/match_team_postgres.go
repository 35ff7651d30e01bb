package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/tournament-stats-service/internal/model"
	"github.com/maxviazov/tournament-stats-service/internal/repository"
)

type matchTeamRepository struct{ pool *pgxpool.Pool }

func NewMatchTeamRepository(pool *pgxpool.Pool) repository.MatchTeamRepository {
	return &matchTeamRepository{pool: pool}
}

func (r *matchTeamRepository) Create(ctx context.Context, mt model.MatchTeam) (model.MatchTeam, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.MatchTeam{}, err
	}
	out := mt
	err := getQ(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO match_teams (match_id, team_id, score) VALUES ($1, $2, $3) RETURNING id`,
		mt.MatchID, mt.TeamID, mt.Score,
	).Scan(&out.ID)
	if err != nil {
		return model.MatchTeam{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *matchTeamRepository) ListByMatch(ctx context.Context, matchID int64) ([]model.MatchTeam, error) {
	return r.list(ctx, `SELECT id, team_id, match_id, score FROM match_teams WHERE match_id = $1 ORDER BY id`, matchID)
}

func (r *matchTeamRepository) ListByTeam(ctx context.Context, teamID int64) ([]model.MatchTeam, error) {
	return r.list(ctx, `SELECT id, team_id, match_id, score FROM match_teams WHERE team_id = $1 ORDER BY id`, teamID)
}

func (r *matchTeamRepository) list(ctx context.Context, query string, id int64) ([]model.MatchTeam, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	rows, err := getQ(ctx, r.pool).Query(ctx, query, id)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()
	res := make([]model.MatchTeam, 0, 8)
	for rows.Next() {
		var it model.MatchTeam
		if err := rows.Scan(&it.ID, &it.TeamID, &it.MatchID, &it.Score); err != nil {
			return nil, repository.MapPgError(err)
		}
		res = append(res, it)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.MapPgError(err)
	}
	return res, nil
}

func (r *matchTeamRepository) DeleteByMatch(ctx context.Context, matchID int64) (int64, error) {
	if err := ensurePool(r.pool); err != nil {
		return 0, err
	}
	tag, err := getQ(ctx, r.pool).Exec(ctx, `DELETE FROM match_teams WHERE match_id = $1`, matchID)
	if err != nil {
		return 0, repository.MapPgError(err)
	}
	return tag.RowsAffected(), nil
}

var _ repository.MatchTeamRepository = (*matchTeamRepository)(nil)
