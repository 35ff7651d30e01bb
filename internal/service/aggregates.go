package service

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/maxviazov/tournament-stats-service/internal/aggregate"
	"github.com/maxviazov/tournament-stats-service/internal/repository"
)

// refresher keeps the derived team and player fields in step with the join rows.
// Every method must run inside a transaction; callers lock teams before players
// so concurrent units of work acquire row locks in the same order.
type refresher struct {
	teams        repository.TeamRepository
	players      repository.PlayerRepository
	matchTeams   repository.MatchTeamRepository
	matchPlayers repository.MatchPlayerRepository
}

func newRefresher(st Stores) refresher {
	return refresher{teams: st.Teams, players: st.Players, matchTeams: st.MatchTeams, matchPlayers: st.MatchPlayers}
}

func (r refresher) lockTeams(ctx context.Context, ids ...int64) error {
	for _, id := range uniqueSorted(ids...) {
		if _, err := r.teams.LockByID(ctx, id); err != nil {
			return errors.Wrapf(err, "lock team %d", id)
		}
	}
	return nil
}

func (r refresher) lockPlayers(ctx context.Context, ids ...int64) error {
	for _, id := range uniqueSorted(ids...) {
		if _, err := r.players.LockByID(ctx, id); err != nil {
			return errors.Wrapf(err, "lock player %d", id)
		}
	}
	return nil
}

// refreshTeams recomputes average_score for each team from its MatchTeam rows.
func (r refresher) refreshTeams(ctx context.Context, ids ...int64) error {
	for _, id := range uniqueSorted(ids...) {
		rows, err := r.matchTeams.ListByTeam(ctx, id)
		if err != nil {
			return errors.Wrapf(err, "list match teams of team %d", id)
		}
		if err := r.teams.UpdateAverageScore(ctx, id, aggregate.TeamAverage(rows)); err != nil {
			return errors.Wrapf(err, "update average of team %d", id)
		}
	}
	return nil
}

// refreshPlayers recomputes average_score and matches for each player from its MatchPlayer rows.
func (r refresher) refreshPlayers(ctx context.Context, ids ...int64) error {
	for _, id := range uniqueSorted(ids...) {
		rows, err := r.matchPlayers.ListByPlayer(ctx, id)
		if err != nil {
			return errors.Wrapf(err, "list match players of player %d", id)
		}
		avg, n := aggregate.PlayerAverage(rows), aggregate.PlayerMatchCount(rows)
		if err := r.players.UpdateAggregates(ctx, id, avg, n); err != nil {
			return errors.Wrapf(err, "update aggregates of player %d", id)
		}
	}
	return nil
}
