package memory

import (
	"context"
	"slices"

	"github.com/maxviazov/tournament-stats-service/internal/model"
	"github.com/maxviazov/tournament-stats-service/internal/repository"
)

type matchRepository struct{ s *Store }

func (s *Store) Matches() repository.MatchRepository { return &matchRepository{s: s} }

// matchView fills team names and the scores held by the match_teams rows.
func (t *tables) matchView(m model.Match) model.Match {
	m.Team1Name = t.teams[m.Team1ID].Name
	m.Team2Name = t.teams[m.Team2ID].Name
	m.Team1Score, m.Team2Score = 0, 0
	for _, mt := range t.matchTeams {
		if mt.MatchID != m.ID {
			continue
		}
		switch mt.TeamID {
		case m.Team1ID:
			m.Team1Score = mt.Score
		case m.Team2ID:
			m.Team2Score = mt.Score
		}
	}
	return m
}

func (r *matchRepository) Create(ctx context.Context, in model.Match) (model.Match, error) {
	var out model.Match
	err := r.s.do(ctx, func(t *tables) error {
		if in.Team1ID == in.Team2ID || !slices.Contains(model.Rounds, in.Round) {
			return repository.ErrInvalidValue
		}
		if _, ok := t.teams[in.Team1ID]; !ok {
			return repository.ErrConflict
		}
		if _, ok := t.teams[in.Team2ID]; !ok {
			return repository.ErrConflict
		}
		m := model.Match{
			ID:            t.next("matches"),
			ScheduledDate: in.ScheduledDate,
			Stadium:       in.Stadium,
			Round:         in.Round,
			Team1ID:       in.Team1ID,
			Team2ID:       in.Team2ID,
			CreatedAt:     r.s.now(),
		}
		t.matches[m.ID] = m
		out = m
		out.Team1Name, out.Team2Name = in.Team1Name, in.Team2Name
		out.Team1Score, out.Team2Score = in.Team1Score, in.Team2Score
		return nil
	})
	return out, err
}

func (r *matchRepository) GetByID(ctx context.Context, id int64) (model.Match, error) {
	var out model.Match
	err := r.s.do(ctx, func(t *tables) error {
		m, ok := t.matches[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = t.matchView(m)
		return nil
	})
	return out, err
}

// LockByID and ShareByID are lookups: the store lock already serializes writers.
func (r *matchRepository) LockByID(ctx context.Context, id int64) (model.Match, error) {
	return r.GetByID(ctx, id)
}

func (r *matchRepository) ShareByID(ctx context.Context, id int64) (model.Match, error) {
	return r.GetByID(ctx, id)
}

func (r *matchRepository) List(ctx context.Context, p repository.Page) (repository.PageResult[model.Match], error) {
	var res repository.PageResult[model.Match]
	err := r.s.do(ctx, func(t *tables) error {
		items := sortedValues(t.matches, byID(func(m model.Match) int64 { return m.ID }))
		for i := range items {
			items[i] = t.matchView(items[i])
		}
		res = paginate(items, p)
		return nil
	})
	return res, err
}

func (r *matchRepository) ListIDsByTeam(ctx context.Context, teamID int64) ([]int64, error) {
	ids := make([]int64, 0, 8)
	err := r.s.do(ctx, func(t *tables) error {
		for id, m := range t.matches {
			if m.Team1ID == teamID || m.Team2ID == teamID {
				ids = append(ids, id)
			}
		}
		slices.Sort(ids)
		return nil
	})
	return ids, err
}

func (r *matchRepository) Delete(ctx context.Context, id int64) error {
	return r.s.do(ctx, func(t *tables) error {
		if _, ok := t.matches[id]; !ok {
			return repository.ErrNotFound
		}
		t.deleteMatch(id)
		return nil
	})
}

type matchTeamRepository struct{ s *Store }

func (s *Store) MatchTeams() repository.MatchTeamRepository { return &matchTeamRepository{s: s} }

func (r *matchTeamRepository) Create(ctx context.Context, in model.MatchTeam) (model.MatchTeam, error) {
	var out model.MatchTeam
	err := r.s.do(ctx, func(t *tables) error {
		if in.Score < 0 {
			return repository.ErrInvalidValue
		}
		if _, ok := t.matches[in.MatchID]; !ok {
			return repository.ErrConflict
		}
		if _, ok := t.teams[in.TeamID]; !ok {
			return repository.ErrConflict
		}
		for _, mt := range t.matchTeams {
			if mt.MatchID == in.MatchID && mt.TeamID == in.TeamID {
				return repository.ErrAlreadyExists
			}
		}
		out = model.MatchTeam{ID: t.next("match_teams"), TeamID: in.TeamID, MatchID: in.MatchID, Score: in.Score}
		t.matchTeams[out.ID] = out
		return nil
	})
	return out, err
}

func (r *matchTeamRepository) ListByMatch(ctx context.Context, matchID int64) ([]model.MatchTeam, error) {
	return r.list(ctx, func(mt model.MatchTeam) bool { return mt.MatchID == matchID })
}

func (r *matchTeamRepository) ListByTeam(ctx context.Context, teamID int64) ([]model.MatchTeam, error) {
	return r.list(ctx, func(mt model.MatchTeam) bool { return mt.TeamID == teamID })
}

func (r *matchTeamRepository) list(ctx context.Context, keep func(model.MatchTeam) bool) ([]model.MatchTeam, error) {
	out := make([]model.MatchTeam, 0, 2)
	err := r.s.do(ctx, func(t *tables) error {
		for _, mt := range sortedValues(t.matchTeams, byID(func(mt model.MatchTeam) int64 { return mt.ID })) {
			if keep(mt) {
				out = append(out, mt)
			}
		}
		return nil
	})
	return out, err
}

func (r *matchTeamRepository) DeleteByMatch(ctx context.Context, matchID int64) (int64, error) {
	var n int64
	err := r.s.do(ctx, func(t *tables) error {
		for k, mt := range t.matchTeams {
			if mt.MatchID == matchID {
				delete(t.matchTeams, k)
				n++
			}
		}
		return nil
	})
	return n, err
}

type matchPlayerRepository struct{ s *Store }

func (s *Store) MatchPlayers() repository.MatchPlayerRepository { return &matchPlayerRepository{s: s} }

func (t *tables) matchPlayerView(mp model.MatchPlayer) model.MatchPlayer {
	mp.PlayerName = t.players[mp.PlayerID].Name
	return mp
}

func (t *tables) findMatchPlayer(matchID, playerID int64) (int64, bool) {
	for k, mp := range t.matchPlayers {
		if mp.MatchID == matchID && mp.PlayerID == playerID {
			return k, true
		}
	}
	return 0, false
}

func (r *matchPlayerRepository) Create(ctx context.Context, in model.MatchPlayer) (model.MatchPlayer, error) {
	var out model.MatchPlayer
	err := r.s.do(ctx, func(t *tables) error {
		if in.Score < 0 {
			return repository.ErrInvalidValue
		}
		if _, ok := t.matches[in.MatchID]; !ok {
			return repository.ErrConflict
		}
		if _, ok := t.players[in.PlayerID]; !ok {
			return repository.ErrConflict
		}
		if _, dup := t.findMatchPlayer(in.MatchID, in.PlayerID); dup {
			return repository.ErrAlreadyExists
		}
		now := r.s.now()
		mp := model.MatchPlayer{
			ID:        t.next("match_players"),
			PlayerID:  in.PlayerID,
			MatchID:   in.MatchID,
			Score:     in.Score,
			CreatedAt: now,
			UpdatedAt: now,
		}
		t.matchPlayers[mp.ID] = mp
		out = t.matchPlayerView(mp)
		return nil
	})
	return out, err
}

func (r *matchPlayerRepository) Get(ctx context.Context, matchID, playerID int64) (model.MatchPlayer, error) {
	var out model.MatchPlayer
	err := r.s.do(ctx, func(t *tables) error {
		k, ok := t.findMatchPlayer(matchID, playerID)
		if !ok {
			return repository.ErrNotFound
		}
		out = t.matchPlayerView(t.matchPlayers[k])
		return nil
	})
	return out, err
}

func (r *matchPlayerRepository) UpdateScore(ctx context.Context, matchID, playerID int64, score int) (model.MatchPlayer, error) {
	var out model.MatchPlayer
	err := r.s.do(ctx, func(t *tables) error {
		k, ok := t.findMatchPlayer(matchID, playerID)
		if !ok {
			return repository.ErrNotFound
		}
		if score < 0 {
			return repository.ErrInvalidValue
		}
		mp := t.matchPlayers[k]
		mp.Score = score
		mp.UpdatedAt = r.s.now()
		t.matchPlayers[k] = mp
		out = t.matchPlayerView(mp)
		return nil
	})
	return out, err
}

func (r *matchPlayerRepository) ListByMatch(ctx context.Context, matchID int64) ([]model.MatchPlayer, error) {
	return r.list(ctx, func(mp model.MatchPlayer) bool { return mp.MatchID == matchID })
}

func (r *matchPlayerRepository) ListByPlayer(ctx context.Context, playerID int64) ([]model.MatchPlayer, error) {
	return r.list(ctx, func(mp model.MatchPlayer) bool { return mp.PlayerID == playerID })
}

func (r *matchPlayerRepository) list(ctx context.Context, keep func(model.MatchPlayer) bool) ([]model.MatchPlayer, error) {
	out := make([]model.MatchPlayer, 0, 8)
	err := r.s.do(ctx, func(t *tables) error {
		for _, mp := range sortedValues(t.matchPlayers, byID(func(mp model.MatchPlayer) int64 { return mp.ID })) {
			if keep(mp) {
				out = append(out, t.matchPlayerView(mp))
			}
		}
		return nil
	})
	return out, err
}

var (
	_ repository.MatchRepository       = (*matchRepository)(nil)
	_ repository.MatchTeamRepository   = (*matchTeamRepository)(nil)
	_ repository.MatchPlayerRepository = (*matchPlayerRepository)(nil)
)
