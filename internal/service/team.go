package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/maxviazov/tournament-stats-service/internal/model"
	"github.com/maxviazov/tournament-stats-service/internal/repository"
	"github.com/rs/zerolog"
)

// teamService holds team use-case logic: validation + orchestration, no transport / SQL details.
type teamService struct {
	st  Stores
	agg refresher
	log zerolog.Logger
}

func NewTeamService(st Stores, logger zerolog.Logger) TeamService {
	l := logger.With().Str("module", "service").Str("component", "team").Logger()
	return &teamService{st: st, agg: newRefresher(st), log: l}
}

func (s *teamService) CreateTeam(ctx context.Context, name string) (model.Team, error) {
	start := time.Now()
	original := name
	name = strings.TrimSpace(name)

	ferrs := checkName(nil, "name", name, minTeamName, maxTeamName)
	if err := NewInvalidInputError(ferrs); err != nil {
		s.log.Debug().Str("name_raw", original).Interface("field_errors", ferrs).Msg("team validation failed")
		return model.Team{}, err
	}

	out, err := s.st.Teams.Create(ctx, model.Team{Name: name})
	if err != nil {
		// Repository surfaces domain-level errors already, do not wrap.
		s.log.Error().Err(err).Str("name", name).Msg("create team failed")
		return model.Team{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("team_id", out.ID).Msg("team created")
	return out, nil
}

func (s *teamService) GetTeam(ctx context.Context, id int64) (model.Team, error) {
	if id <= 0 {
		return model.Team{}, NewInvalidInputError([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	return s.st.Teams.GetByID(ctx, id)
}

func (s *teamService) ListTeams(ctx context.Context, page repository.Page) (repository.PageResult[model.Team], error) {
	p := normalizePage(page)
	res, err := s.st.Teams.List(ctx, p)
	if err != nil {
		s.log.Error().Err(err).Int("limit", p.Limit).Int("offset", p.Offset).Msg("list teams failed")
		return repository.PageResult[model.Team]{}, err
	}
	return res, nil
}

func (s *teamService) RenameTeam(ctx context.Context, id int64, name string) (model.Team, error) {
	name = strings.TrimSpace(name)
	ferrs := checkID(nil, "id", id)
	ferrs = checkName(ferrs, "name", name, minTeamName, maxTeamName)
	if err := NewInvalidInputError(ferrs); err != nil {
		return model.Team{}, err
	}
	out, err := s.st.Teams.Rename(ctx, id, name)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.log.Error().Err(err).Int64("team_id", id).Msg("rename team failed")
	}
	return out, err
}

// DeleteTeam removes the team together with its coach, players and matches.
// Opponents from the cascaded matches and their players get fresh aggregates.
func (s *teamService) DeleteTeam(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewInvalidInputError([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	start := time.Now()
	err := s.st.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.st.Teams.GetByID(ctx, id); err != nil {
			return err
		}
		_, locked, err := s.matchesOf(ctx, id)
		if err != nil {
			return err
		}
		if err := s.agg.lockTeams(ctx, locked...); err != nil {
			return err
		}
		// CreateMatch locks its teams, so with this team locked the match set is
		// final. Read it again to pick up matches committed before the lock.
		matchIDs, teamIDs, err := s.matchesOf(ctx, id)
		if err != nil {
			return err
		}
		if extra := missingFrom(locked, teamIDs); len(extra) > 0 {
			if err := s.agg.lockTeams(ctx, extra...); err != nil {
				return err
			}
		}
		for _, mid := range matchIDs {
			if _, err := s.st.Matches.LockByID(ctx, mid); err != nil {
				return errors.Wrapf(err, "lock match %d", mid)
			}
		}

		var playerIDs []int64
		for _, mid := range matchIDs {
			mps, err := s.st.MatchPlayers.ListByMatch(ctx, mid)
			if err != nil {
				return errors.Wrapf(err, "list match players of match %d", mid)
			}
			for _, mp := range mps {
				playerIDs = append(playerIDs, mp.PlayerID)
			}
		}
		if err := s.agg.lockPlayers(ctx, playerIDs...); err != nil {
			return err
		}
		if err := s.st.Teams.Delete(ctx, id); err != nil {
			return err
		}

		opponents := make([]int64, 0, len(teamIDs))
		for _, tid := range teamIDs {
			if tid != id {
				opponents = append(opponents, tid)
			}
		}
		if err := s.agg.refreshTeams(ctx, opponents...); err != nil {
			return err
		}
		remaining := make([]int64, 0, len(playerIDs))
		for _, pid := range uniqueSorted(playerIDs...) {
			ok, err := s.st.Players.Exists(ctx, pid)
			if err != nil {
				return errors.Wrapf(err, "check player %d", pid)
			}
			if ok {
				remaining = append(remaining, pid)
			}
		}
		return s.agg.refreshPlayers(ctx, remaining...)
	})
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Error().Err(err).Int64("team_id", id).Msg("delete team failed")
		}
		return err
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("team_id", id).Msg("team deleted")
	return nil
}

// matchesOf returns the ids of the team's matches in ascending order and every
// team taking part in them, the team itself included.
func (s *teamService) matchesOf(ctx context.Context, id int64) ([]int64, []int64, error) {
	matchIDs, err := s.st.Matches.ListIDsByTeam(ctx, id)
	if err != nil {
		return nil, nil, errors.Wrap(err, "list matches of team")
	}
	teamIDs := []int64{id}
	for _, mid := range matchIDs {
		mts, err := s.st.MatchTeams.ListByMatch(ctx, mid)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "list match teams of match %d", mid)
		}
		for _, mt := range mts {
			teamIDs = append(teamIDs, mt.TeamID)
		}
	}
	return uniqueSorted(matchIDs...), uniqueSorted(teamIDs...), nil
}

// missingFrom returns the ids of want that are not in have.
func missingFrom(have, want []int64) []int64 {
	var out []int64
	for _, id := range want {
		if !slices.Contains(have, id) {
			out = append(out, id)
		}
	}
	return out
}

func (s *teamService) ListTeamPlayers(ctx context.Context, teamID int64, page repository.Page) (repository.PageResult[model.Player], error) {
	if teamID <= 0 {
		return repository.PageResult[model.Player]{}, NewInvalidInputError([]FieldError{{Field: "team_id", Message: "must be > 0"}})
	}
	if _, err := s.st.Teams.GetByID(ctx, teamID); err != nil {
		return repository.PageResult[model.Player]{}, err
	}
	p := normalizePage(page)
	res, err := s.st.Players.ListByTeam(ctx, teamID, p)
	if err != nil {
		s.log.Error().Err(err).Int64("team_id", teamID).Int("limit", p.Limit).Int("offset", p.Offset).Msg("list players failed")
		return repository.PageResult[model.Player]{}, err
	}
	return res, nil
}
