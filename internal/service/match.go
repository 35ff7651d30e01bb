package service

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/maxviazov/tournament-stats-service/internal/model"
	"github.com/maxviazov/tournament-stats-service/internal/repository"
	"github.com/rs/zerolog"
)

type matchService struct {
	st  Stores
	agg refresher
	log zerolog.Logger
}

func NewMatchService(st Stores, logger zerolog.Logger) MatchService {
	l := logger.With().Str("module", "service").Str("component", "match").Logger()
	return &matchService{st: st, agg: newRefresher(st), log: l}
}

func validateMatchInput(in model.MatchInput) (model.Round, []FieldError) {
	var ferrs []FieldError
	if in.ScheduledDate.IsZero() {
		ferrs = append(ferrs, FieldError{Field: "scheduled_date", Message: "is required"})
	}
	ferrs = checkName(ferrs, "stadium", strings.TrimSpace(in.Stadium), 1, maxLongName)
	round, ok := normalizeRound(in.Round)
	if !ok {
		ferrs = append(ferrs, FieldError{Field: "round", Message: "must be one of Qualifying Round, Quarter Final, Semi Final, Final"})
	}
	ferrs = checkID(ferrs, "team1", in.Team1ID)
	ferrs = checkID(ferrs, "team2", in.Team2ID)
	if in.Team1ID > 0 && in.Team1ID == in.Team2ID {
		ferrs = append(ferrs, FieldError{Field: "team2", Message: "must differ from team1"})
	}
	ferrs = checkScore(ferrs, "team1_score", in.Team1Score)
	ferrs = checkScore(ferrs, "team2_score", in.Team2Score)
	return round, ferrs
}

// CreateMatch stores the match, both MatchTeam rows and the refreshed team
// averages in one transaction. Nothing is written when a team does not exist.
func (s *matchService) CreateMatch(ctx context.Context, in model.MatchInput) (model.Match, error) {
	start := time.Now()
	round, ferrs := validateMatchInput(in)
	if err := NewInvalidInputError(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Msg("match validation failed")
		return model.Match{}, err
	}

	var out model.Match
	err := s.st.Tx.WithinTx(ctx, func(ctx context.Context) error {
		// Locking doubles as the existence check for both team references.
		fields := map[int64]string{in.Team1ID: "team1", in.Team2ID: "team2"}
		var missing []FieldError
		for _, id := range uniqueSorted(in.Team1ID, in.Team2ID) {
			if _, err := s.st.Teams.LockByID(ctx, id); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					missing = append(missing, FieldError{Field: fields[id], Message: "team does not exist"})
					continue
				}
				return errors.Wrapf(err, "lock team %d", id)
			}
		}
		if err := NewInvalidInputError(missing); err != nil {
			return err
		}

		m, err := s.st.Matches.Create(ctx, model.Match{
			ScheduledDate: in.ScheduledDate,
			Stadium:       strings.TrimSpace(in.Stadium),
			Round:         round,
			Team1ID:       in.Team1ID,
			Team2ID:       in.Team2ID,
		})
		if err != nil {
			return errors.Wrap(err, "insert match")
		}
		for _, mt := range []model.MatchTeam{
			{MatchID: m.ID, TeamID: in.Team1ID, Score: *in.Team1Score},
			{MatchID: m.ID, TeamID: in.Team2ID, Score: *in.Team2Score},
		} {
			if _, err := s.st.MatchTeams.Create(ctx, mt); err != nil {
				return errors.Wrapf(err, "insert match team %d", mt.TeamID)
			}
		}
		if err := s.agg.refreshTeams(ctx, in.Team1ID, in.Team2ID); err != nil {
			return err
		}
		out, err = s.st.Matches.GetByID(ctx, m.ID)
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrInvalidInput) {
			s.log.Error().Err(err).Int64("team1", in.Team1ID).Int64("team2", in.Team2ID).Msg("create match failed")
		}
		return model.Match{}, persistenceError(err)
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("match_id", out.ID).Msg("match created")
	return out, nil
}

func (s *matchService) GetMatch(ctx context.Context, id int64) (model.Match, error) {
	if id <= 0 {
		return model.Match{}, NewInvalidInputError([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	return s.st.Matches.GetByID(ctx, id)
}

func (s *matchService) ListMatches(ctx context.Context, page repository.Page) (repository.PageResult[model.Match], error) {
	p := normalizePage(page)
	res, err := s.st.Matches.List(ctx, p)
	if err != nil {
		s.log.Error().Err(err).Int("limit", p.Limit).Int("offset", p.Offset).Msg("list matches failed")
		return repository.PageResult[model.Match]{}, err
	}
	return res, nil
}

// UpdateMatch is refused: scores live in the MatchTeam rows and the team
// averages derived from them, so a match is deleted and recreated instead.
func (s *matchService) UpdateMatch(context.Context, int64) error { return ErrNotImplemented }

func (s *matchService) PartialUpdateMatch(context.Context, int64) error { return ErrNotImplemented }

// DeleteMatch removes the match with its MatchTeam and MatchPlayer rows, then
// refreshes both teams and every player that had a performance in it.
// Locks go teams, then the match, then players. Holding the match lock before
// the performances are listed keeps a concurrent CreateMatchPlayer from adding
// a row the refresh would miss.
func (s *matchService) DeleteMatch(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewInvalidInputError([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	start := time.Now()
	err := s.st.Tx.WithinTx(ctx, func(ctx context.Context) error {
		m, err := s.st.Matches.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.agg.lockTeams(ctx, m.Team1ID, m.Team2ID); err != nil {
			return err
		}
		if _, err := s.st.Matches.LockByID(ctx, id); err != nil {
			return err
		}

		rows, err := s.st.MatchPlayers.ListByMatch(ctx, id)
		if err != nil {
			return errors.Wrap(err, "list match players")
		}
		playerIDs := make([]int64, 0, len(rows))
		for _, r := range rows {
			playerIDs = append(playerIDs, r.PlayerID)
		}
		if err := s.agg.lockPlayers(ctx, playerIDs...); err != nil {
			return err
		}

		if _, err := s.st.MatchTeams.DeleteByMatch(ctx, id); err != nil {
			return errors.Wrap(err, "delete match teams")
		}
		if err := s.st.Matches.Delete(ctx, id); err != nil {
			return err
		}
		if err := s.agg.refreshTeams(ctx, m.Team1ID, m.Team2ID); err != nil {
			return err
		}
		return s.agg.refreshPlayers(ctx, playerIDs...)
	})
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Error().Err(err).Int64("match_id", id).Msg("delete match failed")
		}
		return persistenceError(err)
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("match_id", id).Msg("match deleted")
	return nil
}
