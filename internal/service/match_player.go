package service

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/maxviazov/tournament-stats-service/internal/model"
	"github.com/maxviazov/tournament-stats-service/internal/repository"
	"github.com/rs/zerolog"
)

type matchPlayerService struct {
	st  Stores
	agg refresher
	log zerolog.Logger
}

func NewMatchPlayerService(st Stores, logger zerolog.Logger) MatchPlayerService {
	l := logger.With().Str("module", "service").Str("component", "match_player").Logger()
	return &matchPlayerService{st: st, agg: newRefresher(st), log: l}
}

// ListMatchPlayers returns the recorded performances of a match. An unknown
// match has no performances, so the result is an empty slice rather than an error.
func (s *matchPlayerService) ListMatchPlayers(ctx context.Context, matchID int64) ([]model.MatchPlayer, error) {
	rows, err := s.st.MatchPlayers.ListByMatch(ctx, matchID)
	if err != nil {
		s.log.Error().Err(err).Int64("match_id", matchID).Msg("list match players failed")
		return nil, err
	}
	return rows, nil
}

func (s *matchPlayerService) CreateMatchPlayer(ctx context.Context, matchID int64, in model.MatchPlayerInput) (model.MatchPlayer, error) {
	start := time.Now()
	if in.MatchID == 0 {
		in.MatchID = matchID
	}

	var ferrs []FieldError
	ferrs = checkID(ferrs, "match", matchID)
	if matchID > 0 && in.MatchID != matchID {
		ferrs = append(ferrs, FieldError{Field: "match", Message: "must equal the match in the path"})
	}
	ferrs = checkID(ferrs, "player", in.PlayerID)
	ferrs = checkScore(ferrs, "score", in.Score)
	if err := NewInvalidInputError(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Int64("match_id", matchID).Msg("match player validation failed")
		return model.MatchPlayer{}, err
	}

	var out model.MatchPlayer
	err := s.st.Tx.WithinTx(ctx, func(ctx context.Context) error {
		// match before player, the order DeleteMatch locks in
		var missing []FieldError
		if _, err := s.st.Matches.ShareByID(ctx, matchID); err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				return errors.Wrap(err, "share match")
			}
			missing = append(missing, FieldError{Field: "match", Message: "match does not exist"})
		}
		if _, err := s.st.Players.LockByID(ctx, in.PlayerID); err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				return errors.Wrapf(err, "lock player %d", in.PlayerID)
			}
			missing = append(missing, FieldError{Field: "player", Message: "player does not exist"})
		}
		if err := NewInvalidInputError(missing); err != nil {
			return err
		}

		switch _, err := s.st.MatchPlayers.Get(ctx, matchID, in.PlayerID); {
		case err == nil:
			return NewInvalidInputError([]FieldError{{Field: "player", Message: "already has a score recorded for this match"}})
		case !errors.Is(err, repository.ErrNotFound):
			return errors.Wrap(err, "get match player")
		}

		created, err := s.st.MatchPlayers.Create(ctx, model.MatchPlayer{MatchID: matchID, PlayerID: in.PlayerID, Score: *in.Score})
		if err != nil {
			return errors.Wrap(err, "insert match player")
		}
		if err := s.agg.refreshPlayers(ctx, in.PlayerID); err != nil {
			return err
		}
		out = created
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrInvalidInput) {
			s.log.Error().Err(err).Int64("match_id", matchID).Int64("player_id", in.PlayerID).Msg("create match player failed")
		}
		return model.MatchPlayer{}, persistenceError(err)
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("match_id", matchID).Int64("player_id", in.PlayerID).Msg("match player created")
	return out, nil
}

// UpdateMatchPlayer rewrites the score of the (match, player) row. A missing row
// is ErrNotFound; a payload match that does not resolve is a validation error.
func (s *matchPlayerService) UpdateMatchPlayer(ctx context.Context, matchID int64, in model.MatchPlayerInput) (model.MatchPlayer, error) {
	start := time.Now()
	var ferrs []FieldError
	ferrs = checkID(ferrs, "player", in.PlayerID)
	ferrs = checkScore(ferrs, "score", in.Score)
	if in.MatchID < 0 {
		ferrs = append(ferrs, FieldError{Field: "match", Message: "must be > 0"})
	}
	if err := NewInvalidInputError(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Int64("match_id", matchID).Msg("match player validation failed")
		return model.MatchPlayer{}, err
	}

	var out model.MatchPlayer
	err := s.st.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.st.Matches.ShareByID(ctx, matchID); err != nil {
			return err
		}
		if _, err := s.st.MatchPlayers.Get(ctx, matchID, in.PlayerID); err != nil {
			return err
		}
		if in.MatchID != 0 {
			if _, err := s.st.Matches.GetByID(ctx, in.MatchID); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return NewInvalidInputError([]FieldError{{Field: "match", Message: "match does not exist"}})
				}
				return errors.Wrap(err, "get payload match")
			}
			if in.MatchID != matchID {
				return NewInvalidInputError([]FieldError{{Field: "match", Message: "must equal the match in the path"}})
			}
		}

		if err := s.agg.lockPlayers(ctx, in.PlayerID); err != nil {
			return err
		}
		updated, err := s.st.MatchPlayers.UpdateScore(ctx, matchID, in.PlayerID, *in.Score)
		if err != nil {
			return errors.Wrap(err, "update match player")
		}
		if err := s.agg.refreshPlayers(ctx, in.PlayerID); err != nil {
			return err
		}
		out = updated
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrInvalidInput) && !errors.Is(err, repository.ErrNotFound) {
			s.log.Error().Err(err).Int64("match_id", matchID).Int64("player_id", in.PlayerID).Msg("update match player failed")
		}
		return model.MatchPlayer{}, persistenceError(err)
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("match_id", matchID).Int64("player_id", in.PlayerID).Msg("match player updated")
	return out, nil
}

// DeleteMatchPlayer is refused: a performance leaves only through the cascade
// of its match or player.
func (s *matchPlayerService) DeleteMatchPlayer(context.Context, int64) error {
	return ErrNotImplemented
}

func (s *matchPlayerService) PartialUpdateMatchPlayer(context.Context, int64) error {
	return ErrNotImplemented
}
