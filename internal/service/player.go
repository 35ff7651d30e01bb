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

type playerService struct {
	players repository.PlayerRepository
	teams   repository.TeamRepository
	log     zerolog.Logger
}

func NewPlayerService(players repository.PlayerRepository, teams repository.TeamRepository, logger zerolog.Logger) PlayerService {
	l := logger.With().Str("module", "service").Str("component", "player").Logger()
	return &playerService{players: players, teams: teams, log: l}
}

// validate normalizes the input and checks the team reference exists.
// Derived fields are not part of PlayerInput, so clients can never set them.
func (s *playerService) validate(ctx context.Context, in *model.PlayerInput) error {
	in.Name = strings.TrimSpace(in.Name)

	var ferrs []FieldError
	ferrs = checkID(ferrs, "team", in.TeamID)
	ferrs = checkName(ferrs, "name", in.Name, 1, maxLongName)
	ferrs = checkHeight(ferrs, in.Height)
	if err := NewInvalidInputError(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Msg("player validation failed")
		return err
	}

	// Existence check improves client UX vs deferring to FK violation.
	ok, err := s.teams.Exists(ctx, in.TeamID)
	if err != nil {
		return err
	}
	if !ok {
		return NewInvalidInputError([]FieldError{{Field: "team", Message: "team does not exist"}})
	}
	return nil
}

func (s *playerService) CreatePlayer(ctx context.Context, in model.PlayerInput) (model.Player, error) {
	start := time.Now()
	if err := s.validate(ctx, &in); err != nil {
		return model.Player{}, err
	}
	out, err := s.players.Create(ctx, model.Player{TeamID: in.TeamID, Name: in.Name, Height: in.Height})
	if err != nil {
		s.log.Error().Err(err).Int64("team_id", in.TeamID).Str("name", in.Name).Msg("create player failed")
		return model.Player{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("player_id", out.ID).Msg("player created")
	return out, nil
}

func (s *playerService) GetPlayer(ctx context.Context, id int64) (model.Player, error) {
	if id <= 0 {
		return model.Player{}, NewInvalidInputError([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	return s.players.GetByID(ctx, id)
}

func (s *playerService) ListPlayers(ctx context.Context, page repository.Page) (repository.PageResult[model.Player], error) {
	p := normalizePage(page)
	res, err := s.players.List(ctx, p)
	if err != nil {
		s.log.Error().Err(err).Int("limit", p.Limit).Int("offset", p.Offset).Msg("list players failed")
		return repository.PageResult[model.Player]{}, err
	}
	return res, nil
}

func (s *playerService) UpdatePlayer(ctx context.Context, id int64, in model.PlayerInput) (model.Player, error) {
	if id <= 0 {
		return model.Player{}, NewInvalidInputError([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	if err := s.validate(ctx, &in); err != nil {
		return model.Player{}, err
	}
	out, err := s.players.Update(ctx, model.Player{ID: id, TeamID: in.TeamID, Name: in.Name, Height: in.Height})
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.log.Error().Err(err).Int64("player_id", id).Msg("update player failed")
	}
	return out, err
}

// DeletePlayer drops the player; its MatchPlayer rows go with it.
func (s *playerService) DeletePlayer(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewInvalidInputError([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	if err := s.players.Delete(ctx, id); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Error().Err(err).Int64("player_id", id).Msg("delete player failed")
		}
		return err
	}
	s.log.Info().Int64("player_id", id).Msg("player deleted")
	return nil
}
