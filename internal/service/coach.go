package service

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/maxviazov/tournament-stats-service/internal/model"
	"github.com/maxviazov/tournament-stats-service/internal/repository"
	"github.com/rs/zerolog"
)

type coachService struct {
	coaches repository.CoachRepository
	teams   repository.TeamRepository
	log     zerolog.Logger
}

func NewCoachService(coaches repository.CoachRepository, teams repository.TeamRepository, logger zerolog.Logger) CoachService {
	l := logger.With().Str("module", "service").Str("component", "coach").Logger()
	return &coachService{coaches: coaches, teams: teams, log: l}
}

func (s *coachService) check(ctx context.Context, name string, teamID int64) error {
	ferrs := checkName(nil, "name", name, 1, maxLongName)
	ferrs = checkID(ferrs, "team", teamID)
	if err := NewInvalidInputError(ferrs); err != nil {
		return err
	}
	ok, err := s.teams.Exists(ctx, teamID)
	if err != nil {
		return err
	}
	if !ok {
		return NewInvalidInputError([]FieldError{{Field: "team", Message: "team does not exist"}})
	}
	return nil
}

func (s *coachService) CreateCoach(ctx context.Context, name string, teamID int64) (model.Coach, error) {
	name = strings.TrimSpace(name)
	if err := s.check(ctx, name, teamID); err != nil {
		return model.Coach{}, err
	}
	out, err := s.coaches.Create(ctx, model.Coach{Name: name, TeamID: teamID})
	if err != nil {
		s.log.Error().Err(err).Int64("team_id", teamID).Msg("create coach failed")
		return model.Coach{}, err
	}
	s.log.Info().Int64("coach_id", out.ID).Int64("team_id", teamID).Msg("coach created")
	return out, nil
}

func (s *coachService) GetCoach(ctx context.Context, id int64) (model.Coach, error) {
	if id <= 0 {
		return model.Coach{}, NewInvalidInputError([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	return s.coaches.GetByID(ctx, id)
}

func (s *coachService) ListCoaches(ctx context.Context, page repository.Page) (repository.PageResult[model.Coach], error) {
	return s.coaches.List(ctx, normalizePage(page))
}

func (s *coachService) UpdateCoach(ctx context.Context, id int64, name string, teamID int64) (model.Coach, error) {
	if id <= 0 {
		return model.Coach{}, NewInvalidInputError([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	name = strings.TrimSpace(name)
	if err := s.check(ctx, name, teamID); err != nil {
		return model.Coach{}, err
	}
	out, err := s.coaches.Update(ctx, model.Coach{ID: id, Name: name, TeamID: teamID})
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.log.Error().Err(err).Int64("coach_id", id).Msg("update coach failed")
	}
	return out, err
}

func (s *coachService) DeleteCoach(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewInvalidInputError([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	return s.coaches.Delete(ctx, id)
}
