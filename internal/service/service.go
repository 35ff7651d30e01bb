// Package service holds business logic orchestration across repositories and handlers.
// Kept intentionally lean: only use-case coordination, validation and domain error shaping.
package service

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/maxviazov/tournament-stats-service/internal/model"
	"github.com/maxviazov/tournament-stats-service/internal/repository"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// ErrNotImplemented is returned by operations that are refused on purpose (maps to HTTP 501).
var ErrNotImplemented = errors.New("not implemented")

// ErrPersistence marks a failed unit of work on the match write path (maps to HTTP 500).
// The storage cause stays reachable through errors.Is / errors.As.
var ErrPersistence = errors.New("persistence failure")

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// NewInvalidInputError builds an aggregated validation error if any field errors are present.
func NewInvalidInputError(fe []FieldError) error {
	if len(fe) == 0 {
		return nil
	}
	return &invalidInputError{fields: fe}
}

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	var ie *invalidInputError
	if errors.As(err, &ie) {
		return ie.Fields()
	}
	return nil
}

// persistenceError marks storage failures as ErrPersistence. Validation and
// not-found outcomes are client facing and pass through untouched.
func persistenceError(err error) error {
	if err == nil || errors.Is(err, ErrInvalidInput) || errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return errors.Mark(err, ErrPersistence)
}

// Stores groups the repositories the services coordinate over one storage backend.
type Stores struct {
	Tx           repository.TxManager
	Teams        repository.TeamRepository
	Coaches      repository.CoachRepository
	Players      repository.PlayerRepository
	Matches      repository.MatchRepository
	MatchTeams   repository.MatchTeamRepository
	MatchPlayers repository.MatchPlayerRepository
}

// TeamService defines team-oriented use cases.
type TeamService interface {
	CreateTeam(ctx context.Context, name string) (model.Team, error)
	GetTeam(ctx context.Context, id int64) (model.Team, error)
	ListTeams(ctx context.Context, page repository.Page) (repository.PageResult[model.Team], error)
	RenameTeam(ctx context.Context, id int64, name string) (model.Team, error)
	DeleteTeam(ctx context.Context, id int64) error
	ListTeamPlayers(ctx context.Context, teamID int64, page repository.Page) (repository.PageResult[model.Player], error)
}

// CoachService defines coach-oriented use cases.
type CoachService interface {
	CreateCoach(ctx context.Context, name string, teamID int64) (model.Coach, error)
	GetCoach(ctx context.Context, id int64) (model.Coach, error)
	ListCoaches(ctx context.Context, page repository.Page) (repository.PageResult[model.Coach], error)
	UpdateCoach(ctx context.Context, id int64, name string, teamID int64) (model.Coach, error)
	DeleteCoach(ctx context.Context, id int64) error
}

// PlayerService defines player-oriented use cases.
type PlayerService interface {
	CreatePlayer(ctx context.Context, in model.PlayerInput) (model.Player, error)
	GetPlayer(ctx context.Context, id int64) (model.Player, error)
	ListPlayers(ctx context.Context, page repository.Page) (repository.PageResult[model.Player], error)
	UpdatePlayer(ctx context.Context, id int64, in model.PlayerInput) (model.Player, error)
	DeletePlayer(ctx context.Context, id int64) error
}

// MatchService owns the match lifecycle: a match is created and deleted together
// with its two MatchTeam rows and the refresh of both team averages.
type MatchService interface {
	CreateMatch(ctx context.Context, in model.MatchInput) (model.Match, error)
	GetMatch(ctx context.Context, id int64) (model.Match, error)
	ListMatches(ctx context.Context, page repository.Page) (repository.PageResult[model.Match], error)
	UpdateMatch(ctx context.Context, id int64) error
	PartialUpdateMatch(ctx context.Context, id int64) error
	DeleteMatch(ctx context.Context, id int64) error
}

// MatchPlayerService owns player performances within a match and the refresh
// of the player's average score and match count.
type MatchPlayerService interface {
	ListMatchPlayers(ctx context.Context, matchID int64) ([]model.MatchPlayer, error)
	CreateMatchPlayer(ctx context.Context, matchID int64, in model.MatchPlayerInput) (model.MatchPlayer, error)
	UpdateMatchPlayer(ctx context.Context, matchID int64, in model.MatchPlayerInput) (model.MatchPlayer, error)
	DeleteMatchPlayer(ctx context.Context, matchID int64) error
	PartialUpdateMatchPlayer(ctx context.Context, matchID int64) error
}
