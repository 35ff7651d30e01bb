package repository

import (
	"context"

	"github.com/maxviazov/tournament-stats-service/internal/model"
	"github.com/shopspring/decimal"
)

// Pinger represents a minimal readiness probe capability.
// I use it to decouple health checks from storage implementation details.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc is the unit of work executed within a transaction boundary.
// I pass context through so nested calls can honor cancellations and deadlines.
type TxFunc func(ctx context.Context) error

// TxManager abstracts transactional execution for repositories that support it.
// Repositories called with the ctx handed to fn join the same transaction.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// TeamRepository declares persistence operations for teams.
// I return domain models and surface domain errors from errors.go rather than PG codes.
type TeamRepository interface {
	Create(ctx context.Context, t model.Team) (model.Team, error)
	GetByID(ctx context.Context, id int64) (model.Team, error)
	List(ctx context.Context, p Page) (PageResult[model.Team], error)
	Rename(ctx context.Context, id int64, name string) (model.Team, error)
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
	// LockByID takes a row lock that serializes aggregate refreshes for the team
	// until the surrounding transaction ends. Returns ErrNotFound for unknown ids.
	LockByID(ctx context.Context, id int64) (model.Team, error)
	UpdateAverageScore(ctx context.Context, id int64, avg decimal.Decimal) error
}

// CoachRepository declares persistence operations for coaches.
type CoachRepository interface {
	Create(ctx context.Context, c model.Coach) (model.Coach, error)
	GetByID(ctx context.Context, id int64) (model.Coach, error)
	List(ctx context.Context, p Page) (PageResult[model.Coach], error)
	Update(ctx context.Context, c model.Coach) (model.Coach, error)
	Delete(ctx context.Context, id int64) error
}

// PlayerRepository declares persistence operations for players.
type PlayerRepository interface {
	Create(ctx context.Context, p model.Player) (model.Player, error)
	GetByID(ctx context.Context, id int64) (model.Player, error)
	List(ctx context.Context, p Page) (PageResult[model.Player], error)
	ListByTeam(ctx context.Context, teamID int64, p Page) (PageResult[model.Player], error)
	// Update writes name, height and team only; derived fields are left alone.
	Update(ctx context.Context, p model.Player) (model.Player, error)
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
	LockByID(ctx context.Context, id int64) (model.Player, error)
	UpdateAggregates(ctx context.Context, id int64, avg decimal.Decimal, matches int) error
}

// MatchRepository declares persistence operations for matches.
// Create stores the match row only; MatchTeam rows are written separately.
type MatchRepository interface {
	Create(ctx context.Context, m model.Match) (model.Match, error)
	GetByID(ctx context.Context, id int64) (model.Match, error)
	List(ctx context.Context, p Page) (PageResult[model.Match], error)
	ListIDsByTeam(ctx context.Context, teamID int64) ([]int64, error)
	Delete(ctx context.Context, id int64) error
	// LockByID locks the match row exclusively. Inserts of rows referencing the
	// match wait for the holder and fail once it has deleted the match.
	LockByID(ctx context.Context, id int64) (model.Match, error)
	// ShareByID keeps the match from being deleted until the transaction ends
	// without blocking other sharers. Returns ErrNotFound for unknown ids.
	ShareByID(ctx context.Context, id int64) (model.Match, error)
}

// MatchTeamRepository declares operations on team-in-match rows.
type MatchTeamRepository interface {
	Create(ctx context.Context, mt model.MatchTeam) (model.MatchTeam, error)
	ListByMatch(ctx context.Context, matchID int64) ([]model.MatchTeam, error)
	ListByTeam(ctx context.Context, teamID int64) ([]model.MatchTeam, error)
	DeleteByMatch(ctx context.Context, matchID int64) (int64, error)
}

// MatchPlayerRepository declares operations on player-in-match rows.
type MatchPlayerRepository interface {
	Create(ctx context.Context, mp model.MatchPlayer) (model.MatchPlayer, error)
	Get(ctx context.Context, matchID, playerID int64) (model.MatchPlayer, error)
	UpdateScore(ctx context.Context, matchID, playerID int64, score int) (model.MatchPlayer, error)
	ListByMatch(ctx context.Context, matchID int64) ([]model.MatchPlayer, error)
	ListByPlayer(ctx context.Context, playerID int64) ([]model.MatchPlayer, error)
}
