package service_test

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/maxviazov/tournament-stats-service/internal/model"
	"github.com/maxviazov/tournament-stats-service/internal/repository"
	"github.com/maxviazov/tournament-stats-service/internal/repository/memory"
	"github.com/maxviazov/tournament-stats-service/internal/service"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	st           service.Stores
	teams        service.TeamService
	players      service.PlayerService
	matches      service.MatchService
	matchPlayers service.MatchPlayerService
}

func storesOf(s *memory.Store) service.Stores {
	return service.Stores{
		Tx:           s.TxManager(),
		Teams:        s.Teams(),
		Coaches:      s.Coaches(),
		Players:      s.Players(),
		Matches:      s.Matches(),
		MatchTeams:   s.MatchTeams(),
		MatchPlayers: s.MatchPlayers(),
	}
}

func newFixture(t *testing.T, st service.Stores) fixture {
	t.Helper()
	log := zerolog.Nop()
	return fixture{
		st:           st,
		teams:        service.NewTeamService(st, log),
		players:      service.NewPlayerService(st.Players, st.Teams, log),
		matches:      service.NewMatchService(st, log),
		matchPlayers: service.NewMatchPlayerService(st, log),
	}
}

func ptr(v int) *int { return &v }

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(2))
}

func (f fixture) team(t *testing.T, name string) model.Team {
	t.Helper()
	team, err := f.teams.CreateTeam(context.Background(), name)
	require.NoError(t, err)
	return team
}

func (f fixture) player(t *testing.T, teamID int64, name string) model.Player {
	t.Helper()
	p, err := f.players.CreatePlayer(context.Background(), model.PlayerInput{TeamID: teamID, Name: name, Height: decimal.RequireFromString("1.90")})
	require.NoError(t, err)
	return p
}

func (f fixture) match(t *testing.T, team1, team2 int64, s1, s2 int) model.Match {
	t.Helper()
	m, err := f.matches.CreateMatch(context.Background(), model.MatchInput{
		ScheduledDate: time.Date(2024, 7, 27, 0, 0, 0, 0, time.UTC),
		Stadium:       "Pierre Mauroy",
		Round:         "Qualifying Round",
		Team1ID:       team1,
		Team2ID:       team2,
		Team1Score:    ptr(s1),
		Team2Score:    ptr(s2),
	})
	require.NoError(t, err)
	return m
}

func (f fixture) reloadTeam(t *testing.T, id int64) model.Team {
	t.Helper()
	team, err := f.teams.GetTeam(context.Background(), id)
	require.NoError(t, err)
	return team
}

func (f fixture) reloadPlayer(t *testing.T, id int64) model.Player {
	t.Helper()
	p, err := f.players.GetPlayer(context.Background(), id)
	require.NoError(t, err)
	return p
}

func TestFieldErrors(t *testing.T) {
	err := service.NewInvalidInputError([]service.FieldError{{Field: "name", Message: "must not be empty"}})
	require.ErrorIs(t, err, service.ErrInvalidInput)
	assert.Equal(t, []service.FieldError{{Field: "name", Message: "must not be empty"}}, service.FieldErrors(err))

	assert.NoError(t, service.NewInvalidInputError(nil))
	assert.Nil(t, service.FieldErrors(errors.New("other")))
}

// faultyMatchTeams fails the n-th Create to exercise rollback of a half-written match.
type faultyMatchTeams struct {
	repository.MatchTeamRepository
	failOn int
	calls  int
	err    error
}

func (f *faultyMatchTeams) Create(ctx context.Context, mt model.MatchTeam) (model.MatchTeam, error) {
	f.calls++
	if f.calls == f.failOn {
		return model.MatchTeam{}, f.err
	}
	return f.MatchTeamRepository.Create(ctx, mt)
}

// faultyPlayers fails UpdateAggregates to exercise rollback after the join row was written.
type faultyPlayers struct {
	repository.PlayerRepository
	err error
}

func (f *faultyPlayers) UpdateAggregates(context.Context, int64, decimal.Decimal, int) error {
	return f.err
}

// callLog records the storage calls a use case makes, in order.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(call string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

// before reports whether the first a happened earlier than the first b.
func (l *callLog) before(a, b string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	ia, ib := slices.Index(l.calls, a), slices.Index(l.calls, b)
	return ia >= 0 && ib >= 0 && ia < ib
}

type recordingMatches struct {
	repository.MatchRepository
	log *callLog
}

func (r recordingMatches) LockByID(ctx context.Context, id int64) (model.Match, error) {
	r.log.add("match.lock")
	return r.MatchRepository.LockByID(ctx, id)
}

func (r recordingMatches) ShareByID(ctx context.Context, id int64) (model.Match, error) {
	r.log.add("match.share")
	return r.MatchRepository.ShareByID(ctx, id)
}

type recordingMatchPlayers struct {
	repository.MatchPlayerRepository
	log *callLog
}

func (r recordingMatchPlayers) ListByMatch(ctx context.Context, matchID int64) ([]model.MatchPlayer, error) {
	r.log.add("match_players.list")
	return r.MatchPlayerRepository.ListByMatch(ctx, matchID)
}

type recordingPlayers struct {
	repository.PlayerRepository
	log *callLog
}

func (r recordingPlayers) LockByID(ctx context.Context, id int64) (model.Player, error) {
	r.log.add("player.lock")
	return r.PlayerRepository.LockByID(ctx, id)
}

type recordingTeams struct {
	repository.TeamRepository
	log *callLog
}

func (r recordingTeams) LockByID(ctx context.Context, id int64) (model.Team, error) {
	r.log.add("team.lock")
	return r.TeamRepository.LockByID(ctx, id)
}

// recorded wraps the lock-relevant repositories of st with call recording.
func recorded(st service.Stores) (service.Stores, *callLog) {
	log := &callLog{}
	st.Matches = recordingMatches{st.Matches, log}
	st.MatchPlayers = recordingMatchPlayers{st.MatchPlayers, log}
	st.Players = recordingPlayers{st.Players, log}
	st.Teams = recordingTeams{st.Teams, log}
	return st, log
}
