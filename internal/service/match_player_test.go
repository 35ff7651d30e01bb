package service_test

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/maxviazov/tournament-stats-service/internal/model"
	"github.com/maxviazov/tournament-stats-service/internal/repository"
	"github.com/maxviazov/tournament-stats-service/internal/repository/memory"
	"github.com/maxviazov/tournament-stats-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchPlayer_AggregatesFollowEveryWrite(t *testing.T) {
	f := newFixture(t, storesOf(memory.NewStore()))
	ctx := context.Background()
	team, rival := f.team(t, "Team T"), f.team(t, "Rival")
	p := f.player(t, team.ID, "Player P")
	m1 := f.match(t, team.ID, rival.ID, 60, 50)
	m2 := f.match(t, rival.ID, team.ID, 70, 72)

	created, err := f.matchPlayers.CreateMatchPlayer(ctx, m1.ID, model.MatchPlayerInput{PlayerID: p.ID, MatchID: m1.ID, Score: ptr(4)})
	require.NoError(t, err)
	assert.Equal(t, "Player P", created.PlayerName)
	pl := f.reloadPlayer(t, p.ID)
	assert.Equal(t, 1, pl.Matches)
	assertDec(t, "4.00", pl.AverageScore)

	_, err = f.matchPlayers.CreateMatchPlayer(ctx, m2.ID, model.MatchPlayerInput{PlayerID: p.ID, Score: ptr(8)})
	require.NoError(t, err)
	pl = f.reloadPlayer(t, p.ID)
	assert.Equal(t, 2, pl.Matches)
	assertDec(t, "6.00", pl.AverageScore)

	for i := 0; i < 2; i++ {
		updated, err := f.matchPlayers.UpdateMatchPlayer(ctx, m1.ID, model.MatchPlayerInput{PlayerID: p.ID, MatchID: m1.ID, Score: ptr(0)})
		require.NoError(t, err)
		assert.Equal(t, 0, updated.Score)
		pl = f.reloadPlayer(t, p.ID)
		assert.Equal(t, 2, pl.Matches)
		assertDec(t, "4.00", pl.AverageScore)
	}

	rows, err := f.matchPlayers.ListMatchPlayers(ctx, m1.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, p.ID, rows[0].PlayerID)
}

func TestListMatchPlayers_EmptyNotError(t *testing.T) {
	f := newFixture(t, storesOf(memory.NewStore()))
	a, b := f.team(t, "A1"), f.team(t, "B1")
	m := f.match(t, a.ID, b.ID, 1, 2)

	rows, err := f.matchPlayers.ListMatchPlayers(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = f.matchPlayers.ListMatchPlayers(context.Background(), 987654)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCreateMatchPlayer_Validation(t *testing.T) {
	f := newFixture(t, storesOf(memory.NewStore()))
	ctx := context.Background()
	a, b := f.team(t, "A1"), f.team(t, "B1")
	p := f.player(t, a.ID, "Shooter")
	m := f.match(t, a.ID, b.ID, 1, 2)
	other := f.match(t, a.ID, b.ID, 3, 4)

	tests := []struct {
		name    string
		matchID int64
		in      model.MatchPlayerInput
		field   string
	}{
		{"missing score", m.ID, model.MatchPlayerInput{PlayerID: p.ID}, "score"},
		{"negative score", m.ID, model.MatchPlayerInput{PlayerID: p.ID, Score: ptr(-2)}, "score"},
		{"score above integer range", m.ID, model.MatchPlayerInput{PlayerID: p.ID, Score: ptr(3_000_000_000)}, "score"},
		{"score above average range", m.ID, model.MatchPlayerInput{PlayerID: p.ID, Score: ptr(10000)}, "score"},
		{"missing player", m.ID, model.MatchPlayerInput{Score: ptr(1)}, "player"},
		{"unknown player", m.ID, model.MatchPlayerInput{PlayerID: 999, Score: ptr(1)}, "player"},
		{"unknown match", 999, model.MatchPlayerInput{PlayerID: p.ID, Score: ptr(1)}, "match"},
		{"payload match differs", m.ID, model.MatchPlayerInput{PlayerID: p.ID, MatchID: other.ID, Score: ptr(1)}, "match"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.matchPlayers.CreateMatchPlayer(ctx, tc.matchID, tc.in)
			require.ErrorIs(t, err, service.ErrInvalidInput)
			fields := service.FieldErrors(err)
			require.NotEmpty(t, fields)
			assert.Equal(t, tc.field, fields[0].Field)
		})
	}
	assert.Zero(t, f.reloadPlayer(t, p.ID).Matches)
}

func TestCreateMatchPlayer_DuplicateRejected(t *testing.T) {
	f := newFixture(t, storesOf(memory.NewStore()))
	ctx := context.Background()
	a, b := f.team(t, "A1"), f.team(t, "B1")
	p := f.player(t, a.ID, "Shooter")
	m := f.match(t, a.ID, b.ID, 1, 2)

	_, err := f.matchPlayers.CreateMatchPlayer(ctx, m.ID, model.MatchPlayerInput{PlayerID: p.ID, Score: ptr(10)})
	require.NoError(t, err)
	_, err = f.matchPlayers.CreateMatchPlayer(ctx, m.ID, model.MatchPlayerInput{PlayerID: p.ID, Score: ptr(30)})
	require.ErrorIs(t, err, service.ErrInvalidInput)

	pl := f.reloadPlayer(t, p.ID)
	assert.Equal(t, 1, pl.Matches)
	assertDec(t, "10.00", pl.AverageScore)
}

func TestCreateMatchPlayer_RollsBackOnStorageFailure(t *testing.T) {
	store := memory.NewStore()
	healthy := newFixture(t, storesOf(store))
	a, b := healthy.team(t, "A1"), healthy.team(t, "B1")
	p := healthy.player(t, a.ID, "Shooter")
	m := healthy.match(t, a.ID, b.ID, 1, 2)

	st := storesOf(store)
	boom := errors.New("disk full")
	st.Players = &faultyPlayers{PlayerRepository: st.Players, err: boom}
	broken := newFixture(t, st)

	_, err := broken.matchPlayers.CreateMatchPlayer(context.Background(), m.ID, model.MatchPlayerInput{PlayerID: p.ID, Score: ptr(12)})
	require.True(t, errors.Is(err, service.ErrPersistence), "expected persistence error, got %v", err)
	assert.True(t, errors.Is(err, boom))

	rows, err := store.MatchPlayers().ListByPlayer(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestUpdateMatchPlayer_MissingRowIsNotFound(t *testing.T) {
	f := newFixture(t, storesOf(memory.NewStore()))
	ctx := context.Background()
	a, b := f.team(t, "A1"), f.team(t, "B1")
	p := f.player(t, a.ID, "Shooter")
	m1 := f.match(t, a.ID, b.ID, 1, 2)
	m2 := f.match(t, a.ID, b.ID, 3, 4)
	_, err := f.matchPlayers.CreateMatchPlayer(ctx, m1.ID, model.MatchPlayerInput{PlayerID: p.ID, Score: ptr(9)})
	require.NoError(t, err)

	_, err = f.matchPlayers.UpdateMatchPlayer(ctx, m2.ID, model.MatchPlayerInput{PlayerID: p.ID, Score: ptr(1)})
	require.ErrorIs(t, err, repository.ErrNotFound)
	assert.NotErrorIs(t, err, service.ErrInvalidInput)

	pl := f.reloadPlayer(t, p.ID)
	assert.Equal(t, 1, pl.Matches)
	assertDec(t, "9.00", pl.AverageScore)
}

func TestUpdateMatchPlayer_PayloadMatchChecks(t *testing.T) {
	f := newFixture(t, storesOf(memory.NewStore()))
	ctx := context.Background()
	a, b := f.team(t, "A1"), f.team(t, "B1")
	p := f.player(t, a.ID, "Shooter")
	m1 := f.match(t, a.ID, b.ID, 1, 2)
	m2 := f.match(t, a.ID, b.ID, 3, 4)
	_, err := f.matchPlayers.CreateMatchPlayer(ctx, m1.ID, model.MatchPlayerInput{PlayerID: p.ID, Score: ptr(9)})
	require.NoError(t, err)

	_, err = f.matchPlayers.UpdateMatchPlayer(ctx, m1.ID, model.MatchPlayerInput{PlayerID: p.ID, MatchID: 5555, Score: ptr(1)})
	require.ErrorIs(t, err, service.ErrInvalidInput)
	assert.Equal(t, "match", service.FieldErrors(err)[0].Field)

	_, err = f.matchPlayers.UpdateMatchPlayer(ctx, m1.ID, model.MatchPlayerInput{PlayerID: p.ID, MatchID: m2.ID, Score: ptr(1)})
	require.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = f.matchPlayers.UpdateMatchPlayer(ctx, m1.ID, model.MatchPlayerInput{PlayerID: p.ID})
	require.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = f.matchPlayers.UpdateMatchPlayer(ctx, m1.ID, model.MatchPlayerInput{PlayerID: p.ID, Score: ptr(3_000_000_000)})
	require.ErrorIs(t, err, service.ErrInvalidInput)
	assert.Equal(t, "score", service.FieldErrors(err)[0].Field)

	assertDec(t, "9.00", f.reloadPlayer(t, p.ID).AverageScore)
}

func TestMatchPlayerMutations_NotImplemented(t *testing.T) {
	f := newFixture(t, storesOf(memory.NewStore()))
	assert.ErrorIs(t, f.matchPlayers.DeleteMatchPlayer(context.Background(), 1), service.ErrNotImplemented)
	assert.ErrorIs(t, f.matchPlayers.PartialUpdateMatchPlayer(context.Background(), 1), service.ErrNotImplemented)
}

func TestMatchPlayerWrites_ShareMatchBeforePlayerLock(t *testing.T) {
	st, calls := recorded(storesOf(memory.NewStore()))
	f := newFixture(t, st)
	ctx := context.Background()
	a, b := f.team(t, "A1"), f.team(t, "B1")
	p := f.player(t, a.ID, "Shooter")
	m := f.match(t, a.ID, b.ID, 1, 2)

	calls.calls = nil
	_, err := f.matchPlayers.CreateMatchPlayer(ctx, m.ID, model.MatchPlayerInput{PlayerID: p.ID, Score: ptr(6)})
	require.NoError(t, err)
	assert.True(t, calls.before("match.share", "player.lock"), "create: %v", calls.calls)

	calls.calls = nil
	_, err = f.matchPlayers.UpdateMatchPlayer(ctx, m.ID, model.MatchPlayerInput{PlayerID: p.ID, Score: ptr(4)})
	require.NoError(t, err)
	assert.True(t, calls.before("match.share", "player.lock"), "update: %v", calls.calls)
}
