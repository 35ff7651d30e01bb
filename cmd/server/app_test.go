package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/maxviazov/tournament-stats-service/internal/config"
	"github.com/maxviazov/tournament-stats-service/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestBootstrap_MemoryDriver(t *testing.T) {
	path := writeConfig(t, `
app:
  name: tournament-stats-test
  version: 9.9.9
  env: test
  port: 18081
logger:
  level: error
storage:
  driver: memory
`)
	cfg, _, err := bootstrap(path)
	require.NoError(t, err)
	assert.Equal(t, config.StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "tournament-stats-test", cfg.Logger.ServiceName)
	assert.Equal(t, "9.9.9", cfg.Logger.ServiceVersion)
	assert.Equal(t, "test", cfg.Logger.Env)
}

func TestBootstrap_MissingFile(t *testing.T) {
	_, _, err := bootstrap(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestOpenStorage_MemoryServesMatches(t *testing.T) {
	cfg, log, err := bootstrap(writeConfig(t, "app:\n  env: test\nstorage:\n  driver: memory\n"))
	require.NoError(t, err)

	ctx := context.Background()
	a, err := openStorage(ctx, cfg, log)
	require.NoError(t, err)
	defer a.close()
	require.NoError(t, a.pinger.Ping(ctx))

	svc := a.services()
	home, err := svc.Teams.CreateTeam(ctx, "Home")
	require.NoError(t, err)
	away, err := svc.Teams.CreateTeam(ctx, "Away")
	require.NoError(t, err)

	s1, s2 := 80, 75
	m, err := svc.Matches.CreateMatch(ctx, model.MatchInput{
		ScheduledDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Stadium:       "Main Hall",
		Round:         "Final",
		Team1ID:       home.ID,
		Team1Score:    &s1,
		Team2ID:       away.ID,
		Team2Score:    &s2,
	})
	require.NoError(t, err)
	assert.Equal(t, 80, m.Team1Score)

	got, err := svc.Teams.GetTeam(ctx, away.ID)
	require.NoError(t, err)
	assert.Equal(t, "75", got.AverageScore.String())
}

func TestOpenStorage_UnknownDriver(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: "mongo"}}
	_, err := openStorage(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}
