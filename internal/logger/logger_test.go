package logger_test

import (
	"os"
	"testing"

	logpkg "github.com/maxviazov/tournament-stats-service/internal/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		config      *logpkg.LoggerConfig
		expectError bool
		wantLevel   zerolog.Level
	}{
		{
			name: "production json",
			config: &logpkg.LoggerConfig{
				ServiceName: "test-service",
				Env:         "prod",
				Level:       "info",
				TimeField:   "timestamp",
				TimeFormat:  "unix",
				Fields:      map[string]interface{}{"key": "value"},
			},
			wantLevel: zerolog.InfoLevel,
		},
		{
			name:        "unknown env rejected",
			config:      &logpkg.LoggerConfig{Env: "wrong-env", Level: "debug"},
			expectError: true,
		},
		{
			name:        "unknown level rejected",
			config:      &logpkg.LoggerConfig{Env: "prod", Level: "loud"},
			expectError: true,
		},
		{
			name: "staging warn",
			config: &logpkg.LoggerConfig{
				Env:        "staging",
				Level:      "warn",
				TimeFormat: "rfc3339",
			},
			wantLevel: zerolog.WarnLevel,
		},
		{
			name: "dev console info",
			config: &logpkg.LoggerConfig{
				Env:   "dev",
				Level: "info",
			},
			wantLevel: zerolog.InfoLevel,
		},
		{
			name: "test env error level with caller",
			config: &logpkg.LoggerConfig{
				Env:        "test",
				Level:      "error",
				WithCaller: true,
			},
			wantLevel: zerolog.ErrorLevel,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := logpkg.New(tc.config)
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.wantLevel, zerolog.GlobalLevel())
		})
	}

	t.Run("prod forces json format", func(t *testing.T) {
		cfg := &logpkg.LoggerConfig{Env: "prod", Format: "console"}
		_, err := logpkg.New(cfg)
		assert.NoError(t, err)
		assert.Equal(t, "json", cfg.Format)
		assert.Equal(t, "stdout", cfg.OutputTarget)
	})

	t.Run("debug log file creation", func(t *testing.T) {
		t.Chdir(t.TempDir())
		cfg := &logpkg.LoggerConfig{Env: "dev", Level: "debug"}

		_, err := logpkg.New(cfg)
		assert.NoError(t, err)
		assert.True(t, cfg.FileOutput)

		_, statErr := os.Stat("logs/debug.log")
		assert.NoError(t, statErr)
	})
}
