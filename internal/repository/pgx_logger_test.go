package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLog(t *testing.T, level zerolog.Level) (*pgxLogger, *bytes.Buffer) {
	t.Helper()
	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	var buf bytes.Buffer
	return newPgxLogger(zerolog.New(&buf).Level(level)), &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	return m
}

func TestPgxLogger_TraceCarriesSQL(t *testing.T) {
	l, buf := captureLog(t, zerolog.TraceLevel)
	l.Log(context.Background(), tracelog.LogLevelTrace, "Query", map[string]any{
		"sql":  "SELECT 1",
		"args": []any{1},
		"time": 3 * time.Millisecond,
	})

	m := decodeLine(t, buf)
	assert.Equal(t, "SELECT 1", m["sql"])
	assert.Equal(t, "repository", m["module"])
	assert.Equal(t, "pgx", m["component"])
	assert.Contains(t, m, "took")
	assert.NotContains(t, m, "slow")
}

func TestPgxLogger_InfoDropsSQLAndFlagsSlow(t *testing.T) {
	l, buf := captureLog(t, zerolog.TraceLevel)
	l.Log(context.Background(), tracelog.LogLevelInfo, "Query", map[string]any{
		"sql":  "SELECT pg_sleep(1)",
		"time": time.Second,
	})

	m := decodeLine(t, buf)
	assert.NotContains(t, m, "sql")
	assert.Equal(t, true, m["slow"])
}

func TestPgxLogger_ErrorField(t *testing.T) {
	l, buf := captureLog(t, zerolog.TraceLevel)
	l.Log(context.Background(), tracelog.LogLevelError, "Exec", map[string]any{"err": errors.New("boom")})

	m := decodeLine(t, buf)
	assert.Equal(t, "error", m["level"])
	assert.Equal(t, "boom", m["error"])
}

func TestPgxLogger_NoneIsSilent(t *testing.T) {
	l, buf := captureLog(t, zerolog.TraceLevel)
	l.Log(context.Background(), tracelog.LogLevelNone, "Query", nil)
	assert.Zero(t, buf.Len())
}
