package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

// Queries at or above this duration are flagged with slow=true. Aggregate
// refreshes hold row locks, so slow statements there show up as lock waits.
const slowQueryThreshold = 250 * time.Millisecond

// pgxLogger adapts zerolog.Logger to pgx's tracelog interface.
type pgxLogger struct {
	logger zerolog.Logger
}

// newPgxLogger builds a child logger scoped to the storage component
// so SQL noise stays filterable.
func newPgxLogger(logger zerolog.Logger) *pgxLogger {
	l := logger.With().Str("module", "repository").Str("component", "pgx").Logger()
	return &pgxLogger{logger: l}
}

// Log implements tracelog.Logger. SQL text and args are only attached at trace
// level; the query duration is lifted into a typed field whenever pgx reports it.
func (l *pgxLogger) Log(_ context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	if level == tracelog.LogLevelNone {
		return
	}

	var event *zerolog.Event
	switch level {
	case tracelog.LogLevelTrace:
		event = l.logger.Trace()
		if sqlVal, ok := data["sql"]; ok {
			if s, ok := sqlVal.(string); ok {
				event = event.Str("sql", s)
			} else {
				event = event.Interface("sql", sqlVal)
			}
		}
		if args, ok := data["args"]; ok {
			event = event.Interface("args", args)
		}
	case tracelog.LogLevelDebug:
		event = l.logger.Debug()
	case tracelog.LogLevelInfo:
		event = l.logger.Info()
	case tracelog.LogLevelWarn:
		event = l.logger.Warn()
	case tracelog.LogLevelError:
		event = l.logger.Error()
	default:
		event = l.logger.Info().Str("pgx_log_level", level.String())
	}

	for k, v := range data {
		switch k {
		case "sql", "args":
			continue
		case "time":
			if d, ok := v.(time.Duration); ok {
				event = event.Dur("took", d)
				if d >= slowQueryThreshold {
					event = event.Bool("slow", true)
				}
				continue
			}
		case "err":
			if err, ok := v.(error); ok {
				event = event.Err(err)
				continue
			}
		}
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}
