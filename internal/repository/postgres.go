package repository

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/maxviazov/tournament-stats-service/internal/config"
	"github.com/rs/zerolog"
)

const connectPingTimeout = 5 * time.Second

// Repository owns the pgx pool shared by the postgres repositories.
type Repository struct {
	pool *pgxpool.Pool
}

// DSN builds the connection string through url.URL so credentials are escaped.
func DSN(cfg config.PostgresConfig) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   cfg.DBName,
	}
	if cfg.User != "" || cfg.Password != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	}
	q := u.Query()
	if cfg.SSLMode != "" {
		q.Set("sslmode", cfg.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// New opens the pool, wires pgx tracing into the service logger and pings the
// server once before returning.
func New(ctx context.Context, pg config.PostgresConfig, logger zerolog.Logger) (*Repository, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	poolConfig, err := pgxpool.ParseConfig(DSN(pg))
	if err != nil {
		return nil, errors.Wrap(err, "parse pool config")
	}

	poolConfig.ConnConfig.Tracer = &tracelog.TraceLog{
		Logger:   newPgxLogger(logger),
		LogLevel: traceLevel(logger.GetLevel()),
	}

	// zero values keep the pgx defaults
	if pg.MaxConns > 0 {
		poolConfig.MaxConns = pg.MaxConns
	}
	if pg.MinConns > 0 {
		poolConfig.MinConns = pg.MinConns
	}
	if pg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = seconds(pg.MaxConnLifetime)
	}
	if pg.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = seconds(pg.MaxConnIdleTime)
	}
	if pg.HealthCheckPeriod > 0 {
		poolConfig.HealthCheckPeriod = seconds(pg.HealthCheckPeriod)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, errors.Wrap(err, "create postgres pool")
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectPingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, errors.Wrapf(err, "ping postgres at %s:%d", pg.Host, pg.Port)
	}

	logger.Info().
		Str("host", pg.Host).
		Int("port", pg.Port).
		Str("user", pg.User).
		Str("db", pg.DBName).
		Int32("max_conns", poolConfig.MaxConns).
		Msg("connected to postgres")

	return &Repository{pool: pool}, nil
}

// Pool hands the pool to the concrete repository constructors.
func (r *Repository) Pool() *pgxpool.Pool { return r.pool }

func (r *Repository) Close() {
	if r.pool != nil {
		r.pool.Close()
	}
}

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }

func traceLevel(level zerolog.Level) tracelog.LogLevel {
	switch {
	case level <= zerolog.TraceLevel:
		return tracelog.LogLevelTrace
	case level <= zerolog.DebugLevel:
		return tracelog.LogLevelDebug
	case level <= zerolog.InfoLevel:
		return tracelog.LogLevelInfo
	case level <= zerolog.WarnLevel:
		return tracelog.LogLevelWarn
	default:
		return tracelog.LogLevelError
	}
}
