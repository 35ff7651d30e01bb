package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/tournament-stats-service/internal/repository"
)

// q is a minimal query executor implemented by both pgxpool.Pool and pgx.Tx.
type q interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txKey struct{}

func withTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func txFrom(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return tx, ok && tx != nil
}

func getQ(ctx context.Context, pool *pgxpool.Pool) q {
	if tx, ok := txFrom(ctx); ok {
		return tx
	}
	return pool
}

func sanitizeLimitOffset(p repository.Page) (int, int) {
	p = p.Normalize()
	return p.Limit, p.Offset
}

type txManager struct {
	pool *pgxpool.Pool
	opts pgx.TxOptions
}

// NewTxManager runs units of work at READ COMMITTED. Aggregate refreshes rely on
// explicit row locks (see LockByID) rather than a stricter isolation level.
func NewTxManager(pool *pgxpool.Pool) repository.TxManager {
	return &txManager{pool: pool, opts: pgx.TxOptions{IsoLevel: pgx.ReadCommitted}}
}

// NewTxManagerWithOptions lets callers pick isolation and access mode.
func NewTxManagerWithOptions(pool *pgxpool.Pool, opts pgx.TxOptions) repository.TxManager {
	return &txManager{pool: pool, opts: opts}
}

// WithinTx begins a transaction, or joins the one already carried by ctx so that
// composed units of work commit together.
func (m *txManager) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	if _, ok := txFrom(ctx); ok {
		return fn(ctx)
	}
	if err := ensurePool(m.pool); err != nil {
		return err
	}
	tx, err := m.pool.BeginTx(ctx, m.opts)
	if err != nil {
		return repository.MapPgError(err)
	}
	defer func() {
		// no-op after commit; rollback errors are irrelevant once fn failed
		_ = tx.Rollback(context.Background())
	}()

	if err := fn(withTx(ctx, tx)); err != nil {
		return repository.MapPgError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return repository.MapPgError(err)
	}
	return nil
}

var _ repository.TxManager = (*txManager)(nil)

func ensurePool(pool *pgxpool.Pool) error {
	if pool == nil {
		return errors.New("pgx pool is nil")
	}
	return nil
}

// scanErr maps a single-row scan error, turning an empty result into ErrNotFound.
func scanErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	return repository.MapPgError(err)
}
