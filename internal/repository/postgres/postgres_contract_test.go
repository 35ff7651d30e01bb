package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/maxviazov/tournament-stats-service/internal/config"
	"github.com/maxviazov/tournament-stats-service/internal/repository"
	"github.com/maxviazov/tournament-stats-service/internal/repository/contract"
	"github.com/maxviazov/tournament-stats-service/migrations"
)

var (
	db     *sql.DB
	pool   *pgxpool.Pool
	dsn    string
	skippy bool
)

func TestMain(m *testing.M) {
	if os.Getenv("CONTRACT_TESTS") != "1" {
		// allow skipping contract tests unless explicitly enabled
		skippy = true
		os.Exit(m.Run())
	}

	dsn = buildDSNFromEnv()
	if dsn == "" {
		fmt.Println("[contract] DATABASE_URL or APP_POSTGRES_* env not set; skipping")
		skippy = true
		os.Exit(m.Run())
	}

	ctx := context.Background()
	var err error
	pool, err = pgxpool.New(ctx, dsn)
	if err != nil {
		fmt.Println("[contract] pgxpool new error:", err)
		os.Exit(1)
	}
	db = stdlib.OpenDBFromPool(pool)
	if err := db.PingContext(ctx); err != nil {
		fmt.Println("[contract] db ping error:", err)
		os.Exit(1)
	}

	if err := migrations.Up(ctx, db); err != nil {
		fmt.Println("[contract] goose up error:", err)
		os.Exit(1)
	}

	code := m.Run()
	db.Close()
	pool.Close()
	os.Exit(code)
}

func skipIfNeeded(t *testing.T) {
	if skippy {
		t.Skip("contract tests skipped; set CONTRACT_TESTS=1 and provide DB env")
	}
}

func buildDSNFromEnv() string {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v
	}
	user := firstNonEmpty(os.Getenv("APP_POSTGRES_USER"), os.Getenv("POSTGRES_USER"), os.Getenv("DB_USER"))
	pass := firstNonEmpty(os.Getenv("APP_POSTGRES_PASSWORD"), os.Getenv("POSTGRES_PASSWORD"), os.Getenv("DB_PASSWORD"))
	host := firstNonEmpty(os.Getenv("APP_POSTGRES_HOST"), os.Getenv("POSTGRES_HOST"), "localhost")
	port := firstNonEmpty(os.Getenv("APP_POSTGRES_PORT"), os.Getenv("POSTGRES_PORT"), "5432")
	name := firstNonEmpty(os.Getenv("APP_POSTGRES_DB"), os.Getenv("POSTGRES_DB"), os.Getenv("DB_NAME"))
	ssl := firstNonEmpty(os.Getenv("APP_POSTGRES_SSLMODE"), os.Getenv("POSTGRES_SSLMODE"), "disable")
	if user == "" || pass == "" || name == "" {
		return ""
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return ""
	}
	return repository.DSN(config.PostgresConfig{
		Host: host, Port: portNum, User: user, Password: pass, DBName: name, SSLMode: ssl,
	})
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func truncateAll(t *testing.T) {
	t.Helper()
	const stmt = `TRUNCATE TABLE match_players, match_teams, matches, players, coaches, teams RESTART IDENTITY CASCADE`
	if _, err := db.Exec(stmt); err != nil {
		t.Fatalf("truncate failed: %v", err)
	}
}

func makeDeps(t *testing.T) (contract.Deps, func()) {
	skipIfNeeded(t)
	truncateAll(t)
	return contract.Deps{
		Tx:           NewTxManager(pool),
		Pinger:       NewPinger(pool),
		Teams:        NewTeamRepository(pool),
		Coaches:      NewCoachRepository(pool),
		Players:      NewPlayerRepository(pool),
		Matches:      NewMatchRepository(pool),
		MatchTeams:   NewMatchTeamRepository(pool),
		MatchPlayers: NewMatchPlayerRepository(pool),
	}, func() { truncateAll(t) }
}

func TestRepositories_PostgresContract(t *testing.T) {
	contract.RunAll(t, makeDeps)
}
