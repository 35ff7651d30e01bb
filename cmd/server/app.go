package main

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/maxviazov/tournament-stats-service/internal/config"
	"github.com/maxviazov/tournament-stats-service/internal/handler"
	"github.com/maxviazov/tournament-stats-service/internal/logger"
	"github.com/maxviazov/tournament-stats-service/internal/repository"
	"github.com/maxviazov/tournament-stats-service/internal/repository/memory"
	"github.com/maxviazov/tournament-stats-service/internal/repository/postgres"
	"github.com/maxviazov/tournament-stats-service/internal/service"
	"github.com/maxviazov/tournament-stats-service/migrations"
	"github.com/rs/zerolog"
)

// app is everything a command needs after bootstrap.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	stores service.Stores
	pinger repository.Pinger
	close  func()
}

func bootstrap(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Nop(), errors.Wrap(err, "load config")
	}
	if cfg.Logger.ServiceName == "" {
		cfg.Logger.ServiceName = cfg.App.Name
	}
	if cfg.Logger.ServiceVersion == "" {
		cfg.Logger.ServiceVersion = cfg.App.Version
	}
	if cfg.Logger.Env == "" {
		cfg.Logger.Env = cfg.App.Env
	}
	log, err := logger.New(&cfg.Logger)
	if err != nil {
		return nil, zerolog.Nop(), errors.Wrap(err, "init logger")
	}
	return cfg, log, nil
}

// openStorage selects the repositories for the configured driver.
func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: log, close: func() {}}

	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		st := memory.NewStore()
		a.stores = service.Stores{
			Tx:           st.TxManager(),
			Teams:        st.Teams(),
			Coaches:      st.Coaches(),
			Players:      st.Players(),
			Matches:      st.Matches(),
			MatchTeams:   st.MatchTeams(),
			MatchPlayers: st.MatchPlayers(),
		}
		a.pinger = st.Pinger()
		log.Warn().Msg("memory storage selected; data is lost on restart")

	case config.StorageDriverPostgres:
		repo, err := repository.New(ctx, cfg.Postgres, log)
		if err != nil {
			return nil, err
		}
		pool := repo.Pool()
		if cfg.Storage.AutoMigrate {
			db := stdlib.OpenDBFromPool(pool)
			err := migrations.Up(ctx, db)
			_ = db.Close()
			if err != nil {
				repo.Close()
				return nil, errors.Wrap(err, "apply migrations")
			}
			log.Info().Msg("migrations applied")
		}
		a.stores = service.Stores{
			Tx:           postgres.NewTxManager(pool),
			Teams:        postgres.NewTeamRepository(pool),
			Coaches:      postgres.NewCoachRepository(pool),
			Players:      postgres.NewPlayerRepository(pool),
			Matches:      postgres.NewMatchRepository(pool),
			MatchTeams:   postgres.NewMatchTeamRepository(pool),
			MatchPlayers: postgres.NewMatchPlayerRepository(pool),
		}
		a.pinger = postgres.NewPinger(pool)
		a.close = repo.Close

	default:
		return nil, errors.Newf("unknown storage driver %q", cfg.Storage.Driver)
	}
	return a, nil
}

func (a *app) services() handler.Services {
	st := a.stores
	return handler.Services{
		Teams:        service.NewTeamService(st, a.logger),
		Coaches:      service.NewCoachService(st.Coaches, st.Teams, a.logger),
		Players:      service.NewPlayerService(st.Players, st.Teams, a.logger),
		Matches:      service.NewMatchService(st, a.logger),
		MatchPlayers: service.NewMatchPlayerService(st, a.logger),
	}
}
