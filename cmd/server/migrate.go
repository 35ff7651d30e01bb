package main

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/maxviazov/tournament-stats-service/internal/config"
	"github.com/maxviazov/tournament-stats-service/internal/repository"
	"github.com/maxviazov/tournament-stats-service/migrations"
	"github.com/spf13/cobra"
)

func migrateCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the postgres schema",
	}
	cmd.AddCommand(migrateStep(configPath, "up", "Apply all pending migrations", migrations.Up))
	cmd.AddCommand(migrateStep(configPath, "down", "Roll back the latest migration", migrations.Down))
	cmd.AddCommand(migrateStep(configPath, "status", "Print applied migrations", migrations.Status))
	return cmd
}

func migrateStep(configPath *string, use, short string, run func(context.Context, *sql.DB) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cfg, log, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			if cfg.Storage.Driver != config.StorageDriverPostgres {
				return errors.Newf("migrate needs the postgres driver, got %q", cfg.Storage.Driver)
			}

			repo, err := repository.New(ctx, cfg.Postgres, log)
			if err != nil {
				return err
			}
			defer repo.Close()

			db := stdlib.OpenDBFromPool(repo.Pool())
			defer db.Close()

			if err := run(ctx, db); err != nil {
				log.Error().Err(err).Str("step", use).Msg("migration failed")
				return errors.Wrapf(err, "migrate %s", use)
			}
			log.Info().Str("step", use).Msg("migration finished")
			return nil
		},
	}
}
