package app

import (
	"context"

	"findata-api/internal/storage"
	chstore "findata-api/internal/storage/clickhouse"
	"findata-api/internal/storage/migrations"
)

// Migrate applies the embedded schema migrations to every configured
// backend. The statements are idempotent, so re-running is safe.
func (a *App) Migrate(ctx context.Context) error {
	if a.Config.Database.DSN == "" {
		return errNoDatabase
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	a.Logger.Info().Msg("applying postgres migrations")
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		return err
	}

	if a.Config.ClickHouseEnabled() {
		conn, err := chstore.NewConn(ctx, a.Config.ClickHouse.DSN)
		if err != nil {
			return err
		}
		defer conn.Close()

		a.Logger.Info().Msg("applying clickhouse migrations")
		if err := migrations.RunClickhouseMigrations(ctx, conn); err != nil {
			return err
		}
	}

	a.Logger.Info().Msg("migrations complete")
	return nil
}
