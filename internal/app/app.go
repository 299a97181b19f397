package app

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"findata-api/internal/config"
	"findata-api/internal/server"
	"findata-api/internal/storage"
	chstore "findata-api/internal/storage/clickhouse"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

var errNoDatabase = errors.New("database.dsn not configured")

// backends bundles the open persistence handles for one command run.
type backends struct {
	store      *storage.Store
	clickhouse *chstore.Conn
	stores     server.Stores
}

func (a *App) openBackends(ctx context.Context) (*backends, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, errNoDatabase
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}
	store := storage.NewStore(pool)

	b := &backends{
		store: store,
		stores: server.Stores{
			Series:       store,
			Lookups:      store,
			Observations: store,
			Dependencies: store,
		},
	}

	if a.Config.ClickHouseEnabled() {
		conn, err := chstore.NewConn(ctx, a.Config.ClickHouse.DSN)
		if err != nil {
			store.Close()
			return nil, nil, err
		}
		b.clickhouse = conn
		b.stores.Observations = chstore.NewObservationStore(conn)
		a.Logger.Info().Msg("using clickhouse observation backend")
	}

	closer := func() {
		if b.clickhouse != nil {
			if err := b.clickhouse.Close(); err != nil {
				a.Logger.Warn().Err(err).Msg("closing clickhouse connection")
			}
		}
		store.Close()
	}
	return b, closer, nil
}

// ExportOptions hold parameters for exporting one series.
type ExportOptions struct {
	SeriesID  int64
	From      *time.Time
	To        *time.Time
	PNGPath   string
	CSVPath   string
	MaxPoints int
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Limit           int
	IncludeInactive bool
}
