package app

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"findata-api/internal/server"
)

// Serve runs the REST API until interrupted.
func (a *App) Serve(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	b, closeBackends, err := a.openBackends(ctx)
	if err != nil {
		return err
	}
	defer closeBackends()

	opts := server.Options{
		Config: a.Config,
		Log:    a.Logger,
		Stores: b.stores,
		PingDB: b.store.Ping,
	}
	if b.clickhouse != nil {
		opts.PingClickHouse = b.clickhouse.Ping
	}

	srv := server.New(opts)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.Error().Err(err).Msg("server terminated with error")
			return err
		}
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.Config.HTTP.ShutdownTimeout)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.Logger.Error().Err(err).Msg("graceful shutdown failed")
			return err
		}
	}

	a.Logger.Info().Msg("server stopped")
	return nil
}
