package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"bodega/internal/middleware"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// New builds the echo instance with the logging and recovery middleware.
func New(log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.RequestLogger(log))
	e.Use(middleware.Recover(log))
	return e
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func Start(ctx context.Context, e *echo.Echo, addr string, log zerolog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info().Msg("shutting down")
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
