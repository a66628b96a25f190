package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ukydev/autoservice/internal/auth"
	"github.com/ukydev/autoservice/internal/db"
	"github.com/ukydev/autoservice/internal/handlers"
	"github.com/ukydev/autoservice/internal/metrics"
	"github.com/ukydev/autoservice/internal/shop"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

// newHandler wires the API on top of store.
func (a *app) newHandler(store db.Store, m *metrics.Metrics) (http.Handler, error) {
	authService, err := auth.NewService(a.cfg.JWTSecret, a.cfg.JWTExpiry)
	if err != nil {
		return nil, err
	}
	return handlers.NewRouter(handlers.RouterConfig{
		Shop:              shop.New(store, shop.WithLogger(a.log), shop.WithMetrics(m)),
		Auth:              authService,
		Users:             &db.StoreUserCollection{Store: store},
		Metrics:           m,
		Log:               a.log,
		RetentionDays:     a.cfg.HistoryRetentionDays,
		RateLimitRequests: a.cfg.RateLimitRequests,
		RateLimitWindow:   a.cfg.RateLimitWindow,
		TrustedProxies:    a.cfg.TrustedProxies,
	}), nil
}

// serve runs the server until ctx is done, then drains it.
func (a *app) serve(ctx context.Context) error {
	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			a.log.WithError(err).Warn("Failed to close store")
		}
	}()

	handler, err := a.newHandler(store, metrics.New())
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              a.cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.WithFields(logrus.Fields{"addr": srv.Addr, "store": a.cfg.StoreBackend}).Info("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.log.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
