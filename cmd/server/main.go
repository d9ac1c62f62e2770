package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"interview-coach/internal/app"
	"interview-coach/internal/httputil"
)

const shutdownTimeout = 10 * time.Second

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := deps.Cache.Close(); err != nil {
			deps.Log.Warn("cache close failed", "err", err)
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", deps.Config.Port),
		Handler:           newRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		deps.Log.Info("interview coach listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		deps.Log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		deps.Log.Error("server stopped", "err", err)
	}
}

func newRouter(deps app.Deps) *chi.Mux {
	timeout := time.Duration(deps.Config.RequestTimeoutSeconds) * time.Second
	r := httputil.NewRouter(deps.Log, timeout)

	r.Get("/settings/api-key", apiKeyStatusHandler(deps))
	r.Post("/settings/api-key", saveAPIKeyHandler(deps))
	r.Post("/generate", generateHandler(deps))
	r.Post("/generate/upload", generateUploadHandler(deps))
	r.Post("/score", scoreHandler(deps))
	r.Post("/transcribe-audio", transcribeHandler(deps))
	r.Post("/realtime-score", realtimeScoreHandler(deps))
	r.Get("/healthz", httputil.HealthHandler(deps.Log))

	return r
}
