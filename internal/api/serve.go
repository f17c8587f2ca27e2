package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dgallion1/mdcount/internal/config"
	"github.com/dgallion1/mdcount/internal/parser"
	"github.com/dgallion1/mdcount/internal/pipeline"
	"github.com/dgallion1/mdcount/internal/stats"
)

// Serve builds the counting pipeline and serves the API on addr until ctx
// is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, cfg config.Config, log *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	settings := parser.Settings{PdftotextFallback: cfg.PDFFallbackPdftotext}
	c, err := pipeline.NewCounter(settings, cfg.CacheSize, stats.New(cfg.StatsWindow), log)
	if err != nil {
		return err
	}

	orch := pipeline.NewOrchestrator(cfg, c, log)
	orch.Start(ctx)
	defer orch.Stop()

	srv, err := NewServer(orch, log, cfg)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting mdcount", "addr", addr, "workers", cfg.WorkerCount, "options", cfg.DefaultOptions)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
