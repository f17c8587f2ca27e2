package api

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/dgallion1/mdcount/internal/config"
)

func TestServe_StopsOnCancel(t *testing.T) {
	cfg := config.Config{
		DefaultOptions: "default",
		WorkerCount:    1,
		MaxQueueSize:   1,
		MaxUploadBytes: 1024,
		MaxBatchFiles:  1,
		JobTTL:         time.Hour,
		StatsWindow:    time.Hour,
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, "127.0.0.1:0", cfg, slog.New(slog.DiscardHandler)) }()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestServe_InvalidConfig(t *testing.T) {
	cfg := config.Config{DefaultOptions: "bogus"}
	if err := Serve(context.Background(), "127.0.0.1:0", cfg, slog.New(slog.DiscardHandler)); err == nil {
		t.Fatal("expected an invalid configuration error")
	}
}
