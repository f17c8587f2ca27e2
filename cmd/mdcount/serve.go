package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dgallion1/mdcount/internal/api"
	"github.com/dgallion1/mdcount/internal/config"
)

func newServeCmd(f *countFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the counting API over HTTP",
		Long:  "Serve the counting API over HTTP. Settings other than --addr come from the environment (PORT, MDCOUNT_API_KEY, MDCOUNT_OPTIONS, WORKER_COUNT, ...).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if !cmd.Flags().Changed("addr") {
				addr = ":" + cfg.Port
			}
			level := slog.LevelInfo
			if f.verbose {
				level = slog.LevelDebug
			}
			log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return api.Serve(ctx, addr, cfg, log)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8090", "listen address")
	return cmd
}
