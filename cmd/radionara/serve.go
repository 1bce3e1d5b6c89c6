// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ManuGH/radionara/internal/config"
	"github.com/ManuGH/radionara/internal/daemon"
	xglog "github.com/ManuGH/radionara/internal/log"
	"github.com/ManuGH/radionara/internal/version"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(parent context.Context, opts *rootOptions) error {
	if parent == nil {
		parent = context.Background()
	}
	xglog.Configure(xglog.Config{Service: daemon.ServiceName, Version: version.Resolved()})
	logger := xglog.WithComponent("main")

	cfg, loader, err := opts.load()
	if err != nil {
		logger.Error().Err(err).
			Str(xglog.FieldEvent, "config.load_failed").
			Str("config_path", loader.Path()).
			Msg("failed to load configuration")
		return err
	}

	xglog.Configure(xglog.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Service: daemon.ServiceName, Version: cfg.Version})
	logger = xglog.WithComponent("main")
	logger.Info().
		Str(xglog.FieldEvent, "startup").
		Str("version", version.String()).
		Str("config_path", loader.Path()).
		Str("listen", cfg.Server.ListenAddr).
		Str("allowed_domain", cfg.Proxy.AllowedDomain).
		Msg("starting radionara")

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	holder := config.NewHolder(cfg, loader)
	rt, err := daemon.Bootstrap(ctx, holder)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	if err := rt.App.Run(ctx); err != nil {
		logger.Error().Err(err).Str(xglog.FieldEvent, "shutdown.failed").Msg("server stopped with error")
		return err
	}
	logger.Info().Str(xglog.FieldEvent, "shutdown.complete").Msg("server stopped")
	return nil
}
