// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/ManuGH/radionara/internal/api"
	"github.com/ManuGH/radionara/internal/platform/httpx"
)

// newHealthcheckCmd probes a running instance; used as a container HEALTHCHECK.
func newHealthcheckCmd() *cobra.Command {
	var (
		live    bool
		addr    string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Probe /readyz (or /healthz with --live) of a running server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := api.PathReady
			if live {
				path = api.PathHealth
			}
			client := httpx.NewClient(httpx.Options{Timeout: timeout})
			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, "http://"+addr+path, nil)
			if err != nil {
				return err
			}
			resp, err := client.Do(req)
			if err != nil {
				return fmt.Errorf("healthcheck failed (network): %w", err)
			}
			defer func() { _ = resp.Body.Close() }()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("healthcheck failed (status): %s", resp.Status)
			}
			cmd.Printf("healthcheck successful (%s)\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&live, "live", false, "check liveness instead of readiness")
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "host:port of the API listener")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "request timeout")
	return cmd
}
