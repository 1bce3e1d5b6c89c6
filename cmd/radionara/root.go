// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ManuGH/radionara/internal/config"
	"github.com/ManuGH/radionara/internal/version"
)

// configEnvKey names the environment variable consulted when --config is absent.
const configEnvKey = config.EnvPrefix + "CONFIG"

type rootOptions struct {
	configPath string
}

// resolvedConfigPath returns --config, else RADIONARA_CONFIG, else "".
func (o *rootOptions) resolvedConfigPath() string {
	if p := strings.TrimSpace(o.configPath); p != "" {
		return p
	}
	return strings.TrimSpace(config.ParseString(configEnvKey, ""))
}

func (o *rootOptions) load() (config.AppConfig, *config.Loader, error) {
	loader := config.NewLoader(o.resolvedConfigPath(), version.Resolved())
	cfg, err := loader.Load()
	return cfg, loader, err
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "radionara",
		Short:         "Korean internet radio directory and HLS proxy",
		SilenceUsage:  true,
		SilenceErrors: false,
		Version:       version.String(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"path to YAML config file (env "+configEnvKey+")")

	root.AddCommand(
		newServeCmd(opts),
		newVersionCmd(),
		newConfigCmd(opts),
		newHealthcheckCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(version.String())
		},
	}
}
