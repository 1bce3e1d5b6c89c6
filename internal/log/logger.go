// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Output formats accepted by Config.Format.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Config captures options for configuring the process logger.
type Config struct {
	Level   string    // "debug", "info", ...; invalid or empty means info
	Format  string    // FormatJSON (default) or FormatConsole
	Output  io.Writer // defaults to os.Stdout
	Service string    // attached to every entry; defaults to "radionara"
	Version string    // attached to every entry when set
}

var (
	mu   sync.RWMutex
	base zerolog.Logger
)

// Configure replaces the process logger. It runs once from init with
// defaults and again after the configuration has been loaded.
func Configure(cfg Config) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	var w io.Writer = os.Stdout
	if cfg.Output != nil {
		w = cfg.Output
	}
	if cfg.Format == FormatConsole {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	service := cfg.Service
	if service == "" {
		service = "radionara"
	}
	lc := zerolog.New(w).With().Timestamp().Str(FieldService, service)
	if cfg.Version != "" {
		lc = lc.Str(FieldVersion, cfg.Version)
	}

	mu.Lock()
	base = lc.Logger()
	mu.Unlock()
}

// SetLevel changes the global level without rebuilding the logger. The
// previous level stays in effect when level is invalid.
func SetLevel(level string) error {
	lvl, err := parseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

func parseLevel(level string) (zerolog.Level, error) {
	if level == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log level %q: %w", level, err)
	}
	return lvl, nil
}

// Base returns the configured logger.
func Base() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// L returns a pointer to a copy of the base logger for call sites that chain directly.
func L() *zerolog.Logger {
	l := Base()
	return &l
}

// WithComponent returns a child logger annotated with the given component name.
func WithComponent(component string) zerolog.Logger {
	return Base().With().Str(FieldComponent, component).Logger()
}

func init() {
	Configure(Config{})
}
