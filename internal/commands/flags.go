package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hay-kot/calc/internal/calculator"
	"github.com/hay-kot/calc/internal/core/config"
	"github.com/hay-kot/calc/internal/core/history"
	"github.com/hay-kot/calc/internal/core/registry"
	"github.com/hay-kot/calc/internal/printer"
)

type Flags struct {
	LogLevel    string
	LogFile     string
	ConfigPath  string
	DataDir     string
	HistoryFile string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	// Codec reads and writes the history file in the configured format
	Codec history.Codec

	// History is the calculation log shared by the service and the shell
	History *history.History

	// Service runs calculations and records them in History
	Service *calculator.Service

	// Registry holds the shell commands
	Registry *registry.Registry
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "calc", "config.yaml")
}

// loadHistory restores the history file into Flags.History. Skipped rows
// are reported through the printer since the next save drops them.
func (f *Flags) loadHistory(ctx context.Context) (int, error) {
	path := f.Config.HistoryPath()

	n, skipped, err := f.History.Load(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("load history: %w", err)
	}
	if skipped > 0 {
		printer.Ctx(ctx).Warnf("Skipped %d malformed row(s) in %s; they are dropped on the next save", skipped, path)
	}
	return n, nil
}

// saveHistory writes Flags.History to the history file, creating the data
// directory first.
func (f *Flags) saveHistory(ctx context.Context) error {
	if err := os.MkdirAll(f.Config.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	if err := f.History.Save(ctx, f.Config.HistoryPath()); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}
