// Package config handles configuration loading and validation for calc.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hay-kot/criterio"
	"gopkg.in/yaml.v3"

	"github.com/hay-kot/calc/pkg/tmpl"
)

// Defaults for the history file location.
const (
	DefaultDataDir     = "."
	DefaultHistoryFile = "calculator_history.csv"
	DefaultPrompt      = ">>> "
)

// History file formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// Config holds the application configuration.
type Config struct {
	DataDir     string        `yaml:"data_dir"`
	HistoryFile string        `yaml:"history_file"`
	History     HistoryConfig `yaml:"history"`
	Prompt      string        `yaml:"prompt"`

	// ResultTemplate formats shell results as a Go template over Operand1,
	// Operand2, Operation and Result. Empty uses the built-in sentence.
	ResultTemplate string `yaml:"result_template"`
}

// HistoryConfig controls when history is restored and persisted.
type HistoryConfig struct {
	// Autoload restores the history file when the shell starts.
	Autoload bool `yaml:"autoload"`
	// Autosave writes the history file when the shell exits.
	Autosave bool `yaml:"autosave"`
	// Format is the history file encoding, FormatCSV or FormatJSON.
	Format string `yaml:"format"`
}

// Overrides are values supplied by flags or environment variables. Empty
// fields leave the file or default value in place.
type Overrides struct {
	DataDir     string
	HistoryFile string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DataDir:     DefaultDataDir,
		HistoryFile: DefaultHistoryFile,
		History: HistoryConfig{
			Autoload: true,
			Autosave: true,
			Format:   FormatCSV,
		},
		Prompt: DefaultPrompt,
	}
}

// Load reads configuration from the given path and applies overrides.
// If configPath is empty or doesn't exist, defaults are used.
func Load(configPath string, overrides Overrides) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	if overrides.DataDir != "" {
		cfg.DataDir = overrides.DataDir
	}
	if overrides.HistoryFile != "" {
		cfg.HistoryFile = overrides.HistoryFile
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	if c.Prompt == "" {
		c.Prompt = DefaultPrompt
	}
	if c.History.Format == "" {
		c.History.Format = FormatCSV
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	var errs criterio.FieldErrors

	if strings.TrimSpace(c.DataDir) == "" {
		errs = append(errs, fieldErr("data_dir", "data directory cannot be empty")...)
	}

	switch {
	case strings.TrimSpace(c.HistoryFile) == "":
		errs = append(errs, fieldErr("history_file", "history file name cannot be empty")...)
	case strings.ContainsRune(c.HistoryFile, filepath.Separator) || strings.ContainsRune(c.HistoryFile, '/'):
		errs = append(errs, fieldErr("history_file", "must be a file name, set the directory with data_dir")...)
	}

	if c.ResultTemplate != "" {
		if err := tmpl.Validate(c.ResultTemplate); err != nil {
			errs = append(errs, fieldErr("result_template", err.Error())...)
		}
	}

	switch c.History.Format {
	case FormatCSV, FormatJSON:
	default:
		errs = append(errs, fieldErr("history.format", fmt.Sprintf("unknown format %q (use csv or json)", c.History.Format))...)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// HistoryPath returns the full path of the history file.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.DataDir, c.HistoryFile)
}

func fieldErr(field, msg string) criterio.FieldErrors {
	return criterio.FieldErrors{{Field: field, Err: errors.New(msg)}}
}
