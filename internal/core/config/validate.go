package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hay-kot/criterio"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration.
// Unlike Validate(), this also checks the config file, data directory and
// history file on disk.
func (c *Config) ValidateDeep(configPath string) error {
	var errs criterio.FieldErrors

	if err := c.Validate(); err != nil {
		if fe, ok := err.(criterio.FieldErrors); ok {
			errs = append(errs, fe...)
		} else {
			return err
		}
	}

	if configPath != "" {
		if info, err := os.Stat(configPath); err == nil && info.IsDir() {
			errs = append(errs, fieldErr("config", fmt.Sprintf("%s is a directory, not a file", configPath))...)
		} else if err != nil && !os.IsNotExist(err) {
			errs = append(errs, fieldErr("config", fmt.Sprintf("cannot access %s: %v", configPath, err))...)
		}
	}

	if c.DataDir != "" {
		if info, err := os.Stat(c.DataDir); err == nil && !info.IsDir() {
			errs = append(errs, fieldErr("data_dir", fmt.Sprintf("%s exists but is not a directory", c.DataDir))...)
		} else if err != nil && !os.IsNotExist(err) {
			errs = append(errs, fieldErr("data_dir", fmt.Sprintf("cannot access %s: %v", c.DataDir, err))...)
		}
	}

	if c.HistoryFile != "" {
		path := c.HistoryPath()
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			errs = append(errs, fieldErr("history_file", fmt.Sprintf("%s is a directory, not a file", path))...)
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Warnings returns non-fatal issues worth reporting to the user.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if _, err := os.Stat(c.DataDir); os.IsNotExist(err) {
		warnings = append(warnings, ValidationWarning{
			Category: "File Access",
			Item:     "data_dir",
			Message:  fmt.Sprintf("%s does not exist and will be created on first save", c.DataDir),
		})
	}

	if !c.History.Autosave {
		warnings = append(warnings, ValidationWarning{
			Category: "History",
			Item:     "history.autosave",
			Message:  "autosave is disabled; use 'history save' to persist calculations",
		})
	}

	if ext := strings.TrimPrefix(filepath.Ext(c.HistoryFile), "."); ext != "" && ext != c.History.Format {
		warnings = append(warnings, ValidationWarning{
			Category: "History",
			Item:     "history.format",
			Message:  fmt.Sprintf("%s is written as %s", c.HistoryFile, c.History.Format),
		})
	}

	return warnings
}
