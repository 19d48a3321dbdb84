package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/calc/internal/core/config"
	"github.com/hay-kot/calc/pkg/tmpl"
)

// ConfigCheck reports the effective settings and validates them.
type ConfigCheck struct {
	config     *config.Config
	configPath string
}

// NewConfigCheck creates a new configuration check.
func NewConfigCheck(cfg *config.Config, configPath string) *ConfigCheck {
	return &ConfigCheck{
		config:     cfg,
		configPath: configPath,
	}
}

func (c *ConfigCheck) Name() string {
	return "Configuration"
}

func (c *ConfigCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	if c.config == nil {
		result.add(StatusFail, "Config loaded", "configuration not loaded")
		return result
	}

	result.add(StatusPass, "Config file", c.describeFile())
	result.add(StatusPass, "History", fmt.Sprintf("%s as %s (autoload %t, autosave %t)",
		c.config.HistoryPath(), c.config.History.Format, c.config.History.Autoload, c.config.History.Autosave))

	if c.config.ResultTemplate == "" {
		result.add(StatusPass, "Result template", "default sentence")
	} else if preview, err := tmpl.Preview(c.config.ResultTemplate); err == nil {
		result.add(StatusPass, "Result template", fmt.Sprintf("2.5 add 3.1 renders as %q", preview))
	}

	var fieldErrs criterio.FieldErrors
	switch err := c.config.ValidateDeep(c.configPath); {
	case err == nil:
	case errors.As(err, &fieldErrs):
		for _, fe := range fieldErrs {
			label := fe.Field
			if label == "" {
				label = "validation"
			}
			result.add(StatusFail, label, fe.Err.Error())
		}
	default:
		result.add(StatusFail, "validation", err.Error())
	}

	for _, w := range c.config.Warnings() {
		label := w.Category
		if w.Item != "" {
			label += " (" + w.Item + ")"
		}
		result.add(StatusWarn, label, w.Message)
	}

	return result
}

func (c *ConfigCheck) describeFile() string {
	if c.configPath == "" {
		return "none, using defaults"
	}
	if _, err := os.Stat(c.configPath); os.IsNotExist(err) {
		return c.configPath + " not found, using defaults"
	}
	return c.configPath
}
