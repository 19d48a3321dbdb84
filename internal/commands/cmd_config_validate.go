package commands

import (
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/calc/internal/core/config"
	"github.com/hay-kot/calc/internal/printer"
	"github.com/hay-kot/calc/pkg/tmpl"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "calc config validate [options]",
				Description: "Validates the configuration file, the data directory and the history file location.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

func (cmd *ConfigValidateCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.flags.Config == nil {
		return fmt.Errorf("configuration not loaded")
	}

	report := newValidationReport(cmd.flags.Config, cmd.flags.ConfigPath)

	if cmd.format == "json" {
		enc := json.NewEncoder(c.Root().Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	return report.print(printer.Ctx(ctx))
}

// validationReport is the effective calc setup plus what is wrong with it.
type validationReport struct {
	Valid          bool                       `json:"valid"`
	ConfigFile     string                     `json:"config_file"`
	HistoryPath    string                     `json:"history_path"`
	HistoryFormat  string                     `json:"history_format"`
	Autoload       bool                       `json:"autoload"`
	Autosave       bool                       `json:"autosave"`
	ResultTemplate string                     `json:"result_template,omitempty"`
	ResultPreview  string                     `json:"result_preview,omitempty"`
	Errors         []validationError          `json:"errors,omitempty"`
	Warnings       []config.ValidationWarning `json:"warnings,omitempty"`
}

type validationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func newValidationReport(cfg *config.Config, configPath string) validationReport {
	report := validationReport{
		ConfigFile:     configPath,
		HistoryPath:    cfg.HistoryPath(),
		HistoryFormat:  cfg.History.Format,
		Autoload:       cfg.History.Autoload,
		Autosave:       cfg.History.Autosave,
		ResultTemplate: cfg.ResultTemplate,
		Warnings:       cfg.Warnings(),
	}

	if cfg.ResultTemplate != "" {
		if preview, err := tmpl.Preview(cfg.ResultTemplate); err == nil {
			report.ResultPreview = preview
		}
	}

	for _, fe := range extractFieldErrors(cfg.ValidateDeep(configPath)) {
		report.Errors = append(report.Errors, validationError{Field: fe.Field, Message: fe.Err.Error()})
	}
	report.Valid = len(report.Errors) == 0

	return report
}

// extractFieldErrors extracts field errors from a validation error.
func extractFieldErrors(err error) criterio.FieldErrors {
	if err == nil {
		return nil
	}
	var fieldErrs criterio.FieldErrors
	if errors.As(err, &fieldErrs) {
		return fieldErrs
	}
	return criterio.FieldErrors{{Err: err}}
}

func (r validationReport) print(p *printer.Printer) error {
	p.Section("Settings")
	if r.ConfigFile != "" {
		p.Item("config", r.ConfigFile)
	}
	p.Item("history", fmt.Sprintf("%s (%s)", r.HistoryPath, r.HistoryFormat))
	p.Item("autoload", fmt.Sprintf("%t", r.Autoload))
	p.Item("autosave", fmt.Sprintf("%t", r.Autosave))
	switch {
	case r.ResultTemplate == "":
		p.Item("results", "default sentence")
	case r.ResultPreview != "":
		p.Item("results", fmt.Sprintf("2.5 add 3.1 renders as %q", r.ResultPreview))
	}
	p.Printf("")

	if len(r.Errors) > 0 {
		p.Section("Errors")
		for _, fe := range r.Errors {
			if fe.Field != "" {
				p.Printf("  %s %s: %s", printer.Cross, fe.Field, fe.Message)
			} else {
				p.Printf("  %s %s", printer.Cross, fe.Message)
			}
		}
		p.Printf("")
	}

	if len(r.Warnings) > 0 {
		p.Section("Warnings")
		for _, warn := range r.Warnings {
			msg := warn.Message
			if warn.Item != "" {
				msg = warn.Item + ": " + msg
			}
			p.Printf("  %s %s: %s", printer.Dot, warn.Category, msg)
		}
		p.Printf("")
	}

	if r.Valid {
		if len(r.Warnings) > 0 {
			p.Successf("Configuration is valid (%d warning(s))", len(r.Warnings))
		} else {
			p.Successf("Configuration is valid")
		}
		return nil
	}

	p.Errorf("%d error(s), %d warning(s)", len(r.Errors), len(r.Warnings))
	return cli.Exit("", 1)
}
