package commands

import (
	"context"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/calc/internal/commands/doctor"
	"github.com/hay-kot/calc/internal/printer"
)

type DoctorCmd struct {
	flags  *Flags
	format string
	fix    bool
}

func NewDoctorCmd(flags *Flags) *DoctorCmd {
	return &DoctorCmd{flags: flags}
}

func (cmd *DoctorCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "doctor",
		Usage:       "Run health checks on your calc setup",
		UsageText:   "calc doctor [options]",
		Description: "Checks the configuration, the data directory and the rows of the history file.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
			&cli.BoolFlag{
				Name:        "fix",
				Usage:       "rewrite the history file without malformed rows",
				Destination: &cmd.fix,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *DoctorCmd) run(ctx context.Context, c *cli.Command) error {
	checks := []doctor.Check{
		doctor.NewConfigCheck(cmd.flags.Config, cmd.flags.ConfigPath),
	}
	if cmd.flags.Config != nil && cmd.flags.Codec != nil {
		checks = append(checks, doctor.NewHistoryFileCheck(cmd.flags.Codec, cmd.flags.Config.HistoryPath(), cmd.fix))
	}

	report := doctor.Run(ctx, checks)

	if cmd.format == "json" {
		enc := json.NewEncoder(c.Root().Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	return cmd.outputText(ctx, report)
}

func (cmd *DoctorCmd) outputText(ctx context.Context, report doctor.Report) error {
	p := printer.Ctx(ctx)

	for _, result := range report.Checks {
		p.Section(result.Name)

		for _, item := range result.Items {
			switch item.Status {
			case doctor.StatusPass:
				p.CheckItem(item.Label, item.Detail)
			case doctor.StatusWarn:
				p.WarnItem(item.Label, item.Detail)
			case doctor.StatusFail:
				p.FailItem(item.Label, item.Detail)
			}
		}

		p.Printf("")
	}

	p.Printf("Summary: %d passed, %d warnings, %d failed", report.Passed, report.Warned, report.Failed)

	if report.Fixable > 0 {
		p.Infof("Run 'calc doctor --fix' to repair %d issue(s)", report.Fixable)
	}

	if !report.Healthy {
		return cli.Exit("", 1)
	}

	return nil
}
