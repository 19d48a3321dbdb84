package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/calc/internal/core/calc"
)

type EvalCmd struct {
	flags *Flags

	noSave bool
}

// NewEvalCmd creates the one-shot calculation command.
func NewEvalCmd(flags *Flags) *EvalCmd {
	return &EvalCmd{flags: flags}
}

// Register adds the eval command to the application
func (cmd *EvalCmd) Register(app *cli.Command) *cli.Command {
	names := make([]string, 0, len(calc.Operations))
	for _, op := range calc.Operations {
		names = append(names, op.String())
	}

	app.Commands = append(app.Commands, &cli.Command{
		Name:      "eval",
		Usage:     "Run a single calculation",
		UsageText: "calc eval [options] <operation> <operand1> <operand2>",
		Description: fmt.Sprintf(`Runs one calculation and prints the result.

Operations: %s.
The calculation is appended to the history file unless --no-save is set
or history.autosave is disabled. Put -- before negative operands:

  calc eval -- subtract -1 2`, strings.Join(names, ", ")),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "no-save",
				Usage:       "do not record the calculation in the history file",
				Destination: &cmd.noSave,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *EvalCmd) run(ctx context.Context, c *cli.Command) error {
	args := c.Args().Slice()
	if len(args) == 0 {
		return fmt.Errorf("missing operation. Usage: %s", c.UsageText)
	}

	persist := !cmd.noSave && cmd.flags.Config.History.Autosave
	if persist {
		if _, err := cmd.flags.loadHistory(ctx); err != nil {
			return err
		}
	}

	res, err := cmd.flags.Service.RunArgs(ctx, args[0], args[1:])
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(c.Root().Writer, res.String())

	if persist {
		return cmd.flags.saveHistory(ctx)
	}
	return nil
}
