package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/calc/internal/printer"
	"github.com/hay-kot/calc/internal/shell"
	"github.com/hay-kot/calc/internal/styles"
)

type ShellCmd struct {
	flags *Flags
	stdin io.Reader

	noHistory bool
}

// NewShellCmd creates the interactive shell, the default action of calc.
func NewShellCmd(flags *Flags) *ShellCmd {
	return &ShellCmd{flags: flags, stdin: os.Stdin}
}

// Flags returns the shell flags for registration on the root command
func (cmd *ShellCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "no-history",
			Usage:       "do not load or save the history file",
			Destination: &cmd.noHistory,
		},
	}
}

// Run executes the shell. Exported for use as default command.
func (cmd *ShellCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *ShellCmd) run(ctx context.Context, c *cli.Command) error {
	var (
		cfg         = cmd.flags.Config
		interactive = isTerminalReader(cmd.stdin)
		p           = printer.New(c.Root().Writer)
		autosave    = !cmd.noHistory && cfg.History.Autosave
	)

	ctx = printer.NewContext(ctx, p)

	if interactive {
		p.Printf("%s", styles.BannerStyle.Render(styles.Banner))
		p.Infof("Type a command with two operands, e.g. add 2.5 3.1. An empty line shows the menu, exit quits.")
	}

	if !cmd.noHistory && cfg.History.Autoload {
		n, err := cmd.flags.loadHistory(ctx)
		switch {
		case err != nil:
			// Saving now would replace a file we could not read.
			autosave = false
			p.Warnf("%s", shell.Message(err))
			p.Warnf("Autosave is off for this session so %s is left untouched", cfg.HistoryPath())
		case n > 0 && interactive:
			p.Infof("Loaded %d calculation(s) from %s", n, cfg.HistoryPath())
		}
	}

	in, err := cmd.input(interactive)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	sh := shell.New(cmd.flags.Registry, log.With().Str("component", "shell").Logger())
	runErr := sh.Run(ctx, in)

	if autosave {
		if err := cmd.flags.saveHistory(ctx); err != nil {
			return err
		}
	}

	return runErr
}

func (cmd *ShellCmd) input(interactive bool) (shell.LineReader, error) {
	if !interactive {
		return shell.NewPlain(cmd.stdin), nil
	}

	in, err := shell.NewReadline(cmd.flags.Config.Prompt, cmd.flags.Registry)
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	return in, nil
}

func isTerminalReader(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
