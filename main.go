package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/calc/internal/calculator"
	"github.com/hay-kot/calc/internal/commands"
	"github.com/hay-kot/calc/internal/core/config"
	"github.com/hay-kot/calc/internal/core/history"
	"github.com/hay-kot/calc/internal/core/registry"
	"github.com/hay-kot/calc/internal/printer"
	"github.com/hay-kot/calc/internal/shell"
	"github.com/hay-kot/calc/internal/store"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}

	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

func main() {
	if err := setupLogger("error", ""); err != nil {
		panic(err)
	}

	var (
		p     = printer.New(os.Stderr)
		ctx   = printer.NewContext(context.Background(), p)
		flags = &commands.Flags{}
	)

	app := &cli.Command{
		Name:      "calc",
		Usage:     "Exact decimal calculator with a persistent history",
		UsageText: "calc [global options] command [command options]",
		Description: `calc adds, subtracts, multiplies and divides decimal numbers without
floating point error and keeps a history of every calculation.

Run 'calc' with no arguments to open the interactive shell.
Run 'calc eval add 2.5 3.1' for a single calculation.
Run 'calc doc' for the full guide.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("CALC_LOG_LEVEL"),
				Value:       "error",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (optional)",
				Sources:     cli.EnvVars("CALC_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("CALC_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "directory holding the history file (overrides data_dir)",
				Sources:     cli.EnvVars("CALC_DATA_DIR", "DATA_DIR"),
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:        "history-file",
				Usage:       "history file name inside the data directory (overrides history_file)",
				Sources:     cli.EnvVars("CALC_HISTORY_FILE"),
				Destination: &flags.HistoryFile,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if err := setupLogger(flags.LogLevel, flags.LogFile); err != nil {
				return ctx, err
			}

			cfg, err := config.Load(flags.ConfigPath, config.Overrides{
				DataDir:     flags.DataDir,
				HistoryFile: flags.HistoryFile,
			})
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			codec, err := store.NewCodec(cfg.History.Format, log.With().Str("component", "store").Logger())
			if err != nil {
				return ctx, err
			}

			var (
				hist = history.New(codec, log.With().Str("component", "history").Logger())
				svc  = calculator.New(hist, log.With().Str("component", "calculator").Logger())
				reg  = registry.New(log.With().Str("component", "registry").Logger())
			)

			opts := shell.Options{
				HistoryPath:    cfg.HistoryPath(),
				ResultTemplate: cfg.ResultTemplate,
			}
			if term.IsTerminal(int(os.Stdin.Fd())) {
				opts.Menu = shell.HuhMenu
			}
			shell.RegisterBuiltins(reg, svc, opts)

			flags.Codec = codec
			flags.History = hist
			flags.Service = svc
			flags.Registry = reg
			return ctx, nil
		},
	}

	shellCmd := commands.NewShellCmd(flags)

	app = commands.NewEvalCmd(flags).Register(app)
	app = commands.NewBatchCmd(flags).Register(app)
	app = commands.NewHistoryCmd(flags).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)
	app = commands.NewDoctorCmd(flags).Register(app)
	app = commands.NewDocCmd(flags).Register(app)

	// Register shell flags on root command
	app.Flags = append(app.Flags, shellCmd.Flags()...)

	// The shell is the default action when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'calc --help' for usage", c.Args().First())
		}
		return shellCmd.Run(ctx, c)
	}

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr)
		printer.Ctx(ctx).FatalError(err)
		os.Exit(1)
	}
}

func setupLogger(level string, logFile string) error {
	parsedLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}

	var output io.Writer = zerolog.ConsoleWriter{Out: os.Stderr}

	if logFile != "" {
		logDir := filepath.Dir(logFile)
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}

		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}

		// With a log file, the console only gets errors so the shell stays readable
		output = zerolog.MultiLevelWriter(
			levelFilter{w: zerolog.ConsoleWriter{Out: os.Stderr}, min: zerolog.ErrorLevel},
			file,
		)
	}

	log.Logger = log.Output(output).Level(parsedLevel)

	return nil
}

// levelFilter drops events below min.
type levelFilter struct {
	w   io.Writer
	min zerolog.Level
}

func (f levelFilter) Write(p []byte) (int, error) {
	return f.w.Write(p)
}

func (f levelFilter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if l < f.min {
		return len(p), nil
	}
	return f.w.Write(p)
}
