package commands

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/calc/internal/calculator"
	"github.com/hay-kot/calc/internal/core/calc"
	"github.com/hay-kot/calc/internal/core/config"
	"github.com/hay-kot/calc/internal/core/history"
	"github.com/hay-kot/calc/internal/core/registry"
	"github.com/hay-kot/calc/internal/printer"
	"github.com/hay-kot/calc/internal/shell"
	"github.com/hay-kot/calc/internal/store"
)

// newTestFlags wires the same pieces as the root Before hook around a
// history file in a temp dir.
func newTestFlags(t *testing.T, format string) *Flags {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.History.Format = format
	if format == config.FormatJSON {
		cfg.HistoryFile = "history.json"
	}

	codec, err := store.NewCodec(format, zerolog.Nop())
	require.NoError(t, err)

	var (
		hist = history.New(codec, zerolog.Nop())
		svc  = calculator.New(hist, zerolog.Nop())
		reg  = registry.New(zerolog.Nop())
	)
	shell.RegisterBuiltins(reg, svc, shell.Options{HistoryPath: cfg.HistoryPath()})

	return &Flags{
		Config:   &cfg,
		Codec:    codec,
		History:  hist,
		Service:  svc,
		Registry: reg,
	}
}

type runOutput struct {
	stdout string
	stderr string
}

// runApp runs app with args after the program name. Command output goes to
// stdout, printer output to stderr.
func runApp(t *testing.T, app *cli.Command, args ...string) (runOutput, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	app.Name = "calc"
	app.Writer = &stdout
	app.ErrWriter = &stderr

	ctx := printer.NewContext(context.Background(), printer.New(&stderr))
	err := app.Run(ctx, append([]string{"calc"}, args...))

	return runOutput{stdout: stdout.String(), stderr: stderr.String()}, err
}

func writeHistoryFile(t *testing.T, flags *Flags, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(flags.Config.HistoryPath(), []byte(content), 0o644))
}

func readHistoryFile(t *testing.T, flags *Flags) string {
	t.Helper()
	data, err := os.ReadFile(flags.Config.HistoryPath())
	require.NoError(t, err)
	return string(data)
}

func savedRecords(t *testing.T, flags *Flags) []calc.Calculation {
	t.Helper()
	records, skipped, err := flags.Codec.Read(context.Background(), flags.Config.HistoryPath())
	require.NoError(t, err)
	require.Zero(t, skipped)
	return records
}

func seedHistory(t *testing.T, flags *Flags, rows ...[3]string) {
	t.Helper()

	records := make([]calc.Calculation, 0, len(rows))
	for _, r := range rows {
		c, err := calc.ParseCalculation(r[0], r[1], r[2], "")
		require.NoError(t, err)
		records = append(records, c)
	}
	require.NoError(t, flags.Codec.Write(context.Background(), flags.Config.HistoryPath(), records))
}

func historyFileExists(flags *Flags) bool {
	_, err := os.Stat(flags.Config.HistoryPath())
	return err == nil
}
