package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/calc/internal/core/calc"
	"github.com/hay-kot/calc/internal/printer"
)

type HistoryCmd struct {
	flags *Flags

	// Command-specific flags
	json   bool
	clear  bool
	delete int
}

// NewHistoryCmd creates a new history command
func NewHistoryCmd(flags *Flags) *HistoryCmd {
	return &HistoryCmd{flags: flags}
}

// Register adds the history command to the application
func (cmd *HistoryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "history",
		Usage:     "View or manage the calculation history file",
		UsageText: "calc history [options]",
		Description: `View or manage the saved calculation history.

By default, lists saved calculations with their index, operands and result.
Use --delete N to remove the Nth calculation, or --clear to remove all of them.
Both rewrite the history file.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.json,
			},
			&cli.BoolFlag{
				Name:        "clear",
				Aliases:     []string{"c"},
				Usage:       "clear all saved calculations",
				Destination: &cmd.clear,
			},
			&cli.IntFlag{
				Name:        "delete",
				Aliases:     []string{"d"},
				Usage:       "delete the calculation at this 1-based index",
				Destination: &cmd.delete,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *HistoryCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	if _, err := cmd.flags.loadHistory(ctx); err != nil {
		return err
	}

	switch {
	case cmd.clear:
		return cmd.runClear(ctx, p)
	case c.IsSet("delete"):
		return cmd.runDelete(ctx, p)
	default:
		return cmd.runList(ctx, c.Root().Writer)
	}
}

// historyEntry is the JSON shape of one saved calculation.
type historyEntry struct {
	Index     int    `json:"index"`
	Operand1  string `json:"operand1"`
	Operand2  string `json:"operand2"`
	Operation string `json:"operation"`
	Result    string `json:"result"`
}

func toEntries(records []calc.Calculation) []historyEntry {
	entries := make([]historyEntry, 0, len(records))
	for i, r := range records {
		entries = append(entries, historyEntry{
			Index:     i + 1,
			Operand1:  r.Operand1().String(),
			Operand2:  r.Operand2().String(),
			Operation: r.Operation().String(),
			Result:    r.Result().String(),
		})
	}
	return entries
}

func (cmd *HistoryCmd) runList(ctx context.Context, out io.Writer) error {
	entries := toEntries(cmd.flags.History.All())

	if cmd.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		printer.Ctx(ctx).Infof("No calculations in history")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tOPERAND1\tOPERATION\tOPERAND2\tRESULT")

	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			e.Index,
			e.Operand1,
			e.Operation,
			e.Operand2,
			e.Result,
		)
	}

	return w.Flush()
}

func (cmd *HistoryCmd) runClear(ctx context.Context, p *printer.Printer) error {
	n := cmd.flags.History.Len()
	cmd.flags.History.Clear()

	if err := cmd.flags.saveHistory(ctx); err != nil {
		return err
	}

	p.Successf("Cleared %d calculation(s)", n)
	return nil
}

func (cmd *HistoryCmd) runDelete(ctx context.Context, p *printer.Printer) error {
	removed, err := cmd.flags.History.Delete(cmd.delete - 1)
	if err != nil {
		return fmt.Errorf("delete calculation: %w", err)
	}

	if err := cmd.flags.saveHistory(ctx); err != nil {
		return err
	}

	p.Successf("Deleted %s", removed)
	return nil
}
