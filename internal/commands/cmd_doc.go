package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/calc/internal/core/calc"
	"github.com/hay-kot/calc/internal/core/config"
)

type DocCmd struct {
	flags *Flags
	raw   bool
}

func NewDocCmd(flags *Flags) *DocCmd {
	return &DocCmd{flags: flags}
}

func (cmd *DocCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "doc",
		Usage: "Show the calculator guide",
		Description: `Prints the guide to shell commands, history and configuration.

The guide is rendered for the terminal when stdout is one. Use --raw to
print the markdown source.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "raw",
				Usage:       "print markdown without rendering",
				Destination: &cmd.raw,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *DocCmd) run(_ context.Context, c *cli.Command) error {
	w := c.Root().Writer
	guide := buildGuide(cmd.flags.Config)

	if cmd.raw || !isTerminal(w) {
		_, _ = fmt.Fprint(w, guide)
		return nil
	}

	return renderMarkdown(w, guide)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func renderMarkdown(w io.Writer, md string) error {
	width := 80
	if f, ok := w.(*os.File); ok {
		if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 && tw < width {
			width = tw
		}
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("tokyo-night"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}

	rendered, err := renderer.Render(md)
	if err != nil {
		return fmt.Errorf("render guide: %w", err)
	}

	_, _ = fmt.Fprint(w, rendered)
	return nil
}

func buildGuide(cfg *config.Config) string {
	var b strings.Builder

	b.WriteString("# calc Guide\n\n")
	b.WriteString("Run `calc` to open the shell. Each line is a command followed by its arguments.\n")
	b.WriteString("An empty line shows the menu. Numbers are exact decimals, so `add 0.1 0.2` is `0.3`.\n\n")

	b.WriteString("## Operations\n\n")
	b.WriteString("| Command | Description |\n|---------|-------------|\n")
	for _, op := range calc.Operations {
		fmt.Fprintf(&b, "| `%s <a> <b>` | %s |\n", op, op.Description())
	}
	fmt.Fprintf(&b, "\nDivision results are rounded to %d decimal places. Dividing by zero is an error and is not recorded.\n\n", calc.DivisionPrecision)

	b.WriteString("## History\n\n")
	b.WriteString("| Command | Description |\n|---------|-------------|\n")
	b.WriteString("| `history latest` | Show the most recent calculation |\n")
	b.WriteString("| `history all` | List every calculation with its index |\n")
	b.WriteString("| `history delete <n>` | Remove the calculation at index n |\n")
	b.WriteString("| `history clear` | Empty the history in memory |\n")
	b.WriteString("| `history save` | Write the history file |\n")
	b.WriteString("| `history load` | Replace the history with the file contents |\n")
	b.WriteString("\n`history` on its own opens a menu when the shell runs in a terminal.\n\n")

	b.WriteString("## Configuration\n\n")
	if cfg != nil {
		fmt.Fprintf(&b, "History file: `%s`\n\n", cfg.HistoryPath())
		fmt.Fprintf(&b, "Autoload: `%t`, autosave: `%t`\n\n", cfg.History.Autoload, cfg.History.Autosave)
	}
	b.WriteString("```yaml\n")
	fmt.Fprintf(&b, "data_dir: %s\n", config.DefaultDataDir)
	fmt.Fprintf(&b, "history_file: %s\n", config.DefaultHistoryFile)
	b.WriteString("history:\n  autoload: true\n  autosave: true\n")
	fmt.Fprintf(&b, "prompt: %q\n", config.DefaultPrompt)
	b.WriteString("```\n")

	return b.String()
}
