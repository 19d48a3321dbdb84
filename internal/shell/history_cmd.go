package shell

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/hay-kot/calc/internal/core/calc"
	"github.com/hay-kot/calc/internal/core/history"
	"github.com/hay-kot/calc/internal/printer"
)

type historyAction struct {
	name  string
	label string
}

var historyActions = []historyAction{
	{name: "latest", label: "Retrieve the most recent calculation"},
	{name: "all", label: "Retrieve all calculations"},
	{name: "clear", label: "Clear calculation history"},
	{name: "save", label: "Save calculation history to file"},
	{name: "load", label: "Load calculation history from file"},
	{name: "delete", label: "Delete a calculation from history"},
}

type historyCommand struct {
	history *history.History
	path    string
	menu    Menu
}

func (hc *historyCommand) execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		if hc.menu != nil {
			return hc.runMenu(ctx)
		}
		return hc.all(ctx)
	}
	return hc.run(ctx, strings.ToLower(args[0]), args[1:])
}

func (hc *historyCommand) run(ctx context.Context, action string, args []string) error {
	switch action {
	case "latest":
		return hc.latest(ctx)
	case "all":
		return hc.all(ctx)
	case "clear":
		return hc.clear(ctx)
	case "save":
		return hc.save(ctx)
	case "load":
		return hc.load(ctx)
	case "delete":
		return hc.delete(ctx, args)
	default:
		return fmt.Errorf("unknown history action %q (use latest, all, clear, save, load or delete <n>)", action)
	}
}

// runMenu repeats the interactive menu until the user goes back.
func (hc *historyCommand) runMenu(ctx context.Context) error {
	p := printer.Ctx(ctx)
	for {
		args, err := hc.menu(ctx, hc.history.Len())
		if err != nil {
			return err
		}
		if len(args) == 0 {
			return nil
		}
		if err := hc.run(ctx, args[0], args[1:]); err != nil {
			p.Errorf("%s", Message(err))
		}
	}
}

func (hc *historyCommand) latest(ctx context.Context) error {
	p := printer.Ctx(ctx)
	c, ok := hc.history.Latest()
	if !ok {
		p.Infof("No calculations in history.")
		return nil
	}
	p.Result(describe(c))
	return nil
}

func (hc *historyCommand) all(ctx context.Context) error {
	p := printer.Ctx(ctx)
	records := hc.history.All()
	if len(records) == 0 {
		p.Infof("No calculations in history.")
		return nil
	}

	p.Section("All Calculations")
	for i, c := range records {
		p.Printf("%d. %s", i+1, describe(c))
	}
	return nil
}

func (hc *historyCommand) clear(ctx context.Context) error {
	p := printer.Ctx(ctx)
	if hc.history.Len() == 0 {
		p.Infof("History is already empty, no history to clear.")
		return nil
	}
	hc.history.Clear()
	p.Successf("Calculation history cleared.")
	return nil
}

func (hc *historyCommand) save(ctx context.Context) error {
	if err := hc.history.Save(ctx, hc.path); err != nil {
		return err
	}
	printer.Ctx(ctx).Successf("Saved %d calculation(s) to %s", hc.history.Len(), hc.path)
	return nil
}

func (hc *historyCommand) load(ctx context.Context) error {
	n, skipped, err := hc.history.Load(ctx, hc.path)
	if err != nil {
		return err
	}
	p := printer.Ctx(ctx)
	p.Successf("Loaded %d calculation(s) from %s", n, hc.path)
	if skipped > 0 {
		p.Warnf("Skipped %d malformed row(s)", skipped)
	}
	return nil
}

func (hc *historyCommand) delete(ctx context.Context, args []string) error {
	if hc.history.Len() == 0 {
		printer.Ctx(ctx).Infof("No history available to delete.")
		return nil
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: history delete <n>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid index %q: enter a number from the history list", args[0])
	}

	removed, err := hc.history.Delete(n - 1)
	if err != nil {
		return err
	}
	printer.Ctx(ctx).Successf("Calculation at index %d has been deleted: %s", n, removed)
	return nil
}

func describe(c calc.Calculation) string {
	return fmt.Sprintf("%s results in %s", c, c.Result())
}
