package shell

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/hay-kot/calc/internal/calculator"
	"github.com/hay-kot/calc/internal/core/calc"
	"github.com/hay-kot/calc/internal/core/registry"
	"github.com/hay-kot/calc/internal/printer"
	"github.com/hay-kot/calc/pkg/tmpl"
)

// Built-in command names besides the arithmetic operations.
const (
	CmdHistory  = "history"
	CmdShowMenu = "show_menu"
	CmdExit     = "exit"
)

// Options configures the built-in commands.
type Options struct {
	// HistoryPath is the file used by "history save" and "history load".
	HistoryPath string
	// Menu, when set, is shown by "history" without arguments.
	Menu Menu
	// ResultTemplate, when set, formats operation results. See pkg/tmpl.
	ResultTemplate string
}

// RegisterBuiltins registers the arithmetic, history, menu and exit commands
// on r in menu order.
func RegisterBuiltins(r *registry.Registry, svc *calculator.Service, opts Options) {
	for _, op := range calc.Operations {
		r.Register(registry.Descriptor{
			Name:        op.String(),
			Description: op.Description() + " Usage: " + op.String() + " <operand1> <operand2>",
			Handler:     operationHandler(svc, op, opts.ResultTemplate),
		})
	}

	hc := &historyCommand{history: svc.History(), path: opts.HistoryPath, menu: opts.Menu}
	r.Register(registry.Descriptor{
		Name:        CmdHistory,
		Description: "Manage calculation history (latest, all, clear, save, load, delete <n>).",
		Handler:     registry.HandlerFunc(hc.execute),
	})

	r.Register(registry.Descriptor{
		Name:        CmdShowMenu,
		Description: "Show the menu of all commands.",
		Handler:     registry.HandlerFunc(menuHandler(r)),
	})

	r.Register(registry.Descriptor{
		Name:        CmdExit,
		Description: "Exit the calculator.",
		Handler: registry.HandlerFunc(func(context.Context, []string) error {
			return registry.ErrStop
		}),
	})
}

func operationHandler(svc *calculator.Service, op calc.Operation, resultTmpl string) registry.Handler {
	return registry.HandlerFunc(func(ctx context.Context, args []string) error {
		res, err := svc.RunArgs(ctx, op.String(), args)
		if err != nil {
			return err
		}

		printer.Ctx(ctx).Result(formatResult(res, resultTmpl))
		return nil
	})
}

// formatResult renders res with resultTmpl. The calculation is already
// recorded, so a template that fails to render falls back to the default
// sentence.
func formatResult(res calculator.Result, resultTmpl string) string {
	if resultTmpl == "" {
		return res.String()
	}

	c := res.Calculation
	text, err := tmpl.Render(resultTmpl, tmpl.Result{
		Operand1:  c.Operand1(),
		Operand2:  c.Operand2(),
		Operation: c.Operation().String(),
		Result:    c.Result(),
	})
	if err != nil {
		log.Warn().Err(err).Msg("result template failed, using default format")
		return res.String()
	}
	return text
}

func menuHandler(r *registry.Registry) func(context.Context, []string) error {
	return func(ctx context.Context, _ []string) error {
		p := printer.Ctx(ctx)
		p.Section("Application Menu")
		for _, e := range r.List() {
			p.Item(e.Name, e.Description)
		}
		return nil
	}
}
