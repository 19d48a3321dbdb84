// Package shell runs the interactive calculator prompt on top of the
// command registry.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"

	"github.com/hay-kot/calc/internal/core/calc"
	"github.com/hay-kot/calc/internal/core/registry"
	"github.com/hay-kot/calc/internal/printer"
)

// Shell reads command lines and dispatches them through a registry.
type Shell struct {
	registry *registry.Registry
	log      zerolog.Logger
}

// New creates a Shell dispatching to r.
func New(r *registry.Registry, log zerolog.Logger) *Shell {
	return &Shell{registry: r, log: log}
}

// Run processes lines from in until exit, end of input or interrupt.
// Command failures are printed and never end the loop.
func (s *Shell) Run(ctx context.Context, in LineReader) error {
	s.log.Info().Msg("shell started")
	defer s.log.Info().Msg("shell stopped")

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line, err := in.Readline()
		if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		if s.Execute(ctx, line) {
			return nil
		}
	}
}

// Execute handles one input line and reports whether the shell should exit.
// An empty line shows the menu.
func (s *Shell) Execute(ctx context.Context, line string) bool {
	p := printer.Ctx(ctx)

	fields := strings.Fields(line)
	if len(fields) == 0 {
		s.showMenu(ctx)
		return false
	}

	name := strings.ToLower(fields[0])
	err := s.registry.Dispatch(ctx, name, fields[1:])
	switch {
	case err == nil:
		return false
	case errors.Is(err, registry.ErrStop):
		return true
	case errors.Is(err, calc.ErrCommandNotFound):
		p.Errorf("Unknown command: %s", strings.TrimSpace(line))
		s.showMenu(ctx)
	default:
		p.Errorf("%s", Message(err))
	}

	return false
}

func (s *Shell) showMenu(ctx context.Context) {
	if err := s.registry.Dispatch(ctx, CmdShowMenu, nil); err != nil {
		s.log.Error().Err(err).Msg("show menu")
	}
}

// Message returns the user-facing text for err: the innermost calculator
// error below any command wrapper, or err itself.
func Message(err error) string {
	var ce *calc.Error
	if !errors.As(err, &ce) {
		return err.Error()
	}

	for ce.Kind == calc.KindCommandExecutionFailed && ce.Err != nil {
		var inner *calc.Error
		if !errors.As(ce.Err, &inner) {
			return ce.Err.Error()
		}
		ce = inner
	}

	return ce.Error()
}
