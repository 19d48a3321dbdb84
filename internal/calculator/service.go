// Package calculator is the entry point that turns operand text into a
// recorded calculation.
package calculator

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hay-kot/calc/internal/core/calc"
	"github.com/hay-kot/calc/internal/core/history"
)

// Result is the outcome of a successful Run.
type Result struct {
	Calculation calc.Calculation
}

// String renders the result as a sentence for the shell.
func (r Result) String() string {
	c := r.Calculation
	return fmt.Sprintf("The result of %s %s %s is equal to %s", c.Operand1(), c.Operation(), c.Operand2(), c.Result())
}

// Service orchestrates parsing, computation and history recording.
type Service struct {
	history *history.History
	log     zerolog.Logger
}

// New creates a Service that records into h.
func New(h *history.History, log zerolog.Logger) *Service {
	return &Service{history: h, log: log}
}

// History returns the history the service records into.
func (s *Service) History() *history.History {
	return s.history
}

// Run parses both operands, applies the named operation and appends the
// calculation to history. History is only modified when every step succeeds.
func (s *Service) Run(ctx context.Context, name, operand1, operand2 string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	s.log.Info().Str("operation", name).Str("operand1", operand1).Str("operand2", operand2).Msg("calculating")

	a, err := calc.ParseOperand(operand1)
	if err != nil {
		s.log.Warn().Err(err).Msg("invalid number input")
		return Result{}, err
	}
	b, err := calc.ParseOperand(operand2)
	if err != nil {
		s.log.Warn().Err(err).Msg("invalid number input")
		return Result{}, err
	}

	op, err := calc.ParseOperation(name)
	if err != nil {
		s.log.Error().Str("operation", name).Msg("unknown operation")
		return Result{}, err
	}

	c, err := calc.NewCalculation(a, b, op)
	if err != nil {
		s.log.Warn().Err(err).Str("operation", name).Msg("operation failed")
		return Result{}, err
	}

	s.history.Append(c)
	s.log.Info().Str("operation", name).Stringer("result", c.Result()).Msg("operation completed")

	return Result{Calculation: c}, nil
}

// RunArgs is Run for raw argument tokens; exactly two are required.
func (s *Service) RunArgs(ctx context.Context, name string, args []string) (Result, error) {
	if len(args) != 2 {
		s.log.Warn().Str("operation", name).Int("args", len(args)).Msg("invalid input format")
		return Result{}, calc.InvalidInputFormat(len(args))
	}
	return s.Run(ctx, name, args[0], args[1])
}
