package commands

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/calc/internal/core/calc"
)

const (
	// StatusOK indicates the calculation succeeded and was recorded.
	StatusOK = "ok"
	// StatusFailed indicates the calculation returned an error.
	StatusFailed = "failed"
	// StatusSkipped indicates the calculation was not attempted due to the failure limit.
	StatusSkipped = "skipped"
)

// BatchInput is the JSON input schema for batch calculations.
type BatchInput struct {
	Calculations []BatchCalculation `json:"calculations"`
}

// Validate checks the batch input for errors using criterio.
func (b BatchInput) Validate() error {
	if len(b.Calculations) == 0 {
		return criterio.NewFieldErrors("calculations", fmt.Errorf("array is empty"))
	}

	var errs criterio.FieldErrorsBuilder
	for i, c := range b.Calculations {
		field := fmt.Sprintf("calculations[%d]", i)

		if _, err := calc.ParseOperation(c.Operation); err != nil {
			errs = errs.Append(field+".operation", err)
		}
		if strings.TrimSpace(c.Operand1) == "" {
			errs = errs.Append(field+".operand1", fmt.Errorf("is required"))
		}
		if strings.TrimSpace(c.Operand2) == "" {
			errs = errs.Append(field+".operand2", fmt.Errorf("is required"))
		}
	}

	return errs.ToError()
}

// BatchCalculation defines a single calculation to run.
type BatchCalculation struct {
	Operation string `json:"operation"`
	Operand1  string `json:"operand1"`
	Operand2  string `json:"operand2"`
}

// BatchResult is the output for a single calculation.
type BatchResult struct {
	Index     int    `json:"index"`
	Operation string `json:"operation"`
	Operand1  string `json:"operand1"`
	Operand2  string `json:"operand2"`
	Result    string `json:"result,omitempty"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

// BatchOutput is the JSON output schema.
type BatchOutput struct {
	BatchID string        `json:"batch_id"`
	Results []BatchResult `json:"results"`
}

// BatchErrorOutput is the JSON output for fatal errors.
type BatchErrorOutput struct {
	Error string `json:"error"`
}

type BatchCmd struct {
	flags       *Flags
	file        string
	maxFailures int
	noSave      bool
}

func NewBatchCmd(flags *Flags) *BatchCmd {
	return &BatchCmd{flags: flags}
}

func (cmd *BatchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "batch",
		Usage: "Run multiple calculations from JSON input",
		UsageText: `calc batch [options]

Read from stdin:
  echo '{"calculations":[{"operation":"add","operand1":"2.5","operand2":"3.1"}]}' | calc batch

Read from file:
  calc batch -f calculations.json`,
		Description: `Runs calculations from a JSON document in order.

Successful calculations are appended to the history, which is saved when
history.autosave is enabled and --no-save is not set. With --max-failures N,
processing stops after N failures and the rest are marked as skipped.

Input JSON schema:
  {
    "calculations": [
      {"operation": "divide", "operand1": "10", "operand2": "4"}
    ]
  }

Output is JSON with a batch ID and one result per calculation.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "path to JSON file (reads from stdin if not provided)",
				Destination: &cmd.file,
			},
			&cli.IntFlag{
				Name:        "max-failures",
				Usage:       "stop after this many failed calculations (0 = never stop)",
				Destination: &cmd.maxFailures,
			},
			&cli.BoolFlag{
				Name:        "no-save",
				Usage:       "do not write the history file",
				Destination: &cmd.noSave,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *BatchCmd) run(ctx context.Context, c *cli.Command) error {
	var (
		w       = c.Root().Writer
		batchID = newBatchID()
		logger  = log.With().Str("component", "batch").Str("batch_id", batchID).Logger()
	)

	input, err := cmd.readInput()
	if err != nil {
		logger.Error().Err(err).Msg("failed to read input")
		return writeBatchError(w, fmt.Errorf("read input: %w", err))
	}

	if err := input.Validate(); err != nil {
		logger.Error().Err(err).Msg("input validation failed")
		return writeBatchError(w, fmt.Errorf("invalid input: %w", err))
	}

	persist := !cmd.noSave && cmd.flags.Config.History.Autosave
	if persist {
		if _, err := cmd.flags.loadHistory(ctx); err != nil {
			return writeBatchError(w, err)
		}
	}

	output := cmd.process(ctx, logger, batchID, input)

	if persist && countByStatus(output.Results, StatusOK) > 0 {
		if err := cmd.flags.saveHistory(ctx); err != nil {
			return writeBatchError(w, err)
		}
	}

	return writeBatchOutput(w, output)
}

func (cmd *BatchCmd) process(ctx context.Context, logger zerolog.Logger, batchID string, input BatchInput) BatchOutput {
	output := BatchOutput{
		BatchID: batchID,
		Results: make([]BatchResult, 0, len(input.Calculations)),
	}

	failures := 0
	for i, in := range input.Calculations {
		result := BatchResult{
			Index:     i + 1,
			Operation: in.Operation,
			Operand1:  in.Operand1,
			Operand2:  in.Operand2,
		}

		if cmd.maxFailures > 0 && failures >= cmd.maxFailures {
			result.Status = StatusSkipped
			output.Results = append(output.Results, result)
			continue
		}

		res, err := cmd.flags.Service.Run(ctx, in.Operation, in.Operand1, in.Operand2)
		if err != nil {
			failures++
			result.Status = StatusFailed
			result.Error = err.Error()
			logger.Warn().Err(err).Int("index", i+1).Msg("calculation failed")
		} else {
			result.Status = StatusOK
			result.Result = res.Calculation.Result().String()
		}
		output.Results = append(output.Results, result)
	}

	logger.Info().
		Int("total", len(input.Calculations)).
		Int("ok", countByStatus(output.Results, StatusOK)).
		Int("failed", countByStatus(output.Results, StatusFailed)).
		Int("skipped", countByStatus(output.Results, StatusSkipped)).
		Msg("batch processing complete")

	return output
}

func (cmd *BatchCmd) readInput() (BatchInput, error) {
	var reader io.Reader

	if cmd.file != "" {
		f, err := os.Open(cmd.file)
		if err != nil {
			return BatchInput{}, fmt.Errorf("open file: %w", err)
		}
		defer func() { _ = f.Close() }()
		reader = f
	} else {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return BatchInput{}, fmt.Errorf("no input provided (stdin is a terminal); use -f flag or pipe JSON input")
		}
		reader = os.Stdin
	}

	return decodeBatchInput(reader)
}

func decodeBatchInput(r io.Reader) (BatchInput, error) {
	var input BatchInput
	if err := json.NewDecoder(r).Decode(&input); err != nil {
		return BatchInput{}, fmt.Errorf("decode JSON: %w", err)
	}
	return input, nil
}

func writeBatchOutput(w io.Writer, output BatchOutput) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func writeBatchError(w io.Writer, err error) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(BatchErrorOutput{Error: err.Error()}); encErr != nil {
		fmt.Fprintf(os.Stderr, "error: %s (failed to write JSON: %v)\n", err, encErr)
	}
	return err
}

func countByStatus(results []BatchResult, status string) int {
	count := 0
	for _, r := range results {
		if r.Status == status {
			count++
		}
	}
	return count
}

// newBatchID returns a short random lowercase alphanumeric ID.
func newBatchID() string {
	const chars = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, 6)
	for i := range b {
		b[i] = chars[rand.IntN(len(chars))]
	}
	return string(b)
}
