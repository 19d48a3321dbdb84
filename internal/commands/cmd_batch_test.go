package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/calc/internal/calculator"
	"github.com/hay-kot/calc/internal/core/history"
	"github.com/hay-kot/calc/internal/store/csvfile"
)

func TestBatchInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   BatchInput
		wantErr string
	}{
		{
			name:    "empty calculations",
			input:   BatchInput{Calculations: []BatchCalculation{}},
			wantErr: "calculations",
		},
		{
			name: "unknown operation",
			input: BatchInput{Calculations: []BatchCalculation{
				{Operation: "power", Operand1: "2", Operand2: "8"},
			}},
			wantErr: "calculations[0].operation",
		},
		{
			name: "missing operand",
			input: BatchInput{Calculations: []BatchCalculation{
				{Operation: "add", Operand1: "1", Operand2: "2"},
				{Operation: "add", Operand1: "   "},
			}},
			wantErr: "calculations[1].operand1",
		},
		{
			name: "valid input",
			input: BatchInput{Calculations: []BatchCalculation{
				{Operation: "add", Operand1: "1", Operand2: "2"},
				{Operation: "DIVIDE", Operand1: "1", Operand2: "0"},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDecodeBatchInput(t *testing.T) {
	input, err := decodeBatchInput(strings.NewReader(`{
		"calculations": [
			{"operation": "add", "operand1": "2.5", "operand2": "3.1"},
			{"operation": "divide", "operand1": "10", "operand2": "4"}
		]
	}`))
	require.NoError(t, err)
	require.Len(t, input.Calculations, 2)
	assert.Equal(t, BatchCalculation{Operation: "divide", Operand1: "10", Operand2: "4"}, input.Calculations[1])

	_, err = decodeBatchInput(strings.NewReader("{"))
	assert.ErrorContains(t, err, "decode JSON")
}

func newBatchCmd(maxFailures int) (*BatchCmd, *history.History) {
	h := history.New(csvfile.New(zerolog.Nop()), zerolog.Nop())
	flags := &Flags{
		History: h,
		Service: calculator.New(h, zerolog.Nop()),
	}
	return &BatchCmd{flags: flags, maxFailures: maxFailures}, h
}

func TestBatchCmd_Process(t *testing.T) {
	input := BatchInput{Calculations: []BatchCalculation{
		{Operation: "add", Operand1: "2.5", Operand2: "3.1"},
		{Operation: "divide", Operand1: "1", Operand2: "0"},
		{Operation: "multiply", Operand1: "x", Operand2: "2"},
		{Operation: "subtract", Operand1: "10", Operand2: "4"},
	}}

	t.Run("failures do not stop processing", func(t *testing.T) {
		cmd, h := newBatchCmd(0)

		out := cmd.process(context.Background(), zerolog.Nop(), "abc123", input)

		assert.Equal(t, "abc123", out.BatchID)
		require.Len(t, out.Results, 4)
		assert.Equal(t, StatusOK, out.Results[0].Status)
		assert.Equal(t, "5.6", out.Results[0].Result)
		assert.Equal(t, StatusFailed, out.Results[1].Status)
		assert.Contains(t, out.Results[1].Error, "cannot divide by zero")
		assert.Equal(t, StatusFailed, out.Results[2].Status)
		assert.Equal(t, StatusOK, out.Results[3].Status)
		assert.Equal(t, 4, out.Results[3].Index)

		assert.Equal(t, 2, h.Len(), "only successful calculations are recorded")
	})

	t.Run("max failures skips the rest", func(t *testing.T) {
		cmd, h := newBatchCmd(1)

		out := cmd.process(context.Background(), zerolog.Nop(), "abc123", input)

		assert.Equal(t, 1, countByStatus(out.Results, StatusOK))
		assert.Equal(t, 1, countByStatus(out.Results, StatusFailed))
		assert.Equal(t, 2, countByStatus(out.Results, StatusSkipped))
		assert.Equal(t, 1, h.Len())
	})
}

func TestWriteBatchOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeBatchOutput(&buf, BatchOutput{
		BatchID: "abc123",
		Results: []BatchResult{{Index: 1, Operation: "add", Operand1: "1", Operand2: "2", Result: "3", Status: StatusOK}},
	}))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "abc123", decoded["batch_id"])

	results, ok := decoded["results"].([]any)
	require.True(t, ok)
	first, ok := results[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "3", first["result"])
	assert.NotContains(t, first, "error")
}

func TestNewBatchID(t *testing.T) {
	id := newBatchID()
	assert.Len(t, id, 6)
	assert.Regexp(t, `^[a-z0-9]{6}$`, id)
}
