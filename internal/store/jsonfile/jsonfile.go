// Package jsonfile persists calculation history as a JSON document.
package jsonfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/hay-kot/calc/internal/core/calc"
	"github.com/hay-kot/calc/internal/core/history"
)

// HistoryFile is the root JSON structure stored on disk.
type HistoryFile struct {
	Calculations []Record `json:"calculations"`
}

// Record is one calculation with decimals kept as strings.
type Record struct {
	Operand1  string `json:"operand1"`
	Operand2  string `json:"operand2"`
	Operation string `json:"operation"`
	Result    string `json:"result"`
}

// Codec implements history.Codec using a JSON file.
type Codec struct {
	log zerolog.Logger
}

// New creates a JSON history codec.
func New(log zerolog.Logger) *Codec {
	return &Codec{log: log}
}

// Write replaces the file at path atomically. The parent directory must
// already exist.
func (c *Codec) Write(ctx context.Context, path string, records []calc.Calculation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	file := HistoryFile{Calculations: make([]Record, 0, len(records))}
	for _, r := range records {
		file.Calculations = append(file.Calculations, Record{
			Operand1:  r.Operand1().String(),
			Operand2:  r.Operand2().String(),
			Operation: r.Operation().String(),
			Result:    r.Result().String(),
		})
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Read parses the file at path. Entries that do not form a valid calculation
// are logged and skipped; a document that is not valid JSON is an error.
func (c *Codec) Read(ctx context.Context, path string) ([]calc.Calculation, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("read history file: %w", err)
	}
	if len(data) == 0 {
		return nil, 0, history.ErrEmptyFile
	}

	var file HistoryFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, 0, fmt.Errorf("parse history file: %w", err)
	}

	var (
		records = make([]calc.Calculation, 0, len(file.Calculations))
		skipped int
	)

	for i, r := range file.Calculations {
		rec, err := calc.ParseCalculation(r.Operand1, r.Operand2, r.Operation, r.Result)
		if err != nil {
			c.log.Warn().Err(err).Str("path", path).Int("entry", i).Msg("skipping malformed history entry")
			skipped++
			continue
		}
		records = append(records, rec)
	}

	return records, skipped, nil
}
