// Package csvfile persists calculation history as a delimited text file.
package csvfile

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hay-kot/calc/internal/core/calc"
	"github.com/hay-kot/calc/internal/core/history"
)

// Column names in file order.
const (
	ColOperand1  = "operand1"
	ColOperand2  = "operand2"
	ColOperation = "operation"
	ColResult    = "result"
)

// Header is the first row of every file written by Codec.
var Header = []string{ColOperand1, ColOperand2, ColOperation, ColResult}

// legacyColumns maps column names used by older history files.
var legacyColumns = map[string]string{
	"fld_operand1":  ColOperand1,
	"fld_operand2":  ColOperand2,
	"fld_operation": ColOperation,
	"fld_result":    ColResult,
}

// Codec implements history.Codec with one CSV row per calculation.
type Codec struct {
	log zerolog.Logger
}

// New creates a CSV history codec.
func New(log zerolog.Logger) *Codec {
	return &Codec{log: log}
}

// Write replaces the file at path atomically. The parent directory must
// already exist.
func (c *Codec) Write(ctx context.Context, path string, records []calc.Calculation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := writeRows(tmp, records); err != nil {
		_ = tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

func writeRows(w io.Writer, records []calc.Calculation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.Operand1().String(),
			r.Operand2().String(),
			r.Operation().String(),
			r.Result().String(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush rows: %w", err)
	}
	return nil
}

// Read parses the file at path. Rows that cannot be turned into a valid
// calculation are logged and skipped.
func (c *Codec) Read(ctx context.Context, path string) ([]calc.Calculation, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open history file: %w", err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, 0, fmt.Errorf("stat history file: %w", err)
	}
	if info.Size() == 0 {
		return nil, 0, history.ErrEmptyFile
	}

	var (
		records = []calc.Calculation{}
		skipped int
		cols    = defaultColumns()
		line    int
		seen    bool
	)

	// Rows are parsed one physical line at a time so an unbalanced quote
	// only costs its own row.
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line++
		text := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}

		row, err := parseLine(text)
		if err != nil {
			c.log.Warn().Err(err).Str("path", path).Int("line", line).Msg("skipping unreadable history row")
			skipped++
			seen = true
			continue
		}

		if !seen {
			seen = true
			if header, ok := parseHeader(row); ok {
				cols = header
				continue
			}
		}

		rec, err := cols.decode(row)
		if err != nil {
			c.log.Warn().Err(err).Str("path", path).Int("line", line).Msg("skipping malformed history row")
			skipped++
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("read history file: %w", err)
	}

	return records, skipped, nil
}

// parseLine splits a single line into fields.
func parseLine(text string) ([]string, error) {
	cr := csv.NewReader(strings.NewReader(text))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr.Read()
}

// columns holds the index of each known column in a row; result is -1 when
// the file does not carry results.
type columns struct {
	operand1, operand2, operation, result int
	width                                 int
}

func defaultColumns() columns {
	return columns{operand1: 0, operand2: 1, operation: 2, result: 3, width: len(Header)}
}

// parseHeader recognises a header row in either the current or the legacy
// layout.
func parseHeader(row []string) (columns, bool) {
	idx := map[string]int{}
	for i, name := range row {
		name = strings.ToLower(strings.TrimSpace(name))
		if mapped, ok := legacyColumns[name]; ok {
			name = mapped
		}
		idx[name] = i
	}

	o1, ok1 := idx[ColOperand1]
	o2, ok2 := idx[ColOperand2]
	op, ok3 := idx[ColOperation]
	if !ok1 || !ok2 || !ok3 {
		return columns{}, false
	}

	res, ok := idx[ColResult]
	if !ok {
		res = -1
	}

	return columns{operand1: o1, operand2: o2, operation: op, result: res, width: len(row)}, true
}

func (c columns) decode(row []string) (calc.Calculation, error) {
	if len(row) != c.width {
		return calc.Calculation{}, fmt.Errorf("expected %d fields, got %d", c.width, len(row))
	}

	result := ""
	if c.result >= 0 {
		result = row[c.result]
	}

	return calc.ParseCalculation(row[c.operand1], row[c.operand2], row[c.operation], result)
}
