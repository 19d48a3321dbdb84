// Package history holds the ordered log of successful calculations and its
// file persistence.
package history

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hay-kot/calc/internal/core/calc"
)

var (
	// ErrIndexOutOfRange is returned by Delete for an index outside the history.
	ErrIndexOutOfRange = errors.New("calculation index out of range")

	// ErrEmptyFile is returned by a Codec for a zero-length history file.
	ErrEmptyFile = errors.New("history file is empty")
)

// Codec reads and writes calculation records to a file.
type Codec interface {
	// Write replaces the file at path with the given records.
	Write(ctx context.Context, path string, records []calc.Calculation) error
	// Read returns the valid records stored at path and the number of rows
	// that were skipped as malformed. A missing file yields an error
	// satisfying errors.Is(err, os.ErrNotExist), a zero-length file
	// ErrEmptyFile.
	Read(ctx context.Context, path string) (records []calc.Calculation, skipped int, err error)
}

// History is the append-only log of calculations for one process. All
// methods are safe for concurrent use.
type History struct {
	codec Codec
	log   zerolog.Logger

	mu      sync.RWMutex
	records []calc.Calculation
}

// New creates an empty History persisted through codec.
func New(codec Codec, log zerolog.Logger) *History {
	return &History{codec: codec, log: log}
}

// Append adds a record to the end of the history.
func (h *History) Append(c calc.Calculation) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.records = append(h.records, c)
}

// All returns a copy of the records in insertion order.
func (h *History) All() []calc.Calculation {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]calc.Calculation, len(h.records))
	copy(out, h.records)
	return out
}

// Latest returns the most recent record, or false if the history is empty.
func (h *History) Latest() (calc.Calculation, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.records) == 0 {
		return calc.Calculation{}, false
	}
	return h.records[len(h.records)-1], true
}

// Len returns the number of records.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.records)
}

// Clear empties the in-memory history. Persisted files are untouched until
// the next Save.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.records = nil
}

// Delete removes the record at the zero-based index.
func (h *History) Delete(index int) (calc.Calculation, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if index < 0 || index >= len(h.records) {
		return calc.Calculation{}, fmt.Errorf("%w: %d (history has %d)", ErrIndexOutOfRange, index+1, len(h.records))
	}

	removed := h.records[index]
	h.records = append(h.records[:index:index], h.records[index+1:]...)
	return removed, nil
}

// Save writes every record to path, overwriting any existing file.
func (h *History) Save(ctx context.Context, path string) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if err := h.codec.Write(ctx, path, h.records); err != nil {
		h.log.Error().Err(err).Str("path", path).Msg("failed to save history")
		return calc.PersistenceError(path, err)
	}

	h.log.Info().Str("path", path).Int("count", len(h.records)).Msg("history saved")
	return nil
}

// Load replaces the in-memory history with the records stored at path. It
// returns how many records were loaded and how many malformed rows were
// skipped. A missing or empty file is not an error and leaves the history
// unchanged.
func (h *History) Load(ctx context.Context, path string) (loaded, skipped int, err error) {
	records, skipped, err := h.codec.Read(ctx, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			h.log.Info().Str("path", path).Msg("history file not found, nothing to load")
			return 0, 0, nil
		}
		if errors.Is(err, ErrEmptyFile) {
			h.log.Info().Str("path", path).Msg("history file is empty, nothing to load")
			return 0, 0, nil
		}
		h.log.Error().Err(err).Str("path", path).Msg("failed to load history")
		return 0, 0, calc.PersistenceError(path, err)
	}

	if skipped > 0 {
		h.log.Warn().Str("path", path).Int("skipped", skipped).Msg("skipped malformed history rows")
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.records = records
	h.log.Info().Str("path", path).Int("count", len(records)).Msg("history loaded")
	return len(records), skipped, nil
}
