package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hay-kot/calc/internal/core/history"
)

// HistoryFileCheck reads the history file and reports malformed rows. With
// fix set, the file is rewritten with only the readable rows.
type HistoryFileCheck struct {
	codec history.Codec
	path  string
	fix   bool
}

// NewHistoryFileCheck creates a check for the history file at path.
func NewHistoryFileCheck(codec history.Codec, path string, fix bool) *HistoryFileCheck {
	return &HistoryFileCheck{
		codec: codec,
		path:  path,
		fix:   fix,
	}
}

func (c *HistoryFileCheck) Name() string {
	return "History File"
}

func (c *HistoryFileCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	c.checkWritable(&result)

	records, skipped, err := c.codec.Read(ctx, c.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		result.add(StatusPass, "History file", "not created yet")
		return result
	case errors.Is(err, history.ErrEmptyFile):
		result.add(StatusPass, "History file", "empty")
		return result
	case err != nil:
		result.add(StatusFail, "History file", err.Error())
		return result
	}

	result.add(StatusPass, "History file", fmt.Sprintf("%d calculation(s) in %s", len(records), c.path))

	if skipped == 0 {
		return result
	}

	if !c.fix {
		result.Items = append(result.Items, CheckItem{
			Label:   "Malformed rows",
			Status:  StatusWarn,
			Detail:  fmt.Sprintf("%d row(s) are skipped on load", skipped),
			Fixable: true,
		})
		return result
	}

	if err := c.codec.Write(ctx, c.path, records); err != nil {
		result.add(StatusFail, "Malformed rows", fmt.Sprintf("failed to rewrite: %v", err))
		return result
	}
	result.add(StatusPass, "Malformed rows", fmt.Sprintf("removed %d row(s)", skipped))

	return result
}

// checkWritable reports whether a history file can be created next to path.
func (c *HistoryFileCheck) checkWritable(result *Result) {
	dir := filepath.Dir(c.path)

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		result.add(StatusWarn, "Data directory", fmt.Sprintf("%s does not exist yet", dir))
		return
	}
	if err != nil {
		result.add(StatusFail, "Data directory", err.Error())
		return
	}
	if !info.IsDir() {
		result.add(StatusFail, "Data directory", fmt.Sprintf("%s is not a directory", dir))
		return
	}

	f, err := os.CreateTemp(dir, ".calc-doctor-*")
	if err != nil {
		result.add(StatusFail, "Data directory", fmt.Sprintf("not writable: %v", err))
		return
	}
	_ = f.Close()
	_ = os.Remove(f.Name())

	result.add(StatusPass, "Data directory", dir)
}
