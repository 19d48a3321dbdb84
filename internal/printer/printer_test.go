package printer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
)

func TestPrinter_Messages(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.Successf("saved %d records", 3)
	p.Errorf("cannot divide by zero")
	p.Warnf("history is empty")
	p.Infof("loaded %s", "history.csv")
	p.Printf("plain %s", "text")
	p.Result("The result of 1 add 2 is equal to 3")

	out := buf.String()
	assert.Contains(t, out, Check+" saved 3 records")
	assert.Contains(t, out, Cross+" cannot divide by zero")
	assert.Contains(t, out, "history is empty")
	assert.Contains(t, out, "loaded history.csv")
	assert.Contains(t, out, "plain text\n")
	assert.Contains(t, out, "is equal to 3")
}

func TestPrinter_Context(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)
	ctx := NewContext(context.Background(), p)

	assert.Same(t, p, Ctx(ctx))
	assert.NotNil(t, Ctx(context.Background()))
}

func TestPrinter_FatalError(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.FatalError(nil)
	assert.Empty(t, buf.String())

	p.FatalError(errors.New("history file: permission denied"))
	assert.Contains(t, buf.String(), "Error")
	assert.Contains(t, buf.String(), "permission denied")
}

func TestPrinter_FatalErrorValidation(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	fieldErrs := criterio.FieldErrors{{Field: "history_file", Err: errors.New("cannot be empty")}}
	p.FatalError(fmt.Errorf("load config: %w", fieldErrs))

	out := buf.String()
	assert.Contains(t, out, "Validation Error")
	assert.Contains(t, out, "load config")
	assert.Contains(t, out, "history_file")
	assert.Contains(t, out, "cannot be empty")
}

func TestPrinter_StatusItems(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.CheckItem("History file", "3 calculation(s)")
	p.WarnItem("Malformed rows", "2 skipped")
	p.FailItem("Data directory", "")

	out := buf.String()
	assert.Contains(t, out, Check)
	assert.Contains(t, out, "History file: 3 calculation(s)")
	assert.Contains(t, out, "Malformed rows: 2 skipped")
	assert.Contains(t, out, Cross+" Data directory\n")
}
