package printer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/hay-kot/criterio"

	"github.com/hay-kot/calc/internal/styles"
)

// Symbols
const (
	Check = "✔"
	Cross = "✘"
	Dot   = "•"
)

type ctxKey struct{}

// Printer handles formatted output with colors and styles
type Printer struct {
	writer io.Writer
}

// New creates a new Printer that writes to the given writer
func New(w io.Writer) *Printer {
	return &Printer{
		writer: w,
	}
}

// NewContext returns a context with the printer attached
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx retrieves the printer from context, or creates a default one
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stderr)
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.writer
}

// FatalError prints a formatted error box and does NOT exit
// Caller should handle exit code
func (p *Printer) FatalError(err error) {
	if err == nil {
		return
	}

	var fieldErrs criterio.FieldErrors
	if errors.As(err, &fieldErrs) {
		p.printValidationErrors(err, fieldErrs)
		return
	}

	lines := []string{
		styles.ErrorStyle.Render("╭ Error"),
		styles.ErrorStyle.Render("│") + " " + styles.MutedStyle.Render(err.Error()),
		styles.ErrorStyle.Render("╵"),
	}

	p.write(strings.Join(lines, "\n"))
}

// printValidationErrors formats criterio.FieldErrors nicely
func (p *Printer) printValidationErrors(wrappedErr error, fieldErrs criterio.FieldErrors) {
	// The wrapping context is whatever precedes the field errors, e.g. "load config: invalid config"
	errStr := wrappedErr.Error()
	fieldErrStr := fieldErrs.Error()

	errContext := ""
	if idx := strings.Index(errStr, fieldErrStr); idx > 0 {
		errContext = strings.TrimSuffix(errStr[:idx], ": ")
	}

	p.write(styles.ErrorStyle.Render("╭ Validation Error"))

	if errContext != "" {
		p.write(styles.ErrorStyle.Render("│") + " " + styles.MutedStyle.Render(errContext))
		p.write(styles.ErrorStyle.Render("│"))
	}

	for _, fe := range fieldErrs {
		line := styles.ErrorStyle.Render("│") + " " + styles.ErrorStyle.Render(Cross) + " "
		if fe.Field != "" {
			line += styles.MutedStyle.Render(fe.Field + ": ")
		}
		line += fe.Err.Error()
		p.write(line)
	}

	p.write(styles.ErrorStyle.Render("╵"))
}

// Errorf prints an error message in red
func (p *Printer) Errorf(format string, args ...any) {
	p.write(styles.ErrorStyle.Render(Cross + " " + fmt.Sprintf(format, args...)))
}

// Successf prints a success message in green
func (p *Printer) Successf(format string, args ...any) {
	p.write(styles.SuccessStyle.Render(Check + " " + fmt.Sprintf(format, args...)))
}

// Infof prints an info message in gray
func (p *Printer) Infof(format string, args ...any) {
	p.write(styles.MutedStyle.Render(Dot + " " + fmt.Sprintf(format, args...)))
}

// Warnf prints a warning message in yellow
func (p *Printer) Warnf(format string, args ...any) {
	p.write(styles.WarnStyle.Render(Dot + " " + fmt.Sprintf(format, args...)))
}

// Printf prints a plain message without colors
func (p *Printer) Printf(format string, args ...any) {
	p.write(fmt.Sprintf(format, args...))
}

// Result prints a calculation result line
func (p *Printer) Result(text string) {
	p.write(styles.ResultStyle.Render(text))
}

// Section prints a section header (bold + underlined)
func (p *Printer) Section(title string) {
	p.write(styles.SectionStyle.Render(title))
}

// Item prints an indented "label: detail" line with a highlighted label
func (p *Printer) Item(label, detail string) {
	line := "  " + styles.CommandNameStyle.Render(label)
	if detail != "" {
		line += ": " + detail
	}
	p.write(line)
}

// CheckItem prints a passing check item
func (p *Printer) CheckItem(label, detail string) {
	p.statusItem(styles.SuccessStyle, Check, label, detail)
}

// WarnItem prints a warning check item
func (p *Printer) WarnItem(label, detail string) {
	p.statusItem(styles.WarnStyle, Dot, label, detail)
}

// FailItem prints a failing check item
func (p *Printer) FailItem(label, detail string) {
	p.statusItem(styles.ErrorStyle, Cross, label, detail)
}

func (p *Printer) statusItem(style lipgloss.Style, symbol, label, detail string) {
	line := "  " + style.Render(symbol) + " " + label
	if detail != "" {
		line += ": " + styles.MutedStyle.Render(detail)
	}
	p.write(line)
}

func (p *Printer) write(line string) {
	_, _ = io.WriteString(p.writer, line+"\n")
}
