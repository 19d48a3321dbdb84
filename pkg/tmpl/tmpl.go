// Package tmpl renders user supplied text templates over calculation data.
package tmpl

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/shopspring/decimal"
)

var funcs = template.FuncMap{
	"round": func(d decimal.Decimal, places int) string {
		return d.Round(int32(places)).String()
	},
	"fixed": func(d decimal.Decimal, places int) string {
		return d.StringFixed(int32(places))
	},
	"upper": strings.ToUpper,
}

// Result is the data a result template is executed against.
type Result struct {
	Operand1  decimal.Decimal
	Operand2  decimal.Decimal
	Operation string
	Result    decimal.Decimal
}

var sample = Result{
	Operand1:  decimal.RequireFromString("2.5"),
	Operand2:  decimal.RequireFromString("3.1"),
	Operation: "add",
	Result:    decimal.RequireFromString("5.6"),
}

func parse(tmpl string) (*template.Template, error) {
	t, err := template.New("").Funcs(funcs).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	return t, nil
}

// Preview renders tmpl against the sample calculation 2.5 add 3.1.
func Preview(tmpl string) (string, error) {
	return Render(tmpl, sample)
}

// Validate reports whether tmpl parses and renders a sample Result.
func Validate(tmpl string) error {
	_, err := Preview(tmpl)
	return err
}

// Render executes a Go template string with the given data.
// Returns an error if the template is invalid or references undefined keys.
//
// Available template functions:
//   - round: round a decimal to n places, e.g. {{ round .Result 2 }}
//   - fixed: format a decimal with exactly n places, e.g. {{ fixed .Result 2 }}
//   - upper: upper-case a string
func Render(tmpl string, data any) (string, error) {
	t, err := parse(tmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}
