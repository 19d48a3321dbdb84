// Package calc defines the arithmetic operations, calculation records and
// error kinds of the calculator.
package calc

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DivisionPrecision is the number of fractional digits kept when a quotient
// does not terminate.
const DivisionPrecision int32 = 28

// Operation is one of the four arithmetic operations.
type Operation string

const (
	Add      Operation = "add"
	Subtract Operation = "subtract"
	Multiply Operation = "multiply"
	Divide   Operation = "divide"
)

// Operations lists the operations in menu order.
var Operations = []Operation{Add, Subtract, Multiply, Divide}

var operationsByName = map[string]Operation{
	"add":      Add,
	"subtract": Subtract,
	"multiply": Multiply,
	"divide":   Divide,

	// names written by older history files
	"addition":       Add,
	"subtraction":    Subtract,
	"multiplication": Multiply,
	"division":       Divide,
}

// ParseOperation resolves an operation by name. Lookup is case-insensitive.
func ParseOperation(name string) (Operation, error) {
	op, ok := operationsByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", UnknownOperation(name)
	}
	return op, nil
}

// String returns the operation name.
func (o Operation) String() string {
	return string(o)
}

// Description returns a one-line help text for menus.
func (o Operation) Description() string {
	switch o {
	case Add:
		return "Add two numbers together."
	case Subtract:
		return "Subtract the second number from the first."
	case Multiply:
		return "Multiply two numbers together."
	case Divide:
		return "Divide the first number by the second."
	default:
		return ""
	}
}

// Apply performs the operation. Only Divide can fail.
func (o Operation) Apply(a, b decimal.Decimal) (decimal.Decimal, error) {
	switch o {
	case Add:
		return a.Add(b), nil
	case Subtract:
		return a.Sub(b), nil
	case Multiply:
		return a.Mul(b), nil
	case Divide:
		if b.IsZero() {
			return decimal.Decimal{}, DivisionByZero()
		}
		return a.DivRound(b, DivisionPrecision), nil
	default:
		return decimal.Decimal{}, UnknownOperation(string(o))
	}
}

// ParseOperand parses operand text as an arbitrary-precision decimal.
func ParseOperand(text string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return decimal.Decimal{}, InvalidOperand(text, err)
	}
	return d, nil
}
