package calc

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Calculation is an immutable record of one successful operation. The result
// is computed once by NewCalculation and cached.
type Calculation struct {
	operand1  decimal.Decimal
	operand2  decimal.Decimal
	operation Operation
	result    decimal.Decimal
}

// NewCalculation applies op to a and b. No Calculation exists for a failed
// operation.
func NewCalculation(a, b decimal.Decimal, op Operation) (Calculation, error) {
	result, err := op.Apply(a, b)
	if err != nil {
		return Calculation{}, err
	}

	return Calculation{
		operand1:  a,
		operand2:  b,
		operation: op,
		result:    result,
	}, nil
}

// ParseCalculation rebuilds a record from its stored text fields. The result
// is recomputed; a non-empty stored result must equal it.
func ParseCalculation(operand1, operand2, operation, result string) (Calculation, error) {
	a, err := ParseOperand(operand1)
	if err != nil {
		return Calculation{}, err
	}
	b, err := ParseOperand(operand2)
	if err != nil {
		return Calculation{}, err
	}
	op, err := ParseOperation(operation)
	if err != nil {
		return Calculation{}, err
	}

	c, err := NewCalculation(a, b, op)
	if err != nil {
		return Calculation{}, err
	}

	if strings.TrimSpace(result) == "" {
		return c, nil
	}

	stored, err := ParseOperand(result)
	if err != nil {
		return Calculation{}, fmt.Errorf("result: %w", err)
	}
	if !stored.Equal(c.result) {
		return Calculation{}, fmt.Errorf("stored result %s does not match %s", stored, c.result)
	}
	return c, nil
}

func (c Calculation) Operand1() decimal.Decimal { return c.operand1 }
func (c Calculation) Operand2() decimal.Decimal { return c.operand2 }
func (c Calculation) Operation() Operation      { return c.operation }
func (c Calculation) Result() decimal.Decimal   { return c.result }

// Equal reports whether both records hold numerically equal operands and
// results for the same operation.
func (c Calculation) Equal(other Calculation) bool {
	return c.operation == other.operation &&
		c.operand1.Equal(other.operand1) &&
		c.operand2.Equal(other.operand2) &&
		c.result.Equal(other.result)
}

// String renders the record as "Calculation(2.5, 3.1, add)".
func (c Calculation) String() string {
	return fmt.Sprintf("Calculation(%s, %s, %s)", c.operand1, c.operand2, c.operation)
}
