package calc

import (
	"errors"
	"fmt"
)

// Kind classifies calculator failures.
type Kind string

const (
	// KindInvalidInputFormat indicates the wrong number of operand tokens.
	KindInvalidInputFormat Kind = "invalid_input_format"

	// KindInvalidOperand indicates operand text that is not a decimal number.
	KindInvalidOperand Kind = "invalid_operand"

	// KindUnknownOperation indicates an operation name with no mapping.
	KindUnknownOperation Kind = "unknown_operation"

	// KindDivisionByZero indicates a zero divisor.
	KindDivisionByZero Kind = "division_by_zero"

	// KindCommandNotFound indicates a command name missing from the registry.
	KindCommandNotFound Kind = "command_not_found"

	// KindCommandExecutionFailed indicates a registered command returned an error.
	KindCommandExecutionFailed Kind = "command_execution_failed"

	// KindPersistence indicates an I/O failure while saving or loading history.
	KindPersistence Kind = "persistence"
)

// Error is a calculator failure tagged with its Kind.
type Error struct {
	Kind    Kind
	Name    string // command, operation or path the error refers to
	Message string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Name != "" {
		msg = fmt.Sprintf("%s %q", msg, e.Name)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap supports error unwrapping
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a calculator error of the same Kind, so the
// sentinels below match wrapped errors regardless of name or cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrInvalidInputFormat     = &Error{Kind: KindInvalidInputFormat}
	ErrInvalidOperand         = &Error{Kind: KindInvalidOperand}
	ErrUnknownOperation       = &Error{Kind: KindUnknownOperation}
	ErrDivisionByZero         = &Error{Kind: KindDivisionByZero}
	ErrCommandNotFound        = &Error{Kind: KindCommandNotFound}
	ErrCommandExecutionFailed = &Error{Kind: KindCommandExecutionFailed}
	ErrPersistence            = &Error{Kind: KindPersistence}
)

// InvalidInputFormat reports that got operand tokens were supplied instead of two.
func InvalidInputFormat(got int) *Error {
	return &Error{
		Kind:    KindInvalidInputFormat,
		Message: fmt.Sprintf("invalid input format: expected <operand1> <operand2>, got %d value(s)", got),
	}
}

// InvalidOperand reports operand text that could not be parsed.
func InvalidOperand(text string, err error) *Error {
	return &Error{Kind: KindInvalidOperand, Name: text, Message: "invalid number input", Err: err}
}

// UnknownOperation reports an operation name with no mapping.
func UnknownOperation(name string) *Error {
	return &Error{Kind: KindUnknownOperation, Name: name, Message: "unknown operation"}
}

// DivisionByZero reports a zero divisor.
func DivisionByZero() *Error {
	return &Error{Kind: KindDivisionByZero, Message: "cannot divide by zero"}
}

// CommandNotFound reports a command name missing from the registry.
func CommandNotFound(name string) *Error {
	return &Error{Kind: KindCommandNotFound, Name: name, Message: "command not found"}
}

// CommandExecutionFailed wraps the failure of a registered command.
func CommandExecutionFailed(name string, cause error) *Error {
	return &Error{Kind: KindCommandExecutionFailed, Name: name, Message: "error executing command", Err: cause}
}

// PersistenceError wraps an I/O failure on the history file at path.
func PersistenceError(path string, cause error) *Error {
	return &Error{Kind: KindPersistence, Name: path, Message: "history file", Err: cause}
}

// KindOf returns the Kind of the innermost calculator error in err's chain,
// or "" when err carries none. CommandExecutionFailed wrappers are looked
// through so callers see the cause.
func KindOf(err error) Kind {
	var kind Kind
	for err != nil {
		var ce *Error
		if !errors.As(err, &ce) {
			break
		}
		kind = ce.Kind
		err = ce.Err
	}
	return kind
}
