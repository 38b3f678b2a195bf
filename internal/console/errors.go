package console

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSyntax is reported for lines that are neither a command, an
// expression nor a quick command.
var ErrInvalidSyntax = errors.New("invalid input: use / for commands or > for expressions")

// ErrEvaluationDisabled is reported for expressions when no evaluator is wired.
var ErrEvaluationDisabled = errors.New("expression evaluation is disabled")

// UnresolvedVariableError lists placeholders that had no binding.
type UnresolvedVariableError struct {
	Names []string
}

func (e *UnresolvedVariableError) Error() string {
	return "unresolved variables: " + formatPlaceholders(e.Names)
}

// UnknownCommandError names a command that is neither built in nor registered.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command: /%s", e.Name)
}

// HandlerError wraps a failure raised by a registered handler, either a
// returned error or a recovered panic.
type HandlerError struct {
	Command string
	Err     error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("command /%s failed: %v", e.Command, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

// ExpressionError wraps an evaluator failure.
type ExpressionError struct {
	Expr string
	Err  error
}

func (e *ExpressionError) Error() string {
	return fmt.Sprintf("expression %q failed: %v", e.Expr, e.Err)
}

func (e *ExpressionError) Unwrap() error {
	return e.Err
}

// PanicError is what a recovered handler panic becomes.
type PanicError struct {
	Value any
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Trace returns the goroutine stack captured at recovery.
func (e *PanicError) Trace() string {
	return e.Stack
}

func formatPlaceholders(names []string) string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = "${" + n + "}"
	}
	return strings.Join(out, ", ")
}
