package agent

import (
	"errors"
	"fmt"
)

// ErrorKind classifies tool handler failures for observation messages.
type ErrorKind string

const (
	ErrKindInvalidArguments ErrorKind = "invalid_arguments"
	ErrKindNotFound         ErrorKind = "not_found"
	ErrKindExecution        ErrorKind = "execution"
	ErrKindTimeout          ErrorKind = "timeout"
	// ErrKindFatal marks an external resource as permanently unavailable;
	// the executor terminates the inner dialogue instead of recovering.
	ErrKindFatal ErrorKind = "fatal"
)

// ToolError is a typed tool handler failure. The navigator executor
// converts non-fatal ToolErrors into observation messages and feeds them
// back to the proposer.
type ToolError struct {
	Kind   ErrorKind
	Detail string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("error: %s: %s", e.Kind, e.Detail)
}

// NewToolError builds a ToolError with the given kind.
func NewToolError(kind ErrorKind, format string, args ...any) *ToolError {
	return &ToolError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// IsFatalError reports whether err carries the fatal tool error kind.
func IsFatalError(err error) bool {
	var te *ToolError
	return errors.As(err, &te) && te.Kind == ErrKindFatal
}
