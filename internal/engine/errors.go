package engine

import (
	"errors"
	"fmt"

	"github.com/mohamedkhairy/stock-screener/internal/filter"
)

// ErrorKind classifies engine errors for callers deciding whether to fix
// the filter, fix the dataset, or retry with a larger deadline
type ErrorKind string

const (
	// KindSchema: malformed filter JSON; fix and resubmit
	KindSchema ErrorKind = "schema_error"

	// Operand errors, tied to a condition index and side via Path
	KindColumnNotFound       ErrorKind = "column_not_found"
	KindUnsupportedIndicator ErrorKind = "unsupported_indicator"
	KindInvalidParams        ErrorKind = "invalid_params"
	KindTypeMismatch         ErrorKind = "type_mismatch"

	// Data errors, detected at pipeline entry
	KindEmptyDataset  ErrorKind = "empty_dataset"
	KindMissingColumn ErrorKind = "missing_required_column"

	// Resource errors; retryable with a larger deadline or smaller slice
	KindCancelled ErrorKind = "cancelled"
	KindTimeout   ErrorKind = "timeout"

	// KindInternal marks pipeline bugs, never user input
	KindInternal ErrorKind = "internal"
)

// Error is the structured error returned across the engine's public surface.
// Path points at the part of the filter that caused the failure
// (e.g. "conditions[2].left"); it is empty for data and resource errors.
type Error struct {
	Kind        ErrorKind           `json:"kind"`
	Message     string              `json:"message"`
	Path        string              `json:"path,omitempty"`
	Diagnostics []filter.Diagnostic `json:"diagnostics,omitempty"`
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s at %s: %s", e.Kind, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Retryable reports whether the error is a resource error that may succeed
// on retry with a larger deadline or a smaller dataset slice
func (e *Error) Retryable() bool {
	return e.Kind == KindCancelled || e.Kind == KindTimeout
}

func newError(kind ErrorKind, path, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	}
}

// schemaError wraps validation diagnostics into a single structured error.
// The path of the first diagnostic is promoted so simple callers still get
// a pointer at the offending field.
func schemaError(diags []filter.Diagnostic) *Error {
	path := ""
	if len(diags) > 0 {
		path = diags[0].Path
	}
	return &Error{
		Kind:        KindSchema,
		Path:        path,
		Message:     fmt.Sprintf("filter failed validation with %d problem(s)", len(diags)),
		Diagnostics: diags,
	}
}

// AsEngineError extracts the structured error from err, wrapping anything
// unexpected as an internal error so raw internals never cross the boundary
func AsEngineError(err error) *Error {
	var engineErr *Error
	if errors.As(err, &engineErr) {
		return engineErr
	}
	return newError(KindInternal, "", "%v", err)
}
