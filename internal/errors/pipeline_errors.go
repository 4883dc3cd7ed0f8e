package errors

import (
	"fmt"
)

// MinGridRows is the smallest grid that can hold two blank rows, a header and one data row.
const MinGridRows = 4

// MalformedGridError reports a local grid without the minimum structural shape.
type MalformedGridError struct {
	Rows    int
	MinRows int
}

func (e *MalformedGridError) Error() string {
	return fmt.Sprintf("malformed grid: %d rows, need at least %d", e.Rows, e.MinRows)
}

// NewMalformedGridError creates a MalformedGridError for a grid with the given row count.
func NewMalformedGridError(rows int) *MalformedGridError {
	return &MalformedGridError{Rows: rows, MinRows: MinGridRows}
}

// InvalidWorkbookError reports an upload that cannot be opened as a workbook.
type InvalidWorkbookError struct {
	Cause error
}

func (e *InvalidWorkbookError) Error() string {
	return fmt.Sprintf("invalid workbook: %v", e.Cause)
}

func (e *InvalidWorkbookError) Unwrap() error {
	return e.Cause
}

// MissingColumnError reports a structurally required column absent from the header.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column %q", e.Column)
}

// NetworkError wraps a transport failure while fetching a remote table.
type NetworkError struct {
	URL   string
	Cause error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Cause)
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// RemoteParseError wraps a failure to parse a fetched remote table.
type RemoteParseError struct {
	URL   string
	Cause error
}

func (e *RemoteParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.URL, e.Cause)
}

func (e *RemoteParseError) Unwrap() error {
	return e.Cause
}

// FieldCoercionError reports one record value that could not be coerced for an aggregation.
type FieldCoercionError struct {
	Field string
	Value string
	Cause error
}

func (e *FieldCoercionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cannot coerce %s value %q: %v", e.Field, e.Value, e.Cause)
	}
	return fmt.Sprintf("cannot coerce %s value %q", e.Field, e.Value)
}

func (e *FieldCoercionError) Unwrap() error {
	return e.Cause
}
