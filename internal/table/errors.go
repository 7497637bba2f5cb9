package table

import (
	"errors"
	"fmt"
)

var (
	// ErrInputNotFound is returned when the input file is missing or unreadable.
	ErrInputNotFound = errors.New("input not found")
	// ErrNoHeader is returned for an input without even a header line.
	ErrNoHeader = errors.New("input has no header line")
)

// MalformedRowError reports a data line that lacks a required field or
// holds a non-numeric value where a number is expected.
type MalformedRowError struct {
	Path   string
	Line   int
	Column int
	Value  string
	Err    error
}

func (e *MalformedRowError) Error() string {
	if e == nil {
		return "malformed row: <nil>"
	}
	where := fmt.Sprintf("line %d", e.Line)
	if e.Path != "" {
		where = fmt.Sprintf("%s:%d", e.Path, e.Line)
	}
	if e.Column < 0 {
		return fmt.Sprintf("malformed row at %s: %v", where, e.Err)
	}
	return fmt.Sprintf("malformed row at %s, column %d (%q): %v", where, e.Column, e.Value, e.Err)
}

func (e *MalformedRowError) Unwrap() error { return e.Err }

var errMissingField = errors.New("missing field")
