package dataset

import (
	"errors"
	"fmt"
)

// FormatError reports a source file that is not parseable tabular data.
// It is fatal: nothing downstream runs when the loader returns one.
type FormatError struct {
	Path   string
	Line   int
	Column string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("dataset format: %s", e.Reason)
	if e.Column != "" {
		msg = fmt.Sprintf("%s (column %q)", msg, e.Column)
	}
	if e.Line > 0 {
		msg = fmt.Sprintf("%s (line %d)", msg, e.Line)
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// IsFormatError reports whether err wraps a FormatError
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// DateParseError reports one date cell that did not match any accepted
// format. Under the default policy the value is nulled and the row kept;
// in strict mode cleaning aborts with this error.
type DateParseError struct {
	Line   int
	Column string
	Value  string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("parse date %q in column %q (line %d)", e.Value, e.Column, e.Line)
}

// IsDateParseError reports whether err wraps a DateParseError
func IsDateParseError(err error) bool {
	var de *DateParseError
	return errors.As(err, &de)
}
