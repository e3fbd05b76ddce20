package reports

import (
	"errors"
	"fmt"
)

// ErrNoData is returned when the target file has no data rows to analyze.
var ErrNoData = errors.New("reports: file has no data rows")

// ErrBusy is returned when a report is already being generated for the
// same session.
var ErrBusy = errors.New("reports: a report is already being generated for this session")

// ErrFileNotFound is returned when the requested file does not exist for
// the user.
var ErrFileNotFound = errors.New("reports: file not found")

// UnknownTypeError is returned for an unrecognized report type.
type UnknownTypeError struct {
	Raw string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("reports: unknown report type %q", e.Raw)
}
