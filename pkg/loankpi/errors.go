package loankpi

import (
	"errors"
	"fmt"
)

// ErrUnknownReport indicates no report is registered under the requested name.
var ErrUnknownReport = errors.New("unknown report")

// ReportError represents a failure while producing one report.
type ReportError struct {
	Report string
	Err    error
}

func (e *ReportError) Error() string {
	return fmt.Sprintf("report %q: %v", e.Report, e.Err)
}

func (e *ReportError) Unwrap() error {
	return e.Err
}

// NewReportError creates a new ReportError.
func NewReportError(report string, err error) *ReportError {
	return &ReportError{
		Report: report,
		Err:    err,
	}
}
