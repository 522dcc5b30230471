// Package parsererror holds the hard-error types that abort an export run.
// Per-record problems are not errors; they are reported as issues.
package parsererror

import (
	"fmt"
	"strings"
)

// InvalidFormatError reports an input file that does not have the expected shape,
// e.g. an invoice feed that is not JSON.
type InvalidFormatError struct {
	FilePath       string
	ExpectedFormat string
	Msg            string
	Err            error
}

func (e *InvalidFormatError) Error() string {
	msg := fmt.Sprintf("invalid format in file '%s': %s. Expected: %s", e.FilePath, e.Msg, e.ExpectedFormat)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvalidFormatError) Unwrap() error {
	return e.Err
}

// MissingColumnsError reports a tabular file that lacks mandatory columns.
type MissingColumnsError struct {
	FilePath string
	Missing  []string
	Headers  []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("file '%s' is missing required columns [%s]; found headers [%s]",
		e.FilePath, strings.Join(e.Missing, ", "), strings.Join(e.Headers, ", "))
}

// DataExtractionError reports a required value that could not be located.
type DataExtractionError struct {
	FilePath  string
	FieldName string
	Reason    string
}

func (e *DataExtractionError) Error() string {
	return fmt.Sprintf("data extraction failed in file '%s' for field '%s': %s", e.FilePath, e.FieldName, e.Reason)
}
