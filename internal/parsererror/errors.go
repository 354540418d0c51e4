// Package parsererror defines typed errors shared by the import adapters.
package parsererror

import "fmt"

// ParseError represents an error while parsing one field of a source record.
type ParseError struct {
	Importer string
	Field    string
	Value    string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Importer, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// InvalidFormatError represents an error where the input file does not
// conform to the expected format for a specific importer.
type InvalidFormatError struct {
	FilePath       string
	ExpectedFormat string
	Msg            string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

// RowError represents a malformed source row. The row number is 1-based and
// counts the header row when one is present.
type RowError struct {
	Importer string
	Row      int
	Err      error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s: row %d: %v", e.Importer, e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
