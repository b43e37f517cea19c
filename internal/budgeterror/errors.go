// Package budgeterror holds the typed errors returned by the I/O edges of the
// module. The grouping and search core never returns errors.
package budgeterror

import "fmt"

// ParseError reports a line-item row that could not be read.
type ParseError struct {
	Source string
	Line   int
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: failed to parse %s='%s': %v",
			e.Source, e.Line, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Source, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ClassificationError reports an unreadable classification names file.
type ClassificationError struct {
	FilePath string
	Err      error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classification file '%s': %v", e.FilePath, e.Err)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}

// UnsupportedFormatError reports an unknown export format.
type UnsupportedFormatError struct {
	Format    string
	Supported []string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format '%s' (supported: %v)", e.Format, e.Supported)
}

// UnknownCategoryError reports an account category other than expense or income.
type UnknownCategoryError struct {
	Value string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown account category '%s' (expected ch/expense or vn/income)", e.Value)
}

// InvalidTotalError reports an authoritative total that is NaN or infinite.
type InvalidTotalError struct {
	Name  string
	Value float64
}

func (e *InvalidTotalError) Error() string {
	return fmt.Sprintf("invalid %s %v (must be a finite number)", e.Name, e.Value)
}
