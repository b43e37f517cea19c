// Package validation checks command inputs before any work starts.
package validation

import (
	"fmt"
	"math"
	"os"
	"strings"

	"fjacquet/budget-rollup/internal/budgeterror"
	"fjacquet/budget-rollup/internal/report"
)

// IsValidInputFile checks that path names an existing regular file.
func IsValidInputFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("no input file given")
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("input file does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking input file %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("input path %s is not a regular file", path)
	}
	return nil
}

// IsValidOutputFormat checks format against the report formats, ignoring case.
func IsValidOutputFormat(format string) error {
	f := strings.ToLower(format)
	for _, supported := range report.SupportedFormats {
		if f == supported {
			return nil
		}
	}
	return &budgeterror.UnsupportedFormatError{Format: format, Supported: report.SupportedFormats}
}

// IsValidTotal checks that an authoritative total, when given, is finite.
func IsValidTotal(name string, total *float64) error {
	if total == nil {
		return nil
	}
	if math.IsNaN(*total) || math.IsInf(*total, 0) {
		return &budgeterror.InvalidTotalError{Name: name, Value: *total}
	}
	return nil
}
