package validation_test

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/budget-rollup/internal/budgeterror"
	"fjacquet/budget-rollup/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidInputFile(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "items.csv")
	require.NoError(t, os.WriteFile(testFile, []byte("account_category,amount\n"), 0600))

	tests := []struct {
		name        string
		path        string
		errContains string
	}{
		{name: "existing file", path: testFile},
		{name: "empty path", path: " ", errContains: "no input file"},
		{name: "missing file", path: filepath.Join(tmpDir, "missing.csv"), errContains: "does not exist"},
		{name: "directory", path: tmpDir, errContains: "not a regular file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.IsValidInputFile(tt.path)
			if tt.errContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestIsValidOutputFormat(t *testing.T) {
	for _, format := range []string{"table", "json", "CSV", "xlsx"} {
		assert.NoError(t, validation.IsValidOutputFormat(format), format)
	}

	err := validation.IsValidOutputFormat("xml")
	var formatErr *budgeterror.UnsupportedFormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, "xml", formatErr.Format)
}

func TestIsValidTotal(t *testing.T) {
	finite := 1234.5
	zero := 0.0
	assert.NoError(t, validation.IsValidTotal("total-expenses", nil))
	assert.NoError(t, validation.IsValidTotal("total-expenses", &finite))
	assert.NoError(t, validation.IsValidTotal("total-expenses", &zero))

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		v := v
		err := validation.IsValidTotal("total-income", &v)
		var totalErr *budgeterror.InvalidTotalError
		require.True(t, errors.As(err, &totalErr), "%v", v)
		assert.Equal(t, "total-income", totalErr.Name)
	}
}
