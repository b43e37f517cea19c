package breakdown_test

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/budget-rollup/cmd/breakdown"
	"fjacquet/budget-rollup/internal/budgeterror"
	"fjacquet/budget-rollup/internal/config"
	"fjacquet/budget-rollup/internal/container"
	"fjacquet/budget-rollup/internal/logging"
	"fjacquet/budget-rollup/internal/models"
	"fjacquet/budget-rollup/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const itemsCSV = `account_category,amount,functional_code,functional_name,economic_code,economic_name
ch,100,65.03.01,Învățământ liceal,10.01.01,Salarii
ch,50,65.03.01,Învățământ liceal,20.01.01,Furnituri
ch,80,66.02.01,Spitale,10.01.01,Salarii
vn,300,07.01.01,Persoane fizice,,
vn,40,07.02.01,Teren,,
`

const namesYAML = `chapters:
  "65": Învățământ
  "66": Sănătate
  "07": Impozite pe proprietate
subchapters:
  "07.01": Impozit pe clădiri
`

func setup(t *testing.T) (*container.Container, string) {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "items.csv")
	names := filepath.Join(dir, "names.yaml")
	require.NoError(t, os.WriteFile(input, []byte(itemsCSV), 0600))
	require.NoError(t, os.WriteFile(names, []byte(namesYAML), 0600))

	cfg := config.Default()
	cfg.Classification.FunctionalFile = names
	c, err := container.NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)
	return c, input
}

func TestCommand_Metadata(t *testing.T) {
	assert.Equal(t, "breakdown", breakdown.Cmd.Use)
	assert.NotNil(t, breakdown.Cmd.RunE)
	for _, name := range []string{"category", "query", "total-expenses", "total-income"} {
		assert.NotNil(t, breakdown.Cmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "all", breakdown.Cmd.Flags().Lookup("category").DefValue)
}

func TestCategories(t *testing.T) {
	tests := []struct {
		value string
		want  []models.AccountCategory
	}{
		{"", []models.AccountCategory{models.AccountCategoryExpense, models.AccountCategoryIncome}},
		{"ALL", []models.AccountCategory{models.AccountCategoryExpense, models.AccountCategoryIncome}},
		{"ch", []models.AccountCategory{models.AccountCategoryExpense}},
		{"income", []models.AccountCategory{models.AccountCategoryIncome}},
	}
	for _, tt := range tests {
		got, err := breakdown.Categories(tt.value)
		require.NoError(t, err, tt.value)
		assert.Equal(t, tt.want, got, tt.value)
	}

	_, err := breakdown.Categories("assets")
	var catErr *budgeterror.UnknownCategoryError
	assert.True(t, errors.As(err, &catErr))
}

func TestRun_JSONSingleCategory(t *testing.T) {
	c, input := setup(t)

	out, err := breakdown.Run(c, input, report.FormatJSON, "ch", "", nil, nil)
	require.NoError(t, err)

	var b report.Breakdown
	require.NoError(t, json.Unmarshal(out, &b))
	assert.Equal(t, models.AccountCategoryExpense, b.Category)
	assert.InDelta(t, 230, b.Base, 1e-9)
	require.Len(t, b.Chapters, 2)
	assert.Equal(t, "Învățământ", b.Chapters[0].Description)
	assert.InDelta(t, 150, b.Chapters[0].TotalAmount, 1e-9)
}

func TestRun_QueryIgnoresDiacritics(t *testing.T) {
	c, input := setup(t)

	out, err := breakdown.Run(c, input, report.FormatJSON, "ch", "invatamant", nil, nil)
	require.NoError(t, err)

	var b report.Breakdown
	require.NoError(t, json.Unmarshal(out, &b))
	assert.Equal(t, "invatamant", b.Query)
	require.Len(t, b.Chapters, 1)
	assert.Equal(t, "65", b.Chapters[0].Prefix)
	assert.InDelta(t, 230, b.Base, 1e-9, "share base stays unfiltered")
}

func TestRun_AllCategoriesWithTotals(t *testing.T) {
	c, input := setup(t)
	exp, inc := 1000.0, 400.0

	out, err := breakdown.Run(c, input, report.FormatJSON, "all", "", &exp, &inc)
	require.NoError(t, err)

	var bs []report.Breakdown
	require.NoError(t, json.Unmarshal(out, &bs))
	require.Len(t, bs, 2)
	assert.Equal(t, 1000.0, bs[0].Base)
	assert.Equal(t, 400.0, bs[1].Base)
	require.Len(t, bs[1].Chapters, 1)
	assert.InDelta(t, 85, bs[1].Chapters[0].Share, 1e-9)
}

func TestRun_Table(t *testing.T) {
	c, input := setup(t)

	out, err := breakdown.Run(c, input, report.FormatTable, "vn", "", nil, nil)
	require.NoError(t, err)
	assert.Contains(t, string(out), "Impozit pe clădiri")
}

func TestRun_Errors(t *testing.T) {
	c, input := setup(t)

	_, err := breakdown.Run(c, input, report.FormatJSON, "assets", "", nil, nil)
	assert.Error(t, err)

	_, err = breakdown.Run(c, input, "pdf", "ch", "", nil, nil)
	var formatErr *budgeterror.UnsupportedFormatError
	assert.True(t, errors.As(err, &formatErr))

	_, err = breakdown.Run(c, filepath.Join(t.TempDir(), "missing.csv"), report.FormatJSON, "ch", "", nil, nil)
	assert.Error(t, err)
}

func TestRun_RejectsNonFiniteTotals(t *testing.T) {
	c, input := setup(t)
	nan, inf := math.NaN(), math.Inf(1)

	_, err := breakdown.Run(c, input, report.FormatJSON, "ch", "", &nan, nil)
	var totalErr *budgeterror.InvalidTotalError
	require.True(t, errors.As(err, &totalErr))
	assert.Equal(t, "total-expenses", totalErr.Name)

	_, err = breakdown.Run(c, input, report.FormatTable, "vn", "", nil, &inf)
	require.True(t, errors.As(err, &totalErr))
	assert.Equal(t, "total-income", totalErr.Name)
}
