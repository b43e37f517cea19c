// Package lineitem reads budget execution line items from CSV exports or from
// the JSON shape returned by the execution API.
package lineitem

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/budget-rollup/internal/budgeterror"
	"fjacquet/budget-rollup/internal/logging"
	"fjacquet/budget-rollup/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// Row is one CSV record. Amounts stay strings until validated.
type Row struct {
	AccountCategory string `csv:"account_category"`
	Amount          string `csv:"amount"`
	FunctionalCode  string `csv:"functional_code"`
	FunctionalName  string `csv:"functional_name"`
	EconomicCode    string `csv:"economic_code"`
	EconomicName    string `csv:"economic_name"`
}

// Reader loads line items.
type Reader struct {
	delimiter rune
	logger    logging.Logger
}

// NewReader creates a Reader. A zero delimiter means comma.
func NewReader(delimiter rune, logger logging.Logger) *Reader {
	if delimiter == 0 {
		delimiter = ','
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Reader{delimiter: delimiter, logger: logger}
}

// ReadFile reads a .json file as an API response and anything else as CSV.
func (r *Reader) ReadFile(path string) ([]models.LineItem, error) {
	file, err := os.Open(path) // #nosec G304 -- path chosen by the operator
	if err != nil {
		return nil, fmt.Errorf("error opening line item file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			r.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	var items []models.LineItem
	if strings.EqualFold(filepath.Ext(path), ".json") {
		items, err = r.ReadJSON(file, path)
	} else {
		items, err = r.ReadCSV(file, path)
	}
	if err != nil {
		return nil, err
	}

	r.logger.Info("Read line items",
		logging.F(logging.FieldInputFile, path),
		logging.F(logging.FieldCount, len(items)))
	return items, nil
}

// ReadCSV parses CSV with a header row. source names the input in errors.
func (r *Reader) ReadCSV(in io.Reader, source string) ([]models.LineItem, error) {
	csvReader := csv.NewReader(in)
	csvReader.Comma = r.delimiter
	csvReader.TrimLeadingSpace = true

	var rows []Row
	if err := gocsv.UnmarshalCSV(csvReader, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return []models.LineItem{}, nil
		}
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}

	items := make([]models.LineItem, 0, len(rows))
	for i, row := range rows {
		// header is line 1
		item, err := row.toLineItem(source, i+2)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (row Row) toLineItem(source string, line int) (models.LineItem, error) {
	category, ok := models.ParseAccountCategory(row.AccountCategory)
	if !ok {
		return models.LineItem{}, &budgeterror.ParseError{
			Source: source,
			Line:   line,
			Field:  "account_category",
			Value:  row.AccountCategory,
			Err:    &budgeterror.UnknownCategoryError{Value: row.AccountCategory},
		}
	}

	item, err := models.NewLineItemBuilder().
		WithCategory(category).
		WithAmountFromString(row.Amount).
		WithFunctional(row.FunctionalCode, row.FunctionalName).
		WithEconomic(row.EconomicCode, row.EconomicName).
		Build()
	if err != nil {
		return models.LineItem{}, &budgeterror.ParseError{
			Source: source,
			Line:   line,
			Field:  "amount",
			Value:  row.Amount,
			Err:    err,
		}
	}
	return item, nil
}

type apiClassification struct {
	FunctionalCode string `json:"functional_code"`
	FunctionalName string `json:"functional_name"`
	EconomicCode   string `json:"economic_code"`
	EconomicName   string `json:"economic_name"`
}

type apiLineItem struct {
	AccountCategory string             `json:"account_category"`
	Amount          decimal.Decimal    `json:"amount"`
	Functional      *apiClassification `json:"functionalClassification"`
	Economic        *apiClassification `json:"economicClassification"`
}

type apiPage struct {
	Nodes []apiLineItem `json:"nodes"`
}

// ReadJSON accepts either a bare array of line items or a page object with a
// "nodes" array, as returned by the execution API. Missing classifications
// are kept as empty codes so the grouping rules can skip them.
func (r *Reader) ReadJSON(in io.Reader, source string) ([]models.LineItem, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", source, err)
	}

	var raw []apiLineItem
	if err := json.Unmarshal(data, &raw); err != nil {
		var page apiPage
		if perr := json.Unmarshal(data, &page); perr != nil {
			return nil, fmt.Errorf("error parsing JSON line items in %s: %w", source, err)
		}
		raw = page.Nodes
	}

	items := make([]models.LineItem, 0, len(raw))
	for i, li := range raw {
		category, ok := models.ParseAccountCategory(li.AccountCategory)
		if !ok {
			return nil, &budgeterror.ParseError{
				Source: fmt.Sprintf("%s[%d]", source, i),
				Field:  "account_category",
				Value:  li.AccountCategory,
				Err:    &budgeterror.UnknownCategoryError{Value: li.AccountCategory},
			}
		}
		b := models.NewLineItemBuilder().
			WithCategory(category).
			WithAmount(li.Amount.InexactFloat64())
		if li.Functional != nil {
			b.WithFunctional(li.Functional.FunctionalCode, li.Functional.FunctionalName)
		}
		if li.Economic != nil {
			b.WithEconomic(li.Economic.EconomicCode, li.Economic.EconomicName)
		}
		item, err := b.Build()
		if err != nil {
			return nil, &budgeterror.ParseError{
				Source: fmt.Sprintf("%s[%d]", source, i),
				Field:  "amount",
				Value:  li.Amount.String(),
				Err:    err,
			}
		}
		items = append(items, item)
	}
	return items, nil
}

// Split partitions items into expense and income items, keeping their order.
// Items of any other category are dropped.
func Split(items []models.LineItem) (expenses, income []models.LineItem) {
	expenses = make([]models.LineItem, 0, len(items))
	income = make([]models.LineItem, 0)
	for _, item := range items {
		switch item.AccountCategory {
		case models.AccountCategoryExpense:
			expenses = append(expenses, item)
		case models.AccountCategoryIncome:
			income = append(income, item)
		}
	}
	return expenses, income
}
