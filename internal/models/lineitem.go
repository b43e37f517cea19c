package models

import "strings"

// AccountCategory identifies the side of the budget a line item belongs to.
type AccountCategory string

// Account categories as they appear in execution reports.
const (
	AccountCategoryExpense AccountCategory = "ch"
	AccountCategoryIncome  AccountCategory = "vn"
)

// ParseAccountCategory accepts the short report codes as well as the
// English names. The second result is false for anything else.
func ParseAccountCategory(s string) (AccountCategory, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ch", "expense", "expenses":
		return AccountCategoryExpense, true
	case "vn", "income", "incomes":
		return AccountCategoryIncome, true
	default:
		return "", false
	}
}

// String returns the short report code.
func (c AccountCategory) String() string {
	return string(c)
}

// Label returns a human readable name for the category.
func (c AccountCategory) Label() string {
	switch c {
	case AccountCategoryExpense:
		return "expense"
	case AccountCategoryIncome:
		return "income"
	default:
		return string(c)
	}
}

// LineItem is a single budget execution row. Amounts are already converted,
// inflation adjusted and restricted to one period and entity by the caller.
// An empty EconomicCode means the row carries no economic classification.
type LineItem struct {
	AccountCategory AccountCategory `json:"account_category" yaml:"account_category"`
	Amount          float64         `json:"amount" yaml:"amount"`
	FunctionalCode  string          `json:"functional_code" yaml:"functional_code"`
	FunctionalName  string          `json:"functional_name" yaml:"functional_name"`
	EconomicCode    string          `json:"economic_code,omitempty" yaml:"economic_code,omitempty"`
	EconomicName    string          `json:"economic_name,omitempty" yaml:"economic_name,omitempty"`
}

// IsExpense reports whether the item is on the expense side.
func (li LineItem) IsExpense() bool {
	return li.AccountCategory == AccountCategoryExpense
}

// IsIncome reports whether the item is on the income side.
func (li LineItem) IsIncome() bool {
	return li.AccountCategory == AccountCategoryIncome
}
