package models

import (
	"errors"
	"fmt"
	"math"

	"fjacquet/budget-rollup/internal/textutils"

	"github.com/shopspring/decimal"
)

// LineItemBuilder provides a fluent API for constructing line items
type LineItemBuilder struct {
	item LineItem
	err  error
}

// NewLineItemBuilder creates a new LineItemBuilder for an expense row
func NewLineItemBuilder() *LineItemBuilder {
	return &LineItemBuilder{
		item: LineItem{
			AccountCategory: AccountCategoryExpense,
		},
	}
}

// WithCategory sets the account category
func (b *LineItemBuilder) WithCategory(category AccountCategory) *LineItemBuilder {
	if b.err != nil {
		return b
	}
	b.item.AccountCategory = category
	return b
}

// AsExpense marks the item as an expense row
func (b *LineItemBuilder) AsExpense() *LineItemBuilder {
	return b.WithCategory(AccountCategoryExpense)
}

// AsIncome marks the item as an income row
func (b *LineItemBuilder) AsIncome() *LineItemBuilder {
	return b.WithCategory(AccountCategoryIncome)
}

// WithAmount sets the amount. NaN and infinite amounts are rejected.
func (b *LineItemBuilder) WithAmount(amount float64) *LineItemBuilder {
	if b.err != nil {
		return b
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		b.err = fmt.Errorf("amount %v out of range", amount)
		return b
	}
	b.item.Amount = amount
	return b
}

// WithAmountFromString parses the amount as an exact decimal after trimming
// whitespace and invisible characters. A blank string is zero.
func (b *LineItemBuilder) WithAmountFromString(amount string) *LineItemBuilder {
	if b.err != nil {
		return b
	}
	s := textutils.RobustTrim(amount)
	if s == "" {
		b.item.Amount = 0
		return b
	}
	dec, err := decimal.NewFromString(s)
	if err != nil {
		b.err = fmt.Errorf("invalid amount %q: %w", amount, err)
		return b
	}
	return b.WithAmount(dec.InexactFloat64())
}

// WithFunctional sets the functional classification
func (b *LineItemBuilder) WithFunctional(code, name string) *LineItemBuilder {
	if b.err != nil {
		return b
	}
	b.item.FunctionalCode = code
	b.item.FunctionalName = name
	return b
}

// WithEconomic sets the economic classification
func (b *LineItemBuilder) WithEconomic(code, name string) *LineItemBuilder {
	if b.err != nil {
		return b
	}
	b.item.EconomicCode = code
	b.item.EconomicName = name
	return b
}

// Build returns the line item or the first error recorded by the builder
func (b *LineItemBuilder) Build() (LineItem, error) {
	if b.err != nil {
		return LineItem{}, b.err
	}
	if b.item.AccountCategory == "" {
		return LineItem{}, errors.New("account category is required")
	}
	return b.item, nil
}

// MustBuild is Build for fixtures; it panics on error
func (b *LineItemBuilder) MustBuild() LineItem {
	item, err := b.Build()
	if err != nil {
		panic(err)
	}
	return item
}
