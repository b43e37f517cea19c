package report

import (
	"fmt"
	"math"

	"fjacquet/budget-rollup/internal/dashboard"
	"fjacquet/budget-rollup/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// EconomicView is an economic leaf with its share of the base total.
type EconomicView struct {
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Share  float64 `json:"share"`
}

// FunctionalView is a functional bucket with its share of the base total.
type FunctionalView struct {
	Code        string         `json:"code"`
	Name        string         `json:"name"`
	TotalAmount float64        `json:"totalAmount"`
	Share       float64        `json:"share"`
	Economics   []EconomicView `json:"economics"`
}

// SubchapterView is an income subchapter with its share of the base total.
type SubchapterView struct {
	Code        string           `json:"code"`
	Name        string           `json:"name"`
	TotalAmount float64          `json:"totalAmount"`
	Share       float64          `json:"share"`
	Functionals []FunctionalView `json:"functionals"`
}

// ChapterView is a chapter with its share of the base total.
type ChapterView struct {
	Prefix      string           `json:"prefix"`
	Description string           `json:"description"`
	TotalAmount float64          `json:"totalAmount"`
	Share       float64          `json:"share"`
	Functionals []FunctionalView `json:"functionals"`
	Subchapters []SubchapterView `json:"subchapters,omitempty"`
}

// Breakdown is the renderable form of one category's tree. Shares are
// percentages of Base, which stays the unfiltered base while a query is set.
type Breakdown struct {
	Category models.AccountCategory `json:"category"`
	Query    string                 `json:"query,omitempty"`
	Base     float64                `json:"base"`
	Total    float64                `json:"total"`
	Chapters []ChapterView          `json:"chapters"`
}

// NewBreakdown builds the view of chapters against base.
func NewBreakdown(category models.AccountCategory, query string, chapters []models.GroupedChapter, base float64) Breakdown {
	views := make([]ChapterView, 0, len(chapters))
	for _, ch := range chapters {
		view := ChapterView{
			Prefix:      ch.Prefix,
			Description: ch.Description,
			TotalAmount: ch.TotalAmount,
			Share:       Share(ch.TotalAmount, base),
			Functionals: functionalViews(ch.Functionals, base),
		}
		for _, sub := range ch.Subchapters {
			view.Subchapters = append(view.Subchapters, SubchapterView{
				Code:        sub.Code,
				Name:        sub.Name,
				TotalAmount: sub.TotalAmount,
				Share:       Share(sub.TotalAmount, base),
				Functionals: functionalViews(sub.Functionals, base),
			})
		}
		views = append(views, view)
	}
	return Breakdown{
		Category: category,
		Query:    query,
		Base:     base,
		Total:    models.SumChapters(chapters),
		Chapters: views,
	}
}

// FromSnapshot builds the view of a dashboard pipeline's filtered tree.
func FromSnapshot(s dashboard.Snapshot) Breakdown {
	return NewBreakdown(s.Category, s.DebouncedTerm, s.Filtered, s.Base)
}

func functionalViews(functionals []models.GroupedFunctional, base float64) []FunctionalView {
	out := make([]FunctionalView, 0, len(functionals))
	for _, f := range functionals {
		economics := make([]EconomicView, 0, len(f.Economics))
		for _, e := range f.Economics {
			economics = append(economics, EconomicView{
				Code:   e.Code,
				Name:   e.Name,
				Amount: e.Amount,
				Share:  Share(e.Amount, base),
			})
		}
		out = append(out, FunctionalView{
			Code:        f.Code,
			Name:        f.Name,
			TotalAmount: f.TotalAmount,
			Share:       Share(f.TotalAmount, base),
			Economics:   economics,
		})
	}
	return out
}

// Share returns amount as a percentage of base, rounded to two places.
// A zero base gives zero, as does a NaN or infinite amount or base.
func Share(amount, base float64) float64 {
	if !finite(amount) || !finite(base) {
		return 0
	}
	b := decimal.NewFromFloat(base)
	if b.IsZero() {
		return 0
	}
	return decimal.NewFromFloat(amount).
		Div(b).
		Mul(decimal.NewFromInt(100)).
		Round(2).
		InexactFloat64()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders an amount with two decimals and thousands separators.
func FormatAmount(v float64) string {
	if !finite(v) {
		return fmt.Sprintf("%.2f", v)
	}
	return amountPrinter.Sprintf("%.2f", decimal.NewFromFloat(v).Round(2).InexactFloat64())
}
