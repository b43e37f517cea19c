package dashboard

import (
	"time"

	"fjacquet/budget-rollup/internal/aggregator"
	"fjacquet/budget-rollup/internal/budgeterror"
	"fjacquet/budget-rollup/internal/lineitem"
	"fjacquet/budget-rollup/internal/logging"
	"fjacquet/budget-rollup/internal/models"
	"fjacquet/budget-rollup/internal/store"
)

// Config configures both pipelines of a Dashboard.
type Config struct {
	Names              store.Names
	Debounce           time.Duration
	InitialExpenseTerm string
	InitialIncomeTerm  string
}

// Dashboard pairs an expense pipeline with an income pipeline. The two have
// independent search terms and share the classification names.
type Dashboard struct {
	expenses *Pipeline
	income   *Pipeline
	logger   logging.Logger
}

// New creates a Dashboard with both pipelines empty.
func New(agg *aggregator.Aggregator, cfg Config, logger logging.Logger) *Dashboard {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Dashboard{
		expenses: NewPipeline(agg, PipelineConfig{
			Category:    models.AccountCategoryExpense,
			Names:       cfg.Names,
			Debounce:    cfg.Debounce,
			InitialTerm: cfg.InitialExpenseTerm,
		}, logger),
		income: NewPipeline(agg, PipelineConfig{
			Category:    models.AccountCategoryIncome,
			Names:       cfg.Names,
			Debounce:    cfg.Debounce,
			InitialTerm: cfg.InitialIncomeTerm,
		}, logger),
		logger: logger,
	}
}

// Expenses returns the expense pipeline.
func (d *Dashboard) Expenses() *Pipeline { return d.expenses }

// Income returns the income pipeline.
func (d *Dashboard) Income() *Pipeline { return d.income }

// Pipeline returns the pipeline for category.
func (d *Dashboard) Pipeline(category models.AccountCategory) (*Pipeline, error) {
	switch category {
	case models.AccountCategoryExpense:
		return d.expenses, nil
	case models.AccountCategoryIncome:
		return d.income, nil
	default:
		return nil, &budgeterror.UnknownCategoryError{Value: string(category)}
	}
}

// SetLineItems splits items by account category and feeds each pipeline its
// share. Items of any other category are ignored.
func (d *Dashboard) SetLineItems(items []models.LineItem) {
	expenses, income := lineitem.Split(items)
	d.expenses.SetLineItems(expenses)
	d.income.SetLineItems(income)

	if ignored := len(items) - len(expenses) - len(income); ignored > 0 {
		d.logger.Debug("Ignored line items with an unknown account category",
			logging.F(logging.FieldSkipped, ignored))
	}
}

// SetNames replaces the classification names of both pipelines.
func (d *Dashboard) SetNames(names store.Names) {
	d.expenses.SetNames(names)
	d.income.SetNames(names)
}

// SetAuthoritativeTotals sets the externally reported totals. Either may be nil.
func (d *Dashboard) SetAuthoritativeTotals(expenses, income *float64) {
	d.expenses.SetAuthoritativeTotal(expenses)
	d.income.SetAuthoritativeTotal(income)
}

// Flush applies pending search terms on both pipelines.
func (d *Dashboard) Flush() {
	d.expenses.Flush()
	d.income.Flush()
}

// Close cancels pending search terms.
func (d *Dashboard) Close() {
	d.expenses.Close()
	d.income.Close()
}
