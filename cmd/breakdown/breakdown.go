// Package breakdown renders the expense and income breakdowns of a line item file
package breakdown

import (
	"fmt"
	"strings"

	"fjacquet/budget-rollup/cmd/common"
	"fjacquet/budget-rollup/cmd/root"
	"fjacquet/budget-rollup/internal/budgeterror"
	"fjacquet/budget-rollup/internal/container"
	"fjacquet/budget-rollup/internal/logging"
	"fjacquet/budget-rollup/internal/models"
	"fjacquet/budget-rollup/internal/report"
	"fjacquet/budget-rollup/internal/validation"

	"github.com/spf13/cobra"
)

// Options are the breakdown command's own flags.
type Options struct {
	Category      string
	Query         string
	TotalExpenses float64
	TotalIncome   float64
}

var opts Options

// Cmd represents the breakdown command
var Cmd = &cobra.Command{
	Use:   "breakdown",
	Short: "Group line items into chapter breakdowns",
	Long: `Group expense and income line items by chapter, functional and economic
classification and render the result. --query keeps only the branches whose
names or codes contain every word of the query, ignoring case and diacritics.
Shares are always relative to the unfiltered total, or to --total-expenses /
--total-income when the execution report's own totals are known.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var exp, inc *float64
		if cmd.Flags().Changed("total-expenses") {
			exp = &opts.TotalExpenses
		}
		if cmd.Flags().Changed("total-income") {
			inc = &opts.TotalIncome
		}
		out, err := Run(root.GetContainer(), root.SharedFlags.Input, root.SharedFlags.Format, opts.Category, opts.Query, exp, inc)
		if err != nil {
			return err
		}
		return common.WriteOutput(out, root.SharedFlags.Output, cmd.OutOrStdout(), root.GetLogrusAdapter())
	},
}

func init() {
	Cmd.Flags().StringVarP(&opts.Category, "category", "c", "all", "Account category: ch (expenses), vn (income) or all")
	Cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "Search terms")
	Cmd.Flags().Float64Var(&opts.TotalExpenses, "total-expenses", 0, "Authoritative expense total used as the share base")
	Cmd.Flags().Float64Var(&opts.TotalIncome, "total-income", 0, "Authoritative income total used as the share base")
}

// Categories parses the --category value.
func Categories(value string) ([]models.AccountCategory, error) {
	if v := strings.ToLower(strings.TrimSpace(value)); v == "" || v == "all" {
		return []models.AccountCategory{models.AccountCategoryExpense, models.AccountCategoryIncome}, nil
	}
	category, ok := models.ParseAccountCategory(value)
	if !ok {
		return nil, &budgeterror.UnknownCategoryError{Value: value}
	}
	return []models.AccountCategory{category}, nil
}

// Run loads the inputs, groups and filters them, and renders the requested
// categories in format.
func Run(c *container.Container, input, format, category, query string, totalExpenses, totalIncome *float64) ([]byte, error) {
	if err := validation.IsValidOutputFormat(format); err != nil {
		return nil, err
	}
	categories, err := Categories(category)
	if err != nil {
		return nil, err
	}
	if err := validation.IsValidTotal("total-expenses", totalExpenses); err != nil {
		return nil, err
	}
	if err := validation.IsValidTotal("total-income", totalIncome); err != nil {
		return nil, err
	}
	in, err := common.LoadInputs(c, input)
	if err != nil {
		return nil, err
	}

	d := c.NewDashboard(in.Names, query, query)
	defer d.Close()
	d.SetLineItems(in.Items)
	d.SetAuthoritativeTotals(totalExpenses, totalIncome)

	breakdowns := make([]report.Breakdown, 0, len(categories))
	for _, cat := range categories {
		p, err := d.Pipeline(cat)
		if err != nil {
			return nil, err
		}
		breakdowns = append(breakdowns, report.FromSnapshot(p.Snapshot()))
	}

	c.GetLogger().Info("Computed breakdowns",
		logging.F(logging.FieldCount, len(in.Items)),
		logging.F(logging.FieldQuery, query),
		logging.F(logging.FieldFormat, format))

	out, err := c.GetGenerator().Generate(format, breakdowns...)
	if err != nil {
		return nil, fmt.Errorf("error rendering breakdown: %w", err)
	}
	return out, nil
}
