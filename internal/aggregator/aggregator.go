// Package aggregator folds flat budget execution line items into the
// chapter -> functional -> economic breakdown tree (and, for income, the
// optional chapter -> subchapter level).
//
// Grouping never fails. Malformed or sentinel codes are expected in real
// execution data and are handled by fixed exclusion rules:
//   - a sentinel or missing functional code excludes the item from every total
//   - a functional code with no two-digit chapter prefix excludes the item too
//   - a sentinel or missing economic code keeps the item in the functional and
//     chapter totals but creates no economic leaf
//   - an income subchapter without a known name folds into the chapter's own
//     functional list
package aggregator

import (
	"fjacquet/budget-rollup/internal/logging"
	"fjacquet/budget-rollup/internal/models"
	"fjacquet/budget-rollup/internal/textutils"
)

// Default placeholder names.
const (
	DefaultUnclassifiedLabel = "Unclassified"
	DefaultUnknownLabel      = "Unknown"
)

// Skip reasons reported in the debug summary.
const (
	reasonSentinelFunctional = "sentinel_functional_code"
	reasonNoChapterPrefix    = "no_chapter_prefix"
)

// NameLookup resolves a normalized classification code to its description.
// A missing or blank description is reported as not found.
type NameLookup interface {
	Lookup(code string) (string, bool)
}

// Labels are the placeholders used when a name is missing.
type Labels struct {
	// Unclassified replaces a chapter description missing from the chapter names.
	Unclassified string
	// Unknown replaces a blank functional or economic name.
	Unknown string
}

// DefaultLabels returns the English placeholders.
func DefaultLabels() Labels {
	return Labels{
		Unclassified: DefaultUnclassifiedLabel,
		Unknown:      DefaultUnknownLabel,
	}
}

func (l Labels) withDefaults() Labels {
	if textutils.RobustTrim(l.Unclassified) == "" {
		l.Unclassified = DefaultUnclassifiedLabel
	}
	if textutils.RobustTrim(l.Unknown) == "" {
		l.Unknown = DefaultUnknownLabel
	}
	return l
}

// Aggregator groups line items into breakdown trees. It holds no state
// between calls and is safe for concurrent use.
type Aggregator struct {
	labels Labels
	logger logging.Logger
}

// NewAggregator creates an Aggregator. Blank labels fall back to the defaults
// and a nil logger discards output.
func NewAggregator(logger logging.Logger, labels Labels) *Aggregator {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Aggregator{
		labels: labels.withDefaults(),
		logger: logger,
	}
}

// Labels returns the placeholders in use.
func (a *Aggregator) Labels() Labels {
	return a.labels
}

// GroupExpenses builds the expense tree: chapter -> functional -> economic.
func (a *Aggregator) GroupExpenses(items []models.LineItem, chapterNames NameLookup) []models.GroupedChapter {
	return a.group(models.AccountCategoryExpense, items, chapterNames, nil)
}

// GroupIncome builds the income tree. Items whose "NN.MM" subchapter has a
// known name nest under that subchapter; all others attach to the chapter's
// own functional list.
func (a *Aggregator) GroupIncome(items []models.LineItem, chapterNames, subchapterNames NameLookup) []models.GroupedChapter {
	return a.group(models.AccountCategoryIncome, items, chapterNames, subchapterNames)
}

// Group dispatches on the account category.
func (a *Aggregator) Group(category models.AccountCategory, items []models.LineItem, chapterNames, subchapterNames NameLookup) []models.GroupedChapter {
	if category == models.AccountCategoryIncome {
		return a.GroupIncome(items, chapterNames, subchapterNames)
	}
	return a.GroupExpenses(items, chapterNames)
}

func (a *Aggregator) group(category models.AccountCategory, items []models.LineItem, chapterNames, subchapterNames NameLookup) []models.GroupedChapter {
	b := newTreeBuilder()
	skipped := map[string]int{}
	folded := 0

	for _, item := range items {
		funcCode := textutils.RobustTrim(item.FunctionalCode)
		if textutils.IsSentinel(funcCode) {
			skipped[reasonSentinelFunctional]++
			continue
		}
		prefix, ok := textutils.ChapterPrefix(funcCode)
		if !ok {
			skipped[reasonNoChapterPrefix]++
			continue
		}

		chapter := b.chapter(prefix, a.chapterDescription(prefix, chapterNames))
		funcName := textutils.FallbackName(item.FunctionalName, a.labels.Unknown)

		var functional *functionalAcc
		if sub, name, ok := a.subchapterFor(funcCode, subchapterNames); ok {
			s := chapter.subchapter(sub, name)
			s.total += item.Amount
			functional = s.functionals.get(funcCode, funcName)
		} else {
			functional = chapter.functionals.get(funcCode, funcName)
		}

		functional.total += item.Amount
		chapter.total += item.Amount
		folded++

		ecoCode := textutils.RobustTrim(item.EconomicCode)
		if !textutils.IsSentinel(ecoCode) {
			functional.addEconomic(ecoCode, textutils.FallbackName(item.EconomicName, a.labels.Unknown), item.Amount)
		}
	}

	chapters := b.build()

	a.logger.Debug("Grouped line items",
		logging.F(logging.FieldCategory, category.String()),
		logging.F(logging.FieldCount, folded),
		logging.F(logging.FieldSkipped, skipped[reasonSentinelFunctional]+skipped[reasonNoChapterPrefix]),
		logging.F(reasonSentinelFunctional, skipped[reasonSentinelFunctional]),
		logging.F(reasonNoChapterPrefix, skipped[reasonNoChapterPrefix]),
		logging.F("chapters", len(chapters)))

	return chapters
}

func (a *Aggregator) chapterDescription(prefix string, names NameLookup) string {
	if names != nil {
		if desc, ok := names.Lookup(prefix); ok {
			if d := textutils.RobustTrim(desc); d != "" {
				return d
			}
		}
	}
	return a.labels.Unclassified
}

// subchapterFor returns the subchapter code and name for an income functional
// code, only when the subchapter has a known name.
func (a *Aggregator) subchapterFor(funcCode string, names NameLookup) (string, string, bool) {
	if names == nil {
		return "", "", false
	}
	code, ok := textutils.SubchapterPrefix(funcCode)
	if !ok {
		return "", "", false
	}
	name, ok := names.Lookup(code)
	if !ok {
		return "", "", false
	}
	name = textutils.RobustTrim(name)
	if name == "" {
		return "", "", false
	}
	return code, name, true
}

var defaultAggregator = NewAggregator(nil, DefaultLabels())

// GroupExpenses groups expense items with the default labels.
func GroupExpenses(items []models.LineItem, chapterNames NameLookup) []models.GroupedChapter {
	return defaultAggregator.GroupExpenses(items, chapterNames)
}

// GroupIncome groups income items with the default labels.
func GroupIncome(items []models.LineItem, chapterNames, subchapterNames NameLookup) []models.GroupedChapter {
	return defaultAggregator.GroupIncome(items, chapterNames, subchapterNames)
}
