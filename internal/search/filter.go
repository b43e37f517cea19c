// Package search prunes a breakdown tree down to the branches matching a
// text query and re-sums every surviving ancestor.
package search

import (
	"strings"
	"unicode"

	"fjacquet/budget-rollup/internal/models"
)

// FilterTree filters chapters with the default FoldMatcher.
func FilterTree(chapters []models.GroupedChapter, query string) []models.GroupedChapter {
	return FilterTreeWith(chapters, query, FoldMatcher{})
}

// FilterTreeWith returns the branches of chapters that match query at any
// level. A blank query returns chapters itself, so the result must be treated
// as read-only. Matched subtrees are shared with the input, not copied.
func FilterTreeWith(chapters []models.GroupedChapter, query string, m Matcher) []models.GroupedChapter {
	q := TrimQuery(query)
	if q == "" {
		return chapters
	}
	if m == nil {
		m = FoldMatcher{}
	}

	f := filter{query: q, m: m}
	out := make([]models.GroupedChapter, 0, len(chapters))
	for _, ch := range chapters {
		if kept, ok := f.chapter(ch); ok {
			out = append(out, kept)
		}
	}
	models.SortChapters(out)
	return out
}

// TrimQuery strips surrounding Unicode whitespace and byte order marks from
// a query. A query that trims to "" means no filtering.
func TrimQuery(query string) string {
	return strings.TrimFunc(query, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\ufeff'
	})
}

type filter struct {
	query string
	m     Matcher
}

func (f filter) match(text string) bool {
	return f.m.Match(text, f.query)
}

func chapterText(ch models.GroupedChapter) string {
	return ch.Description + " " + ch.Prefix
}

func functionalText(code, name string) string {
	return name + " fn:" + code
}

func economicText(e models.GroupedEconomic) string {
	return e.Name + " ec:" + e.Code
}

func (f filter) chapter(ch models.GroupedChapter) (models.GroupedChapter, bool) {
	if f.match(chapterText(ch)) {
		return ch, true
	}

	var subs []models.GroupedSubchapter
	for _, s := range ch.Subchapters {
		if kept, ok := f.subchapter(s); ok {
			subs = append(subs, kept)
		}
	}
	functionals := f.functionals(ch.Functionals)

	if len(subs) == 0 && len(functionals) == 0 {
		return models.GroupedChapter{}, false
	}
	models.SortSubchapters(subs)
	return models.GroupedChapter{
		Prefix:      ch.Prefix,
		Description: ch.Description,
		TotalAmount: models.SumFunctionals(functionals) + models.SumSubchapters(subs),
		Functionals: functionals,
		Subchapters: subs,
	}, true
}

func (f filter) subchapter(s models.GroupedSubchapter) (models.GroupedSubchapter, bool) {
	if f.match(functionalText(s.Code, s.Name)) {
		return s, true
	}
	functionals := f.functionals(s.Functionals)
	if len(functionals) == 0 {
		return models.GroupedSubchapter{}, false
	}
	return models.GroupedSubchapter{
		Code:        s.Code,
		Name:        s.Name,
		TotalAmount: models.SumFunctionals(functionals),
		Functionals: functionals,
	}, true
}

// functionals returns the surviving functionals, sorted. Never nil, so JSON
// output keeps an empty list rather than null.
func (f filter) functionals(in []models.GroupedFunctional) []models.GroupedFunctional {
	out := make([]models.GroupedFunctional, 0, len(in))
	for _, fn := range in {
		if kept, ok := f.functional(fn); ok {
			out = append(out, kept)
		}
	}
	models.SortFunctionals(out)
	return out
}

func (f filter) functional(fn models.GroupedFunctional) (models.GroupedFunctional, bool) {
	if f.match(functionalText(fn.Code, fn.Name)) {
		return fn, true
	}
	var economics []models.GroupedEconomic
	for _, e := range fn.Economics {
		if f.match(economicText(e)) {
			economics = append(economics, e)
		}
	}
	if len(economics) == 0 {
		return models.GroupedFunctional{}, false
	}
	models.SortEconomics(economics)
	return models.GroupedFunctional{
		Code:        fn.Code,
		Name:        fn.Name,
		TotalAmount: models.SumEconomics(economics),
		Economics:   economics,
	}, true
}
