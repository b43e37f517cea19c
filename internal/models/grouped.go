package models

import "sort"

// GroupedEconomic is a leaf of the breakdown tree: the amount booked under one
// economic code within a functional (or subchapter functional) bucket.
type GroupedEconomic struct {
	Code   string  `json:"code" yaml:"code"`
	Name   string  `json:"name" yaml:"name"`
	Amount float64 `json:"amount" yaml:"amount"`
}

// GroupedFunctional groups every economic leaf booked under one full functional code.
// TotalAmount always equals the sum of the economics' amounts plus any amount
// booked without an economic code.
type GroupedFunctional struct {
	Code        string            `json:"code" yaml:"code"`
	Name        string            `json:"name" yaml:"name"`
	TotalAmount float64           `json:"totalAmount" yaml:"total_amount"`
	Economics   []GroupedEconomic `json:"economics" yaml:"economics"`
}

// GroupedSubchapter is an income-side "NN.MM" group nested inside a chapter.
type GroupedSubchapter struct {
	Code        string              `json:"code" yaml:"code"`
	Name        string              `json:"name" yaml:"name"`
	TotalAmount float64             `json:"totalAmount" yaml:"total_amount"`
	Functionals []GroupedFunctional `json:"functionals" yaml:"functionals"`
}

// GroupedChapter is the top level of the breakdown tree.
// Subchapters is only ever populated for income trees.
type GroupedChapter struct {
	Prefix      string              `json:"prefix" yaml:"prefix"`
	Description string              `json:"description" yaml:"description"`
	TotalAmount float64             `json:"totalAmount" yaml:"total_amount"`
	Functionals []GroupedFunctional `json:"functionals" yaml:"functionals"`
	Subchapters []GroupedSubchapter `json:"subchapters,omitempty" yaml:"subchapters,omitempty"`
}

// SumChapters returns the sum of the chapters' totals.
func SumChapters(chapters []GroupedChapter) float64 {
	var total float64
	for _, ch := range chapters {
		total += ch.TotalAmount
	}
	return total
}

// SumFunctionals returns the sum of the functionals' totals.
func SumFunctionals(functionals []GroupedFunctional) float64 {
	var total float64
	for _, f := range functionals {
		total += f.TotalAmount
	}
	return total
}

// SumSubchapters returns the sum of the subchapters' totals.
func SumSubchapters(subchapters []GroupedSubchapter) float64 {
	var total float64
	for _, s := range subchapters {
		total += s.TotalAmount
	}
	return total
}

// SumEconomics returns the sum of the economic leaves' amounts.
func SumEconomics(economics []GroupedEconomic) float64 {
	var total float64
	for _, e := range economics {
		total += e.Amount
	}
	return total
}

// SortChapters orders chapters by descending total. Ties keep their order.
func SortChapters(chapters []GroupedChapter) {
	sort.SliceStable(chapters, func(i, j int) bool {
		return chapters[i].TotalAmount > chapters[j].TotalAmount
	})
}

// SortSubchapters orders subchapters by descending total. Ties keep their order.
func SortSubchapters(subchapters []GroupedSubchapter) {
	sort.SliceStable(subchapters, func(i, j int) bool {
		return subchapters[i].TotalAmount > subchapters[j].TotalAmount
	})
}

// SortFunctionals orders functionals by descending total. Ties keep their order.
func SortFunctionals(functionals []GroupedFunctional) {
	sort.SliceStable(functionals, func(i, j int) bool {
		return functionals[i].TotalAmount > functionals[j].TotalAmount
	})
}

// SortEconomics orders economic leaves by descending amount. Ties keep their order.
func SortEconomics(economics []GroupedEconomic) {
	sort.SliceStable(economics, func(i, j int) bool {
		return economics[i].Amount > economics[j].Amount
	})
}
