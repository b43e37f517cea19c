package aggregator

import "fjacquet/budget-rollup/internal/models"

// The accumulators below keep an index map for O(1) lookup and a slice for
// insertion order. Only the slices are ever iterated.

type economicAcc struct {
	code   string
	name   string
	amount float64
}

type functionalAcc struct {
	code      string
	name      string
	total     float64
	economics []*economicAcc
	ecoIndex  map[string]*economicAcc
}

func (f *functionalAcc) addEconomic(code, name string, amount float64) {
	eco, ok := f.ecoIndex[code]
	if !ok {
		eco = &economicAcc{code: code, name: name}
		f.ecoIndex[code] = eco
		f.economics = append(f.economics, eco)
	}
	eco.amount += amount
}

func (f *functionalAcc) materialize() models.GroupedFunctional {
	economics := make([]models.GroupedEconomic, 0, len(f.economics))
	for _, e := range f.economics {
		economics = append(economics, models.GroupedEconomic{
			Code:   e.code,
			Name:   e.name,
			Amount: e.amount,
		})
	}
	models.SortEconomics(economics)
	return models.GroupedFunctional{
		Code:        f.code,
		Name:        f.name,
		TotalAmount: f.total,
		Economics:   economics,
	}
}

type functionalSet struct {
	list  []*functionalAcc
	index map[string]*functionalAcc
}

func newFunctionalSet() functionalSet {
	return functionalSet{index: make(map[string]*functionalAcc)}
}

func (s *functionalSet) get(code, name string) *functionalAcc {
	f, ok := s.index[code]
	if !ok {
		f = &functionalAcc{
			code:     code,
			name:     name,
			ecoIndex: make(map[string]*economicAcc),
		}
		s.index[code] = f
		s.list = append(s.list, f)
	}
	return f
}

func (s *functionalSet) materialize() []models.GroupedFunctional {
	out := make([]models.GroupedFunctional, 0, len(s.list))
	for _, f := range s.list {
		out = append(out, f.materialize())
	}
	models.SortFunctionals(out)
	return out
}

type subchapterAcc struct {
	code        string
	name        string
	total       float64
	functionals functionalSet
}

type chapterAcc struct {
	prefix      string
	description string
	total       float64
	functionals functionalSet
	subchapters []*subchapterAcc
	subIndex    map[string]*subchapterAcc
}

func (c *chapterAcc) subchapter(code, name string) *subchapterAcc {
	s, ok := c.subIndex[code]
	if !ok {
		s = &subchapterAcc{code: code, name: name, functionals: newFunctionalSet()}
		c.subIndex[code] = s
		c.subchapters = append(c.subchapters, s)
	}
	return s
}

func (c *chapterAcc) materialize() models.GroupedChapter {
	ch := models.GroupedChapter{
		Prefix:      c.prefix,
		Description: c.description,
		TotalAmount: c.total,
		Functionals: c.functionals.materialize(),
	}
	if len(c.subchapters) > 0 {
		subs := make([]models.GroupedSubchapter, 0, len(c.subchapters))
		for _, s := range c.subchapters {
			subs = append(subs, models.GroupedSubchapter{
				Code:        s.code,
				Name:        s.name,
				TotalAmount: s.total,
				Functionals: s.functionals.materialize(),
			})
		}
		models.SortSubchapters(subs)
		ch.Subchapters = subs
	}
	return ch
}

// treeBuilder folds line items into chapter accumulators.
type treeBuilder struct {
	chapters []*chapterAcc
	index    map[string]*chapterAcc
}

func newTreeBuilder() *treeBuilder {
	return &treeBuilder{index: make(map[string]*chapterAcc)}
}

func (b *treeBuilder) chapter(prefix, description string) *chapterAcc {
	c, ok := b.index[prefix]
	if !ok {
		c = &chapterAcc{
			prefix:      prefix,
			description: description,
			functionals: newFunctionalSet(),
			subIndex:    make(map[string]*subchapterAcc),
		}
		b.index[prefix] = c
		b.chapters = append(b.chapters, c)
	}
	return c
}

func (b *treeBuilder) build() []models.GroupedChapter {
	out := make([]models.GroupedChapter, 0, len(b.chapters))
	for _, c := range b.chapters {
		out = append(out, c.materialize())
	}
	models.SortChapters(out)
	return out
}
