// Package dashboard keeps one breakdown pipeline per account category: the
// grouped tree, its search-filtered view and the base total used for shares.
package dashboard

import (
	"sync"
	"time"

	"fjacquet/budget-rollup/internal/aggregator"
	"fjacquet/budget-rollup/internal/logging"
	"fjacquet/budget-rollup/internal/models"
	"fjacquet/budget-rollup/internal/search"
	"fjacquet/budget-rollup/internal/store"
)

// DefaultDebounce is how long a search term must stay unchanged before it is applied.
const DefaultDebounce = 300 * time.Millisecond

// PipelineConfig configures a Pipeline.
type PipelineConfig struct {
	Category    models.AccountCategory
	Names       store.Names
	Debounce    time.Duration
	InitialTerm string
	// Matcher defaults to search.FoldMatcher.
	Matcher search.Matcher
}

// Snapshot is a consistent view of a pipeline. Its trees are shared with the
// pipeline and must not be modified.
type Snapshot struct {
	Category      models.AccountCategory
	Term          string
	DebouncedTerm string
	SearchActive  bool
	Grouped       []models.GroupedChapter
	Filtered      []models.GroupedChapter
	Base          float64
}

// Pipeline regroups its line items whenever they change and refilters the
// grouped tree whenever the debounced search term changes.
// It is safe for concurrent use.
type Pipeline struct {
	category models.AccountCategory
	agg      *aggregator.Aggregator
	matcher  search.Matcher
	debounce time.Duration
	logger   logging.Logger

	mu            sync.Mutex
	names         store.Names
	items         []models.LineItem
	authoritative *float64
	term          string
	debounced     string
	searchActive  bool
	grouped       []models.GroupedChapter
	filtered      []models.GroupedChapter
	timer         *time.Timer
}

// NewPipeline creates an empty pipeline. A nil aggregator uses the default
// labels and a negative debounce is treated as zero.
func NewPipeline(agg *aggregator.Aggregator, cfg PipelineConfig, logger logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.Nop()
	}
	if agg == nil {
		agg = aggregator.NewAggregator(logger, aggregator.DefaultLabels())
	}
	if cfg.Matcher == nil {
		cfg.Matcher = search.FoldMatcher{}
	}
	if cfg.Debounce < 0 {
		cfg.Debounce = 0
	}
	if cfg.Names.Chapters == nil || cfg.Names.Subchapters == nil {
		names := store.NewNames()
		for k, v := range cfg.Names.Chapters {
			names.Chapters[k] = v
		}
		for k, v := range cfg.Names.Subchapters {
			names.Subchapters[k] = v
		}
		cfg.Names = names
	}

	return &Pipeline{
		category:     cfg.Category,
		agg:          agg,
		matcher:      cfg.Matcher,
		debounce:     cfg.Debounce,
		logger:       logger.WithField(logging.FieldCategory, cfg.Category.String()),
		names:        cfg.Names,
		term:         cfg.InitialTerm,
		debounced:    cfg.InitialTerm,
		searchActive: cfg.InitialTerm != "",
		grouped:      []models.GroupedChapter{},
		filtered:     []models.GroupedChapter{},
	}
}

// Category returns the account category the pipeline serves.
func (p *Pipeline) Category() models.AccountCategory {
	return p.category
}

// SetLineItems replaces the line items and regroups them.
func (p *Pipeline) SetLineItems(items []models.LineItem) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = items
	p.regroupLocked()
}

// SetNames replaces the classification names and regroups.
func (p *Pipeline) SetNames(names store.Names) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.names = names
	p.regroupLocked()
}

// SetAuthoritativeTotal sets the externally reported total used as the base.
// Nil reverts to the sum of the grouped chapters.
func (p *Pipeline) SetAuthoritativeTotal(total *float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if total == nil {
		p.authoritative = nil
		return
	}
	v := *total
	p.authoritative = &v
}

// SetSearchTerm records the raw term. The filtered tree follows once the term
// has been stable for the debounce interval.
func (p *Pipeline) SetSearchTerm(term string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.term = term

	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	if p.debounce == 0 {
		p.applyTermLocked(term)
		return
	}

	var t *time.Timer
	t = time.AfterFunc(p.debounce, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		// superseded by a later SetSearchTerm or Flush
		if p.timer != t {
			return
		}
		p.timer = nil
		p.applyTermLocked(p.term)
	})
	p.timer = t
}

// ResetSearchTerm sets the term immediately and derives the active flag from
// it, as happens when a term arrives from outside (a URL, a saved view).
func (p *Pipeline) ResetSearchTerm(term string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.term = term
	p.searchActive = term != ""
	p.applyTermLocked(term)
}

// SetSearchActive toggles whether the search box is open. It does not touch the terms.
func (p *Pipeline) SetSearchActive(active bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.searchActive = active
}

// Flush applies a pending search term now.
func (p *Pipeline) Flush() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.timer == nil {
		return
	}
	p.timer.Stop()
	p.timer = nil
	p.applyTermLocked(p.term)
}

// Close cancels a pending search term.
func (p *Pipeline) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

// Snapshot returns the current state.
func (p *Pipeline) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot{
		Category:      p.category,
		Term:          p.term,
		DebouncedTerm: p.debounced,
		SearchActive:  p.searchActive,
		Grouped:       p.grouped,
		Filtered:      p.filtered,
		Base:          BaseTotal(p.grouped, p.authoritative),
	}
}

func (p *Pipeline) regroupLocked() {
	p.grouped = p.agg.Group(p.category, p.items, p.names.Chapters, p.names.Subchapters)
	p.refilterLocked()
}

func (p *Pipeline) applyTermLocked(term string) {
	if term == p.debounced {
		return
	}
	p.debounced = term
	p.refilterLocked()
}

func (p *Pipeline) refilterLocked() {
	p.filtered = search.FilterTreeWith(p.grouped, p.debounced, p.matcher)
	p.logger.Debug("Refiltered breakdown",
		logging.F(logging.FieldQuery, p.debounced),
		logging.F(logging.FieldCount, len(p.filtered)))
}

// BaseTotal is the denominator for percentage shares: the authoritative total
// when one is known, otherwise the sum of the chapter totals.
func BaseTotal(chapters []models.GroupedChapter, authoritative *float64) float64 {
	if authoritative != nil {
		return *authoritative
	}
	return models.SumChapters(chapters)
}
