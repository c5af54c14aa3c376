package query

import (
	"sort"
	"sync"

	"github.com/talentsync/talentsync/internal/domain/model"
)

// Engine is the filter → sort → paginate state machine over a collection
// of canonical records. Jobs and freelancers share the same engine shape,
// parameterized by a matcher and a comparator set.
//
// All operations are synchronous, never perform I/O, and never fail on
// empty data: an empty source collection yields an empty view. The engine
// owns only derived view state; the record repository owns the source of
// truth.
type Engine[T any] struct {
	mu sync.RWMutex

	match       func(T, Criteria) bool
	comparators map[SortKey]Less[T]

	source   []T
	filtered []T
	criteria Criteria
	sortKey  SortKey
	page     int
	pageSize int
}

// View is a pure read of the engine's current state. Records holds the
// visible slice under cumulative paging: page n reveals the first
// n*pageSize filtered records.
type View[T any] struct {
	Records    []T  `json:"records"`
	TotalCount int  `json:"total_count"`
	Page       int  `json:"page"`
	HasMore    bool `json:"has_more"`
}

// NewEngine builds an engine over records with the given matcher and
// comparator set. Records are filtered with an empty criteria (everything
// passes) and ordered by the configured initial sort key.
func NewEngine[T any](match func(T, Criteria) bool, comparators map[SortKey]Less[T], records []T, opts ...Option) *Engine[T] {
	s := newSettings()
	for _, opt := range opts {
		opt(s)
	}

	e := &Engine[T]{
		match:       match,
		comparators: comparators,
		sortKey:     s.sortKey,
		page:        1,
		pageSize:    s.pageSize,
	}
	e.replaceRecords(records)
	return e
}

// NewJobEngine builds an engine over job listings with the standard job
// predicate and comparator set.
func NewJobEngine(records []model.Job, opts ...Option) *Engine[model.Job] {
	return NewEngine(MatchJob, JobComparators(), records, opts...)
}

// NewFreelancerEngine builds an engine over freelancer listings with the
// standard freelancer predicate and comparator set.
func NewFreelancerEngine(records []model.Freelancer, opts ...Option) *Engine[model.Freelancer] {
	return NewEngine(MatchFreelancer, FreelancerComparators(), records, opts...)
}

// SetRecords replaces the source collection, re-applies the active
// criteria and sort, and clamps the current page so the visible slice
// never points past the new filtered set.
func (e *Engine[T]) SetRecords(records []T) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.replaceRecords(records)
	if max := e.pageCount(); e.page > max {
		e.page = max
	}
	if e.page < 1 {
		e.page = 1
	}
}

// SetCriteria replaces the active criteria wholesale, resets paging to the
// first page and recomputes the filtered set. Predicate categories combine
// with AND semantics; the active sort key is re-applied.
func (e *Engine[T]) SetCriteria(c Criteria) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.criteria = c.normalized()
	e.page = 1
	e.refilter()
	e.resort()
}

// SetSort re-sorts the existing filtered set with the named comparator.
// Filtering is not re-run and the current page is kept. An unknown key
// leaves the current order untouched.
func (e *Engine[T]) SetSort(key SortKey) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.sortKey = key
	e.resort()
}

// LoadMore reveals one more page. Reports false when the visible slice
// already covers the whole filtered set.
func (e *Engine[T]) LoadMore() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.page*e.pageSize >= len(e.filtered) {
		return false
	}
	e.page++
	return true
}

// CurrentView returns a copy of the visible slice together with the total
// filtered count and whether more records remain.
func (e *Engine[T]) CurrentView() View[T] {
	e.mu.RLock()
	defer e.mu.RUnlock()

	visible := e.page * e.pageSize
	if visible > len(e.filtered) {
		visible = len(e.filtered)
	}

	records := make([]T, visible)
	copy(records, e.filtered[:visible])

	return View[T]{
		Records:    records,
		TotalCount: len(e.filtered),
		Page:       e.page,
		HasMore:    visible < len(e.filtered),
	}
}

// Criteria returns the active criteria snapshot.
func (e *Engine[T]) Criteria() Criteria {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.criteria
}

// replaceRecords swaps the source and recomputes derived state.
// Callers hold e.mu.
func (e *Engine[T]) replaceRecords(records []T) {
	e.source = make([]T, len(records))
	copy(e.source, records)
	e.refilter()
	e.resort()
}

// refilter recomputes the filtered set, preserving source order.
// Callers hold e.mu.
func (e *Engine[T]) refilter() {
	e.filtered = e.filtered[:0]
	for _, r := range e.source {
		if e.match(r, e.criteria) {
			e.filtered = append(e.filtered, r)
		}
	}
}

// resort applies the active comparator with a stable sort, so ties keep
// their relative input order. Unknown sort keys are a no-op rather than
// an error: the view must never go blank because of a bad key.
// Callers hold e.mu.
func (e *Engine[T]) resort() {
	less, ok := e.comparators[e.sortKey]
	if !ok {
		return
	}
	sort.SliceStable(e.filtered, func(i, j int) bool {
		return less(e.filtered[i], e.filtered[j])
	})
}

// pageCount returns the number of pages covering the filtered set, at
// least 1. Callers hold e.mu.
func (e *Engine[T]) pageCount() int {
	n := (len(e.filtered) + e.pageSize - 1) / e.pageSize
	if n < 1 {
		n = 1
	}
	return n
}
