package service

import (
	"context"
	"sync"
	"time"

	catalog "github.com/Manubolla/Dummyshop/internal/catalog/domain"
	catalogservice "github.com/Manubolla/Dummyshop/internal/catalog/service"
	"github.com/Manubolla/Dummyshop/internal/listing/domain"
	"github.com/Manubolla/Dummyshop/internal/platform/logger"
)

type LoadState string

const (
	StateIdle    LoadState = "idle"
	StateLoading LoadState = "loading"
	StateLoaded  LoadState = "loaded"
	StateFailed  LoadState = "failed"
)

// Snapshot is everything a listing surface renders.
type Snapshot struct {
	State             LoadState
	Err               error
	Query             domain.QueryState
	Products          []catalog.Product
	Categories        []catalog.Category
	ActiveFilterCount int
}

// Session is one open listing view: it owns the query state, the fetched
// catalog snapshot and the computed view, and recomputes on every change.
type Session struct {
	mu         sync.Mutex
	catalog    catalogservice.CatalogService
	query      domain.QueryState
	products   []catalog.Product
	categories []catalog.Category
	view       []catalog.Product
	state      LoadState
	err        error
	loadSeq    uint64
	closed     bool
	onChange   func(Snapshot)
	search     *Debouncer[string]
}

func NewSession(cs catalogservice.CatalogService, searchDebounce time.Duration, initial domain.QueryState) *Session {
	s := &Session{
		catalog: cs,
		query:   initial,
		state:   StateIdle,
		view:    []catalog.Product{},
	}
	s.search = NewDebouncer(searchDebounce, s.applySearch)
	return s
}

// OnChange registers a callback fired after every recompute or load transition.
func (s *Session) OnChange(fn func(Snapshot)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Load fetches products and categories. On failure the session stays in
// StateFailed until Load is called again; there is no automatic retry.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.loadSeq++
	seq := s.loadSeq
	s.state = StateLoading
	s.err = nil
	s.mu.Unlock()
	s.notify()

	listing, err := s.catalog.LoadListing(ctx)

	s.mu.Lock()
	if s.closed || seq != s.loadSeq {
		// nobody is listening for this result anymore
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		logger.Error("listing: load failed", err)
		s.state = StateFailed
		s.err = err
		s.mu.Unlock()
		s.notify()
		return err
	}
	s.products = listing.Products
	s.categories = listing.Categories
	s.state = StateLoaded
	s.recomputeLocked()
	s.mu.Unlock()
	s.notify()
	return nil
}

// SetSearchText feeds the debouncer; the view only changes once typing pauses.
func (s *Session) SetSearchText(text string) {
	s.search.Push(text)
}

// FlushSearch applies a pending search immediately.
func (s *Session) FlushSearch() {
	s.search.Flush()
}

func (s *Session) applySearch(text string) {
	s.update(func(q *domain.QueryState) { q.SearchText = text })
}

func (s *Session) SetCategory(slug string) {
	s.update(func(q *domain.QueryState) { q.CategoryFilter = slug })
}

func (s *Session) SetPriceRange(r domain.PriceRange) {
	s.update(func(q *domain.QueryState) { q.PriceRange = r })
}

// ApplyFilters sets category and price together, as the filter sheet does.
func (s *Session) ApplyFilters(slug string, r domain.PriceRange) {
	s.update(func(q *domain.QueryState) {
		q.CategoryFilter = slug
		q.PriceRange = r
	})
}

func (s *Session) SetSort(key domain.SortKey, dir domain.SortDirection) {
	s.update(func(q *domain.QueryState) {
		q.SortKey = key
		q.SortDirection = dir
	})
}

func (s *Session) View() []catalog.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]catalog.Product(nil), s.view...)
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Close drops any pending search and ignores loads that finish afterwards.
func (s *Session) Close() {
	s.search.Stop()
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *Session) update(mutate func(q *domain.QueryState)) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	mutate(&s.query)
	s.recomputeLocked()
	s.mu.Unlock()
	s.notify()
}

func (s *Session) recomputeLocked() {
	if s.state != StateLoaded {
		s.view = []catalog.Product{}
		return
	}
	s.view = ComputeView(s.products, s.query)
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		State:             s.state,
		Err:               s.err,
		Query:             s.query,
		Products:          append([]catalog.Product(nil), s.view...),
		Categories:        append([]catalog.Category(nil), s.categories...),
		ActiveFilterCount: ActiveFilterCount(s.query),
	}
}

func (s *Session) notify() {
	s.mu.Lock()
	fn := s.onChange
	snap := s.snapshotLocked()
	s.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
}
