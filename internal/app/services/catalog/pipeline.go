package catalog

import (
	"context"
	"sync"

	"github.com/arrondavide/psite/internal/app/domain/game"
	"github.com/arrondavide/psite/internal/app/domain/product"
	"github.com/arrondavide/psite/internal/app/storage"
	"github.com/arrondavide/psite/pkg/logger"
)

// Pipeline drives one browse surface: load from the store, filter in memory,
// page the filtered list. All mutations replace whole values, so a single
// mutex is enough.
type Pipeline[T any] struct {
	fetch    func(ctx context.Context) ([]T, error)
	match    func(Filters, T) bool
	pageSize int
	log      *logger.Logger

	// onPageChange signals the scroll-to-top side effect after navigation.
	onPageChange func(page int)

	mu       sync.Mutex
	items    []T
	filtered []T
	filters  Filters
	page     int
}

// NewPipeline builds a pipeline over fetch and match. pageSize defaults to
// DefaultPageSize when non-positive.
func NewPipeline[T any](fetch func(ctx context.Context) ([]T, error), match func(Filters, T) bool, pageSize int, log *logger.Logger) *Pipeline[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if log == nil {
		log = logger.NewDefault("catalog")
	}
	return &Pipeline[T]{
		fetch:    fetch,
		match:    match,
		pageSize: pageSize,
		log:      log,
		page:     1,
	}
}

// OnPageChange registers the scroll side-effect hook.
func (p *Pipeline[T]) OnPageChange(fn func(page int)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onPageChange = fn
}

// Load fetches the full list. On success it replaces the in-memory list and
// resets to page 1; on failure the previous list stays untouched and the
// error is returned for the caller to surface.
func (p *Pipeline[T]) Load(ctx context.Context) error {
	items, err := p.fetch(ctx)
	if err != nil {
		p.log.WithError(err).Warn("catalog load failed; keeping previous list")
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = items
	p.applyLocked()
	return nil
}

// SetFilters replaces the filter inputs, recomputes the filtered list and
// resets to page 1.
func (p *Pipeline[T]) SetFilters(f Filters) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filters = f
	p.applyLocked()
}

// Filters returns the current filter inputs.
func (p *Pipeline[T]) Filters() Filters {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filters
}

// Page returns the current page window and its pagination state.
func (p *Pipeline[T]) Page() ([]T, PageInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()

	items := pageSlice(p.filtered, p.page, p.pageSize)
	return append([]T(nil), items...), pageInfo(len(p.filtered), p.page, p.pageSize)
}

// GoTo navigates to page n. Out-of-range requests are ignored, since the UI
// only enables in-range controls. In-range navigation fires the page-change
// hook.
func (p *Pipeline[T]) GoTo(n int) {
	p.mu.Lock()
	if n < 1 || n > totalPages(len(p.filtered), p.pageSize) {
		p.mu.Unlock()
		return
	}
	p.page = n
	hook := p.onPageChange
	p.mu.Unlock()

	if hook != nil {
		hook(n)
	}
}

// Next advances one page if the next control is enabled.
func (p *Pipeline[T]) Next() {
	p.mu.Lock()
	n := p.page + 1
	p.mu.Unlock()
	p.GoTo(n)
}

// Prev steps back one page if the previous control is enabled.
func (p *Pipeline[T]) Prev() {
	p.mu.Lock()
	n := p.page - 1
	p.mu.Unlock()
	p.GoTo(n)
}

// FilteredLen returns the size of the filtered list.
func (p *Pipeline[T]) FilteredLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.filtered)
}

func (p *Pipeline[T]) applyLocked() {
	filtered := make([]T, 0, len(p.items))
	for _, it := range p.items {
		if p.match(p.filters, it) {
			filtered = append(filtered, it)
		}
	}
	p.filtered = filtered
	p.page = 1
}

// =============================================================================
// Concrete surfaces
// =============================================================================

// Games is the browse pipeline for the games page plus its trending strip.
type Games struct {
	*Pipeline[game.Game]
	store storage.GameStore
}

// NewGames builds the games browse surface.
func NewGames(store storage.GameStore, pageSize int, log *logger.Logger) *Games {
	return &Games{
		Pipeline: NewPipeline(store.ListGames, Filters.MatchGame, pageSize, log),
		store:    store,
	}
}

// TrendingLimit is how many spotlight games the portal shows.
const TrendingLimit = 3

// Trending returns the newest trending games for the spotlight strip.
func (g *Games) Trending(ctx context.Context) ([]game.Game, error) {
	return g.store.TrendingGames(ctx, TrendingLimit)
}

// ByOwner returns the games a wallet has uploaded, for the management view.
func (g *Games) ByOwner(ctx context.Context, wallet string) ([]game.Game, error) {
	return g.store.ListGamesByOwner(ctx, wallet)
}

// Products is the browse pipeline for the shop.
type Products struct {
	*Pipeline[product.Product]
	store storage.ProductStore
}

// NewProducts builds the shop browse surface.
func NewProducts(store storage.ProductStore, pageSize int, log *logger.Logger) *Products {
	return &Products{
		Pipeline: NewPipeline(store.ListProducts, Filters.MatchProduct, pageSize, log),
		store:    store,
	}
}

// BySeller returns the connected seller's own listings for the management
// view.
func (p *Products) BySeller(ctx context.Context, wallet string) ([]product.Product, error) {
	return p.store.ListProductsBySeller(ctx, wallet)
}
