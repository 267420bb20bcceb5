// Package pager implements the incremental listing protocol used by the
// CLI: fixed-size pages fetched on demand, with stale responses from a
// superseded filter discarded.
package pager

import (
	"context"
	"sync"

	"github.com/ddanilov/daybook/internal/client/api"
	"github.com/ddanilov/daybook/internal/client/models"
)

// DefaultPageSize matches the original page length of the journal views.
const DefaultPageSize = 12

// Fetcher loads one page of entries.
type Fetcher func(ctx context.Context, opts api.ListOptions) ([]models.Entry, error)

// Pager accumulates pages for the current filter. Reset starts a new
// listing generation; results belonging to an older generation are thrown
// away when they arrive, so a late response can never clobber a newer
// filter's view.
type Pager struct {
	mu sync.Mutex

	fetch    Fetcher
	pageSize int

	opts       api.ListOptions
	entries    []models.Entry
	offset     int
	hasMore    bool
	loading    bool
	generation uint64
}

func New(fetch Fetcher, pageSize int) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pager{fetch: fetch, pageSize: pageSize, hasMore: true}
}

// Reset discards accumulated state, installs the filter and loads the
// first page. A Reset supersedes any load still in flight.
func (p *Pager) Reset(ctx context.Context, opts api.ListOptions) error {
	p.mu.Lock()
	p.generation++
	gen := p.generation
	p.opts = opts
	p.entries = nil
	p.offset = 0
	p.hasMore = true
	p.loading = true

	fetchOpts := opts
	fetchOpts.Offset = 0
	fetchOpts.Limit = p.pageSize
	p.mu.Unlock()

	page, err := p.fetch(ctx, fetchOpts)

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.generation {
		// a newer Reset owns the state now
		return nil
	}
	p.loading = false
	if err != nil {
		return err
	}

	p.entries = page
	p.offset = len(page)
	p.hasMore = len(page) == p.pageSize
	return nil
}

// LoadMore appends the next page and reports whether new entries arrived.
// Once a short page has been seen, further calls are no-ops.
func (p *Pager) LoadMore(ctx context.Context) (bool, error) {
	p.mu.Lock()
	if !p.hasMore || p.loading {
		p.mu.Unlock()
		return false, nil
	}
	gen := p.generation
	p.loading = true

	fetchOpts := p.opts
	fetchOpts.Offset = p.offset
	fetchOpts.Limit = p.pageSize
	p.mu.Unlock()

	page, err := p.fetch(ctx, fetchOpts)

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.generation {
		return false, nil
	}
	p.loading = false
	if err != nil {
		return false, err
	}

	p.entries = append(p.entries, page...)
	p.offset += len(page)
	p.hasMore = len(page) == p.pageSize
	return len(page) > 0, nil
}

// Entries returns the accumulated view in arrival order.
func (p *Pager) Entries() []models.Entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// HasMore reports whether another LoadMore could yield entries.
func (p *Pager) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}
