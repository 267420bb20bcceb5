package pager

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ddanilov/daybook/internal/client/api"
	"github.com/ddanilov/daybook/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeEntries builds n entries with ids derived from prefix and offset.
func makeEntries(prefix string, offset, n int) []models.Entry {
	out := make([]models.Entry, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.Entry{ID: fmt.Sprintf("%s-%d", prefix, offset+i)})
	}
	return out
}

func TestPager_FullThenShortPage(t *testing.T) {
	// 17 entries total: a full page of 12, then a short page of 5
	var calls []api.ListOptions
	fetch := func(ctx context.Context, opts api.ListOptions) ([]models.Entry, error) {
		calls = append(calls, opts)
		remaining := 17 - opts.Offset
		if remaining > opts.Limit {
			remaining = opts.Limit
		}
		if remaining < 0 {
			remaining = 0
		}
		return makeEntries("e", opts.Offset, remaining), nil
	}

	p := New(fetch, 12)
	require.NoError(t, p.Reset(context.Background(), api.ListOptions{Query: "beach"}))

	assert.Len(t, p.Entries(), 12)
	assert.True(t, p.HasMore(), "a full page promises more")

	grew, err := p.LoadMore(context.Background())
	require.NoError(t, err)
	assert.True(t, grew)
	assert.Len(t, p.Entries(), 17)
	assert.False(t, p.HasMore(), "a short page ends the listing")

	// exhausted: no further fetch happens
	grew, err = p.LoadMore(context.Background())
	require.NoError(t, err)
	assert.False(t, grew)
	require.Len(t, calls, 2)

	assert.Equal(t, 0, calls[0].Offset)
	assert.Equal(t, 12, calls[1].Offset, "offset advances by entries received")
	assert.Equal(t, "beach", calls[1].Query, "filter sticks across pages")
}

func TestPager_ExactMultipleNeedsEmptyPage(t *testing.T) {
	// exactly 12 entries: the full first page still reports more, and only
	// the following empty page ends the listing
	fetch := func(ctx context.Context, opts api.ListOptions) ([]models.Entry, error) {
		remaining := 12 - opts.Offset
		if remaining < 0 {
			remaining = 0
		}
		if remaining > opts.Limit {
			remaining = opts.Limit
		}
		return makeEntries("e", opts.Offset, remaining), nil
	}

	p := New(fetch, 12)
	require.NoError(t, p.Reset(context.Background(), api.ListOptions{}))
	assert.True(t, p.HasMore())

	grew, err := p.LoadMore(context.Background())
	require.NoError(t, err)
	assert.False(t, grew)
	assert.False(t, p.HasMore())
	assert.Len(t, p.Entries(), 12)
}

func TestPager_StaleResetDiscarded(t *testing.T) {
	// the fetch for filter A triggers a reentrant Reset to filter B before
	// returning, simulating a slow response overtaken by a newer filter
	var p *Pager
	fetch := func(ctx context.Context, opts api.ListOptions) ([]models.Entry, error) {
		if opts.Query == "A" {
			require.NoError(t, p.Reset(ctx, api.ListOptions{Query: "B"}))
			return makeEntries("stale", 0, 12), nil
		}
		return makeEntries("fresh", 0, 3), nil
	}

	p = New(fetch, 12)
	require.NoError(t, p.Reset(context.Background(), api.ListOptions{Query: "A"}))

	entries := p.Entries()
	require.Len(t, entries, 3, "only the newer filter's page survives")
	assert.Equal(t, "fresh-0", entries[0].ID)
	assert.False(t, p.HasMore())
}

func TestPager_StaleLoadMoreDiscarded(t *testing.T) {
	var p *Pager
	reset := false
	fetch := func(ctx context.Context, opts api.ListOptions) ([]models.Entry, error) {
		if opts.Offset > 0 && !reset {
			reset = true
			require.NoError(t, p.Reset(ctx, api.ListOptions{Query: "new"}))
		}
		return makeEntries("p", opts.Offset, opts.Limit), nil
	}

	p = New(fetch, 12)
	require.NoError(t, p.Reset(context.Background(), api.ListOptions{}))

	grew, err := p.LoadMore(context.Background())
	require.NoError(t, err)
	assert.False(t, grew, "the superseded page reports no growth")
	assert.Len(t, p.Entries(), 12, "only the new generation's first page remains")
}

func TestPager_ResetErrorKeepsListingEmpty(t *testing.T) {
	fetch := func(ctx context.Context, opts api.ListOptions) ([]models.Entry, error) {
		return nil, errors.New("offline")
	}

	p := New(fetch, 12)
	err := p.Reset(context.Background(), api.ListOptions{})
	require.Error(t, err)
	assert.Empty(t, p.Entries())
}

func TestDebouncer_CoalescesCalls(t *testing.T) {
	fired := make(chan struct{}, 3)
	d := NewDebouncer(20 * time.Millisecond)

	for i := 0; i < 3; i++ {
		d.Trigger(func() { fired <- struct{}{} })
	}

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("debounced call never fired")
	}

	select {
	case <-fired:
		t.Fatal("more than one call fired")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDebouncer_Stop(t *testing.T) {
	fired := make(chan struct{}, 1)
	d := NewDebouncer(20 * time.Millisecond)

	d.Trigger(func() { fired <- struct{}{} })
	d.Stop()

	select {
	case <-fired:
		t.Fatal("stopped call fired")
	case <-time.After(100 * time.Millisecond):
	}
}
