package list

import (
	"context"
	"errors"
	"sync"

	"github.com/ecotrack/console/internal/api"
)

// fetchFailedMessage is the page-level fallback when the server gives
// no usable error message.
const fetchFailedMessage = "Could not load data. Please try again."

// FetchFunc loads one page from the API under whatever filter the
// screen currently holds.
type FetchFunc[T any] func(ctx context.Context, page, limit int) (api.Page[T], error)

// KeepFunc is the client-side re-filter applied to every fetched page.
// The "archived" and "all" pseudo-statuses are not native server
// filters, so pages must be reconciled locally even though the server
// already filtered.
type KeepFunc[T any] func(T) bool

// Controller owns the accumulated rows, the page cursor and the
// loading/error flags for one list screen. It is safe for concurrent
// use; fetches run on the caller's goroutine and only lock around
// state transitions.
type Controller[T any] struct {
	mu sync.Mutex

	fetch FetchFunc[T]
	keep  KeepFunc[T]
	limit int

	items       []T
	page        int
	hasMore     bool
	loading     bool // page-1 fetch in flight
	loadingMore bool // continuation fetch in flight
	errMsg      string

	// generation counts filter resets. Every fetch captures the value
	// at start; a response carrying a stale generation arrived after a
	// newer reset and is discarded wholesale, so an old page 1 can
	// never overwrite a newer one.
	generation uint64
}

// State is a render-ready snapshot of the controller.
type State[T any] struct {
	Items       []T
	Page        int
	HasMore     bool
	Loading     bool
	LoadingMore bool
	Err         string
}

// NewController creates a controller with an empty list and a cursor at
// {1, true}.
func NewController[T any](limit int, fetch FetchFunc[T], keep KeepFunc[T]) *Controller[T] {
	return &Controller[T]{
		fetch:   fetch,
		keep:    keep,
		limit:   limit,
		page:    1,
		hasMore: true,
	}
}

// SetSource swaps the fetch/keep pair when the screen's filter changes.
// Callers follow up with ResetAndFetch; the swap alone does not touch
// the list.
func (c *Controller[T]) SetSource(fetch FetchFunc[T], keep KeepFunc[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetch = fetch
	c.keep = keep
}

// Snapshot returns a copy of the current state for rendering.
func (c *Controller[T]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]T, len(c.items))
	copy(items, c.items)
	return State[T]{
		Items:       items,
		Page:        c.page,
		HasMore:     c.hasMore,
		Loading:     c.loading,
		LoadingMore: c.loadingMore,
		Err:         c.errMsg,
	}
}

// ResetAndFetch resets the cursor to {1, true}, invalidates any fetch
// still in flight, and loads page 1 under the current source.
func (c *Controller[T]) ResetAndFetch(ctx context.Context) {
	c.mu.Lock()
	c.generation++
	c.page = 1
	c.hasMore = true
	c.mu.Unlock()

	c.FetchPage(ctx, 1, false)
}

// MaybeLoadMore advances the cursor by exactly one page when the last
// row has become visible. Debounced by flag, not by timer: it is a
// no-op while any fetch is in flight or when the server reported no
// further pages. Returns whether a fetch was issued.
func (c *Controller[T]) MaybeLoadMore(ctx context.Context) bool {
	c.mu.Lock()
	if !c.hasMore || c.loading || c.loadingMore {
		c.mu.Unlock()
		return false
	}
	next := c.page + 1
	c.mu.Unlock()

	c.FetchPage(ctx, next, true)
	return true
}

// FetchPage loads one page. A page-1 fetch clears the visible list
// immediately so stale rows never show under new filters; a
// continuation appends and leaves the list visible.
func (c *Controller[T]) FetchPage(ctx context.Context, page int, appendMode bool) {
	c.mu.Lock()
	gen := c.generation
	if appendMode {
		c.loadingMore = true
	} else {
		c.loading = true
		c.items = nil
	}
	fetch := c.fetch
	keep := c.keep
	limit := c.limit
	c.mu.Unlock()

	result, err := fetch(ctx, page, limit)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		// Superseded by a newer reset; the newer fetch owns the flags
		// and the list now.
		return
	}

	if appendMode {
		c.loadingMore = false
	} else {
		c.loading = false
	}

	if err != nil {
		c.errMsg = errorMessage(err)
		return
	}

	kept := make([]T, 0, len(result.Items))
	for _, item := range result.Items {
		if keep == nil || keep(item) {
			kept = append(kept, item)
		}
	}

	c.errMsg = ""
	c.hasMore = result.HasMore
	c.page = page
	if appendMode {
		c.items = append(c.items, kept...)
	} else {
		c.items = kept
	}
}

// errorMessage reduces a fetch error to the single string shown as the
// page banner, preferring what the server said.
func errorMessage(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return fetchFailedMessage
}
