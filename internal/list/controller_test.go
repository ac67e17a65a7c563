package list

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ecotrack/console/internal/api"
	"github.com/ecotrack/console/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newsItems(prefix string, n int) []models.NewsItem {
	items := make([]models.NewsItem, n)
	for i := range items {
		items[i] = models.NewsItem{
			ID:       fmt.Sprintf("%s-%d", prefix, i+1),
			Title:    fmt.Sprintf("%s title %d", prefix, i+1),
			Content:  "content",
			Category: models.CategoryGeneral,
			Status:   models.StatusPublished,
		}
	}
	return items
}

func staticFetch(page api.Page[models.NewsItem]) FetchFunc[models.NewsItem] {
	return func(ctx context.Context, p, limit int) (api.Page[models.NewsItem], error) {
		return page, nil
	}
}

func TestFetchPage_ReplaceVsAppend(t *testing.T) {
	c := NewController(10, staticFetch(api.Page[models.NewsItem]{Items: newsItems("a", 3), HasMore: true}), nil)

	c.FetchPage(context.Background(), 1, false)
	state := c.Snapshot()
	require.Len(t, state.Items, 3)
	assert.True(t, state.HasMore)
	assert.Equal(t, 1, state.Page)

	c.SetSource(staticFetch(api.Page[models.NewsItem]{Items: newsItems("b", 2), HasMore: false}), nil)
	c.FetchPage(context.Background(), 2, true)
	state = c.Snapshot()
	require.Len(t, state.Items, 5, "page>1 must append, never replace")
	assert.Equal(t, "a-1", state.Items[0].ID)
	assert.Equal(t, "b-2", state.Items[4].ID)
	assert.False(t, state.HasMore)
	assert.Equal(t, 2, state.Page)

	// A fresh page 1 replaces the accumulated list.
	c.FetchPage(context.Background(), 1, false)
	state = c.Snapshot()
	require.Len(t, state.Items, 2)
	assert.Equal(t, "b-1", state.Items[0].ID)
}

func TestFetchPage_Page1ClearsListImmediately(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	blocking := func(ctx context.Context, p, limit int) (api.Page[models.NewsItem], error) {
		close(started)
		<-release
		return api.Page[models.NewsItem]{Items: newsItems("new", 1)}, nil
	}

	c := NewController(10, staticFetch(api.Page[models.NewsItem]{Items: newsItems("old", 4), HasMore: true}), nil)
	c.FetchPage(context.Background(), 1, false)
	require.Len(t, c.Snapshot().Items, 4)

	c.SetSource(blocking, nil)
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.FetchPage(context.Background(), 1, false)
	}()

	<-started
	state := c.Snapshot()
	assert.Empty(t, state.Items, "stale rows must not show while page 1 is in flight")
	assert.True(t, state.Loading)
	assert.False(t, state.LoadingMore)

	close(release)
	<-done
	state = c.Snapshot()
	assert.Len(t, state.Items, 1)
	assert.False(t, state.Loading)
}

func TestFetchPage_FailureKeepsListAndStopsFlags(t *testing.T) {
	c := NewController(10, staticFetch(api.Page[models.NewsItem]{Items: newsItems("a", 2), HasMore: true}), nil)
	c.FetchPage(context.Background(), 1, false)

	c.SetSource(func(ctx context.Context, p, limit int) (api.Page[models.NewsItem], error) {
		return api.Page[models.NewsItem]{}, &api.APIError{StatusCode: 500, Message: "backend on fire"}
	}, nil)
	c.FetchPage(context.Background(), 2, true)

	state := c.Snapshot()
	assert.Len(t, state.Items, 2, "a failed fetch must not mutate the list")
	assert.Equal(t, "backend on fire", state.Err)
	assert.False(t, state.Loading)
	assert.False(t, state.LoadingMore)
	assert.Equal(t, 1, state.Page, "cursor must not advance on failure")

	// Non-API errors fall back to the generic banner text.
	c.SetSource(func(ctx context.Context, p, limit int) (api.Page[models.NewsItem], error) {
		return api.Page[models.NewsItem]{}, fmt.Errorf("connection reset")
	}, nil)
	c.FetchPage(context.Background(), 2, true)
	assert.Equal(t, fetchFailedMessage, c.Snapshot().Err)

	// A later success clears the banner.
	c.SetSource(staticFetch(api.Page[models.NewsItem]{Items: newsItems("b", 1)}), nil)
	c.FetchPage(context.Background(), 2, true)
	assert.Empty(t, c.Snapshot().Err)
}

func TestFetchPage_ClientSideRefilter(t *testing.T) {
	archived := models.NewsItem{ID: "arch", Title: "old", Content: "x", Status: models.StatusPublished, IsArchived: true}
	live := models.NewsItem{ID: "live", Title: "new", Content: "x", Status: models.StatusPublished}

	t.Run("archived pseudo-status keeps only archived", func(t *testing.T) {
		filter := models.FilterState{Category: models.CategoryAll, Status: models.StatusArchived}
		c := NewController(10, staticFetch(api.Page[models.NewsItem]{Items: []models.NewsItem{archived, live}}), KeepFunc[models.NewsItem](filter.Matches))
		c.FetchPage(context.Background(), 1, false)

		state := c.Snapshot()
		require.Len(t, state.Items, 1)
		assert.True(t, state.Items[0].IsArchived)
	})

	t.Run("concrete status drops archived", func(t *testing.T) {
		filter := models.FilterState{Category: models.CategoryAll, Status: models.StatusPublished}
		c := NewController(10, staticFetch(api.Page[models.NewsItem]{Items: []models.NewsItem{archived, live}}), KeepFunc[models.NewsItem](filter.Matches))
		c.FetchPage(context.Background(), 1, false)

		state := c.Snapshot()
		require.Len(t, state.Items, 1)
		assert.Equal(t, "live", state.Items[0].ID)
		assert.False(t, state.Items[0].IsArchived)
	})

	t.Run("search text applies locally", func(t *testing.T) {
		filter := models.FilterState{Category: models.CategoryAll, Status: models.StatusAll, SearchText: "OLD"}
		c := NewController(10, staticFetch(api.Page[models.NewsItem]{Items: []models.NewsItem{archived, live}}), KeepFunc[models.NewsItem](filter.Matches))
		c.FetchPage(context.Background(), 1, false)

		state := c.Snapshot()
		require.Len(t, state.Items, 1)
		assert.Equal(t, "arch", state.Items[0].ID)
	})
}

func TestResetAndFetch_DiscardsStaleResponse(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	slow := func(ctx context.Context, p, limit int) (api.Page[models.NewsItem], error) {
		close(started)
		<-release
		return api.Page[models.NewsItem]{Items: newsItems("stale", 5), HasMore: true}, nil
	}

	c := NewController(10, slow, nil)
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.FetchPage(context.Background(), 1, false)
	}()
	<-started

	// The user changes filters while the old page 1 is still in flight.
	c.SetSource(staticFetch(api.Page[models.NewsItem]{Items: newsItems("fresh", 2), HasMore: false}), nil)
	c.ResetAndFetch(context.Background())
	require.Len(t, c.Snapshot().Items, 2)

	// The abandoned response arrives late and must be dropped.
	close(release)
	<-done

	state := c.Snapshot()
	require.Len(t, state.Items, 2, "stale page 1 must not overwrite the newer one")
	assert.Equal(t, "fresh-1", state.Items[0].ID)
	assert.False(t, state.HasMore)
	assert.False(t, state.Loading)
}

func TestMaybeLoadMore_DebounceByFlag(t *testing.T) {
	var calls atomic.Int64
	started := make(chan struct{})
	release := make(chan struct{})

	c := NewController(10, staticFetch(api.Page[models.NewsItem]{Items: newsItems("a", 10), HasMore: true}), nil)
	c.FetchPage(context.Background(), 1, false)

	c.SetSource(func(ctx context.Context, p, limit int) (api.Page[models.NewsItem], error) {
		calls.Add(1)
		close(started)
		<-release
		return api.Page[models.NewsItem]{Items: newsItems("b", 10), HasMore: false}, nil
	}, nil)

	fired := make(chan bool, 1)
	go func() {
		fired <- c.MaybeLoadMore(context.Background())
	}()
	<-started

	// Second visibility event while the first continuation is in flight.
	assert.False(t, c.MaybeLoadMore(context.Background()))

	close(release)
	select {
	case ok := <-fired:
		assert.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("load-more never completed")
	}

	assert.Equal(t, int64(1), calls.Load(), "exactly one fetchPage(2, append) call")
	state := c.Snapshot()
	assert.Len(t, state.Items, 20)
	assert.Equal(t, 2, state.Page)

	// hasMore=false now; further visibility events are no-ops.
	assert.False(t, c.MaybeLoadMore(context.Background()))
	assert.Equal(t, int64(1), calls.Load())
}

func TestMaybeLoadMore_NoopWhilePage1Loading(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	c := NewController(10, func(ctx context.Context, p, limit int) (api.Page[models.NewsItem], error) {
		close(started)
		<-release
		return api.Page[models.NewsItem]{Items: newsItems("a", 1), HasMore: true}, nil
	}, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.FetchPage(context.Background(), 1, false)
	}()
	<-started
	assert.False(t, c.MaybeLoadMore(context.Background()))
	close(release)
	<-done
}
