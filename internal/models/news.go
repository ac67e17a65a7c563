package models

import (
	"strings"
	"time"
)

// Category classifies a news announcement.
type Category string

const (
	CategoryGeneral     Category = "general"
	CategoryMaintenance Category = "maintenance"
	CategoryBrownout    Category = "brownout"

	// CategoryAll is a filter value only, never stored on an item.
	CategoryAll Category = "all"
)

// Status is the publication state of a news item.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"

	// StatusAll and StatusArchived are pseudo-statuses: filter values that do
	// not correspond 1:1 to the server's status field. "archived" selects by
	// the independent isArchived flag regardless of status.
	StatusAll      Status = "all"
	StatusArchived Status = "archived"
)

// NewsItem represents a single announcement shown on the news screen.
// The server assigns ID and CreatedAt; both are immutable afterwards.
// IsArchived and Status are independent axes: an item can be
// draft-and-archived or published-and-archived.
type NewsItem struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Image      string    `json:"image"`
	Category   Category  `json:"category"`
	Status     Status    `json:"status"`
	IsArchived bool      `json:"isArchived"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Badge returns the label rendered next to an item. IsArchived wins over
// Status: an archived draft and an archived published item both read
// "archived".
func (n NewsItem) Badge() string {
	if n.IsArchived {
		return string(StatusArchived)
	}
	return string(n.Status)
}

// FilterState drives both the server query and the client-side re-filter
// of the news list. Changing any field resets the page cursor.
type FilterState struct {
	SearchText string
	Category   Category
	Status     Status
}

// DefaultFilter is the state the news screen opens with.
func DefaultFilter() FilterState {
	return FilterState{Category: CategoryAll, Status: StatusAll}
}

// Matches reports whether an item survives client-side re-filtering.
// The server cannot express the "archived" and "all" pseudo-statuses, so
// after every page the client must reconcile IsArchived against the
// requested status and apply the search text locally.
func (f FilterState) Matches(n NewsItem) bool {
	switch f.Status {
	case StatusAll, "":
		// keep both archived and live items
	case StatusArchived:
		if !n.IsArchived {
			return false
		}
	default:
		if n.IsArchived || n.Status != f.Status {
			return false
		}
	}

	if f.Category != "" && f.Category != CategoryAll && n.Category != f.Category {
		return false
	}

	if f.SearchText != "" {
		needle := strings.ToLower(f.SearchText)
		if !strings.Contains(strings.ToLower(n.Title), needle) &&
			!strings.Contains(strings.ToLower(n.Content), needle) {
			return false
		}
	}

	return true
}
