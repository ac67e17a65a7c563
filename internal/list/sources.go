package list

import (
	"context"
	"strings"

	"github.com/ecotrack/console/internal/api"
	"github.com/ecotrack/console/internal/models"
)

// NewsSource builds the fetch/keep pair for the news screen under one
// filter state. The keep side reconciles the pseudo-statuses and the
// search text that the server cannot filter on.
func NewsSource(client *api.Client, filter models.FilterState) (FetchFunc[models.NewsItem], KeepFunc[models.NewsItem]) {
	fetch := func(ctx context.Context, page, limit int) (api.Page[models.NewsItem], error) {
		return client.ListNews(ctx, page, limit, filter)
	}
	return fetch, filter.Matches
}

// UserSource builds the fetch/keep pair for the user management screen.
// Search runs server-side; the local re-check keeps the list coherent
// when a page was fetched before the search text changed.
func UserSource(client *api.Client, search string) (FetchFunc[models.User], KeepFunc[models.User]) {
	fetch := func(ctx context.Context, page, limit int) (api.Page[models.User], error) {
		return client.ListUsers(ctx, page, limit, search)
	}
	keep := func(u models.User) bool {
		if search == "" {
			return true
		}
		needle := strings.ToLower(search)
		return strings.Contains(strings.ToLower(u.Name), needle) ||
			strings.Contains(strings.ToLower(u.Email), needle)
	}
	return fetch, keep
}

// AuditSource builds the fetch/keep pair for the activity log viewer.
func AuditSource(client *api.Client, search string) (FetchFunc[models.AuditEntry], KeepFunc[models.AuditEntry]) {
	fetch := func(ctx context.Context, page, limit int) (api.Page[models.AuditEntry], error) {
		return client.ListAudit(ctx, page, limit, search)
	}
	keep := func(e models.AuditEntry) bool {
		if search == "" {
			return true
		}
		needle := strings.ToLower(search)
		return strings.Contains(strings.ToLower(e.Actor), needle) ||
			strings.Contains(strings.ToLower(e.Action), needle) ||
			strings.Contains(strings.ToLower(e.Entity), needle)
	}
	return fetch, keep
}
