package api

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ecotrack/console/internal/models"
)

// Login exchanges credentials for a bearer token and stores it on the
// session, so subsequent calls authenticate immediately.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var result struct {
		Token string `json:"token"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&result).
		Post("/api/auth/login")
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if resp.IsError() {
		return errorFrom(resp)
	}
	if result.Token == "" {
		return fmt.Errorf("login response missing token")
	}
	c.session.SetToken(result.Token)
	return nil
}

// Logout tears the session down. Purely client-side; the API has no
// session invalidation endpoint.
func (c *Client) Logout() {
	c.session.Clear()
}

// ListUsers fetches one page of console accounts, optionally narrowed
// by a search string matched server-side against name and email.
func (c *Client) ListUsers(ctx context.Context, page, limit int, search string) (Page[models.User], error) {
	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("page", strconv.Itoa(page)).
		SetQueryParam("limit", strconv.Itoa(limit))
	if search != "" {
		req.SetQueryParam("search", search)
	}

	resp, err := req.Get("/api/users")
	if err != nil {
		return Page[models.User]{}, fmt.Errorf("failed to fetch users: %w", err)
	}
	if resp.IsError() {
		return Page[models.User]{}, errorFrom(resp)
	}

	return normalizePage[models.User](resp.Body(), "users")
}

// SetUserActive toggles an account between active and disabled.
func (c *Client) SetUserActive(ctx context.Context, id string, active bool) (models.User, error) {
	var updated models.User
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]bool{"isActive": active}).
		SetResult(&updated).
		Put("/api/users/status/" + id)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to update user status: %w", err)
	}
	if resp.IsError() {
		return models.User{}, errorFrom(resp)
	}
	return updated, nil
}

// ListAudit fetches one page of the activity log.
func (c *Client) ListAudit(ctx context.Context, page, limit int, search string) (Page[models.AuditEntry], error) {
	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("page", strconv.Itoa(page)).
		SetQueryParam("limit", strconv.Itoa(limit))
	if search != "" {
		req.SetQueryParam("search", search)
	}

	resp, err := req.Get("/api/audit")
	if err != nil {
		return Page[models.AuditEntry]{}, fmt.Errorf("failed to fetch audit log: %w", err)
	}
	if resp.IsError() {
		return Page[models.AuditEntry]{}, errorFrom(resp)
	}

	return normalizePage[models.AuditEntry](resp.Body(), "audit")
}
