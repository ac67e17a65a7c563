package api

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ecotrack/console/internal/auth"
	"github.com/ecotrack/console/internal/config"
	"github.com/go-resty/resty/v2"
)

// genericMessage is shown when the server gives no usable error body.
const genericMessage = "Something went wrong. Please try again."

// Client wraps the EcoTrack REST API. Every request carries the bearer
// token read from the session at call time, so login and logout take
// effect without rebuilding the client.
type Client struct {
	http    *resty.Client
	session *auth.Session
}

// New creates an API client bound to the configured base URL.
func New(cfg *config.Config, session *auth.Session) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.APIBaseURL).
		SetTimeout(cfg.HTTPTimeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(2 * time.Second).
		SetRetryMaxWaitTime(10 * time.Second).
		SetHeader("Accept", "application/json")

	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		// A missing token is not pre-validated; the server's 401 is
		// surfaced like any other request error.
		if token := session.Token(); token != "" {
			req.SetAuthToken(token)
		}
		return nil
	})

	return &Client{http: httpClient, session: session}
}

// Session returns the auth session the client reads tokens from.
func (c *Client) Session() *auth.Session {
	return c.session
}

// APIError is a request failure reduced to the one human-readable
// message shown next to the triggering control.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// errorFrom maps a non-2xx response to an APIError, preferring the
// server-provided message field over the generic fallback.
func errorFrom(resp *resty.Response) error {
	msg := genericMessage
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		switch {
		case body.Message != "":
			msg = body.Message
		case body.Error != "":
			msg = body.Error
		}
	}
	return &APIError{StatusCode: resp.StatusCode(), Message: msg}
}

// Page is the normalized list response. The API answers either
// {<key>: [...], pagination: {...}} or a bare array; that variance is
// resolved here so callers never see the transport shape.
type Page[T any] struct {
	Items   []T
	HasMore bool
}

type pagination struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasMore bool `json:"hasMore"`
}

// normalizePage parses both list response shapes. Absent pagination
// metadata always means HasMore=false, even for a non-empty page.
func normalizePage[T any](body []byte, key string) (Page[T], error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err == nil {
		itemsRaw, ok := raw[key]
		if !ok {
			return Page[T]{}, fmt.Errorf("response missing %q field", key)
		}
		var items []T
		if err := json.Unmarshal(itemsRaw, &items); err != nil {
			return Page[T]{}, fmt.Errorf("failed to parse %s list: %w", key, err)
		}
		page := Page[T]{Items: items}
		if pgRaw, ok := raw["pagination"]; ok {
			var pg pagination
			if err := json.Unmarshal(pgRaw, &pg); err == nil {
				page.HasMore = pg.HasMore
			}
		}
		return page, nil
	}

	// Bare array shape, no pagination metadata.
	var items []T
	if err := json.Unmarshal(body, &items); err != nil {
		return Page[T]{}, fmt.Errorf("failed to parse %s response: %w", key, err)
	}
	return Page[T]{Items: items}, nil
}
