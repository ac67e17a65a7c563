package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ecotrack/console/internal/models"
)

// NewsInput is the writable field set for create and update calls.
type NewsInput struct {
	Title    string          `json:"title"`
	Content  string          `json:"content"`
	Image    string          `json:"image"`
	Category models.Category `json:"category"`
	Status   models.Status   `json:"status"`
}

// ListNews fetches one page of news under the given filter.
//
// Query parameter mapping: category is omitted when "all". The status
// pseudo-values cannot be expressed server-side, so "archived" and
// "all" both request includeArchived=true with no status param and rely
// on the caller's client-side re-filter; a concrete status is passed
// through and the server excludes archived items by default.
func (c *Client) ListNews(ctx context.Context, page, limit int, filter models.FilterState) (Page[models.NewsItem], error) {
	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("page", strconv.Itoa(page)).
		SetQueryParam("limit", strconv.Itoa(limit))

	if filter.Category != "" && filter.Category != models.CategoryAll {
		req.SetQueryParam("category", string(filter.Category))
	}

	switch filter.Status {
	case models.StatusArchived, models.StatusAll, "":
		req.SetQueryParam("includeArchived", "true")
	default:
		req.SetQueryParam("status", string(filter.Status))
	}

	resp, err := req.Get("/api/news")
	if err != nil {
		return Page[models.NewsItem]{}, fmt.Errorf("failed to fetch news: %w", err)
	}
	if resp.IsError() {
		return Page[models.NewsItem]{}, errorFrom(resp)
	}

	return normalizePage[models.NewsItem](resp.Body(), "news")
}

// CreateNews submits a new item; input.Status decides draft vs published.
func (c *Client) CreateNews(ctx context.Context, input NewsInput) (models.NewsItem, error) {
	var created models.NewsItem
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(input).
		SetResult(&created).
		Post("/api/news")
	if err != nil {
		return models.NewsItem{}, fmt.Errorf("failed to create news: %w", err)
	}
	if resp.IsError() {
		return models.NewsItem{}, errorFrom(resp)
	}
	return created, nil
}

// UpdateNews resubmits the full field set for an existing item.
func (c *Client) UpdateNews(ctx context.Context, id string, input NewsInput) (models.NewsItem, error) {
	var updated models.NewsItem
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(input).
		SetResult(&updated).
		Put("/api/news/" + id)
	if err != nil {
		return models.NewsItem{}, fmt.Errorf("failed to update news: %w", err)
	}
	if resp.IsError() {
		return models.NewsItem{}, errorFrom(resp)
	}
	return updated, nil
}

// PublishNews issues the status-only draft to published transition.
func (c *Client) PublishNews(ctx context.Context, id string) (models.NewsItem, error) {
	var updated models.NewsItem
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]models.Status{"status": models.StatusPublished}).
		SetResult(&updated).
		Put("/api/news/" + id)
	if err != nil {
		return models.NewsItem{}, fmt.Errorf("failed to publish news: %w", err)
	}
	if resp.IsError() {
		return models.NewsItem{}, errorFrom(resp)
	}
	return updated, nil
}

// SetArchived flips the archive flag, independent of status.
func (c *Client) SetArchived(ctx context.Context, id string, archived bool) (models.NewsItem, error) {
	var updated models.NewsItem
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]bool{"isArchived": archived}).
		SetResult(&updated).
		Put("/api/news/archive/" + id)
	if err != nil {
		return models.NewsItem{}, fmt.Errorf("failed to toggle archive: %w", err)
	}
	if resp.IsError() {
		return models.NewsItem{}, errorFrom(resp)
	}
	return updated, nil
}

// UploadImage sends raw image bytes as the multipart field "image" and
// returns the canonical URL the item must reference instead of the
// embedded payload.
func (c *Client) UploadImage(ctx context.Context, filename string, data []byte) (string, error) {
	var result struct {
		ImageURL string `json:"imageUrl"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("image", filename, strings.NewReader(string(data))).
		SetResult(&result).
		Post("/api/news/upload-image")
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	if resp.IsError() {
		return "", errorFrom(resp)
	}
	if result.ImageURL == "" {
		// Guard against a malformed body on a 2xx response.
		var probe map[string]json.RawMessage
		if jsonErr := json.Unmarshal(resp.Body(), &probe); jsonErr != nil {
			return "", fmt.Errorf("unexpected upload response: %w", jsonErr)
		}
		return "", fmt.Errorf("upload response missing imageUrl")
	}
	return result.ImageURL, nil
}

// DecodeDataURI extracts the raw bytes from a data: URI image payload.
// The form uses this to upload embedded payloads before submitting.
func DecodeDataURI(uri string) ([]byte, bool) {
	if !strings.HasPrefix(uri, "data:") {
		return nil, false
	}
	idx := strings.Index(uri, ",")
	if idx < 0 {
		return nil, false
	}
	meta, payload := uri[5:idx], uri[idx+1:]
	if strings.HasSuffix(meta, ";base64") {
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, false
		}
		return decoded, true
	}
	return []byte(payload), true
}
