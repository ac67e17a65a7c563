package stub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ecotrack/console/internal/config"
	"github.com/ecotrack/console/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "test-token"

func newTestApp(t *testing.T) (*fiber.App, *MemoryStore) {
	t.Helper()
	cfg := &config.Config{
		StubToken:     testToken,
		UploadBaseURL: "http://localhost:8080/uploads",
	}
	store := NewMemoryStore()
	app := fiber.New()
	SetupRoutes(app, store, cfg)
	return app, store
}

func authedReq(method, target string, body any) *http.Request {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Authorization", "Bearer "+testToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func seedNews(t *testing.T, store *MemoryStore, n int, archiveEvery int) {
	t.Helper()
	for i := n; i >= 1; i-- {
		item := models.NewsItem{
			ID:        fmt.Sprintf("n%d", i),
			Title:     fmt.Sprintf("Notice %d", i),
			Content:   "content",
			Image:     "https://cdn.example/i.png",
			Category:  models.CategoryGeneral,
			Status:    models.StatusPublished,
			CreatedAt: time.Now().UTC(),
		}
		if archiveEvery > 0 && i%archiveEvery == 0 {
			item.IsArchived = true
		}
		require.NoError(t, store.SaveNews(context.Background(), item))
	}
}

func TestAuth_MissingAndInvalidToken(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/news", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "Missing bearer token", body["message"])

	req := httptest.NewRequest(http.MethodGet, "/api/news", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuth_LoginExemptAndHealthPublic(t *testing.T) {
	app, store := newTestApp(t)
	require.NoError(t, store.SaveUser(context.Background(), models.User{
		ID: "u1", Name: "Ana", Email: "ana@ecotrack.example", Role: models.RoleAdmin, IsActive: true,
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		bytes.NewReader([]byte(`{"email":"ana@ecotrack.example","password":"pw"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, testToken, body["token"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogin_Rejections(t *testing.T) {
	app, store := newTestApp(t)
	require.NoError(t, store.SaveUser(context.Background(), models.User{
		ID: "u2", Name: "Mia", Email: "mia@ecotrack.example", Role: models.RoleCustomer, IsActive: false,
	}))

	tests := []struct {
		name string
		body string
		want int
	}{
		{"unknown account", `{"email":"ghost@ecotrack.example","password":"pw"}`, http.StatusUnauthorized},
		{"inactive account", `{"email":"mia@ecotrack.example","password":"pw"}`, http.StatusUnauthorized},
		{"missing password", `{"email":"mia@ecotrack.example"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader([]byte(tt.body)))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

type newsPage struct {
	News       []models.NewsItem `json:"news"`
	Pagination struct {
		Page    int  `json:"page"`
		Limit   int  `json:"limit"`
		Total   int  `json:"total"`
		HasMore bool `json:"hasMore"`
	} `json:"pagination"`
}

func TestGetNews_PaginationAndArchiveDefault(t *testing.T) {
	app, store := newTestApp(t)
	seedNews(t, store, 25, 5) // n5, n10, n15, n20, n25 archived

	resp, err := app.Test(authedReq(http.MethodGet, "/api/news?page=1&limit=10", nil))
	require.NoError(t, err)
	page := decode[newsPage](t, resp)
	assert.Len(t, page.News, 10)
	assert.Equal(t, 20, page.Pagination.Total, "archived excluded by default")
	assert.True(t, page.Pagination.HasMore)

	resp, err = app.Test(authedReq(http.MethodGet, "/api/news?page=2&limit=10", nil))
	require.NoError(t, err)
	page = decode[newsPage](t, resp)
	assert.Len(t, page.News, 10)
	assert.False(t, page.Pagination.HasMore)

	resp, err = app.Test(authedReq(http.MethodGet, "/api/news?page=1&limit=10&includeArchived=true", nil))
	require.NoError(t, err)
	page = decode[newsPage](t, resp)
	assert.Equal(t, 25, page.Pagination.Total)

	// Out-of-range pages come back empty, not erroring.
	resp, err = app.Test(authedReq(http.MethodGet, "/api/news?page=9&limit=10", nil))
	require.NoError(t, err)
	page = decode[newsPage](t, resp)
	assert.Empty(t, page.News)
	assert.False(t, page.Pagination.HasMore)
}

func TestGetNews_StatusAndCategoryFilters(t *testing.T) {
	app, store := newTestApp(t)
	require.NoError(t, store.SaveNews(context.Background(), models.NewsItem{
		ID: "d1", Title: "Draft", Content: "c", Image: "i", Category: models.CategoryMaintenance, Status: models.StatusDraft,
	}))
	require.NoError(t, store.SaveNews(context.Background(), models.NewsItem{
		ID: "p1", Title: "Published", Content: "c", Image: "i", Category: models.CategoryBrownout, Status: models.StatusPublished,
	}))

	resp, err := app.Test(authedReq(http.MethodGet, "/api/news?status=draft", nil))
	require.NoError(t, err)
	page := decode[newsPage](t, resp)
	require.Len(t, page.News, 1)
	assert.Equal(t, "d1", page.News[0].ID)

	resp, err = app.Test(authedReq(http.MethodGet, "/api/news?category=brownout", nil))
	require.NoError(t, err)
	page = decode[newsPage](t, resp)
	require.Len(t, page.News, 1)
	assert.Equal(t, "p1", page.News[0].ID)
}

func TestCreateNews_AssignsIDAndAudits(t *testing.T) {
	app, store := newTestApp(t)

	resp, err := app.Test(authedReq(http.MethodPost, "/api/news", map[string]string{
		"title": "Planned outage", "content": "details", "image": "https://cdn.example/a.png",
		"category": "maintenance", "status": "published",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	item := decode[models.NewsItem](t, resp)
	assert.NotEmpty(t, item.ID)
	assert.False(t, item.CreatedAt.IsZero())
	assert.Equal(t, models.StatusPublished, item.Status)

	audit, err := store.ListAudit(context.Background())
	require.NoError(t, err)
	require.Len(t, audit, 1)
	assert.Equal(t, "news.create", audit[0].Action)
}

func TestCreateNews_ValidationFailure(t *testing.T) {
	app, _ := newTestApp(t)
	resp, err := app.Test(authedReq(http.MethodPost, "/api/news", map[string]string{
		"title": "", "content": "x", "image": "i", "category": "general",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestUpdateNews_StatusTransitionRules(t *testing.T) {
	app, store := newTestApp(t)
	require.NoError(t, store.SaveNews(context.Background(), models.NewsItem{
		ID: "d1", Title: "Draft", Content: "c", Image: "i", Category: models.CategoryGeneral, Status: models.StatusDraft,
	}))

	// draft -> published is the one allowed transition
	resp, err := app.Test(authedReq(http.MethodPut, "/api/news/d1", map[string]string{"status": "published"}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	item := decode[models.NewsItem](t, resp)
	assert.Equal(t, models.StatusPublished, item.Status)

	// published -> draft is rejected
	resp, err = app.Test(authedReq(http.MethodPut, "/api/news/d1", map[string]string{"status": "draft"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// unknown id
	resp, err = app.Test(authedReq(http.MethodPut, "/api/news/nope", map[string]string{"title": "x"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestArchiveNews_Toggle(t *testing.T) {
	app, store := newTestApp(t)
	require.NoError(t, store.SaveNews(context.Background(), models.NewsItem{
		ID: "p1", Title: "Live", Content: "c", Image: "i", Category: models.CategoryGeneral, Status: models.StatusPublished,
	}))

	resp, err := app.Test(authedReq(http.MethodPut, "/api/news/archive/p1", map[string]bool{"isArchived": true}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	item := decode[models.NewsItem](t, resp)
	assert.True(t, item.IsArchived)
	assert.Equal(t, models.StatusPublished, item.Status, "archive flag is independent of status")

	resp, err = app.Test(authedReq(http.MethodPut, "/api/news/archive/p1", map[string]bool{"isArchived": false}))
	require.NoError(t, err)
	item = decode[models.NewsItem](t, resp)
	assert.False(t, item.IsArchived)
}

func TestUploadImage_RoundTrip(t *testing.T) {
	app, _ := newTestApp(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "banner.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/news/upload-image", &buf)
	req.Header.Set("Authorization", "Bearer "+testToken)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	require.Contains(t, body["imageUrl"], "/uploads/")

	// The stored bytes are served back under the returned name.
	name := body["imageUrl"][bytes.LastIndexByte([]byte(body["imageUrl"]), '/')+1:]
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/uploads/"+name, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	served, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), served)
}

func TestUsersAndAuditEndpoints(t *testing.T) {
	app, store := newTestApp(t)
	require.NoError(t, Seed(context.Background(), store))

	resp, err := app.Test(authedReq(http.MethodGet, "/api/users?search=ana", nil))
	require.NoError(t, err)
	var usersPage struct {
		Users []models.User `json:"users"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&usersPage))
	require.Len(t, usersPage.Users, 1)
	userID := usersPage.Users[0].ID

	resp, err = app.Test(authedReq(http.MethodPut, "/api/users/status/"+userID, map[string]bool{"isActive": false}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user := decode[models.User](t, resp)
	assert.False(t, user.IsActive)

	resp, err = app.Test(authedReq(http.MethodGet, "/api/audit?limit=50", nil))
	require.NoError(t, err)
	var auditPage struct {
		Audit []models.AuditEntry `json:"audit"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&auditPage))
	assert.NotEmpty(t, auditPage.Audit)
	assert.Equal(t, "user.status", auditPage.Audit[0].Action, "mutations append audit rows, newest first")
}

func TestSeed_Idempotent(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, Seed(context.Background(), store))
	first, err := store.ListNews(context.Background())
	require.NoError(t, err)

	require.NoError(t, Seed(context.Background(), store))
	second, err := store.ListNews(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(first), len(second))
}
