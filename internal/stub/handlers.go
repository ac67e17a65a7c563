package stub

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ecotrack/console/internal/config"
	"github.com/ecotrack/console/internal/logger"
	"github.com/ecotrack/console/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	config   *config.Config
	store    Store
	validate *validator.Validate

	uploadsMu sync.RWMutex
	uploads   map[string][]byte
}

func NewHandlers(cfg *config.Config, store Store) *Handlers {
	return &Handlers{
		config:   cfg,
		store:    store,
		validate: validator.New(),
		uploads:  make(map[string][]byte),
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": "1.0.0",
		"time":    time.Now().Format(time.RFC3339),
	})
}

// paging parses and clamps the shared page/limit query parameters.
func paging(c *fiber.Ctx) (page, limit int) {
	page, _ = strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}

	limit, _ = strconv.Atoi(c.Query("limit", "10"))
	switch {
	case limit > 100:
		limit = 100
	case limit <= 0:
		limit = 10
	}
	return page, limit
}

// slicePage cuts one page out of the filtered set and reports whether
// more pages remain.
func slicePage[T any](items []T, page, limit int) (pageItems []T, hasMore bool) {
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}, false
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], end < len(items)
}

func pageResponse[T any](key string, items []T, page, limit, total int, hasMore bool) fiber.Map {
	return fiber.Map{
		key: items,
		"pagination": fiber.Map{
			"page":    page,
			"limit":   limit,
			"total":   total,
			"hasMore": hasMore,
		},
	}
}

// GetNews handles GET /api/news. Archived items are excluded unless
// includeArchived=true, matching the behavior the console relies on
// when it requests a concrete status.
func (h *Handlers) GetNews(c *fiber.Ctx) error {
	page, limit := paging(c)
	category := c.Query("category")
	status := c.Query("status")
	includeArchived := c.Query("includeArchived") == "true"

	all, err := h.store.ListNews(c.Context())
	if err != nil {
		logger.Get().Error().Err(err).Msg("Error listing news")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to get news",
		})
	}

	filtered := make([]models.NewsItem, 0, len(all))
	for _, item := range all {
		if !includeArchived && item.IsArchived {
			continue
		}
		if category != "" && string(item.Category) != category {
			continue
		}
		if status != "" && string(item.Status) != status {
			continue
		}
		filtered = append(filtered, item)
	}

	pageItems, hasMore := slicePage(filtered, page, limit)
	return c.JSON(pageResponse("news", pageItems, page, limit, len(filtered), hasMore))
}

type newsRequest struct {
	Title    string          `json:"title" validate:"required"`
	Content  string          `json:"content" validate:"required"`
	Image    string          `json:"image" validate:"required"`
	Category models.Category `json:"category" validate:"required,oneof=general maintenance brownout"`
	Status   models.Status   `json:"status" validate:"omitempty,oneof=draft published"`
}

// CreateNews handles POST /api/news
func (h *Handlers) CreateNews(c *fiber.Ctx) error {
	var req newsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "Validation failed: " + err.Error(),
		})
	}

	item := models.NewsItem{
		ID:        uuid.NewString(),
		Title:     req.Title,
		Content:   req.Content,
		Image:     req.Image,
		Category:  req.Category,
		Status:    req.Status,
		CreatedAt: time.Now().UTC(),
	}
	if item.Status == "" {
		item.Status = models.StatusDraft
	}

	if err := h.store.SaveNews(c.Context(), item); err != nil {
		logger.Get().Error().Err(err).Msg("Error saving news")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to save news",
		})
	}

	h.audit(c, "news.create", "news/"+item.ID, item.Title)
	return c.Status(fiber.StatusCreated).JSON(item)
}

type newsUpdate struct {
	Title    *string          `json:"title"`
	Content  *string          `json:"content"`
	Image    *string          `json:"image"`
	Category *models.Category `json:"category"`
	Status   *models.Status   `json:"status"`
}

// UpdateNews handles PUT /api/news/:id. Accepts any subset of the
// writable fields; the only status transition allowed is draft to
// published.
func (h *Handlers) UpdateNews(c *fiber.Ctx) error {
	id := c.Params("id")
	item, err := h.store.GetNews(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "News not found",
		})
	}

	var req newsUpdate
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if req.Status != nil && *req.Status != item.Status {
		if item.Status != models.StatusDraft || *req.Status != models.StatusPublished {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message": "Only a draft can transition to published",
			})
		}
		item.Status = *req.Status
	}
	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Content != nil {
		item.Content = *req.Content
	}
	if req.Image != nil {
		item.Image = *req.Image
	}
	if req.Category != nil {
		item.Category = *req.Category
	}

	if err := h.store.SaveNews(c.Context(), item); err != nil {
		logger.Get().Error().Err(err).Str("id", id).Msg("Error updating news")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to update news",
		})
	}

	h.audit(c, "news.update", "news/"+item.ID, item.Title)
	return c.JSON(item)
}

// ArchiveNews handles PUT /api/news/archive/:id, flipping the flag
// independently of status.
func (h *Handlers) ArchiveNews(c *fiber.Ctx) error {
	id := c.Params("id")
	item, err := h.store.GetNews(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "News not found",
		})
	}

	var req struct {
		IsArchived bool `json:"isArchived"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	item.IsArchived = req.IsArchived
	if err := h.store.SaveNews(c.Context(), item); err != nil {
		logger.Get().Error().Err(err).Str("id", id).Msg("Error archiving news")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to update news",
		})
	}

	action := "news.archive"
	if !req.IsArchived {
		action = "news.unarchive"
	}
	h.audit(c, action, "news/"+item.ID, item.Title)
	return c.JSON(item)
}

// UploadImage handles POST /api/news/upload-image. Files land in
// process memory and are served back under /uploads/:name; good enough
// for console development.
func (h *Handlers) UploadImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Multipart field 'image' is required",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not read uploaded file",
		})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not read uploaded file",
		})
	}

	name := uuid.NewString() + filepath.Ext(fileHeader.Filename)
	h.uploadsMu.Lock()
	h.uploads[name] = data
	h.uploadsMu.Unlock()

	h.audit(c, "news.upload-image", "uploads/"+name, fileHeader.Filename)
	return c.JSON(fiber.Map{
		"imageUrl": fmt.Sprintf("%s/%s", strings.TrimRight(h.config.UploadBaseURL, "/"), name),
	})
}

// ServeUpload handles GET /uploads/:name
func (h *Handlers) ServeUpload(c *fiber.Ctx) error {
	h.uploadsMu.RLock()
	data, ok := h.uploads[c.Params("name")]
	h.uploadsMu.RUnlock()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Upload not found",
		})
	}
	return c.Send(data)
}

// Login handles POST /api/auth/login. Any password is accepted for a
// seeded account; the returned token is the fixed stub token.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "Email and password are required",
		})
	}

	users, err := h.store.ListUsers(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to check credentials",
		})
	}
	for _, user := range users {
		if strings.EqualFold(user.Email, req.Email) && user.IsActive {
			h.audit(c, "auth.login", "users/"+user.ID, user.Email)
			return c.JSON(fiber.Map{"token": h.config.StubToken})
		}
	}

	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": "Invalid credentials",
	})
}

// GetUsers handles GET /api/users
func (h *Handlers) GetUsers(c *fiber.Ctx) error {
	page, limit := paging(c)
	search := strings.ToLower(c.Query("search"))

	all, err := h.store.ListUsers(c.Context())
	if err != nil {
		logger.Get().Error().Err(err).Msg("Error listing users")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to get users",
		})
	}

	filtered := make([]models.User, 0, len(all))
	for _, user := range all {
		if search != "" &&
			!strings.Contains(strings.ToLower(user.Name), search) &&
			!strings.Contains(strings.ToLower(user.Email), search) {
			continue
		}
		filtered = append(filtered, user)
	}

	pageItems, hasMore := slicePage(filtered, page, limit)
	return c.JSON(pageResponse("users", pageItems, page, limit, len(filtered), hasMore))
}

// SetUserStatus handles PUT /api/users/status/:id
func (h *Handlers) SetUserStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	user, err := h.store.GetUser(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "User not found",
		})
	}

	var req struct {
		IsActive bool `json:"isActive"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	user.IsActive = req.IsActive
	if err := h.store.SaveUser(c.Context(), user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to update user",
		})
	}

	h.audit(c, "user.status", "users/"+user.ID, fmt.Sprintf("isActive=%t", req.IsActive))
	return c.JSON(user)
}

// GetAudit handles GET /api/audit
func (h *Handlers) GetAudit(c *fiber.Ctx) error {
	page, limit := paging(c)
	search := strings.ToLower(c.Query("search"))

	all, err := h.store.ListAudit(c.Context())
	if err != nil {
		logger.Get().Error().Err(err).Msg("Error listing audit log")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to get audit log",
		})
	}

	filtered := make([]models.AuditEntry, 0, len(all))
	for _, entry := range all {
		if search != "" &&
			!strings.Contains(strings.ToLower(entry.Actor), search) &&
			!strings.Contains(strings.ToLower(entry.Action), search) &&
			!strings.Contains(strings.ToLower(entry.Entity), search) {
			continue
		}
		filtered = append(filtered, entry)
	}

	pageItems, hasMore := slicePage(filtered, page, limit)
	return c.JSON(pageResponse("audit", pageItems, page, limit, len(filtered), hasMore))
}

// audit appends an activity row; failures are logged, never surfaced,
// so fixture bookkeeping cannot break a mutation.
func (h *Handlers) audit(c *fiber.Ctx, action, entity, detail string) {
	entry := models.AuditEntry{
		ID:        uuid.NewString(),
		Actor:     "console",
		Action:    action,
		Entity:    entity,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.store.AppendAudit(c.Context(), entry); err != nil {
		logger.Get().Error().Err(err).Str("action", action).Msg("Error appending audit entry")
	}
}
