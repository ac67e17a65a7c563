package stub

import (
	"context"
	"fmt"
	"time"

	"github.com/ecotrack/console/internal/models"
	"github.com/google/uuid"
)

// Seed fills an empty store with enough fixture data to exercise the
// console: three accounts and a news set that spans categories,
// statuses and the archive flag, deep enough to page through.
func Seed(ctx context.Context, store Store) error {
	existing, err := store.ListNews(ctx)
	if err != nil {
		return fmt.Errorf("failed to check existing fixtures: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	users := []models.User{
		{ID: uuid.NewString(), Name: "Ana Reyes", Email: "ana@ecotrack.example", Role: models.RoleAdmin, IsActive: true},
		{ID: uuid.NewString(), Name: "Leo Santos", Email: "leo@ecotrack.example", Role: models.RoleStaff, IsActive: true},
		{ID: uuid.NewString(), Name: "Mia Cruz", Email: "mia@ecotrack.example", Role: models.RoleCustomer, IsActive: false},
	}
	for i := len(users) - 1; i >= 0; i-- {
		users[i].CreatedAt = time.Now().UTC().AddDate(0, -1, -i)
		if err := store.SaveUser(ctx, users[i]); err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
	}

	categories := []models.Category{models.CategoryGeneral, models.CategoryMaintenance, models.CategoryBrownout}
	for i := 25; i >= 1; i-- {
		item := models.NewsItem{
			ID:        uuid.NewString(),
			Title:     fmt.Sprintf("Grid notice #%d", i),
			Content:   fmt.Sprintf("Detail for grid notice #%d across the metro service area.", i),
			Image:     fmt.Sprintf("https://cdn.ecotrack.example/news/%d.png", i),
			Category:  categories[i%len(categories)],
			Status:    models.StatusPublished,
			CreatedAt: time.Now().UTC().Add(-time.Duration(i) * 6 * time.Hour),
		}
		if i%4 == 0 {
			item.Status = models.StatusDraft
		}
		if i%5 == 0 {
			item.IsArchived = true
		}
		if err := store.SaveNews(ctx, item); err != nil {
			return fmt.Errorf("failed to seed news: %w", err)
		}
	}

	return store.AppendAudit(ctx, models.AuditEntry{
		ID:        uuid.NewString(),
		Actor:     "system",
		Action:    "fixtures.seed",
		Entity:    "store",
		Detail:    "seeded development fixtures",
		CreatedAt: time.Now().UTC(),
	})
}
