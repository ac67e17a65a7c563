package export

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ecotrack/console/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewsCSV_HeaderPlusOneLinePerItem(t *testing.T) {
	created := time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC)
	items := []models.NewsItem{
		{ID: "n1", Title: "Planned maintenance", Category: models.CategoryMaintenance, Status: models.StatusPublished, CreatedAt: created},
		{ID: "n2", Title: "Brownout warning", Category: models.CategoryBrownout, Status: models.StatusDraft, CreatedAt: created},
		{ID: "n3", Title: "Archived notice", Category: models.CategoryGeneral, Status: models.StatusPublished, IsArchived: true, CreatedAt: created},
	}

	data, err := NewsCSV(items)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 4, "header + 3 rows")
	assert.Equal(t, "id,title,category,status,archived,createdAt", lines[0])
	assert.Equal(t, "n1,Planned maintenance,maintenance,published,false,2026-08-01T09:30:00Z", lines[1])
	assert.Equal(t, "n3,Archived notice,general,published,true,2026-08-01T09:30:00Z", lines[3])
}

func TestNewsCSV_EmptyListIsHeaderOnly(t *testing.T) {
	data, err := NewsCSV(nil)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Len(t, lines, 1)
}

func TestSaveNewsCSV(t *testing.T) {
	dir := t.TempDir()
	path, err := SaveNewsCSV(dir, []models.NewsItem{{ID: "n1", Title: "t"}})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, dir))
	assert.True(t, strings.HasSuffix(path, ".csv"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "n1")
}

func TestPDFExports(t *testing.T) {
	users := []models.User{{ID: "u1", Name: "Ana", Email: "ana@example.com", Role: models.RoleAdmin, IsActive: true}}
	audit := []models.AuditEntry{{ID: "a1", Actor: "ana@example.com", Action: "news.create", Entity: "news/n1"}}
	news := []models.NewsItem{{ID: "n1", Title: "Outage", Category: models.CategoryGeneral, Status: models.StatusPublished}}

	for name, data := range map[string]func() ([]byte, error){
		"users": func() ([]byte, error) { return UsersPDF(users) },
		"audit": func() ([]byte, error) { return AuditPDF(audit) },
		"news":  func() ([]byte, error) { return NewsPDF(news) },
	} {
		t.Run(name, func(t *testing.T) {
			out, err := data()
			require.NoError(t, err)
			require.NotEmpty(t, out)
			assert.True(t, strings.HasPrefix(string(out[:5]), "%PDF-"), "output is a PDF document")
		})
	}
}

func TestPDFExport_ManyRowsPaginate(t *testing.T) {
	entries := make([]models.AuditEntry, 120)
	for i := range entries {
		entries[i] = models.AuditEntry{ID: "a", Actor: "ops", Action: "news.update", Entity: "news/n1", CreatedAt: time.Now()}
	}
	out, err := AuditPDF(entries)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestSavePDF(t *testing.T) {
	dir := t.TempDir()
	out, err := NewsPDF(nil)
	require.NoError(t, err)

	path, err := SavePDF(dir, "news", out)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".pdf"))

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
