package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ecotrack/console/internal/models"
)

// newsHeader is the documented column order of the news CSV export.
// Content is deliberately not exported: it can span many lines and the
// export is a row-per-item table.
var newsHeader = []string{"id", "title", "category", "status", "archived", "createdAt"}

// NewsCSV serializes the currently loaded, currently filtered rows.
// N items produce exactly N+1 lines (header included). The whole file
// is built in memory so a failure leaves no partial artifact.
func NewsCSV(items []models.NewsItem) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(newsHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, item := range items {
		record := []string{
			item.ID,
			item.Title,
			string(item.Category),
			string(item.Status),
			strconv.FormatBool(item.IsArchived),
			item.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveNewsCSV writes the export into dir under a timestamped filename
// and returns the full path.
func SaveNewsCSV(dir string, items []models.NewsItem) (string, error) {
	data, err := NewsCSV(items)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("news-export-%s.csv", time.Now().Format("20060102-150405")))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}
