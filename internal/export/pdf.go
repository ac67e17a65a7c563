package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ecotrack/console/internal/models"
	"github.com/go-pdf/fpdf"
)

// tablePDF renders rows into a paginated landscape table. The document
// is built in memory so a failure leaves no partial file.
func tablePDF(title string, headers []string, widths []float64, rows [][]string) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, "Generated "+time.Now().Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	drawHeader := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for i, h := range headers {
			pdf.CellFormat(widths[i], 8, h, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
	}
	drawHeader()

	for _, row := range rows {
		if pdf.GetY() > 185 {
			pdf.AddPage()
			drawHeader()
		}
		for i, cell := range row {
			pdf.CellFormat(widths[i], 7, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// UsersPDF renders the user management rows.
func UsersPDF(users []models.User) ([]byte, error) {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		active := "inactive"
		if u.IsActive {
			active = "active"
		}
		rows = append(rows, []string{u.ID, u.Name, u.Email, string(u.Role), active, u.CreatedAt.Format("2006-01-02")})
	}
	return tablePDF(
		"EcoTrack Users",
		[]string{"ID", "Name", "Email", "Role", "Status", "Created"},
		[]float64{35, 50, 70, 30, 30, 30},
		rows,
	)
}

// AuditPDF renders the activity log rows.
func AuditPDF(entries []models.AuditEntry) ([]byte, error) {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.CreatedAt.Format("2006-01-02 15:04"), e.Actor, e.Action, e.Entity, e.Detail})
	}
	return tablePDF(
		"EcoTrack Activity Log",
		[]string{"Time", "Actor", "Action", "Entity", "Detail"},
		[]float64{35, 45, 40, 40, 110},
		rows,
	)
}

// NewsPDF renders the news rows, badge derived the same way the list
// screen shows it.
func NewsPDF(items []models.NewsItem) ([]byte, error) {
	rows := make([][]string, 0, len(items))
	for _, n := range items {
		rows = append(rows, []string{n.ID, n.Title, string(n.Category), n.Badge(), n.CreatedAt.Format("2006-01-02")})
	}
	return tablePDF(
		"EcoTrack News",
		[]string{"ID", "Title", "Category", "Badge", "Created"},
		[]float64{35, 110, 40, 30, 30},
		rows,
	)
}

// SavePDF writes rendered PDF bytes into dir under a timestamped name.
func SavePDF(dir, prefix string, data []byte) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.pdf", prefix, time.Now().Format("20060102-150405")))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}
