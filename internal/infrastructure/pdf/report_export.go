// Package pdf renders report listings as PDF documents.
package pdf

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/civicvoice/civicvoice-api/internal/core/domain"
)

var exportColumns = []struct {
	title string
	width float64
}{
	{"Title", 40},
	{"Category", 25},
	{"Location", 40},
	{"Priority", 20},
	{"Reporter", 35},
	{"Created At", 30},
}

// statusOrder fixes the section order in the export; any status not listed
// is appended after these.
var statusOrder = []domain.ReportStatus{
	domain.ReportPending,
	domain.ReportInProgress,
	domain.ReportFixed,
	domain.ReportRejected,
}

// RenderReportExport writes a status-grouped PDF table of the given reports.
func RenderReportExport(w io.Writer, reports []*domain.Report, exportedAt time.Time) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetHeaderFunc(func() {
		doc.SetFont("Arial", "B", 15)
		doc.CellFormat(0, 10, "CivicVoice Community Reports", "", 1, "C", false, 0, "")
		doc.SetFont("Arial", "", 10)
		doc.CellFormat(0, 8, "Exported: "+exportedAt.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
		doc.Ln(2)
	})
	doc.SetFooterFunc(func() {
		doc.SetY(-15)
		doc.SetFont("Arial", "I", 8)
		doc.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", doc.PageNo()), "", 0, "C", false, 0, "")
	})
	doc.AliasNbPages("")
	doc.AddPage()

	grouped := groupByStatus(reports)
	for _, status := range grouped.order {
		rows := grouped.byStatus[status]
		if len(rows) == 0 {
			continue
		}
		doc.SetFont("Arial", "B", 12)
		doc.SetFillColor(230, 230, 230)
		doc.CellFormat(0, 10, sectionTitle(status), "", 1, "L", true, 0, "")
		writeTableHeader(doc)
		doc.SetFont("Arial", "", 9)
		for _, report := range rows {
			writeRow(doc, report)
		}
		doc.Ln(4)
	}

	return doc.Output(w)
}

type groupedReports struct {
	order    []domain.ReportStatus
	byStatus map[domain.ReportStatus][]*domain.Report
}

func groupByStatus(reports []*domain.Report) groupedReports {
	g := groupedReports{byStatus: make(map[domain.ReportStatus][]*domain.Report)}
	g.order = append(g.order, statusOrder...)
	for _, r := range reports {
		if _, seen := g.byStatus[r.Status]; !seen && !knownStatus(r.Status) {
			g.order = append(g.order, r.Status)
		}
		g.byStatus[r.Status] = append(g.byStatus[r.Status], r)
	}
	return g
}

func knownStatus(s domain.ReportStatus) bool {
	for _, known := range statusOrder {
		if s == known {
			return true
		}
	}
	return false
}

func sectionTitle(status domain.ReportStatus) string {
	title := strings.ReplaceAll(string(status), "-", " ")
	if title == "" {
		return "Reports"
	}
	return strings.ToUpper(title[:1]) + title[1:] + " Reports"
}

func writeTableHeader(doc *fpdf.Fpdf) {
	doc.SetFont("Arial", "B", 9)
	doc.SetFillColor(200, 200, 200)
	for _, col := range exportColumns {
		doc.CellFormat(col.width, 8, col.title, "1", 0, "C", true, 0, "")
	}
	doc.Ln(-1)
}

func writeRow(doc *fpdf.Fpdf, report *domain.Report) {
	cells := []string{
		truncate(report.Title, 30),
		string(report.Category),
		truncate(report.Location, 30),
		string(report.Priority),
		truncate(report.Reporter, 26),
		report.CreatedAt.Format("2006-01-02 15:04"),
	}
	for i, cell := range cells {
		doc.CellFormat(exportColumns[i].width, 8, cell, "1", 0, "L", false, 0, "")
	}
	doc.Ln(-1)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
