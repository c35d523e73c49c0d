package report

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/shrimpsizemoose/narvaro/internal/models"
	"github.com/shrimpsizemoose/narvaro/internal/store"
)

const markedAtFormat = "2006-01-02 15:04"

// WritePDF renders the session attendance report: session details, on-time and
// late counts with the attendance rate, then one row per record.
func WritePDF(w io.Writer, session *models.Session, records []models.AttendanceRecord, stats *store.SessionStats) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10,
			fmt.Sprintf("Generated on %s - Page %d of {nb}", time.Now().UTC().Format(markedAtFormat), pdf.PageNo()),
			"", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "Attendance Report", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, fmt.Sprintf("Session: %s", session.Title), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Course: %s", session.CourseCode), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Date: %s", session.SessionDate), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Time: %s - %s", session.StartTime, session.EndTime), "", 1, "L", false, 0, "")
	if session.Description != "" {
		pdf.CellFormat(0, 7, fmt.Sprintf("Description: %s", session.Description), "", 1, "L", false, 0, "")
	}

	pdf.Ln(3)
	pdf.CellFormat(0, 7, fmt.Sprintf("Total Students: %d", stats.Total), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("On Time: %d", stats.OnTime), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Late: %d", stats.Late), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Attendance Rate: %d%%", stats.AttendanceRate()), "", 1, "L", false, 0, "")
	pdf.Ln(5)

	if len(records) == 0 {
		pdf.CellFormat(0, 7, "No attendance records found.", "", 1, "L", false, 0, "")
		return pdf.Output(w)
	}

	headers := []string{"#", "Name", "Email", "Student ID", "Time Marked", "Status"}
	widths := []float64{10, 40, 50, 25, 35, 30}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(37, 99, 235)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for i, r := range records {
		cells := []string{
			fmt.Sprintf("%d", i+1),
			r.StudentName,
			r.StudentEmail,
			orDash(r.StudentID),
			time.Unix(r.MarkedAt, 0).UTC().Format(markedAtFormat),
			r.StatusLabel(),
		}
		for j, c := range cells {
			pdf.CellFormat(widths[j], 7, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
