package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shrimpsizemoose/narvaro/internal/models"
)

// WriteCSV streams the session's records as CSV, one row per student.
func WriteCSV(w io.Writer, records []models.AttendanceRecord) error {
	cw := csv.NewWriter(w)

	header := []string{"name", "email", "student_id", "marked_at", "is_late", "late_by_minutes", "status"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.StudentName,
			r.StudentEmail,
			orEmpty(r.StudentID),
			time.Unix(r.MarkedAt, 0).UTC().Format(time.RFC3339),
			fmt.Sprintf("%t", r.IsLate),
			fmt.Sprintf("%d", r.LateByMinutes),
			r.StatusLabel(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
