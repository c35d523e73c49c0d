package report

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/narvaro/internal/models"
)

func TestWriteCSV(t *testing.T) {
	studentID := "s123456"
	records := []models.AttendanceRecord{
		{
			ID:           "rec-1",
			SessionID:    "sess-1",
			StudentName:  "Jo Smith",
			StudentEmail: "jo@example.com",
			StudentID:    &studentID,
			MarkedAt:     1704880200,
		},
		{
			ID:            "rec-2",
			SessionID:     "sess-1",
			StudentName:   "Sam Lee",
			StudentEmail:  "sam@example.com",
			MarkedAt:      1704881400,
			IsLate:        true,
			LateByMinutes: 20,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"name", "email", "student_id", "marked_at", "is_late", "late_by_minutes", "status"}, rows[0])

	assert.Equal(t, "Jo Smith", rows[1][0])
	assert.Equal(t, "s123456", rows[1][2])
	assert.Equal(t, "false", rows[1][4])
	assert.Equal(t, "On Time", rows[1][6])

	assert.Equal(t, "sam@example.com", rows[2][1])
	assert.Equal(t, "", rows[2][2])
	assert.Equal(t, "true", rows[2][4])
	assert.Equal(t, "20", rows[2][5])
	assert.Equal(t, "Late (20 minutes)", rows[2][6])
}
