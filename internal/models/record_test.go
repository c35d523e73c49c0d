package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttendanceRecord_StatusLabel(t *testing.T) {
	onTime := AttendanceRecord{IsLate: false, LateByMinutes: 0}
	assert.Equal(t, "On Time", onTime.StatusLabel())

	late := AttendanceRecord{IsLate: true, LateByMinutes: 20}
	assert.Equal(t, "Late (20 minutes)", late.StatusLabel())
}

func TestMarkRequest_Validate(t *testing.T) {
	t.Run("normalizes identity fields", func(t *testing.T) {
		req := MarkRequest{
			SessionID:    "sess-1",
			StudentName:  "  Jo Smith ",
			StudentEmail: " Jo@Example.COM  ",
			StudentID:    " s123456 ",
		}
		require.NoError(t, req.Validate())
		assert.Equal(t, "Jo Smith", req.StudentName)
		assert.Equal(t, "jo@example.com", req.StudentEmail)
		assert.Equal(t, "s123456", req.StudentID)
	})

	t.Run("student id is optional", func(t *testing.T) {
		req := MarkRequest{
			SessionID:    "sess-1",
			StudentName:  "Jo Smith",
			StudentEmail: "jo@example.com",
		}
		assert.NoError(t, req.Validate())
	})

	t.Run("whitespace-only name is rejected", func(t *testing.T) {
		req := MarkRequest{
			SessionID:    "sess-1",
			StudentName:  "   ",
			StudentEmail: "jo@example.com",
		}
		assert.Error(t, req.Validate())
	})

	t.Run("bad email is rejected", func(t *testing.T) {
		req := MarkRequest{
			SessionID:    "sess-1",
			StudentName:  "Jo Smith",
			StudentEmail: "not-an-email",
		}
		assert.Error(t, req.Validate())
	})
}
