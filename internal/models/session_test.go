package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_StateAt(t *testing.T) {
	session := Session{
		ID:          "sess-1",
		LecturerID:  "jane.doe",
		Title:       "Intro to Databases",
		CourseCode:  "CS305",
		SessionDate: "2024-01-10",
		StartTime:   "09:00",
		EndTime:     "11:00",
		IsActive:    true,
	}

	clock := func(hhmm string) time.Time {
		now, err := time.Parse("2006-01-02 15:04", "2024-01-10 "+hhmm)
		require.NoError(t, err)
		return now
	}

	testCases := []struct {
		name     string
		active   bool
		now      time.Time
		expected SessionState
	}{
		{
			name:     "before start is scheduled",
			active:   true,
			now:      clock("08:59"),
			expected: StateScheduled,
		},
		{
			name:     "at start is open",
			active:   true,
			now:      clock("09:00"),
			expected: StateOpen,
		},
		{
			name:     "mid-window is open",
			active:   true,
			now:      clock("10:00"),
			expected: StateOpen,
		},
		{
			name:     "at end is still open",
			active:   true,
			now:      clock("11:00"),
			expected: StateOpen,
		},
		{
			name:     "past end is closed",
			active:   true,
			now:      clock("11:01"),
			expected: StateClosed,
		},
		{
			name:     "deactivated session is closed even mid-window",
			active:   false,
			now:      clock("10:00"),
			expected: StateClosed,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := session
			s.IsActive = tc.active
			assert.Equal(t, tc.expected, s.StateAt(tc.now))
		})
	}
}

func TestSession_Validate(t *testing.T) {
	valid := Session{
		ID:          "sess-1",
		LecturerID:  "jane.doe",
		Title:       "Intro to Databases",
		CourseCode:  "CS305",
		SessionDate: "2024-01-10",
		StartTime:   "09:00",
		EndTime:     "11:00",
	}

	t.Run("accepts a well-formed session", func(t *testing.T) {
		s := valid
		assert.NoError(t, s.Validate())
	})

	t.Run("rejects missing title", func(t *testing.T) {
		s := valid
		s.Title = ""
		assert.Error(t, s.Validate())
	})

	t.Run("rejects malformed date", func(t *testing.T) {
		s := valid
		s.SessionDate = "10/01/2024"
		assert.Error(t, s.Validate())
	})

	t.Run("rejects malformed time", func(t *testing.T) {
		s := valid
		s.StartTime = "9am"
		assert.Error(t, s.Validate())
	})

	t.Run("rejects end before start", func(t *testing.T) {
		s := valid
		s.EndTime = "08:00"
		assert.Error(t, s.Validate())
	})

	t.Run("rejects end equal to start", func(t *testing.T) {
		s := valid
		s.EndTime = s.StartTime
		assert.Error(t, s.Validate())
	})
}
