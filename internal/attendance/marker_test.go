package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/narvaro/internal/models"
	"github.com/shrimpsizemoose/narvaro/internal/store"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Close() error {
	return nil
}

func (m *MockStore) ApplyMigrations(dir string) error {
	return nil
}

func (m *MockStore) EnsureLecturer(lecturer models.Lecturer) error {
	return nil
}

func (m *MockStore) GetLecturer(id string) (*models.Lecturer, error) {
	return nil, nil
}

func (m *MockStore) CreateSession(session *models.Session) error {
	return nil
}

func (m *MockStore) GetSession(id string) (*models.Session, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockStore) ListSessions(lecturerID string) ([]models.SessionWithCount, error) {
	return nil, nil
}

func (m *MockStore) ListAllSessions() ([]models.Session, error) {
	return nil, nil
}

func (m *MockStore) UpdateSession(session *models.Session) error {
	return nil
}

func (m *MockStore) SetSessionActive(id, lecturerID string, active bool) (bool, error) {
	return false, nil
}

func (m *MockStore) DeleteSession(id, lecturerID string) (bool, error) {
	return false, nil
}

func (m *MockStore) CreateRecord(record *models.AttendanceRecord) error {
	args := m.Called(record)
	return args.Error(0)
}

func (m *MockStore) ListRecords(sessionID string) ([]models.AttendanceRecord, error) {
	return nil, nil
}

func (m *MockStore) CountRecords(sessionID string) (int64, error) {
	return 0, nil
}

func (m *MockStore) GetSessionStats(sessionID string) (*store.SessionStats, error) {
	return nil, nil
}

func openSession() *models.Session {
	return &models.Session{
		ID:          "sess-1",
		LecturerID:  "jane.doe",
		Title:       "Intro to Databases",
		CourseCode:  "CS305",
		SessionDate: "2024-01-10",
		StartTime:   "09:00",
		EndTime:     "11:00",
		IsActive:    true,
	}
}

func at(hhmm string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", "2024-01-10 "+hhmm)
	if err != nil {
		panic(err)
	}
	return t
}

func TestMarker_Lateness(t *testing.T) {
	sessionStart := at("09:00")

	testCases := []struct {
		name            string
		markedAt        time.Time
		expectedLate    bool
		expectedMinutes int
	}{
		{
			name:            "early arrival is on time with zero late minutes",
			markedAt:        at("08:50"),
			expectedLate:    false,
			expectedMinutes: 0,
		},
		{
			name:            "exactly at start",
			markedAt:        sessionStart,
			expectedLate:    false,
			expectedMinutes: 0,
		},
		{
			name:            "ten minutes in is within grace",
			markedAt:        at("09:10"),
			expectedLate:    false,
			expectedMinutes: 0,
		},
		{
			name:            "grace boundary is still on time",
			markedAt:        at("09:15"),
			expectedLate:    false,
			expectedMinutes: 0,
		},
		{
			name:            "one minute past grace is late",
			markedAt:        at("09:16"),
			expectedLate:    true,
			expectedMinutes: 16,
		},
		{
			name:            "twenty minutes in is late by twenty",
			markedAt:        at("09:20"),
			expectedLate:    true,
			expectedMinutes: 20,
		},
		{
			name:            "partial minutes floor down",
			markedAt:        at("09:16").Add(59 * time.Second),
			expectedLate:    true,
			expectedMinutes: 16,
		},
	}

	marker := NewMarker(&MockStore{}, 15, true)

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			isLate, lateBy := marker.Lateness(sessionStart, tc.markedAt)
			assert.Equal(t, tc.expectedLate, isLate)
			assert.Equal(t, tc.expectedMinutes, lateBy)
		})
	}
}

func TestMarker_Mark(t *testing.T) {
	validReq := func() models.MarkRequest {
		return models.MarkRequest{
			SessionID:    "sess-1",
			StudentName:  "Jo Smith",
			StudentEmail: "jo@example.com",
		}
	}

	newMarker := func(s store.AttendanceStore, now time.Time) *Marker {
		m := NewMarker(s, 15, true)
		m.now = func() time.Time { return now }
		return m
	}

	t.Run("on-time submission is accepted", func(t *testing.T) {
		s := new(MockStore)
		s.On("GetSession", "sess-1").Return(openSession(), nil).Once()
		s.On("CreateRecord", mock.AnythingOfType("*models.AttendanceRecord")).Return(nil).Once()

		result, err := newMarker(s, at("09:10")).Mark(validReq(), "203.0.113.9", "test-agent")
		require.NoError(t, err)
		assert.False(t, result.Record.IsLate)
		assert.Equal(t, 0, result.Record.LateByMinutes)
		assert.Equal(t, "On Time", result.Status)
		assert.Equal(t, "Intro to Databases", result.Session.Title)
		s.AssertExpectations(t)
	})

	t.Run("late submission carries the delta", func(t *testing.T) {
		s := new(MockStore)
		s.On("GetSession", "sess-1").Return(openSession(), nil).Once()
		s.On("CreateRecord", mock.AnythingOfType("*models.AttendanceRecord")).Return(nil).Once()

		result, err := newMarker(s, at("09:20")).Mark(validReq(), "", "")
		require.NoError(t, err)
		assert.True(t, result.Record.IsLate)
		assert.Equal(t, 20, result.Record.LateByMinutes)
		assert.Equal(t, "Late (20 minutes)", result.Status)
		s.AssertExpectations(t)
	})

	t.Run("email is trimmed and lowercased before insert", func(t *testing.T) {
		s := new(MockStore)
		s.On("GetSession", "sess-1").Return(openSession(), nil).Once()
		s.On("CreateRecord", mock.MatchedBy(func(r *models.AttendanceRecord) bool {
			return r.StudentEmail == "jo@example.com" && r.StudentName == "Jo Smith"
		})).Return(nil).Once()

		req := validReq()
		req.StudentEmail = "  Jo@Example.COM "
		req.StudentName = " Jo Smith "

		_, err := newMarker(s, at("09:10")).Mark(req, "", "")
		require.NoError(t, err)
		s.AssertExpectations(t)
	})

	t.Run("missing name fails validation before any store call", func(t *testing.T) {
		s := new(MockStore)

		req := validReq()
		req.StudentName = ""

		_, err := newMarker(s, at("09:10")).Mark(req, "", "")
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		s.AssertNotCalled(t, "GetSession", mock.Anything)
		s.AssertNotCalled(t, "CreateRecord", mock.Anything)
	})

	t.Run("malformed email fails validation", func(t *testing.T) {
		s := new(MockStore)

		req := validReq()
		req.StudentEmail = "not-an-email"

		_, err := newMarker(s, at("09:10")).Mark(req, "", "")
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		s.AssertNotCalled(t, "CreateRecord", mock.Anything)
	})

	t.Run("unknown session", func(t *testing.T) {
		s := new(MockStore)
		s.On("GetSession", "sess-1").Return(nil, nil).Once()

		_, err := newMarker(s, at("09:10")).Mark(validReq(), "", "")
		assert.ErrorIs(t, err, ErrSessionNotFound)
		s.AssertNotCalled(t, "CreateRecord", mock.Anything)
	})

	t.Run("deactivated session rejects marks", func(t *testing.T) {
		s := new(MockStore)
		session := openSession()
		session.IsActive = false
		s.On("GetSession", "sess-1").Return(session, nil).Once()

		_, err := newMarker(s, at("09:10")).Mark(validReq(), "", "")
		assert.ErrorIs(t, err, ErrSessionInactive)
		s.AssertNotCalled(t, "CreateRecord", mock.Anything)
	})

	t.Run("scheduled session rejects marks before start", func(t *testing.T) {
		s := new(MockStore)
		s.On("GetSession", "sess-1").Return(openSession(), nil).Once()

		_, err := newMarker(s, at("08:30")).Mark(validReq(), "", "")
		assert.ErrorIs(t, err, ErrSessionInactive)
	})

	t.Run("closed session rejects marks after end", func(t *testing.T) {
		s := new(MockStore)
		s.On("GetSession", "sess-1").Return(openSession(), nil).Once()

		_, err := newMarker(s, at("11:30")).Mark(validReq(), "", "")
		assert.ErrorIs(t, err, ErrSessionInactive)
	})

	t.Run("window not enforced falls back to the active flag", func(t *testing.T) {
		s := new(MockStore)
		s.On("GetSession", "sess-1").Return(openSession(), nil).Once()
		s.On("CreateRecord", mock.AnythingOfType("*models.AttendanceRecord")).Return(nil).Once()

		m := NewMarker(s, 15, false)
		m.now = func() time.Time { return at("11:30") }

		result, err := m.Mark(validReq(), "", "")
		require.NoError(t, err)
		assert.True(t, result.Record.IsLate)
		s.AssertExpectations(t)
	})

	t.Run("duplicate insert surfaces conflict", func(t *testing.T) {
		s := new(MockStore)
		s.On("GetSession", "sess-1").Return(openSession(), nil).Once()
		s.On("CreateRecord", mock.AnythingOfType("*models.AttendanceRecord")).Return(store.ErrDuplicateRecord).Once()

		_, err := newMarker(s, at("09:10")).Mark(validReq(), "", "")
		assert.ErrorIs(t, err, ErrDuplicate)
		s.AssertExpectations(t)
	})
}
