package attendance

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shrimpsizemoose/narvaro/internal/models"
	"github.com/shrimpsizemoose/narvaro/internal/store"
)

// Marker decides whether an attendance claim is accepted and computes its
// lateness metadata. The duplicate guard lives in the store's unique
// constraint, not here, so two racing submissions cannot both land.
type Marker struct {
	store         store.AttendanceStore
	graceMinutes  int
	enforceWindow bool
	now           func() time.Time
}

func NewMarker(s store.AttendanceStore, graceMinutes int, enforceWindow bool) *Marker {
	if graceMinutes <= 0 {
		graceMinutes = 15
	}
	return &Marker{
		store:         s,
		graceMinutes:  graceMinutes,
		enforceWindow: enforceWindow,
		now:           time.Now,
	}
}

// Result is what a successful mark returns to the student.
type Result struct {
	Record  models.AttendanceRecord
	Session models.Session
	Status  string
}

// Mark runs the attendance decision procedure: validate, resolve session,
// check it is open, compute lateness, insert. clientIP and userAgent are
// best-effort capture and may be empty.
func (m *Marker) Mark(req models.MarkRequest, clientIP, userAgent string) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	session, err := m.store.GetSession(req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	now := m.now().UTC()
	if !m.open(session, now) {
		return nil, ErrSessionInactive
	}

	start, err := session.StartsAt()
	if err != nil {
		return nil, fmt.Errorf("session has malformed start time: %w", err)
	}
	isLate, lateBy := m.Lateness(start, now)

	record := models.AttendanceRecord{
		ID:            uuid.NewString(),
		SessionID:     session.ID,
		StudentName:   req.StudentName,
		StudentEmail:  req.StudentEmail,
		MarkedAt:      now.Unix(),
		IsLate:        isLate,
		LateByMinutes: lateBy,
	}
	if req.StudentID != "" {
		record.StudentID = &req.StudentID
	}
	if clientIP != "" {
		record.IPAddress = &clientIP
	}
	if userAgent != "" {
		record.UserAgent = &userAgent
	}

	if err := m.store.CreateRecord(&record); err != nil {
		if errors.Is(err, store.ErrDuplicateRecord) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to save attendance record: %w", err)
	}

	return &Result{
		Record:  record,
		Session: *session,
		Status:  record.StatusLabel(),
	}, nil
}

// Lateness computes whole minutes past session start, clamped at zero.
// A student is late once the grace period is exceeded; on-time submissions
// carry zero late minutes regardless of the delta.
func (m *Marker) Lateness(start, now time.Time) (bool, int) {
	if !now.After(start) {
		return false, 0
	}
	delta := int(now.Sub(start) / time.Minute)
	if delta <= m.graceMinutes {
		return false, 0
	}
	return true, delta
}

func (m *Marker) open(session *models.Session, now time.Time) bool {
	if !m.enforceWindow {
		return session.IsActive
	}
	return session.StateAt(now) == models.StateOpen
}
