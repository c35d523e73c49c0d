package models

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// SessionState is the wall-clock state of a session.
type SessionState string

const (
	StateScheduled SessionState = "scheduled"
	StateOpen      SessionState = "open"
	StateClosed    SessionState = "closed"
)

const (
	DateFormat = "2006-01-02"
	TimeFormat = "15:04"
)

type Session struct {
	ID          string `db:"id" json:"id"`
	LecturerID  string `db:"lecturer_id" json:"lecturer_id"`
	Title       string `db:"title" json:"title" validate:"required,max=200"`
	Description string `db:"description" json:"description,omitempty"`
	CourseCode  string `db:"course_code" json:"course_code" validate:"required,max=20"`
	SessionDate string `db:"session_date" json:"session_date" validate:"required,datetime=2006-01-02"`
	StartTime   string `db:"start_time" json:"start_time" validate:"required,datetime=15:04"`
	EndTime     string `db:"end_time" json:"end_time" validate:"required,datetime=15:04"`
	JoinCode    string `db:"join_code" json:"join_code"`
	IsActive    bool   `db:"is_active" json:"is_active"`
	CreatedAt   int64  `db:"created_at" json:"created_at"`
}

func (s *Session) Validate() error {
	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		return err
	}
	start, err := s.StartsAt()
	if err != nil {
		return err
	}
	end, err := s.EndsAt()
	if err != nil {
		return err
	}
	if !end.After(start) {
		return fmt.Errorf("end_time %s is not after start_time %s", s.EndTime, s.StartTime)
	}
	return nil
}

// StartsAt combines session_date and start_time. Session times are UTC.
func (s *Session) StartsAt() (time.Time, error) {
	return time.Parse(DateFormat+" "+TimeFormat, s.SessionDate+" "+s.StartTime)
}

func (s *Session) EndsAt() (time.Time, error) {
	return time.Parse(DateFormat+" "+TimeFormat, s.SessionDate+" "+s.EndTime)
}

// StateAt reports the session state at the given instant. The is_active flag
// closes a session regardless of the clock; the time window bounds it otherwise.
func (s *Session) StateAt(now time.Time) SessionState {
	if !s.IsActive {
		return StateClosed
	}
	start, err := s.StartsAt()
	if err != nil {
		return StateClosed
	}
	end, err := s.EndsAt()
	if err != nil {
		return StateClosed
	}
	switch {
	case now.Before(start):
		return StateScheduled
	case now.After(end):
		return StateClosed
	default:
		return StateOpen
	}
}

// SessionWithCount is a session row annotated with its attendance count.
type SessionWithCount struct {
	Session
	AttendanceCount int64 `db:"attendance_count" json:"attendance_count"`
}
