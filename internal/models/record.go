package models

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type AttendanceRecord struct {
	ID            string  `db:"id" json:"id"`
	SessionID     string  `db:"session_id" json:"session_id"`
	StudentName   string  `db:"student_name" json:"student_name"`
	StudentEmail  string  `db:"student_email" json:"student_email"`
	StudentID     *string `db:"student_id" json:"student_id,omitempty"`
	MarkedAt      int64   `db:"marked_at" json:"marked_at"`
	IsLate        bool    `db:"is_late" json:"is_late"`
	LateByMinutes int     `db:"late_by_minutes" json:"late_by_minutes"`
	IPAddress     *string `db:"ip_address" json:"ip_address,omitempty"`
	UserAgent     *string `db:"user_agent" json:"user_agent,omitempty"`
}

// StatusLabel is the human status shown to students and in reports.
func (r *AttendanceRecord) StatusLabel() string {
	if r.IsLate {
		return fmt.Sprintf("Late (%d minutes)", r.LateByMinutes)
	}
	return "On Time"
}

// MarkRequest is the student-submitted attendance claim.
type MarkRequest struct {
	SessionID    string `json:"session_id"`
	StudentName  string `json:"student_name" validate:"required,max=100"`
	StudentEmail string `json:"student_email" validate:"required,email"`
	StudentID    string `json:"student_id" validate:"max=50"`
}

// Normalize trims the identity fields and lowercases the email, which is the
// canonical duplicate key.
func (m *MarkRequest) Normalize() {
	m.StudentName = strings.TrimSpace(m.StudentName)
	m.StudentEmail = strings.ToLower(strings.TrimSpace(m.StudentEmail))
	m.StudentID = strings.TrimSpace(m.StudentID)
}

func (m *MarkRequest) Validate() error {
	m.Normalize()
	validate := validator.New()
	return validate.Struct(m)
}
