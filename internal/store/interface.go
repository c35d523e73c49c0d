package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/shrimpsizemoose/narvaro/internal/models"
)

// ErrDuplicateRecord is returned when the unique (session_id, student_email)
// constraint rejects an insert. The constraint is what keeps concurrent
// duplicate submissions out, so callers must not pre-check instead.
var ErrDuplicateRecord = errors.New("attendance already recorded for this student")

type AttendanceStore interface {
	Close() error
	ApplyMigrations(dir string) error

	EnsureLecturer(lecturer models.Lecturer) error
	GetLecturer(id string) (*models.Lecturer, error)

	CreateSession(session *models.Session) error
	GetSession(id string) (*models.Session, error)
	ListSessions(lecturerID string) ([]models.SessionWithCount, error)
	ListAllSessions() ([]models.Session, error)
	UpdateSession(session *models.Session) error
	SetSessionActive(id, lecturerID string, active bool) (bool, error)
	DeleteSession(id, lecturerID string) (bool, error)

	CreateRecord(record *models.AttendanceRecord) error
	ListRecords(sessionID string) ([]models.AttendanceRecord, error)
	CountRecords(sessionID string) (int64, error)
	GetSessionStats(sessionID string) (*SessionStats, error)
}

// BaseStore provides common functionality for different DB implementations
type BaseStore struct {
	DB        *sqlx.DB
	Converter func(string) string
}

func (s *BaseStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// ApplyMigrations applies SQL migrations from a directory, translating dialect if needed
func (s *BaseStore) ApplyMigrations(dir string, translateSQL func(string) string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		content, err := os.ReadFile(fmt.Sprintf("%s/%s", dir, file.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file.Name(), err)
		}

		query := string(content)
		if translateSQL != nil {
			query = translateSQL(query)
		}

		if _, err := s.DB.Exec(query); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file.Name(), err)
		}
	}

	return nil
}

func (s *BaseStore) EnsureLecturer(lecturer models.Lecturer) error {
	_, err := s.DB.NamedExec(`
		INSERT INTO lecturers (id, email, full_name, role, created_at)
		VALUES (:id, :email, :full_name, :role, :created_at)
		ON CONFLICT (id) DO NOTHING
	`, lecturer)
	if err != nil {
		return fmt.Errorf("failed to ensure lecturer: %w", err)
	}
	return nil
}

func (s *BaseStore) GetLecturer(id string) (*models.Lecturer, error) {
	var lecturer models.Lecturer
	query := s.Converter(`
		SELECT id, email, full_name, role, created_at
		FROM lecturers
		WHERE id = ?
	`)

	err := s.DB.Get(&lecturer, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lecturer: %w", err)
	}
	return &lecturer, nil
}

func (s *BaseStore) CreateSession(session *models.Session) error {
	_, err := s.DB.NamedExec(`
		INSERT INTO attendance_sessions
			(id, lecturer_id, title, description, course_code, session_date,
			 start_time, end_time, join_code, is_active, created_at)
		VALUES
			(:id, :lecturer_id, :title, :description, :course_code, :session_date,
			 :start_time, :end_time, :join_code, :is_active, :created_at)
	`, session)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (s *BaseStore) GetSession(id string) (*models.Session, error) {
	var session models.Session
	query := s.Converter(`
		SELECT id, lecturer_id, title, description, course_code, session_date,
		       start_time, end_time, join_code, is_active, created_at
		FROM attendance_sessions
		WHERE id = ?
	`)

	err := s.DB.Get(&session, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

func (s *BaseStore) ListSessions(lecturerID string) ([]models.SessionWithCount, error) {
	var sessions []models.SessionWithCount
	query := s.Converter(`
		SELECT
			s.id, s.lecturer_id, s.title, s.description, s.course_code,
			s.session_date, s.start_time, s.end_time, s.join_code, s.is_active,
			s.created_at,
			COUNT(r.id) AS attendance_count
		FROM attendance_sessions s
		LEFT JOIN attendance_records r ON r.session_id = s.id
		WHERE s.lecturer_id = ?
		GROUP BY s.id, s.lecturer_id, s.title, s.description, s.course_code,
		         s.session_date, s.start_time, s.end_time, s.join_code,
		         s.is_active, s.created_at
		ORDER BY s.created_at DESC
	`)

	err := s.DB.Select(&sessions, query, lecturerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

func (s *BaseStore) ListAllSessions() ([]models.Session, error) {
	var sessions []models.Session
	err := s.DB.Select(&sessions, `
		SELECT id, lecturer_id, title, description, course_code, session_date,
		       start_time, end_time, join_code, is_active, created_at
		FROM attendance_sessions
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

func (s *BaseStore) UpdateSession(session *models.Session) error {
	_, err := s.DB.NamedExec(`
		UPDATE attendance_sessions SET
			title = :title,
			description = :description,
			course_code = :course_code,
			session_date = :session_date,
			start_time = :start_time,
			end_time = :end_time
		WHERE id = :id AND lecturer_id = :lecturer_id
	`, session)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	return nil
}

// SetSessionActive toggles the owner-controlled flag. Returns false when the
// session does not exist or belongs to another lecturer.
func (s *BaseStore) SetSessionActive(id, lecturerID string, active bool) (bool, error) {
	query := s.Converter(`
		UPDATE attendance_sessions
		SET is_active = ?
		WHERE id = ? AND lecturer_id = ?
	`)

	res, err := s.DB.Exec(query, active, id, lecturerID)
	if err != nil {
		return false, fmt.Errorf("failed to toggle session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to toggle session: %w", err)
	}
	return affected > 0, nil
}

// DeleteSession removes a session; attendance records go with it via the
// ON DELETE CASCADE foreign key.
func (s *BaseStore) DeleteSession(id, lecturerID string) (bool, error) {
	query := s.Converter(`
		DELETE FROM attendance_sessions
		WHERE id = ? AND lecturer_id = ?
	`)

	res, err := s.DB.Exec(query, id, lecturerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete session: %w", err)
	}
	return affected > 0, nil
}

func (s *BaseStore) ListRecords(sessionID string) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	query := s.Converter(`
		SELECT id, session_id, student_name, student_email, student_id,
		       marked_at, is_late, late_by_minutes, ip_address, user_agent
		FROM attendance_records
		WHERE session_id = ?
		ORDER BY marked_at ASC
	`)

	err := s.DB.Select(&records, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return records, nil
}

func (s *BaseStore) CountRecords(sessionID string) (int64, error) {
	var count int64
	query := s.Converter(`
		SELECT COUNT(*) FROM attendance_records WHERE session_id = ?
	`)

	if err := s.DB.Get(&count, query, sessionID); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

func (s *BaseStore) GetSessionStats(sessionID string) (*SessionStats, error) {
	var stats SessionStats
	query := s.Converter(`
		SELECT
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN is_late THEN 0 ELSE 1 END), 0) AS on_time,
			COALESCE(SUM(CASE WHEN is_late THEN 1 ELSE 0 END), 0) AS late
		FROM attendance_records
		WHERE session_id = ?
	`)

	if err := s.DB.Get(&stats, query, sessionID); err != nil {
		return nil, fmt.Errorf("failed to fetch session stats: %w", err)
	}
	return &stats, nil
}
