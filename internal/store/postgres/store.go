package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/shrimpsizemoose/narvaro/internal/models"
	"github.com/shrimpsizemoose/narvaro/internal/store"
)

const uniqueViolation = pq.ErrorCode("23505")

type PostgresStore struct {
	store.BaseStore
}

func NewPostgresStore(dsn, migrationsDir string) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &PostgresStore{BaseStore: store.BaseStore{
		DB: db,
		Converter: func(query string) string {
			out := query
			for i := 1; strings.Contains(out, "?"); i++ {
				out = strings.Replace(out, "?", fmt.Sprintf("$%d", i), 1)
			}
			return out
		},
	}}

	if err := s.ApplyMigrations(migrationsDir); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return s, nil
}

func (s *PostgresStore) ApplyMigrations(dir string) error {
	return s.BaseStore.ApplyMigrations(dir, nil)
}

// CreateRecord inserts an attendance record. A unique violation on the
// (session_id, student_email) index means the student already marked this
// session, reported as store.ErrDuplicateRecord.
func (s *PostgresStore) CreateRecord(record *models.AttendanceRecord) error {
	_, err := s.DB.NamedExec(`
		INSERT INTO attendance_records
			(id, session_id, student_name, student_email, student_id,
			 marked_at, is_late, late_by_minutes, ip_address, user_agent)
		VALUES
			(:id, :session_id, :student_name, :student_email, :student_id,
			 :marked_at, :is_late, :late_by_minutes, :ip_address, :user_agent)
	`, record)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return store.ErrDuplicateRecord
		}
		return fmt.Errorf("failed to create attendance record: %w", err)
	}
	return nil
}
