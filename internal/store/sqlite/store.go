// internal/store/sqlite/store.go
package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/shrimpsizemoose/narvaro/internal/models"
	"github.com/shrimpsizemoose/narvaro/internal/store"
)

type SQLiteStore struct {
	store.BaseStore
}

func NewSQLiteStore(dsn, migrationsDir string) (*SQLiteStore, error) {
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &SQLiteStore{BaseStore: store.BaseStore{
		DB: db,
		Converter: func(query string) string {
			return query
		},
	}}

	if err := s.ApplyMigrations(migrationsDir); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) ApplyMigrations(dir string) error {
	return s.BaseStore.ApplyMigrations(dir, translateToSQLite)
}

// translateToSQLite converts Postgres SQL to SQLite dialect
func translateToSQLite(sql string) string {
	replacements := map[string]string{
		"BIGSERIAL":    "INTEGER PRIMARY KEY AUTOINCREMENT",
		"SERIAL":       "INTEGER PRIMARY KEY AUTOINCREMENT",
		"BIGINT":       "INTEGER",
		"UUID":         "TEXT",
		"BOOLEAN":      "INTEGER",
		"TRUE":         "1",
		"FALSE":        "0",
		"now()":        "CURRENT_TIMESTAMP",
		"VARCHAR(20)":  "TEXT",
		"VARCHAR(50)":  "TEXT",
		"VARCHAR(100)": "TEXT",
		"VARCHAR(200)": "TEXT",
		"::text":       "",
	}
	result := sql
	for from, to := range replacements {
		result = strings.ReplaceAll(result, from, to)
	}
	return result
}

// CreateRecord inserts an attendance record, mapping the UNIQUE constraint
// on (session_id, student_email) to store.ErrDuplicateRecord.
func (s *SQLiteStore) CreateRecord(record *models.AttendanceRecord) error {
	_, err := s.DB.NamedExec(`
		INSERT INTO attendance_records
			(id, session_id, student_name, student_email, student_id,
			 marked_at, is_late, late_by_minutes, ip_address, user_agent)
		VALUES
			(:id, :session_id, :student_name, :student_email, :student_id,
			 :marked_at, :is_late, :late_by_minutes, :ip_address, :user_agent)
	`, record)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) &&
			(sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
				sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey) {
			return store.ErrDuplicateRecord
		}
		return fmt.Errorf("failed to create attendance record: %w", err)
	}
	return nil
}
