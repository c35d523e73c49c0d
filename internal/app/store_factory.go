package app

import (
	"strings"

	"github.com/shrimpsizemoose/narvaro/internal/store"
	"github.com/shrimpsizemoose/narvaro/internal/store/postgres"
	"github.com/shrimpsizemoose/narvaro/internal/store/sqlite"
)

func NewStore(dsn, migrationsDir string) (store.AttendanceStore, error) {
	if migrationsDir == "" {
		migrationsDir = "./migrations"
	}

	dbType := store.DBTypeSQLite
	if strings.HasPrefix(dsn, "postgres") {
		dbType = store.DBTypePostgres
	}

	if dbType == store.DBTypePostgres {
		return postgres.NewPostgresStore(dsn, migrationsDir)
	}
	return sqlite.NewSQLiteStore(dsn, migrationsDir)
}
