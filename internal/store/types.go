package store

type DatabaseType string

const (
	DBTypePostgres DatabaseType = "postgres"
	DBTypeSQLite   DatabaseType = "sqlite"
)

type DBConfig struct {
	DSN  string
	Type DatabaseType
}

// SessionStats is the aggregate the report endpoints and the bot show.
type SessionStats struct {
	Total  int64 `db:"total" json:"total"`
	OnTime int64 `db:"on_time" json:"on_time"`
	Late   int64 `db:"late" json:"late"`
}

// AttendanceRate is the on-time percentage, rounded down, 0 for empty sessions.
func (s *SessionStats) AttendanceRate() int {
	if s.Total == 0 {
		return 0
	}
	return int(s.OnTime * 100 / s.Total)
}
