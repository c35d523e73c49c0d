package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/narvaro/internal/app"
	"github.com/shrimpsizemoose/narvaro/internal/report"
	"github.com/shrimpsizemoose/narvaro/internal/store"
)

// CSVExporter periodically dumps every session's attendance ledger to CSV
// files, one file per session, named after course and date.
type CSVExporter struct {
	config    *app.Config
	store     store.AttendanceStore
	scheduler *gocron.Scheduler
}

func NewCSVExporter(config *app.Config, store store.AttendanceStore) (*CSVExporter, error) {
	if config.Export.Dir == "" {
		return nil, fmt.Errorf("export dir is not configured")
	}
	if config.Export.Schedule == "" {
		return nil, fmt.Errorf("export schedule is not configured")
	}
	if err := os.MkdirAll(config.Export.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export dir: %w", err)
	}

	scheduler := gocron.NewScheduler(time.UTC)
	exporter := &CSVExporter{
		config:    config,
		store:     store,
		scheduler: scheduler,
	}

	if _, err := scheduler.Cron(config.Export.Schedule).Do(func() {
		if err := exporter.Export(); err != nil {
			logger.Error.Printf("Export failed: %v", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("failed to schedule export: %w", err)
	}

	scheduler.StartAsync()
	return exporter, nil
}

func (e *CSVExporter) Export() error {
	sessions, err := e.store.ListAllSessions()
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	for _, session := range sessions {
		records, err := e.store.ListRecords(session.ID)
		if err != nil {
			return fmt.Errorf("failed to list records for %s: %w", session.ID, err)
		}
		if len(records) == 0 {
			continue
		}

		name := fmt.Sprintf("attendance-%s-%s-%s.csv", session.CourseCode, session.SessionDate, session.ID)
		path := filepath.Join(e.config.Export.Dir, name)

		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		if err := report.WriteCSV(f, records); err != nil {
			f.Close()
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close %s: %w", path, err)
		}
	}

	logger.Info.Printf("Exported %d sessions to %s", len(sessions), e.config.Export.Dir)
	return nil
}

func (e *CSVExporter) Stop() {
	e.scheduler.Stop()
}
