package repository

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"task-tracker/internal/model"
)

// DefaultDSN is the SQLite file used when no database URL is configured.
const DefaultDSN = "tasks.db"

// NewDB opens the task database, creating its directory when needed, and
// migrates the task and subscriber tables. Slow or failing queries are
// logged to stderr so command output on stdout stays machine readable.
func NewDB(dsn string) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		dsn = DefaultDSN
	}

	if file, onDisk := sqliteFile(dsn); onDisk {
		if dir := filepath.Dir(file); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db dir %q: %w", dir, err)
			}
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.New(
			log.New(os.Stderr, "[gorm] ", log.LstdFlags),
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("open db %s: %w", dsn, err)
	}

	if err := db.AutoMigrate(&model.Task{}, &model.Subscriber{}); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	return db, nil
}

// sqliteFile extracts the file path from a SQLite DSN. onDisk is false for
// in-memory databases.
func sqliteFile(dsn string) (file string, onDisk bool) {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return "", false
	}
	file, _, _ = strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
	return file, file != ""
}
