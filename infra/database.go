// Package infra wires the local durable medium: a SQLite database accessed
// through GORM, holding the entity tables and the backup log.
package infra

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	infrarepo "github.com/ulwww/fintrack/infra/repository"
)

// NewDBConnection opens (and migrates) the local SQLite database. The
// connection pool is capped at a single connection so all storage access
// serializes through one point; contention is low on a single device and
// this rules out interleaved writes.
func NewDBConnection(path string, debug bool) (*gorm.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is not set")
	}

	logMode := logger.Silent
	if debug {
		logMode = logger.Info
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logMode),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&infrarepo.AccountRow{},
		&infrarepo.CategoryRow{},
		&infrarepo.TransactionRow{},
		&infrarepo.BackupRow{},
	); err != nil {
		return nil, err
	}
	return db, nil
}
