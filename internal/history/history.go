// Package history is a local journal of submitted transactions, kept in a
// GORM-backed SQLite file next to the wallet configuration. Entries are
// recorded only after the ledger confirms a submission.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InMemoryDSN opens an ephemeral in-memory database, useful for tests.
const InMemoryDSN = ":memory:"

var gormConfig = &gorm.Config{
	Logger: logger.Default.LogMode(logger.Silent),
}

// Entry is one confirmed submission.
type Entry struct {
	ID           uint   `gorm:"primaryKey"`
	Signature    string `gorm:"uniqueIndex;size:96"`
	Kind         string `gorm:"size:32;index"`
	Lamports     uint64
	Counterparty string `gorm:"size:64"`
	CreatedAt    time.Time
}

// Store wraps the journal database.
type Store struct {
	client *gorm.DB
}

// Open opens (or creates) the journal at path and migrates its schema.
func Open(path string) (*Store, error) {
	dsn := path
	if dsn != InMemoryDSN {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
		dsn += "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate history schema: %w", err)
	}
	return &Store{client: db}, nil
}

// Record appends one confirmed submission to the journal.
func (s *Store) Record(e *Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if err := s.client.Create(e).Error; err != nil {
		return fmt.Errorf("failed to record history entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	var entries []Entry
	err := s.client.Order("created_at DESC").Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	return entries, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.client.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
