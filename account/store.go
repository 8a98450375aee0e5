package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormLogger "gorm.io/gorm/logger"
)

// Store is the local key-value store account state lives in.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Entry is one row of the key-value table.
type Entry struct {
	Name      string `gorm:"primaryKey;column:name"`
	Value     string `gorm:"column:value;not null"`
	UpdatedAt time.Time
}

func (Entry) TableName() string { return "kv_entries" }

// SQLStore keeps entries in a SQLite file through gorm.
type SQLStore struct {
	db  *gorm.DB
	log *slog.Logger
}

// OpenSQLStore opens (creating if needed) the SQLite database at path.
func OpenSQLStore(path string, baseLog *slog.Logger) (*SQLStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", path, err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate store: %w", err)
	}
	return NewSQLStore(db, baseLog), nil
}

// NewSQLStore wraps an existing gorm handle. The kv_entries table must exist.
func NewSQLStore(db *gorm.DB, baseLog *slog.Logger) *SQLStore {
	return &SQLStore{db: db, log: baseLog.With("component", "kv-store")}
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	var e Entry
	err := s.db.WithContext(ctx).Where("name = ?", key).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return e.Value, true, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	e := Entry{Name: key, Value: value}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&e).Error
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	s.log.Debug("stored entry", "key", key)
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("name = ?", key).Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	s.log.Debug("deleted entry", "key", key)
	return nil
}

// Close releases the underlying database handle.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
