package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record is one row of the slot table.
type Record struct {
	Key       string `gorm:"column:slot_key;primaryKey;size:191"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (Record) TableName() string { return "storefront_slots" }

// SQLKV keeps slots in a key/value table.
type SQLKV struct {
	db *gorm.DB
}

// NewSQL migrates the slot table and returns the driver.
func NewSQL(db *gorm.DB) (*SQLKV, error) {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("slots/sql: migrate: %w", err)
	}
	return &SQLKV{db: db}, nil
}

func (s *SQLKV) Get(ctx context.Context, key string) (string, bool, error) {
	var rec Record
	err := s.db.WithContext(ctx).Where("slot_key = ?", key).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("slots/sql: get %s: %w", key, err)
	}
	return rec.Value, true, nil
}

// Set upserts the row so the write is a single statement.
func (s *SQLKV) Set(ctx context.Context, key, value string) error {
	rec := Record{Key: key, Value: value, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("slots/sql: set %s: %w", key, err)
	}
	return nil
}

func (s *SQLKV) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Where("slot_key IN ?", keys).Delete(&Record{}).Error; err != nil {
		return fmt.Errorf("slots/sql: delete: %w", err)
	}
	return nil
}

func (s *SQLKV) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
