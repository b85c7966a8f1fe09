package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record is one persisted value. The value is a full JSON snapshot of the
// owning store's state, replaced wholesale on every write.
type Record struct {
	Key       string `gorm:"primaryKey"`
	Value     []byte `gorm:"not null"`
	UpdatedAt time.Time
}

func (Record) TableName() string {
	return "records"
}

type GormStore struct {
	DB *gorm.DB
}

// Open connects to postgres when dsn is non-empty, otherwise to a local
// sqlite file at path. The records table is migrated on open.
func Open(ctx context.Context, dsn, path string) (*GormStore, error) {
	var dialector gorm.Dialector
	if dsn != "" {
		dialector = postgres.Open(dsn)
	} else {
		if path == "" {
			return nil, fmt.Errorf("storage path is empty")
		}
		dialector = sqlite.Open(path)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("подключение к хранилищу: %w", err)
	}
	if err := db.WithContext(ctx).AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("миграция хранилища: %w", err)
	}
	return &GormStore{DB: db}, nil
}

func (s *GormStore) Get(ctx context.Context, key string) ([]byte, error) {
	var rec Record
	if err := s.DB.WithContext(ctx).First(&rec, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec.Value, nil
}

func (s *GormStore) Set(ctx context.Context, key string, value []byte) error {
	rec := Record{Key: key, Value: value}
	return s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&rec).Error
}

func (s *GormStore) Remove(ctx context.Context, key string) error {
	return s.DB.WithContext(ctx).Delete(&Record{}, "key = ?", key).Error
}

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
