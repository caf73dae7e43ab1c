package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Property is the persisted form of a registry entry.
type Property struct {
	Key       string `gorm:"primaryKey;size:191"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

// TableName pins the table name independently of gorm naming strategies.
func (Property) TableName() string {
	return "registry_properties"
}

// Store is a Registry backed by a database table.
type Store struct {
	db *gorm.DB
}

// NewStore creates a database-backed registry. Call Migrate once before use.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the registry table if needed.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&Property{})
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var p Property
	err := s.db.WithContext(ctx).Where("`key` = ?", key).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read registry key %s: %w", key, err)
	}
	return p.Value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	p := Property{Key: key, Value: value, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&p).Error
	if err != nil {
		return fmt.Errorf("failed to write registry key %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("`key` = ?", key).Delete(&Property{}).Error; err != nil {
		return fmt.Errorf("failed to delete registry key %s: %w", key, err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	err := s.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&Property{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear registry: %w", err)
	}
	return nil
}

func (s *Store) All(ctx context.Context) (map[string]string, error) {
	var props []Property
	if err := s.db.WithContext(ctx).Find(&props).Error; err != nil {
		return nil, fmt.Errorf("failed to list registry: %w", err)
	}
	out := make(map[string]string, len(props))
	for _, p := range props {
		out[p.Key] = p.Value
	}
	return out, nil
}
