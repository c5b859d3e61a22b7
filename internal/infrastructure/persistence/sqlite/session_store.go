package sqlite

import (
	"context"
	"errors"
	"fmt"

	gormModels "github.com/alchemorsel/recipeweb/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/recipeweb/internal/ports/outbound"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionStore persists session values in SQLite so a login survives restarts
type SessionStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

var _ outbound.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a session store on a migrated database
func NewSessionStore(db *gorm.DB, logger *zap.Logger) *SessionStore {
	return &SessionStore{
		db:     db,
		logger: logger.Named("sqlite-session-store"),
	}
}

// Get retrieves a value
func (s *SessionStore) Get(ctx context.Context, key string) (string, bool, error) {
	var entry gormModels.SessionEntryModel
	err := s.db.WithContext(ctx).Where("name = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		s.logger.Error("Session get failed", zap.String("key", key), zap.Error(err))
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return entry.Value, true, nil
}

// Set inserts or replaces a value
func (s *SessionStore) Set(ctx context.Context, key, value string) error {
	entry := gormModels.SessionEntryModel{Key: key, Value: value}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		s.logger.Error("Session set failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Clear removes the given keys
func (s *SessionStore) Clear(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	err := s.db.WithContext(ctx).Where("name IN ?", keys).Delete(&gormModels.SessionEntryModel{}).Error
	if err != nil {
		s.logger.Error("Session clear failed", zap.Strings("keys", keys), zap.Error(err))
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
