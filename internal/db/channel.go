// Package db provides database connection management and repository types.
package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sorekai/livetrack/internal/models"
)

// ChannelRepository handles database operations for channels
type ChannelRepository struct {
	db *DB
}

// NewChannelRepository creates a new channel repository
func NewChannelRepository(db *DB) *ChannelRepository {
	return &ChannelRepository{db: db}
}

// ListActive retrieves all channels that are not disabled.
// Disabled channels keep their history but are excluded from every
// listing and sync query.
func (r *ChannelRepository) ListActive(ctx context.Context) ([]models.Channel, error) {
	var channels []models.Channel
	result := r.db.WithContext(ctx).
		Where("disabled = ?", false).
		Find(&channels)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list channels: %w", MapGormError(result.Error))
	}
	return channels, nil
}

// Upsert inserts a channel or replaces the stored row with the same id.
// The write runs in its own transaction.
func (r *ChannelRepository) Upsert(ctx context.Context, channel *models.Channel) error {
	err := r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(channel).Error
	})
	if err != nil {
		return fmt.Errorf("failed to upsert channel: %w", MapGormError(err))
	}
	return nil
}
