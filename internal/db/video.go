package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sorekai/livetrack/internal/models"
)

// upcomingLimit caps the upcoming-video listing. Only the soonest ten
// non-ended videos are ever surfaced.
const upcomingLimit = 10

// VideoRepository handles database operations for videos
type VideoRepository struct {
	db *DB
}

// NewVideoRepository creates a new video repository
func NewVideoRepository(db *DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// ListUpcoming retrieves videos that have not ended, joined with the owning
// channel's name, ordered by scheduled time. A nil channelID spans all
// channels. Videos whose channel row is missing are not visible through
// this query.
func (r *VideoRepository) ListUpcoming(ctx context.Context, channelID *string) ([]models.UpcomingVideo, error) {
	query := r.db.WithContext(ctx).
		Table("videos").
		Select("videos.*, channels.name AS channel_name").
		Joins("INNER JOIN channels ON videos.channel_id = channels.id").
		Where("videos.end_time IS NULL")

	if channelID != nil {
		query = query.Where("videos.channel_id = ?", *channelID)
	}

	var videos []models.UpcomingVideo
	result := query.
		Order("videos.scheduled_time ASC").
		Limit(upcomingLimit).
		Scan(&videos)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list upcoming videos: %w", MapGormError(result.Error))
	}
	return videos, nil
}

// UpsertBatch inserts or replaces every video in a single transaction.
// Either the whole batch commits or none of it does.
func (r *VideoRepository) UpsertBatch(ctx context.Context, videos []models.Video) error {
	if len(videos) == 0 {
		return nil
	}

	err := r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		for i := range videos {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).Create(&videos[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to upsert videos: %w", MapGormError(err))
	}
	return nil
}

// DeleteBatch deletes every video id in a single transaction.
func (r *VideoRepository) DeleteBatch(ctx context.Context, videoIDs []string) error {
	if len(videoIDs) == 0 {
		return nil
	}

	err := r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		for _, id := range videoIDs {
			if err := tx.Where("id = ?", id).Delete(&models.Video{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete videos: %w", MapGormError(err))
	}
	return nil
}
