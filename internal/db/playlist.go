package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/statichead/rabbitears/internal/models"
	"gorm.io/gorm"
)

// PlaylistItemRepository handles database operations for playlist items
type PlaylistItemRepository struct {
	db *DB
}

// NewPlaylistItemRepository creates a new playlist item repository
func NewPlaylistItemRepository(db *DB) *PlaylistItemRepository {
	return &PlaylistItemRepository{db: db}
}

// GetByChannelID retrieves all playlist items for a channel, ordered by position
func (r *PlaylistItemRepository) GetByChannelID(ctx context.Context, channelID uuid.UUID) ([]*models.PlaylistItem, error) {
	var items []*models.PlaylistItem
	result := r.db.WithContext(ctx).
		Where("channel_id = ?", channelID.String()).
		Order("position ASC").
		Find(&items)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get playlist items by channel: %w", MapGormError(result.Error))
	}
	return items, nil
}

// GetWithMedia retrieves playlist items for a channel with joined media data
func (r *PlaylistItemRepository) GetWithMedia(ctx context.Context, channelID uuid.UUID) ([]*models.PlaylistItem, error) {
	var items []*models.PlaylistItem
	result := r.db.WithContext(ctx).
		Where("channel_id = ?", channelID.String()).
		Preload("MediaItem").
		Order("position ASC").
		Find(&items)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get playlist items with media: %w", MapGormError(result.Error))
	}
	return items, nil
}

// Replace swaps a channel's playlist for the given items in one transaction.
// The import pipeline rebuilds playlists wholesale because the document
// declares the viewing order exhaustively.
func (r *PlaylistItemRepository) Replace(ctx context.Context, channelID uuid.UUID, items []*models.PlaylistItem) error {
	return r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		return ReplacePlaylistTx(tx, channelID, items)
	})
}

// ReplacePlaylistTx performs the playlist rebuild on an existing transaction.
// Exposed so the import orchestrator can fold the rebuild into its own
// per-channel transaction.
func ReplacePlaylistTx(tx *gorm.DB, channelID uuid.UUID, items []*models.PlaylistItem) error {
	result := tx.Where("channel_id = ?", channelID.String()).Delete(&models.PlaylistItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to clear playlist: %w", MapGormError(result.Error))
	}

	if len(items) == 0 {
		return nil
	}

	// Single batch INSERT with GORM
	if err := tx.Create(&items).Error; err != nil {
		return fmt.Errorf("failed to create playlist items: %w", MapGormError(err))
	}
	return nil
}

// CountByChannelID returns the number of playlist entries for a channel
func (r *PlaylistItemRepository) CountByChannelID(ctx context.Context, channelID uuid.UUID) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&models.PlaylistItem{}).
		Where("channel_id = ?", channelID.String()).
		Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count playlist items: %w", MapGormError(result.Error))
	}
	return count, nil
}
