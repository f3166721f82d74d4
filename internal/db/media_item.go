package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/statichead/rabbitears/internal/models"
)

// MediaItemRepository handles database operations for media items
type MediaItemRepository struct {
	db *DB
}

// NewMediaItemRepository creates a new media item repository
func NewMediaItemRepository(db *DB) *MediaItemRepository {
	return &MediaItemRepository{db: db}
}

// Create inserts a new media item into the database
func (r *MediaItemRepository) Create(ctx context.Context, item *models.MediaItem) error {
	result := r.db.WithContext(ctx).Create(item)
	if result.Error != nil {
		return fmt.Errorf("failed to create media item: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a media item by its UUID
func (r *MediaItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.MediaItem, error) {
	var item models.MediaItem
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&item)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &item, nil
}

// GetByRefID retrieves a media item by its document-supplied stable id within
// one collection
func (r *MediaItemRepository) GetByRefID(ctx context.Context, collectionID uuid.UUID, refID string) (*models.MediaItem, error) {
	var item models.MediaItem
	result := r.db.WithContext(ctx).
		Where("collection_id = ? AND ref_id = ?", collectionID.String(), refID).
		First(&item)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &item, nil
}

// GetByURL retrieves a media item by its source URL within one collection.
// Used as the fallback identity for document entries that omit an id.
func (r *MediaItemRepository) GetByURL(ctx context.Context, collectionID uuid.UUID, url string) (*models.MediaItem, error) {
	var item models.MediaItem
	result := r.db.WithContext(ctx).
		Where("collection_id = ? AND url = ?", collectionID.String(), url).
		First(&item)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &item, nil
}

// ListByCollection retrieves all media items in a collection ordered by
// creation date (oldest first, matching declaration order within one import)
func (r *MediaItemRepository) ListByCollection(ctx context.Context, collectionID uuid.UUID) ([]*models.MediaItem, error) {
	var items []*models.MediaItem
	result := r.db.WithContext(ctx).
		Where("collection_id = ?", collectionID.String()).
		Order("created_at ASC").
		Find(&items)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list media items by collection: %w", MapGormError(result.Error))
	}
	return items, nil
}

// Update updates an existing media item
// Note: Uses map-based updates to support setting fields to zero values
func (r *MediaItemRepository) Update(ctx context.Context, item *models.MediaItem) error {
	updates := map[string]interface{}{
		"url":             item.URL,
		"runtime_seconds": item.RuntimeSeconds,
		"network":         item.Network,
		"broadcast_date":  item.BroadcastDate,
		"notes":           item.Notes,
		"updated_at":      item.UpdatedAt,
	}

	result := r.db.WithContext(ctx).Model(&models.MediaItem{}).Where("id = ?", item.ID.String()).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update media item: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deletes a media item by its UUID
func (r *MediaItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&models.MediaItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete media item: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the total number of media items
func (r *MediaItemRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.MediaItem{}).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count media items: %w", MapGormError(result.Error))
	}
	return count, nil
}

// CountByCollection returns the number of media items in one collection
func (r *MediaItemRepository) CountByCollection(ctx context.Context, collectionID uuid.UUID) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&models.MediaItem{}).
		Where("collection_id = ?", collectionID.String()).
		Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count media items by collection: %w", MapGormError(result.Error))
	}
	return count, nil
}
