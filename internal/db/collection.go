package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/statichead/rabbitears/internal/models"
)

// CollectionRepository handles database operations for collections
type CollectionRepository struct {
	db *DB
}

// NewCollectionRepository creates a new collection repository
func NewCollectionRepository(db *DB) *CollectionRepository {
	return &CollectionRepository{db: db}
}

// CollectionSummary pairs a collection with the number of media items it owns
type CollectionSummary struct {
	models.Collection
	ItemCount int64 `json:"item_count" gorm:"column:item_count"`
}

// Create inserts a new collection into the database
func (r *CollectionRepository) Create(ctx context.Context, collection *models.Collection) error {
	result := r.db.WithContext(ctx).Create(collection)
	if result.Error != nil {
		return fmt.Errorf("failed to create collection: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a collection by its UUID
func (r *CollectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Collection, error) {
	var collection models.Collection
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&collection)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &collection, nil
}

// GetByName retrieves a collection by its exact name. Collection names are
// case-sensitive, which SQLite's default BINARY collation gives us for free.
func (r *CollectionRepository) GetByName(ctx context.Context, name string) (*models.Collection, error) {
	var collection models.Collection
	result := r.db.WithContext(ctx).Where("name = ?", name).First(&collection)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &collection, nil
}

// List retrieves all collections ordered by name
func (r *CollectionRepository) List(ctx context.Context) ([]*models.Collection, error) {
	var collections []*models.Collection
	result := r.db.WithContext(ctx).Order("name ASC").Find(&collections)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list collections: %w", MapGormError(result.Error))
	}
	return collections, nil
}

// ListWithCounts retrieves all collections with their media item counts
func (r *CollectionRepository) ListWithCounts(ctx context.Context) ([]*CollectionSummary, error) {
	var summaries []*CollectionSummary
	result := r.db.WithContext(ctx).
		Model(&models.Collection{}).
		Select("collections.*, COUNT(media_items.id) AS item_count").
		Joins("LEFT JOIN media_items ON media_items.collection_id = collections.id").
		Group("collections.id").
		Order("collections.name ASC").
		Find(&summaries)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list collections with counts: %w", MapGormError(result.Error))
	}
	return summaries, nil
}

// Count returns the total number of collections
func (r *CollectionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Collection{}).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count collections: %w", MapGormError(result.Error))
	}
	return count, nil
}
