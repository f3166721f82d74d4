package db

import (
	"context"
	"fmt"

	"github.com/statichead/rabbitears/internal/models"
)

// ImportRunRepository handles database operations for import run history
type ImportRunRepository struct {
	db *DB
}

// NewImportRunRepository creates a new import run repository
func NewImportRunRepository(db *DB) *ImportRunRepository {
	return &ImportRunRepository{db: db}
}

// Create inserts a new import run record
func (r *ImportRunRepository) Create(ctx context.Context, run *models.ImportRun) error {
	result := r.db.WithContext(ctx).Create(run)
	if result.Error != nil {
		return fmt.Errorf("failed to create import run: %w", MapGormError(result.Error))
	}
	return nil
}

// List retrieves import runs ordered by start time (newest first)
func (r *ImportRunRepository) List(ctx context.Context, limit int) ([]*models.ImportRun, error) {
	var runs []*models.ImportRun
	query := r.db.WithContext(ctx).Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	result := query.Find(&runs)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list import runs: %w", MapGormError(result.Error))
	}
	return runs, nil
}
