package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// WithTransaction executes a function within a database transaction.
// The transaction is committed if the function returns nil and rolled back
// if it returns an error or panics. The import pipeline relies on this for
// its per-channel atomicity: one failed channel rolls back only itself.
func (db *DB) WithTransaction(ctx context.Context, fn func(*gorm.DB) error) error {
	return db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := fn(tx); err != nil {
			return fmt.Errorf("transaction error: %w", err)
		}
		return nil
	})
}
