package models

import (
	"time"

	"github.com/google/uuid"
)

// Collection represents a named, reusable grouping of media items.
// Collections are shared: several channels may draw their playlists from the
// same collection, and a collection outlives any channel that references it.
// Name matching is case-sensitive ("Winter Olympics" != "winter olympics").
type Collection struct {
	ID        uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	Name      string    `json:"name" gorm:"type:text;not null;uniqueIndex;column:name" validate:"required"`
	CreatedAt time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:updated_at"`
}

// NewCollection creates a new Collection with generated UUID and timestamps
func NewCollection(name string) *Collection {
	now := time.Now().UTC()
	return &Collection{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
