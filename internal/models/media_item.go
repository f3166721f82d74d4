package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Media source constants
const (
	SourceYouTube = "youtube"
	SourceArchive = "archive"
)

// ValidSource reports whether s is one of the supported stream sources.
func ValidSource(s string) bool {
	return s == SourceYouTube || s == SourceArchive
}

// MediaItem represents one playable stream reference with metadata.
// Each item is owned by exactly one collection. RefID carries the stable id
// declared in the catalog document when the author supplied one; items
// declared without an id are matched by URL within their collection instead.
type MediaItem struct {
	ID             uuid.UUID  `json:"id" gorm:"type:text;primaryKey;column:id"`
	CollectionID   uuid.UUID  `json:"collection_id" gorm:"type:text;not null;index;column:collection_id" validate:"required"`
	RefID          *string    `json:"ref_id,omitempty" gorm:"type:text;column:ref_id"`
	URL            string     `json:"url" gorm:"type:text;not null;column:url" validate:"required"`
	Source         string     `json:"source" gorm:"type:text;not null;column:source" validate:"oneof=youtube archive"`
	RuntimeSeconds *int64     `json:"runtime_seconds,omitempty" gorm:"type:integer;column:runtime_seconds"`
	Network        *string    `json:"network,omitempty" gorm:"type:text;column:network"`
	BroadcastDate  *time.Time `json:"broadcast_date,omitempty" gorm:"type:date;column:broadcast_date"`
	Notes          *string    `json:"notes,omitempty" gorm:"type:text;column:notes"`
	CreatedAt      time.Time  `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:updated_at"`
}

// NewMediaItem creates a new MediaItem with generated UUID and timestamps
func NewMediaItem(collectionID uuid.UUID, url, source string) *MediaItem {
	now := time.Now().UTC()
	return &MediaItem{
		ID:           uuid.New(),
		CollectionID: collectionID,
		URL:          url,
		Source:       source,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// RuntimeString returns the runtime in HH:MM:SS format, or "--:--:--" when
// the item has no runtime recorded.
func (m *MediaItem) RuntimeString() string {
	if m.RuntimeSeconds == nil {
		return "--:--:--"
	}
	secs := *m.RuntimeSeconds
	hours := secs / 3600
	minutes := (secs % 3600) / 60
	seconds := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
