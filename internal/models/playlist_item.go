package models

import (
	"time"

	"github.com/google/uuid"
)

// PlaylistItem represents one slot in a channel's viewing order.
// The playlist is exclusively owned by its channel and is rebuilt from the
// catalog document on every import, so rows here are cheap and disposable;
// the referenced media items are not.
type PlaylistItem struct {
	ID          uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	ChannelID   uuid.UUID `json:"channel_id" gorm:"type:text;not null;column:channel_id" validate:"required"`
	MediaItemID uuid.UUID `json:"media_item_id" gorm:"type:text;not null;column:media_item_id" validate:"required"`
	Position    int       `json:"position" gorm:"type:integer;not null;column:position" validate:"gte=0"`
	CreatedAt   time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`

	// Populated by Preload on read paths
	MediaItem *MediaItem `json:"media_item,omitempty" gorm:"foreignKey:MediaItemID"`
}

// NewPlaylistItem creates a new PlaylistItem with generated UUID and timestamp
func NewPlaylistItem(channelID, mediaItemID uuid.UUID, position int) *PlaylistItem {
	return &PlaylistItem{
		ID:          uuid.New(),
		ChannelID:   channelID,
		MediaItemID: mediaItemID,
		Position:    position,
		CreatedAt:   time.Now().UTC(),
	}
}
