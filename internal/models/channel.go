package models

import (
	"time"

	"github.com/google/uuid"
)

// Channel represents a user-facing broadcast channel entity.
// Number is the human-assigned dial position ("1980", "7") and is the
// channel's stable identity across imports; it never changes once created.
type Channel struct {
	ID          uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	Number      string    `json:"number" gorm:"type:text;not null;uniqueIndex;column:number" validate:"required"`
	Name        string    `json:"name" gorm:"type:text;not null;column:name" validate:"required,min=1,max=255"`
	Group       *string   `json:"group,omitempty" gorm:"type:text;column:group_name"`
	Description *string   `json:"description,omitempty" gorm:"type:text;column:description"`
	// No gorm default tag: a default would make GORM drop Enabled from the
	// INSERT when it is false, letting the schema default overwrite it.
	Enabled     bool      `json:"enabled" gorm:"type:integer;not null;column:enabled"`
	CreatedAt   time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:updated_at"`
}

// NewChannel creates a new Channel with generated UUID and timestamps
func NewChannel(number, name string) *Channel {
	now := time.Now().UTC()
	return &Channel{
		ID:        uuid.New(),
		Number:    number,
		Name:      name,
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
