package models

import (
	"time"

	"github.com/google/uuid"
)

// Import run status constants
const (
	ImportStatusSucceeded = "succeeded"
	ImportStatusPartial   = "partial"
	ImportStatusFailed    = "failed"
)

// ImportRun records one execution of the catalog import pipeline. Runs are
// append-only history; they exist so operators can see what the last import
// did without digging through logs.
type ImportRun struct {
	ID                 uuid.UUID  `json:"id" gorm:"type:text;primaryKey;column:id"`
	DocumentPath       string     `json:"document_path" gorm:"type:text;column:document_path"`
	ChannelsImported   int        `json:"channels_imported" gorm:"type:integer;not null;column:channels_imported"`
	ChannelsFailed     int        `json:"channels_failed" gorm:"type:integer;not null;column:channels_failed"`
	CollectionsCreated int        `json:"collections_created" gorm:"type:integer;not null;column:collections_created"`
	ItemsCreated       int        `json:"items_created" gorm:"type:integer;not null;column:items_created"`
	ItemsUpdated       int        `json:"items_updated" gorm:"type:integer;not null;column:items_updated"`
	Status             string     `json:"status" gorm:"type:text;not null;column:status" validate:"oneof=succeeded partial failed"`
	Detail             *string    `json:"detail,omitempty" gorm:"type:text;column:detail"`
	StartedAt          time.Time  `json:"started_at" gorm:"type:datetime;not null;column:started_at"`
	FinishedAt         *time.Time `json:"finished_at,omitempty" gorm:"type:datetime;column:finished_at"`
}

// NewImportRun creates a new ImportRun stamped with the current time
func NewImportRun(documentPath string) *ImportRun {
	return &ImportRun{
		ID:           uuid.New(),
		DocumentPath: documentPath,
		Status:       ImportStatusFailed,
		StartedAt:    time.Now().UTC(),
	}
}
