package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistoryEntry is one completed validation run. Append-only: entries are
// never mutated after creation.
type HistoryEntry struct {
	ID            string            `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FeedID        string            `json:"feed_id" gorm:"not null;index"`
	Timestamp     time.Time         `json:"timestamp" gorm:"not null"`
	TotalProducts int               `json:"total_products"`
	ValidProducts int               `json:"valid_products"`
	Issues        []Issue           `json:"issues" gorm:"serializer:json"`
	Summary       map[IssueType]int `json:"summary" gorm:"serializer:json"`
	CreatedAt     time.Time         `json:"created_at"`
}

func (HistoryEntry) TableName() string {
	return "validation_history"
}

func (h *HistoryEntry) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	if h.Timestamp.IsZero() {
		h.Timestamp = time.Now().UTC()
	}
	return nil
}
