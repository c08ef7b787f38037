package history

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"feedcheck/internal/models"
)

// ErrNotFound is returned by Fetch when no history entry has the given ID.
var ErrNotFound = errors.New("history entry not found")

// PersistenceError wraps a store failure. History persistence is best-effort:
// callers log it and carry on, validation results are never lost to it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("history %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Store persists completed validation runs. History is append-only; entries
// are never updated after creation.
type Store interface {
	Save(ctx context.Context, entry *models.HistoryEntry) (string, error)
	LoadRecent(ctx context.Context, limit int) ([]models.HistoryEntry, error)
	Fetch(ctx context.Context, id string) (*models.HistoryEntry, error)
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Save(ctx context.Context, entry *models.HistoryEntry) (string, error) {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return "", &PersistenceError{Op: "save", Err: err}
	}
	return entry.ID, nil
}

func (s *GormStore) LoadRecent(ctx context.Context, limit int) ([]models.HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	var entries []models.HistoryEntry
	err := s.db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, &PersistenceError{Op: "load", Err: err}
	}
	return entries, nil
}

func (s *GormStore) Fetch(ctx context.Context, id string) (*models.HistoryEntry, error) {
	var entry models.HistoryEntry
	err := s.db.WithContext(ctx).First(&entry, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, &PersistenceError{Op: "fetch", Err: err}
	}
	return &entry, nil
}

// NewEntry builds an append-only history entry from a completed validation
// run.
func NewEntry(result *models.ValidationResult) *models.HistoryEntry {
	return &models.HistoryEntry{
		FeedID:        result.FeedID,
		TotalProducts: result.TotalItems,
		ValidProducts: result.ValidItemCount,
		Issues:        result.Issues,
		Summary:       result.Summary(),
	}
}
