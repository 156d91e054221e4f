package store

import (
	"errors"

	"github.com/Tejaswini280/creater-AI-sub008/internal/models"
)

// ErrNotFound reports a missing content record.
var ErrNotFound = errors.New("content not found")

// ScheduleStore is the narrow persistence contract the scheduler consumes.
// The durable store is the source of truth across restarts; the in-memory
// job registry is a derived cache rebuilt from it.
type ScheduleStore interface {
	Insert(record *models.ScheduledContent) error
	Update(id string, patch map[string]interface{}) error
	GetByID(id string) (*models.ScheduledContent, error)
	QueryByStatus(status string, userID string) ([]models.ScheduledContent, error)
	GetAll() ([]models.ScheduledContent, error)

	// Columns returns the set of column names present on the content table,
	// used for fail-fast schema validation at startup.
	Columns() ([]string, error)
}
