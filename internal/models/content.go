package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// JSONMap represents a jsonb column holding open-ended metadata
type JSONMap map[string]interface{}

// Scan implements the sql.Scanner interface
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		if len(v) == 0 {
			*m = JSONMap{}
			return nil
		}
		return json.Unmarshal(v, m)
	case string:
		if v == "" {
			*m = JSONMap{}
			return nil
		}
		return json.Unmarshal([]byte(v), m)
	default:
		return errors.New(fmt.Sprintf("cannot scan %T into JSONMap", value))
	}
}

// Value implements the driver.Valuer interface
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Metadata keys used by the scheduling pipeline. The map stays open for
// platform-specific fields (media URL, tags, visibility, category).
const (
	MetaRetryCount = "retryCount"
	MetaLastError  = "lastError"
	MetaMediaURL   = "mediaUrl"
	MetaTags       = "tags"
	MetaVisibility = "visibility"
	MetaCategory   = "category"
)

// Content status lifecycle. Scheduled is the only non-terminal state.
const (
	StatusScheduled = "scheduled"
	StatusPublished = "published"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

type ScheduledContent struct {
	ID          string         `gorm:"primaryKey;size:64" json:"id"`
	UserID      string         `gorm:"not null;index;size:64" json:"user_id"`
	Title       string         `gorm:"not null;size:500" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Body        string         `gorm:"type:text" json:"body"`
	Platform    Platform       `gorm:"not null;size:50;index" json:"platform"`
	ContentType string         `gorm:"size:50" json:"content_type"`
	Status      string         `gorm:"size:50;default:'scheduled';index" json:"status"`
	ScheduledAt time.Time      `gorm:"not null;index" json:"scheduled_at"`
	PublishedAt *time.Time     `json:"published_at"`
	Metadata    JSONMap        `gorm:"type:jsonb" json:"metadata"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at"`
}

// RetryCount reads the retry counter out of the metadata map. The counter
// starts at 0 and only increases along the retry path.
func (c *ScheduledContent) RetryCount() int {
	if c.Metadata == nil {
		return 0
	}
	switch v := c.Metadata[MetaRetryCount].(type) {
	case int:
		return v
	case float64: // json round-trips numbers as float64
		return int(v)
	}
	return 0
}

func (c *ScheduledContent) SetRetryCount(n int) {
	if c.Metadata == nil {
		c.Metadata = JSONMap{}
	}
	c.Metadata[MetaRetryCount] = n
}

func (c *ScheduledContent) LastError() string {
	if c.Metadata == nil {
		return ""
	}
	if s, ok := c.Metadata[MetaLastError].(string); ok {
		return s
	}
	return ""
}

func (c *ScheduledContent) SetLastError(msg string) {
	if c.Metadata == nil {
		c.Metadata = JSONMap{}
	}
	c.Metadata[MetaLastError] = msg
}
