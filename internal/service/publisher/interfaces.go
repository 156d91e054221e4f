package publisher

import (
	"context"
	"fmt"
	"time"

	"github.com/Tejaswini280/creater-AI-sub008/internal/models"
)

// ErrorKind classifies a publish failure for the retry policy.
type ErrorKind string

const (
	ErrAuth             ErrorKind = "auth_error"
	ErrRateLimited      ErrorKind = "rate_limited"
	ErrValidation       ErrorKind = "validation_error"
	ErrTransientNetwork ErrorKind = "transient_network_error"
	ErrUnknown          ErrorKind = "unknown_error"
)

// Error is the classified failure every platform publisher returns.
type Error struct {
	Kind     ErrorKind
	Platform models.Platform
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s publish failed (%s): %s", e.Platform, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s publish failed (%s): %v", e.Platform, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether the failure may succeed on a later attempt.
// Malformed content stays malformed, so validation failures never retry.
func (e *Error) Retryable() bool {
	return e.Kind != ErrValidation
}

// Credentials carries the per-platform account authorization for one call.
type Credentials struct {
	AccessToken string
	AccountID   string
	BaseURL     string
}

// PostRef identifies the published post on the target platform.
type PostRef struct {
	PostID      string    `json:"post_id"`
	URL         string    `json:"url,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// Publisher is the uniform contract for all platform publish operations.
type Publisher interface {
	Platform() models.Platform
	Publish(ctx context.Context, content *models.ScheduledContent, creds Credentials) (*PostRef, error)
}
