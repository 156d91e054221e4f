package scheduler

import (
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/Tejaswini280/creater-AI-sub008/internal/models"
)

// Draft is the caller-supplied description of content to schedule.
type Draft struct {
	UserID      string                 `json:"user_id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Body        string                 `json:"body"`
	Platform    string                 `json:"platform"`
	ContentType string                 `json:"content_type"`
	ScheduledAt time.Time              `json:"scheduled_at"`
	Metadata    map[string]interface{} `json:"metadata"`
}

func (d Draft) Validate() error {
	err := validation.ValidateStruct(&d,
		validation.Field(&d.UserID, validation.Required),
		validation.Field(&d.Title, validation.Required, validation.Length(1, 500)),
		validation.Field(&d.Platform, validation.Required, validation.By(platformRule)),
		validation.Field(&d.ScheduledAt, validation.Required, validation.By(futureRule)),
		validation.Field(&d.Body, validation.Required.When(d.Description == "").Error("body or description is required")),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

func platformRule(value interface{}) error {
	s, _ := value.(string)
	if _, err := models.ParsePlatform(s); err != nil {
		return err
	}
	return nil
}

// Past target times are rejected rather than fired immediately, so the
// audit trail never shows a record scheduled before it was created.
func futureRule(value interface{}) error {
	t, _ := value.(time.Time)
	if !t.After(time.Now()) {
		return errors.New("must be in the future")
	}
	return nil
}
