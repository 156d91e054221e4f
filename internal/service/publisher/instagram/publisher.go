package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Tejaswini280/creater-AI-sub008/internal/models"
	"github.com/Tejaswini280/creater-AI-sub008/internal/service/publisher"
)

const defaultBaseURL = "https://graph.facebook.com/v19.0"

// Publisher posts media through the Instagram Graph API. Publishing is a
// two-step flow: create a media container, then publish the container.
type Publisher struct {
	logger *zap.Logger
}

func NewInstagramPublisher(logger *zap.Logger) *Publisher {
	return &Publisher{logger: logger}
}

func (p *Publisher) Platform() models.Platform { return models.PlatformInstagram }

func (p *Publisher) Publish(ctx context.Context, content *models.ScheduledContent, creds publisher.Credentials) (*publisher.PostRef, error) {
	baseURL := creds.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	mediaURL, _ := content.Metadata[models.MetaMediaURL].(string)
	if mediaURL == "" {
		return nil, &publisher.Error{
			Kind:     publisher.ErrValidation,
			Platform: p.Platform(),
			Message:  "instagram content requires a media url",
		}
	}

	caption := content.Body
	if caption == "" {
		caption = content.Description
	}

	// Step 1: create the media container
	containerURL := fmt.Sprintf("%s/%s/media", baseURL, creds.AccountID)
	payload := map[string]interface{}{
		"image_url": mediaURL,
		"caption":   caption,
	}
	if content.ContentType == "reel" {
		payload = map[string]interface{}{
			"media_type": "REELS",
			"video_url":  mediaURL,
			"caption":    caption,
		}
	}

	status, body, err := publisher.PostJSON(ctx, p.Platform(), containerURL, creds.AccessToken, payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, publisher.ClassifyStatus(p.Platform(), status, body)
	}

	var container struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &container); err != nil || container.ID == "" {
		return nil, &publisher.Error{Kind: publisher.ErrUnknown, Platform: p.Platform(), Message: "response missing container id"}
	}

	// Step 2: publish the container
	publishURL := fmt.Sprintf("%s/%s/media_publish", baseURL, creds.AccountID)
	status, body, err = publisher.PostJSON(ctx, p.Platform(), publishURL, creds.AccessToken,
		map[string]string{"creation_id": container.ID})
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, publisher.ClassifyStatus(p.Platform(), status, body)
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.ID == "" {
		return nil, &publisher.Error{Kind: publisher.ErrUnknown, Platform: p.Platform(), Message: "response missing media id"}
	}

	p.logger.Info("Instagram media published",
		zap.String("content_id", content.ID),
		zap.String("media_id", resp.ID))

	return &publisher.PostRef{
		PostID:      resp.ID,
		PublishedAt: time.Now(),
	}, nil
}
