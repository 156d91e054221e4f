package tiktok

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Tejaswini280/creater-AI-sub008/internal/models"
	"github.com/Tejaswini280/creater-AI-sub008/internal/service/publisher"
)

const defaultBaseURL = "https://open.tiktokapis.com"

// Publisher initiates video posts via the TikTok Content Posting API,
// pulling media from the URL recorded in content metadata.
type Publisher struct {
	logger *zap.Logger
}

func NewTikTokPublisher(logger *zap.Logger) *Publisher {
	return &Publisher{logger: logger}
}

func (p *Publisher) Platform() models.Platform { return models.PlatformTikTok }

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
			Message:  "tiktok content requires a media url",
		}
	}

	payload := map[string]interface{}{
		"post_info": map[string]interface{}{
			"title":           content.Title,
			"privacy_level":   privacyLevel(content),
			"disable_comment": false,
		},
		"source_info": map[string]interface{}{
			"source":    "PULL_FROM_URL",
			"video_url": mediaURL,
		},
	}

	url := baseURL + "/v2/post/publish/video/init/"
	status, body, err := publisher.PostJSON(ctx, p.Platform(), url, creds.AccessToken, payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, publisher.ClassifyStatus(p.Platform(), status, body)
	}

	var resp struct {
		Data struct {
			PublishID string `json:"publish_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.Data.PublishID == "" {
		return nil, &publisher.Error{Kind: publisher.ErrUnknown, Platform: p.Platform(), Message: "response missing publish id"}
	}

	p.logger.Info("TikTok post initiated",
		zap.String("content_id", content.ID),
		zap.String("publish_id", resp.Data.PublishID))

	return &publisher.PostRef{
		PostID:      resp.Data.PublishID,
		PublishedAt: time.Now(),
	}, nil
}

func privacyLevel(content *models.ScheduledContent) string {
	if v, ok := content.Metadata[models.MetaVisibility].(string); ok && v == "private" {
		return "SELF_ONLY"
	}
	return "PUBLIC_TO_EVERYONE"
}
