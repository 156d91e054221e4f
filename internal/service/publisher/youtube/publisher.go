package youtube

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

const defaultBaseURL = "https://www.googleapis.com/youtube/v3"

// Publisher creates video posts via the YouTube Data API. The media itself
// is pulled from the URL recorded in content metadata.
type Publisher struct {
	logger *zap.Logger
}

func NewYouTubePublisher(logger *zap.Logger) *Publisher {
	return &Publisher{logger: logger}
}

func (p *Publisher) Platform() models.Platform { return models.PlatformYouTube }

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
			Message:  "youtube content requires a media url",
		}
	}

	snippet := map[string]interface{}{
		"title":       content.Title,
		"description": content.Description,
	}
	if tags, ok := content.Metadata[models.MetaTags].([]interface{}); ok {
		snippet["tags"] = tags
	}
	if category, ok := content.Metadata[models.MetaCategory].(string); ok {
		snippet["categoryId"] = category
	}

	payload := map[string]interface{}{
		"snippet": snippet,
		"status":  map[string]string{"privacyStatus": privacy(content)},
		"media":   map[string]string{"sourceUrl": mediaURL},
	}

	url := baseURL + "/videos?part=snippet,status"
	status, body, err := publisher.PostJSON(ctx, p.Platform(), url, creds.AccessToken, payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return nil, publisher.ClassifyStatus(p.Platform(), status, body)
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.ID == "" {
		return nil, &publisher.Error{Kind: publisher.ErrUnknown, Platform: p.Platform(), Message: "response missing video id"}
	}

	p.logger.Info("YouTube video published",
		zap.String("content_id", content.ID),
		zap.String("video_id", resp.ID))

	return &publisher.PostRef{
		PostID:      resp.ID,
		URL:         fmt.Sprintf("https://www.youtube.com/watch?v=%s", resp.ID),
		PublishedAt: time.Now(),
	}, nil
}

func privacy(content *models.ScheduledContent) string {
	if v, ok := content.Metadata[models.MetaVisibility].(string); ok {
		switch v {
		case "private":
			return "private"
		case "unlisted":
			return "unlisted"
		}
	}
	return "public"
}
