package linkedin

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

const defaultBaseURL = "https://api.linkedin.com"

// Publisher posts UGC shares through the LinkedIn REST API.
type Publisher struct {
	logger *zap.Logger
}

func NewLinkedInPublisher(logger *zap.Logger) *Publisher {
	return &Publisher{logger: logger}
}

func (p *Publisher) Platform() models.Platform { return models.PlatformLinkedIn }

func (p *Publisher) Publish(ctx context.Context, content *models.ScheduledContent, creds publisher.Credentials) (*publisher.PostRef, error) {
	baseURL := creds.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	text := content.Body
	if text == "" {
		text = content.Description
	}

	payload := map[string]interface{}{
		"author":         fmt.Sprintf("urn:li:person:%s", creds.AccountID),
		"lifecycleState": "PUBLISHED",
		"specificContent": map[string]interface{}{
			"com.linkedin.ugc.ShareContent": map[string]interface{}{
				"shareCommentary":    map[string]string{"text": text},
				"shareMediaCategory": "NONE",
			},
		},
		"visibility": map[string]string{
			"com.linkedin.ugc.MemberNetworkVisibility": visibility(content),
		},
	}

	status, body, err := publisher.PostJSON(ctx, p.Platform(), baseURL+"/v2/ugcPosts", creds.AccessToken, payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusCreated && status != http.StatusOK {
		return nil, publisher.ClassifyStatus(p.Platform(), status, body)
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.ID == "" {
		return nil, &publisher.Error{Kind: publisher.ErrUnknown, Platform: p.Platform(), Message: "response missing post id"}
	}

	p.logger.Info("LinkedIn post published",
		zap.String("content_id", content.ID),
		zap.String("post_id", resp.ID))

	return &publisher.PostRef{
		PostID:      resp.ID,
		URL:         fmt.Sprintf("https://www.linkedin.com/feed/update/%s", resp.ID),
		PublishedAt: time.Now(),
	}, nil
}

func visibility(content *models.ScheduledContent) string {
	if v, ok := content.Metadata[models.MetaVisibility].(string); ok && v == "connections" {
		return "CONNECTIONS"
	}
	return "PUBLIC"
}
