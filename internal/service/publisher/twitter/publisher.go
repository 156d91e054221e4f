package twitter

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

const (
	defaultBaseURL = "https://api.twitter.com"
	maxTweetLength = 280
)

// Publisher posts tweets via the X API v2.
type Publisher struct {
	logger *zap.Logger
}

func NewTwitterPublisher(logger *zap.Logger) *Publisher {
	return &Publisher{logger: logger}
}

func (p *Publisher) Platform() models.Platform { return models.PlatformTwitter }

func (p *Publisher) Publish(ctx context.Context, content *models.ScheduledContent, creds publisher.Credentials) (*publisher.PostRef, error) {
	baseURL := creds.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	text := content.Body
	if text == "" {
		text = content.Description
	}
	if len(text) > maxTweetLength {
		return nil, &publisher.Error{
			Kind:     publisher.ErrValidation,
			Platform: p.Platform(),
			Message:  fmt.Sprintf("tweet text exceeds %d characters", maxTweetLength),
		}
	}

	status, body, err := publisher.PostJSON(ctx, p.Platform(), baseURL+"/2/tweets", creds.AccessToken,
		map[string]string{"text": text})
	if err != nil {
		return nil, err
	}
	if status != http.StatusCreated {
		return nil, publisher.ClassifyStatus(p.Platform(), status, body)
	}

	var resp struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.Data.ID == "" {
		return nil, &publisher.Error{Kind: publisher.ErrUnknown, Platform: p.Platform(), Message: "response missing tweet id"}
	}

	p.logger.Info("Tweet published",
		zap.String("content_id", content.ID),
		zap.String("tweet_id", resp.Data.ID))

	return &publisher.PostRef{
		PostID:      resp.Data.ID,
		URL:         fmt.Sprintf("https://twitter.com/i/web/status/%s", resp.Data.ID),
		PublishedAt: time.Now(),
	}, nil
}
