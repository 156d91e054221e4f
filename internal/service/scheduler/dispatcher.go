package scheduler

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Tejaswini280/creater-AI-sub008/internal/models"
	"github.com/Tejaswini280/creater-AI-sub008/internal/service/publisher"
)

// Dispatcher routes a content snapshot to its platform publisher and owns
// the uniform classification boundary around the network call. It never
// decides whether to retry; that belongs to the backoff policy.
type Dispatcher struct {
	registry    *publisher.Registry
	credentials map[models.Platform]publisher.Credentials
	timeout     time.Duration
	logger      *zap.Logger
}

func NewDispatcher(registry *publisher.Registry, credentials map[models.Platform]publisher.Credentials, timeout time.Duration, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		registry:    registry,
		credentials: credentials,
		timeout:     timeout,
		logger:      logger,
	}
}

// Dispatch publishes the snapshot. Every returned error is a classified
// *publisher.Error.
func (d *Dispatcher) Dispatch(ctx context.Context, content *models.ScheduledContent) (*publisher.PostRef, error) {
	// Closed enum dispatch: an unlisted platform is a data error, not a
	// lookup miss.
	switch content.Platform {
	case models.PlatformLinkedIn, models.PlatformYouTube, models.PlatformInstagram,
		models.PlatformTwitter, models.PlatformTikTok:
	default:
		return nil, &publisher.Error{
			Kind:     publisher.ErrValidation,
			Platform: content.Platform,
			Message:  "unsupported platform",
		}
	}

	pub, err := d.registry.Get(content.Platform)
	if err != nil {
		return nil, &publisher.Error{
			Kind:     publisher.ErrValidation,
			Platform: content.Platform,
			Message:  "no publisher configured for platform",
			Err:      err,
		}
	}

	creds, ok := d.credentials[content.Platform]
	if !ok || creds.AccessToken == "" {
		return nil, &publisher.Error{
			Kind:     publisher.ErrAuth,
			Platform: content.Platform,
			Message:  "no credentials configured for platform",
		}
	}

	// Bound the network call so a hanging platform cannot hold a worker
	// slot forever.
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	start := time.Now()
	ref, err := pub.Publish(ctx, content, creds)
	duration := time.Since(start)

	if err != nil {
		classified := classify(content.Platform, err)
		d.logger.Warn("Publish attempt failed",
			zap.String("content_id", content.ID),
			zap.String("platform", content.Platform.String()),
			zap.String("kind", string(classified.Kind)),
			zap.Duration("duration", duration),
			zap.Error(err))
		return nil, classified
	}

	d.logger.Info("Publish attempt succeeded",
		zap.String("content_id", content.ID),
		zap.String("platform", content.Platform.String()),
		zap.String("post_id", ref.PostID),
		zap.Duration("duration", duration))

	return ref, nil
}

func classify(platform models.Platform, err error) *publisher.Error {
	var pubErr *publisher.Error
	if errors.As(err, &pubErr) {
		return pubErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &publisher.Error{Kind: publisher.ErrTransientNetwork, Platform: platform, Message: "publish call timed out", Err: err}
	}
	return &publisher.Error{Kind: publisher.ErrUnknown, Platform: platform, Err: err}
}
