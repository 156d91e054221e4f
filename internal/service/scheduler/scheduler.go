package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Tejaswini280/creater-AI-sub008/internal/config"
	"github.com/Tejaswini280/creater-AI-sub008/internal/models"
	"github.com/Tejaswini280/creater-AI-sub008/internal/service/publisher"
	"github.com/Tejaswini280/creater-AI-sub008/internal/service/store"
)

// Service is the scheduling facade: it owns the job registry, composes the
// dispatcher with the backoff policy, and keeps the store authoritative.
// It is constructed explicitly and injected wherever needed; there is no
// package-level instance.
type Service struct {
	config     *config.SchedulerConfig
	location   *time.Location
	store      store.ScheduleStore
	registry   *JobRegistry
	dispatcher *Dispatcher
	reconciler *Reconciler
	logger     *zap.Logger
}

func NewService(cfg *config.SchedulerConfig, st store.ScheduleStore, dispatcher *Dispatcher, logger *zap.Logger) (*Service, error) {
	location, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid scheduler timezone: %w", err)
	}

	interval, err := time.ParseDuration(cfg.ReconcileInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid reconcile interval %q: %w", cfg.ReconcileInterval, err)
	}

	s := &Service{
		config:     cfg,
		location:   location,
		store:      st,
		dispatcher: dispatcher,
		registry:   NewJobRegistry(logger),
		logger:     logger,
	}
	s.reconciler = NewReconciler(st, s.registry, s.armRecord, interval, location, logger)

	return s, nil
}

// Start runs startup reconciliation and begins the periodic sweep. It must
// complete before the facade accepts operations; a schema validation
// failure aborts the whole process.
func (s *Service) Start(ctx context.Context) error {
	if err := s.reconciler.Start(); err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("Content scheduler started",
		zap.String("timezone", s.config.Timezone),
		zap.Bool("auto_retry", s.config.AutoRetry),
		zap.Int("max_retries", s.config.MaxRetries))
	return nil
}

func (s *Service) Stop() {
	s.reconciler.Stop()
	s.registry.Clear()
	s.logger.Info("Content scheduler stopped")
}

// Registry exposes the job registry for reconciliation checks and tests.
func (s *Service) Registry() *JobRegistry {
	return s.registry
}

// ScheduleContent validates the draft, persists it as scheduled and arms
// its timer.
func (s *Service) ScheduleContent(draft Draft) (*models.ScheduledContent, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	platform, _ := models.ParsePlatform(draft.Platform)

	metadata := models.JSONMap{}
	for k, v := range draft.Metadata {
		metadata[k] = v
	}
	metadata[models.MetaRetryCount] = 0

	record := &models.ScheduledContent{
		ID:          uuid.NewString(),
		UserID:      draft.UserID,
		Title:       draft.Title,
		Description: draft.Description,
		Body:        draft.Body,
		Platform:    platform,
		ContentType: draft.ContentType,
		Status:      models.StatusScheduled,
		ScheduledAt: draft.ScheduledAt,
		Metadata:    metadata,
	}

	if err := s.store.Insert(record); err != nil {
		return nil, fmt.Errorf("failed to persist scheduled content: %w", err)
	}

	s.armRecord(record)

	s.logger.Info("Content scheduled",
		zap.String("content_id", record.ID),
		zap.String("platform", platform.String()),
		zap.Time("scheduled_at", record.ScheduledAt))

	return record, nil
}

// BulkScheduleContent applies ScheduleContent sequentially. A failed item
// does not roll back the ones already scheduled; callers inspect the
// per-item results.
func (s *Service) BulkScheduleContent(drafts []Draft) []BulkResult {
	results := make([]BulkResult, 0, len(drafts))
	for i, draft := range drafts {
		record, err := s.ScheduleContent(draft)
		results = append(results, BulkResult{Index: i, Content: record, Err: err})
	}
	return results
}

type BulkResult struct {
	Index   int
	Content *models.ScheduledContent
	Err     error
}

// CancelScheduledContent disarms the record's timer and marks it
// cancelled. Cancelling an already cancelled record is a no-op.
func (s *Service) CancelScheduledContent(id, userID string) error {
	record, err := s.getOwned(id, userID)
	if err != nil {
		return err
	}

	switch record.Status {
	case models.StatusCancelled:
		return nil
	case models.StatusScheduled:
	default:
		return fmt.Errorf("%w: cannot cancel %s content", ErrValidation, record.Status)
	}

	s.registry.Disarm(id)

	if err := s.store.Update(id, map[string]interface{}{"status": models.StatusCancelled}); err != nil {
		return fmt.Errorf("failed to persist cancellation: %w", err)
	}

	s.logger.Info("Content cancelled", zap.String("content_id", id))
	return nil
}

// RescheduleContent moves a scheduled record to a new future time:
// disarm, persist, arm.
func (s *Service) RescheduleContent(id, userID string, newTime time.Time) (*models.ScheduledContent, error) {
	if !newTime.After(time.Now()) {
		return nil, fmt.Errorf("%w: new schedule time must be in the future", ErrValidation)
	}

	record, err := s.getOwned(id, userID)
	if err != nil {
		return nil, err
	}
	if record.Status != models.StatusScheduled {
		return nil, fmt.Errorf("%w: cannot reschedule %s content", ErrValidation, record.Status)
	}

	s.registry.Disarm(id)

	if err := s.store.Update(id, map[string]interface{}{"scheduled_at": newTime}); err != nil {
		return nil, fmt.Errorf("failed to persist reschedule: %w", err)
	}

	record.ScheduledAt = newTime
	s.armRecord(record)

	s.logger.Info("Content rescheduled",
		zap.String("content_id", id),
		zap.Time("scheduled_at", newTime))

	return record, nil
}

// GetContent returns a single owned record.
func (s *Service) GetContent(id, userID string) (*models.ScheduledContent, error) {
	return s.getOwned(id, userID)
}

// QueryContent lists the owner's records, optionally filtered by status.
func (s *Service) QueryContent(userID, status string) ([]models.ScheduledContent, error) {
	if status != "" {
		return s.store.QueryByStatus(status, userID)
	}

	all, err := s.store.GetAll()
	if err != nil {
		return nil, err
	}
	var records []models.ScheduledContent
	for _, r := range all {
		if r.UserID == userID {
			records = append(records, r)
		}
	}
	return records, nil
}

func (s *Service) getOwned(id, userID string) (*models.ScheduledContent, error) {
	record, err := s.store.GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFoundOrForbidden
		}
		return nil, err
	}
	if record.UserID != userID {
		return nil, ErrNotFoundOrForbidden
	}
	return record, nil
}

// armRecord installs the publish timer for a scheduled record snapshot.
func (s *Service) armRecord(record *models.ScheduledContent) {
	contentID := record.ID
	s.registry.Arm(contentID, record.ScheduledAt, func() {
		s.fire(contentID)
	})
}

// fire runs one publish attempt. It executes on the timer's own goroutine,
// so a slow platform call never delays unrelated jobs.
func (s *Service) fire(contentID string) {
	record, err := s.store.GetByID(contentID)
	if err != nil {
		s.logger.Error("Fired timer for unknown content",
			zap.String("content_id", contentID), zap.Error(err))
		return
	}
	if record.Status != models.StatusScheduled {
		// Cancelled or completed between arm and fire.
		s.logger.Debug("Skipping fire for non-scheduled content",
			zap.String("content_id", contentID),
			zap.String("status", record.Status))
		return
	}

	ref, err := s.dispatcher.Dispatch(context.Background(), record)
	if err != nil {
		s.handlePublishFailure(record, err)
		return
	}

	now := time.Now()
	record.Metadata[models.MetaLastError] = ""
	patch := map[string]interface{}{
		"status":       models.StatusPublished,
		"published_at": now,
		"metadata":     record.Metadata,
	}
	if err := s.store.Update(contentID, patch); err != nil {
		s.logger.Error("Failed to persist publish success",
			zap.String("content_id", contentID), zap.Error(err))
		return
	}

	s.logger.Info("Content published",
		zap.String("content_id", contentID),
		zap.String("platform", record.Platform.String()),
		zap.String("post_id", ref.PostID))
}

// handlePublishFailure applies the retry decision: either push scheduledAt
// forward by the backoff delay and re-arm, or terminate the record as
// failed.
func (s *Service) handlePublishFailure(record *models.ScheduledContent, err error) {
	retryCount := record.RetryCount()

	var pubErr *publisher.Error
	retryable := errors.As(err, &pubErr) && pubErr.Retryable()

	if retryable && ShouldRetry(retryCount, s.config) {
		next := NextAttempt(time.Now(), retryCount)

		record.SetRetryCount(retryCount + 1)
		record.SetLastError(err.Error())
		patch := map[string]interface{}{
			"scheduled_at": next,
			"metadata":     record.Metadata,
		}
		if storeErr := s.store.Update(record.ID, patch); storeErr != nil {
			s.logger.Error("Failed to persist retry state",
				zap.String("content_id", record.ID), zap.Error(storeErr))
			return
		}

		record.ScheduledAt = next
		s.armRecord(record)

		s.logger.Warn("Publish failed, retry scheduled",
			zap.String("content_id", record.ID),
			zap.Int("retry_count", retryCount+1),
			zap.Time("next_attempt", next),
			zap.Error(err))
		return
	}

	record.SetLastError(err.Error())
	patch := map[string]interface{}{
		"status":   models.StatusFailed,
		"metadata": record.Metadata,
	}
	if storeErr := s.store.Update(record.ID, patch); storeErr != nil {
		s.logger.Error("Failed to persist publish failure",
			zap.String("content_id", record.ID), zap.Error(storeErr))
		return
	}

	s.logger.Error("Publish failed permanently",
		zap.String("content_id", record.ID),
		zap.Int("retry_count", retryCount),
		zap.Error(err))
}
