package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Tejaswini280/creater-AI-sub008/internal/config"
	"github.com/Tejaswini280/creater-AI-sub008/internal/models"
	"github.com/Tejaswini280/creater-AI-sub008/internal/service/publisher"
	"github.com/Tejaswini280/creater-AI-sub008/internal/service/store"
)

// memStore is an in-memory ScheduleStore for tests.
type memStore struct {
	mu      sync.Mutex
	records map[string]*models.ScheduledContent
	columns []string
}

func newMemStore() *memStore {
	return &memStore{
		records: make(map[string]*models.ScheduledContent),
		columns: append([]string(nil), requiredColumns...),
	}
}

func (m *memStore) Insert(record *models.ScheduledContent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *record
	m.records[record.ID] = &clone
	return nil
}

func (m *memStore) Update(id string, patch map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[id]
	if !ok {
		return store.ErrNotFound
	}
	for key, value := range patch {
		switch key {
		case "status":
			record.Status = value.(string)
		case "scheduled_at":
			record.ScheduledAt = value.(time.Time)
		case "published_at":
			t := value.(time.Time)
			record.PublishedAt = &t
		case "metadata":
			record.Metadata = cloneMetadata(value.(models.JSONMap))
		}
	}
	record.UpdatedAt = time.Now()
	return nil
}

func (m *memStore) GetByID(id string) (*models.ScheduledContent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *record
	clone.Metadata = cloneMetadata(record.Metadata)
	return &clone, nil
}

func (m *memStore) QueryByStatus(status string, userID string) ([]models.ScheduledContent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ScheduledContent
	for _, record := range m.records {
		if record.Status != status {
			continue
		}
		if userID != "" && record.UserID != userID {
			continue
		}
		clone := *record
		clone.Metadata = cloneMetadata(record.Metadata)
		out = append(out, clone)
	}
	return out, nil
}

func (m *memStore) GetAll() ([]models.ScheduledContent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ScheduledContent
	for _, record := range m.records {
		clone := *record
		clone.Metadata = cloneMetadata(record.Metadata)
		out = append(out, clone)
	}
	return out, nil
}

func (m *memStore) Columns() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.columns...), nil
}

func cloneMetadata(meta models.JSONMap) models.JSONMap {
	clone := models.JSONMap{}
	for k, v := range meta {
		clone[k] = v
	}
	return clone
}

// scriptedPublisher replays a fixed sequence of outcomes, then succeeds.
type scriptedPublisher struct {
	platform models.Platform

	mu     sync.Mutex
	script []error
	calls  int
}

func (p *scriptedPublisher) Platform() models.Platform { return p.platform }

func (p *scriptedPublisher) Publish(ctx context.Context, content *models.ScheduledContent, creds publisher.Credentials) (*publisher.PostRef, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	idx := p.calls
	p.calls++
	if idx < len(p.script) && p.script[idx] != nil {
		return nil, p.script[idx]
	}
	return &publisher.PostRef{PostID: "post-123", PublishedAt: time.Now()}, nil
}

func (p *scriptedPublisher) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func transientErr(platform models.Platform) *publisher.Error {
	return &publisher.Error{Kind: publisher.ErrTransientNetwork, Platform: platform, Message: "connection reset"}
}

func testConfig() *config.SchedulerConfig {
	return &config.SchedulerConfig{
		Timezone: "UTC",
		OptimalTimes: map[string][]string{
			"linkedin": {"08:00", "12:00", "17:00"},
		},
		AutoRetry:         true,
		MaxRetries:        3,
		ReconcileInterval: "1m",
		PublishTimeout:    "5s",
	}
}

func newTestService(t *testing.T, cfg *config.SchedulerConfig, pub publisher.Publisher) (*Service, *memStore) {
	t.Helper()

	logger := zap.NewNop()
	registry := publisher.NewRegistry(logger)
	credentials := make(map[models.Platform]publisher.Credentials)
	if pub != nil {
		require.NoError(t, registry.Register(pub))
		credentials[pub.Platform()] = publisher.Credentials{AccessToken: "test-token"}
	}

	st := newMemStore()
	dispatcher := NewDispatcher(registry, credentials, 5*time.Second, logger)
	svc, err := NewService(cfg, st, dispatcher, logger)
	require.NoError(t, err)
	t.Cleanup(svc.registry.Clear)

	return svc, st
}

// fireNow simulates the armed timer firing: the registry entry is consumed
// first, then the publish attempt runs, exactly as the timer callback does.
func fireNow(s *Service, contentID string) {
	s.registry.Disarm(contentID)
	s.fire(contentID)
}

func validDraft(scheduledAt time.Time) Draft {
	return Draft{
		UserID:      "user-1",
		Title:       "Launch announcement",
		Description: "We are live",
		Body:        "Excited to announce our launch!",
		Platform:    "linkedin",
		ContentType: "post",
		ScheduledAt: scheduledAt,
	}
}
