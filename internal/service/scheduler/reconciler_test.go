package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tejaswini280/creater-AI-sub008/internal/models"
)

func TestStartFailsOnIncompleteSchema(t *testing.T) {
	svc, st := newTestService(t, testConfig(), &scriptedPublisher{platform: models.PlatformLinkedIn})

	// Drop two required columns from the store's reported schema.
	st.columns = []string{"id", "user_id", "title", "description", "body", "platform", "created_at", "updated_at"}

	require.NoError(t, st.Insert(&models.ScheduledContent{
		ID: "c1", UserID: "user-1", Platform: models.PlatformLinkedIn,
		Status: models.StatusScheduled, ScheduledAt: time.Now().Add(time.Hour),
	}))

	err := svc.Start(context.Background())
	require.Error(t, err)

	var schemaErr *SchemaIncompleteError
	require.ErrorAs(t, err, &schemaErr)
	assert.ElementsMatch(t, []string{"status", "scheduled_at"}, schemaErr.Missing)

	assert.Equal(t, 0, svc.Registry().Len(), "no timer may be armed after a fatal schema check")
}

func TestStartupLoadArmsScheduledRecords(t *testing.T) {
	svc, st := newTestService(t, testConfig(), &scriptedPublisher{platform: models.PlatformLinkedIn})

	require.NoError(t, st.Insert(&models.ScheduledContent{
		ID: "future", UserID: "user-1", Platform: models.PlatformLinkedIn,
		Status: models.StatusScheduled, ScheduledAt: time.Now().Add(time.Hour),
	}))
	require.NoError(t, st.Insert(&models.ScheduledContent{
		ID: "done", UserID: "user-1", Platform: models.PlatformLinkedIn,
		Status: models.StatusPublished, ScheduledAt: time.Now().Add(-time.Hour),
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, svc.Start(ctx))
	defer svc.Stop()

	assert.True(t, svc.Registry().Armed("future"))
	assert.False(t, svc.Registry().Armed("done"))
	assert.Equal(t, 1, svc.Registry().Len())
}

func TestSweepArmsExternallyInsertedRecords(t *testing.T) {
	svc, st := newTestService(t, testConfig(), &scriptedPublisher{platform: models.PlatformLinkedIn})

	// Simulate a record inserted behind the facade's back, e.g. a bulk
	// import writing straight to the store.
	require.NoError(t, st.Insert(&models.ScheduledContent{
		ID: "imported", UserID: "user-1", Platform: models.PlatformLinkedIn,
		Status: models.StatusScheduled, ScheduledAt: time.Now().Add(time.Hour),
	}))
	require.NoError(t, st.Insert(&models.ScheduledContent{
		ID: "stale", UserID: "user-1", Platform: models.PlatformLinkedIn,
		Status: models.StatusScheduled, ScheduledAt: time.Now().Add(-time.Hour),
	}))

	require.False(t, svc.Registry().Armed("imported"))

	svc.reconciler.sweep()

	assert.True(t, svc.Registry().Armed("imported"))
	assert.False(t, svc.Registry().Armed("stale"), "sweep only arms future records")

	// Sweeping again must not double-arm.
	svc.reconciler.sweep()
	assert.Equal(t, 1, svc.Registry().Len())
}

func TestSweepSurvivesStoreFailure(t *testing.T) {
	svc, _ := newTestService(t, testConfig(), &scriptedPublisher{platform: models.PlatformLinkedIn})
	svc.reconciler.store = failingStore{newMemStore()}

	// Must not panic; the next tick simply retries.
	svc.reconciler.sweep()
	assert.Equal(t, 0, svc.Registry().Len())
}

type failingStore struct{ *memStore }

func (failingStore) QueryByStatus(status, userID string) ([]models.ScheduledContent, error) {
	return nil, assert.AnError
}
