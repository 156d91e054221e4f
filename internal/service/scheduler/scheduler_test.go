package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tejaswini280/creater-AI-sub008/internal/models"
	"github.com/Tejaswini280/creater-AI-sub008/internal/service/publisher"
)

func TestScheduleContentArmsTimer(t *testing.T) {
	svc, st := newTestService(t, testConfig(), &scriptedPublisher{platform: models.PlatformLinkedIn})

	record, err := svc.ScheduleContent(validDraft(time.Now().Add(time.Hour)))
	require.NoError(t, err)

	stored, err := st.GetByID(record.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusScheduled, stored.Status)
	assert.Equal(t, 0, stored.RetryCount())
	assert.Nil(t, stored.PublishedAt)

	assert.True(t, svc.Registry().Armed(record.ID))
	assert.Equal(t, 1, svc.Registry().Len())
}

func TestScheduleContentValidation(t *testing.T) {
	svc, _ := newTestService(t, testConfig(), nil)

	tests := []struct {
		name   string
		mutate func(*Draft)
	}{
		{"missing user", func(d *Draft) { d.UserID = "" }},
		{"missing title", func(d *Draft) { d.Title = "" }},
		{"unknown platform", func(d *Draft) { d.Platform = "myspace" }},
		{"past schedule time", func(d *Draft) { d.ScheduledAt = time.Now().Add(-time.Minute) }},
		{"no body or description", func(d *Draft) { d.Body, d.Description = "", "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft(time.Now().Add(time.Hour))
			tt.mutate(&draft)

			_, err := svc.ScheduleContent(draft)
			require.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, 0, svc.Registry().Len())
		})
	}
}

// Timer fires, publish succeeds, record is terminal published.
func TestPublishSuccessEndToEnd(t *testing.T) {
	pub := &scriptedPublisher{platform: models.PlatformLinkedIn}
	svc, st := newTestService(t, testConfig(), pub)

	record, err := svc.ScheduleContent(validDraft(time.Now().Add(30 * time.Millisecond)))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		stored, err := st.GetByID(record.ID)
		return err == nil && stored.Status == models.StatusPublished
	}, 2*time.Second, 10*time.Millisecond)

	stored, err := st.GetByID(record.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PublishedAt)
	assert.Equal(t, 0, svc.Registry().Len(), "consumed timer must be removed")
	assert.Equal(t, 1, pub.callCount())
}

// Publisher fails twice with a transient error, then succeeds on the third
// attempt; retryCount records the two failures.
func TestPublishRetriesThenSucceeds(t *testing.T) {
	pub := &scriptedPublisher{
		platform: models.PlatformLinkedIn,
		script: []error{
			transientErr(models.PlatformLinkedIn),
			transientErr(models.PlatformLinkedIn),
			nil,
		},
	}
	svc, st := newTestService(t, testConfig(), pub)

	record, err := svc.ScheduleContent(validDraft(time.Now().Add(time.Hour)))
	require.NoError(t, err)
	originalTime := record.ScheduledAt

	// First attempt fails: record stays scheduled, pushed forward, re-armed.
	fireNow(svc, record.ID)
	stored, err := st.GetByID(record.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusScheduled, stored.Status)
	assert.Equal(t, 1, stored.RetryCount())
	assert.Contains(t, stored.LastError(), "connection reset")
	assert.True(t, stored.ScheduledAt.After(originalTime), "scheduledAt must move forward, never earlier")
	assert.True(t, svc.Registry().Armed(record.ID))

	// Second attempt fails too.
	fireNow(svc, record.ID)
	stored, err = st.GetByID(record.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusScheduled, stored.Status)
	assert.Equal(t, 2, stored.RetryCount())

	// Third attempt succeeds with the retry count preserved.
	fireNow(svc, record.ID)
	stored, err = st.GetByID(record.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, stored.Status)
	require.NotNil(t, stored.PublishedAt)
	assert.Equal(t, 2, stored.RetryCount())
	assert.Equal(t, 0, svc.Registry().Len())
	assert.Equal(t, 3, pub.callCount())
}

// With maxRetries=2 and a permanently broken platform, the record ends up
// failed with no timer left.
func TestPublishRetriesExhausted(t *testing.T) {
	cfg := testConfig()
	cfg.MaxRetries = 2
	pub := &scriptedPublisher{
		platform: models.PlatformLinkedIn,
		script: []error{
			transientErr(models.PlatformLinkedIn),
			transientErr(models.PlatformLinkedIn),
			transientErr(models.PlatformLinkedIn),
		},
	}
	svc, st := newTestService(t, cfg, pub)

	record, err := svc.ScheduleContent(validDraft(time.Now().Add(time.Hour)))
	require.NoError(t, err)

	fireNow(svc, record.ID) // retry 1
	fireNow(svc, record.ID) // retry 2
	fireNow(svc, record.ID) // exhausted

	stored, err := st.GetByID(record.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, stored.Status)
	assert.Equal(t, 2, stored.RetryCount())
	assert.Contains(t, stored.LastError(), "connection reset")
	assert.Nil(t, stored.PublishedAt)
	assert.Equal(t, 0, svc.Registry().Len())
}

func TestValidationFailureNeverRetried(t *testing.T) {
	pub := &scriptedPublisher{
		platform: models.PlatformLinkedIn,
		script: []error{
			&publisher.Error{Kind: publisher.ErrValidation, Platform: models.PlatformLinkedIn, Message: "text too long"},
		},
	}
	svc, st := newTestService(t, testConfig(), pub)

	record, err := svc.ScheduleContent(validDraft(time.Now().Add(time.Hour)))
	require.NoError(t, err)

	fireNow(svc, record.ID)

	stored, err := st.GetByID(record.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, stored.Status, "validation failures terminate immediately")
	assert.Equal(t, 0, stored.RetryCount())
	assert.Equal(t, 0, svc.Registry().Len())
}

func TestCancelScheduledContent(t *testing.T) {
	svc, st := newTestService(t, testConfig(), &scriptedPublisher{platform: models.PlatformLinkedIn})

	record, err := svc.ScheduleContent(validDraft(time.Now().Add(time.Hour)))
	require.NoError(t, err)

	require.NoError(t, svc.CancelScheduledContent(record.ID, "user-1"))

	stored, err := st.GetByID(record.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, stored.Status)
	assert.Equal(t, 0, svc.Registry().Len())

	// Idempotent: a second cancel is a no-op.
	require.NoError(t, svc.CancelScheduledContent(record.ID, "user-1"))

	// Ownership and existence failures are indistinguishable.
	require.ErrorIs(t, svc.CancelScheduledContent(record.ID, "someone-else"), ErrNotFoundOrForbidden)
	require.ErrorIs(t, svc.CancelScheduledContent("no-such-id", "user-1"), ErrNotFoundOrForbidden)
}

func TestRescheduleContent(t *testing.T) {
	svc, st := newTestService(t, testConfig(), &scriptedPublisher{platform: models.PlatformLinkedIn})

	record, err := svc.ScheduleContent(validDraft(time.Now().Add(time.Hour)))
	require.NoError(t, err)

	newTime := time.Now().Add(2 * time.Hour)
	updated, err := svc.RescheduleContent(record.ID, "user-1", newTime)
	require.NoError(t, err)
	assert.True(t, updated.ScheduledAt.Equal(newTime))

	stored, err := st.GetByID(record.ID)
	require.NoError(t, err)
	assert.True(t, stored.ScheduledAt.Equal(newTime))
	assert.Equal(t, models.StatusScheduled, stored.Status)
	assert.Equal(t, 1, svc.Registry().Len())
}

// A reschedule to a past timestamp is rejected; store and registry stay
// untouched.
func TestReschedulePastTimeRejected(t *testing.T) {
	svc, st := newTestService(t, testConfig(), &scriptedPublisher{platform: models.PlatformLinkedIn})

	record, err := svc.ScheduleContent(validDraft(time.Now().Add(time.Hour)))
	require.NoError(t, err)
	originalTime := record.ScheduledAt

	_, err = svc.RescheduleContent(record.ID, "user-1", time.Now().Add(-time.Minute))
	require.ErrorIs(t, err, ErrValidation)

	stored, err := st.GetByID(record.ID)
	require.NoError(t, err)
	assert.True(t, stored.ScheduledAt.Equal(originalTime))
	assert.True(t, svc.Registry().Armed(record.ID))
}

func TestBulkSchedulePartialFailure(t *testing.T) {
	svc, _ := newTestService(t, testConfig(), &scriptedPublisher{platform: models.PlatformLinkedIn})

	good1 := validDraft(time.Now().Add(time.Hour))
	bad := validDraft(time.Now().Add(time.Hour))
	bad.Platform = "friendster"
	good2 := validDraft(time.Now().Add(2 * time.Hour))

	results := svc.BulkScheduleContent([]Draft{good1, bad, good2})
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err)
	require.ErrorIs(t, results[1].Err, ErrValidation)
	assert.NoError(t, results[2].Err)

	// Items scheduled before the failure stay scheduled.
	assert.Equal(t, 2, svc.Registry().Len())
}

func TestGetSchedulingAnalytics(t *testing.T) {
	svc, st := newTestService(t, testConfig(), nil)

	seed := []struct {
		platform models.Platform
		status   string
	}{
		{models.PlatformLinkedIn, models.StatusPublished},
		{models.PlatformLinkedIn, models.StatusPublished},
		{models.PlatformLinkedIn, models.StatusFailed},
		{models.PlatformTwitter, models.StatusScheduled},
		{models.PlatformTwitter, models.StatusPublished},
		{models.PlatformTikTok, models.StatusCancelled},
	}
	for i, s := range seed {
		require.NoError(t, st.Insert(&models.ScheduledContent{
			ID:          string(rune('a' + i)),
			UserID:      "user-1",
			Platform:    s.platform,
			Status:      s.status,
			ScheduledAt: time.Now(),
		}))
	}
	// Another owner's record must not leak into the aggregation.
	require.NoError(t, st.Insert(&models.ScheduledContent{
		ID: "other", UserID: "user-2", Platform: models.PlatformLinkedIn,
		Status: models.StatusFailed, ScheduledAt: time.Now(),
	}))

	analytics, err := svc.GetSchedulingAnalytics("user-1")
	require.NoError(t, err)

	assert.Equal(t, 1, analytics.TotalScheduled)
	assert.Equal(t, 3, analytics.TotalPublished)
	assert.Equal(t, 1, analytics.TotalFailed)
	assert.Equal(t, 1, analytics.TotalCancelled)
	assert.InDelta(t, 0.75, analytics.SuccessRate, 1e-9)

	linkedin := analytics.PlatformBreakdown["linkedin"]
	assert.Equal(t, 2, linkedin.Published)
	assert.Equal(t, 1, linkedin.Failed)
	twitter := analytics.PlatformBreakdown["twitter"]
	assert.Equal(t, 1, twitter.Scheduled)
	assert.Equal(t, 1, twitter.Published)
}

func TestSuggestOptimalTime(t *testing.T) {
	svc, _ := newTestService(t, testConfig(), nil)

	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	// Mid-morning: the 12:00 slot is next.
	got, err := svc.SuggestOptimalTime(models.PlatformLinkedIn, day.Add(10*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, day.Add(12*time.Hour), got.UTC())

	// After the last slot: roll over to the first slot tomorrow.
	got, err = svc.SuggestOptimalTime(models.PlatformLinkedIn, day.Add(18*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, day.AddDate(0, 0, 1).Add(8*time.Hour), got.UTC())

	// Exactly on a slot: "strictly after" skips it.
	got, err = svc.SuggestOptimalTime(models.PlatformLinkedIn, day.Add(12*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, day.Add(17*time.Hour), got.UTC())

	_, err = svc.SuggestOptimalTime(models.Platform("myspace"), day)
	require.ErrorIs(t, err, ErrValidation)
}

func TestFireSkipsCancelledRecord(t *testing.T) {
	pub := &scriptedPublisher{platform: models.PlatformLinkedIn}
	svc, st := newTestService(t, testConfig(), pub)

	record, err := svc.ScheduleContent(validDraft(time.Now().Add(time.Hour)))
	require.NoError(t, err)
	require.NoError(t, svc.CancelScheduledContent(record.ID, "user-1"))

	// A stale fire after cancellation must not publish.
	svc.fire(record.ID)

	stored, err := st.GetByID(record.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, stored.Status)
	assert.Equal(t, 0, pub.callCount())
}

func TestPublishErrorsNeverSurfaceToScheduleCaller(t *testing.T) {
	pub := &scriptedPublisher{
		platform: models.PlatformLinkedIn,
		script:   []error{transientErr(models.PlatformLinkedIn)},
	}
	cfg := testConfig()
	cfg.AutoRetry = false
	svc, st := newTestService(t, cfg, pub)

	record, err := svc.ScheduleContent(validDraft(time.Now().Add(time.Hour)))
	require.NoError(t, err, "schedule succeeds even though the later publish will fail")

	fireNow(svc, record.ID)

	stored, err := st.GetByID(record.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, stored.Status)
	assert.NotEmpty(t, stored.LastError(), "failure is only visible through the record")
}
