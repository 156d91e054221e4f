package scheduler

import (
	"time"

	"github.com/Tejaswini280/creater-AI-sub008/internal/config"
)

// baseRetryDelay is doubled on every consecutive failure: 15, 30, 60, 120
// minutes and so on.
const baseRetryDelay = 15 * time.Minute

// RetryDelay returns the backoff delay before attempt retryCount+1.
func RetryDelay(retryCount int) time.Duration {
	return baseRetryDelay << uint(retryCount)
}

// NextAttempt computes the fire time of the next publish attempt.
func NextAttempt(now time.Time, retryCount int) time.Time {
	return now.Add(RetryDelay(retryCount))
}

// ShouldRetry decides whether a failed attempt gets another one. It is
// deterministic and side-effect-free; the caller separately rules out
// non-retryable failure kinds.
func ShouldRetry(retryCount int, cfg *config.SchedulerConfig) bool {
	return cfg.AutoRetry && retryCount < cfg.MaxRetries
}
