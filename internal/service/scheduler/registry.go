package scheduler

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// JobRegistry maps content ids to their armed one-shot timers. It is the
// only mutable shared state in the scheduler; every arm/disarm goes through
// the registry mutex. It never touches the store.
//
// A one-shot time.Timer is used deliberately instead of a repeating
// calendar trigger: the fire callback removes itself before running, so a
// job can never fire twice per arm.
type JobRegistry struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
	logger *zap.Logger
}

func NewJobRegistry(logger *zap.Logger) *JobRegistry {
	return &JobRegistry{
		timers: make(map[string]*time.Timer),
		logger: logger,
	}
}

// Arm installs a timer firing at fireAt. Any existing timer for the same id
// is stopped and replaced first, so at most one live timer exists per id.
// A fireAt in the past is not dropped: the timer is armed with zero delay
// and fires on the next timer tick.
func (r *JobRegistry) Arm(contentID string, fireAt time.Time, fire func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.timers[contentID]; ok {
		existing.Stop()
		delete(r.timers, contentID)
		r.logger.Debug("Replacing armed timer", zap.String("content_id", contentID))
	}

	delay := time.Until(fireAt)
	if delay < 0 {
		delay = 0
	}

	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		r.mu.Lock()
		current, ok := r.timers[contentID]
		if !ok || current != timer {
			// Disarmed or replaced after the fire was already queued.
			r.mu.Unlock()
			return
		}
		delete(r.timers, contentID)
		r.mu.Unlock()

		fire()
	})
	r.timers[contentID] = timer

	r.logger.Debug("Timer armed",
		zap.String("content_id", contentID),
		zap.Time("fire_at", fireAt),
		zap.Duration("delay", delay))
}

// Disarm stops and removes the timer for contentID if present. It is a
// no-op otherwise and safe to call concurrently with Arm. A fire that is
// already past the registry check keeps running; disarm only prevents
// future fires.
func (r *JobRegistry) Disarm(contentID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	timer, ok := r.timers[contentID]
	if !ok {
		return false
	}
	timer.Stop()
	delete(r.timers, contentID)

	r.logger.Debug("Timer disarmed", zap.String("content_id", contentID))
	return true
}

// Armed reports whether a timer is currently installed for contentID.
func (r *JobRegistry) Armed(contentID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.timers[contentID]
	return ok
}

// Len returns the number of armed timers.
func (r *JobRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.timers)
}

// Clear stops every armed timer, used on shutdown.
func (r *JobRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, timer := range r.timers {
		timer.Stop()
		delete(r.timers, id)
	}
}
