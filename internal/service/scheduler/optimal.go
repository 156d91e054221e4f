package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Tejaswini280/creater-AI-sub008/internal/models"
)

// SuggestOptimalTime returns the next configured optimal time-of-day for
// the platform strictly after fromTime, or the first slot on the following
// day when none remain. Times-of-day are interpreted in the scheduler's
// configured timezone.
func (s *Service) SuggestOptimalTime(platform models.Platform, fromTime time.Time) (time.Time, error) {
	if !platform.Valid() {
		return time.Time{}, fmt.Errorf("%w: unknown platform %q", ErrValidation, platform)
	}

	slots := s.config.OptimalTimes[platform.String()]
	if len(slots) == 0 {
		return time.Time{}, fmt.Errorf("%w: no optimal times configured for %s", ErrValidation, platform)
	}

	local := fromTime.In(s.location)

	// Today's remaining slots first, then the earliest slot tomorrow.
	for _, slot := range slots {
		candidate, err := atTimeOfDay(local, slot)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: bad optimal time %q for %s: %v", ErrValidation, slot, platform, err)
		}
		if candidate.After(fromTime) {
			return candidate, nil
		}
	}

	first, err := atTimeOfDay(local.AddDate(0, 0, 1), slots[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad optimal time %q for %s: %v", ErrValidation, slots[0], platform, err)
	}
	return first, nil
}

// atTimeOfDay pins an "HH:MM" slot onto the date of ref, in ref's location.
func atTimeOfDay(ref time.Time, hhmm string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(hhmm), ":")
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("expected HH:MM, got %q", hhmm)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return time.Time{}, fmt.Errorf("invalid hour in %q", hhmm)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return time.Time{}, fmt.Errorf("invalid minute in %q", hhmm)
	}

	return time.Date(ref.Year(), ref.Month(), ref.Day(), hour, minute, 0, 0, ref.Location()), nil
}
