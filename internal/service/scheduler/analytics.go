package scheduler

import (
	"github.com/Tejaswini280/creater-AI-sub008/internal/models"
)

// Analytics is a point-in-time aggregation over one owner's records.
type Analytics struct {
	TotalScheduled    int                          `json:"total_scheduled"`
	TotalPublished    int                          `json:"total_published"`
	TotalFailed       int                          `json:"total_failed"`
	TotalCancelled    int                          `json:"total_cancelled"`
	SuccessRate       float64                      `json:"success_rate"`
	PlatformBreakdown map[string]PlatformBreakdown `json:"platform_breakdown"`
}

type PlatformBreakdown struct {
	Scheduled int `json:"scheduled"`
	Published int `json:"published"`
	Failed    int `json:"failed"`
	Cancelled int `json:"cancelled"`
}

// GetSchedulingAnalytics aggregates the owner's records. Pure read; no
// side effects.
func (s *Service) GetSchedulingAnalytics(userID string) (*Analytics, error) {
	all, err := s.store.GetAll()
	if err != nil {
		return nil, err
	}

	analytics := &Analytics{
		PlatformBreakdown: make(map[string]PlatformBreakdown),
	}

	for _, record := range all {
		if record.UserID != userID {
			continue
		}

		breakdown := analytics.PlatformBreakdown[record.Platform.String()]
		switch record.Status {
		case models.StatusScheduled:
			analytics.TotalScheduled++
			breakdown.Scheduled++
		case models.StatusPublished:
			analytics.TotalPublished++
			breakdown.Published++
		case models.StatusFailed:
			analytics.TotalFailed++
			breakdown.Failed++
		case models.StatusCancelled:
			analytics.TotalCancelled++
			breakdown.Cancelled++
		}
		analytics.PlatformBreakdown[record.Platform.String()] = breakdown
	}

	if terminal := analytics.TotalPublished + analytics.TotalFailed; terminal > 0 {
		analytics.SuccessRate = float64(analytics.TotalPublished) / float64(terminal)
	}

	return analytics, nil
}
