package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Tejaswini280/creater-AI-sub008/internal/models"
	"github.com/Tejaswini280/creater-AI-sub008/internal/service/scheduler"
)

func (s *Server) handleScheduleContent(c *gin.Context) {
	var draft scheduler.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	record, err := s.Scheduler.ScheduleContent(draft)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"content": record})
}

func (s *Server) handleBulkScheduleContent(c *gin.Context) {
	var req struct {
		Drafts []scheduler.Draft `json:"drafts"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	results := s.Scheduler.BulkScheduleContent(req.Drafts)

	type itemResult struct {
		Index   int                      `json:"index"`
		Content *models.ScheduledContent `json:"content,omitempty"`
		Error   string                   `json:"error,omitempty"`
	}
	items := make([]itemResult, 0, len(results))
	scheduled := 0
	for _, r := range results {
		item := itemResult{Index: r.Index, Content: r.Content}
		if r.Err != nil {
			item.Error = r.Err.Error()
		} else {
			scheduled++
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, gin.H{"scheduled": scheduled, "results": items})
}

func (s *Server) handleQueryContent(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	records, err := s.Scheduler.QueryContent(userID, c.Query("status"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"content": records})
}

func (s *Server) handleGetContent(c *gin.Context) {
	record, err := s.Scheduler.GetContent(c.Param("id"), c.Query("user_id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"content": record})
}

func (s *Server) handleCancelContent(c *gin.Context) {
	if err := s.Scheduler.CancelScheduledContent(c.Param("id"), c.Query("user_id")); err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "content cancelled"})
}

func (s *Server) handleRescheduleContent(c *gin.Context) {
	var req struct {
		UserID      string    `json:"user_id"`
		ScheduledAt time.Time `json:"scheduled_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	record, err := s.Scheduler.RescheduleContent(c.Param("id"), req.UserID, req.ScheduledAt)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"content": record})
}

func (s *Server) handleGetAnalytics(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	analytics, err := s.Scheduler.GetSchedulingAnalytics(userID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"analytics": analytics})
}

func (s *Server) handleSuggestOptimalTime(c *gin.Context) {
	platform, err := models.ParsePlatform(c.Query("platform"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	from := time.Now()
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be RFC3339"})
			return
		}
		from = parsed
	}

	suggested, err := s.Scheduler.SuggestOptimalTime(platform, from)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggested_time": suggested})
}

func (s *Server) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, scheduler.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, scheduler.ErrNotFoundOrForbidden):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		s.Logger.Error("Request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
