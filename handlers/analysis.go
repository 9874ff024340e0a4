package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/surajprajapati1538/bda-project/forecast"
	"github.com/surajprajapati1538/bda-project/services"

	"github.com/gin-gonic/gin"
)

type AnalysisHandler struct {
	svc   *forecast.Service
	cache *services.CacheService
}

func NewAnalysisHandler(svc *forecast.Service, cache *services.CacheService) *AnalysisHandler {
	return &AnalysisHandler{svc: svc, cache: cache}
}

type PatternAnalysisRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

// GetPatterns aggregates hourly predictions over a range by hour-of-day and
// day-of-week. Results only change with the model artifact, so they cache
// well.
func (h *AnalysisHandler) GetPatterns(c *gin.Context) {
	var req PatternAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := forecast.ParseTimestamp(req.StartDate)
	if err != nil {
		respondError(c, fmt.Errorf("start_date: %w", err))
		return
	}
	end, err := forecast.ParseTimestamp(req.EndDate)
	if err != nil {
		respondError(c, fmt.Errorf("end_date: %w", err))
		return
	}

	cacheKey := fmt.Sprintf("analysis:patterns:%s:%s",
		start.Format(time.RFC3339), end.Format(time.RFC3339))

	var cached forecast.PatternAnalysis
	if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil && len(cached.Hourly) == 24 {
		c.JSON(http.StatusOK, cached)
		return
	}

	analysis, err := h.svc.AnalyzePatterns(start, end)
	if err != nil {
		respondError(c, err)
		return
	}

	predictionsServed.WithLabelValues("analysis_patterns").Inc()
	go h.cache.Set(context.Background(), cacheKey, analysis, 5*time.Minute)

	c.JSON(http.StatusOK, analysis)
}
