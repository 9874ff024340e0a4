package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/surajprajapati1538/bda-project/models"
	"github.com/surajprajapati1538/bda-project/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HistoryHandler struct {
	db    *gorm.DB
	cache *services.CacheService
}

func NewHistoryHandler(db *gorm.DB, cache *services.CacheService) *HistoryHandler {
	return &HistoryHandler{db: db, cache: cache}
}

// GetForecasts pages through stored forecaster output, newest first. The
// API also runs without postgres; then this endpoint reports 503 while the
// on-demand prediction endpoints keep working.
func (h *HistoryHandler) GetForecasts(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history storage unavailable"})
		return
	}

	p := ParsePagination(c)
	modelVersion := c.Query("model_version")

	beforeStr := ""
	if p.Before != nil {
		beforeStr = p.Before.Format(time.RFC3339Nano)
	}
	cacheKey := fmt.Sprintf("forecasts:history:%s:%d:%s", modelVersion, p.Limit, beforeStr)

	var cached CursorResponse
	if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil && cached.Data != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	query := h.db.Model(&models.Forecast{}).Order("ts DESC").Limit(p.Limit + 1)
	if p.Before != nil {
		query = query.Where("ts < ?", *p.Before)
	}
	if modelVersion != "" {
		query = query.Where("model_version = ?", modelVersion)
	}

	var rows []models.Forecast
	if err := query.Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	hasMore := len(rows) > p.Limit
	if hasMore {
		rows = rows[:p.Limit]
	}

	var nextCursor string
	if hasMore && len(rows) > 0 {
		nextCursor = rows[len(rows)-1].TS.Format(time.RFC3339Nano)
	}

	resp := CursorResponse{Data: rows, NextCursor: nextCursor, HasMore: hasMore}
	go h.cache.Set(context.Background(), cacheKey, resp, 30*time.Second)

	c.JSON(http.StatusOK, resp)
}
