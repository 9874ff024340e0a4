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

type ConsumptionHandler struct {
	db    *gorm.DB
	cache *services.CacheService
}

func NewConsumptionHandler(db *gorm.DB, cache *services.CacheService) *ConsumptionHandler {
	return &ConsumptionHandler{db: db, cache: cache}
}

// GetRecent pages through collected meter readings, newest first.
func (h *ConsumptionHandler) GetRecent(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "consumption storage unavailable"})
		return
	}

	p := ParsePagination(c)
	meterID := c.Query("meter_id")

	beforeStr := ""
	if p.Before != nil {
		beforeStr = p.Before.Format(time.RFC3339Nano)
	}
	cacheKey := fmt.Sprintf("consumption:recent:%s:%d:%s", meterID, p.Limit, beforeStr)

	var cached CursorResponse
	if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil && cached.Data != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	query := h.db.Model(&models.ConsumptionReading{}).Order("ts DESC").Limit(p.Limit + 1)
	if p.Before != nil {
		query = query.Where("ts < ?", *p.Before)
	}
	if meterID != "" {
		query = query.Where("meter_id = ?", meterID)
	}

	var rows []models.ConsumptionReading
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
	go h.cache.Set(context.Background(), cacheKey, resp, 5*time.Second)

	c.JSON(http.StatusOK, resp)
}
