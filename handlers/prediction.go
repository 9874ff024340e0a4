package handlers

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/surajprajapati1538/bda-project/forecast"
	"github.com/surajprajapati1538/bda-project/services"

	"github.com/gin-gonic/gin"
)

type PredictionHandler struct {
	svc   *forecast.Service
	cache *services.CacheService
}

func NewPredictionHandler(svc *forecast.Service, cache *services.CacheService) *PredictionHandler {
	return &PredictionHandler{svc: svc, cache: cache}
}

type SinglePredictionRequest struct {
	Datetime string `json:"datetime" binding:"required"`
}

type RangePredictionRequest struct {
	StartDate       string `json:"start_date" binding:"required"`
	EndDate         string `json:"end_date" binding:"required"`
	Frequency       string `json:"frequency"`
	IncludeFeatures bool   `json:"include_features"`
}

func (h *PredictionHandler) PredictSingle(c *gin.Context) {
	var req SinglePredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ts, err := forecast.ParseTimestamp(req.Datetime)
	if err != nil {
		respondError(c, err)
		return
	}

	p, err := h.svc.PredictSingle(ts)
	if err != nil {
		respondError(c, err)
		return
	}

	predictionsServed.WithLabelValues("predict_single").Inc()
	c.JSON(http.StatusOK, p)
}

func (h *PredictionHandler) PredictRange(c *gin.Context) {
	var req RangePredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Frequency == "" {
		req.Frequency = "H"
	}

	start, end, freq, err := parseRangeParams(req.StartDate, req.EndDate, req.Frequency)
	if err != nil {
		respondError(c, err)
		return
	}

	cacheKey := fmt.Sprintf("predict:range:%s:%s:%s:%t",
		start.Format(time.RFC3339), end.Format(time.RFC3339), freq, req.IncludeFeatures)

	var cached forecast.Batch
	if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil && len(cached.Predictions) > 0 {
		c.JSON(http.StatusOK, cached)
		return
	}

	batch, err := h.svc.PredictRange(start, end, freq)
	if err != nil {
		respondError(c, err)
		return
	}
	if !req.IncludeFeatures {
		for i := range batch.Predictions {
			batch.Predictions[i].Features = nil
		}
	}

	predictionsServed.WithLabelValues("predict_range").Add(float64(len(batch.Predictions)))
	go h.cache.Set(context.Background(), cacheKey, batch, 60*time.Second)

	c.JSON(http.StatusOK, batch)
}

// ExportRangeCSV streams a range prediction as a CSV attachment for the
// dashboard's download button.
func (h *PredictionHandler) ExportRangeCSV(c *gin.Context) {
	start, end, freq, err := parseRangeParams(
		c.Query("start_date"), c.Query("end_date"), c.DefaultQuery("frequency", "H"))
	if err != nil {
		respondError(c, err)
		return
	}

	batch, err := h.svc.PredictRange(start, end, freq)
	if err != nil {
		respondError(c, err)
		return
	}

	predictionsServed.WithLabelValues("predict_export").Add(float64(len(batch.Predictions)))

	filename := fmt.Sprintf("energy_forecast_%s_%s.csv",
		start.Format("20060102"), end.Format("20060102"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"datetime", "prediction"})
	for _, p := range batch.Predictions {
		_ = w.Write([]string{p.Datetime, strconv.FormatFloat(p.ValueMW, 'f', 2, 64)})
	}
	w.Flush()
}

func parseRangeParams(startStr, endStr, freqStr string) (start, end time.Time, freq forecast.Frequency, err error) {
	start, err = forecast.ParseTimestamp(startStr)
	if err != nil {
		return start, end, freq, fmt.Errorf("start_date: %w", err)
	}
	end, err = forecast.ParseTimestamp(endStr)
	if err != nil {
		return start, end, freq, fmt.Errorf("end_date: %w", err)
	}
	freq, err = forecast.ParseFrequency(freqStr)
	return start, end, freq, err
}
