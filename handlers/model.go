package handlers

import (
	"net/http"

	"github.com/surajprajapati1538/bda-project/forecast"

	"github.com/gin-gonic/gin"
)

type ModelHandler struct {
	svc *forecast.Service
}

func NewModelHandler(svc *forecast.Service) *ModelHandler {
	return &ModelHandler{svc: svc}
}

// GetInfo returns the training metadata plus the importance ranking in one
// payload for the dashboard's model page.
func (h *ModelHandler) GetInfo(c *gin.Context) {
	info, err := h.svc.Info()
	if err != nil {
		respondError(c, err)
		return
	}
	importance, err := h.svc.FeatureImportance()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"model_info":         info,
		"feature_importance": importance,
	})
}

// GetFeatureImportance returns the ranking alone, descending by score.
func (h *ModelHandler) GetFeatureImportance(c *gin.Context) {
	importance, err := h.svc.FeatureImportance()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, importance)
}
