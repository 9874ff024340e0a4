package handlers

import (
	"net/http"
	"time"

	"github.com/surajprajapati1538/bda-project/forecast"

	"github.com/gin-gonic/gin"
)

// HealthCheck always answers 200; model_loaded tells monitors whether
// prediction endpoints will serve or 503.
func HealthCheck(svc *forecast.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "healthy",
			"model_loaded": svc.Ready(),
			"timestamp":    time.Now().UTC().Format(time.RFC3339),
		})
	}
}
