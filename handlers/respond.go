package handlers

import (
	"errors"
	"net/http"

	"github.com/surajprajapati1538/bda-project/forecast"

	"github.com/gin-gonic/gin"
)

// respondError maps forecast error kinds onto HTTP statuses. Anything
// outside the known kinds is reported as a generic 500 so internals never
// leak into responses.
func respondError(c *gin.Context, err error) {
	requestErrors.WithLabelValues(c.FullPath()).Inc()
	switch {
	case errors.Is(err, forecast.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, forecast.ErrModelUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, forecast.ErrSerialization):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
