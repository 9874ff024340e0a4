package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	predictionsServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "energyforecast_api_predictions_total",
		Help: "Predictions returned, labeled by endpoint.",
	}, []string{"endpoint"})

	requestErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "energyforecast_api_request_errors_total",
		Help: "Requests rejected or failed, labeled by endpoint.",
	}, []string{"endpoint"})
)
