package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/surajprajapati1538/bda-project/config"
	"github.com/surajprajapati1538/bda-project/forecast"
	"github.com/surajprajapati1538/bda-project/handlers"
	"github.com/surajprajapati1538/bda-project/middleware"
	"github.com/surajprajapati1538/bda-project/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load the model artifact. A failed load is not fatal: the server
	// starts anyway and prediction endpoints answer 503 until a working
	// artifact is deployed.
	artifact, err := forecast.LoadArtifact(cfg.Model.Path)
	if err != nil {
		log.Printf("model artifact not loaded: %v", err)
	} else {
		log.Printf("loaded model %s (target %s, rmse %.1f)",
			artifact.ModelVersion, artifact.Target, artifact.Performance.RMSE)
	}
	svc := forecast.NewService(artifact)

	// Connect to database; history endpoints degrade to 503 without it
	db, err := gorm.Open(postgres.Open(cfg.Database.GetDSN()), &gorm.Config{})
	if err != nil {
		log.Printf("postgres unavailable, storage endpoints disabled: %v", err)
		db = nil
	}
	if db != nil {
		if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
			log.Printf("postgres ping failed, storage endpoints disabled")
			db = nil
		}
	}

	// Connect to redis; caching and the live stream degrade without it
	cache, err := services.NewCacheService(cfg.Redis)
	if err != nil {
		log.Printf("redis unavailable, caching and live stream disabled: %v", err)
	}

	// Initialize Gin router
	router := gin.Default()
	router.Use(middleware.SetupCORS(cfg.CORS))

	predictionHandler := handlers.NewPredictionHandler(svc, cache)
	analysisHandler := handlers.NewAnalysisHandler(svc, cache)
	modelHandler := handlers.NewModelHandler(svc)
	historyHandler := handlers.NewHistoryHandler(db, cache)
	consumptionHandler := handlers.NewConsumptionHandler(db, cache)

	api := router.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck(svc))
		api.GET("/model/info", modelHandler.GetInfo)
		api.GET("/feature-importance", modelHandler.GetFeatureImportance)
		api.POST("/predict/single", predictionHandler.PredictSingle)
		api.POST("/predict/range", predictionHandler.PredictRange)
		api.GET("/predict/range/export", predictionHandler.ExportRangeCSV)
		api.POST("/analysis/patterns", analysisHandler.GetPatterns)
		api.GET("/forecasts/history", historyHandler.GetForecasts)
		api.GET("/consumption/recent", consumptionHandler.GetRecent)
	}

	router.GET("/ws/live", handlers.LiveWebSocket(cache))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "endpoint not found"})
	})

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Starting server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
