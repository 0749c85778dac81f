package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"cell-testbench/internal/api/handlers"
	"cell-testbench/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

func main() {
	// Get configuration from environment
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	// Inter-tick pacing for background runs. The default of 1s matches the
	// dashboard's live-chart cadence; set TICK_PACE=0 for headless speed.
	pace := time.Second
	if s := os.Getenv("TICK_PACE"); s != "" {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			log.Fatalf("invalid TICK_PACE %q: %v", s, err)
		}
		pace = parsed
	}

	// Set up Gin router
	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	// Apply middleware
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	// Initialize handlers
	benchHandler := handlers.NewBenchHandler(pace)
	chemistryHandler := handlers.NewChemistryHandler()

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		api.POST("/bench/configure", benchHandler.Configure)
		api.POST("/bench/start", benchHandler.Start)
		api.POST("/bench/pause", benchHandler.Pause)
		api.POST("/bench/resume", benchHandler.Resume)
		api.POST("/bench/stop", benchHandler.Stop)

		api.GET("/bench/status", benchHandler.GetStatus)
		api.GET("/bench/readings", benchHandler.GetReadings)
		api.GET("/bench/readings/export", benchHandler.ExportReadings)
		api.GET("/bench/stats", benchHandler.GetStats)

		api.GET("/chemistries", chemistryHandler.ListChemistries)
	}

	// Serve the dashboard build if it exists (SPA routing for non-API paths).
	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "./web/dist"
	}
	if _, err := os.Stat(staticDir); err == nil {
		router.Static("/assets", staticDir+"/assets")
		router.StaticFile("/favicon.ico", staticDir+"/favicon.ico")
		router.NoRoute(func(c *gin.Context) {
			path := c.Request.URL.Path
			if len(path) >= 4 && path[:4] == "/api" {
				c.JSON(404, gin.H{"error": "Not found"})
			} else {
				c.File(staticDir + "/index.html")
			}
		})
		log.Printf("Serving static files from %s", staticDir)
	} else {
		log.Printf("Static directory %s not found, skipping static file serving", staticDir)
	}

	// Start server
	addr := fmt.Sprintf(":%s", port)
	log.Printf("Starting API server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
