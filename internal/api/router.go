package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stargen/stargen-backend-go/internal/config"
	"github.com/stargen/stargen-backend-go/internal/handler"
	"github.com/stargen/stargen-backend-go/internal/middleware"
	"github.com/stargen/stargen-backend-go/internal/service"
)

// SetupRouter wires the HTTP surface consumed by the map-rendering layer.
func SetupRouter(cfg *config.Config, analysisService *service.AnalysisService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "STARGEN backend is running",
		})
	})

	analysisHandler := handler.NewAnalysisHandler(analysisService)

	api := r.Group("/api/v1")
	{
		analysis := api.Group("/analysis")
		{
			analysis.GET("/params", analysisHandler.GetParams)
			analysis.GET("/status", analysisHandler.GetStatus)
			analysis.GET("/bins", analysisHandler.GetBins)
			analysis.GET("/bins/:index/cells", analysisHandler.GetBinCells)
			analysis.GET("/bins/:index/edges", analysisHandler.GetBinEdges)
			analysis.GET("/runs", analysisHandler.GetRuns)

			// Recomputes are expensive; authenticated and rate limited.
			analysis.POST("/recompute",
				middleware.JWTAuth(cfg.JWTSecret),
				middleware.RateLimit(10, time.Minute),
				analysisHandler.Recompute)
		}
	}

	return r
}
