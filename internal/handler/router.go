package handler

import (
	"net/http"
	"strings"

	"insights/internal/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// BuildInfo is reported by the health and version endpoints
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// NewRouter wires every route onto a gin engine
func NewRouter(cfg config.ServerConfig, info BuildInfo, analyze *AnalyzeHandler, upload *UploadHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = splitList(cfg.AllowedOrigins)
	corsConfig.AllowMethods = splitList(cfg.AllowedMethods)
	corsConfig.AllowHeaders = splitList(cfg.AllowedHeaders)
	if len(corsConfig.AllowOrigins) == 0 || (len(corsConfig.AllowOrigins) == 1 && corsConfig.AllowOrigins[0] == "*") {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"service":    "market-insights",
			"version":    info.Version,
			"build_time": info.BuildTime,
			"git_commit": info.GitCommit,
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    info.Version,
			"build_time": info.BuildTime,
			"git_commit": info.GitCommit,
		})
	})

	// Paths used by the existing frontend
	router.POST("/api/analyze/", analyze.Analyze)
	router.POST("/api/upload/", upload.Upload)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/analyze", analyze.Analyze)
		apiV1.POST("/upload", upload.Upload)
		apiV1.GET("/areas", analyze.Areas)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
	})

	return router
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
