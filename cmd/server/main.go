package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"insights/internal/app"
	"insights/internal/config"
	"insights/internal/dataset"
	"insights/internal/handler"
	"insights/internal/logging"

	"github.com/gin-gonic/gin"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)
	logging.ReportConfigWarnings(logger, cfg.Warnings)
	logger.Info("Market Insights", "version", Version, "build_time", BuildTime, "git_commit", GitCommit)

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	records, source, err := app.LoadDataset(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to load dataset", "source", cfg.Dataset.Source, "err", err)
	}
	provider := dataset.NewProvider(records, source)
	logger.Info("✅ Dataset loaded", "source", source, "rows", len(records), "areas", dataset.DistinctAreas(records))

	// Initialize services
	analysisService, err := app.NewAnalysisService(cfg, provider, logger)
	if err != nil {
		logger.Fatal("Failed to initialize analysis service", "err", err)
	}
	if !cfg.OpenAI.Enabled {
		logger.Warn("OpenAI is disabled, summaries use the built-in rules",
			"hint", "set OPENAI_API_KEY to enable generative summaries")
	}

	// Initialize handlers
	analyzeHandler := handler.NewAnalyzeHandler(analysisService)
	uploadHandler := handler.NewUploadHandler(provider, cfg.Upload.MaxBytes, cfg.Upload.ReplaceDataset, logger)

	router := handler.NewRouter(cfg.Server, handler.BuildInfo{
		Version:   Version,
		BuildTime: BuildTime,
		GitCommit: GitCommit,
	}, analyzeHandler, uploadHandler)
	router.MaxMultipartMemory = cfg.Upload.MaxBytes

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("🚀 Starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", "err", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("🛑 Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "err", err)
	}
	logger.Info("✅ Server stopped")
}
