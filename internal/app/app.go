// Package app assembles the analysis pipeline from configuration. Both the
// HTTP server and the command line tool start here.
package app

import (
	"context"
	"fmt"
	"time"

	"insights/internal/config"
	"insights/internal/dataset"
	"insights/internal/model"
	"insights/internal/repository"
	"insights/internal/service"

	"github.com/charmbracelet/log"
)

// LoadDataset reads the initial records from the configured source and
// reports which source they came from.
func LoadDataset(ctx context.Context, cfg *config.Config, logger *log.Logger) ([]model.Record, string, error) {
	switch cfg.Dataset.Source {
	case config.SourceExcel:
		records, err := dataset.LoadExcelFile(cfg.Dataset.File)
		if err != nil {
			return nil, "", fmt.Errorf("load %s: %w", cfg.Dataset.File, err)
		}
		return records, dataset.SourceExcel, nil

	case config.SourcePostgres:
		repo, err := repository.NewPostgresRepository(
			cfg.GetPostgreSQLDSN(),
			cfg.PostgreSQL.MaxConnections,
			cfg.PostgreSQL.MaxIdleConnections,
		)
		if err != nil {
			return nil, "", err
		}
		defer repo.Close()
		logger.Info("✅ Connected to PostgreSQL database", "table", cfg.Dataset.Table)

		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		records, err := repo.LoadRecords(ctx, cfg.Dataset.Table)
		if err != nil {
			return nil, "", err
		}
		return records, dataset.SourcePostgres, nil

	default:
		return dataset.BuiltIn(), dataset.SourceBuiltIn, nil
	}
}

// NewNarrator returns the generative summarizer, or nil when OpenAI is not
// configured.
func NewNarrator(cfg *config.Config, logger *log.Logger) (service.Narrator, error) {
	if !cfg.OpenAI.Enabled {
		logger.Debug("OpenAI is disabled, summaries use the built-in rules")
		return nil, nil
	}
	client, err := service.NewOpenAIClient(&cfg.OpenAI)
	if err != nil {
		return nil, err
	}
	logger.Info("✅ OpenAI summarizer enabled", "model", cfg.OpenAI.ChatModel, "timeout_s", cfg.OpenAI.Timeout)
	return service.NewAINarrator(client, time.Duration(cfg.OpenAI.Timeout)*time.Second), nil
}

// NewAnalysisService wires a service over provider using the configured
// vocabulary, reference year and narrator.
func NewAnalysisService(cfg *config.Config, provider *dataset.Provider, logger *log.Logger) (*service.AnalysisService, error) {
	narrator, err := NewNarrator(cfg, logger)
	if err != nil {
		return nil, err
	}
	return service.NewAnalysisService(
		provider,
		service.NewIntentParser(cfg.Dataset.KnownAreas, cfg.Dataset.DefaultWindow),
		cfg.Dataset.ReferenceYear,
		narrator,
		logger,
	), nil
}
