package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"insights/internal/dataset"
	"insights/internal/model"

	"github.com/charmbracelet/log"
)

// AnalysisService runs the query -> filter -> summarize/chart pipeline
type AnalysisService struct {
	provider      *dataset.Provider
	intent        *IntentParser
	referenceYear int
	narrator      Narrator
	logger        *log.Logger
}

// NewAnalysisService creates a new analysis service. narrator may be nil, in
// which case summaries always come from the built-in rules.
func NewAnalysisService(
	provider *dataset.Provider,
	intentParser *IntentParser,
	referenceYear int,
	narrator Narrator,
	logger *log.Logger,
) *AnalysisService {
	if logger == nil {
		logger = log.Default()
	}
	return &AnalysisService{
		provider:      provider,
		intent:        intentParser,
		referenceYear: referenceYear,
		narrator:      narrator,
		logger:        logger,
	}
}

// Provider returns the dataset the service reads from
func (s *AnalysisService) Provider() *dataset.Provider {
	return s.provider
}

// KnownAreas returns the analyzer vocabulary
func (s *AnalysisService) KnownAreas() []string {
	return s.intent.KnownAreas()
}

// Analyze answers query. It never fails: data problems produce a result with an
// explanatory summary and empty chart and table.
func (s *AnalysisService) Analyze(ctx context.Context, query string) (*model.AnalysisResult, SummaryOutcome) {
	intent, err := s.intent.Parse(query)
	if err != nil {
		s.logger.Info("query rejected", "query", query, "err", err)
		return model.NewFailureResult(err.Error()), SummaryOutcome{Text: err.Error(), Source: SourceRules}
	}

	// One snapshot per request so a concurrent upload cannot split the view
	snap := s.provider.Snapshot()
	subset := FilterRecords(snap.Records, intent, s.referenceYear)

	s.logger.Debug("query parsed",
		"areas", intent.Areas,
		"comparison", intent.IsComparison,
		"window", intent.YearWindow,
		"rows", len(subset),
		"dataset", snap.Source,
	)

	if len(subset) == 0 {
		err = &AreaDataError{Area: strings.Join(intent.Areas, ", "), Err: ErrEmptySubset}
	}

	var summary string
	if err == nil {
		summary, err = Summarize(intent, subset)
	}
	if err != nil {
		msg := s.describeDataError(err, intent)
		s.logger.Warn("analysis degraded", "query", query, "err", err)
		return model.NewFailureResult(msg), SummaryOutcome{Text: msg, Source: SourceRules}
	}

	result := &model.AnalysisResult{
		Summary:      summary,
		Chart:        ToChartSeries(subset, intent.IsComparison, intent.Areas),
		Table:        subset,
		Areas:        intent.Areas,
		IsComparison: intent.IsComparison,
	}
	outcome := SummaryOutcome{Text: summary, Source: SourceRules}

	if s.narrator != nil {
		text, err := s.narrator.Narrate(ctx, query, intent, subset)
		if err != nil {
			s.logger.Warn("generative summary unavailable, using rules", "err", err)
			outcome.Err = err
		} else {
			result.Summary = text
			outcome = SummaryOutcome{Text: text, Source: SourceAI}
		}
	}

	return result, outcome
}

func (s *AnalysisService) describeDataError(err error, intent *model.Intent) string {
	area := strings.Join(intent.Areas, ", ")
	var dataErr *AreaDataError
	if errors.As(err, &dataErr) {
		area = dataErr.Area
	}
	names := displayList(area)
	startYear := s.referenceYear - intent.YearWindow + 1

	switch {
	case errors.Is(err, ErrEmptySubset):
		return fmt.Sprintf("No market data available for %s since %d. Try a longer period or upload a dataset covering this area.",
			names, startYear)
	case errors.Is(err, ErrDivisionByZero):
		metric := "price"
		if dataErr != nil && dataErr.Metric != "" {
			metric = dataErr.Metric
		}
		return fmt.Sprintf("Cannot compute %s growth for %s because the starting %s is zero.", metric, names, metric)
	default:
		return fmt.Sprintf("Unable to analyze %s: %v", names, err)
	}
}

// displayList title-cases a comma separated list of canonical names
func displayList(areas string) string {
	parts := strings.Split(areas, ", ")
	for i, p := range parts {
		parts[i] = DisplayArea(p)
	}
	return strings.Join(parts, ", ")
}
