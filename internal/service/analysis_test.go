package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"insights/internal/config"
	"insights/internal/dataset"
	"insights/internal/logging"
	"insights/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCompleter struct {
	reply  string
	err    error
	system string
	user   string
	block  bool
}

func (s *stubCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	s.system, s.user = system, user
	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return s.reply, s.err
}

func newTestService(records []model.Record, narrator Narrator) *AnalysisService {
	return NewAnalysisService(
		dataset.NewProvider(records, dataset.SourceBuiltIn),
		NewIntentParser(config.DefaultKnownAreas, 4),
		2024,
		narrator,
		logging.Discard(),
	)
}

func TestAnalysisService_SingleArea(t *testing.T) {
	svc := newTestService(dataset.BuiltIn(), nil)

	result, outcome := svc.Analyze(context.Background(), "Wakad price growth")

	assert.Equal(t, SourceRules, outcome.Source)
	assert.Equal(t, []string{"wakad"}, result.Areas)
	assert.False(t, result.IsComparison)
	assert.Contains(t, result.Summary, "36.4%")
	require.Len(t, result.Table, 4)
	require.Len(t, result.Chart, 4)

	// table is the filtered subset exactly
	intent, err := svc.intent.Parse("Wakad price growth")
	require.NoError(t, err)
	assert.Equal(t, FilterRecords(dataset.BuiltIn(), intent, 2024), result.Table)
}

func TestAnalysisService_Comparison(t *testing.T) {
	svc := newTestService(dataset.BuiltIn(), nil)

	result, _ := svc.Analyze(context.Background(), "compare wakad and aundh price")

	assert.True(t, result.IsComparison)
	assert.Equal(t, []string{"wakad", "aundh"}, result.Areas)
	assert.Contains(t, result.Summary, "Wakad shows better investment potential")
	require.Len(t, result.Chart, 4)
	_, ok := result.Chart[0].Get("aundh_demand")
	assert.True(t, ok)
}

func TestAnalysisService_FailurePayloads(t *testing.T) {
	zeroPrice := []model.Record{
		{Year: 2023, Area: "Wakad", Price: 0, Demand: 10},
		{Year: 2024, Area: "Wakad", Price: 10, Demand: 12},
	}

	tests := []struct {
		name    string
		records []model.Record
		query   string
		want    string
	}{
		{name: "no area", records: dataset.BuiltIn(), query: "show me data", want: "Please specify an area"},
		{name: "empty subset", records: nil, query: "wakad", want: "No market data available for Wakad since 2021."},
		{name: "window outside data", records: dataset.BuiltIn()[:1], query: "wakad last 2 years", want: "for Wakad since 2023."},
		{name: "missing second area", records: dataset.BuiltIn()[:4], query: "compare wakad and aundh", want: "No market data available for Aundh"},
		{name: "zero baseline", records: zeroPrice, query: "wakad", want: "starting price is zero"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(tt.records, nil)
			result, _ := svc.Analyze(context.Background(), tt.query)

			assert.Contains(t, result.Summary, tt.want)
			assert.False(t, result.IsComparison)
			assert.NotNil(t, result.Chart)
			assert.Empty(t, result.Chart)
			assert.NotNil(t, result.Table)
			assert.Empty(t, result.Table)

			data, err := json.Marshal(result)
			require.NoError(t, err)
			assert.JSONEq(t, `{"summary": `+mustJSON(t, result.Summary)+`, "chart": [], "table": [], "areas": [], "isComparison": false}`, string(data))
		})
	}
}

func TestAnalysisService_SeesReplacedDataset(t *testing.T) {
	svc := newTestService(dataset.BuiltIn(), nil)
	svc.Provider().Replace([]model.Record{
		{Year: 2023, Area: "Wakad", Price: 1000, Demand: 100},
		{Year: 2024, Area: "Wakad", Price: 1100, Demand: 100},
	}, dataset.SourceUpload)

	result, _ := svc.Analyze(context.Background(), "wakad")
	assert.Contains(t, result.Summary, "Price Growth: 10.0%")
	assert.Contains(t, result.Summary, "stable appreciation potential with steady demand")
}

func TestAnalysisService_AINarrator(t *testing.T) {
	completer := &stubCompleter{reply: "```json\n{\"summary\": \"Wakad is booming.\"}\n```"}
	svc := newTestService(dataset.BuiltIn(), NewAINarrator(completer, time.Second))

	result, outcome := svc.Analyze(context.Background(), "wakad demand")

	assert.Equal(t, SourceAI, outcome.Source)
	assert.NoError(t, outcome.Err)
	assert.Equal(t, "Wakad is booming.", result.Summary)
	assert.Len(t, result.Table, 4, "chart and table stay deterministic")
	assert.Contains(t, completer.system, `{"summary"`)
	assert.Contains(t, completer.user, `"area":"Wakad"`)
}

func TestAnalysisService_AIFallback(t *testing.T) {
	tests := []struct {
		name      string
		completer *stubCompleter
		wantErr   error
	}{
		{name: "malformed reply", completer: &stubCompleter{reply: "Sure! Wakad looks great."}, wantErr: ErrMalformedResponse},
		{name: "empty summary", completer: &stubCompleter{reply: `{"summary": "  "}`}, wantErr: ErrMalformedResponse},
		{name: "request error", completer: &stubCompleter{err: errors.New("503 upstream")}},
		{name: "timeout", completer: &stubCompleter{block: true}, wantErr: context.DeadlineExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(dataset.BuiltIn(), NewAINarrator(tt.completer, 20*time.Millisecond))

			result, outcome := svc.Analyze(context.Background(), "wakad")

			assert.Equal(t, SourceRules, outcome.Source)
			require.Error(t, outcome.Err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, outcome.Err, tt.wantErr)
			}
			assert.True(t, strings.HasPrefix(result.Summary, "Real Estate Analysis: Wakad"))
		})
	}
}

func TestAnalysisService_DataErrorsBypassNarrator(t *testing.T) {
	completer := &stubCompleter{reply: `{"summary": "should not be used"}`}
	svc := newTestService(nil, NewAINarrator(completer, time.Second))

	result, outcome := svc.Analyze(context.Background(), "wakad")

	assert.Equal(t, SourceRules, outcome.Source)
	assert.Contains(t, result.Summary, "No market data available")
	assert.Empty(t, completer.user, "narrator not called")
}

func TestAINarrator_NilCompleter(t *testing.T) {
	_, err := NewAINarrator(nil, 0).Narrate(context.Background(), "q", &model.Intent{}, nil)
	assert.ErrorIs(t, err, ErrNarratorDisabled)
}

func TestNewOpenAIClient_Disabled(t *testing.T) {
	_, err := NewOpenAIClient(&config.OpenAIConfig{})
	assert.ErrorIs(t, err, ErrNarratorDisabled)

	_, err = NewOpenAIClient(nil)
	assert.Error(t, err)

	client, err := NewOpenAIClient(&config.OpenAIConfig{APIKey: "sk-test", ChatModel: "gpt-4o-mini", Enabled: true})
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}
