package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"insights/internal/model"
	"insights/internal/utils"
)

// Summary sources
const (
	SourceRules = "rules"
	SourceAI    = "ai"
)

const narratorSystemPrompt = `You are a real-estate market analyst.
You receive the user's question, the parsed intent and the yearly market rows for the requested areas.
Use only the numbers in the rows. Percentages must have one decimal place.
Reply ONLY with valid JSON of the form {"summary": "<multi-line narrative>"}.
DO NOT return markdown. DO NOT add other keys.`

// Narrator writes a narrative summary for a filtered subset
type Narrator interface {
	Narrate(ctx context.Context, query string, intent *model.Intent, subset []model.Record) (string, error)
}

// SummaryOutcome records which path produced a summary
type SummaryOutcome struct {
	Text   string
	Source string // SourceAI or SourceRules
	Err    error  // Why the generative path was not used, if it was tried
}

// AINarrator asks a chat model for the summary and validates its reply
type AINarrator struct {
	completer ChatCompleter
	timeout   time.Duration
}

// NewAINarrator creates a narrator bounded by timeout per call
func NewAINarrator(completer ChatCompleter, timeout time.Duration) *AINarrator {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &AINarrator{completer: completer, timeout: timeout}
}

type narratorPayload struct {
	Query  string         `json:"query"`
	Intent *model.Intent  `json:"intent"`
	Rows   []model.Record `json:"rows"`
}

// Narrate implements Narrator
func (n *AINarrator) Narrate(ctx context.Context, query string, intent *model.Intent, subset []model.Record) (string, error) {
	if n.completer == nil {
		return "", ErrNarratorDisabled
	}

	userPrompt, err := json.Marshal(narratorPayload{Query: query, Intent: intent, Rows: subset})
	if err != nil {
		return "", fmt.Errorf("failed to marshal prompt: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	reply, err := n.completer.Complete(ctx, narratorSystemPrompt, string(userPrompt))
	if err != nil {
		return "", fmt.Errorf("summarizer request failed: %w", err)
	}

	var parsed struct {
		Summary string `json:"summary"`
	}
	if err := utils.DecodeAIJSON(reply, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	summary := strings.TrimSpace(parsed.Summary)
	if summary == "" {
		return "", fmt.Errorf("%w: summary is empty", ErrMalformedResponse)
	}
	return summary, nil
}
