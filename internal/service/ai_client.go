package service

import (
	"context"
	"errors"

	"insights/internal/config"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ChatCompleter sends one system+user exchange to a chat model and returns the reply text
type ChatCompleter interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// OpenAIClient implements ChatCompleter with the official openai-go SDK.
// Any OpenAI-compatible endpoint works through APIBase.
type OpenAIClient struct {
	client      openai.Client
	model       string
	temperature float64
	maxTokens   int
}

// NewOpenAIClient creates a client from configuration
func NewOpenAIClient(cfg *config.OpenAIConfig) (*OpenAIClient, error) {
	if cfg == nil {
		return nil, errors.New("openai config is nil")
	}
	if !cfg.Enabled || cfg.APIKey == "" {
		return nil, ErrNarratorDisabled
	}
	if cfg.ChatModel == "" {
		return nil, errors.New("OPENAI_CHAT_MODEL is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.APIBase != "" {
		opts = append(opts, option.WithBaseURL(cfg.APIBase))
	}

	return &OpenAIClient{
		client:      openai.NewClient(opts...),
		model:       cfg.ChatModel,
		temperature: cfg.ChatTemperature,
		maxTokens:   cfg.ChatMaxTokens,
	}, nil
}

// Complete performs a chat completion request
func (c *OpenAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	}
	if c.temperature > 0 {
		params.Temperature = openai.Float(c.temperature)
	}
	if c.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(c.maxTokens))
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}
