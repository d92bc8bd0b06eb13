package predict

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kvasnov/perturbia/internal/model"
)

// OpenAI answers questions with an OpenAI chat-completions model
type OpenAI struct {
	client *openai.Client
	cfg    model.PredictorConfig
}

// NewOpenAI creates an OpenAI-backed predictor
func NewOpenAI(cfg model.PredictorConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAI{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
	}, nil
}

// Name returns the provider name
func (p *OpenAI) Name() string { return "openai" }

// Model returns the configured model identifier
func (p *OpenAI) Model() string {
	if p.cfg.Model != "" {
		return p.cfg.Model
	}
	return openai.GPT4oMini
}

// Predict asks the model for an extractive answer
func (p *OpenAI) Predict(ctx context.Context, question, passage string) (string, error) {
	timeout := p.cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	maxTokens := p.cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 64
	}

	req := openai.ChatCompletionRequest{
		Model: p.Model(),
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userPrompt(question, truncatePassage(passage)),
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0, // extraction, not generation
	}

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
