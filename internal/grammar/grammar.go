// Package grammar estimates grammatical-error counts for predicted
// answers via a LanguageTool-compatible checking service. The estimator
// is a black box: the evaluator only consumes the integer count.
package grammar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kvasnov/perturbia/internal/model"
)

// Estimator counts grammatical errors in a piece of text
type Estimator interface {
	CountErrors(ctx context.Context, text string) (int, error)
}

// LanguageTool talks to a LanguageTool HTTP server's /v2/check endpoint
type LanguageTool struct {
	endpoint   string
	language   string
	httpClient *http.Client
}

// NewLanguageTool creates an estimator from configuration
func NewLanguageTool(cfg model.GrammarConfig) *LanguageTool {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	language := cfg.Language
	if language == "" {
		language = "en-US"
	}

	return &LanguageTool{
		endpoint:   cfg.Endpoint,
		language:   language,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type checkResponse struct {
	Matches []struct {
		Message string `json:"message"`
		Offset  int    `json:"offset"`
		Length  int    `json:"length"`
	} `json:"matches"`
}

// CountErrors submits the text for checking and returns the number of
// rule matches. Empty text has zero errors by definition.
func (lt *LanguageTool) CountErrors(ctx context.Context, text string) (int, error) {
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}

	form := url.Values{}
	form.Set("text", text)
	form.Set("language", lt.language)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, lt.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := lt.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("grammar check: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("grammar check returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed checkResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}

	return len(parsed.Matches), nil
}

// Disabled is an estimator that always reports zero errors, for runs
// without a checking service available
type Disabled struct{}

// CountErrors always returns zero
func (Disabled) CountErrors(ctx context.Context, text string) (int, error) {
	return 0, nil
}
