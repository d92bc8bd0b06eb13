// Package predict adapts black-box question-answering models to the
// evaluator. A predictor takes a question and a passage and returns the
// model's answer string; everything about how the answer is produced is
// the provider's business.
package predict

import (
	"context"
	"fmt"
	"strings"

	"github.com/kvasnov/perturbia/internal/model"
	"github.com/kvasnov/perturbia/internal/worker"
)

// Predictor is the black-box QA model interface
type Predictor interface {
	// Name returns the provider name
	Name() string

	// Model returns the model identifier, used for cache keying
	Model() string

	// Predict answers the question from the given passage. Providers
	// truncate the passage to their own model input limit; that limit
	// is independent of the evaluator's skip policy.
	Predict(ctx context.Context, question, passage string) (string, error)
}

// maxPassageRunes is the passage budget handed to a remote model. A stand-in
// for the model's own token limit; distinct from the evaluator's 512-character
// answer-position check.
const maxPassageRunes = 2048

// truncatePassage caps the passage at the provider input budget
func truncatePassage(passage string) string {
	runes := []rune(passage)
	if len(runes) <= maxPassageRunes {
		return passage
	}
	return string(runes[:maxPassageRunes])
}

// systemPrompt instructs chat models to behave extractively
const systemPrompt = "You are an extractive question answering system. " +
	"Answer with the shortest exact span copied verbatim from the passage. " +
	"If the passage does not contain the answer, reply with an empty string. " +
	"Do not explain."

func userPrompt(question, passage string) string {
	return fmt.Sprintf("Passage:\n%s\n\nQuestion: %s\n\nAnswer:", passage, question)
}

// New creates a predictor from configuration, wrapping it with per-host
// rate limiting
func New(cfg model.PredictorConfig) (Predictor, error) {
	var (
		inner Predictor
		err   error
	)

	switch strings.ToLower(cfg.Provider) {
	case "openai":
		inner, err = NewOpenAI(cfg)
	case "local":
		inner, err = NewLocal(cfg)
	default:
		return nil, fmt.Errorf("unknown predictor provider: %s (supported: openai, local)", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	if cfg.RateLimit > 0 {
		inner = NewRateLimited(inner, worker.NewLimiter(cfg.RateLimit, 1), cfg.BaseURL)
	}

	return inner, nil
}

// RateLimited throttles an underlying predictor
type RateLimited struct {
	inner   Predictor
	limiter *worker.Limiter
	host    string
}

// NewRateLimited wraps a predictor with a rate limiter. The host string
// groups requests into one bucket; an empty host uses the provider name.
func NewRateLimited(inner Predictor, limiter *worker.Limiter, host string) *RateLimited {
	if host == "" {
		host = inner.Name()
	}
	return &RateLimited{inner: inner, limiter: limiter, host: host}
}

// Name returns the underlying provider name
func (p *RateLimited) Name() string { return p.inner.Name() }

// Model returns the underlying model identifier
func (p *RateLimited) Model() string { return p.inner.Model() }

// Predict waits for rate-limit clearance, then delegates
func (p *RateLimited) Predict(ctx context.Context, question, passage string) (string, error) {
	if err := p.limiter.WaitHost(ctx, p.host); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}
	return p.inner.Predict(ctx, question, passage)
}
