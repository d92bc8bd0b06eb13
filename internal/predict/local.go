package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kvasnov/perturbia/internal/model"
	"github.com/kvasnov/perturbia/internal/util"
)

// Local answers questions via a local inference server exposing a simple
// JSON endpoint, for evaluating fine-tuned extractive models served from
// the same machine.
type Local struct {
	baseURL    string
	httpClient *http.Client
	cfg        model.PredictorConfig
}

type localRequest struct {
	Question string `json:"question"`
	Context  string `json:"context"`
	Model    string `json:"model,omitempty"`
}

type localResponse struct {
	Answer string `json:"answer"`
	Error  string `json:"error,omitempty"`
}

// NewLocal creates a predictor talking to a local inference server
func NewLocal(cfg model.PredictorConfig) (*Local, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:8500"
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second // local models can be slow to warm up
	}

	return &Local{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc("", ""),
			},
		},
		cfg: cfg,
	}, nil
}

// Name returns the provider name
func (p *Local) Name() string { return "local" }

// Model returns the configured model identifier
func (p *Local) Model() string {
	if p.cfg.Model != "" {
		return p.cfg.Model
	}
	return "local"
}

// Predict posts the question and passage to the inference server
func (p *Local) Predict(ctx context.Context, question, passage string) (string, error) {
	payload, err := json.Marshal(localRequest{
		Question: question,
		Context:  truncatePassage(passage),
		Model:    p.cfg.Model,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := p.baseURL + "/predict"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("inference server: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("inference server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed localResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if parsed.Error != "" {
		return "", fmt.Errorf("inference error: %s", parsed.Error)
	}

	return strings.TrimSpace(parsed.Answer), nil
}
