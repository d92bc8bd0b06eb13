package predict

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kvasnov/perturbia/internal/cache"
	"github.com/kvasnov/perturbia/internal/model"
)

func TestOpenAI_Predict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected Authorization Bearer test-key, got %s", r.Header.Get("Authorization"))
		}

		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Expected decodable request, got %v", err)
		}
		if len(req.Messages) != 2 {
			t.Errorf("Expected system + user message, got %d", len(req.Messages))
		}
		if !strings.Contains(req.Messages[1].Content, "What is the capital of France?") {
			t.Errorf("Expected question in prompt, got %q", req.Messages[1].Content)
		}

		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: "assistant", Content: " Paris \n"}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	predictor, err := NewOpenAI(model.PredictorConfig{
		APIKey:  "test-key",
		Model:   "gpt-4o-mini",
		BaseURL: server.URL,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	answer, err := predictor.Predict(context.Background(), "What is the capital of France?", "Paris is the capital of France.")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if answer != "Paris" {
		t.Errorf("Expected trimmed answer Paris, got %q", answer)
	}
}

func TestOpenAI_RequiresKey(t *testing.T) {
	if _, err := NewOpenAI(model.PredictorConfig{}); err == nil {
		t.Error("Expected error without API key")
	}
}

func TestLocal_Predict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict" {
			t.Errorf("Expected path /predict, got %s", r.URL.Path)
		}

		var req localRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Expected decodable request, got %v", err)
		}
		if req.Question != "What color is the sky?" {
			t.Errorf("Unexpected question %q", req.Question)
		}

		_ = json.NewEncoder(w).Encode(localResponse{Answer: "blue"})
	}))
	defer server.Close()

	predictor, err := NewLocal(model.PredictorConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	answer, err := predictor.Predict(context.Background(), "What color is the sky?", "The sky is blue.")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if answer != "blue" {
		t.Errorf("Expected blue, got %q", answer)
	}
}

func TestLocal_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("model not loaded"))
	}))
	defer server.Close()

	predictor, err := NewLocal(model.PredictorConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := predictor.Predict(context.Background(), "q", "c"); err == nil {
		t.Error("Expected error for 500 response")
	}
}

func TestTruncatePassage(t *testing.T) {
	short := "short passage"
	if truncatePassage(short) != short {
		t.Error("Expected short passage untouched")
	}

	long := strings.Repeat("é", maxPassageRunes+100)
	truncated := truncatePassage(long)
	if len([]rune(truncated)) != maxPassageRunes {
		t.Errorf("Expected %d runes, got %d", maxPassageRunes, len([]rune(truncated)))
	}
}

// countingPredictor records calls for cache tests
type countingPredictor struct {
	calls int
	fail  bool
}

func (p *countingPredictor) Name() string  { return "counting" }
func (p *countingPredictor) Model() string { return "counting-v1" }
func (p *countingPredictor) Predict(ctx context.Context, question, passage string) (string, error) {
	p.calls++
	if p.fail {
		return "", errors.New("model down")
	}
	return "Paris", nil
}

func TestCached_SecondCallHits(t *testing.T) {
	inner := &countingPredictor{}
	cached := NewCached(inner, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute)

	for i := 0; i < 3; i++ {
		answer, err := cached.Predict(context.Background(), "q", "c")
		if err != nil {
			t.Fatalf("Call %d: expected no error, got %v", i, err)
		}
		if answer != "Paris" {
			t.Errorf("Call %d: expected Paris, got %q", i, answer)
		}
	}

	if inner.calls != 1 {
		t.Errorf("Expected 1 model call, got %d", inner.calls)
	}

	hits, misses := cached.Stats()
	if hits != 2 || misses != 1 {
		t.Errorf("Expected 2 hits / 1 miss, got %d / %d", hits, misses)
	}
}

func TestCached_ErrorsNotCached(t *testing.T) {
	inner := &countingPredictor{fail: true}
	cached := NewCached(inner, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := cached.Predict(context.Background(), "q", "c"); err == nil {
			t.Fatalf("Call %d: expected error", i)
		}
	}

	if inner.calls != 2 {
		t.Errorf("Expected failures to bypass the cache, got %d calls", inner.calls)
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	if _, err := New(model.PredictorConfig{Provider: "quantum"}); err == nil {
		t.Error("Expected error for unknown provider")
	}
}
