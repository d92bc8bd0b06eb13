package model

import "time"

// Config is the full toolkit configuration
type Config struct {
	Perturb     PerturbConfig     `yaml:"perturb"`
	Predictor   PredictorConfig   `yaml:"predictor"`
	Grammar     GrammarConfig     `yaml:"grammar"`
	Cache       CacheConfig       `yaml:"cache"`
	HTTP        HTTPConfig        `yaml:"http"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Output      OutputConfig      `yaml:"output"`
}

// PerturbConfig controls adversarial corpus generation
type PerturbConfig struct {
	Seed      int64  `yaml:"seed"`       // base seed; per-paragraph rngs derive from it
	Sentences int    `yaml:"sentences"`  // distractor sentences per paragraph (AddAny)
	PoolPath  string `yaml:"pool_path"`  // optional distractor pool file, one sentence per line
}

// PredictorConfig configures the black-box QA model
type PredictorConfig struct {
	Provider  string        `yaml:"provider"` // openai, local
	Model     string        `yaml:"model"`
	APIKey    string        `yaml:"-"` // from env only, never persisted
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	MaxTokens int           `yaml:"max_tokens"`
	RateLimit float64       `yaml:"rate_limit"` // requests per second, 0 = unlimited
}

// GrammarConfig configures the grammatical-error estimator
type GrammarConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Language string        `yaml:"language"`
	Timeout  time.Duration `yaml:"timeout"`
}

// CacheConfig controls prediction caching
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Dir     string        `yaml:"dir"`
	TTL     time.Duration `yaml:"ttl"`
}

// HTTPConfig controls outbound HTTP for pool harvesting
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy"`
}

// ConcurrencyConfig controls parallel transformation
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"` // 1 = sequential reference behavior
}

// OutputConfig controls reporting
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Perturb: PerturbConfig{
			Seed:      42,
			Sentences: 2,
		},
		Predictor: PredictorConfig{
			Provider:  "openai",
			Model:     "gpt-4o-mini",
			Timeout:   30 * time.Second,
			MaxTokens: 64,
			RateLimit: 2,
		},
		Grammar: GrammarConfig{
			Endpoint: "http://localhost:8010/v2/check",
			Language: "en-US",
			Timeout:  15 * time.Second,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     defaultCacheDir(),
			TTL:     7 * 24 * time.Hour,
		},
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Perturbia/0.1 (+https://github.com/kvasnov/perturbia)",
			MaxBodyBytes: 2_000_000,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 1,
		},
		Output: OutputConfig{
			Verbose: false,
		},
	}
}
