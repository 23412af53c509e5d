package model

import "time"

// Config is the complete qualgate configuration
type Config struct {
	Retry       RetryConfig       `yaml:"retry"`
	Breaker     BreakerConfig     `yaml:"breaker"`
	Thresholds  ThresholdSet      `yaml:"thresholds"`
	Review      ReviewConfig      `yaml:"review"`
	LLM         LLMConfig         `yaml:"llm"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Cache       CacheConfig       `yaml:"cache"`
	Policy      PolicyConfig      `yaml:"policy"`
	Output      OutputConfig      `yaml:"output"`
}

// RetryConfig controls the retry strategy selector
type RetryConfig struct {
	MaxRetries int           `yaml:"max_retries"`
	BaseDelay  time.Duration `yaml:"base_delay"`
	MaxDelay   time.Duration `yaml:"max_delay"`
	// RatePerSecond limits generation attempts per backend
	RatePerSecond float64 `yaml:"rate_per_second"`
	RateBurst     int     `yaml:"rate_burst"`
}

// BreakerConfig controls the per-backend circuit breaker
type BreakerConfig struct {
	FailureThreshold int           `yaml:"failure_threshold"`
	RecoveryWindow   time.Duration `yaml:"recovery_window"`
}

// ReviewConfig controls the human review queue backend
type ReviewConfig struct {
	Backend   string        `yaml:"backend"` // "memory" or "redis"
	RedisAddr string        `yaml:"redis_addr"`
	RedisDB   int           `yaml:"redis_db"`
	QueueKey  string        `yaml:"queue_key"`
	EntryTTL  time.Duration `yaml:"entry_ttl"`
}

// LLMConfig configures the generation collaborator
type LLMConfig struct {
	Provider  string `yaml:"provider"` // "openai" or "" (disabled)
	Model     string `yaml:"model"`
	APIKey    string `yaml:"-"` // from environment, never written to disk
	BaseURL   string `yaml:"base_url"`
	Timeout   int    `yaml:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens"`
}

// ConcurrencyConfig controls batch evaluation parallelism
type ConcurrencyConfig struct {
	BatchWorkers int `yaml:"batch_workers"`
}

// CacheConfig controls the resolved-threshold cache
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled"`
	TTL             time.Duration `yaml:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// PolicyConfig selects calibration policy behavior
type PolicyConfig struct {
	Variant PolicyVariant `yaml:"variant"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Retry: RetryConfig{
			MaxRetries:    3,
			BaseDelay:     time.Second,
			MaxDelay:      10 * time.Second,
			RatePerSecond: 5,
			RateBurst:     5,
		},
		Breaker: BreakerConfig{
			FailureThreshold: 5,
			RecoveryWindow:   60 * time.Second,
		},
		Thresholds: DefaultThresholds(),
		Review: ReviewConfig{
			Backend:  "memory",
			QueueKey: "qualgate:reviews",
			EntryTTL: 7 * 24 * time.Hour,
		},
		LLM: LLMConfig{
			Provider:  "",
			Timeout:   30,
			MaxTokens: 1000,
		},
		Concurrency: ConcurrencyConfig{
			BatchWorkers: 8,
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             5 * time.Minute,
			CleanupInterval: 10 * time.Minute,
		},
		Policy: PolicyConfig{
			Variant: PolicyStandard,
		},
		Output: OutputConfig{},
	}
}
