package llm

import (
	"os"
	"strconv"
	"time"
)

// TaskType identifies the kind of content a call produces.
type TaskType string

const (
	TaskInsight   TaskType = "insight"
	TaskChatReply TaskType = "chat_reply"
	TaskMission   TaskType = "mission"
	TaskEmotion   TaskType = "emotion"
)

// TaskConfig holds per-task call parameters.
type TaskConfig struct {
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	TimeoutMs   int     `yaml:"timeout_ms"` // per attempt; overrides global if > 0
}

// LLMConfig holds all configuration for the generation endpoint.
type LLMConfig struct {
	Enabled  bool   `yaml:"enabled"`
	LogCalls bool   `yaml:"log_calls"`
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`

	// TimeoutMs bounds a single attempt.
	TimeoutMs        int `yaml:"timeout_ms"`
	MaxAttempts      int `yaml:"max_attempts"`
	BaseDelayMs      int `yaml:"base_delay_ms"`
	RateLimitDelayMs int `yaml:"rate_limit_delay_ms"`
	// CallBudgetMs bounds a whole call, retries and waits included.
	CallBudgetMs int `yaml:"call_budget_ms"`

	Tasks map[TaskType]TaskConfig `yaml:"tasks"`
}

// DefaultConfig returns an LLMConfig with sensible defaults.
// Calls are disabled until an API key is configured.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Enabled:          false,
		LogCalls:         false,
		Endpoint:         "https://api.openai.com",
		Model:            "gpt-4o",
		TimeoutMs:        8000,
		MaxAttempts:      3,
		BaseDelayMs:      1000,
		RateLimitDelayMs: 2000,
		CallBudgetMs:     12000,
		Tasks: map[TaskType]TaskConfig{
			TaskInsight:   {Temperature: 0.8, MaxTokens: 800, TimeoutMs: 8000},
			TaskChatReply: {Temperature: 0.9, MaxTokens: 300, TimeoutMs: 6000},
			TaskMission:   {Temperature: 0.7, MaxTokens: 400, TimeoutMs: 6000},
			TaskEmotion:   {Temperature: 0.3, MaxTokens: 50, TimeoutMs: 4000},
		},
	}
}

// LoadConfig reads configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()
	ApplyEnv(&cfg)
	return cfg
}

// ApplyEnv overlays FORTUNE_LLM_* environment variables onto cfg. Malformed
// values are ignored. Setting an API key enables calls unless
// FORTUNE_LLM_ENABLED says otherwise.
func ApplyEnv(cfg *LLMConfig) {
	if v := os.Getenv("FORTUNE_LLM_API_KEY"); v != "" {
		cfg.APIKey = v
		cfg.Enabled = true
	}
	if v := os.Getenv("FORTUNE_LLM_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Enabled = b
		}
	}
	if v := os.Getenv("FORTUNE_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("FORTUNE_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("FORTUNE_LLM_MODEL"); v != "" {
		cfg.Model = v
	}

	applyPositiveIntEnv(&cfg.TimeoutMs, "FORTUNE_LLM_TIMEOUT_MS")
	applyPositiveIntEnv(&cfg.MaxAttempts, "FORTUNE_LLM_MAX_ATTEMPTS")
	applyPositiveIntEnv(&cfg.CallBudgetMs, "FORTUNE_LLM_CALL_BUDGET_MS")
	applyNonNegativeIntEnv(&cfg.BaseDelayMs, "FORTUNE_LLM_BASE_DELAY_MS")
	applyNonNegativeIntEnv(&cfg.RateLimitDelayMs, "FORTUNE_LLM_RATE_LIMIT_DELAY_MS")

	applyTaskTimeoutEnv(cfg, TaskInsight, "FORTUNE_LLM_INSIGHT_TIMEOUT_MS")
	applyTaskTimeoutEnv(cfg, TaskChatReply, "FORTUNE_LLM_CHAT_REPLY_TIMEOUT_MS")
	applyTaskTimeoutEnv(cfg, TaskMission, "FORTUNE_LLM_MISSION_TIMEOUT_MS")
	applyTaskTimeoutEnv(cfg, TaskEmotion, "FORTUNE_LLM_EMOTION_TIMEOUT_MS")
}

// TaskTimeout returns the effective per-attempt timeout for a task.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) time.Duration {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return ms(tc.TimeoutMs)
	}
	return ms(c.TimeoutMs)
}

// CallBudget returns the wall-clock bound for one Complete call.
func (c LLMConfig) CallBudget() time.Duration {
	return ms(c.CallBudgetMs)
}

// BackoffDelay returns the wait before attempt n (n >= 2): the base delay
// times n, plus the rate-limit penalty when the previous attempt got a 429.
func (c LLMConfig) BackoffDelay(n int, prev error) time.Duration {
	d := ms(c.BaseDelayMs) * time.Duration(n)
	if isRateLimited(prev) {
		d += ms(c.RateLimitDelayMs)
	}
	return d
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

func applyPositiveIntEnv(dst *int, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		*dst = n
	}
}

func applyNonNegativeIntEnv(dst *int, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	if n, err := strconv.Atoi(v); err == nil && n >= 0 {
		*dst = n
	}
}

func applyTaskTimeoutEnv(cfg *LLMConfig, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	if cfg.Tasks == nil {
		cfg.Tasks = map[TaskType]TaskConfig{}
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}
