// Package config assembles runtime settings from an optional YAML file and
// FORTUNE_* environment variables. Environment values win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/fortune/internal/llm"
	"gopkg.in/yaml.v3"
)

// Config is the full runtime configuration of the fortune binary.
type Config struct {
	DBPath         string        `yaml:"db_path"`
	LogMode        string        `yaml:"log_mode"`
	Timezone       string        `yaml:"timezone"`
	// DebugDayOffset, when set, shifts the day for this run only. It wins
	// over the offset saved by "debug offset" and is never persisted.
	DebugDayOffset *int          `yaml:"debug_day_offset"`
	LLM            llm.LLMConfig `yaml:"llm"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		DBPath:  defaultDBPath(),
		LogMode: "silent",
		LLM:     llm.DefaultConfig(),
	}
}

// Load builds a Config. path names a YAML file; when empty, FORTUNE_CONFIG
// is consulted, and when that is empty too only defaults and environment
// apply. A named file that does not exist is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("FORTUNE_CONFIG")
	}
	if path != "" {
		if err := readFile(&cfg, expandHome(path)); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)
	cfg.DBPath = expandHome(cfg.DBPath)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the rest of the program cannot run with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("db_path is empty"))
	}
	if c.LLM.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("llm.max_attempts must be >= 1, got %d", c.LLM.MaxAttempts))
	}
	if c.LLM.BaseDelayMs < 0 || c.LLM.RateLimitDelayMs < 0 {
		errs = append(errs, errors.New("llm delays must not be negative"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Location resolves Timezone. Empty means the process's local zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func readFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}

	// An api_key in the file turns calls on unless enabled is written out.
	var explicit struct {
		LLM struct {
			Enabled *bool `yaml:"enabled"`
		} `yaml:"llm"`
	}
	if err := yaml.Unmarshal(data, &explicit); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.LLM.APIKey != "" && explicit.LLM.Enabled == nil {
		cfg.LLM.Enabled = true
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("FORTUNE_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("FORTUNE_LOG_MODE"); v != "" {
		cfg.LogMode = v
	}
	if v := os.Getenv("FORTUNE_TZ"); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv("FORTUNE_DEBUG_DAY_OFFSET"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DebugDayOffset = &n
		}
	}
	llm.ApplyEnv(&cfg.LLM)
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".fortune", "fortune.db")
	}
	return filepath.Join(home, ".fortune", "fortune.db")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
