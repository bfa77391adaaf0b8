// Package config defines the process-wide task-planner configuration. It
// is built once at startup and passed explicitly to the components that
// need it; nothing reads the environment mid-pipeline.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mintu3770/task-planner/internal/plan"
)

// APIKeyEnv is the environment variable holding the Anthropic credential.
const APIKeyEnv = "ANTHROPIC_API_KEY"

// maxRetries bounds the optional transport retry.
const maxRetries = 3

// Config is the top-level configuration.
type Config struct {
	APIKey    string        `yaml:"-" json:"-"` // never serialized
	Model     string        `yaml:"model" json:"model"`
	MaxTokens int           `yaml:"max_tokens" json:"max_tokens"`
	Timeout   time.Duration `yaml:"-" json:"timeout"`
	Retries   int           `yaml:"retries" json:"retries"` // transport errors only
}

// Default returns a config with sensible defaults. The API key is not
// resolved here; see ResolveAPIKey.
func Default() *Config {
	return &Config{
		Model:     "sonnet",
		MaxTokens: 8192,
		Timeout:   60 * time.Second,
		Retries:   0,
	}
}

// fileConfig is the YAML shape; timeout is a duration string.
type fileConfig struct {
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
	Timeout   string `yaml:"timeout"`
	Retries   int    `yaml:"retries"`
}

// Load reads a YAML config file and overlays it on the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &plan.Error{Kind: plan.KindConfig, Index: -1, Msg: fmt.Sprintf("read config %s", path), Err: err}
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, &plan.Error{Kind: plan.KindConfig, Index: -1, Msg: fmt.Sprintf("parse config %s", path), Err: err}
	}

	cfg := Default()
	if fc.Model != "" {
		cfg.Model = fc.Model
	}
	if fc.MaxTokens > 0 {
		cfg.MaxTokens = fc.MaxTokens
	}
	if fc.Retries > 0 {
		cfg.Retries = fc.Retries
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return nil, &plan.Error{Kind: plan.KindConfig, Index: -1, Msg: fmt.Sprintf("parse config %s: bad timeout %q", path, fc.Timeout), Err: err}
		}
		cfg.Timeout = d
	}
	return cfg, cfg.Validate()
}

// ResolveAPIKey reads the credential from the environment. Absence fails
// fast, before any network attempt is made.
func (c *Config) ResolveAPIKey() error {
	if c.APIKey != "" {
		return nil
	}
	key := os.Getenv(APIKeyEnv)
	if key == "" {
		return plan.Errorf(plan.KindAuth, "%s not set", APIKeyEnv)
	}
	c.APIKey = key
	return nil
}

// Validate checks ranges and normalizes the retry bound.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return plan.Errorf(plan.KindConfig, "timeout must be positive, got %s", c.Timeout)
	}
	if c.MaxTokens <= 0 {
		return plan.Errorf(plan.KindConfig, "max_tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Retries < 0 {
		return plan.Errorf(plan.KindConfig, "retries must not be negative, got %d", c.Retries)
	}
	if c.Retries > maxRetries {
		c.Retries = maxRetries
	}
	return nil
}
