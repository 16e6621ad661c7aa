package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrMissingAPIKey is returned when no API credential is configured. This is
// fatal and aborts before any stage runs.
var ErrMissingAPIKey = errors.New("config: OPENAI_API_KEY not set")

// Defaults for the audit workflow.
const (
	DefaultMaxOutputTokens = 2500
	DefaultMaxRounds       = 4
	DefaultSentinel        = "AUDIT_COMPLETE"
	DefaultTimeout         = 120 * time.Second
)

// Config holds the immutable settings for audit runs. A Config value is
// built once at startup and passed into the workflow; concurrent runs with
// different configs never share state.
type Config struct {
	// APIKey authenticates against the generation service. Read from the
	// environment only, never from the config file.
	APIKey string `yaml:"-"`

	// BaseURL is the OpenAI-compatible API root. Empty means the client default.
	BaseURL string `yaml:"baseURL,omitempty"`

	// Model is the generation model identifier. Empty means the client default.
	Model string `yaml:"model,omitempty"`

	// MaxOutputTokens bounds the length of every generation response.
	MaxOutputTokens int `yaml:"maxOutputTokens,omitempty"`

	// MaxRounds is the hard ceiling on deliberation rounds.
	MaxRounds int `yaml:"maxRounds,omitempty"`

	// Sentinel is the moderator's completion phrase.
	Sentinel string `yaml:"sentinel,omitempty"`

	// SpecPath is the optional on-disk technical specification document.
	SpecPath string `yaml:"specPath,omitempty"`

	// Timeout is the per-call upper bound on generation wait time.
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// Verbose enables progress output during runs.
	Verbose bool `yaml:"verbose,omitempty"`
}

// Default returns a Config populated with workflow defaults and no credential.
func Default() Config {
	return Config{
		MaxOutputTokens: DefaultMaxOutputTokens,
		MaxRounds:       DefaultMaxRounds,
		Sentinel:        DefaultSentinel,
		Timeout:         DefaultTimeout,
	}
}

// Load reads medaudit.yml or medaudit.yaml from dir on top of the defaults.
// A missing config file is not an error; the defaults are returned.
func Load(dir string) (Config, error) {
	cfg := Default()
	for _, name := range []string{"medaudit.yml", "medaudit.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
		break
	}
	cfg.applyDefaults()
	return cfg, nil
}

// ApplyEnv overlays environment variables onto the config.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("MEDAUDIT_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("MEDAUDIT_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("MEDAUDIT_SPEC_PATH"); v != "" {
		c.SpecPath = v
	}
	if v := os.Getenv("MEDAUDIT_MAX_ROUNDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MaxRounds = n
		}
	}
}

// Validate checks that the config can support a run.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// applyDefaults restores workflow defaults for fields the config file zeroed
// or left unset.
func (c *Config) applyDefaults() {
	if c.MaxOutputTokens <= 0 {
		c.MaxOutputTokens = DefaultMaxOutputTokens
	}
	if c.MaxRounds <= 0 {
		c.MaxRounds = DefaultMaxRounds
	}
	if c.Sentinel == "" {
		c.Sentinel = DefaultSentinel
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
}
