// Package config holds application settings: model provider options and
// the location of the profiles file. JIRA credentials live in the profile
// store, not here.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds summarizer settings.
type Config struct {
	// Model is the chat-completions model name.
	Model string `yaml:"model" mapstructure:"model"`
	// Endpoint overrides the completions endpoint for OpenAI-compatible
	// providers. Empty means the default OpenAI endpoint.
	Endpoint string `yaml:"endpoint,omitempty" mapstructure:"endpoint"`
	// TimeoutSeconds bounds each outbound request.
	TimeoutSeconds int `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	// ProfilesPath locates the connection-profiles file.
	ProfilesPath string `yaml:"profiles_path,omitempty" mapstructure:"profiles_path"`
	// UserID identifies this installation in summarization requests. It is
	// generated on first use.
	UserID string `yaml:"user_id,omitempty" mapstructure:"user_id"`
}

// DefaultPath returns the default config file path (~/.jira-summarizer.yaml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".jira-summarizer.yaml"
	}
	return filepath.Join(home, ".jira-summarizer.yaml")
}

// Load reads config from the YAML file and applies env var overrides.
// configPath may be empty to use the default path.
func Load(configPath string) (Config, error) {
	v := viper.New()

	if configPath == "" {
		configPath = DefaultPath()
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Env var overrides
	v.BindEnv("model", "JIRA_AI_MODEL")
	v.BindEnv("endpoint", "JIRA_AI_ENDPOINT")
	v.BindEnv("profiles_path", "JIRA_AI_PROFILES")

	// Read the config file (ignore "not found" errors so env vars and
	// defaults still work)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Timeout returns the configured per-request timeout, or zero when unset
// so callers keep their own default.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Save writes the config to the given path (or default path if empty).
func Save(cfg Config, configPath string) error {
	if configPath == "" {
		configPath = DefaultPath()
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// NewUserID generates a random installation id.
func NewUserID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating user id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
