// Package config defines worker configuration and its loading order:
// defaults, then an optional YAML file, then HIREFLOW_-prefixed environment
// variables.
package config

import (
	"time"
)

// TemporalConfig locates the Temporal cluster and task queue.
type TemporalConfig struct {
	HostPort  string `koanf:"host_port"`
	Namespace string `koanf:"namespace"`
	TaskQueue string `koanf:"task_queue"`
}

// RedisConfig locates the talent memory store.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`

	// KeyPrefix namespaces all memory keys, so several deployments can
	// share one Redis.
	KeyPrefix string `koanf:"key_prefix"`
}

// LLMConfig configures the reasoning-service client.
type LLMConfig struct {
	// Endpoint is the API base URL; the client appends the
	// chat/completions route itself.
	Endpoint string `koanf:"endpoint"`
	APIKey   string `koanf:"api_key"`
	Model    string `koanf:"model"`

	// TimeoutSeconds bounds a single completion request.
	TimeoutSeconds int `koanf:"timeout_seconds"`
}

// PolicyConfig overrides decision-engine tunables. Zero values mean the
// engine defaults apply.
type PolicyConfig struct {
	// PassRatioCap bounds the fraction of an L1 batch allowed to move to
	// L2 automatically.
	PassRatioCap float64 `koanf:"pass_ratio_cap"`

	// MinEvaluatedBeforeCap exempts small batches from the cap.
	MinEvaluatedBeforeCap int `koanf:"min_evaluated_before_cap"`
}

// Config is the full worker configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	Temporal TemporalConfig `koanf:"temporal"`
	Redis    RedisConfig    `koanf:"redis"`
	LLM      LLMConfig      `koanf:"llm"`
	Policy   PolicyConfig   `koanf:"policy"`

	// Roles lists the role names whose intake queues each run scans.
	Roles []string `koanf:"roles"`

	// Folders maps stage key ("l1", "l2", "final") to role name to the
	// storage folder id for that role's queue at that stage.
	Folders map[string]map[string]string `koanf:"folders"`

	// MetricsAddr exposes the Prometheus endpoint; empty disables it.
	MetricsAddr string `koanf:"metrics_addr"`
}

// New returns the configuration defaults.
func New() *Config {
	return &Config{
		LogLevel: "info",
		Temporal: TemporalConfig{
			HostPort:  "localhost:7233",
			Namespace: "default",
			TaskQueue: "hireflow-pipeline",
		},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			KeyPrefix: "hireflow",
		},
		LLM: LLMConfig{
			Endpoint:       "https://api.openai.com/v1",
			Model:          "gpt-4o",
			TimeoutSeconds: 120,
		},
		MetricsAddr: ":9090",
	}
}

// LLMTimeout returns the completion timeout as a duration.
func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLM.TimeoutSeconds) * time.Second
}
