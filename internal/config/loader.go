package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/hithonix/hireflow/internal/domain"
	"github.com/hithonix/hireflow/internal/storage"
)

// Load builds a Config by layering defaults, an optional YAML file, and
// environment variables. Precedence, low to high:
//  1. defaults (New)
//  2. YAML file named by HIREFLOW_CONFIG
//  3. env vars with prefix HIREFLOW_ (HIREFLOW_REDIS_ADDR -> redis.addr)
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("HIREFLOW_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	envProvider := env.Provider("HIREFLOW_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "HIREFLOW_"))
		// Section-qualified keys split on the first underscore
		// (HIREFLOW_REDIS_ADDR -> redis.addr); top-level keys keep
		// theirs (HIREFLOW_LOG_LEVEL -> log_level).
		section, _, found := strings.Cut(s, "_")
		if found && configSections[section] {
			return strings.Replace(s, "_", ".", 1)
		}
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the fields every worker needs before starting.
func (c *Config) Validate() error {
	if c.Redis.Addr == "" {
		return errors.New("redis.addr must not be empty")
	}
	if c.LLM.Endpoint == "" {
		return errors.New("llm.endpoint must not be empty")
	}
	if c.LLM.Model == "" {
		return errors.New("llm.model must not be empty")
	}
	if c.Temporal.TaskQueue == "" {
		return errors.New("temporal.task_queue must not be empty")
	}
	if len(c.Roles) == 0 {
		return errors.New("at least one role must be configured")
	}
	return nil
}

// configSections are the nested config blocks addressable from env vars.
var configSections = map[string]bool{
	"temporal": true,
	"redis":    true,
	"llm":      true,
	"policy":   true,
}

// stageKeys maps config-file stage keys to pipeline stages.
var stageKeys = map[string]domain.Stage{
	"l1":    domain.StageL1,
	"l2":    domain.StageL2,
	"hold":  domain.StageHold,
	"final": domain.StageFinal,
}

// Resolver converts the folder mapping into a location resolver. Role names
// are normalized, so config files may use display names.
func (c *Config) Resolver() storage.StaticResolver {
	folders := make(map[domain.Stage]map[string]string, len(c.Folders))
	for stageKey, byRole := range c.Folders {
		stage, ok := stageKeys[strings.ToLower(stageKey)]
		if !ok {
			continue
		}
		normalized := make(map[string]string, len(byRole))
		for role, folderID := range byRole {
			normalized[domain.NormalizeKey(role)] = folderID
		}
		folders[stage] = normalized
	}
	return storage.StaticResolver{Folders: folders}
}
