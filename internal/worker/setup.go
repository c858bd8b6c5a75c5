// Package worker wires the pipeline's collaborators together and registers
// them with a Temporal worker. Initialization lives here so the activity
// packages stay free of startup concerns.
package worker

import (
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/hithonix/hireflow/internal/config"
	"github.com/hithonix/hireflow/internal/llm"
	"github.com/hithonix/hireflow/internal/memory"
	"github.com/hithonix/hireflow/internal/storage"
)

// InitializeLLMClient builds the reasoning-service client chain: the OpenAI
// transport wrapped with request logging and metrics.
func InitializeLLMClient(cfg *config.Config, logger *slog.Logger, metrics llm.Metrics) llm.Client {
	transport := llm.NewOpenAIClient(llm.OpenAIConfig{
		Endpoint: cfg.LLM.Endpoint,
		APIKey:   cfg.LLM.APIKey,
		Model:    cfg.LLM.Model,
		Timeout:  cfg.LLMTimeout(),
	})
	return llm.NewLoggingClient(transport, logger, metrics, cfg.LLM.Model)
}

// InitializeMemoryStore connects the talent memory store to Redis.
func InitializeMemoryStore(cfg *config.Config) *memory.RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return memory.NewRedisStore(client, cfg.Redis.KeyPrefix)
}

// InitializeDocumentStore creates the candidate document store.
// Returns an in-memory store for development and testing; production
// deployments provide a drive-backed implementation of the same interface.
func InitializeDocumentStore(logger *slog.Logger) storage.DocumentStore {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("using in-memory document store; intake folders are empty and nothing persists across restarts")
	return storage.NewInMemoryStore()
}
