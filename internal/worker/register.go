package worker

import (
	"log/slog"

	sdkworker "go.temporal.io/sdk/worker"

	"github.com/hithonix/hireflow/internal/batch"
	"github.com/hithonix/hireflow/internal/config"
	"github.com/hithonix/hireflow/internal/evaluation"
	"github.com/hithonix/hireflow/internal/llm"
	"github.com/hithonix/hireflow/internal/memory"
	"github.com/hithonix/hireflow/internal/policy"
	"github.com/hithonix/hireflow/internal/router"
	"github.com/hithonix/hireflow/internal/storage"
	"github.com/hithonix/hireflow/internal/workflow"
	pkgactivity "github.com/hithonix/hireflow/pkg/activity"
	"github.com/hithonix/hireflow/pkg/events"
)

// Deps are the externally constructed collaborators a worker needs.
type Deps struct {
	Config    *config.Config
	LLMClient llm.Client
	Memory    memory.Store
	Documents storage.DocumentStore
	Extractor storage.TextExtractor
	Metrics   batch.MetricsRecorder
	Summaries batch.SummaryStore
	EventSink events.EventSink
	Logger    *slog.Logger
}

// RegisterAll builds the stage pipeline from its dependencies and registers
// the workflow and activities with the Temporal worker. Call once during
// startup, before the worker starts.
func RegisterAll(w sdkworker.Worker, deps Deps) {
	if deps.Extractor == nil {
		deps.Extractor = storage.PlainTextExtractor{}
	}
	if deps.EventSink == nil {
		deps.EventSink = events.NewNoOpEventSink()
	}
	if deps.Summaries == nil {
		deps.Summaries = batch.NewInMemorySummaryStore()
	}

	resolver := deps.Config.Resolver()
	limiter := policy.CapacityLimiter{
		PassRatioCap: deps.Config.Policy.PassRatioCap,
		MinEvaluated: deps.Config.Policy.MinEvaluatedBeforeCap,
	}

	processor := batch.NewProcessor(
		batch.Config{Roles: deps.Config.Roles, Limiter: limiter},
		deps.Documents,
		deps.Extractor,
		resolver,
		router.New(deps.Documents, resolver, deps.Logger),
		evaluation.NewRequester(deps.LLMClient, deps.Logger),
		deps.Memory,
		deps.Metrics,
		batch.Hooks{},
		deps.Logger,
	)

	base := pkgactivity.NewBaseActivities(deps.EventSink)
	activities := batch.NewActivities(base, processor, deps.Summaries)

	w.RegisterWorkflow(workflow.StageRunWorkflow)
	w.RegisterActivity(activities.RunEvaluationBatch)
}
