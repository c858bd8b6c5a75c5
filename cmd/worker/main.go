// The worker process hosts the stage-run workflow and its batch activity on
// a Temporal task queue, and serves Prometheus metrics.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkclient "go.temporal.io/sdk/client"
	sdkworker "go.temporal.io/sdk/worker"

	"github.com/hithonix/hireflow/internal/batch"
	"github.com/hithonix/hireflow/internal/config"
	"github.com/hithonix/hireflow/internal/metrics"
	"github.com/hithonix/hireflow/internal/worker"
)

const metricsReadHeaderTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("worker exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	collector := metrics.NewCollector()
	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, collector, logger)
	}

	temporalClient, err := sdkclient.Dial(sdkclient.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		return err
	}
	defer temporalClient.Close()

	w := sdkworker.New(temporalClient, cfg.Temporal.TaskQueue, sdkworker.Options{})
	worker.RegisterAll(w, worker.Deps{
		Config:    cfg,
		LLMClient: worker.InitializeLLMClient(cfg, logger, collector),
		Memory:    worker.InitializeMemoryStore(cfg),
		Documents: worker.InitializeDocumentStore(logger),
		Metrics:   collector,
		Summaries: batch.NewInMemorySummaryStore(),
		Logger:    logger,
	})

	logger.Info("worker starting",
		"task_queue", cfg.Temporal.TaskQueue,
		"namespace", cfg.Temporal.Namespace,
		"roles", cfg.Roles,
	)

	return w.Run(interruptFrom(ctx))
}

// interruptFrom adapts context cancellation to the worker's interrupt channel.
func interruptFrom(ctx context.Context) <-chan any {
	ch := make(chan any, 1)
	go func() {
		<-ctx.Done()
		ch <- struct{}{}
	}()
	return ch
}

func serveMetrics(addr string, collector *metrics.Collector, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}
	logger.Info("metrics endpoint listening", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("metrics endpoint failed", "error", err)
	}
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
