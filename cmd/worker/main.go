package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpvandijk/koopflow/internal/bootstrap"
	"github.com/jpvandijk/koopflow/internal/config"
	"github.com/jpvandijk/koopflow/internal/core/domain"
	"github.com/jpvandijk/koopflow/internal/observability/logging"
	"github.com/jpvandijk/koopflow/internal/observability/metrics"
)

const serviceName = "koopflow-audit-worker"

// The audit worker consumes lifecycle events and writes a structured audit
// line per event. It is deliberately stateless; the log stream is the record.
func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger(serviceName, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, serviceName)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: workerMetrics.Handler(),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics_server_failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	slog.Info("worker_subscribed", "subject", cfg.NATSSubject)
	err = app.Bus.SubscribeLifecycleEvents(ctx, func(handlerCtx context.Context, event domain.LifecycleEvent) error {
		start := time.Now()
		workerMetrics.StartEvent()
		workerMetrics.ObserveEventLag(serviceName, start.Sub(event.OccurredAt))

		auditErr := audit(handlerCtx, event)
		workerMetrics.FinishEvent(serviceName, event.Event, time.Since(start), auditErr)
		return auditErr
	})
	if err != nil {
		slog.Error("worker_subscribe_failed", "error", err)
		os.Exit(1)
	}
}

func audit(_ context.Context, event domain.LifecycleEvent) error {
	slog.Info("document_lifecycle_event",
		"event", event.Event,
		"document_id", event.DocumentID,
		"organization_id", event.OrganizationID,
		"user_id", event.UserID,
		"status", string(event.Status),
		"occurred_at", event.OccurredAt,
	)
	return nil
}
