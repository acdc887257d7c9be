package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kirillkom/legalease/internal/bootstrap"
	"github.com/kirillkom/legalease/internal/config"
	"github.com/kirillkom/legalease/internal/observability/logging"
	"github.com/kirillkom/legalease/internal/observability/metrics"
)

const serviceName = "worker"

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger(serviceName, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	app, err := bootstrap.New(ctx, cfg, workerMetrics.Pipeline())
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	metricsServer := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           workerMetrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	app.ProcessUC.WithQueueLagObserver(func(lag time.Duration) {
		workerMetrics.ObserveQueueLag(serviceName, lag)
	})

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		slog.Info("worker_metrics_listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return metricsServer.Shutdown(shutdownCtx)
	})
	group.Go(func() error {
		slog.Info("worker_subscribed", "subject", cfg.NATSSubject)
		return app.Queue.SubscribeAnalysisRequested(groupCtx, func(handlerCtx context.Context, documentID string) error {
			start := time.Now()
			workerMetrics.StartDocument()
			err := app.ProcessUC.ProcessByID(handlerCtx, documentID)
			workerMetrics.FinishDocument(serviceName, time.Since(start), err)
			return err
		})
	})

	if err := group.Wait(); err != nil {
		slog.Error("worker_error", "error", err)
	}
}
