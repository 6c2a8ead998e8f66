// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"flight-deals/internal/bootstrap"
	"flight-deals/internal/common/camunda"
	"flight-deals/internal/common/config"
	"flight-deals/internal/common/logger"
	cfd "flight-deals/internal/workers/flights/check-flight-deals"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("failed to initialise", zap.Error(err))
	}

	zeebeClient, err := camunda.ConnectWithRetry(ctx, cfg.Camunda, 10, 2*time.Second, log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	workerCfg := cfd.ConfigFromAppConfig(cfg)
	handler := cfd.NewHandler(workerCfg, app, log)
	jobWorker := camunda.NewWorker(zeebeClient, camunda.WorkerOptions{
		TaskType:      cfd.TaskType,
		MaxJobsActive: workerCfg.MaxJobsActive,
		Timeout:       workerCfg.JobTimeout,
	}, handler, log)

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		pingCtx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		body := map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		}
		w.Header().Set("Content-Type", "application/json")
		if err := app.Ping(pingCtx); err != nil {
			body["status"] = "unhealthy"
			body["error"] = err.Error()
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(body)
	})
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: cfg.Metrics.ListenAddress, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.ListenAddress))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping worker...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	jobWorker.Stop()
	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping metrics server", zap.Error(err))
	}
	if err := app.Close(); err != nil {
		zapLog.Error("Error releasing resources", zap.Error(err))
	}
	zapLog.Info("Worker manager stopped")
}
