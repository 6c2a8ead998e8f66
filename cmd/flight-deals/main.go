// cmd/flight-deals/main.go
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"flight-deals/internal/bootstrap"
	"flight-deals/internal/common/config"
	"flight-deals/internal/common/logger"
	"flight-deals/internal/common/metrics"
)

func main() {
	configPath := flag.String("config", "", "Path to a config file (defaults to configs/config.yaml)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("failed to initialise", zap.Error(err))
	}

	report, runErr := app.RunOnce(ctx)
	if report != nil {
		zapLog.Info("run summary",
			zap.String("runId", report.RunID),
			zap.Int("processed", report.Processed),
			zap.Int("skipped", report.Skipped),
			zap.Int("noFlights", report.NoFlights),
			zap.Int("cheapAlerts", report.CheapAlerts),
			zap.Int("plainAlerts", report.PlainAlerts),
		)
	}

	if cfg.Metrics.PushgatewayURL != "" {
		pushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := metrics.Push(pushCtx, cfg.Metrics.PushgatewayURL, cfg.Metrics.JobName); err != nil {
			zapLog.Warn("metrics push failed", zap.Error(err))
		}
		cancel()
	}

	if err := app.Close(); err != nil {
		zapLog.Warn("shutdown error", zap.Error(err))
	}

	if runErr != nil {
		zapLog.Sync()
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}
