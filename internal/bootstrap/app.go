// internal/bootstrap/app.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flight-deals/internal/common/config"
	"flight-deals/internal/common/database"
	apperrors "flight-deals/internal/common/errors"
	"flight-deals/internal/common/kiwi"
	"flight-deals/internal/common/logger"
	"flight-deals/internal/common/metrics"
	"flight-deals/internal/common/notify"
	"flight-deals/internal/common/observability"
	"flight-deals/internal/common/sheety"
	"flight-deals/internal/dealcheck"
	"flight-deals/internal/models"
)

// Store is a destination row store with the admin write path.
type Store interface {
	dealcheck.DestinationSource
	AddDestination(ctx context.Context, dest models.DestinationRow) (models.DestinationRow, error)
}

// App holds every dependency of a deal check run.
type App struct {
	Config        *config.Config
	Logger        logger.Logger
	Store         Store
	Runner        *dealcheck.Runner
	Observability *observability.Observability

	lock     *database.RunLock
	postgres *database.PostgresClient
	redis    *database.RedisClient
}

// NewStore builds the destination store selected by store.backend. The
// returned postgres client is nil for the sheety backend.
func NewStore(cfg *config.Config, log logger.Logger) (Store, *database.PostgresClient, error) {
	timeout := config.GetDuration(cfg.HTTP.Timeout)
	switch cfg.Store.Backend {
	case config.StoreBackendSheety, "":
		return sheety.NewClient(cfg.Sheety, timeout, log), nil, nil
	case config.StoreBackendPostgres:
		pg, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return nil, nil, err
		}
		return database.NewDestinationStore(pg), pg, nil
	default:
		return nil, nil, apperrors.NewConfigInvalidError(fmt.Sprintf("unknown store backend %q", cfg.Store.Backend))
	}
}

func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	store, pg, err := NewStore(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination store: %w", err)
	}

	timeout := config.GetDuration(cfg.HTTP.Timeout)
	flights := kiwi.NewClient(cfg.Kiwi, timeout, log)

	sender, err := notify.New(ctx, cfg.Notifications, timeout, log)
	if err != nil {
		if pg != nil {
			pg.Close()
		}
		return nil, fmt.Errorf("failed to create notifier: %w", err)
	}

	app := &App{
		Config:        cfg,
		Logger:        log,
		Store:         store,
		Runner:        dealcheck.NewRunner(store, flights, flights, sender, dealcheck.SettingsFromConfig(cfg), log),
		Observability: observability.New(cfg.App.Name, log),
		postgres:      pg,
	}

	if cfg.Database.Redis.Address != "" {
		app.redis = database.NewRedis(cfg.Database.Redis)
		app.lock = database.NewRunLock(app.redis, cfg.RunLock.Key, config.GetDuration(cfg.RunLock.TTL))
	}

	log.Info("Application wired", map[string]interface{}{
		"store":    cfg.Store.Backend,
		"provider": sender.Provider(),
		"runLock":  app.lock != nil,
	})
	return app, nil
}

// RunOnce takes the run lock when one is configured, runs the deal check and
// records the outcome in the metrics registries.
func (a *App) RunOnce(ctx context.Context) (*models.RunReport, error) {
	if a.lock != nil {
		lease, err := a.lock.Acquire(ctx)
		if err != nil {
			a.recordRun(ctx, runStatus(err), 0)
			return nil, err
		}
		defer func() {
			released, err := lease.Release(context.Background())
			if err != nil || !released {
				l := a.Logger
				if err != nil {
					l = l.WithError(err)
				}
				l.Warn("Run lock was not released cleanly", map[string]interface{}{
					"released": released,
				})
			}
		}()
	}

	start := time.Now()
	report, err := a.Runner.Run(ctx)
	duration := time.Since(start)

	a.recordRun(ctx, runStatus(err), duration)
	if report != nil {
		for _, d := range report.Deliveries {
			a.Observability.RecordAlert(ctx, d.Variant)
		}
	}
	if err != nil {
		a.Logger.WithError(err).Error("Deal check failed", map[string]interface{}{
			"code":     apperrors.CodeOf(err),
			"duration": duration.String(),
		})
		return report, err
	}
	return report, nil
}

func (a *App) recordRun(ctx context.Context, status string, duration time.Duration) {
	metrics.RunsTotal.WithLabelValues(status).Inc()
	metrics.RunDuration.Observe(duration.Seconds())
	if status == "success" {
		metrics.LastSuccess.SetToCurrentTime()
	}
	a.Observability.RecordRun(ctx, status, duration)
}

func runStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, apperrors.ErrRunLocked):
		return "locked"
	default:
		return "failed"
	}
}

// Ping checks the backing stores this App holds connections to. The sheety
// backend has no connection to check.
func (a *App) Ping(ctx context.Context) error {
	var errs []error
	if a.postgres != nil {
		if err := a.postgres.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("postgres: %w", err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Ping(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.postgres != nil {
		errs = append(errs, a.postgres.Close())
	}
	if a.Observability != nil {
		errs = append(errs, a.Observability.Shutdown(context.Background()))
	}
	return errors.Join(errs...)
}
