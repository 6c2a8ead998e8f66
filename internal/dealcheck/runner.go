// internal/dealcheck/runner.go
package dealcheck

import (
	"context"
	"errors"
	"time"

	"flight-deals/internal/common/config"
	apperrors "flight-deals/internal/common/errors"
	"flight-deals/internal/common/logger"
	"flight-deals/internal/common/metrics"
	"flight-deals/internal/models"

	"github.com/google/uuid"
)

// DestinationSource is the row store: the Sheety sheet or the postgres table.
type DestinationSource interface {
	ListDestinations(ctx context.Context) ([]models.DestinationRow, error)
	UpdateDestinationCode(ctx context.Context, rowID int, code string) error
}

type LocationResolver interface {
	ResolveLocation(ctx context.Context, query string) (string, error)
}

// PriceProber returns nil with no error when the search found nothing.
type PriceProber interface {
	FindCheapestFlight(ctx context.Context, q models.FlightQuery) (*models.FlightQuote, error)
}

type Notifier interface {
	SendMessage(ctx context.Context, body, from, to string) (models.DeliveryStatus, error)
}

// Settings is the per-run search and messaging configuration.
type Settings struct {
	DepartureCity string
	DepartureCode string
	MinStayNights int
	MaxStayNights int
	Currency      string
	HorizonDays   int
	From          string
	To            string
}

func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		DepartureCity: cfg.Search.DepartureCity,
		DepartureCode: cfg.Search.DepartureCode,
		MinStayNights: cfg.Search.MinStayNights,
		MaxStayNights: cfg.Search.MaxStayNights,
		Currency:      cfg.Search.Currency,
		HorizonDays:   cfg.Search.HorizonDays,
		From:          cfg.Notifications.From,
		To:            cfg.Notifications.To,
	}
}

// Runner walks the destination rows once, strictly in source order.
type Runner struct {
	source   DestinationSource
	resolver LocationResolver
	prober   PriceProber
	notifier Notifier
	settings Settings
	logger   logger.Logger
	now      func() time.Time
}

func NewRunner(source DestinationSource, resolver LocationResolver, prober PriceProber, notifier Notifier, settings Settings, log logger.Logger) *Runner {
	return &Runner{
		source:   source,
		resolver: resolver,
		prober:   prober,
		notifier: notifier,
		settings: settings,
		logger:   log,
		now:      time.Now,
	}
}

// WithClock replaces the clock the search window is anchored to.
func (r *Runner) WithClock(now func() time.Time) *Runner {
	r.now = now
	return r
}

// Run processes every destination row. On a fatal error it stops at the
// failing row and returns the report built so far together with the error.
func (r *Runner) Run(ctx context.Context) (*models.RunReport, error) {
	started := r.now()
	report := &models.RunReport{
		RunID:      uuid.NewString(),
		StartedAt:  started,
		Window:     models.NewSearchWindow(started, r.settings.HorizonDays),
		Deliveries: []models.Delivery{},
	}
	log := r.logger.With(map[string]interface{}{"runId": report.RunID})
	defer func() { report.FinishedAt = r.now() }()

	rows, err := r.source.ListDestinations(ctx)
	if err != nil {
		return report, err
	}

	departureCode, err := r.departureCode(ctx)
	if err != nil {
		return report, err
	}
	report.DepartureCode = departureCode

	log.Info("Starting deal check", map[string]interface{}{
		"destinations": len(rows),
		"departure":    departureCode,
		"dateFrom":     report.Window.DateFrom(),
		"dateTo":       report.Window.DateTo(),
	})

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := r.processRow(ctx, log, report, row); err != nil {
			return report, err
		}
	}

	log.Info("Deal check finished", map[string]interface{}{
		"processed":   report.Processed,
		"skipped":     report.Skipped,
		"noFlights":   report.NoFlights,
		"cheapAlerts": report.CheapAlerts,
		"plainAlerts": report.PlainAlerts,
	})
	return report, nil
}

func (r *Runner) departureCode(ctx context.Context) (string, error) {
	if r.settings.DepartureCode != "" {
		return r.settings.DepartureCode, nil
	}
	return r.resolver.ResolveLocation(ctx, r.settings.DepartureCity)
}

func (r *Runner) processRow(ctx context.Context, log logger.Logger, report *models.RunReport, row models.DestinationRow) error {
	rowLog := log.With(map[string]interface{}{"rowId": row.ID, "city": row.City})

	code, err := r.resolver.ResolveLocation(ctx, row.City)
	if errors.Is(err, apperrors.ErrNoLocationMatch) {
		rowLog.Warn("No location code for destination, skipping", nil)
		report.Skipped++
		metrics.DestinationsTotal.WithLabelValues(metrics.OutcomeSkipped).Inc()
		return nil
	}
	if err != nil {
		return err
	}

	if err := r.source.UpdateDestinationCode(ctx, row.ID, code); err != nil {
		return err
	}

	quote, err := r.prober.FindCheapestFlight(ctx, models.FlightQuery{
		FromCode:      report.DepartureCode,
		ToCode:        code,
		Window:        report.Window,
		MinStayNights: r.settings.MinStayNights,
		MaxStayNights: r.settings.MaxStayNights,
		Currency:      r.settings.Currency,
	})
	if err != nil {
		return err
	}
	report.Processed++

	fromCity := r.settings.DepartureCity
	if quote == nil {
		rowLog.Info("No flights found", map[string]interface{}{"from": fromCity, "to": row.City})
		report.NoFlights++
		metrics.DestinationsTotal.WithLabelValues(metrics.OutcomeNoFlights).Inc()
		return nil
	}
	if fromCity == "" {
		fromCity = quote.DepartureCity
	}
	metrics.QuotedPrice.WithLabelValues(code).Observe(quote.Price)

	variant := models.AlertNotCheap
	body := NotCheapMessage(fromCity, row.City)
	if IsCheap(quote.Price, row.LowestPrice) {
		variant = models.AlertCheap
		body = CheapMessage(fromCity, row.City, r.settings.Currency, quote)
	}

	status, err := r.notifier.SendMessage(ctx, body, r.settings.From, r.settings.To)
	if err != nil {
		return err
	}

	if variant == models.AlertCheap {
		report.CheapAlerts++
	} else {
		report.PlainAlerts++
	}
	metrics.DestinationsTotal.WithLabelValues(variant).Inc()
	report.Deliveries = append(report.Deliveries, models.Delivery{
		DestinationID: row.ID,
		City:          row.City,
		Variant:       variant,
		Price:         quote.Price,
		Status:        status,
	})

	rowLog.Info("Alert sent", map[string]interface{}{
		"variant":   variant,
		"price":     quote.Price,
		"threshold": row.LowestPrice,
		"layovers":  quote.Layovers,
		"status":    status.Status,
	})
	return nil
}
