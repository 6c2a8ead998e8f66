// internal/workers/flights/check-flight-deals/handler.go
package checkflightdeals

import (
	"context"
	"fmt"
	"strings"
	"time"

	"flight-deals/internal/common/errors"
	"flight-deals/internal/common/logger"
	"flight-deals/internal/common/metrics"
	"flight-deals/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/xeipuuv/gojsonschema"
)

const TaskType = "check-flight-deals"

var inputSchemaLoader = gojsonschema.NewStringLoader(inputSchema)

// Runner runs one deal check; bootstrap.App satisfies it.
type Runner interface {
	RunOnce(ctx context.Context) (*models.RunReport, error)
}

type Handler struct {
	config       *Config
	runner       Runner
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, runner Runner, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		runner:       runner,
		logger:       l,
		errorHandler: errors.NewErrorHandler(l),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	input, err := h.parseInput(job)
	if err != nil {
		h.fail(client, job, err)
		return
	}

	runCtx, cancel := context.WithTimeout(context.Background(), h.config.RunTimeout)
	output, err := h.execute(runCtx, input)
	cancel()
	if err != nil {
		h.fail(client, job, err)
		return
	}

	cmd, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromObject(output)
	if err != nil {
		h.fail(client, job, err)
		return
	}

	// The run context may already be spent; report on a fresh one.
	ctx, cancelSend := context.WithTimeout(context.Background(), h.config.CommandTimeout)
	defer cancelSend()
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err,
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.logger.Info("job completed", map[string]interface{}{
		"jobKey":   job.GetKey(),
		"runId":    output.RunID,
		"duration": time.Since(startTime).String(),
	})
}

func (h *Handler) fail(client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.CodeOf(err))).Inc()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.CommandTimeout)
	defer cancel()
	h.errorHandler.HandleJobError(ctx, client, job, err)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables := job.GetVariables()
	if strings.TrimSpace(variables) == "" {
		variables = "{}"
	}

	result, err := gojsonschema.Validate(inputSchemaLoader, gojsonschema.NewStringLoader(variables))
	if err != nil {
		return nil, errors.NewConfigInvalidError(fmt.Sprintf("job variables are not valid JSON: %v", err))
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, errors.NewConfigInvalidError("job variables: " + strings.Join(msgs, "; "))
	}

	var input Input
	if err := job.GetVariablesAs(&input); err != nil {
		return nil, errors.NewConfigInvalidError(fmt.Sprintf("job variables: %v", err))
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	report, err := h.runner.RunOnce(ctx)
	if err != nil {
		if interrupted := errors.FromContext(ctx, err); interrupted != nil {
			return nil, interrupted
		}
		return nil, err
	}
	return buildOutput(input, report), nil
}

func buildOutput(input *Input, report *models.RunReport) *Output {
	return &Output{
		RunID:         report.RunID,
		CorrelationID: input.CorrelationID,
		DepartureCode: report.DepartureCode,
		DateFrom:      report.Window.DateFrom(),
		DateTo:        report.Window.DateTo(),
		Processed:     report.Processed,
		Skipped:       report.Skipped,
		NoFlights:     report.NoFlights,
		CheapAlerts:   report.CheapAlerts,
		PlainAlerts:   report.PlainAlerts,
		Deliveries:    report.Deliveries,
		FinishedAt:    report.FinishedAt.UTC().Format(time.RFC3339),
	}
}
