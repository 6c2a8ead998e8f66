package errors

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// ErrorHandler turns a failed run into a BPMN error on the job.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleJobError throws err as a BPMN error. Runs are never retried by the
// worker; the process model decides what happens next.
func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := AsStandardError(err)
	bpmnErr := ConvertToBPMNError(stdErr)

	h.logger.Error("Job failed", map[string]interface{}{
		"jobKey":           job.Key,
		"jobType":          job.Type,
		"errorCode":        string(stdErr.Code),
		"message":          bpmnErr.Message,
		"details":          stdErr.Details,
		"errorCategory":    GetErrorCategory(stdErr.Code),
		"workflowInstance": job.ProcessInstanceKey,
	})

	cmd := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message)

	varsJSON, marshalErr := json.Marshal(bpmnErr.ToErrorVariables())
	if marshalErr == nil {
		if withVars, varsErr := cmd.VariablesFromString(string(varsJSON)); varsErr == nil {
			if _, sendErr := withVars.Send(ctx); sendErr != nil {
				h.logger.Error("failed to throw error", map[string]interface{}{"error": sendErr.Error()})
			}
			return
		}
	}

	if _, sendErr := cmd.Send(ctx); sendErr != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{"error": sendErr.Error()})
	}
}
