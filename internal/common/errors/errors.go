// Package errors provides the error vocabulary shared by the deal check run,
// its external service clients and the Zeebe worker.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"

	ErrCodeDestinationSourceFailed ErrorCode = "DESTINATION_SOURCE_FAILED"
	ErrCodeDestinationUpdateFailed ErrorCode = "DESTINATION_UPDATE_FAILED"
	ErrCodeDestinationNotFound     ErrorCode = "DESTINATION_NOT_FOUND"

	ErrCodeLocationLookupFailed ErrorCode = "LOCATION_LOOKUP_FAILED"
	ErrCodeLocationNotFound     ErrorCode = "LOCATION_NOT_FOUND"

	ErrCodeFlightSearchFailed ErrorCode = "FLIGHT_SEARCH_FAILED"
	ErrCodeMalformedOffer     ErrorCode = "MALFORMED_OFFER"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeRunLocked     ErrorCode = "RUN_LOCKED"
	ErrCodeRunLockFailed ErrorCode = "RUN_LOCK_FAILED"
	ErrCodeRunTimeout    ErrorCode = "RUN_TIMEOUT"
	ErrCodeRunCancelled  ErrorCode = "RUN_CANCELLED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Sentinels carried as the cause of a StandardError so callers can branch
// with errors.Is without caring about the concrete client.
var (
	ErrNoLocationMatch     = stderrors.New("NO_LOCATION_MATCH")
	ErrMalformedOffer      = stderrors.New("MALFORMED_OFFER")
	ErrRunLocked           = stderrors.New("RUN_LOCKED")
	ErrDestinationNotFound = stderrors.New("DESTINATION_NOT_FOUND")
)

// StandardError represents a structured application error.
// Nothing in this system retries, so Retryable is informational only.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Err       error                  `json:"-"`
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.Err
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that is thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for job error variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message string, cause error) *StandardError {
	e := &StandardError{
		Code:      code,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
		Err:       cause,
	}
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

func NewConfigInvalidError(details string) *StandardError {
	e := newError(ErrCodeConfigInvalid, "Invalid configuration", nil)
	e.Details = details
	return e
}

// NewDestinationSourceError wraps a failure to read destination rows.
func NewDestinationSourceError(err error) *StandardError {
	return newError(ErrCodeDestinationSourceFailed, "Failed to list destinations", err)
}

// NewDestinationUpdateError wraps a failed location code write-back.
func NewDestinationUpdateError(rowID int, err error) *StandardError {
	e := newError(ErrCodeDestinationUpdateFailed, "Failed to update destination code", err)
	e.Metadata = map[string]interface{}{"rowId": rowID}
	return e
}

func NewDestinationNotFoundError(rowID int) *StandardError {
	e := newError(ErrCodeDestinationNotFound, "Destination row not found", ErrDestinationNotFound)
	e.Details = fmt.Sprintf("rowId: %d", rowID)
	return e
}

// NewLocationLookupError wraps a transport or decoding failure of the location API.
func NewLocationLookupError(query string, err error) *StandardError {
	e := newError(ErrCodeLocationLookupFailed, "Location lookup failed", err)
	e.Metadata = map[string]interface{}{"query": query}
	return e
}

// NewLocationNotFoundError reports a lookup that returned no usable location.
func NewLocationNotFoundError(query string) *StandardError {
	e := newError(ErrCodeLocationNotFound, "No location matches query", ErrNoLocationMatch)
	e.Details = fmt.Sprintf("query: %s", query)
	return e
}

func NewFlightSearchError(from, to string, err error) *StandardError {
	e := newError(ErrCodeFlightSearchFailed, "Flight search failed", err)
	e.Metadata = map[string]interface{}{"from": from, "to": to}
	return e
}

// NewMalformedOfferError reports an offer that violates the offer contract,
// e.g. a pnr_count below one.
func NewMalformedOfferError(details string) *StandardError {
	e := newError(ErrCodeMalformedOffer, "Flight offer is malformed", ErrMalformedOffer)
	e.Details = details
	return e
}

func NewNotificationSendFailedError(provider string, err error) *StandardError {
	e := newError(ErrCodeNotificationSendFailed, "Failed to send notification", err)
	e.Metadata = map[string]interface{}{"provider": provider}
	return e
}

func NewRunLockedError(key string) *StandardError {
	e := newError(ErrCodeRunLocked, "Another run holds the run lock", ErrRunLocked)
	e.Details = fmt.Sprintf("key: %s", key)
	return e
}

func NewRunLockFailedError(err error) *StandardError {
	return newError(ErrCodeRunLockFailed, "Run lock operation failed", err)
}

func NewRunTimeoutError(err error) *StandardError {
	return newError(ErrCodeRunTimeout, "Run exceeded its deadline", err)
}

func NewRunCancelledError(err error) *StandardError {
	return newError(ErrCodeRunCancelled, "Run was cancelled", err)
}

// FromContext reports why ctx ended as a StandardError carrying cause, or nil
// while ctx is still live.
func FromContext(ctx context.Context, cause error) *StandardError {
	ctxErr := ctx.Err()
	if ctxErr == nil {
		return nil
	}
	if cause == nil {
		cause = ctxErr
	}
	if stderrors.Is(ctxErr, context.DeadlineExceeded) {
		return NewRunTimeoutError(cause)
	}
	return NewRunCancelledError(cause)
}

// ==========================
// 4. Conversion
// ==========================

// AsStandardError finds a StandardError in err's chain, or wraps err as an internal error.
func AsStandardError(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return NewRunTimeoutError(err)
	case stderrors.Is(err, context.Canceled):
		return NewRunCancelledError(err)
	}
	return newError(ErrCodeInternal, "Unexpected error", err)
}

// CodeOf returns the code of the first StandardError in err's chain.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	return AsStandardError(err).Code
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	return &BPMNError{
		Code:    string(stdErr.Code),
		Message: stdErr.Message,
		Details: stdErr.Details,
		ErrorVariables: map[string]interface{}{
			"errorCategory": GetErrorCategory(stdErr.Code),
			"timestamp":     stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "DESTINATION"):
		return "ROW_STORE"
	case strings.HasPrefix(codeStr, "LOCATION"), strings.HasPrefix(codeStr, "FLIGHT"), codeStr == string(ErrCodeMalformedOffer):
		return "FLIGHT_API"
	case strings.HasPrefix(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.HasPrefix(codeStr, "RUN_LOCK"), codeStr == string(ErrCodeRunLocked):
		return "COORDINATION"
	case codeStr == string(ErrCodeRunTimeout), codeStr == string(ErrCodeRunCancelled):
		return "INTERRUPTED"
	case strings.HasPrefix(codeStr, "CONFIG"):
		return "CONFIGURATION"
	default:
		return "OTHER"
	}
}
