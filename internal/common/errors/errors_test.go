package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationNotFound_IsSentinel(t *testing.T) {
	err := fmt.Errorf("resolve Atlantis: %w", NewLocationNotFoundError("Atlantis"))

	assert.True(t, stderrors.Is(err, ErrNoLocationMatch))
	assert.False(t, stderrors.Is(err, ErrMalformedOffer))
	assert.Equal(t, ErrCodeLocationNotFound, CodeOf(err))
	assert.Contains(t, err.Error(), "query: Atlantis")
}

func TestMalformedOffer_IsSentinel(t *testing.T) {
	err := NewMalformedOfferError("pnr_count must be >= 1, got 0")

	assert.True(t, stderrors.Is(err, ErrMalformedOffer))
	assert.False(t, err.Retryable)
	assert.Equal(t, "FLIGHT_API", GetErrorCategory(err.Code))
}

func TestAsStandardError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{name: "plain error", err: stderrors.New("boom"), want: ErrCodeInternal},
		{name: "standard error", err: NewFlightSearchError("CLT", "PAR", stderrors.New("503")), want: ErrCodeFlightSearchFailed},
		{name: "wrapped standard error", err: fmt.Errorf("run: %w", NewRunLockedError("k")), want: ErrCodeRunLocked},
		{name: "deadline exceeded", err: fmt.Errorf("list rows: %w", context.DeadlineExceeded), want: ErrCodeRunTimeout},
		{name: "cancelled", err: context.Canceled, want: ErrCodeRunCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdErr := AsStandardError(tt.err)
			require.NotNil(t, stdErr)
			assert.Equal(t, tt.want, stdErr.Code)
		})
	}

	assert.Nil(t, AsStandardError(nil))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
}

func TestConvertToBPMNError(t *testing.T) {
	stdErr := NewNotificationSendFailedError("twilio", stderrors.New("401 unauthorized"))

	bpmnErr := ConvertToBPMNError(stdErr)
	vars := bpmnErr.ToErrorVariables()

	assert.Equal(t, "NOTIFICATION_SEND_FAILED", bpmnErr.Code)
	assert.Equal(t, "401 unauthorized", bpmnErr.Details)
	assert.Equal(t, "NOTIFICATION", vars["errorCategory"])
	assert.Equal(t, "NOTIFICATION_SEND_FAILED", vars["errorCode"])
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "ROW_STORE", GetErrorCategory(ErrCodeDestinationUpdateFailed))
	assert.Equal(t, "FLIGHT_API", GetErrorCategory(ErrCodeLocationLookupFailed))
	assert.Equal(t, "COORDINATION", GetErrorCategory(ErrCodeRunLocked))
	assert.Equal(t, "CONFIGURATION", GetErrorCategory(ErrCodeConfigInvalid))
	assert.Equal(t, "INTERRUPTED", GetErrorCategory(ErrCodeRunTimeout))
	assert.Equal(t, "INTERRUPTED", GetErrorCategory(ErrCodeRunCancelled))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

func TestFromContext(t *testing.T) {
	assert.Nil(t, FromContext(context.Background(), stderrors.New("boom")))

	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	<-ctx.Done()
	searchErr := NewFlightSearchError("CLT", "PAR", context.DeadlineExceeded)
	stdErr := FromContext(ctx, searchErr)
	require.NotNil(t, stdErr)
	assert.Equal(t, ErrCodeRunTimeout, stdErr.Code)
	assert.ErrorIs(t, stdErr, context.DeadlineExceeded)
	assert.Equal(t, ErrCodeFlightSearchFailed, AsStandardError(stdErr.Err).Code)

	cancelled, cancelNow := context.WithCancel(context.Background())
	cancelNow()
	stdErr = FromContext(cancelled, nil)
	require.NotNil(t, stdErr)
	assert.Equal(t, ErrCodeRunCancelled, stdErr.Code)
	assert.ErrorIs(t, stdErr, context.Canceled)
}
