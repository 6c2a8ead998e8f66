package observability

import (
	"context"
	"testing"
	"time"

	"flight-deals/internal/common/logger"

	"github.com/stretchr/testify/assert"
)

func TestObservability_Record(t *testing.T) {
	obs := New("flight-deals-test", logger.NewTestLogger(t))
	ctx := context.Background()

	assert.NotPanics(t, func() {
		obs.RecordRun(ctx, "success", 1500*time.Millisecond)
		obs.RecordAlert(ctx, "cheap")
	})
	assert.NoError(t, obs.Shutdown(ctx))
}

func TestObservability_ZeroValue(t *testing.T) {
	obs := &Observability{}

	assert.NotPanics(t, func() {
		obs.RecordRun(context.Background(), "failed", time.Second)
		obs.RecordAlert(context.Background(), "not_cheap")
	})
	assert.NoError(t, obs.Shutdown(context.Background()))
}
