// internal/common/camunda/client.go
package camunda

import (
	"context"
	"fmt"
	"time"

	"flight-deals/internal/common/config"
	"flight-deals/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// Connect creates a Zeebe client and checks the gateway with a topology request.
func Connect(ctx context.Context, cfg config.CamundaConfig, timeout time.Duration) (zbc.Client, error) {
	client, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         cfg.BrokerAddress,
		UsePlaintextConnection: cfg.Plaintext,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Zeebe client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if _, err := client.NewTopologyCommand().Send(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Zeebe broker at %s: %w", cfg.BrokerAddress, err)
	}
	return client, nil
}

// ConnectWithRetry retries Connect with exponential backoff. The gateway is
// often still starting when the worker container comes up.
func ConnectWithRetry(ctx context.Context, cfg config.CamundaConfig, maxRetries int, initialDelay time.Duration, log logger.Logger) (zbc.Client, error) {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		var client zbc.Client
		client, err = Connect(ctx, cfg, 10*time.Second)
		if err == nil {
			return client, nil
		}

		if i < maxRetries-1 {
			log.Warn("Zeebe connection failed, retrying", map[string]interface{}{
				"error":       err,
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			delay *= 2
		}
	}

	return nil, fmt.Errorf("zeebe connection failed after %d attempts: %w", maxRetries, err)
}
