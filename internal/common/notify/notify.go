// internal/common/notify/notify.go
package notify

import (
	"context"
	"fmt"
	"time"

	"flight-deals/internal/common/aws"
	"flight-deals/internal/common/config"
	apperrors "flight-deals/internal/common/errors"
	"flight-deals/internal/common/logger"
	"flight-deals/internal/common/twilio"
	"flight-deals/internal/models"
)

// Sender delivers one text message. Implementations return a
// NOTIFICATION_SEND_FAILED StandardError when the provider rejects it.
type Sender interface {
	SendMessage(ctx context.Context, body, from, to string) (models.DeliveryStatus, error)
	Provider() string
}

type twilioAPI interface {
	SendMessage(ctx context.Context, body, from, to string) (*twilio.Message, error)
}

type snsAPI interface {
	SendSMS(ctx context.Context, body, from, to string) (string, error)
}

type sesAPI interface {
	SendText(ctx context.Context, body, from, to string) (string, error)
}

type TwilioSender struct {
	client twilioAPI
	logger logger.Logger
}

func NewTwilioSender(client twilioAPI, log logger.Logger) *TwilioSender {
	return &TwilioSender{client: client, logger: log}
}

func (s *TwilioSender) Provider() string { return config.ProviderTwilio }

func (s *TwilioSender) SendMessage(ctx context.Context, body, from, to string) (models.DeliveryStatus, error) {
	msg, err := s.client.SendMessage(ctx, body, from, to)
	if err != nil {
		return models.DeliveryStatus{}, apperrors.NewNotificationSendFailedError(s.Provider(), err)
	}
	s.logger.Info("SMS accepted", map[string]interface{}{
		"provider": s.Provider(),
		"sid":      msg.SID,
		"status":   msg.Status,
	})
	return models.DeliveryStatus{Provider: s.Provider(), MessageID: msg.SID, Status: msg.Status}, nil
}

type SNSSender struct {
	client snsAPI
	logger logger.Logger
}

func NewSNSSender(client snsAPI, log logger.Logger) *SNSSender {
	return &SNSSender{client: client, logger: log}
}

func (s *SNSSender) Provider() string { return config.ProviderSNS }

func (s *SNSSender) SendMessage(ctx context.Context, body, from, to string) (models.DeliveryStatus, error) {
	id, err := s.client.SendSMS(ctx, body, from, to)
	if err != nil {
		return models.DeliveryStatus{}, apperrors.NewNotificationSendFailedError(s.Provider(), err)
	}
	s.logger.Info("SMS published", map[string]interface{}{
		"provider":  s.Provider(),
		"messageId": id,
	})
	return models.DeliveryStatus{Provider: s.Provider(), MessageID: id, Status: "published"}, nil
}

type SESSender struct {
	client sesAPI
	logger logger.Logger
}

func NewSESSender(client sesAPI, log logger.Logger) *SESSender {
	return &SESSender{client: client, logger: log}
}

func (s *SESSender) Provider() string { return config.ProviderSES }

func (s *SESSender) SendMessage(ctx context.Context, body, from, to string) (models.DeliveryStatus, error) {
	id, err := s.client.SendText(ctx, body, from, to)
	if err != nil {
		return models.DeliveryStatus{}, apperrors.NewNotificationSendFailedError(s.Provider(), err)
	}
	s.logger.Info("Email sent", map[string]interface{}{
		"provider":  s.Provider(),
		"messageId": id,
	})
	return models.DeliveryStatus{Provider: s.Provider(), MessageID: id, Status: "sent"}, nil
}

// New builds the sender selected by notifications.provider.
func New(ctx context.Context, cfg config.NotificationConfig, timeout time.Duration, log logger.Logger) (Sender, error) {
	switch cfg.Provider {
	case config.ProviderTwilio, "":
		client := twilio.NewClient(cfg.Twilio.BaseURL, cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, timeout)
		return NewTwilioSender(client, log), nil
	case config.ProviderSNS:
		client, err := aws.NewSNSClient(ctx, cfg.AWS.Region, cfg.AWS.SMSType)
		if err != nil {
			return nil, fmt.Errorf("failed to create SNS client: %w", err)
		}
		return NewSNSSender(client, log), nil
	case config.ProviderSES:
		client, err := aws.NewSESClient(ctx, cfg.AWS.Region, cfg.AWS.SESSubject)
		if err != nil {
			return nil, fmt.Errorf("failed to create SES client: %w", err)
		}
		return NewSESSender(client, log), nil
	default:
		return nil, apperrors.NewConfigInvalidError(fmt.Sprintf("unknown notification provider %q", cfg.Provider))
	}
}
