package notify

import (
	"context"
	"fmt"

	"silvercare/internal/config"

	"go.uber.org/zap"
)

// NewContactSender picks the SMS sender for emergency contacts.
func NewContactSender(ctx context.Context, cfg config.SMSConfig, logger *zap.Logger) (Sender, error) {
	switch cfg.Provider {
	case "", "log":
		return NewLogSender(logger), nil
	case "twilio":
		if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.From == "" {
			return nil, fmt.Errorf("twilio requires TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and SMS_FROM")
		}
		return NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.From, logger), nil
	case "sns":
		return NewSNSSender(ctx, cfg.SNSRegion, logger)
	case "webhook":
		if cfg.WebhookURL == "" {
			return nil, fmt.Errorf("webhook requires SMS_WEBHOOK_URL")
		}
		return NewWebhookSender(cfg.WebhookURL, cfg.WebhookToken, logger), nil
	default:
		return nil, fmt.Errorf("unknown sms provider %q", cfg.Provider)
	}
}
