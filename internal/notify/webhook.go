package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// WebhookSender posts messages to a generic SMS gateway.
type WebhookSender struct {
	httpClient *resty.Client
	url        string
	logger     *zap.Logger
}

type webhookPayload struct {
	To     string `json:"to"`
	Body   string `json:"body"`
	Kind   string `json:"kind"`
	UserID int64  `json:"user_id"`
}

func NewWebhookSender(url, token string, logger *zap.Logger) *WebhookSender {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if token != "" {
		client.SetAuthToken(token)
	}
	return &WebhookSender{httpClient: client, url: url, logger: logger}
}

func (s *WebhookSender) Send(ctx context.Context, msg Message) error {
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetBody(webhookPayload{To: msg.To, Body: msg.Body, Kind: msg.Kind, UserID: msg.UserID}).
		Post(s.url)
	if err != nil {
		return fmt.Errorf("failed to call sms webhook: %w", err)
	}
	if resp.IsError() {
		s.logger.Warn("sms webhook rejected message",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("kind", msg.Kind),
		)
		return fmt.Errorf("sms webhook returned status %d", resp.StatusCode())
	}
	return nil
}
