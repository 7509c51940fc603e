package notify

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

const (
	KindSOS      = "sos"
	KindReminder = "reminder"
)

// Message is a single outbound notification.
type Message struct {
	UserID int64
	To     string // phone number for SMS senders, unused by MQTT
	Kind   string
	Body   string
}

// Sender delivers a message. Delivery is best-effort.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender only logs. It is the simulated default.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("notification sent (simulated)",
		zap.String("kind", msg.Kind),
		zap.Int64("user_id", msg.UserID),
		zap.String("to", maskPhone(msg.To)),
		zap.String("body", msg.Body),
	)
	return nil
}

// MultiSender fans a message out to every sender and joins their errors.
type MultiSender []Sender

func (m MultiSender) Send(ctx context.Context, msg Message) error {
	var errs []error
	for _, s := range m {
		if err := s.Send(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// maskPhone keeps the last four digits for logs.
func maskPhone(p string) string {
	if len(p) <= 4 {
		return p
	}
	return fmt.Sprintf("***%s", p[len(p)-4:])
}
