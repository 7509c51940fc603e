package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Publisher is satisfied by common/mqtt.Client.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// MQTTSender publishes to <prefix>/<kind>/<user_id>.
type MQTTSender struct {
	pub    Publisher
	prefix string
}

type mqttPayload struct {
	UserID int64  `json:"user_id"`
	Kind   string `json:"kind"`
	Body   string `json:"body"`
	SentAt int64  `json:"sent_at"`
}

func NewMQTTSender(pub Publisher, prefix string) *MQTTSender {
	return &MQTTSender{pub: pub, prefix: prefix}
}

func Topic(prefix, kind string, userID int64) string {
	return fmt.Sprintf("%s/%s/%d", prefix, kind, userID)
}

func (s *MQTTSender) Send(_ context.Context, msg Message) error {
	payload, err := json.Marshal(mqttPayload{
		UserID: msg.UserID,
		Kind:   msg.Kind,
		Body:   msg.Body,
		SentAt: time.Now().Unix(),
	})
	if err != nil {
		return err
	}
	return s.pub.Publish(Topic(s.prefix, msg.Kind, msg.UserID), payload)
}
