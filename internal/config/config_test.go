package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "DB_ENABLED", "DB_HOST", "SOS_DELAY", "CHAT_API_KEY", "OPENAI_API_KEY", "SMS_PROVIDER", "CHAT_MODEL"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.True(t, cfg.DBEnabled)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 2*time.Second, cfg.SOS.Delay)
	assert.Empty(t, cfg.Chat.APIKey)
	assert.Equal(t, "gpt-3.5-turbo", cfg.Chat.Model)
	assert.Equal(t, 150, cfg.Chat.MaxTokens)
	assert.Equal(t, "log", cfg.SMS.Provider)
	assert.Equal(t, "@every 1m", cfg.Reminder.Spec)
	assert.Equal(t, "silvercare", cfg.MQTT.TopicPrefix)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DB_ENABLED", "false")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("SOS_DELAY", "500ms")
	t.Setenv("CHAT_API_KEY", "sk-test")
	t.Setenv("SMS_PROVIDER", "Twilio")
	t.Setenv("MQTT_QOS", "2")
	t.Setenv("MQTT_TOPIC_PREFIX", "care/")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.False(t, cfg.DBEnabled)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, 500*time.Millisecond, cfg.SOS.Delay)
	assert.Equal(t, "sk-test", cfg.Chat.APIKey)
	assert.Equal(t, "twilio", cfg.SMS.Provider)
	assert.Equal(t, byte(2), cfg.MQTT.QoS)
	assert.Equal(t, "care", cfg.MQTT.TopicPrefix)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SOS_DELAY", "soon")
	t.Setenv("DB_PORT", "abc")
	t.Setenv("DB_ENABLED", "maybe")

	cfg := Load()

	assert.Equal(t, 2*time.Second, cfg.SOS.Delay)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.True(t, cfg.DBEnabled)
}

func TestGetDSN(t *testing.T) {
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("DB_SSLMODE", "")

	cfg := Load()
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=silvercare sslmode=disable", cfg.Database.GetDSN())
}
