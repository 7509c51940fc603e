package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	commoncfg "silvercare/common/config"
)

// Config is the silvercare service configuration, read from the environment.
type Config struct {
	HTTP struct {
		Addr         string
		MaxBodyBytes int64
	}
	DBEnabled    bool
	Database     commoncfg.DatabaseConfig
	RedisEnabled bool
	Redis        commoncfg.RedisConfig
	Log          struct {
		Level  string
		Format string
	}
	MQTT      MQTTConfig
	Chat      ChatConfig
	SOS       SOSConfig
	SMS       SMSConfig
	Maps      MapsConfig
	Reminder  ReminderConfig
	RateLimit RateLimitConfig
	// SeedDemo loads demo medications and contacts into the memory repos.
	SeedDemo bool
}

type MQTTConfig struct {
	Enabled bool
	commoncfg.MQTTConfig
	TopicPrefix string
}

// ChatConfig configures the OpenAI-compatible provider. An empty APIKey
// selects the simulated assistant.
type ChatConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

type SOSConfig struct {
	Delay        time.Duration // contacting -> ambulance_sent
	LocationWait time.Duration // how long dispatch waits for a location fix
	EventTTL     time.Duration
	StreamMaxLen int64
}

// SMSConfig selects the contact alert sender: log | twilio | sns | webhook.
type SMSConfig struct {
	Provider         string
	From             string
	TwilioAccountSID string
	TwilioAuthToken  string
	SNSRegion        string
	WebhookURL       string
	WebhookToken     string
}

type MapsConfig struct {
	APIKey       string
	RadiusMeters int
}

type ReminderConfig struct {
	Enabled  bool
	Spec     string
	Location string // IANA zone used to format scheduled times
}

// RateLimitConfig values use the limiter format, e.g. "20-M".
type RateLimitConfig struct {
	Chat string
	SOS  string
	App  string
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")
	cfg.HTTP.MaxBodyBytes = int64(parseInt(getEnv("HTTP_MAX_BODY_BYTES", "65536"), 65536))

	// DB unavailable falls back to the memory repos, see cmd/silvercare.
	cfg.DBEnabled = parseBool(getEnv("DB_ENABLED", "true"), true)
	cfg.Database.Host = "localhost"
	cfg.Database.Port = 5432
	cfg.Database.User = "postgres"
	cfg.Database.Password = "postgres"
	cfg.Database.Database = "silvercare"
	cfg.Database.SSLMode = "disable"
	cfg.Database.MaxConns = 10
	cfg.Database.MaxIdle = 5
	cfg.Database.LoadFromEnv("DB")

	cfg.RedisEnabled = parseBool(getEnv("REDIS_ENABLED", "true"), true)
	cfg.Redis.Addr = "localhost:6379"
	cfg.Redis.LoadFromEnv("REDIS")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.MQTT.Enabled = parseBool(getEnv("MQTT_ENABLED", "false"), false)
	cfg.MQTT.Broker = "tcp://localhost:1883"
	cfg.MQTT.ClientID = "silvercare"
	cfg.MQTT.QoS = 1
	cfg.MQTT.MQTTConfig.LoadFromEnv("MQTT")
	cfg.MQTT.TopicPrefix = strings.TrimSuffix(getEnv("MQTT_TOPIC_PREFIX", "silvercare"), "/")

	cfg.Chat.APIKey = getEnv("CHAT_API_KEY", os.Getenv("OPENAI_API_KEY"))
	cfg.Chat.BaseURL = getEnv("CHAT_BASE_URL", "")
	cfg.Chat.Model = getEnv("CHAT_MODEL", "gpt-3.5-turbo")
	cfg.Chat.MaxTokens = parseInt(getEnv("CHAT_MAX_TOKENS", "150"), 150)
	cfg.Chat.Timeout = parseDuration(getEnv("CHAT_TIMEOUT", "20s"), 20*time.Second)

	cfg.SOS.Delay = parseDuration(getEnv("SOS_DELAY", "2s"), 2*time.Second)
	cfg.SOS.LocationWait = parseDuration(getEnv("SOS_LOCATION_WAIT", "10s"), 10*time.Second)
	cfg.SOS.EventTTL = parseDuration(getEnv("SOS_EVENT_TTL", "24h"), 24*time.Hour)
	cfg.SOS.StreamMaxLen = int64(parseInt(getEnv("SOS_STREAM_MAXLEN", "10000"), 10000))

	cfg.SMS.Provider = strings.ToLower(getEnv("SMS_PROVIDER", "log"))
	cfg.SMS.From = getEnv("SMS_FROM", "")
	cfg.SMS.TwilioAccountSID = getEnv("TWILIO_ACCOUNT_SID", "")
	cfg.SMS.TwilioAuthToken = getEnv("TWILIO_AUTH_TOKEN", "")
	cfg.SMS.SNSRegion = getEnv("SNS_REGION", "us-east-1")
	cfg.SMS.WebhookURL = getEnv("SMS_WEBHOOK_URL", "")
	cfg.SMS.WebhookToken = getEnv("SMS_WEBHOOK_TOKEN", "")

	cfg.Maps.APIKey = getEnv("GOOGLE_MAPS_API_KEY", "")
	cfg.Maps.RadiusMeters = parseInt(getEnv("MAPS_RADIUS_METERS", "5000"), 5000)

	cfg.Reminder.Enabled = parseBool(getEnv("REMINDER_ENABLED", "true"), true)
	cfg.Reminder.Spec = getEnv("REMINDER_SPEC", "@every 1m")
	cfg.Reminder.Location = getEnv("REMINDER_TZ", "Local")

	cfg.RateLimit.Chat = getEnv("RATE_LIMIT_CHAT", "20-M")
	cfg.RateLimit.SOS = getEnv("RATE_LIMIT_SOS", "10-M")
	cfg.RateLimit.App = getEnv("RATE_LIMIT_APP", "120-M")

	cfg.SeedDemo = parseBool(getEnv("SEED_DEMO", "true"), true)

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseBool(s string, def bool) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return b
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return def
	}
	return d
}
