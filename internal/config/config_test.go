package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validYAML = `
server:
  port: 8080
  read_timeout_seconds: 10
  write_timeout_seconds: 10
database:
  mongodb:
    uri: mongodb://localhost:27017
    database: whatsapp
logging:
  level: info
broker:
  type: kafka
  kafka:
    brokers: ["localhost:9092"]
    events_topic: chat_events
`

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, validYAML)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Server.ReadTimeoutSeconds)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Database.MongoDB.URI)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Broker.Kafka.Brokers)
	assert.Equal(t, "chat_events", cfg.Broker.Kafka.EventsTopic)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9000
  read_timeout_seconds: 5
  write_timeout_seconds: 5
database:
  mongodb:
    uri: mongodb://localhost:27017
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "918329446654", cfg.Chat.BusinessNumber)
	assert.Equal(t, "whatsapp", cfg.Database.MongoDB.Database)
	assert.Equal(t, 3600, cfg.Chat.SeenCache.TTLSeconds)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("CHAT_SEEN_CACHE_ENABLED", "true")
	t.Setenv("CHAT_SEEN_CACHE_TTL_SECONDS", "120")
	t.Setenv("CHAT_RATE_LIMIT_ENABLED", "true")
	t.Setenv("CHAT_RATE_LIMIT_RPS", "25")
	t.Setenv("CHAT_RATE_LIMIT_BURST", "50")
	t.Setenv("BROKER_KAFKA_RETRY_MAX_ATTEMPTS", "5")

	path := writeConfigFile(t, validYAML)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.Chat.SeenCache.Enabled)
	assert.Equal(t, 120, cfg.Chat.SeenCache.TTLSeconds)
	assert.True(t, cfg.Chat.RateLimit.Enabled)
	assert.Equal(t, 25.0, cfg.Chat.RateLimit.RPS)
	assert.Equal(t, 50, cfg.Chat.RateLimit.Burst)
	assert.Equal(t, 5, cfg.Broker.Kafka.Retry.MaxAttempts)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateStatic(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server: ServerConfig{
				Port:                8080,
				ReadTimeoutSeconds:  10,
				WriteTimeoutSeconds: 10,
			},
			Database: DatabaseConfig{
				MongoDB: MongoDBConfig{URI: "mongodb://localhost:27017", Database: "whatsapp"},
			},
			Chat: ChatConfig{BusinessNumber: "918329446654"},
		}
	}

	tests := []struct {
		name      string
		mutate    func(cfg *Config)
		wantError bool
	}{
		{
			name:   "valid config",
			mutate: func(cfg *Config) {},
		},
		{
			name:      "invalid port",
			mutate:    func(cfg *Config) { cfg.Server.Port = 0 },
			wantError: true,
		},
		{
			name:      "missing mongodb uri",
			mutate:    func(cfg *Config) { cfg.Database.MongoDB.URI = "" },
			wantError: true,
		},
		{
			name:      "missing business number",
			mutate:    func(cfg *Config) { cfg.Chat.BusinessNumber = "" },
			wantError: true,
		},
		{
			name:      "unsupported broker type",
			mutate:    func(cfg *Config) { cfg.Broker.Type = "rabbitmq" },
			wantError: true,
		},
		{
			name: "kafka broker without addresses",
			mutate: func(cfg *Config) {
				cfg.Broker.Type = "kafka"
				cfg.Broker.Kafka.EventsTopic = "chat_events"
			},
			wantError: true,
		},
		{
			name: "rate limit enabled without rps",
			mutate: func(cfg *Config) {
				cfg.Chat.RateLimit.Enabled = true
				cfg.Chat.RateLimit.Burst = 10
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := ValidateStatic(cfg)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
