package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"wahub/internal/constants"
)

func LoadConfig(configFile string) (*Config, error) {
	viper.Reset()

	viper.SetConfigType("yaml")
	viper.SetConfigFile(configFile)

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	bindEnvVariables()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := ValidateStatic(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func bindEnvVariables() {
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.read_timeout_seconds", "SERVER_READ_TIMEOUT_SECONDS")
	viper.BindEnv("server.write_timeout_seconds", "SERVER_WRITE_TIMEOUT_SECONDS")

	viper.BindEnv("database.mongodb.uri", "DATABASE_MONGODB_URI")
	viper.BindEnv("database.mongodb.database", "DATABASE_MONGODB_DATABASE")

	viper.BindEnv("database.redis.host", "DATABASE_REDIS_HOST")
	viper.BindEnv("database.redis.port", "DATABASE_REDIS_PORT")
	viper.BindEnv("database.redis.password", "DATABASE_REDIS_PASSWORD")
	viper.BindEnv("database.redis.db", "DATABASE_REDIS_DB")

	viper.BindEnv("broker.type", "BROKER_TYPE")
	viper.BindEnv("broker.kafka.brokers", "BROKER_KAFKA_BROKERS")
	viper.BindEnv("broker.kafka.events_topic", "BROKER_KAFKA_EVENTS_TOPIC")
	viper.BindEnv("broker.kafka.retry.max_attempts", "BROKER_KAFKA_RETRY_MAX_ATTEMPTS")
	viper.BindEnv("broker.kafka.retry.initial_interval", "BROKER_KAFKA_RETRY_INITIAL_INTERVAL")
	viper.BindEnv("broker.kafka.retry.max_interval", "BROKER_KAFKA_RETRY_MAX_INTERVAL")
	viper.BindEnv("broker.kafka.retry.multiplier", "BROKER_KAFKA_RETRY_MULTIPLIER")

	viper.BindEnv("logging.level", "LOGGING_LEVEL")
	viper.BindEnv("logging.format", "LOGGING_FORMAT")

	viper.BindEnv("chat.business_number", "CHAT_BUSINESS_NUMBER")
	viper.BindEnv("chat.rate_limit.enabled", "CHAT_RATE_LIMIT_ENABLED")
	viper.BindEnv("chat.rate_limit.rps", "CHAT_RATE_LIMIT_RPS")
	viper.BindEnv("chat.rate_limit.burst", "CHAT_RATE_LIMIT_BURST")
	viper.BindEnv("chat.rate_limit.cleanup_interval", "CHAT_RATE_LIMIT_CLEANUP_INTERVAL")
	viper.BindEnv("chat.rate_limit.max_age", "CHAT_RATE_LIMIT_MAX_AGE")
	viper.BindEnv("chat.seen_cache.enabled", "CHAT_SEEN_CACHE_ENABLED")
	viper.BindEnv("chat.seen_cache.ttl_seconds", "CHAT_SEEN_CACHE_TTL_SECONDS")

	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.service_name", "TRACING_SERVICE_NAME")
	viper.BindEnv("tracing.otlp.endpoint", "TRACING_OTLP_ENDPOINT")
	viper.BindEnv("tracing.otlp.insecure", "TRACING_OTLP_INSECURE")
}

func setDefaults() {
	viper.SetDefault("chat.business_number", constants.DefaultBusinessNumber)
	viper.SetDefault("chat.seen_cache.ttl_seconds", constants.DefaultSeenTTLSeconds)
	viper.SetDefault("broker.kafka.events_topic", constants.DefaultEventsTopic)
	viper.SetDefault("database.mongodb.database", constants.DefaultMongoDBName)
}

func applyEnvOverrides(cfg *Config) error {
	if brokersEnv := viper.GetString("BROKER_KAFKA_BROKERS"); brokersEnv != "" {
		brokers := strings.Split(brokersEnv, ",")
		for i := range brokers {
			brokers[i] = strings.TrimSpace(brokers[i])
		}
		if len(brokers) > 0 && brokers[0] != "" {
			cfg.Broker.Kafka.Brokers = brokers
		}
	}

	if otlpEndpoint := viper.GetString("TRACING_OTLP_ENDPOINT"); otlpEndpoint != "" {
		cfg.Tracing.OTLP.Endpoint = otlpEndpoint
	}

	return nil
}
