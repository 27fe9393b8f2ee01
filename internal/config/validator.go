package config

import (
	"fmt"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

func ValidateStatic(cfg *Config) error {
	var errs []error

	if err := validateServer(cfg.Server); err != nil {
		errs = append(errs, err)
	}

	if err := validateDatabase(cfg.Database); err != nil {
		errs = append(errs, err)
	}

	if err := validateBroker(cfg.Broker); err != nil {
		errs = append(errs, err)
	}

	if err := validateChat(cfg.Chat); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errs)
	}

	return nil
}

func validateServer(cfg ServerConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return &ValidationError{
			Field:   "server.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", cfg.Port),
		}
	}

	if cfg.ReadTimeoutSeconds <= 0 {
		return &ValidationError{
			Field:   "server.read_timeout_seconds",
			Message: "read timeout must be positive",
		}
	}

	if cfg.WriteTimeoutSeconds <= 0 {
		return &ValidationError{
			Field:   "server.write_timeout_seconds",
			Message: "write timeout must be positive",
		}
	}

	return nil
}

func validateDatabase(cfg DatabaseConfig) error {
	if cfg.MongoDB.URI == "" {
		return &ValidationError{
			Field:   "database.mongodb.uri",
			Message: "mongodb uri is required",
		}
	}

	if cfg.MongoDB.Database == "" {
		return &ValidationError{
			Field:   "database.mongodb.database",
			Message: "mongodb database name is required",
		}
	}

	return nil
}

func validateBroker(cfg BrokerConfig) error {
	// Broker is optional: without one, broadcast events are dropped.
	if cfg.Type == "" {
		return nil
	}

	if cfg.Type != "kafka" {
		return &ValidationError{
			Field:   "broker.type",
			Message: fmt.Sprintf("unsupported broker type %q", cfg.Type),
		}
	}

	if len(cfg.Kafka.Brokers) == 0 {
		return &ValidationError{
			Field:   "broker.kafka.brokers",
			Message: "at least one kafka broker is required",
		}
	}

	if cfg.Kafka.EventsTopic == "" {
		return &ValidationError{
			Field:   "broker.kafka.events_topic",
			Message: "events topic is required",
		}
	}

	return nil
}

func validateChat(cfg ChatConfig) error {
	if cfg.BusinessNumber == "" {
		return &ValidationError{
			Field:   "chat.business_number",
			Message: "business number is required",
		}
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.RPS <= 0 {
			return &ValidationError{
				Field:   "chat.rate_limit.rps",
				Message: "rps must be positive when rate limiting is enabled",
			}
		}
		if cfg.RateLimit.Burst <= 0 {
			return &ValidationError{
				Field:   "chat.rate_limit.burst",
				Message: "burst must be positive when rate limiting is enabled",
			}
		}
	}

	if cfg.SeenCache.Enabled && cfg.SeenCache.TTLSeconds <= 0 {
		return &ValidationError{
			Field:   "chat.seen_cache.ttl_seconds",
			Message: "ttl must be positive when the seen cache is enabled",
		}
	}

	return nil
}
