package events

import (
	"context"
	"fmt"

	"wahub/internal/config"
	"wahub/internal/logger"
)

// Publisher fans conversation events out to connected consumers. Publishing is
// after the fact: the record store has already committed by the time an event
// is emitted, so delivery failures degrade liveness, never correctness.
type Publisher interface {
	Publish(ctx context.Context, event string, data interface{}) error
	Close() error
}

// NewPublisher builds a publisher for the configured broker. An empty broker
// type yields a NopPublisher so the service can run without a broker.
func NewPublisher(cfg config.BrokerConfig, log logger.Logger) (Publisher, error) {
	switch cfg.Type {
	case "":
		log.Warn("No broker configured, broadcast events disabled")
		return NopPublisher{}, nil
	case "kafka":
		return NewKafkaPublisher(cfg.Kafka, log), nil
	default:
		return nil, fmt.Errorf("unsupported broker type: %s", cfg.Type)
	}
}

type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event string, data interface{}) error {
	return nil
}

func (NopPublisher) Close() error {
	return nil
}
