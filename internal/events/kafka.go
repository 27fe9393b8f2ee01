package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"wahub/internal/config"
	"wahub/internal/constants"
	"wahub/internal/logger"
	"wahub/pkg/circuitbreaker"
	"wahub/pkg/metrics"
	"wahub/pkg/retry"
)

// KafkaPublisher writes broadcast envelopes to a single events topic. Messages
// are keyed by event name so consumers see each event type in order.
type KafkaPublisher struct {
	writer  *kafka.Writer
	breaker *circuitbreaker.Wrapper
	policy  retry.Policy
	log     logger.Logger
}

func NewKafkaPublisher(cfg config.KafkaConfig, log logger.Logger) *KafkaPublisher {
	topic := cfg.EventsTopic
	if topic == "" {
		topic = constants.DefaultEventsTopic
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: constants.KafkaBatchTimeout,
		WriteTimeout: constants.KafkaWriteTimeout,
		RequiredAcks: kafka.RequireOne,
	}

	policy := retry.DefaultPolicy()
	if cfg.Retry.MaxAttempts > 0 {
		policy = retry.Policy{
			MaxAttempts:     cfg.Retry.MaxAttempts,
			InitialInterval: cfg.Retry.InitialInterval,
			MaxInterval:     cfg.Retry.MaxInterval,
			Multiplier:      cfg.Retry.Multiplier,
		}
	}

	return &KafkaPublisher{
		writer:  writer,
		breaker: circuitbreaker.NewWrapper(circuitbreaker.DefaultConfig("kafka-events")),
		policy:  policy,
		log:     log,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event string, data interface{}) error {
	start := time.Now()

	envelope := Envelope{
		Event:     event,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}

	value, err := json.Marshal(envelope)
	if err != nil {
		metrics.IncBroadcastEvent(event, "marshal_error")
		return err
	}

	message := kafka.Message{
		Key:   []byte(event),
		Value: value,
	}

	attempt := 0
	err = retry.Retry(ctx, p.policy, func() error {
		if attempt > 0 {
			metrics.IncRetryAttempt("kafka-events")
		}
		attempt++

		_, execErr := p.breaker.ExecuteWithContext(ctx, func() (interface{}, error) {
			return nil, p.writer.WriteMessages(ctx, message)
		})
		p.breaker.RecordRequest(execErr == nil)
		return execErr
	})

	metrics.ObserveBroadcastDuration(time.Since(start), event)
	if err != nil {
		metrics.IncBroadcastEvent(event, "error")
		p.log.ErrorwCtx(ctx, "Failed to publish broadcast event",
			"event", event,
			"attempts", attempt,
			"error", err,
		)
		return err
	}

	metrics.IncBroadcastEvent(event, "success")
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
