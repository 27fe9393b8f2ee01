package messaging

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"wahub/internal/events"
	"wahub/internal/logger"
	pkgerrors "wahub/pkg/errors"
	"wahub/pkg/logging"
	"wahub/pkg/metrics"
	"wahub/pkg/tracing"
)

// Service is the application-facing surface of the chat domain.
type Service interface {
	// Ingest applies one normalized webhook payload to the record store and
	// reports what happened. Malformed payloads are classified, not rejected.
	Ingest(ctx context.Context, payload *WebhookPayload) (*IngestResult, error)

	// ListConversations returns per-contact summaries, most recent first.
	ListConversations(ctx context.Context) ([]ConversationSummary, error)

	// GetConversation returns the message history for one contact, oldest
	// first. An unknown waId yields an empty history, not an error.
	GetConversation(ctx context.Context, waID string) ([]MessageRecord, error)

	// SendMessage stores an outbound business message and broadcasts it.
	SendMessage(ctx context.Context, req *SendMessageRequest) (*MessageRecord, error)

	// MarkRead flags every inbound message of the conversation as read and
	// returns how many records changed.
	MarkRead(ctx context.Context, waID string) (int64, error)
}

type chatService struct {
	repo           Repository
	publisher      events.Publisher
	seenCache      SeenCache
	log            logger.Logger
	tracer         trace.Tracer
	businessNumber string
}

type ServiceOption func(*chatService)

// WithSeenCache enables the redis duplicate fast path. Without it every
// duplicate is caught by the storage-level unique index instead.
func WithSeenCache(cache SeenCache) ServiceOption {
	return func(s *chatService) {
		s.seenCache = cache
	}
}

func WithBusinessNumber(number string) ServiceOption {
	return func(s *chatService) {
		s.businessNumber = number
	}
}

func NewService(repo Repository, publisher events.Publisher, log logger.Logger, opts ...ServiceOption) Service {
	s := &chatService{
		repo:      repo,
		publisher: publisher,
		log:       log,
		tracer:    tracing.GetTracer("chat-service"),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *chatService) Ingest(ctx context.Context, payload *WebhookPayload) (*IngestResult, error) {
	ctx, span := s.tracer.Start(ctx, "service.Ingest")
	defer span.End()

	start := time.Now()
	result, err := s.ingest(ctx, payload)
	if err != nil {
		metrics.IncWebhookEvent("error")
		metrics.ObserveWebhookDuration(time.Since(start), "error")
		return nil, err
	}

	span.SetAttributes(attribute.String("ingest.outcome", string(result.Outcome)))
	metrics.IncWebhookEvent(string(result.Outcome))
	metrics.ObserveWebhookDuration(time.Since(start), string(result.Outcome))

	return result, nil
}

func (s *chatService) ingest(ctx context.Context, payload *WebhookPayload) (*IngestResult, error) {
	event := Normalize(payload)
	if event == nil {
		s.log.DebugwCtx(ctx, "Webhook payload carried no usable event")
		return &IngestResult{Outcome: OutcomeIgnored}, nil
	}

	switch e := event.(type) {
	case NewMessageEvent:
		return s.ingestMessage(ctx, e.Record)
	case StatusUpdateEvent:
		return s.ingestStatus(ctx, e)
	default:
		return &IngestResult{Outcome: OutcomeIgnored}, nil
	}
}

func (s *chatService) ingestMessage(ctx context.Context, record MessageRecord) (*IngestResult, error) {
	ctx = logging.WithMessageID(ctx, record.MessageID)
	ctx = logging.WithWaID(ctx, record.WaID)

	if s.seenCache != nil {
		first, err := s.seenCache.MarkSeen(ctx, record.MessageID)
		if err != nil {
			// Cache down; the unique index still guards correctness.
			s.log.WarnwCtx(ctx, "Seen cache unavailable, falling through to store", "error", err)
		} else if !first {
			existing, findErr := s.repo.FindByID(ctx, record.MessageID)
			if findErr != nil {
				return nil, findErr
			}
			if existing != nil {
				s.log.DebugwCtx(ctx, "Duplicate message short-circuited by seen cache")
				return &IngestResult{Outcome: OutcomeDuplicate, Record: existing}, nil
			}
			// Cache claims seen but the store disagrees; trust the store.
		}
	}

	stored, created, err := s.repo.Create(ctx, &record)
	if err != nil {
		return nil, err
	}

	if !created {
		s.log.DebugwCtx(ctx, "Duplicate message delivery ignored")
		return &IngestResult{Outcome: OutcomeDuplicate, Record: stored}, nil
	}

	direction := "inbound"
	if stored.IsFromBusiness {
		direction = "outbound"
	}
	metrics.IncMessageStored(direction)

	s.log.InfowCtx(ctx, "Message stored",
		"direction", direction,
		"message_type", stored.MessageType,
	)

	s.broadcast(ctx, events.EventNewMessage, stored)

	return &IngestResult{Outcome: OutcomeCreated, Record: stored}, nil
}

func (s *chatService) ingestStatus(ctx context.Context, event StatusUpdateEvent) (*IngestResult, error) {
	ctx = logging.WithMessageID(ctx, event.MessageID)

	record, applied, err := s.repo.UpdateStatus(ctx, event.MessageID, event.Status)
	if err != nil {
		return nil, err
	}

	if record == nil {
		s.log.WarnwCtx(ctx, "Status update for unknown message", "status", event.Status)
		return &IngestResult{Outcome: OutcomeUnknownMessage}, nil
	}

	if !applied {
		s.log.DebugwCtx(ctx, "Stale status update ignored",
			"requested", event.Status,
			"stored", record.Status,
		)
		return &IngestResult{Outcome: OutcomeStatusStale, Record: record}, nil
	}

	s.log.InfowCtx(ctx, "Message status updated", "status", record.Status)
	s.broadcast(ctx, events.EventMessageUpdate, record)

	return &IngestResult{Outcome: OutcomeStatusUpdated, Record: record}, nil
}

func (s *chatService) ListConversations(ctx context.Context) ([]ConversationSummary, error) {
	ctx, span := s.tracer.Start(ctx, "service.ListConversations")
	defer span.End()

	summaries, err := s.repo.ListConversations(ctx)
	if err != nil {
		return nil, err
	}

	if summaries == nil {
		summaries = []ConversationSummary{}
	}

	span.SetAttributes(attribute.Int("conversations.count", len(summaries)))
	return summaries, nil
}

func (s *chatService) GetConversation(ctx context.Context, waID string) ([]MessageRecord, error) {
	ctx, span := s.tracer.Start(ctx, "service.GetConversation")
	defer span.End()

	if waID == "" {
		return nil, pkgerrors.ErrValidation.WithDetail("message", "waId is required")
	}
	ctx = logging.WithWaID(ctx, waID)

	records, err := s.repo.FindByWaID(ctx, waID)
	if err != nil {
		return nil, err
	}

	if records == nil {
		records = []MessageRecord{}
	}

	span.SetAttributes(attribute.Int("messages.count", len(records)))
	return records, nil
}

func (s *chatService) SendMessage(ctx context.Context, req *SendMessageRequest) (*MessageRecord, error) {
	ctx, span := s.tracer.Start(ctx, "service.SendMessage")
	defer span.End()

	if req == nil || req.WaID == "" || req.Body == "" {
		return nil, pkgerrors.ErrValidation.WithDetail("message", "waId and messageBody are required")
	}

	contactName := req.ContactName
	if contactName == "" {
		contactName = s.contactNameFor(ctx, req.WaID)
	}

	record := MessageRecord{
		MessageID:      "msg_" + uuid.NewString(),
		WaID:           req.WaID,
		ContactName:    contactName,
		From:           s.businessNumber,
		To:             req.WaID,
		Body:           req.Body,
		MessageType:    "text",
		Timestamp:      time.Now().Unix(),
		Status:         StatusSent,
		IsFromBusiness: true,
	}

	ctx = logging.WithMessageID(ctx, record.MessageID)
	ctx = logging.WithWaID(ctx, record.WaID)

	stored, _, err := s.repo.Create(ctx, &record)
	if err != nil {
		return nil, err
	}

	metrics.IncMessageStored("outbound")
	s.log.InfowCtx(ctx, "Outbound message stored")

	s.broadcast(ctx, events.EventNewMessage, stored)

	return stored, nil
}

func (s *chatService) MarkRead(ctx context.Context, waID string) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "service.MarkRead")
	defer span.End()

	if waID == "" {
		return 0, pkgerrors.ErrValidation.WithDetail("message", "waId is required")
	}
	ctx = logging.WithWaID(ctx, waID)

	updated, err := s.repo.MarkAllRead(ctx, waID)
	if err != nil {
		return 0, err
	}

	s.log.InfowCtx(ctx, "Conversation marked read", "updated_count", updated)

	if updated > 0 {
		s.broadcast(ctx, events.EventMessagesRead, events.ReadReceipt{
			WaID:         waID,
			UpdatedCount: updated,
		})
	}

	return updated, nil
}

// contactNameFor reuses the name from the contact's latest stored message so
// outbound records do not reset a known display name.
func (s *chatService) contactNameFor(ctx context.Context, waID string) string {
	records, err := s.repo.FindByWaID(ctx, waID)
	if err != nil || len(records) == 0 {
		return waID
	}
	return records[len(records)-1].ContactName
}

// broadcast publishes after the store commit. Failures are logged by the
// publisher; they never surface to the caller.
func (s *chatService) broadcast(ctx context.Context, event string, data interface{}) {
	if s.publisher == nil {
		return
	}
	_ = s.publisher.Publish(ctx, event, data)
}
