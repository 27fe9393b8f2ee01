package messaging

import (
	"strconv"

	"wahub/internal/constants"
)

// WebhookPayload mirrors the provider's notification shape. Every level is
// optional: payloads that do not carry a usable event normalize to nil rather
// than an error.
type WebhookPayload struct {
	MetaData *WebhookMetaData `json:"metaData"`
}

type WebhookMetaData struct {
	Entry []WebhookEntry `json:"entry"`
}

type WebhookEntry struct {
	Changes []WebhookChange `json:"changes"`
}

type WebhookChange struct {
	Field string       `json:"field"`
	Value WebhookValue `json:"value"`
}

type WebhookValue struct {
	Metadata *WebhookMetadata `json:"metadata"`
	Contacts []WebhookContact `json:"contacts"`
	Messages []WebhookMessage `json:"messages"`
	Statuses []WebhookStatus  `json:"statuses"`
}

type WebhookMetadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
}

type WebhookContact struct {
	WaID    string          `json:"wa_id"`
	Profile *WebhookProfile `json:"profile"`
}

type WebhookProfile struct {
	Name string `json:"name"`
}

type WebhookMessage struct {
	ID        string       `json:"id"`
	From      string       `json:"from"`
	Timestamp string       `json:"timestamp"`
	Type      string       `json:"type"`
	Text      *WebhookText `json:"text"`
}

type WebhookText struct {
	Body string `json:"body"`
}

type WebhookStatus struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// NormalizedEvent is either a NewMessageEvent or a StatusUpdateEvent.
type NormalizedEvent interface {
	isNormalizedEvent()
}

// NewMessageEvent carries a fully populated record minus the server-assigned
// createdAt/updatedAt fields.
type NewMessageEvent struct {
	Record MessageRecord
}

type StatusUpdateEvent struct {
	MessageID string
	Status    Status
}

func (NewMessageEvent) isNormalizedEvent()   {}
func (StatusUpdateEvent) isNormalizedEvent() {}

// Normalize classifies a webhook payload into a typed event. It returns nil
// for malformed or irrelevant payloads; parsing has no side effects.
//
// Only the first entry, change, message, contact and status in each nested
// collection is considered: the provider delivers one event per call and the
// payload shape inherited from it encodes that assumption.
func Normalize(payload *WebhookPayload) NormalizedEvent {
	if payload == nil || payload.MetaData == nil {
		return nil
	}

	if len(payload.MetaData.Entry) == 0 {
		return nil
	}
	entry := payload.MetaData.Entry[0]

	if len(entry.Changes) == 0 {
		return nil
	}
	change := entry.Changes[0]

	if change.Field != "messages" {
		return nil
	}

	if len(change.Value.Statuses) > 0 {
		return normalizeStatus(change.Value.Statuses[0])
	}

	if len(change.Value.Messages) > 0 {
		return normalizeMessage(change.Value)
	}

	return nil
}

func normalizeStatus(status WebhookStatus) NormalizedEvent {
	if status.ID == "" {
		return nil
	}

	newStatus := Status(status.Status)
	if !newStatus.Valid() {
		return nil
	}

	return StatusUpdateEvent{
		MessageID: status.ID,
		Status:    newStatus,
	}
}

func normalizeMessage(value WebhookValue) NormalizedEvent {
	message := value.Messages[0]
	if message.ID == "" || message.From == "" {
		return nil
	}

	if len(value.Contacts) == 0 {
		return nil
	}
	contact := value.Contacts[0]
	if contact.WaID == "" {
		return nil
	}

	timestamp, err := strconv.ParseInt(message.Timestamp, 10, 64)
	if err != nil {
		return nil
	}

	contactName := constants.ContactNamePlaceholder
	if contact.Profile != nil && contact.Profile.Name != "" {
		contactName = contact.Profile.Name
	}

	body := ""
	if message.Text != nil {
		body = message.Text.Body
	}

	messageType := message.Type
	if messageType == "" {
		messageType = "text"
	}

	businessNumber := ""
	if value.Metadata != nil {
		businessNumber = value.Metadata.DisplayPhoneNumber
	}

	return NewMessageEvent{
		Record: MessageRecord{
			MessageID:      message.ID,
			WaID:           contact.WaID,
			ContactName:    contactName,
			From:           message.From,
			To:             businessNumber,
			Body:           body,
			MessageType:    messageType,
			Timestamp:      timestamp,
			Status:         StatusSent,
			IsFromBusiness: message.From == businessNumber,
		},
	}
}
