package events

import "time"

// Event names mirror what connected UIs subscribe to.
const (
	EventNewMessage    = "new_message"
	EventMessageUpdate = "message_update"
	EventMessagesRead  = "messages_read"
)

// Envelope is the wire shape of a broadcast event. Data is the domain object
// the event refers to: a message record for new_message and message_update, a
// read receipt for messages_read.
type Envelope struct {
	Event     string      `json:"event"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// ReadReceipt is the payload of a messages_read event.
type ReadReceipt struct {
	WaID         string `json:"waId"`
	UpdatedCount int64  `json:"updatedCount"`
}
