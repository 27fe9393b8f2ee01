package messaging

import "time"

// Status is the delivery state of a message. Transitions are forward-only:
// sent -> delivered -> read.
type Status string

const (
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusRead      Status = "read"
)

func (s Status) Valid() bool {
	switch s {
	case StatusSent, StatusDelivered, StatusRead:
		return true
	}
	return false
}

func (s Status) rank() int {
	switch s {
	case StatusSent:
		return 0
	case StatusDelivered:
		return 1
	case StatusRead:
		return 2
	}
	return -1
}

// Supersedes reports whether moving from other to s is a forward transition.
func (s Status) Supersedes(other Status) bool {
	return s.rank() > other.rank()
}

// predecessors returns the statuses a record may currently hold for the
// transition to s to be a forward move.
func (s Status) predecessors() []Status {
	switch s {
	case StatusDelivered:
		return []Status{StatusSent}
	case StatusRead:
		return []Status{StatusSent, StatusDelivered}
	}
	return nil
}

// MessageRecord is a single inbound or outbound message. Records are immutable
// once stored except for Status and UpdatedAt.
type MessageRecord struct {
	MessageID      string    `bson:"messageId" json:"messageId"`
	WaID           string    `bson:"waId" json:"waId"`
	ContactName    string    `bson:"contactName" json:"contactName"`
	From           string    `bson:"from" json:"from"`
	To             string    `bson:"to" json:"to"`
	Body           string    `bson:"messageBody" json:"messageBody"`
	MessageType    string    `bson:"messageType" json:"messageType"`
	Timestamp      int64     `bson:"timestamp" json:"timestamp"`
	Status         Status    `bson:"status" json:"status"`
	IsFromBusiness bool      `bson:"isFromBusiness" json:"isFromBusiness"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ConversationSummary is derived from the record store on demand; it is never
// persisted.
type ConversationSummary struct {
	WaID          string `bson:"waId" json:"waId"`
	ContactName   string `bson:"contactName" json:"contactName"`
	LastMessage   string `bson:"lastMessage" json:"lastMessage"`
	LastTimestamp int64  `bson:"lastTimestamp" json:"lastTimestamp"`
	UnreadCount   int64  `bson:"unreadCount" json:"unreadCount"`
}

type SendMessageRequest struct {
	WaID        string `json:"waId" binding:"required"`
	Body        string `json:"messageBody" binding:"required"`
	ContactName string `json:"contactName"`
}

// IngestOutcome classifies what a webhook delivery did to the store.
type IngestOutcome string

const (
	OutcomeCreated        IngestOutcome = "created"
	OutcomeDuplicate      IngestOutcome = "duplicate"
	OutcomeStatusUpdated  IngestOutcome = "status_updated"
	OutcomeStatusStale    IngestOutcome = "status_stale"
	OutcomeUnknownMessage IngestOutcome = "unknown_message"
	OutcomeIgnored        IngestOutcome = "ignored"
)

type IngestResult struct {
	Outcome IngestOutcome  `json:"outcome"`
	Record  *MessageRecord `json:"record,omitempty"`
}
