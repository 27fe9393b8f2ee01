package constants

import "time"

const (
	KafkaBatchTimeout = 10 * time.Millisecond
	KafkaWriteTimeout = 10 * time.Second
)

const (
	// DefaultBusinessNumber matches the endpoint the provider registers
	// outbound messages under when no override is configured.
	DefaultBusinessNumber = "918329446654"
)

const (
	MessagesCollection = "processed_messages"
)

const (
	CacheKeyPrefixSeen = "seen:"
)

const (
	DefaultEventsTopic = "chat_events"
)

const (
	DefaultMongoDBName = "whatsapp"
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	DefaultSeenTTLSeconds = 3600
)

const (
	ContactNamePlaceholder = "Unknown"
)
