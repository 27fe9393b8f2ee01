package integration

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"wahub/internal/logger"
	"wahub/internal/messaging"
	"wahub/pkg/migrations"
)

const timestampDelay = 10 * time.Millisecond

func createTestLogger() logger.Logger {
	return logger.NopLogger()
}

func setupRepository(t *testing.T, db *mongo.Database) *messaging.MongoRepository {
	t.Helper()

	ctx := context.Background()
	if err := migrations.EnsureMessageIndexes(ctx, db); err != nil {
		t.Fatalf("failed to create indexes: %v", err)
	}

	t.Cleanup(func() {
		db.Collection("processed_messages").Drop(context.Background())
	})

	return messaging.NewRepository(db)
}

func inboundRecord(messageID, waID, body string, timestamp int64) *messaging.MessageRecord {
	return &messaging.MessageRecord{
		MessageID:      messageID,
		WaID:           waID,
		ContactName:    "Test Contact",
		From:           waID,
		To:             "918329446654",
		Body:           body,
		MessageType:    "text",
		Timestamp:      timestamp,
		Status:         messaging.StatusSent,
		IsFromBusiness: false,
	}
}

func outboundRecord(messageID, waID, body string, timestamp int64) *messaging.MessageRecord {
	record := inboundRecord(messageID, waID, body, timestamp)
	record.From = "918329446654"
	record.To = waID
	record.IsFromBusiness = true
	return record
}
