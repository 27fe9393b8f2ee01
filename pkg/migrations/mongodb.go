package migrations

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"wahub/internal/constants"
)

// EnsureMessageIndexes creates the indexes the record store depends on. The
// unique messageId index is what makes webhook ingestion idempotent under
// concurrent duplicate deliveries.
func EnsureMessageIndexes(ctx context.Context, db *mongo.Database) error {
	collection := db.Collection(constants.MessagesCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "messageId", Value: 1}},
			Options: options.Index().SetName("idx_messages_message_id").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "waId", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_messages_wa_id_timestamp"),
		},
		{
			Keys:    bson.D{{Key: "waId", Value: 1}, {Key: "isFromBusiness", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_messages_unread_lookup"),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		if !strings.Contains(err.Error(), "already exists") {
			return fmt.Errorf("failed to create indexes: %w", err)
		}
	}

	return nil
}
