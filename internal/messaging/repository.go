package messaging

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"wahub/internal/constants"
	pkgerrors "wahub/pkg/errors"
	"wahub/pkg/metrics"
)

// Repository is the record store. It exclusively owns persisted message
// records; uniqueness of messageId is enforced at the storage layer, not by
// application-level locking.
type Repository interface {
	// Create persists a record. When the messageId already exists the
	// pre-existing record is returned and created is false; retried webhook
	// deliveries are therefore idempotent.
	Create(ctx context.Context, record *MessageRecord) (rec *MessageRecord, created bool, err error)

	// FindByID returns nil without error when the message does not exist.
	FindByID(ctx context.Context, messageID string) (*MessageRecord, error)

	// UpdateStatus applies a forward-only status transition. It returns the
	// record as currently stored and whether the transition was applied. A
	// stale or out-of-order update is a no-op on the stored status; an
	// unknown messageId yields (nil, false, nil).
	UpdateStatus(ctx context.Context, messageID string, status Status) (rec *MessageRecord, applied bool, err error)

	// FindByWaID returns the conversation's records ascending by timestamp,
	// ties broken by insertion order.
	FindByWaID(ctx context.Context, waID string) ([]MessageRecord, error)

	// MarkAllRead sets every inbound non-read record of the conversation to
	// read and reports how many records were mutated.
	MarkAllRead(ctx context.Context, waID string) (int64, error)

	// ListConversations derives per-contact summaries, ordered descending by
	// the timestamp of each conversation's latest message.
	ListConversations(ctx context.Context) ([]ConversationSummary, error)
}

type MongoRepository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		collection: db.Collection(constants.MessagesCollection),
	}
}

func (r *MongoRepository) Create(ctx context.Context, record *MessageRecord) (*MessageRecord, bool, error) {
	start := time.Now()
	defer func() { metrics.ObserveQueryDuration(time.Since(start), "create") }()

	now := time.Now().UTC()
	stored := *record
	stored.CreatedAt = now
	stored.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, stored)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			existing, findErr := r.FindByID(ctx, record.MessageID)
			if findErr != nil {
				return nil, false, findErr
			}
			if existing == nil {
				return nil, false, pkgerrors.ErrStorage.WithCause(err).
					WithDetail("message", "duplicate insert but existing record not found")
			}
			return existing, false, nil
		}
		return nil, false, pkgerrors.ErrStorage.WithCause(err)
	}

	return &stored, true, nil
}

func (r *MongoRepository) FindByID(ctx context.Context, messageID string) (*MessageRecord, error) {
	start := time.Now()
	defer func() { metrics.ObserveQueryDuration(time.Since(start), "find_by_id") }()

	var record MessageRecord
	err := r.collection.FindOne(ctx, bson.M{"messageId": messageID}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.ErrStorage.WithCause(err)
	}

	return &record, nil
}

func (r *MongoRepository) UpdateStatus(ctx context.Context, messageID string, status Status) (*MessageRecord, bool, error) {
	start := time.Now()
	defer func() { metrics.ObserveQueryDuration(time.Since(start), "update_status") }()

	predecessors := status.predecessors()
	if len(predecessors) == 0 {
		// No status precedes this one; nothing to transition.
		record, err := r.FindByID(ctx, messageID)
		return record, false, err
	}

	filter := bson.M{
		"messageId": messageID,
		"status":    bson.M{"$in": predecessors},
	}
	update := bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var record MessageRecord
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Either the message is unknown or the stored status already
		// supersedes the requested one.
		existing, findErr := r.FindByID(ctx, messageID)
		return existing, false, findErr
	}
	if err != nil {
		return nil, false, pkgerrors.ErrStorage.WithCause(err)
	}

	return &record, true, nil
}

func (r *MongoRepository) FindByWaID(ctx context.Context, waID string) ([]MessageRecord, error) {
	start := time.Now()
	defer func() { metrics.ObserveQueryDuration(time.Since(start), "find_by_wa_id") }()

	opts := options.Find().SetSort(bson.D{
		{Key: "timestamp", Value: 1},
		{Key: "createdAt", Value: 1},
		{Key: "_id", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, bson.M{"waId": waID}, opts)
	if err != nil {
		return nil, pkgerrors.ErrStorage.WithCause(err)
	}
	defer cursor.Close(ctx)

	var records []MessageRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, pkgerrors.ErrStorage.WithCause(err)
	}

	return records, nil
}

func (r *MongoRepository) MarkAllRead(ctx context.Context, waID string) (int64, error) {
	start := time.Now()
	defer func() { metrics.ObserveQueryDuration(time.Since(start), "mark_all_read") }()

	filter := bson.M{
		"waId":           waID,
		"isFromBusiness": false,
		"status":         bson.M{"$ne": StatusRead},
	}
	update := bson.M{"$set": bson.M{
		"status":    StatusRead,
		"updatedAt": time.Now().UTC(),
	}}

	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, pkgerrors.ErrStorage.WithCause(err)
	}

	return result.ModifiedCount, nil
}

func (r *MongoRepository) ListConversations(ctx context.Context) ([]ConversationSummary, error) {
	start := time.Now()
	defer func() { metrics.ObserveQueryDuration(time.Since(start), "list_conversations") }()

	cursor, err := r.collection.Aggregate(ctx, conversationPipeline())
	if err != nil {
		return nil, pkgerrors.ErrStorage.WithCause(err)
	}
	defer cursor.Close(ctx)

	var summaries []ConversationSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, pkgerrors.ErrStorage.WithCause(err)
	}

	return summaries, nil
}

// conversationPipeline groups the flat record set by waId. The leading sort
// fixes which record $first picks per group: highest timestamp wins, equal
// timestamps resolved by latest insertion (createdAt, then _id). Grouping must
// not assume insertion order equals timestamp order, so the sort is explicit.
func conversationPipeline() mongo.Pipeline {
	unreadCond := bson.D{{Key: "$cond", Value: bson.A{
		bson.D{{Key: "$and", Value: bson.A{
			bson.D{{Key: "$eq", Value: bson.A{"$isFromBusiness", false}}},
			bson.D{{Key: "$ne", Value: bson.A{"$status", StatusRead}}},
		}}},
		1,
		0,
	}}}

	return mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{
			{Key: "timestamp", Value: -1},
			{Key: "createdAt", Value: -1},
			{Key: "_id", Value: -1},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$waId"},
			{Key: "contactName", Value: bson.D{{Key: "$first", Value: "$contactName"}}},
			{Key: "lastMessage", Value: bson.D{{Key: "$first", Value: "$messageBody"}}},
			{Key: "lastTimestamp", Value: bson.D{{Key: "$first", Value: "$timestamp"}}},
			{Key: "unreadCount", Value: bson.D{{Key: "$sum", Value: unreadCond}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "waId", Value: "$_id"},
			{Key: "contactName", Value: 1},
			{Key: "lastMessage", Value: 1},
			{Key: "lastTimestamp", Value: 1},
			{Key: "unreadCount", Value: 1},
			{Key: "_id", Value: 0},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "lastTimestamp", Value: -1}}}},
	}
}
