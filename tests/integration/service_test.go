package integration

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wahub/internal/events"
	"wahub/internal/messaging"
)

func setupService(t *testing.T, infra *TestInfra) messaging.Service {
	t.Helper()

	repo := setupRepository(t, infra.MongoDB)

	opts := []messaging.ServiceOption{
		messaging.WithBusinessNumber("918329446654"),
	}
	if infra.RedisClient != nil {
		opts = append(opts, messaging.WithSeenCache(messaging.NewRedisSeenCache(infra.RedisClient, 60)))
	}

	return messaging.NewService(repo, events.NopPublisher{}, createTestLogger(), opts...)
}

func webhookMessagePayload(messageID, waID string, timestamp int64) *messaging.WebhookPayload {
	return &messaging.WebhookPayload{
		MetaData: &messaging.WebhookMetaData{
			Entry: []messaging.WebhookEntry{{
				Changes: []messaging.WebhookChange{{
					Field: "messages",
					Value: messaging.WebhookValue{
						Metadata: &messaging.WebhookMetadata{DisplayPhoneNumber: "918329446654"},
						Contacts: []messaging.WebhookContact{{
							WaID:    waID,
							Profile: &messaging.WebhookProfile{Name: "Integration Contact"},
						}},
						Messages: []messaging.WebhookMessage{{
							ID:        messageID,
							From:      waID,
							Timestamp: strconv.FormatInt(timestamp, 10),
							Type:      "text",
							Text:      &messaging.WebhookText{Body: "integration hello"},
						}},
					},
				}},
			}},
		},
	}
}

func webhookStatusPayload(messageID string, status messaging.Status) *messaging.WebhookPayload {
	return &messaging.WebhookPayload{
		MetaData: &messaging.WebhookMetaData{
			Entry: []messaging.WebhookEntry{{
				Changes: []messaging.WebhookChange{{
					Field: "messages",
					Value: messaging.WebhookValue{
						Statuses: []messaging.WebhookStatus{{ID: messageID, Status: string(status)}},
					},
				}},
			}},
		},
	}
}

func TestService_IngestLifecycle(t *testing.T) {
	infra := SetupTestInfra(t)
	svc := setupService(t, infra)
	ctx := context.Background()

	created, err := svc.Ingest(ctx, webhookMessagePayload("wamid.life1", "919937320320", 1754400000))
	require.NoError(t, err)
	assert.Equal(t, messaging.OutcomeCreated, created.Outcome)

	duplicate, err := svc.Ingest(ctx, webhookMessagePayload("wamid.life1", "919937320320", 1754400000))
	require.NoError(t, err)
	assert.Equal(t, messaging.OutcomeDuplicate, duplicate.Outcome)

	delivered, err := svc.Ingest(ctx, webhookStatusPayload("wamid.life1", messaging.StatusDelivered))
	require.NoError(t, err)
	assert.Equal(t, messaging.OutcomeStatusUpdated, delivered.Outcome)

	read, err := svc.Ingest(ctx, webhookStatusPayload("wamid.life1", messaging.StatusRead))
	require.NoError(t, err)
	assert.Equal(t, messaging.OutcomeStatusUpdated, read.Outcome)

	stale, err := svc.Ingest(ctx, webhookStatusPayload("wamid.life1", messaging.StatusDelivered))
	require.NoError(t, err)
	assert.Equal(t, messaging.OutcomeStatusStale, stale.Outcome)
	assert.Equal(t, messaging.StatusRead, stale.Record.Status)
}

func TestService_SendAndMarkRead(t *testing.T) {
	infra := SetupTestInfra(t)
	svc := setupService(t, infra)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, webhookMessagePayload("wamid.smr1", "919937320320", 1754400000))
	require.NoError(t, err)

	record, err := svc.SendMessage(ctx, &messaging.SendMessageRequest{
		WaID: "919937320320",
		Body: "reply from business",
	})
	require.NoError(t, err)
	assert.True(t, record.IsFromBusiness)
	assert.Equal(t, "Integration Contact", record.ContactName)

	updated, err := svc.MarkRead(ctx, "919937320320")
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	summaries, err := svc.ListConversations(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, int64(0), summaries[0].UnreadCount)
	assert.Equal(t, "reply from business", summaries[0].LastMessage)
}
