package messaging

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodePayload(t *testing.T, raw string) *WebhookPayload {
	t.Helper()
	var payload WebhookPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))
	return &payload
}

func TestNormalizeInboundMessage(t *testing.T) {
	payload := decodePayload(t, `{
		"metaData": {
			"entry": [{
				"changes": [{
					"field": "messages",
					"value": {
						"metadata": {"display_phone_number": "918329446654"},
						"contacts": [{"wa_id": "919937320320", "profile": {"name": "Ravi Kumar"}}],
						"messages": [{
							"id": "wamid.HBgMOTE5OTM3MzIwMzIw",
							"from": "919937320320",
							"timestamp": "1754400000",
							"type": "text",
							"text": {"body": "Hi, I'd like to know more about your services."}
						}]
					}
				}]
			}]
		}
	}`)

	event := Normalize(payload)
	require.NotNil(t, event)

	msg, ok := event.(NewMessageEvent)
	require.True(t, ok)

	assert.Equal(t, "wamid.HBgMOTE5OTM3MzIwMzIw", msg.Record.MessageID)
	assert.Equal(t, "919937320320", msg.Record.WaID)
	assert.Equal(t, "Ravi Kumar", msg.Record.ContactName)
	assert.Equal(t, "919937320320", msg.Record.From)
	assert.Equal(t, "918329446654", msg.Record.To)
	assert.Equal(t, "Hi, I'd like to know more about your services.", msg.Record.Body)
	assert.Equal(t, "text", msg.Record.MessageType)
	assert.Equal(t, int64(1754400000), msg.Record.Timestamp)
	assert.Equal(t, StatusSent, msg.Record.Status)
	assert.False(t, msg.Record.IsFromBusiness)
}

func TestNormalizeOutboundMessage(t *testing.T) {
	payload := decodePayload(t, `{
		"metaData": {
			"entry": [{
				"changes": [{
					"field": "messages",
					"value": {
						"metadata": {"display_phone_number": "918329446654"},
						"contacts": [{"wa_id": "919937320320", "profile": {"name": "Ravi Kumar"}}],
						"messages": [{
							"id": "wamid.outbound1",
							"from": "918329446654",
							"timestamp": "1754400060",
							"type": "text",
							"text": {"body": "Happy to help!"}
						}]
					}
				}]
			}]
		}
	}`)

	event := Normalize(payload)
	require.NotNil(t, event)

	msg, ok := event.(NewMessageEvent)
	require.True(t, ok)
	assert.True(t, msg.Record.IsFromBusiness)
	assert.Equal(t, "919937320320", msg.Record.WaID)
}

func TestNormalizeStatusUpdate(t *testing.T) {
	payload := decodePayload(t, `{
		"metaData": {
			"entry": [{
				"changes": [{
					"field": "messages",
					"value": {
						"statuses": [{"id": "wamid.abc", "status": "delivered"}]
					}
				}]
			}]
		}
	}`)

	event := Normalize(payload)
	require.NotNil(t, event)

	update, ok := event.(StatusUpdateEvent)
	require.True(t, ok)
	assert.Equal(t, "wamid.abc", update.MessageID)
	assert.Equal(t, StatusDelivered, update.Status)
}

func TestNormalizeStatusTakesPrecedenceOverMessages(t *testing.T) {
	payload := decodePayload(t, `{
		"metaData": {
			"entry": [{
				"changes": [{
					"field": "messages",
					"value": {
						"contacts": [{"wa_id": "919937320320"}],
						"messages": [{"id": "wamid.msg", "from": "919937320320", "timestamp": "1754400000"}],
						"statuses": [{"id": "wamid.other", "status": "read"}]
					}
				}]
			}]
		}
	}`)

	event := Normalize(payload)
	require.NotNil(t, event)
	_, ok := event.(StatusUpdateEvent)
	assert.True(t, ok)
}

func TestNormalizeDefaults(t *testing.T) {
	payload := decodePayload(t, `{
		"metaData": {
			"entry": [{
				"changes": [{
					"field": "messages",
					"value": {
						"contacts": [{"wa_id": "919937320320"}],
						"messages": [{
							"id": "wamid.bare",
							"from": "919937320320",
							"timestamp": "1754400000"
						}]
					}
				}]
			}]
		}
	}`)

	event := Normalize(payload)
	require.NotNil(t, event)

	msg, ok := event.(NewMessageEvent)
	require.True(t, ok)
	assert.Equal(t, "Unknown", msg.Record.ContactName)
	assert.Equal(t, "text", msg.Record.MessageType)
	assert.Equal(t, "", msg.Record.Body)
	assert.False(t, msg.Record.IsFromBusiness)
}

func TestNormalizeMalformedPayloads(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "empty object",
			raw:  `{}`,
		},
		{
			name: "no entries",
			raw:  `{"metaData": {"entry": []}}`,
		},
		{
			name: "no changes",
			raw:  `{"metaData": {"entry": [{"changes": []}]}}`,
		},
		{
			name: "wrong field",
			raw: `{"metaData": {"entry": [{"changes": [{
				"field": "account_update",
				"value": {"messages": [{"id": "wamid.x", "from": "1", "timestamp": "1"}]}
			}]}]}}`,
		},
		{
			name: "empty value",
			raw:  `{"metaData": {"entry": [{"changes": [{"field": "messages", "value": {}}]}]}}`,
		},
		{
			name: "message without id",
			raw: `{"metaData": {"entry": [{"changes": [{
				"field": "messages",
				"value": {
					"contacts": [{"wa_id": "919937320320"}],
					"messages": [{"from": "919937320320", "timestamp": "1754400000"}]
				}
			}]}]}}`,
		},
		{
			name: "message without contact",
			raw: `{"metaData": {"entry": [{"changes": [{
				"field": "messages",
				"value": {
					"messages": [{"id": "wamid.x", "from": "919937320320", "timestamp": "1754400000"}]
				}
			}]}]}}`,
		},
		{
			name: "unparseable timestamp",
			raw: `{"metaData": {"entry": [{"changes": [{
				"field": "messages",
				"value": {
					"contacts": [{"wa_id": "919937320320"}],
					"messages": [{"id": "wamid.x", "from": "919937320320", "timestamp": "not-a-number"}]
				}
			}]}]}}`,
		},
		{
			name: "status without id",
			raw: `{"metaData": {"entry": [{"changes": [{
				"field": "messages",
				"value": {"statuses": [{"status": "delivered"}]}
			}]}]}}`,
		},
		{
			name: "status with unknown value",
			raw: `{"metaData": {"entry": [{"changes": [{
				"field": "messages",
				"value": {"statuses": [{"id": "wamid.x", "status": "rejected"}]}
			}]}]}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, Normalize(decodePayload(t, tt.raw)))
		})
	}

	t.Run("nil payload", func(t *testing.T) {
		assert.Nil(t, Normalize(nil))
	})
}

func TestNormalizeOnlyFirstElementsConsidered(t *testing.T) {
	payload := decodePayload(t, `{
		"metaData": {
			"entry": [{
				"changes": [{
					"field": "messages",
					"value": {
						"contacts": [
							{"wa_id": "first", "profile": {"name": "First"}},
							{"wa_id": "second", "profile": {"name": "Second"}}
						],
						"messages": [
							{"id": "wamid.first", "from": "first", "timestamp": "100"},
							{"id": "wamid.second", "from": "second", "timestamp": "200"}
						]
					}
				}]
			}]
		}
	}`)

	event := Normalize(payload)
	require.NotNil(t, event)

	msg, ok := event.(NewMessageEvent)
	require.True(t, ok)
	assert.Equal(t, "wamid.first", msg.Record.MessageID)
	assert.Equal(t, "first", msg.Record.WaID)
}

func TestStatusSupersedes(t *testing.T) {
	assert.True(t, StatusDelivered.Supersedes(StatusSent))
	assert.True(t, StatusRead.Supersedes(StatusSent))
	assert.True(t, StatusRead.Supersedes(StatusDelivered))

	assert.False(t, StatusSent.Supersedes(StatusSent))
	assert.False(t, StatusSent.Supersedes(StatusDelivered))
	assert.False(t, StatusDelivered.Supersedes(StatusRead))
	assert.False(t, StatusDelivered.Supersedes(StatusDelivered))
}
