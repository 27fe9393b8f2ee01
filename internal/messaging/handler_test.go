package messaging

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wahub/internal/logger"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *fakeRepository, *recordingPublisher) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newFakeRepository()
	pub := &recordingPublisher{}
	svc := newTestService(repo, pub)
	handler := NewHandler(svc, logger.NopLogger())

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api"))

	return router, repo, pub
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

const inboundWebhookJSON = `{
	"metaData": {
		"entry": [{
			"changes": [{
				"field": "messages",
				"value": {
					"metadata": {"display_phone_number": "918329446654"},
					"contacts": [{"wa_id": "919937320320", "profile": {"name": "Ravi Kumar"}}],
					"messages": [{
						"id": "wamid.http1",
						"from": "919937320320",
						"timestamp": "1754400000",
						"type": "text",
						"text": {"body": "Hello"}
					}]
				}
			}]
		}]
	}
}`

func TestWebhookEndpointCreatesMessage(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/messages/webhook", inboundWebhookJSON)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeEnvelope(t, w)
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "created", data["outcome"])

	record := data["record"].(map[string]interface{})
	assert.Equal(t, "wamid.http1", record["messageId"])
	assert.Equal(t, "919937320320", record["waId"])
}

func TestWebhookEndpointAcknowledgesUnusablePayload(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/messages/webhook", `{"metaData": {"entry": []}}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeEnvelope(t, w)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "ignored", data["outcome"])
}

func TestWebhookEndpointRejectsInvalidJSON(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/messages/webhook", `{not json`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeEnvelope(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "VALIDATION_ERROR", body["error_code"])
}

func TestConversationsEndpoint(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/messages/webhook", inboundWebhookJSON)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/messages/conversations", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeEnvelope(t, w)
	assert.Equal(t, true, body["success"])

	data := body["data"].([]interface{})
	require.Len(t, data, 1)

	summary := data[0].(map[string]interface{})
	assert.Equal(t, "919937320320", summary["waId"])
	assert.Equal(t, "Ravi Kumar", summary["contactName"])
	assert.Equal(t, "Hello", summary["lastMessage"])
	assert.Equal(t, float64(1), summary["unreadCount"])
}

func TestConversationsEndpointEmptyStore(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/messages/conversations", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeEnvelope(t, w)
	data, ok := body["data"].([]interface{})
	require.True(t, ok, "data must be a JSON array, not null")
	assert.Empty(t, data)
}

func TestConversationHistoryEndpoint(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/messages/webhook", inboundWebhookJSON)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/messages/conversations/919937320320", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeEnvelope(t, w)
	data := body["data"].([]interface{})
	require.Len(t, data, 1)

	record := data[0].(map[string]interface{})
	assert.Equal(t, "Hello", record["messageBody"])
}

func TestConversationHistoryUnknownContact(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/messages/conversations/nobody", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeEnvelope(t, w)
	data, ok := body["data"].([]interface{})
	require.True(t, ok)
	assert.Empty(t, data)
}

func TestSendEndpoint(t *testing.T) {
	router, _, pub := setupTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/messages/send",
		`{"waId": "919937320320", "messageBody": "Happy to help!", "contactName": "Ravi Kumar"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeEnvelope(t, w)
	assert.Equal(t, true, body["success"])

	record := body["data"].(map[string]interface{})
	assert.Equal(t, "919937320320", record["waId"])
	assert.Equal(t, "Happy to help!", record["messageBody"])
	assert.Equal(t, true, record["isFromBusiness"])
	assert.NotEmpty(t, record["messageId"])

	require.Len(t, pub.published(), 1)
}

func TestSendEndpointValidation(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "missing waId", body: `{"messageBody": "hi"}`},
		{name: "missing body", body: `{"waId": "919937320320"}`},
		{name: "empty object", body: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodPost, "/api/messages/send", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			body := decodeEnvelope(t, w)
			assert.Equal(t, false, body["success"])
		})
	}
}

func TestMarkReadEndpoint(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/messages/webhook", inboundWebhookJSON)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodPut, "/api/messages/conversations/919937320320/read", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeEnvelope(t, w)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "919937320320", data["waId"])
	assert.Equal(t, float64(1), data["updatedCount"])

	// Unread count drops to zero afterwards.
	w = doRequest(router, http.MethodGet, "/api/messages/conversations", "")
	require.Equal(t, http.StatusOK, w.Code)

	body = decodeEnvelope(t, w)
	summaries := body["data"].([]interface{})
	require.Len(t, summaries, 1)
	assert.Equal(t, float64(0), summaries[0].(map[string]interface{})["unreadCount"])
}

func TestMarkReadEndpointUnknownContact(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := doRequest(router, http.MethodPut, "/api/messages/conversations/nobody/read", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeEnvelope(t, w)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["updatedCount"])
}
