package messaging

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wahub/internal/logger"
	pkgerrors "wahub/pkg/errors"
)

type Handler struct {
	service Service
	log     logger.Logger
}

func NewHandler(service Service, log logger.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes mounts the chat API under /api.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	messages := router.Group("/messages")
	{
		messages.POST("/webhook", h.IngestWebhook)
		messages.GET("/conversations", h.ListConversations)
		messages.GET("/conversations/:waId", h.GetConversation)
		messages.POST("/send", h.SendMessage)
		messages.PUT("/conversations/:waId/read", h.MarkRead)
	}
}

// IngestWebhook godoc
// @Summary Ingest a provider webhook payload
// @Description Accepts a webhook notification and applies it to the message store. Unusable payloads are acknowledged with outcome "ignored".
// @Tags messages
// @Accept json
// @Produce json
// @Param payload body WebhookPayload true "Webhook payload"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/messages/webhook [post]
func (h *Handler) IngestWebhook(c *gin.Context) {
	var payload WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.handleError(c, pkgerrors.ErrValidation.WithCause(err).
			WithDetail("message", "request body must be valid JSON"))
		return
	}

	result, err := h.service.Ingest(c.Request.Context(), &payload)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// ListConversations godoc
// @Summary List conversation summaries
// @Description Returns one summary per contact, ordered by most recent activity.
// @Tags conversations
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/messages/conversations [get]
func (h *Handler) ListConversations(c *gin.Context) {
	summaries, err := h.service.ListConversations(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    summaries,
	})
}

// GetConversation godoc
// @Summary Get a conversation's message history
// @Description Returns the contact's messages oldest first. Unknown contacts yield an empty list.
// @Tags conversations
// @Produce json
// @Param waId path string true "Contact WhatsApp ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/messages/conversations/{waId} [get]
func (h *Handler) GetConversation(c *gin.Context) {
	records, err := h.service.GetConversation(c.Request.Context(), c.Param("waId"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    records,
	})
}

// SendMessage godoc
// @Summary Send an outbound business message
// @Description Stores the message and broadcasts it to connected clients.
// @Tags messages
// @Accept json
// @Produce json
// @Param request body SendMessageRequest true "Outbound message"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/messages/send [post]
func (h *Handler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, pkgerrors.ErrValidation.WithCause(err).
			WithDetail("message", "waId and messageBody are required"))
		return
	}

	record, err := h.service.SendMessage(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    record,
	})
}

// MarkRead godoc
// @Summary Mark a conversation as read
// @Description Flags every inbound message of the conversation as read.
// @Tags conversations
// @Produce json
// @Param waId path string true "Contact WhatsApp ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/messages/conversations/{waId}/read [put]
func (h *Handler) MarkRead(c *gin.Context) {
	waID := c.Param("waId")

	updated, err := h.service.MarkRead(c.Request.Context(), waID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"waId":         waID,
			"updatedCount": updated,
		},
	})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	status := pkgerrors.ToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.log.ErrorwCtx(c.Request.Context(), "Request failed",
			"path", c.FullPath(),
			"error", err,
		)
	}
	c.JSON(status, pkgerrors.ToErrorResponse(err))
}
