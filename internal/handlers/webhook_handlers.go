package handlers

import (
	"net/http"

	"github.com/cyphera/address-relay/internal/events"
	"github.com/cyphera/address-relay/internal/interfaces"
	"github.com/cyphera/address-relay/internal/logger"
	"github.com/cyphera/address-relay/internal/metrics"
	"github.com/cyphera/address-relay/internal/webhook"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookReceivedMessage acknowledges an accepted webhook.
const WebhookReceivedMessage = "Webhook data received successfully"

// WebhookResponse acknowledges an accepted webhook.
type WebhookResponse struct {
	Success            bool   `json:"success"`
	Message            string `json:"message"`
	SubscriptionsCount int    `json:"subscriptions_count"`
}

// WebhookDataResponse lists the stored webhook records.
type WebhookDataResponse struct {
	Data  []webhook.Record `json:"data"`
	Count int              `json:"count"`
}

// WebhookHandler accepts payloads from the automation platform and serves
// them back to the form.
type WebhookHandler struct {
	store     webhook.Store
	publisher interfaces.EventPublisher
	metrics   *metrics.Metrics
}

// NewWebhookHandler creates a webhook handler. publisher and m may be nil.
func NewWebhookHandler(store webhook.Store, publisher interfaces.EventPublisher, m *metrics.Metrics) *WebhookHandler {
	return &WebhookHandler{
		store:     store,
		publisher: publisher,
		metrics:   m,
	}
}

// Receive handles POST /webhook.
func (h *WebhookHandler) Receive(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.metrics.RecordWebhook("rejected")
		sendError(c, http.StatusBadRequest, "Failed to read request body", err)
		return
	}

	payload, err := webhook.Decode(body)
	if err != nil {
		h.metrics.RecordWebhook("rejected")
		sendClientError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	record := h.store.Put(payload)
	h.metrics.RecordWebhook("accepted")

	logger.Info("Webhook payload stored",
		zap.String("record_id", record.ID),
		zap.String("customer_name", payload.Name),
		zap.Int("subscriptions", len(payload.Subscriptions)),
	)

	if h.publisher != nil {
		if err := h.publisher.Publish(c.Request.Context(), events.SubjectWebhookReceived, record); err != nil {
			logger.Warn("Failed to publish webhook event",
				zap.String("record_id", record.ID),
				zap.Error(err),
			)
		}
	}

	sendSuccess(c, http.StatusOK, WebhookResponse{
		Success:            true,
		Message:            WebhookReceivedMessage,
		SubscriptionsCount: len(payload.Subscriptions),
	})
}

// List handles GET /api/webhook-data.
func (h *WebhookHandler) List(c *gin.Context) {
	records := h.store.List()
	sendSuccess(c, http.StatusOK, WebhookDataResponse{
		Data:  records,
		Count: len(records),
	})
}
