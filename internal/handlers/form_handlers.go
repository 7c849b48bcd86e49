package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cyphera/address-relay/internal/address"
	"github.com/cyphera/address-relay/internal/form"
	"github.com/cyphera/address-relay/internal/webhook"

	"github.com/gin-gonic/gin"
)

// FormHandler exposes the form session over HTTP.
type FormHandler struct {
	session *form.Session
	store   webhook.Store
}

func NewFormHandler(session *form.Session, store webhook.Store) *FormHandler {
	return &FormHandler{
		session: session,
		store:   store,
	}
}

// SetFieldRequest is the body of an address edit.
type SetFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// ToggleResponse reports the selection state after a toggle.
type ToggleResponse struct {
	SubscriptionID string `json:"subscription_id"`
	Selected       bool   `json:"selected"`
}

// AddressResponse carries the edited address after a change.
type AddressResponse struct {
	SubscriptionID string          `json:"subscription_id"`
	Address        address.Address `json:"address"`
}

// Get handles GET /api/v1/form. The session is loaded from the latest stored
// webhook the first time data is available.
func (h *FormHandler) Get(c *gin.Context) {
	h.session.LoadFromStore(h.store)
	sendSuccess(c, http.StatusOK, h.session.Snapshot())
}

// Reset handles POST /api/v1/form/reset.
func (h *FormHandler) Reset(c *gin.Context) {
	h.session.Reset()
	sendSuccessMessage(c, http.StatusOK, "Form reset")
}

// Toggle handles POST /api/v1/form/subscriptions/:id/toggle.
func (h *FormHandler) Toggle(c *gin.Context) {
	id := c.Param("id")
	selected, err := h.session.Toggle(id)
	if err != nil {
		handleFormError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, ToggleResponse{SubscriptionID: id, Selected: selected})
}

// SetField handles PATCH /api/v1/form/subscriptions/:id/address.
func (h *FormHandler) SetField(c *gin.Context) {
	var req SetFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendClientError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	id := c.Param("id")
	addr, err := h.session.SetField(id, req.Field, req.Value)
	if err != nil {
		handleFormError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, AddressResponse{SubscriptionID: id, Address: addr})
}

// SelectSuggestion handles POST /api/v1/form/subscriptions/:id/suggestions/:index/select.
func (h *FormHandler) SelectSuggestion(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		sendClientError(c, http.StatusBadRequest, "Invalid suggestion index", err)
		return
	}

	id := c.Param("id")
	addr, err := h.session.SelectSuggestion(id, index)
	if err != nil {
		handleFormError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, AddressResponse{SubscriptionID: id, Address: addr})
}

// BlurSuggestions handles POST /api/v1/form/subscriptions/:id/suggestions/blur.
func (h *FormHandler) BlurSuggestions(c *gin.Context) {
	if err := h.session.BlurSuggestions(c.Param("id")); err != nil {
		handleFormError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

// Submit handles POST /api/v1/form/submit.
func (h *FormHandler) Submit(c *gin.Context) {
	result, err := h.session.Submit(c.Request.Context())
	if err != nil {
		handleFormError(c, err)
		return
	}

	status := http.StatusOK
	if result.Status == form.StatusRejected {
		status = http.StatusUnprocessableEntity
	}
	sendSuccess(c, status, result)
}

// handleFormError maps session errors to HTTP status codes.
func handleFormError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, form.ErrNotLoaded):
		sendClientError(c, http.StatusConflict, "No customer data has been received yet", err)
	case errors.Is(err, form.ErrUnknownSubscription):
		sendClientError(c, http.StatusNotFound, "Subscription not found", err)
	case errors.Is(err, form.ErrNotSelected):
		sendClientError(c, http.StatusConflict, "Subscription is not selected", err)
	case errors.Is(err, form.ErrUnknownField):
		sendClientError(c, http.StatusBadRequest, "Unknown address field", err)
	case errors.Is(err, form.ErrSuggestionIndex):
		sendClientError(c, http.StatusBadRequest, "Suggestion not found", err)
	default:
		sendError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
