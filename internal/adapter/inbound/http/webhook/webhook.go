package webhookhttp

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/synapse/server/internal/domain/webhook"
	"github.com/synapse/server/internal/model"
	"github.com/synapse/server/internal/port/inbound"
)

// WebhookHandler handles inbound platform webhooks.
type WebhookHandler struct {
	domain       inbound.WebhookDomain
	maxBodyBytes int64
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(domain inbound.WebhookDomain, maxBodyBytes int64) *WebhookHandler {
	return &WebhookHandler{domain: domain, maxBodyBytes: maxBodyBytes}
}

// RegisterRoutes registers webhook routes.
func (h *WebhookHandler) RegisterRoutes(r gin.IRouter) {
	r.POST("/webhooks/:integrationId", h.Receive)
}

// Receive handles POST /webhooks/:integrationId.
//
//	@Summary		Receive a platform webhook
//	@Description	Verifies, classifies and applies a Kiwify, Eduzz or Hotmart sale notification.
//	@Tags			Webhooks
//	@Accept			json
//	@Produce		json
//	@Param			integrationId		path		int		true	"Integration ID"
//	@Param			x-kiwify-signature	header		string	false	"Kiwify HMAC-SHA256 hex digest"
//	@Param			x-hotmart-hottok	header		string	false	"Hotmart hottok"
//	@Param			x-signature			header		string	false	"Generic signature"
//	@Success		200					{object}	model.WebhookResult
//	@Failure		404					{object}	model.WebhookResult
//	@Router			/webhooks/{integrationId} [post]
func (h *WebhookHandler) Receive(c *gin.Context) {
	receivedAt := time.Now()

	integrationID, ok := parseID(c.Param("integrationId"))
	if !ok {
		c.JSON(http.StatusNotFound, model.WebhookResult{
			Success: false,
			Message: webhook.MsgIntegrationNotFound,
			Error:   "invalid integration id",
		})
		return
	}

	// A failed read still goes through dispatch so the attempt is audited.
	body, err := readBody(c.Request.Body, h.maxBodyBytes)
	if err != nil {
		_ = c.Error(err)
	}

	result := h.domain.Dispatch(c.Request.Context(), &model.WebhookRequest{
		IntegrationID: integrationID,
		Body:          body,
		Credential:    extractCredential(c.Request.Header, body),
		ReceivedAt:    receivedAt,
	})

	status := http.StatusOK
	if result.NotFound() {
		status = http.StatusNotFound
	}
	c.JSON(status, result)
}

// Compile-time check
var _ inbound.WebhookHttpPort = (*WebhookHandler)(nil)
