package webhookhttp

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/synapse/server/internal/model"
	"github.com/synapse/server/internal/port/inbound"
)

// AdminHandler exposes audit log queries and replay.
type AdminHandler struct {
	domain inbound.WebhookDomain
}

// NewAdminHandler creates a new webhook admin handler.
func NewAdminHandler(domain inbound.WebhookDomain) *AdminHandler {
	return &AdminHandler{domain: domain}
}

// RegisterRoutes registers webhook admin routes.
func (h *AdminHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/integrations/:id/webhook-logs", h.ListLogs)
	r.POST("/webhook-logs/:id/replay", h.Replay)
}

// ListLogs handles GET /admin/integrations/:id/webhook-logs.
//
//	@Summary	List webhook audit rows
//	@Tags		Admin
//	@Produce	json
//	@Security	AdminToken
//	@Param		id		path		int		true	"Integration ID"
//	@Param		status	query		string	false	"PENDING|PROCESSING|SUCCESS|FAILED|IGNORED"
//	@Param		limit	query		int		false	"Max rows (1-100)"
//	@Success	200		{object}	model.ListResponse[model.WebhookLog]
//	@Failure	400		{object}	model.ErrorResponse
//	@Router		/admin/integrations/{id}/webhook-logs [get]
func (h *AdminHandler) ListLogs(c *gin.Context) {
	integrationID, ok := parseID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Code: "invalid_id", Message: "Invalid integration ID"})
		return
	}

	filter := model.WebhookLogFilter{IntegrationID: integrationID}
	if s := c.Query("status"); s != "" {
		status := model.WebhookLogStatus(strings.ToUpper(s))
		switch status {
		case model.WebhookLogStatusPending, model.WebhookLogStatusProcessing, model.WebhookLogStatusSuccess,
			model.WebhookLogStatusFailed, model.WebhookLogStatusIgnored:
			filter.Status = &status
		default:
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Code: "invalid_status", Message: "Invalid status filter"})
			return
		}
	}
	if s := c.Query("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Code: "invalid_limit", Message: "Invalid limit"})
			return
		}
		filter.Limit = limit
	}

	logs, err := h.domain.ListLogs(c.Request.Context(), filter)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewListResponse(logs))
}

// Replay handles POST /admin/webhook-logs/:id/replay.
//
//	@Summary	Replay an audited webhook
//	@Tags		Admin
//	@Produce	json
//	@Security	AdminToken
//	@Param		id	path		int	true	"Webhook log ID"
//	@Success	200	{object}	model.WebhookResult
//	@Failure	404	{object}	model.ErrorResponse
//	@Failure	409	{object}	model.ErrorResponse
//	@Router		/admin/webhook-logs/{id}/replay [post]
func (h *AdminHandler) Replay(c *gin.Context) {
	logID, ok := parseID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Code: "invalid_id", Message: "Invalid webhook log ID"})
		return
	}

	result, err := h.domain.Replay(c.Request.Context(), logID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Compile-time check
var _ inbound.WebhookAdminHttpPort = (*AdminHandler)(nil)
