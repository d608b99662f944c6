package integrationhttp

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/synapse/server/internal/domain/integration"
	"github.com/synapse/server/internal/model"
	"github.com/synapse/server/internal/port/inbound"
)

// Handler exposes integration administration and sales queries.
type Handler struct {
	integrations inbound.IntegrationDomain
	sales        inbound.SalesQueryDomain
}

// NewHandler creates a new integration handler.
func NewHandler(integrations inbound.IntegrationDomain, sales inbound.SalesQueryDomain) *Handler {
	return &Handler{integrations: integrations, sales: sales}
}

// RegisterRoutes registers integration admin routes.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/integrations", h.Create)
	r.GET("/integrations/:id", h.Get)
	r.PATCH("/integrations/:id/status", h.UpdateStatus)
	r.GET("/integrations/:id/revenue", h.Revenue)
	r.GET("/integrations/:id/sales", h.ListSales)
	r.GET("/users/:userId/integrations", h.ListByUser)
}

// Create handles POST /admin/integrations.
//
//	@Summary	Register an integration
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Security	AdminToken
//	@Param		request	body		model.CreateIntegrationRequest	true	"Integration"
//	@Success	201		{object}	model.Integration
//	@Failure	400		{object}	model.ErrorResponse
//	@Failure	409		{object}	model.ErrorResponse
//	@Router		/admin/integrations [post]
func (h *Handler) Create(c *gin.Context) {
	var req model.CreateIntegrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Code: "invalid_request", Message: err.Error()})
		return
	}

	created, err := h.integrations.Create(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Get handles GET /admin/integrations/:id.
//
//	@Summary	Get an integration
//	@Tags		Admin
//	@Produce	json
//	@Security	AdminToken
//	@Param		id	path		int	true	"Integration ID"
//	@Success	200	{object}	model.Integration
//	@Failure	404	{object}	model.ErrorResponse
//	@Router		/admin/integrations/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	found, err := h.integrations.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

// ListByUser handles GET /admin/users/:userId/integrations.
//
//	@Summary	List a user's integrations
//	@Tags		Admin
//	@Produce	json
//	@Security	AdminToken
//	@Param		userId	path		int	true	"User ID"
//	@Success	200		{object}	model.ListResponse[model.Integration]
//	@Router		/admin/users/{userId}/integrations [get]
func (h *Handler) ListByUser(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}
	list, err := h.integrations.ListByUser(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewListResponse(list))
}

// UpdateStatus handles PATCH /admin/integrations/:id/status.
//
//	@Summary	Change an integration status
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Security	AdminToken
//	@Param		id		path		int										true	"Integration ID"
//	@Param		request	body		model.UpdateIntegrationStatusRequest	true	"Status"
//	@Success	200		{object}	model.Integration
//	@Failure	400		{object}	model.ErrorResponse
//	@Failure	404		{object}	model.ErrorResponse
//	@Router		/admin/integrations/{id}/status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req model.UpdateIntegrationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Code: "invalid_request", Message: err.Error()})
		return
	}

	updated, err := h.integrations.UpdateStatus(c.Request.Context(), id, model.IntegrationStatus(req.Status))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Revenue handles GET /admin/integrations/:id/revenue.
//
//	@Summary	Confirmed revenue per currency
//	@Tags		Admin
//	@Produce	json
//	@Security	AdminToken
//	@Param		id	path		int	true	"Integration ID"
//	@Success	200	{object}	model.ListResponse[model.RevenueSummary]
//	@Failure	404	{object}	model.ErrorResponse
//	@Router		/admin/integrations/{id}/revenue [get]
func (h *Handler) Revenue(c *gin.Context) {
	id, ok := h.existingIntegration(c)
	if !ok {
		return
	}
	summaries, err := h.sales.Revenue(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewListResponse(summaries))
}

// ListSales handles GET /admin/integrations/:id/sales.
//
//	@Summary	List recent sales
//	@Tags		Admin
//	@Produce	json
//	@Security	AdminToken
//	@Param		id		path		int	true	"Integration ID"
//	@Param		limit	query		int	false	"Max rows (1-200)"
//	@Success	200		{object}	model.ListResponse[model.Sale]
//	@Failure	404		{object}	model.ErrorResponse
//	@Router		/admin/integrations/{id}/sales [get]
func (h *Handler) ListSales(c *gin.Context) {
	id, ok := h.existingIntegration(c)
	if !ok {
		return
	}
	limit := 0
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Code: "invalid_limit", Message: "Invalid limit"})
			return
		}
		limit = n
	}
	list, err := h.sales.ListSales(c.Request.Context(), id, limit)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewListResponse(list))
}

func (h *Handler) existingIntegration(c *gin.Context) (uint, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return 0, false
	}
	if _, err := h.integrations.Get(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return 0, false
	}
	return id, true
}

// parseID parses a positive path parameter, writing a 400 response on failure.
func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 0)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Code: "invalid_id", Message: "Invalid " + param})
		return 0, false
	}
	return uint(id), true
}

// handleError maps integration domain errors to HTTP responses.
func handleError(c *gin.Context, err error) {
	var statusCode int
	var errorCode string
	var message string

	switch {
	case errors.Is(err, integration.ErrIntegrationNotFound):
		statusCode = http.StatusNotFound
		errorCode = "integration_not_found"
		message = "Integration not found"

	case errors.Is(err, integration.ErrInvalidPlatform):
		statusCode = http.StatusBadRequest
		errorCode = "invalid_platform"
		message = "Platform must be KIWIFY, EDUZZ or HOTMART"

	case errors.Is(err, integration.ErrInvalidStatus):
		statusCode = http.StatusBadRequest
		errorCode = "invalid_status"
		message = "Invalid integration status"

	case errors.Is(err, integration.ErrIntegrationExists):
		statusCode = http.StatusConflict
		errorCode = "integration_exists"
		message = "User already has an integration for this platform"

	default:
		statusCode = http.StatusInternalServerError
		errorCode = "internal_error"
		message = "Internal server error"
	}

	c.JSON(statusCode, model.ErrorResponse{
		Code:    errorCode,
		Message: message,
	})
}

// Compile-time check
var _ inbound.IntegrationHttpPort = (*Handler)(nil)
