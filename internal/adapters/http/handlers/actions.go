package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/go-invocation-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/go-invocation-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/go-invocation-service/internal/app/invocation"
)

// Invoker runs locally registered actions.
type Invoker interface {
	Invoke(
		ctx context.Context,
		action string,
		params invocation.Params,
		meta invocation.Meta,
	) (any, *invocation.Context, error)
	Actions() []string
}

// ActionHandler exposes the dispatcher over HTTP.
type ActionHandler struct {
	invoker Invoker
}

// NewActionHandler creates a new action handler.
func NewActionHandler(invoker Invoker) *ActionHandler {
	return &ActionHandler{invoker: invoker}
}

// Invoke handles POST /api/v1/actions/:action.
// The inbound meta comes from the propagation headers; the body carries params.
// Once a context exists its RequestID and chain CorrelationID are returned as
// headers, on success and on failure.
//
// @Summary Invoke an action
// @Tags actions
// @Accept json
// @Produce json
// @Param action path string true "Action name"
// @Success 200 {object} dto.InvokeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 508 {object} dto.ErrorResponse
// @Router /api/v1/actions/{action} [post]
func (h *ActionHandler) Invoke(c *gin.Context) {
	var uri dto.ActionURI
	if err := dto.BindURIAndValidate(c, &uri); err != nil {
		dto.RespondWithValidationErrors(c, dto.ValidationErrors(err))
		return
	}

	var req dto.InvokeRequest
	if err := dto.BindAndValidate(c, &req); err != nil && !errors.Is(err, io.EOF) {
		dto.RespondWithErrorCode(c, dto.ErrorCodeBadRequest, "request body must be {\"params\": {...}}")
		return
	}

	result, ic, err := h.invoker.Invoke(c.Request.Context(), uri.Action, req.Params, middleware.GetMeta(c))
	if ic != nil {
		c.Header(middleware.HeaderRequestID, ic.RequestID())
		c.Header(middleware.HeaderCorrelationID, ic.ChildMeta().String(invocation.KeyCorrelationID))
	}

	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.InvokeResponse{Result: result})
}

// List handles GET /api/v1/actions.
func (h *ActionHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ActionsResponse{Actions: h.invoker.Actions()})
}

// RegisterActionRoutes registers action routes on the given router group.
func (h *ActionHandler) RegisterActionRoutes(rg *gin.RouterGroup) {
	actions := rg.Group("/actions")
	actions.GET("", h.List)
	actions.POST("/:action", h.Invoke)
}
