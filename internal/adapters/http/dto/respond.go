package dto

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/go-invocation-service/internal/domain"
	"github.com/jsamuelsen/go-invocation-service/internal/platform/logging"
)

// ContextKeyTraceID is the gin.Context key checked when no span is active.
const ContextKeyTraceID = "trace_id"

// Detail keys of a LOOP_DETECTED response.
const (
	DetailAction   = "action"
	DetailLevel    = "level"
	DetailMaxLevel = "max_level"
)

// MapDomainError maps a domain error to an HTTP status code and error response.
// Unknown errors are mapped to 500 Internal Server Error with a generic message.
func MapDomainError(err error) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	switch {
	case domain.IsCallDepthExceeded(err):
		resp := NewErrorResponse(ErrorCodeLoopDetected, err.Error())

		var depth *domain.CallDepthExceededError
		if errors.As(err, &depth) {
			resp.Error.Details = map[string]string{
				DetailAction:   depth.Action,
				DetailLevel:    strconv.Itoa(depth.Level),
				DetailMaxLevel: strconv.Itoa(depth.MaxLevel),
			}
		}

		return http.StatusLoopDetected, resp

	case domain.IsInvalidArgument(err):
		resp := NewErrorResponse(ErrorCodeInvalidArgument, err.Error())

		var invalid *domain.InvalidArgumentError
		if errors.As(err, &invalid) && invalid.Reason != "" {
			resp.Error.Details = map[string]string{invalid.Argument: invalid.Reason}
		}

		return http.StatusBadRequest, resp

	case domain.IsNotFound(err):
		return http.StatusNotFound, NewErrorResponse(ErrorCodeNotFound, err.Error())

	case domain.IsConflict(err):
		return http.StatusConflict, NewErrorResponse(ErrorCodeConflict, err.Error())

	case domain.IsValidation(err):
		resp := NewErrorResponse(ErrorCodeValidation, err.Error())

		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) && validationErr.Field != "" {
			resp.Error.Details = map[string]string{validationErr.Field: validationErr.Message}
		}

		return http.StatusBadRequest, resp

	case domain.IsForbidden(err):
		return http.StatusForbidden, NewErrorResponse(ErrorCodeForbidden, err.Error())

	case domain.IsUnavailable(err):
		return http.StatusServiceUnavailable, NewErrorResponse(ErrorCodeUnavailable, err.Error())

	default:
		// Unknown errors get a generic message to avoid leaking internals
		return http.StatusInternalServerError, NewErrorResponse(ErrorCodeInternal, "an internal error occurred")
	}
}

// GetTraceID returns the active span's trace ID, falling back to the
// ContextKeyTraceID value. Returns "" when neither is set.
func GetTraceID(c *gin.Context) string {
	if c.Request != nil {
		if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
			return span.SpanContext().TraceID().String()
		}
	}

	if v, exists := c.Get(ContextKeyTraceID); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}

	return ""
}

// HandleError writes the mapped error response for err.
// Internal errors are logged with full details since the response hides them.
func HandleError(c *gin.Context, err error) {
	status, resp := MapDomainError(err)
	resp.TraceID = GetTraceID(c)

	if status == http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).Error("internal error",
			slog.String("error", err.Error()),
			slog.String("trace_id", resp.TraceID),
		)
	}

	c.JSON(status, resp)
}

// RespondWithErrorCode writes an error response with a specific error code.
// Use this for adapter-level errors that don't originate from domain errors.
func RespondWithErrorCode(c *gin.Context, code, message string) {
	c.JSON(HTTPStatusFromCode(code), NewErrorResponse(code, message).WithTraceID(GetTraceID(c)))
}

// RespondWithValidationErrors writes a 400 response with field-level validation errors.
func RespondWithValidationErrors(c *gin.Context, fieldErrors map[string]string) {
	c.JSON(http.StatusBadRequest,
		NewErrorResponseWithDetails(ErrorCodeValidation, "request validation failed", fieldErrors).
			WithTraceID(GetTraceID(c)))
}
