package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/go-invocation-service/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
		expectedDetail map[string]string
	}{
		{
			name:           "nil error returns 200",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "call depth exceeded returns 508",
			err:            domain.NewCallDepthExceededError("system.relay", 33, 32),
			expectedStatus: http.StatusLoopDetected,
			expectedCode:   ErrorCodeLoopDetected,
			expectedDetail: map[string]string{"action": "system.relay", "level": "33", "max_level": "32"},
		},
		{
			name:           "wrapped call depth exceeded returns 508",
			err:            fmt.Errorf("calling ledger.append: %w", domain.NewCallDepthExceededError("a", 3, 2)),
			expectedStatus: http.StatusLoopDetected,
			expectedCode:   ErrorCodeLoopDetected,
			expectedDetail: map[string]string{"action": "a", "level": "3", "max_level": "2"},
		},
		{
			name:           "invalid argument returns 400",
			err:            domain.NewInvalidArgumentError("meta.level", "must not be negative"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrorCodeInvalidArgument,
			expectedDetail: map[string]string{"meta.level": "must not be negative"},
		},
		{
			name:           "not found returns 404",
			err:            domain.NewNotFoundError("action", "billing.void"),
			expectedStatus: http.StatusNotFound,
			expectedCode:   ErrorCodeNotFound,
		},
		{
			name:           "conflict returns 409",
			err:            domain.NewConflictError("action", "already registered"),
			expectedStatus: http.StatusConflict,
			expectedCode:   ErrorCodeConflict,
		},
		{
			name:           "validation returns 400 with field",
			err:            domain.NewValidationError("action", "is required"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrorCodeValidation,
			expectedDetail: map[string]string{"action": "is required"},
		},
		{
			name:           "validation without field has no details",
			err:            domain.NewValidationError("", "bad input"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrorCodeValidation,
		},
		{
			name:           "forbidden returns 403",
			err:            domain.NewForbiddenError("relay", "not allowed"),
			expectedStatus: http.StatusForbidden,
			expectedCode:   ErrorCodeForbidden,
		},
		{
			name:           "unavailable returns 503",
			err:            domain.NewUnavailableError("ledger", "connection refused"),
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   ErrorCodeUnavailable,
		},
		{
			name:           "unknown error returns 500",
			err:            errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   ErrorCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := MapDomainError(tt.err)

			assert.Equal(t, tt.expectedStatus, status)

			if tt.err == nil {
				assert.Nil(t, resp)
				return
			}

			require.NotNil(t, resp)
			assert.Equal(t, tt.expectedCode, resp.Error.Code)
			assert.Equal(t, tt.expectedDetail, resp.Error.Details)
		})
	}
}

func TestMapDomainError_HidesInternalMessage(t *testing.T) {
	_, resp := MapDomainError(errors.New("dial tcp 10.0.0.1:5432: refused"))

	assert.Equal(t, "an internal error occurred", resp.Error.Message)
}

func TestGetTraceID(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*gin.Context)
		want  string
	}{
		{
			name:  "trace ID in context",
			setup: func(c *gin.Context) { c.Set(ContextKeyTraceID, "trace-123") },
			want:  "trace-123",
		},
		{
			name:  "wrong type",
			setup: func(c *gin.Context) { c.Set(ContextKeyTraceID, 12345) },
		},
		{
			name:  "absent",
			setup: func(*gin.Context) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			tt.setup(c)

			assert.Equal(t, tt.want, GetTraceID(c))
		})
	}
}

func TestHandleError(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	c.Set(ContextKeyTraceID, "trace-1")

	HandleError(c, domain.NewCallDepthExceededError("system.relay", 9, 8))

	assert.Equal(t, http.StatusLoopDetected, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ErrorCodeLoopDetected, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "system.relay")
	assert.Equal(t, "trace-1", resp.TraceID)
}

func TestRespondWithErrorCode(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	RespondWithErrorCode(c, ErrorCodeBadRequest, "body must be JSON")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ErrorCodeBadRequest, resp.Error.Code)
	assert.Equal(t, "body must be JSON", resp.Error.Message)
}

func TestRespondWithValidationErrors(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	RespondWithValidationErrors(c, map[string]string{"action": "this field is required"})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ErrorCodeValidation, resp.Error.Code)
	assert.Equal(t, "this field is required", resp.Error.Details["action"])
}
