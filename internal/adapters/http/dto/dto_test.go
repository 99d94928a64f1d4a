package dto

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewErrorResponse(t *testing.T) {
	got := NewErrorResponse(ErrorCodeLoopDetected, "too deep")

	assert.Equal(t, &ErrorResponse{
		Error: ErrorDetail{Code: ErrorCodeLoopDetected, Message: "too deep"},
	}, got)
}

func TestNewErrorResponseWithDetails(t *testing.T) {
	details := map[string]string{"action": "this field is required"}

	got := NewErrorResponseWithDetails(ErrorCodeValidation, "validation failed", details)

	assert.Equal(t, ErrorCodeValidation, got.Error.Code)
	assert.Equal(t, details, got.Error.Details)
}

func TestWithTraceID(t *testing.T) {
	resp := NewErrorResponse(ErrorCodeInternal, "internal error")

	got := resp.WithTraceID("trace-123")

	assert.Same(t, resp, got)
	assert.Equal(t, "trace-123", got.TraceID)
}

func TestErrorResponse_JSON(t *testing.T) {
	data, err := json.Marshal(NewErrorResponse(ErrorCodeNotFound, "missing"))
	require.NoError(t, err)

	assert.JSONEq(t, `{"error":{"code":"NOT_FOUND","message":"missing"}}`, string(data))
}

func TestHTTPStatusFromCode(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeConflict, http.StatusConflict},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeBadRequest, http.StatusBadRequest},
		{ErrorCodeInvalidArgument, http.StatusBadRequest},
		{ErrorCodeForbidden, http.StatusForbidden},
		{ErrorCodeLoopDetected, http.StatusLoopDetected},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeTimeout, http.StatusGatewayTimeout},
		{ErrorCodeInternal, http.StatusInternalServerError},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusFromCode(tt.code))
		})
	}
}

func TestValidator_Singleton(t *testing.T) {
	assert.Same(t, Validator(), Validator())
}

func TestValidate_ActionURI(t *testing.T) {
	tests := []struct {
		name    string
		action  string
		wantErr bool
	}{
		{"single segment", "ping", false},
		{"dotted", "billing.charge", false},
		{"dashes and underscores", "billing-v2.charge_card", false},
		{"empty", "", true},
		{"leading dot", ".charge", true},
		{"trailing dot", "billing.", true},
		{"double dot", "billing..charge", true},
		{"slash", "billing/charge", true},
		{"space", "billing charge", true},
		{"too long", strings.Repeat("a", 257), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&ActionURI{Action: tt.action})

			if tt.wantErr {
				require.ErrorIs(t, err, ErrValidation)
				assert.Contains(t, ValidationErrors(err), "action")

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestBindAndValidate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantErr    error
		wantParams map[string]any
	}{
		{
			name:       "params object",
			body:       `{"params":{"amount":10}}`,
			wantParams: map[string]any{"amount": float64(10)},
		},
		{
			name: "no params",
			body: `{}`,
		},
		{
			name:    "malformed json",
			body:    `{"params":`,
			wantErr: ErrBinding,
		},
		{
			name:    "params not an object",
			body:    `{"params":[1,2]}`,
			wantErr: ErrBinding,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var req InvokeRequest
			err := BindAndValidate(c, &req)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantParams, req.Params)
		})
	}
}

func TestBindURIAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		action  string
		wantErr bool
	}{
		{"valid", "billing.charge", false},
		{"invalid", "billing..charge", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Params = gin.Params{{Key: "action", Value: tt.action}}

			var uri ActionURI
			err := BindURIAndValidate(c, &uri)

			if tt.wantErr {
				require.ErrorIs(t, err, ErrValidation)
				assert.True(t, IsValidationError(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.action, uri.Action)
		})
	}
}

func TestValidationErrors_Messages(t *testing.T) {
	err := Validate(&ActionURI{})

	assert.Equal(t, map[string]string{"action": "this field is required"}, ValidationErrors(err))
}

func TestValidationErrors_NonValidatorError(t *testing.T) {
	assert.Empty(t, ValidationErrors(ErrBinding))
	assert.False(t, IsValidationError(ErrBinding))
}

func TestMinMaxMessage(t *testing.T) {
	err := Validate(&ActionURI{Action: strings.Repeat("a", 257)})

	assert.Equal(t, "must be at most 256 characters", ValidationErrors(err)["action"])
}

func TestValidateNotEmpty(t *testing.T) {
	type note struct {
		Text string `json:"text" validate:"notempty"`
	}

	require.NoError(t, Validate(&note{Text: "hi"}))

	err := Validate(&note{Text: "   "})
	require.Error(t, err)
	assert.Equal(t, "must not be empty", ValidationErrors(err)["text"])
}

func TestValidationMessageUnknownTag(t *testing.T) {
	type code struct {
		Value string `json:"value" validate:"alpha"`
	}

	err := Validate(&code{Value: "123"})

	assert.Equal(t, "failed validation: alpha", ValidationErrors(err)["value"])
}
