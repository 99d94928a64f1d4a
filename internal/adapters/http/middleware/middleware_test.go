package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/go-invocation-service/internal/app/invocation"
	"github.com/jsamuelsen/go-invocation-service/internal/platform/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPropagation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		headers  map[string]string
		expected invocation.Meta
	}{
		{
			name:     "no headers starts a new chain",
			expected: invocation.Meta{},
		},
		{
			name: "all headers",
			headers: map[string]string{
				HeaderCorrelationID:  "corr-1",
				HeaderFromService:    "ledger",
				HeaderFromInstanceID: "ledger-0",
				HeaderCallLevel:      "2",
			},
			expected: invocation.Meta{
				invocation.KeyCorrelationID:  "corr-1",
				invocation.KeyFrom:           "ledger",
				invocation.KeyFromInstanceID: "ledger-0",
				invocation.KeyLevel:          "2",
			},
		},
		{
			name:     "partial headers",
			headers:  map[string]string{HeaderFromService: "ledger"},
			expected: invocation.Meta{invocation.KeyFrom: "ledger"},
		},
		{
			name:     "request id header is not meta",
			headers:  map[string]string{HeaderRequestID: "req-upstream"},
			expected: invocation.Meta{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var (
				fromGin invocation.Meta
				fromCtx invocation.Meta
			)

			router := gin.New()
			router.Use(Propagation(discardLogger()))
			router.GET("/test", func(c *gin.Context) {
				fromGin = GetMeta(c)
				fromCtx = MetaFromContext(c.Request.Context())
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.expected, fromGin)
			assert.Equal(t, tt.expected, fromCtx)
			assert.Empty(t, w.Header().Get(HeaderCorrelationID), "correlation id must never be generated")
		})
	}
}

func TestPropagation_EnrichesLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	router := gin.New()
	router.Use(Propagation(logger))
	router.GET("/test", func(c *gin.Context) {
		logging.FromContext(c.Request.Context()).Info("handling")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(HeaderCorrelationID, "corr-1")
	req.Header.Set(HeaderFromService, "ledger")

	router.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "corr-1", entry["correlation_id"])
	assert.Equal(t, "ledger", entry["from"])
}

func TestGetMeta_Absent(t *testing.T) {
	t.Parallel()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Equal(t, invocation.Meta{}, GetMeta(c))
}

func TestMetaFromContext(t *testing.T) {
	t.Parallel()

	//nolint:staticcheck // nil context is the case under test
	assert.Nil(t, MetaFromContext(nil))
	assert.Nil(t, MetaFromContext(context.Background()))

	meta := invocation.Meta{invocation.KeyFrom: "ledger"}
	assert.Equal(t, meta, MetaFromContext(ContextWithMeta(context.Background(), meta)))
}

func TestLogging(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		path      string
		skip      []string
		status    int
		wantLog   bool
		wantLevel string
	}{
		{"logs api request", "/api/v1/actions", nil, http.StatusOK, true, "INFO"},
		{"warns on client error", "/api/v1/actions", nil, http.StatusBadRequest, true, "WARN"},
		{"errors on server error", "/api/v1/actions", nil, http.StatusInternalServerError, true, "ERROR"},
		{"skips health", "/-/live", nil, http.StatusOK, false, ""},
		{"skips configured path", "/api/v1/actions", []string{"/api/v1/actions"}, http.StatusOK, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			router := gin.New()
			router.Use(Propagation(logger), Logging(tt.skip...))
			router.GET(tt.path, func(c *gin.Context) {
				c.Status(tt.status)
			})

			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))

			if !tt.wantLog {
				assert.Empty(t, buf.String())
				return
			}

			assert.Contains(t, buf.String(), "request started")
			assert.Contains(t, buf.String(), "request completed")
			assert.Contains(t, buf.String(), `"level":"`+tt.wantLevel+`"`)
		})
	}
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	router := gin.New()
	router.Use(Recovery())
	router.GET("/panic", func(*gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL_ERROR", body["error"]["code"])
}

func TestRecovery_NoPanic(t *testing.T) {
	t.Parallel()

	router := gin.New()
	router.Use(Recovery())
	router.GET("/ok", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestTimeout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		handler  gin.HandlerFunc
		wantCode int
	}{
		{
			name: "fast handler",
			handler: func(c *gin.Context) {
				c.Status(http.StatusOK)
			},
			wantCode: http.StatusOK,
		},
		{
			name: "handler honoring deadline",
			handler: func(c *gin.Context) {
				<-c.Request.Context().Done()
			},
			wantCode: http.StatusServiceUnavailable,
		},
		{
			name: "handler that already wrote",
			handler: func(c *gin.Context) {
				<-c.Request.Context().Done()
				c.String(http.StatusGatewayTimeout, "late")
			},
			wantCode: http.StatusGatewayTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := gin.New()
			router.Use(Timeout(20 * time.Millisecond))
			router.GET("/test", tt.handler)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestTimeout_SetsDeadline(t *testing.T) {
	t.Parallel()

	var hasDeadline bool

	router := gin.New()
	router.Use(Timeout(time.Second))
	router.GET("/test", func(c *gin.Context) {
		_, hasDeadline = c.Request.Context().Deadline()
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.True(t, hasDeadline)
}
