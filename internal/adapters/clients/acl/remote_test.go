package acl

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/go-invocation-service/internal/adapters/clients"
	"github.com/jsamuelsen/go-invocation-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/go-invocation-service/internal/app/invocation"
	"github.com/jsamuelsen/go-invocation-service/internal/domain"
	"github.com/jsamuelsen/go-invocation-service/internal/platform/config"
)

// newAdapter creates a BaseAdapter for name backed by a test HTTP server.
func newAdapter(t *testing.T, name string, handler http.HandlerFunc) BaseAdapter {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := clients.New(&clients.Config{
		ServiceName: name,
		BaseURL:     server.URL,
		Timeout:     5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     100 * time.Millisecond,
			Multiplier:      2.0,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   10,
			Timeout:       30 * time.Second,
			HalfOpenLimit: 3,
		},
		Logger: discardLogger(),
	})
	require.NoError(t, err)

	return NewBaseAdapter(client, name)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestNewRemoteService_Duplicate(t *testing.T) {
	noop := func(http.ResponseWriter, *http.Request) {}

	_, err := NewRemoteService(discardLogger(),
		newAdapter(t, "ledger", noop),
		newAdapter(t, "ledger", noop),
	)

	require.ErrorIs(t, err, ErrDuplicateService)
	assert.Contains(t, err.Error(), "ledger")
}

func TestRemoteService_Owns(t *testing.T) {
	noop := func(http.ResponseWriter, *http.Request) {}

	remote, err := NewRemoteService(nil,
		newAdapter(t, "risk", noop),
		newAdapter(t, "ledger", noop),
	)
	require.NoError(t, err)

	tests := []struct {
		action string
		want   bool
	}{
		{"ledger.append", true},
		{"ledger.entries.list", true},
		{"risk.score", true},
		{"billing.charge", false},
		{"ledger", true},
		{"ledgers.append", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			assert.Equal(t, tt.want, remote.Owns(tt.action))
		})
	}

	assert.Equal(t, []string{"ledger", "risk"}, remote.Services())
}

func TestRemoteService_Call(t *testing.T) {
	var (
		gotPath    string
		gotHeaders http.Header
		gotBody    map[string]any
	)

	adapter := newAdapter(t, "ledger", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotHeaders = r.Header.Clone()
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		writeJSON(w, http.StatusOK, `{"result":{"entry":"e-1"}}`)
	})

	remote, err := NewRemoteService(discardLogger(), adapter)
	require.NoError(t, err)

	meta := map[string]any{
		invocation.KeyCorrelationID:  "chain-1",
		invocation.KeyFrom:           "billing",
		invocation.KeyFromInstanceID: "billing-0",
		invocation.KeyLevel:          2,
	}

	result, err := remote.Call(context.Background(), "ledger.append", map[string]any{"amount": 10}, meta)

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"entry": "e-1"}, result)
	assert.Equal(t, "/api/v1/actions/ledger.append", gotPath)
	assert.Equal(t, map[string]any{"params": map[string]any{"amount": float64(10)}}, gotBody)
	assert.Equal(t, "chain-1", gotHeaders.Get(middleware.HeaderCorrelationID))
	assert.Equal(t, "billing", gotHeaders.Get(middleware.HeaderFromService))
	assert.Equal(t, "billing-0", gotHeaders.Get(middleware.HeaderFromInstanceID))
	assert.Equal(t, "2", gotHeaders.Get(middleware.HeaderCallLevel))
	assert.Empty(t, gotHeaders.Get(middleware.HeaderRequestID))
}

func TestRemoteService_Call_NilParamsAndMeta(t *testing.T) {
	var (
		gotHeaders http.Header
		gotBody    map[string]any
	)

	adapter := newAdapter(t, "ledger", func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		writeJSON(w, http.StatusOK, `{"result":null}`)
	})

	remote, err := NewRemoteService(discardLogger(), adapter)
	require.NoError(t, err)

	result, err := remote.Call(context.Background(), "ledger.append", nil, nil)

	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Equal(t, map[string]any{"params": map[string]any{}}, gotBody)
	assert.Empty(t, gotHeaders.Get(middleware.HeaderCorrelationID))
	assert.Empty(t, gotHeaders.Get(middleware.HeaderCallLevel))
}

func TestRemoteService_Call_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
	}{
		{
			name:     "remote has no handler",
			status:   http.StatusNotFound,
			body:     `{"error":{"code":"NOT_FOUND","message":"action not found"}}`,
			sentinel: domain.ErrNotFound,
		},
		{
			name:     "remote depth exceeded",
			status:   http.StatusLoopDetected,
			body:     `{"error":{"code":"LOOP_DETECTED","message":"too deep","details":{"level":"9","max_level":"8"}}}`,
			sentinel: domain.ErrCallDepthExceeded,
		},
		{
			name:     "remote invalid argument",
			status:   http.StatusBadRequest,
			body:     `{"error":{"code":"INVALID_ARGUMENT","message":"bad level"}}`,
			sentinel: domain.ErrInvalidArgument,
		},
		{
			name:     "remote failure",
			status:   http.StatusInternalServerError,
			body:     `{"error":{"code":"INTERNAL_ERROR","message":"boom"}}`,
			sentinel: domain.ErrUnavailable,
		},
		{
			name:     "undecodable result",
			status:   http.StatusOK,
			body:     `{"result":`,
			sentinel: domain.ErrUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := newAdapter(t, "ledger", func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			remote, err := NewRemoteService(discardLogger(), adapter)
			require.NoError(t, err)

			_, err = remote.Call(context.Background(), "ledger.append", nil, nil)

			assert.ErrorIs(t, err, tt.sentinel)
		})
	}
}

func TestRemoteService_Call_DepthDetails(t *testing.T) {
	adapter := newAdapter(t, "ledger", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusLoopDetected,
			`{"error":{"code":"LOOP_DETECTED","message":"too deep","details":{"level":"9","max_level":"8"}}}`)
	})

	remote, err := NewRemoteService(discardLogger(), adapter)
	require.NoError(t, err)

	_, err = remote.Call(context.Background(), "ledger.append", nil, nil)

	var depthErr *domain.CallDepthExceededError
	require.ErrorAs(t, err, &depthErr)
	assert.Equal(t, "ledger.append", depthErr.Action)
	assert.Equal(t, 9, depthErr.Level)
	assert.Equal(t, 8, depthErr.MaxLevel)
}

func TestRemoteService_Call_UnknownOwner(t *testing.T) {
	remote, err := NewRemoteService(discardLogger())
	require.NoError(t, err)

	_, err = remote.Call(context.Background(), "ledger.append", nil, nil)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRemoteService_Call_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := clients.New(&clients.Config{
		ServiceName: "ledger",
		BaseURL:     url,
		Timeout:     time.Second,
		Logger:      discardLogger(),
	})
	require.NoError(t, err)

	remote, err := NewRemoteService(discardLogger(), NewBaseAdapter(client, "ledger"))
	require.NoError(t, err)

	_, err = remote.Call(context.Background(), "ledger.append", nil, nil)

	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestRemoteService_HealthCheckers(t *testing.T) {
	healthy := newAdapter(t, "ledger", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/-/live" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, `{"status":"ok"}`)
	})
	unhealthy := newAdapter(t, "risk", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusServiceUnavailable, `{"error":{"code":"SERVICE_UNAVAILABLE","message":"draining"}}`)
	})

	remote, err := NewRemoteService(discardLogger(), unhealthy, healthy)
	require.NoError(t, err)

	checkers := remote.HealthCheckers()
	require.Len(t, checkers, 2)

	assert.Equal(t, "remote:ledger", checkers[0].Name())
	assert.NoError(t, checkers[0].Check(context.Background()))

	assert.Equal(t, "remote:risk", checkers[1].Name())
	err = checkers[1].Check(context.Background())
	require.ErrorIs(t, err, domain.ErrUnavailable)
	assert.Contains(t, err.Error(), "max retries exceeded")
}

func TestRemoteService_HealthCheck_OpenCircuitSkipsRequest(t *testing.T) {
	var requests atomic.Int32

	adapter := newAdapter(t, "ledger", func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		writeJSON(w, http.StatusBadGateway, `{"error":{"code":"BAD_GATEWAY","message":"upstream down"}}`)
	})

	remote, err := NewRemoteService(discardLogger(), adapter)
	require.NoError(t, err)

	for range 10 {
		_, err = remote.Call(context.Background(), "ledger.append", nil, nil)
		require.ErrorIs(t, err, domain.ErrUnavailable)
	}

	require.Equal(t, clients.StateOpen, adapter.Client().CircuitState())
	before := requests.Load()

	err = remote.HealthCheckers()[0].Check(context.Background())

	require.ErrorIs(t, err, domain.ErrUnavailable)
	assert.Contains(t, err.Error(), "circuit open until")
	assert.Equal(t, before, requests.Load())
}

func TestRemoteService_LoopDetectedKeepsCircuitClosed(t *testing.T) {
	adapter := newAdapter(t, "ledger", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusLoopDetected,
			`{"error":{"code":"LOOP_DETECTED","message":"too deep","details":{"level":"9","max_level":"8"}}}`)
	})

	remote, err := NewRemoteService(discardLogger(), adapter)
	require.NoError(t, err)

	for range 20 {
		_, err = remote.Call(context.Background(), "ledger.append", nil, nil)
		require.ErrorIs(t, err, domain.ErrCallDepthExceeded)
	}

	assert.Equal(t, clients.StateClosed, adapter.Client().CircuitState())
}
