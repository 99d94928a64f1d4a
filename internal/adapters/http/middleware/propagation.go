// Package middleware provides HTTP middleware components for the Gin server.
package middleware

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/go-invocation-service/internal/app/invocation"
	"github.com/jsamuelsen/go-invocation-service/internal/platform/logging"
)

// Propagation headers, re-exported for HTTP callers.
const (
	HeaderCorrelationID  = invocation.HeaderCorrelationID
	HeaderFromService    = invocation.HeaderFromService
	HeaderFromInstanceID = invocation.HeaderFromInstanceID
	HeaderCallLevel      = invocation.HeaderCallLevel

	// HeaderRequestID carries the request ID of the invocation a response belongs to.
	HeaderRequestID = "X-Request-ID"
)

// ContextKeyMeta is the gin.Context key holding the inbound invocation.Meta.
const ContextKeyMeta = "invocation_meta"

type metaCtxKey struct{}

// Propagation returns middleware that reads the propagation headers into an
// invocation.Meta. Only headers that are present become meta keys; nothing is
// generated, so a request without X-Correlation-ID starts a new chain.
//
// The meta is stored in the gin.Context and the request context, and the
// request context logger is derived from logger with the inbound identifiers.
func Propagation(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		meta := invocation.MetaFromHeaders(c.Request.Header.Get)

		c.Set(ContextKeyMeta, meta)

		ctx := ContextWithMeta(c.Request.Context(), meta)
		ctx = logging.WithContext(ctx, logger)
		ctx = logging.WithInvocation(ctx,
			slog.String("correlation_id", meta.String(invocation.KeyCorrelationID)),
			slog.String("from", meta.String(invocation.KeyFrom)),
		)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetMeta returns the inbound meta stored by Propagation, or an empty meta.
func GetMeta(c *gin.Context) invocation.Meta {
	if v, exists := c.Get(ContextKeyMeta); exists {
		if meta, ok := v.(invocation.Meta); ok {
			return meta
		}
	}

	return invocation.Meta{}
}

// ContextWithMeta stores the inbound meta in ctx.
func ContextWithMeta(ctx context.Context, meta invocation.Meta) context.Context {
	return context.WithValue(ctx, metaCtxKey{}, meta)
}

// MetaFromContext returns the inbound meta stored in ctx, or nil.
func MetaFromContext(ctx context.Context) invocation.Meta {
	if ctx == nil {
		return nil
	}

	if meta, ok := ctx.Value(metaCtxKey{}).(invocation.Meta); ok {
		return meta
	}

	return nil
}
