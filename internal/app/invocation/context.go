package invocation

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen/go-invocation-service/internal/domain"
	"github.com/jsamuelsen/go-invocation-service/internal/ports"
)

// Overridable in tests.
var (
	now          = time.Now
	newRequestID = uuid.NewString
)

type ctxKey struct{}

// Context is the immutable record of a single action invocation.
// All fields are fixed by New, so a Context is safe for concurrent reads.
type Context struct {
	service        ports.Service
	action         string
	params         Params
	meta           Meta
	instanceID     string
	fromInstanceID string
	timestamp      int64
	requestID      string
	correlationID  string
	from           string
	level          int
}

// New builds the context for invoking action on svc.
//
// The params and meta maps are held by reference; nil maps are replaced with
// empty ones. Identity and depth are derived from meta, see Context accessors.
func New(svc ports.Service, action string, params Params, meta Meta) (*Context, error) {
	if svc == nil {
		return nil, domain.NewInvalidArgumentError("service", "must not be nil")
	}

	if action == "" {
		return nil, domain.NewInvalidArgumentError("action", "must not be empty")
	}

	if params == nil {
		params = Params{}
	}

	if meta == nil {
		meta = Meta{}
	}

	parentLevel, err := meta.Level()
	if err != nil {
		return nil, err
	}

	from := meta.String(KeyFrom)
	if from == "" {
		from = svc.Name()
	}

	return &Context{
		service:        svc,
		action:         action,
		params:         params,
		meta:           meta,
		instanceID:     svc.InstanceID(),
		fromInstanceID: meta.String(KeyFromInstanceID),
		timestamp:      now().UnixMilli(),
		requestID:      newRequestID(),
		correlationID:  meta.String(KeyCorrelationID),
		from:           from,
		level:          parentLevel + 1,
	}, nil
}

// Service returns the service executing the invocation.
func (c *Context) Service() ports.Service { return c.service }

// Action returns the invoked action name.
func (c *Context) Action() string { return c.action }

// Params returns the caller's params map.
func (c *Context) Params() Params { return c.params }

// Meta returns the caller's meta map, unknown keys included.
func (c *Context) Meta() Meta { return c.meta }

// InstanceID returns the executing service instance.
func (c *Context) InstanceID() string { return c.instanceID }

// FromInstanceID returns the calling instance, or "" when unknown.
func (c *Context) FromInstanceID() string { return c.fromInstanceID }

// Timestamp returns the construction time in Unix milliseconds.
func (c *Context) Timestamp() int64 { return c.timestamp }

// RequestID returns the identifier unique to this invocation.
func (c *Context) RequestID() string { return c.requestID }

// CorrelationID returns the inherited chain identifier, or "" for a root.
func (c *Context) CorrelationID() string { return c.correlationID }

// From returns the immediate caller's service name.
func (c *Context) From() string { return c.from }

// Level returns the hop count from the root, starting at 1.
func (c *Context) Level() int { return c.level }

// IsRoot reports whether this invocation starts a new causal chain.
func (c *Context) IsRoot() bool { return c.correlationID == "" }

// ChildMeta returns the metadata a nested call issued from this context must
// carry. A root context hands its own RequestID down as the CorrelationID.
func (c *Context) ChildMeta() Meta {
	correlationID := c.correlationID
	if correlationID == "" {
		correlationID = c.requestID
	}

	return Meta{
		KeyCorrelationID:  correlationID,
		KeyFrom:           c.service.Name(),
		KeyFromInstanceID: c.service.InstanceID(),
		KeyLevel:          c.level + 1,
	}
}

// Call invokes action on the owning service with this context's child
// metadata. The service's result and error are returned unchanged.
func (c *Context) Call(ctx context.Context, action string, params Params) (any, error) {
	return c.service.Call(ctx, action, params, c.ChildMeta())
}

// ToJSON returns the canonical snapshot used by logging and tracing sinks.
// Unset identifiers are reported as nil.
func (c *Context) ToJSON() map[string]any {
	return map[string]any{
		"action":         c.action,
		"params":         c.params,
		"meta":           c.meta,
		"instanceId":     c.instanceID,
		"fromInstanceId": nullable(c.fromInstanceID),
		"service":        c.service.Name(),
		"timestamp":      c.timestamp,
		"requestId":      c.requestID,
		"correlationId":  nullable(c.correlationID),
		"from":           c.from,
		"level":          c.level,
	}
}

// MarshalJSON implements json.Marshaler.
func (c *Context) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.ToJSON())
}

// LogValue implements slog.LogValuer. Params and meta are left out.
func (c *Context) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("action", c.action),
		slog.String("request_id", c.requestID),
		slog.String("from", c.from),
		slog.Int("level", c.level),
	}

	if c.correlationID != "" {
		attrs = append(attrs, slog.String("correlation_id", c.correlationID))
	}

	if c.fromInstanceID != "" {
		attrs = append(attrs, slog.String("from_instance_id", c.fromInstanceID))
	}

	return slog.GroupValue(attrs...)
}

// FromContext extracts the invocation context, returns nil if not present.
func FromContext(ctx context.Context) *Context {
	if ctx == nil {
		return nil
	}

	if ic, ok := ctx.Value(ctxKey{}).(*Context); ok {
		return ic
	}

	return nil
}

// WithContext stores the invocation context in ctx.
func WithContext(ctx context.Context, ic *Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, ic)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}

	return s
}
