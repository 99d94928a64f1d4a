// Package app contains the application layer: the dispatcher that runs
// actions with an invocation context, and helpers for handlers that issue
// nested calls.
//
// What does NOT belong here:
//   - HTTP specifics (that's adapters)
//   - Remote transport details (that's clients/acl)
//   - Error types and identity rules (that's domain and invocation)
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/go-invocation-service/internal/app/invocation"
	"github.com/jsamuelsen/go-invocation-service/internal/domain"
	"github.com/jsamuelsen/go-invocation-service/internal/platform/logging"
	"github.com/jsamuelsen/go-invocation-service/internal/platform/telemetry"
	"github.com/jsamuelsen/go-invocation-service/internal/ports"
)

const tracerName = "github.com/jsamuelsen/go-invocation-service/app"

// ActionHandler executes one action. The result is returned to the caller as is.
type ActionHandler func(ctx context.Context, ic *invocation.Context) (any, error)

// DispatcherConfig holds the dispatcher's dependencies.
type DispatcherConfig struct {
	// Identity names this service and instance. Required.
	Identity ports.IdentityProvider

	// MaxLevel rejects invocations deeper than this many hops. Zero disables the check.
	MaxLevel int

	// Remote receives calls for actions owned by other services. Optional.
	Remote ports.RemoteCaller

	// Logger is used for registration messages. Defaults to slog.Default().
	Logger *slog.Logger

	// Metrics records per-invocation metrics. Optional.
	Metrics *telemetry.InvocationMetrics
}

// Dispatcher is the local Service: it builds an invocation context for every
// call and runs the registered handler, or forwards the call to a remote owner.
type Dispatcher struct {
	identity ports.IdentityProvider
	maxLevel int
	remote   ports.RemoteCaller
	logger   *slog.Logger
	metrics  *telemetry.InvocationMetrics
	tracer   trace.Tracer

	mu       sync.RWMutex
	handlers map[string]ActionHandler
}

var _ ports.Service = (*Dispatcher)(nil)

// NewDispatcher creates a dispatcher with no registered actions.
func NewDispatcher(cfg DispatcherConfig) (*Dispatcher, error) {
	if cfg.Identity == nil {
		return nil, domain.NewInvalidArgumentError("identity", "must not be nil")
	}

	if cfg.MaxLevel < 0 {
		return nil, domain.NewInvalidArgumentError("max_level", "must not be negative")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		identity: cfg.Identity,
		maxLevel: cfg.MaxLevel,
		remote:   cfg.Remote,
		logger:   logger.With(slog.String("component", "app.Dispatcher")),
		metrics:  cfg.Metrics,
		tracer:   otel.Tracer(tracerName),
		handlers: make(map[string]ActionHandler),
	}, nil
}

// Name returns the service name.
func (d *Dispatcher) Name() string {
	return d.identity.Name()
}

// InstanceID returns the service instance ID.
func (d *Dispatcher) InstanceID() string {
	return d.identity.InstanceID()
}

// Register binds handler to action.
func (d *Dispatcher) Register(action string, handler ActionHandler) error {
	if action == "" {
		return domain.NewInvalidArgumentError("action", "must not be empty")
	}

	if handler == nil {
		return domain.NewInvalidArgumentError("handler", "must not be nil")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.handlers[action]; exists {
		return domain.NewConflictError("action", fmt.Sprintf("%q is already registered", action))
	}

	d.handlers[action] = handler

	d.logger.Debug("action registered", slog.String("action", action))

	return nil
}

// Actions returns the registered action names in sorted order.
func (d *Dispatcher) Actions() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	actions := make([]string, 0, len(d.handlers))
	for action := range d.handlers {
		actions = append(actions, action)
	}

	sort.Strings(actions)

	return actions
}

// Call implements ports.Service. Actions owned by the remote caller are
// forwarded with meta untouched; everything else is invoked locally.
func (d *Dispatcher) Call(ctx context.Context, action string, params, meta map[string]any) (any, error) {
	if d.remote != nil && d.remote.Owns(action) {
		return d.remote.Call(ctx, action, params, meta)
	}

	result, _, err := d.Invoke(ctx, action, params, meta)

	return result, err
}

// Invoke runs a local action. The returned context is nil only when it could
// not be constructed; it is returned alongside depth and lookup errors so
// callers can still report its identifiers.
func (d *Dispatcher) Invoke(
	ctx context.Context,
	action string,
	params invocation.Params,
	meta invocation.Meta,
) (any, *invocation.Context, error) {
	ic, err := invocation.New(d, action, params, meta)
	if err != nil {
		return nil, nil, err
	}

	if d.maxLevel > 0 && ic.Level() > d.maxLevel {
		return nil, ic, domain.NewCallDepthExceededError(action, ic.Level(), d.maxLevel)
	}

	handler, ok := d.lookup(action)
	if !ok {
		return nil, ic, domain.NewNotFoundError("action", action)
	}

	ctx = invocation.WithContext(ctx, ic)
	ctx = logging.WithInvocation(ctx,
		slog.String("request_id", ic.RequestID()),
		slog.String("correlation_id", ic.CorrelationID()),
		slog.String("action", action),
		slog.String("from", ic.From()),
		slog.Int("call_level", ic.Level()),
	)

	ctx, span := d.tracer.Start(ctx, "invoke "+action,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("invocation.action", action),
			attribute.String("invocation.request_id", ic.RequestID()),
			attribute.String("invocation.correlation_id", ic.CorrelationID()),
			attribute.String("invocation.from", ic.From()),
			attribute.Int("invocation.level", ic.Level()),
		),
	)
	defer span.End()

	logger := logging.FromContext(ctx)
	logger.Log(ctx, logging.LevelTrace, "invocation input",
		slog.Any(logging.ParamsKey, ic.Params()),
		slog.Any(logging.MetaKey, ic.Meta()),
	)

	start := time.Now()
	result, err := handler(ctx, ic)
	elapsed := time.Since(start)

	d.metrics.Record(ctx, action, ic.Level(), elapsed, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.DebugContext(ctx, "action failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", elapsed),
		)

		return result, ic, err
	}

	logger.DebugContext(ctx, "action completed", slog.Duration("duration", elapsed))

	return result, ic, nil
}

func (d *Dispatcher) lookup(action string) (ActionHandler, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	handler, ok := d.handlers[action]

	return handler, ok
}
