package acl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/jsamuelsen/go-invocation-service/internal/adapters/clients"
	"github.com/jsamuelsen/go-invocation-service/internal/app/invocation"
	"github.com/jsamuelsen/go-invocation-service/internal/domain"
	"github.com/jsamuelsen/go-invocation-service/internal/ports"
)

// ErrDuplicateService is returned when two adapters share a service name.
var ErrDuplicateService = errors.New("duplicate remote service")

const (
	actionsPath  = "/api/v1/actions/"
	livenessPath = "/-/live"

	// healthCheckPrefix prefixes every remote health check name.
	healthCheckPrefix = "remote:"
)

// invokeRequest is the remote's action request body.
type invokeRequest struct {
	Params map[string]any `json:"params"`
}

// invokeResponse is the remote's action response body.
type invokeResponse struct {
	Result any `json:"result"`
}

// RemoteService forwards actions to the service that owns them. An action is
// owned by the service named by its first dot-separated segment, so
// "ledger.append" goes to the "ledger" adapter.
type RemoteService struct {
	adapters map[string]*BaseAdapter
	logger   *slog.Logger
}

var _ ports.RemoteCaller = (*RemoteService)(nil)

// NewRemoteService indexes the adapters by service name.
func NewRemoteService(logger *slog.Logger, adapters ...BaseAdapter) (*RemoteService, error) {
	if logger == nil {
		logger = slog.Default()
	}

	r := &RemoteService{
		adapters: make(map[string]*BaseAdapter, len(adapters)),
		logger:   logger,
	}

	for i := range adapters {
		name := adapters[i].ServiceName()
		if _, exists := r.adapters[name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateService, name)
		}

		r.adapters[name] = &adapters[i]
	}

	return r, nil
}

// Services returns the reachable service names in sorted order.
func (r *RemoteService) Services() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Owns reports whether a configured remote serves the action.
func (r *RemoteService) Owns(action string) bool {
	_, ok := r.adapters[owner(action)]

	return ok
}

// Call invokes the action on its owning service. meta is forwarded as
// propagation headers without modification.
func (r *RemoteService) Call(ctx context.Context, action string, params, meta map[string]any) (any, error) {
	adapter, ok := r.adapters[owner(action)]
	if !ok {
		return nil, domain.NewNotFoundError("action", action)
	}

	if params == nil {
		params = map[string]any{}
	}

	r.logger.DebugContext(ctx, "forwarding action",
		slog.String("action", action),
		slog.String("remote", adapter.ServiceName()),
	)

	body, err := adapter.PostJSON(ctx,
		actionsPath+url.PathEscape(action),
		invokeRequest{Params: params},
		invocation.Meta(meta),
		"invoke "+action,
		action,
	)
	if err != nil {
		return nil, err
	}

	resp, err := DecodeResponse[invokeResponse](body)
	if err != nil {
		return nil, domain.NewUnavailableError(adapter.ServiceName(), err.Error())
	}

	return resp.Result, nil
}

// HealthCheckers returns one liveness check per remote, named "remote:<service>".
func (r *RemoteService) HealthCheckers() []ports.HealthChecker {
	checkers := make([]ports.HealthChecker, 0, len(r.adapters))
	for _, name := range r.Services() {
		checkers = append(checkers, &remoteCheck{adapter: r.adapters[name]})
	}

	return checkers
}

type remoteCheck struct {
	adapter *BaseAdapter
}

func (c *remoteCheck) Name() string {
	return healthCheckPrefix + c.adapter.ServiceName()
}

// Check fails without a request while the remote's circuit is open.
func (c *remoteCheck) Check(ctx context.Context) error {
	if snap := c.adapter.Client().CircuitSnapshot(); snap.State == clients.StateOpen {
		return domain.NewUnavailableError(c.adapter.ServiceName(),
			"circuit open until "+snap.OpenUntil.UTC().Format(time.RFC3339))
	}

	body, err := c.adapter.Get(ctx, livenessPath, "liveness check")
	if err != nil {
		return err
	}

	return body.Close()
}

func owner(action string) string {
	name, _, _ := strings.Cut(action, ".")

	return name
}
