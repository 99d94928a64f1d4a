// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter on anything that may block
//   - Return domain errors (ErrNotFound, ErrUnavailable, ...) from adapters
//   - Keep interfaces small and focused
package ports

import (
	"context"
)

// IdentityProvider supplies the identity of the running service.
type IdentityProvider interface {
	// Name returns the stable service name.
	Name() string

	// InstanceID returns the identifier of this running instance.
	// It is unique per process and never changes while the process runs.
	InstanceID() string
}

// Service is the capability an invocation context needs from its owner:
// identity plus a transport that can dispatch a nested action.
//
// Example usage in an action handler:
//
//	func charge(ctx context.Context, ic *invocation.Context) (any, error) {
//	    return ic.Call(ctx, "ledger.append", invocation.Params{"amount": 10})
//	}
type Service interface {
	IdentityProvider

	// Call dispatches an action locally or remotely using the caller-built
	// propagation metadata. Failures are returned unchanged to the caller.
	// Cancellation and deadlines travel through ctx.
	Call(ctx context.Context, action string, params map[string]any, meta map[string]any) (any, error)
}

// RemoteCaller dispatches actions owned by other services.
//
// Key considerations:
//   - Handle timeouts via context deadline
//   - Map transport and remote errors to domain errors
//   - Forward meta exactly as given; never derive new correlation data
type RemoteCaller interface {
	// Owns reports whether the action belongs to a service this caller can reach.
	Owns(action string) bool

	// Call invokes the action on the owning remote service.
	// Returns domain.ErrUnavailable if the service is unreachable.
	Call(ctx context.Context, action string, params map[string]any, meta map[string]any) (any, error)
}
