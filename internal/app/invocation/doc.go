// Package invocation provides the per-invocation context that every action
// handler receives.
//
// # Identity and Correlation
//
// A Context is built once per invocation and never changes afterwards. It
// carries a fresh RequestID, the CorrelationID inherited from its caller (empty
// for the root of a chain), the caller's name and instance, and the hop Level:
//
//	ic, err := invocation.New(svc, "billing.charge", params, meta)
//	if err != nil {
//	    // domain.ErrInvalidArgument: nil service or empty action
//	}
//
// # Nested Calls
//
// Handlers issue downstream calls through the Context so the propagation
// metadata is derived the same way on every hop:
//
//	func charge(ctx context.Context, ic *invocation.Context) (any, error) {
//	    return ic.Call(ctx, "ledger.append", invocation.Params{"amount": 10})
//	}
//
// The child metadata carries the root's RequestID as the CorrelationID, so
// every context in one causal chain shares a single CorrelationID while each
// still has its own RequestID. From and FromInstanceID always describe the
// immediate caller, one hop back.
//
// # Serialization
//
// ToJSON returns the canonical snapshot for logging and tracing sinks. Context
// also implements json.Marshaler and slog.LogValuer.
package invocation
