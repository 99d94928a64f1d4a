package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen/go-invocation-service/internal/app/invocation"
)

// Call is one nested invocation issued from a handler.
type Call struct {
	Action string
	Params invocation.Params
}

// PartialResult holds the outcome of one call in CallAllPartial.
type PartialResult struct {
	Action string
	Value  any
	Err    error
}

// CallAll issues calls concurrently through ic and returns their results in
// input order. The first failure cancels the remaining calls and is returned
// unchanged.
//
// Example:
//
//	results, err := app.CallAll(ctx, ic,
//	    app.Call{Action: "ledger.balance", Params: invocation.Params{"account": id}},
//	    app.Call{Action: "risk.score", Params: invocation.Params{"account": id}},
//	)
func CallAll(ctx context.Context, ic *invocation.Context, calls ...Call) ([]any, error) {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]any, len(calls))

	for i, call := range calls {
		g.Go(func() error {
			result, err := ic.Call(ctx, call.Action, call.Params)
			if err != nil {
				return err
			}

			results[i] = result

			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		return nil, err
	}

	return results, nil
}

// CallAllPartial issues calls through ic and collects every result, even on
// partial failure. At most limit calls run at once; limit <= 0 means no bound.
func CallAllPartial(ctx context.Context, ic *invocation.Context, limit int, calls ...Call) []PartialResult {
	results := make([]PartialResult, len(calls))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, call := range calls {
		g.Go(func() error {
			value, err := ic.Call(ctx, call.Action, call.Params)
			results[i] = PartialResult{Action: call.Action, Value: value, Err: err}

			return nil
		})
	}

	_ = g.Wait()

	return results
}
