package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/go-invocation-service/internal/app/invocation"
	"github.com/jsamuelsen/go-invocation-service/internal/domain"
)

// rootContext invokes a throwaway action on d and returns the context it received.
func rootContext(t *testing.T, d *Dispatcher) *invocation.Context {
	t.Helper()

	var captured *invocation.Context

	require.NoError(t, d.Register("test.root", func(_ context.Context, ic *invocation.Context) (any, error) {
		captured = ic
		return nil, nil
	}))

	_, _, err := d.Invoke(context.Background(), "test.root", nil, nil)
	require.NoError(t, err)

	return captured
}

func TestCallAll_ResultsInOrder(t *testing.T) {
	d := newDispatcher(t, 0, nil)

	require.NoError(t, d.Register("test.slow", func(context.Context, *invocation.Context) (any, error) {
		time.Sleep(20 * time.Millisecond)
		return "slow", nil
	}))
	require.NoError(t, d.Register("test.fast", func(context.Context, *invocation.Context) (any, error) {
		return "fast", nil
	}))

	ic := rootContext(t, d)

	results, err := CallAll(context.Background(), ic,
		Call{Action: "test.slow"},
		Call{Action: "test.fast"},
	)

	require.NoError(t, err)
	assert.Equal(t, []any{"slow", "fast"}, results)
}

func TestCallAll_SiblingsShareCorrelation(t *testing.T) {
	d := newDispatcher(t, 0, nil)

	var (
		mu       sync.Mutex
		children []*invocation.Context
	)

	require.NoError(t, d.Register("test.child", func(_ context.Context, ic *invocation.Context) (any, error) {
		mu.Lock()
		defer mu.Unlock()

		children = append(children, ic)

		return nil, nil
	}))

	ic := rootContext(t, d)

	calls := make([]Call, 8)
	for i := range calls {
		calls[i] = Call{Action: "test.child"}
	}

	_, err := CallAll(context.Background(), ic, calls...)
	require.NoError(t, err)
	require.Len(t, children, len(calls))

	seen := make(map[string]struct{}, len(children))
	for _, child := range children {
		assert.Equal(t, ic.RequestID(), child.CorrelationID())
		assert.Equal(t, ic.Level()+1, child.Level())

		seen[child.RequestID()] = struct{}{}
	}

	assert.Len(t, seen, len(children))
}

func TestCallAll_FirstErrorCancelsRest(t *testing.T) {
	d := newDispatcher(t, 0, nil)
	boom := errors.New("boom")

	require.NoError(t, d.Register("test.fail", func(context.Context, *invocation.Context) (any, error) {
		return nil, boom
	}))
	require.NoError(t, d.Register("test.wait", func(ctx context.Context, _ *invocation.Context) (any, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Second):
			return "late", nil
		}
	}))

	ic := rootContext(t, d)

	start := time.Now()
	results, err := CallAll(context.Background(), ic,
		Call{Action: "test.wait"},
		Call{Action: "test.fail"},
	)

	require.Error(t, err)
	assert.Same(t, boom, err)
	assert.Nil(t, results)
	assert.Less(t, time.Since(start), time.Second)
}

func TestCallAll_DomainErrorUnchanged(t *testing.T) {
	d := newDispatcher(t, 0, nil)
	ic := rootContext(t, d)

	_, err := CallAll(context.Background(), ic, Call{Action: "test.missing"})

	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))

	_, direct := ic.Call(context.Background(), "test.missing", nil)
	assert.Equal(t, direct.Error(), err.Error())
}

func TestCallAll_NoCalls(t *testing.T) {
	d := newDispatcher(t, 0, nil)
	ic := rootContext(t, d)

	results, err := CallAll(context.Background(), ic)

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestCallAllPartial_CollectsEverything(t *testing.T) {
	d := newDispatcher(t, 0, nil)
	boom := errors.New("boom")

	require.NoError(t, d.Register("test.ok", func(_ context.Context, ic *invocation.Context) (any, error) {
		return ic.Params()["n"], nil
	}))
	require.NoError(t, d.Register("test.fail", func(context.Context, *invocation.Context) (any, error) {
		return nil, boom
	}))

	ic := rootContext(t, d)

	results := CallAllPartial(context.Background(), ic, 0,
		Call{Action: "test.ok", Params: invocation.Params{"n": 1}},
		Call{Action: "test.fail"},
		Call{Action: "test.ok", Params: invocation.Params{"n": 3}},
	)

	require.Len(t, results, 3)
	assert.Equal(t, PartialResult{Action: "test.ok", Value: 1}, results[0])
	assert.Equal(t, "test.fail", results[1].Action)
	assert.ErrorIs(t, results[1].Err, boom)
	assert.Equal(t, 3, results[2].Value)
}

func TestCallAllPartial_RespectsLimit(t *testing.T) {
	d := newDispatcher(t, 0, nil)

	var (
		active atomic.Int32
		peak   atomic.Int32
	)

	require.NoError(t, d.Register("test.track", func(context.Context, *invocation.Context) (any, error) {
		n := active.Add(1)
		defer active.Add(-1)

		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}

		time.Sleep(10 * time.Millisecond)

		return nil, nil
	}))

	ic := rootContext(t, d)

	calls := make([]Call, 10)
	for i := range calls {
		calls[i] = Call{Action: "test.track"}
	}

	results := CallAllPartial(context.Background(), ic, 2, calls...)

	assert.Len(t, results, 10)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}
