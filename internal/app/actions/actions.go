// Package actions provides the built-in system actions every service exposes.
package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"

	"github.com/jsamuelsen/go-invocation-service/internal/app"
	"github.com/jsamuelsen/go-invocation-service/internal/app/invocation"
	"github.com/jsamuelsen/go-invocation-service/internal/domain"
)

// Built-in action names.
const (
	Ping    = "system.ping"
	Echo    = "system.echo"
	Context = "system.context"
	Relay   = "system.relay"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// relayParams is the validated form of system.relay params.
type relayParams struct {
	Action string         `validate:"required,max=256"`
	Params map[string]any `validate:"-"`
}

// Register adds the built-in actions to d.
func Register(d *app.Dispatcher) error {
	builtins := []struct {
		name    string
		handler app.ActionHandler
	}{
		{Ping, ping},
		{Echo, echo},
		{Context, snapshot},
		{Relay, relay},
	}

	for _, b := range builtins {
		if err := d.Register(b.name, b.handler); err != nil {
			return fmt.Errorf("registering %s: %w", b.name, err)
		}
	}

	return nil
}

func ping(_ context.Context, ic *invocation.Context) (any, error) {
	return map[string]any{
		"pong":       true,
		"service":    ic.Service().Name(),
		"instanceId": ic.InstanceID(),
	}, nil
}

func echo(_ context.Context, ic *invocation.Context) (any, error) {
	return ic.Params(), nil
}

func snapshot(_ context.Context, ic *invocation.Context) (any, error) {
	return ic.ToJSON(), nil
}

// relay forwards params.params to params.action as a nested call.
func relay(ctx context.Context, ic *invocation.Context) (any, error) {
	p, err := parseRelayParams(ic.Params())
	if err != nil {
		return nil, err
	}

	return ic.Call(ctx, p.Action, p.Params)
}

func parseRelayParams(params invocation.Params) (*relayParams, error) {
	action, err := cast.ToStringE(params["action"])
	if err != nil {
		return nil, domain.NewValidationError("action", "must be a string")
	}

	p := &relayParams{Action: action}

	if raw, ok := params["params"]; ok && raw != nil {
		nested, err := cast.ToStringMapE(raw)
		if err != nil {
			return nil, domain.NewValidationError("params", "must be an object")
		}

		p.Params = nested
	}

	if err := validate.Struct(p); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return nil, domain.NewValidationError("action", reasonFor(fieldErrs[0].Tag()))
		}

		return nil, domain.NewValidationError("", err.Error())
	}

	return p, nil
}

func reasonFor(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "max":
		return "is too long"
	default:
		return "is invalid"
	}
}
