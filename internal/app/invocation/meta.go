package invocation

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/jsamuelsen/go-invocation-service/internal/domain"
)

// Recognized propagation keys. Any other key in a Meta is carried untouched.
const (
	KeyCorrelationID  = "correlationId"
	KeyFrom           = "from"
	KeyFromInstanceID = "fromInstanceId"
	KeyLevel          = "level"
)

// Params holds caller-supplied invocation arguments.
type Params map[string]any

// Meta holds inbound correlation and propagation metadata.
type Meta map[string]any

// String returns the value under key as a string.
// Missing, nil and non-scalar values read as "".
func (m Meta) String(key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}

	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}

	return s
}

// MaxLevel is the largest level a Meta may carry. Anything higher would let
// the +1 per hop overflow.
const MaxLevel = math.MaxInt - 2

// maxExactFloat is the largest float64 that still holds every smaller integer exactly.
const maxExactFloat = 1 << 53

// Level returns the hop count stored under KeyLevel, or 0 when absent.
// Integers, whole-valued floats (JSON numbers), json.Number and base-10
// strings are accepted. Negative, fractional and oversized values are
// rejected with an InvalidArgument error.
func (m Meta) Level() (int, error) {
	v, ok := m[KeyLevel]
	if !ok || v == nil {
		return 0, nil
	}

	level, err := parseLevel(v)
	if err != nil {
		return 0, domain.NewInvalidArgumentError("meta.level", err.Error())
	}

	if level < 0 {
		return 0, domain.NewInvalidArgumentError("meta.level", "must not be negative")
	}

	if level > MaxLevel {
		return 0, domain.NewInvalidArgumentError("meta.level", "exceeds "+strconv.Itoa(MaxLevel))
	}

	return level, nil
}

func parseLevel(v any) (int, error) {
	switch x := v.(type) {
	case string:
		return strconv.Atoi(strings.TrimSpace(x))
	case json.Number:
		return strconv.Atoi(x.String())
	case float64:
		return wholeFloat(x)
	case float32:
		return wholeFloat(float64(x))
	case bool:
		return 0, errors.New("must be a number")
	case uint, uint64:
		n, err := cast.ToUint64E(x)
		if err != nil {
			return 0, err
		}

		if n > MaxLevel {
			return 0, errors.New("out of range")
		}

		return int(n), nil
	default:
		return cast.ToIntE(v)
	}
}

func wholeFloat(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, errors.New("must be a whole number")
	}

	if f < 0 {
		return -1, nil
	}

	if f > maxExactFloat {
		return 0, errors.New("out of range")
	}

	return int(f), nil
}
