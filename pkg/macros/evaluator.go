package macros

import (
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/arthur-debert/skel/pkg/errors"
	"github.com/arthur-debert/skel/pkg/types"
)

// DeferredLowKey and DeferredHighKey are the raw parameter names a deferred
// configuration resolves its bounds from.
const (
	DeferredLowKey  = "low"
	DeferredHighKey = "high"
)

// DefaultHigh is the upper bound used when a deferred configuration omits
// "high".
const DefaultHigh = int64(math.MaxInt64)

// Evaluator computes macro values. The random source is injectable so tests
// can pin sampling.
type Evaluator struct {
	intn func(n int64) int64
}

// NewEvaluator creates an Evaluator backed by the default random source.
func NewEvaluator() *Evaluator {
	return &Evaluator{intn: rand.Int64N}
}

// NewEvaluatorWithSource creates an Evaluator sampling from intn, which must
// return a value in [0, n).
func NewEvaluatorWithSource(intn func(n int64) int64) *Evaluator {
	return &Evaluator{intn: intn}
}

// EvaluateConfig evaluates an immediate configuration: it samples a uniform
// integer in [Low, High) and binds it through set as a variable-flagged
// parameter under the configured name.
//
// Passing any other Config variant is a fatal misconfiguration: it signals a
// mismatched macro type registration, not bad user input.
func (e *Evaluator) EvaluateConfig(vars types.VariableCollection, cfg Config, params types.ParameterBag, set types.ParameterSetter) error {
	rc, ok := cfg.(GenerateRandomConfig)
	if !ok {
		return errors.Newf(errors.ErrMacroConfig, "macro %q: expected immediate random config, got %T", cfg.VariableName(), cfg)
	}
	if rc.High <= rc.Low {
		return errors.Newf(errors.ErrMacroConfig, "macro %q: empty range [%d, %d)", rc.Name, rc.Low, rc.High)
	}

	// The span is computed in uint64: High-Low wraps negative in int64 when
	// Low is negative and High is near MaxInt64. Spans wider than MaxInt64
	// are clamped to what intn can sample.
	span := uint64(rc.High) - uint64(rc.Low)
	if span > math.MaxInt64 {
		span = math.MaxInt64
	}
	value := rc.Low + e.intn(int64(span))

	p := types.Parameter{
		Name:       rc.Name,
		Type:       "int",
		IsVariable: true,
	}
	set(p, value)
	if vars != nil {
		vars[rc.Name] = value
	}
	return nil
}

// EvaluateDeferredConfig resolves a deferred configuration into an immediate
// one and delegates to EvaluateConfig. "low" is required; a missing or
// unparsable value is a fatal misconfiguration. "high" defaults to the
// maximum representable integer.
func (e *Evaluator) EvaluateDeferredConfig(vars types.VariableCollection, cfg Config, params types.ParameterBag, set types.ParameterSetter) error {
	dc, ok := cfg.(DeferredConfig)
	if !ok {
		return errors.Newf(errors.ErrMacroConfig, "macro %q: expected deferred config, got %T", cfg.VariableName(), cfg)
	}

	raw, ok := dc.Params[DeferredLowKey]
	if !ok {
		return errors.Newf(errors.ErrMacroParam, "macro %q: required parameter %q is missing", dc.Name, DeferredLowKey)
	}
	low, err := asInt64(raw)
	if err != nil {
		return errors.Wrapf(err, errors.ErrMacroParam, "macro %q: parameter %q", dc.Name, DeferredLowKey)
	}

	high := DefaultHigh
	if raw, ok := dc.Params[DeferredHighKey]; ok {
		high, err = asInt64(raw)
		if err != nil {
			return errors.Wrapf(err, errors.ErrMacroParam, "macro %q: parameter %q", dc.Name, DeferredHighKey)
		}
	}

	return e.EvaluateConfig(vars, GenerateRandomConfig{Name: dc.Name, Low: low, High: high}, params, set)
}

// Resolve turns a deferred configuration into its immediate equivalent
// without evaluating it. Exposed for hosts that cache resolved configs.
func Resolve(dc DeferredConfig) (GenerateRandomConfig, error) {
	raw, ok := dc.Params[DeferredLowKey]
	if !ok {
		return GenerateRandomConfig{}, errors.Newf(errors.ErrMacroParam, "macro %q: required parameter %q is missing", dc.Name, DeferredLowKey)
	}
	low, err := asInt64(raw)
	if err != nil {
		return GenerateRandomConfig{}, errors.Wrapf(err, errors.ErrMacroParam, "macro %q: parameter %q", dc.Name, DeferredLowKey)
	}

	high := DefaultHigh
	if raw, ok := dc.Params[DeferredHighKey]; ok {
		high, err = asInt64(raw)
		if err != nil {
			return GenerateRandomConfig{}, errors.Wrapf(err, errors.ErrMacroParam, "macro %q: parameter %q", dc.Name, DeferredHighKey)
		}
	}
	return GenerateRandomConfig{Name: dc.Name, Low: low, High: high}, nil
}

// asInt64 accepts the numeric shapes a decoded JSON document or a host can
// realistically hand over.
func asInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		return int64(n), nil
	case string:
		parsed, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, errors.Wrapf(err, errors.ErrInvalidInput, "not an integer: %q", n)
		}
		return parsed, nil
	default:
		return 0, errors.Newf(errors.ErrInvalidInput, "not an integer: %v (%T)", v, v)
	}
}
