package macros

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/skel/pkg/errors"
	"github.com/arthur-debert/skel/pkg/types"
)

type binding struct {
	param types.Parameter
	value any
}

func collect(bound *[]binding) types.ParameterSetter {
	return func(p types.Parameter, value any) {
		*bound = append(*bound, binding{param: p, value: value})
	}
}

func TestEvaluateConfigBindsVariable(t *testing.T) {
	e := NewEvaluatorWithSource(func(n int64) int64 { return 2 })
	vars := types.VariableCollection{}
	var bound []binding

	err := e.EvaluateConfig(vars, GenerateRandomConfig{Name: "port", Low: 5, High: 10}, nil, collect(&bound))
	require.NoError(t, err)

	require.Len(t, bound, 1)
	assert.Equal(t, "port", bound[0].param.Name)
	assert.True(t, bound[0].param.IsVariable)
	assert.Equal(t, int64(7), bound[0].value)
	assert.Equal(t, int64(7), vars["port"])
}

func TestEvaluateConfigSamplesWithinRange(t *testing.T) {
	e := NewEvaluator()
	for i := 0; i < 200; i++ {
		var bound []binding
		err := e.EvaluateConfig(nil, GenerateRandomConfig{Name: "n", Low: 5, High: 10}, nil, collect(&bound))
		require.NoError(t, err)
		v := bound[0].value.(int64)
		assert.GreaterOrEqual(t, v, int64(5))
		assert.Less(t, v, int64(10))
	}
}

func TestEvaluateConfigWrongVariantIsFatal(t *testing.T) {
	e := NewEvaluator()
	err := e.EvaluateConfig(nil, DeferredConfig{Name: "n"}, nil, func(types.Parameter, any) {})
	assert.True(t, errors.IsErrorCode(err, errors.ErrMacroConfig))
}

func TestEvaluateConfigEmptyRange(t *testing.T) {
	e := NewEvaluator()
	err := e.EvaluateConfig(nil, GenerateRandomConfig{Name: "n", Low: 10, High: 10}, nil, func(types.Parameter, any) {})
	assert.True(t, errors.IsErrorCode(err, errors.ErrMacroConfig))
}

func TestEvaluateConfigNegativeLowWithDefaultHigh(t *testing.T) {
	e := NewEvaluator()
	var bound []binding

	err := e.EvaluateConfig(nil, GenerateRandomConfig{Name: "n", Low: -5, High: DefaultHigh}, nil, collect(&bound))
	require.NoError(t, err)

	require.Len(t, bound, 1)
	assert.GreaterOrEqual(t, bound[0].value.(int64), int64(-5))
}

func TestEvaluateConfigClampsOversizedSpan(t *testing.T) {
	var got int64
	e := NewEvaluatorWithSource(func(n int64) int64 {
		got = n
		return 0
	})
	var bound []binding

	// The full [MinInt64, MaxInt64) range does not fit an int64 span.
	err := e.EvaluateConfig(nil, GenerateRandomConfig{Name: "n", Low: math.MinInt64, High: math.MaxInt64}, nil, collect(&bound))
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), got)
	assert.Equal(t, int64(math.MinInt64), bound[0].value)
}

func TestDeferredNegativeLowWithoutHigh(t *testing.T) {
	e := NewEvaluator()
	var bound []binding

	cfg := DeferredConfig{Name: "n", Params: map[string]any{"low": -5}}
	err := e.EvaluateDeferredConfig(nil, cfg, nil, collect(&bound))
	require.NoError(t, err)

	require.Len(t, bound, 1)
	assert.GreaterOrEqual(t, bound[0].value.(int64), int64(-5))
}

func TestDeferredDefaultsHighToMaxInt(t *testing.T) {
	resolved, err := Resolve(DeferredConfig{Name: "n", Params: map[string]any{"low": 5}})
	require.NoError(t, err)

	assert.Equal(t, int64(5), resolved.Low)
	assert.Equal(t, DefaultHigh, resolved.High)
}

func TestDeferredMissingLowIsFatal(t *testing.T) {
	e := NewEvaluator()
	err := e.EvaluateDeferredConfig(nil, DeferredConfig{Name: "n", Params: map[string]any{"high": 9}}, nil, func(types.Parameter, any) {})
	assert.True(t, errors.IsErrorCode(err, errors.ErrMacroParam))
}

func TestDeferredWrongVariantIsFatal(t *testing.T) {
	e := NewEvaluator()
	err := e.EvaluateDeferredConfig(nil, GenerateRandomConfig{Name: "n", Low: 1, High: 2}, nil, func(types.Parameter, any) {})
	assert.True(t, errors.IsErrorCode(err, errors.ErrMacroConfig))
}

func TestDeferredDelegatesToImmediate(t *testing.T) {
	e := NewEvaluatorWithSource(func(n int64) int64 { return 0 })
	var bound []binding

	cfg := DeferredConfig{Name: "count", Params: map[string]any{"low": "3", "high": float64(9)}}
	err := e.EvaluateDeferredConfig(nil, cfg, nil, collect(&bound))
	require.NoError(t, err)

	require.Len(t, bound, 1)
	assert.Equal(t, int64(3), bound[0].value)
}

func TestAsInt64Shapes(t *testing.T) {
	cases := []struct {
		in   any
		want int64
	}{
		{5, 5},
		{int32(6), 6},
		{int64(7), 7},
		{float64(8), 8},
		{"9", 9},
	}
	for _, tc := range cases {
		got, err := asInt64(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}

	_, err := asInt64("nope")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = asInt64(struct{}{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}
