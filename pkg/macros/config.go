// Package macros implements the two-phase macro evaluation protocol that
// turns declarative macro configuration into concrete parameter values at
// instantiation time.
//
// A macro configuration comes in two variants. An immediate configuration
// carries its numeric bounds fixed at template-authoring time. A deferred
// configuration carries a raw parameter mapping instead; its bounds are
// resolved from generation-time parameters and produce an immediate
// configuration, which is then evaluated normally.
package macros

// Config is the sealed interface over the two macro configuration variants.
// Only GenerateRandomConfig and DeferredConfig implement it.
type Config interface {
	// VariableName is the name the computed value is bound under.
	VariableName() string

	macroConfig()
}

// GenerateRandomConfig is the immediate variant: bounds are known and a
// uniformly distributed integer in [Low, High) is produced.
type GenerateRandomConfig struct {
	Name string
	Low  int64
	High int64
}

func (c GenerateRandomConfig) VariableName() string { return c.Name }
func (c GenerateRandomConfig) macroConfig()         {}

// DeferredConfig is the deferred variant: bounds arrive through the raw
// parameter mapping of a generated symbol. Required key "low"; optional key
// "high" defaulting to the maximum representable integer.
type DeferredConfig struct {
	Name   string
	Params map[string]any
}

func (c DeferredConfig) VariableName() string { return c.Name }
func (c DeferredConfig) macroConfig()         {}
