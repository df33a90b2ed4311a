package types

// Parameter is a named, typed value slot a template declares and generation
// fills. Macro-computed values are bound with IsVariable set so the renderer
// can distinguish them from user-supplied input.
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	Default     any    `json:"default,omitempty"`
	IsVariable  bool   `json:"isVariable,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// ParameterBag holds resolved parameter values keyed by parameter name.
type ParameterBag map[string]any

// ParameterSetter binds a computed value for a parameter into whatever
// collection the caller maintains. Macros call it instead of mutating
// parameter state directly.
type ParameterSetter func(p Parameter, value any)

// VariableCollection is the shared set of variables consumed by the
// rendering collaborator; macros contribute entries keyed by variable name.
type VariableCollection map[string]any
