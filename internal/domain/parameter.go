package domain

// ParameterRef references a stack parameter by logical id. The value is only
// known once the stack is deployed.
type ParameterRef string

// Parameter is an operator-supplied value resolved at deploy time.
// A nil Default means deployment fails closed when the operator supplies no value.
type Parameter struct {
	LogicalID   string  `json:"logicalId"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Default     *string `json:"default,omitempty"`
	NoEcho      bool    `json:"noEcho,omitempty"`
}

// Ref returns a reference to the parameter.
func (p Parameter) Ref() ParameterRef {
	return ParameterRef(p.LogicalID)
}

// Required reports whether the parameter has no default.
func (p Parameter) Required() bool {
	return p.Default == nil
}

// ParameterMode selects how notification parameters are declared.
type ParameterMode string

const (
	// ParameterModeStrict declares parameters without a default.
	ParameterModeStrict ParameterMode = "strict"
	// ParameterModeLoose declares parameters with an empty default.
	ParameterModeLoose ParameterMode = "loose"
)
