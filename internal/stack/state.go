package stack

// State is the construction state of a Builder.
type State int

const (
	// Empty is the state of a new builder.
	Empty State = iota
	// ParametersDeclared means at least one parameter exists and no target has been built.
	ParametersDeclared
	// TargetsBuilt means at least one compute target exists.
	TargetsBuilt
	// FullyWired means every declared variant has a complete chain; the stack can be built.
	FullyWired
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Empty:
		return "Empty"
	case ParametersDeclared:
		return "ParametersDeclared"
	case TargetsBuilt:
		return "TargetsBuilt"
	case FullyWired:
		return "FullyWired"
	default:
		return "Unknown"
	}
}
