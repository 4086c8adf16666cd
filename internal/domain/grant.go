package domain

// Identifier is a fully qualified resource identifier. Identifiers that embed
// pseudo parameters such as ${AWS::AccountId} set Sub and are rendered through Fn::Sub.
type Identifier struct {
	Value string `json:"value"`
	Sub   bool   `json:"sub,omitempty"`
}

// String returns the raw identifier.
func (i Identifier) String() string {
	return i.Value
}

// PermissionGrant is a single least-privilege statement attached to the
// execution identity of a compute target.
type PermissionGrant struct {
	Sid       string       `json:"sid"`
	Actions   []string     `json:"actions"`
	Resources []Identifier `json:"resources"`
}
