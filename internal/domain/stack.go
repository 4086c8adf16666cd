package domain

import "sort"

// Chain is the complete resource chain generated for one variant.
type Chain struct {
	Variant    Variant            `json:"variant"`
	Target     *ComputeTarget     `json:"target"`
	Schedule   *ScheduleRule      `json:"schedule"`
	Monitoring *MonitoringBinding `json:"monitoring"`
	Grants     []PermissionGrant  `json:"grants"`
}

// Complete reports whether every part of the chain is present.
func (c *Chain) Complete() bool {
	return c.Target != nil && c.Schedule != nil && c.Monitoring != nil && len(c.Grants) > 0
}

// StackDefinition is the deployable whole: shared parameters plus one chain per variant.
// Chains keep the order in which variants were declared.
type StackDefinition struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Stage       string            `json:"stage"`
	Parameters  []Parameter       `json:"parameters"`
	Chains      []Chain           `json:"chains"`
	Tags        map[string]string `json:"tags,omitempty"`
}

// Chain returns the chain for variant v.
func (s *StackDefinition) Chain(v Variant) (*Chain, bool) {
	for i := range s.Chains {
		if s.Chains[i].Variant == v {
			return &s.Chains[i], true
		}
	}
	return nil, false
}

// Target returns the compute target for variant v.
func (s *StackDefinition) Target(v Variant) (*ComputeTarget, bool) {
	c, ok := s.Chain(v)
	if !ok {
		return nil, false
	}
	return c.Target, true
}

// Parameter returns the parameter with the given logical id.
func (s *StackDefinition) Parameter(ref ParameterRef) (*Parameter, bool) {
	for i := range s.Parameters {
		if s.Parameters[i].LogicalID == string(ref) {
			return &s.Parameters[i], true
		}
	}
	return nil, false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
