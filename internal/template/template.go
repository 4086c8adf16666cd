// Package template renders a StackDefinition as a CloudFormation template and
// encodes it deterministically as JSON, YAML or HCL.
package template

import "github.com/guardian/uk-coronavirus-data-alerts/internal/domain"

// FormatVersion is the CloudFormation template format version.
const FormatVersion = "2010-09-09"

// Template is a CloudFormation template.
type Template struct {
	AWSTemplateFormatVersion string               `json:"AWSTemplateFormatVersion"`
	Description              string               `json:"Description,omitempty"`
	Parameters               map[string]Parameter `json:"Parameters,omitempty"`
	Resources                map[string]Resource  `json:"Resources"`
	Outputs                  map[string]Output    `json:"Outputs,omitempty"`
}

// Parameter is a template parameter.
type Parameter struct {
	Type        string  `json:"Type"`
	Description string  `json:"Description,omitempty"`
	Default     *string `json:"Default,omitempty"`
	NoEcho      bool    `json:"NoEcho,omitempty"`
}

// Resource is a template resource.
type Resource struct {
	Type       string   `json:"Type"`
	Properties any      `json:"Properties"`
	DependsOn  []string `json:"DependsOn,omitempty"`
}

// Output is a template output.
type Output struct {
	Description string `json:"Description,omitempty"`
	Value       any    `json:"Value"`
}

// ResourcesOfType returns the logical ids of every resource of type typ.
func (t *Template) ResourcesOfType(typ string) []string {
	var ids []string
	for _, id := range sortedKeys(t.Resources) {
		if t.Resources[id].Type == typ {
			ids = append(ids, id)
		}
	}
	return ids
}

// Ref references a parameter or resource.
func Ref(logicalID string) map[string]any {
	return map[string]any{"Ref": logicalID}
}

// GetAtt reads an attribute of a resource.
func GetAtt(logicalID, attribute string) map[string]any {
	return map[string]any{"Fn::GetAtt": []string{logicalID, attribute}}
}

// Sub substitutes pseudo parameters into s at deploy time.
func Sub(s string) map[string]any {
	return map[string]any{"Fn::Sub": s}
}

// identifier renders an identifier, through Fn::Sub when it embeds pseudo parameters.
func identifier(id domain.Identifier) any {
	if id.Sub {
		return Sub(id.Value)
	}
	return id.Value
}
