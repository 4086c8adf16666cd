package template

import (
	"encoding/json"
	"fmt"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// encodeHCL writes the template as parameter, resource and output blocks.
// Resource properties keep their CloudFormation names; keys that are not
// HCL identifiers, such as intrinsic functions, are quoted.
func encodeHCL(t *Template) ([]byte, error) {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	body.SetAttributeValue("format_version", cty.StringVal(t.AWSTemplateFormatVersion))
	if t.Description != "" {
		body.SetAttributeValue("description", cty.StringVal(t.Description))
	}

	for _, id := range sortedKeys(t.Parameters) {
		p := t.Parameters[id]
		body.AppendNewline()
		b := body.AppendNewBlock("parameter", []string{id}).Body()
		b.SetAttributeValue("type", cty.StringVal(p.Type))
		if p.Description != "" {
			b.SetAttributeValue("description", cty.StringVal(p.Description))
		}
		if p.Default != nil {
			b.SetAttributeValue("default", cty.StringVal(*p.Default))
		}
		if p.NoEcho {
			b.SetAttributeValue("no_echo", cty.True)
		}
	}

	for _, id := range sortedKeys(t.Resources) {
		r := t.Resources[id]
		props, err := ctyValue(r.Properties)
		if err != nil {
			return nil, fmt.Errorf("resource %s: %w", id, err)
		}
		body.AppendNewline()
		b := body.AppendNewBlock("resource", []string{r.Type, id}).Body()
		if len(r.DependsOn) > 0 {
			deps := make([]cty.Value, 0, len(r.DependsOn))
			for _, d := range r.DependsOn {
				deps = append(deps, cty.StringVal(d))
			}
			b.SetAttributeValue("depends_on", cty.ListVal(deps))
		}
		b.SetAttributeValue("properties", props)
	}

	for _, id := range sortedKeys(t.Outputs) {
		o := t.Outputs[id]
		value, err := ctyValue(o.Value)
		if err != nil {
			return nil, fmt.Errorf("output %s: %w", id, err)
		}
		body.AppendNewline()
		b := body.AppendNewBlock("output", []string{id}).Body()
		if o.Description != "" {
			b.SetAttributeValue("description", cty.StringVal(o.Description))
		}
		b.SetAttributeValue("value", value)
	}

	return hclwrite.Format(f.Bytes()), nil
}

// ctyValue converts v to a cty value through its JSON form.
func ctyValue(v any) (cty.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return cty.NilVal, fmt.Errorf("marshaling value: %w", err)
	}
	ty, err := ctyjson.ImpliedType(data)
	if err != nil {
		return cty.NilVal, fmt.Errorf("inferring type: %w", err)
	}
	val, err := ctyjson.Unmarshal(data, ty)
	if err != nil {
		return cty.NilVal, fmt.Errorf("converting value: %w", err)
	}
	return val, nil
}
