package template

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/guardian/uk-coronavirus-data-alerts/internal/domain"
	"gopkg.in/yaml.v3"
)

// Format is a template encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
)

// ParseFormat parses a format name. An empty name selects JSON.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatYAML, FormatHCL:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported format %q: %w", s, domain.ErrInvalidInput)
	}
}

// Extension returns the file extension for the format.
func (f Format) Extension() string {
	return string(f)
}

// ContentType returns the media type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatHCL:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Encode encodes t. The output depends only on t, so equal templates encode to identical bytes.
func Encode(t *Template, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return encodeJSON(t)
	case FormatYAML:
		return encodeYAML(t)
	case FormatHCL:
		return encodeHCL(t)
	default:
		return nil, fmt.Errorf("unsupported format %q: %w", f, domain.ErrInvalidInput)
	}
}

func encodeJSON(t *Template) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return nil, fmt.Errorf("encoding json: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeYAML(t *Template) ([]byte, error) {
	doc, err := generic(t)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// generic converts v to maps, slices and scalars through its JSON form.
// Integral numbers stay integers.
func generic(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling template: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding template: %w", err)
	}
	return normalizeNumbers(out), nil
}

func normalizeNumbers(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, e := range x {
			x[k] = normalizeNumbers(e)
		}
		return x
	case []any:
		for i, e := range x {
			x[i] = normalizeNumbers(e)
		}
		return x
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	default:
		return v
	}
}
