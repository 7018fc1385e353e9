package inputs

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/vladcosorg/actiongen/internal/casing"
	"github.com/vladcosorg/actiongen/internal/metadata"
)

// NoDescription is used for properties without a description.
const NoDescription = "No description"

// Property is the descriptive part of a schema property.
type Property struct {
	// Description is nil when the schema has none. An empty description is
	// kept as is.
	Description *string
	Default     any
}

// Schema is the descriptive schema derived from a validator.
type Schema struct {
	Properties map[string]Property
	Required   []string
}

// FromDocument reads properties and required names from a JSON Schema
// document decoded into generic values.
func FromDocument(doc any) (*Schema, error) {
	root, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: schema is %T, not an object", ErrDerive, doc)
	}

	s := &Schema{Properties: map[string]Property{}}
	if raw, ok := root["properties"]; ok {
		props, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: properties is %T, not an object", ErrDerive, raw)
		}
		for name, p := range props {
			def, _ := p.(map[string]any)
			prop := Property{Default: normalizeNumber(def["default"])}
			if d, ok := def["description"].(string); ok {
				prop.Description = &d
			}
			s.Properties[name] = prop
		}
	}

	if raw, ok := root["required"]; ok {
		list, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: required is %T, not an array", ErrDerive, raw)
		}
		for _, r := range list {
			name, ok := r.(string)
			if !ok {
				return nil, fmt.Errorf("%w: required entry %v is not a string", ErrDerive, r)
			}
			s.Required = append(s.Required, name)
		}
	}
	return s, nil
}

// Declarations converts the schema into action.yml inputs keyed by the
// kebab-case property name.
func (s *Schema) Declarations() map[string]metadata.Input {
	required := make(map[string]bool, len(s.Required))
	for _, r := range s.Required {
		required[r] = true
	}

	out := make(map[string]metadata.Input, len(s.Properties))
	for name, p := range s.Properties {
		desc := NoDescription
		if p.Description != nil {
			desc = *p.Description
		}
		out[casing.Kebab(name)] = metadata.Input{
			Description: desc,
			Required:    required[name],
			Default:     p.Default,
		}
	}
	return out
}

// Names returns the property names, sorted.
func (s *Schema) Names() []string {
	names := make([]string, 0, len(s.Properties))
	for n := range s.Properties {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// normalizeNumber converts json.Number to int64 or float64.
func normalizeNumber(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
