package toolexec

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/xeipuuv/gojsonschema"
)

// Parameter defines a single tool parameter.
type Parameter struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"` // string, integer, number, boolean
	Description string      `json:"description"`
	Required    bool        `json:"required"`
	Default     interface{} `json:"default,omitempty"`
	Minimum     *float64    `json:"minimum,omitempty"`
	Maximum     *float64    `json:"maximum,omitempty"`
	Enum        []string    `json:"enum,omitempty"`
}

// Handler is the function signature for tool execution.
type Handler func(ctx context.Context, args map[string]interface{}) (interface{}, error)

// Definition defines a tool's contract and implementation.
type Definition struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
	Handler     Handler     `json:"-"`
}

// InputSchema returns the JSON Schema for the tool's arguments as a plain
// map, the shape both the validator and the model providers consume.
func (d Definition) InputSchema() map[string]interface{} {
	properties := make(map[string]interface{}, len(d.Parameters))
	required := []string{}

	for _, p := range d.Parameters {
		prop := map[string]interface{}{
			"type":        p.Type,
			"description": p.Description,
		}
		if p.Default != nil {
			prop["default"] = p.Default
		}
		if p.Minimum != nil {
			prop["minimum"] = *p.Minimum
		}
		if p.Maximum != nil {
			prop["maximum"] = *p.Maximum
		}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		properties[p.Name] = prop

		if p.Required {
			required = append(required, p.Name)
		}
	}

	schema := map[string]interface{}{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// Registry is an immutable mapping from tool name to definition and compiled
// schema, built once per agent configuration.
type Registry struct {
	defs    map[string]*Definition
	schemas map[string]*gojsonschema.Schema
	names   []string
}

// NewRegistry validates and compiles the definitions. The set is closed
// after construction.
func NewRegistry(defs []Definition) (*Registry, error) {
	r := &Registry{
		defs:    make(map[string]*Definition, len(defs)),
		schemas: make(map[string]*gojsonschema.Schema, len(defs)),
	}

	for i := range defs {
		def := defs[i]
		if err := validateDefinition(def); err != nil {
			return nil, fmt.Errorf("invalid tool definition: %w", err)
		}
		if _, exists := r.defs[def.Name]; exists {
			return nil, fmt.Errorf("duplicate tool name: %s", def.Name)
		}

		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(def.InputSchema()))
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema for %s: %w", def.Name, err)
		}

		r.defs[def.Name] = &def
		r.schemas[def.Name] = schema
		r.names = append(r.names, def.Name)
	}

	sort.Strings(r.names)
	log.Info().Int("tools", len(r.names)).Msg("Tool registry built")

	return r, nil
}

// Get returns a tool definition by name, or nil when unknown.
func (r *Registry) Get(name string) *Definition {
	return r.defs[name]
}

// Names returns all registered tool names in lexical order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Definitions returns the registered definitions in lexical name order.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, *r.defs[name])
	}
	return out
}

func validateDefinition(def Definition) error {
	if def.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if def.Description == "" {
		return fmt.Errorf("tool description cannot be empty for %s", def.Name)
	}
	if def.Handler == nil {
		return fmt.Errorf("tool handler cannot be nil for %s", def.Name)
	}

	validTypes := map[string]bool{
		"string": true, "number": true, "boolean": true, "integer": true,
	}
	for _, p := range def.Parameters {
		if p.Name == "" {
			return fmt.Errorf("parameter name cannot be empty in %s", def.Name)
		}
		if !validTypes[p.Type] {
			return fmt.Errorf("invalid parameter type %s for %s.%s", p.Type, def.Name, p.Name)
		}
		if p.Description == "" {
			return fmt.Errorf("parameter description cannot be empty for %s.%s", def.Name, p.Name)
		}
	}
	return nil
}
