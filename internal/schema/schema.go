package schema

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/url"
	"strconv"
	"strings"

	"github.com/qri-io/jsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Registry holds the compiled schema for every declared entity, keyed by
// schema title (Job, Application, User, Product). Schemas are compiled once
// at startup and never change.
type Registry struct {
	schemas map[string]*compiled
}

type compiled struct {
	schema   *jsonschema.Schema
	props    map[string]property
	required map[string]bool
}

type property struct {
	types      []string
	def        any
	hasDefault bool
	format     string
}

// NewRegistry compiles the embedded schema documents.
func NewRegistry() (*Registry, error) {
	entries, err := fs.ReadDir(schemaFS, "schemas")
	if err != nil {
		return nil, fmt.Errorf("read schemas dir: %w", err)
	}

	reg := &Registry{schemas: make(map[string]*compiled)}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}

		b, err := fs.ReadFile(schemaFS, "schemas/"+e.Name())
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", e.Name(), err)
		}

		rs := &jsonschema.Schema{}
		if err := json.Unmarshal(b, rs); err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", e.Name(), err)
		}

		title, props, required, err := parseProperties(b)
		if err != nil {
			return nil, fmt.Errorf("parse schema %s: %w", e.Name(), err)
		}
		if title == "" {
			return nil, fmt.Errorf("schema %s has no title", e.Name())
		}

		reg.schemas[title] = &compiled{schema: rs, props: props, required: required}
	}

	return reg, nil
}

// Names returns the registered schema names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.schemas))
	for n := range r.schemas {
		names = append(names, n)
	}

	return names
}

// Validate checks an untyped payload against a named schema and returns the
// validated record: unknown fields dropped, declared defaults filled in for
// absent fields, permissively coerced primitives. Failures are returned as a
// *ValidationError listing every violated field.
func (r *Registry) Validate(ctx context.Context, name string, payload map[string]any) (map[string]any, error) {
	c, ok := r.schemas[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", name)
	}

	out := make(map[string]any, len(c.props))
	for field, prop := range c.props {
		v, present := payload[field]
		switch {
		case present:
			out[field] = coerce(prop, v)
		case prop.hasDefault:
			out[field] = copyDefault(prop.def)
		case c.required[field]:
			// leave the key out so the required keyword reports it
		default:
			out[field] = nil
		}
	}

	b, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	verrs, err := c.schema.ValidateBytes(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("validate against %s: %w", name, err)
	}

	ve := &ValidationError{Schema: name}
	for _, v := range verrs {
		ve.Fields = append(ve.Fields, FieldError{
			Field:   strings.TrimPrefix(v.PropertyPath, "/"),
			Message: v.Message,
		})
	}

	// The uri format is annotation-only in the validator; enforce it here.
	for field, prop := range c.props {
		if prop.format != "uri" {
			continue
		}
		s, ok := out[field].(string)
		if !ok || s == "" {
			continue
		}
		if !wellFormedURL(s) {
			ve.Fields = append(ve.Fields, FieldError{Field: field, Message: "not a well-formed URL"})
		}
	}

	if len(ve.Fields) > 0 {
		return nil, ve
	}

	return out, nil
}

func wellFormedURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// coerce converts unambiguously convertible primitives toward the declared
// type and leaves everything else for the validator to reject.
func coerce(p property, v any) any {
	if v == nil {
		return nil
	}

	switch t := v.(type) {
	case string:
		if p.wants("number") || p.wants("integer") {
			if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
				return f
			}
		}
		if p.wants("boolean") && !p.wants("string") {
			if b, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil {
				return b
			}
		}
	case float64:
		if p.wants("string") && !p.wants("number") && !p.wants("integer") {
			return strconv.FormatFloat(t, 'f', -1, 64)
		}
	}

	return v
}

func (p property) wants(typeName string) bool {
	for _, t := range p.types {
		if t == typeName {
			return true
		}
	}

	return false
}

func copyDefault(def any) any {
	switch t := def.(type) {
	case []any:
		out := make([]any, len(t))
		copy(out, t)
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, v := range t {
			out[k] = copyDefault(v)
		}
		return out
	default:
		return t
	}
}

func parseProperties(b []byte) (string, map[string]property, map[string]bool, error) {
	var raw struct {
		Title      string                    `json:"title"`
		Properties map[string]map[string]any `json:"properties"`
		Required   []string                  `json:"required"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return "", nil, nil, err
	}

	props := make(map[string]property, len(raw.Properties))
	for field, p := range raw.Properties {
		var prop property
		switch t := p["type"].(type) {
		case string:
			prop.types = []string{t}
		case []any:
			for _, e := range t {
				if s, ok := e.(string); ok {
					prop.types = append(prop.types, s)
				}
			}
		}
		if def, ok := p["default"]; ok {
			prop.def = def
			prop.hasDefault = true
		}
		if f, ok := p["format"].(string); ok {
			prop.format = f
		}
		props[field] = prop
	}

	required := make(map[string]bool, len(raw.Required))
	for _, f := range raw.Required {
		required[f] = true
	}

	return raw.Title, props, required, nil
}
