// Package jsonschema converts JSON Schema documents into declarative field
// trees. It covers the draft-07 object vocabulary the binding engine needs;
// combinators (allOf, oneOf) and external references are out of scope.
package jsonschema

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbind/pkg/model"
)

// messagesKey carries per-constraint custom message templates on a property.
const messagesKey = "x-messages"

type schemaNode struct {
	Schema      string                `json:"$schema"`
	Ref         string                `json:"$ref"`
	Type        string                `json:"type"`
	Title       string                `json:"title"`
	Format      string                `json:"format"`
	Pattern     string                `json:"pattern"`
	MinLength   *int                  `json:"minLength"`
	MaxLength   *int                  `json:"maxLength"`
	Minimum     *float64              `json:"minimum"`
	Maximum     *float64              `json:"maximum"`
	MultipleOf  *float64              `json:"multipleOf"`
	Enum        []any                 `json:"enum"`
	Required    []string              `json:"required"`
	Properties  map[string]schemaNode `json:"properties"`
	Items       *schemaNode           `json:"items"`
	MinItems    *int                  `json:"minItems"`
	MaxItems    *int                  `json:"maxItems"`
	Definitions map[string]schemaNode `json:"definitions"`
	Defs        map[string]schemaNode `json:"$defs"`
	Messages    map[string]string     `json:"x-messages"`
}

// Detect reports whether the raw payload appears to be a JSON Schema
// document.
func Detect(raw []byte) bool {
	var probe struct {
		Schema     string          `json:"$schema"`
		Properties json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return false
	}
	return strings.Contains(probe.Schema, "json-schema.org") || len(probe.Properties) > 0
}

// FieldTree parses a JSON Schema document and normalizes its object
// properties into a FieldTree. When name is empty the root schema is used;
// otherwise the named entry from definitions or $defs.
func FieldTree(ctx context.Context, raw []byte, name string) (model.FieldTree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var root schemaNode
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("jsonschema: parse document: %w", err)
	}

	node := root
	if name != "" {
		def, ok := root.Definitions[name]
		if !ok {
			def, ok = root.Defs[name]
		}
		if !ok {
			return nil, fmt.Errorf("jsonschema: definition %q not found", name)
		}
		node = def
	}
	node = resolveRef(root, node)

	if node.Type != "" && node.Type != "object" {
		return nil, errors.New("jsonschema: root schema is not an object")
	}

	fields, err := objectFields(root, node)
	if err != nil {
		return nil, err
	}
	tree, err := model.NormalizeTree(fields)
	if err != nil {
		return nil, fmt.Errorf("jsonschema: %w", err)
	}
	return tree, nil
}

// only local definition refs are supported; anything else passes through
// untouched and surfaces as a conversion error downstream
func resolveRef(root, node schemaNode) schemaNode {
	if node.Ref == "" {
		return node
	}
	for _, prefix := range []string{"#/definitions/", "#/$defs/"} {
		if !strings.HasPrefix(node.Ref, prefix) {
			continue
		}
		name := strings.TrimPrefix(node.Ref, prefix)
		if def, ok := root.Definitions[name]; ok {
			return def
		}
		if def, ok := root.Defs[name]; ok {
			return def
		}
	}
	return node
}

func objectFields(root, src schemaNode) (map[string]model.Field, error) {
	required := make(map[string]struct{}, len(src.Required))
	for _, name := range src.Required {
		required[name] = struct{}{}
	}

	fields := make(map[string]model.Field, len(src.Properties))
	for name, prop := range src.Properties {
		prop = resolveRef(root, prop)
		_, isRequired := required[name]
		field, err := convertProperty(root, name, prop, isRequired)
		if err != nil {
			return nil, err
		}
		fields[name] = field
	}
	return fields, nil
}

func convertProperty(root schemaNode, name string, src schemaNode, required bool) (model.Field, error) {
	switch src.Type {
	case "object":
		children, err := objectFields(root, src)
		if err != nil {
			return model.Field{}, err
		}
		return model.Field{
			Kind:     model.KindFieldset,
			Label:    labelFor(name, src),
			Fields:   children,
			Messages: src.Messages,
		}, nil

	case "array":
		if src.Items == nil {
			return model.Field{}, fmt.Errorf("jsonschema: array property %q has no items", name)
		}
		items := resolveRef(root, *src.Items)
		if items.Type != "object" {
			return model.Field{}, fmt.Errorf("jsonschema: array property %q requires object items", name)
		}
		children, err := objectFields(root, items)
		if err != nil {
			return model.Field{}, err
		}
		field := model.Field{
			Kind:     model.KindListOfFieldset,
			Label:    labelFor(name, src),
			Fields:   children,
			Messages: src.Messages,
		}
		if src.MinItems != nil && src.MaxItems != nil && *src.MinItems == *src.MaxItems {
			field.Count = *src.MinItems
		}
		return field, nil

	default:
		return controlField(name, src, required), nil
	}
}

func controlField(name string, src schemaNode, required bool) model.Field {
	field := model.Field{
		Kind:     model.KindControl,
		Type:     controlType(src),
		Label:    labelFor(name, src),
		Required: required,
		Pattern:  src.Pattern,
		Messages: src.Messages,
	}
	if src.MinLength != nil {
		field.MinLength = *src.MinLength
	}
	if src.MaxLength != nil {
		field.MaxLength = *src.MaxLength
	}
	if src.Minimum != nil {
		field.Min = *src.Minimum
	}
	if src.Maximum != nil {
		field.Max = *src.Maximum
	}
	if src.MultipleOf != nil {
		field.Step = *src.MultipleOf
	}
	if len(src.Enum) > 0 {
		options := make([]model.Option, 0, len(src.Enum))
		for _, value := range src.Enum {
			options = append(options, model.Option{Value: enumValue(value)})
		}
		field.Options = options
	}
	return field
}

func controlType(src schemaNode) string {
	if len(src.Enum) > 0 {
		return "select"
	}
	switch src.Type {
	case "boolean":
		return "checkbox"
	case "integer", "number":
		return "number"
	}
	switch src.Format {
	case "email":
		return "email"
	case "uri", "url":
		return "url"
	case "date":
		return "date"
	case "date-time":
		return "datetime-local"
	case "time":
		return "time"
	case "password":
		return "password"
	default:
		return "text"
	}
}

func labelFor(name string, src schemaNode) string {
	if src.Title != "" {
		return src.Title
	}
	return name
}

func enumValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
