package openapi

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formbind/pkg/model"
)

// messagesExtensionKey carries per-constraint custom message templates on a
// property schema.
const messagesExtensionKey = "x-messages"

// AdapterOptions configures document interpretation.
type AdapterOptions struct {
	// ResolveReferences validates the document and resolves internal $refs
	// before conversion.
	ResolveReferences bool
}

// Adapter converts OpenAPI component schemas into the declarative field
// trees the binding engine consumes. It is the bridge between the external
// schema layer and the engine's configuration model.
type Adapter struct {
	options AdapterOptions
}

// NewAdapter constructs an Adapter.
func NewAdapter(options AdapterOptions) *Adapter {
	return &Adapter{options: options}
}

// FieldTree extracts the named component schema from the document and
// normalizes it into a FieldTree. The schema must be an object; its
// properties become the root fields.
func (a *Adapter) FieldTree(ctx context.Context, doc Document, schemaName string) (model.FieldTree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if a.options.ResolveReferences {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}

	if spec.Components == nil || spec.Components.Schemas == nil {
		return nil, errors.New("openapi: document contains no component schemas")
	}
	ref, ok := spec.Components.Schemas[schemaName]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("openapi: schema %q not found", schemaName)
	}
	if !ref.Value.Type.Is(openapi3.TypeObject) {
		return nil, fmt.Errorf("openapi: schema %q is not an object", schemaName)
	}

	fields, err := objectFields(ref.Value)
	if err != nil {
		return nil, err
	}
	tree, err := model.NormalizeTree(fields)
	if err != nil {
		return nil, fmt.Errorf("openapi: schema %q: %w", schemaName, err)
	}
	return tree, nil
}

func objectFields(src *openapi3.Schema) (map[string]model.Field, error) {
	required := make(map[string]struct{}, len(src.Required))
	for _, name := range src.Required {
		required[name] = struct{}{}
	}

	fields := make(map[string]model.Field, len(src.Properties))
	for name, ref := range src.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		_, isRequired := required[name]
		field, err := convertProperty(name, ref.Value, isRequired)
		if err != nil {
			return nil, err
		}
		fields[name] = field
	}
	return fields, nil
}

func convertProperty(name string, src *openapi3.Schema, required bool) (model.Field, error) {
	switch {
	case src.Type.Is(openapi3.TypeObject):
		children, err := objectFields(src)
		if err != nil {
			return model.Field{}, err
		}
		return model.Field{
			Kind:     model.KindFieldset,
			Label:    labelFor(name, src),
			Fields:   children,
			Messages: messagesExtension(src),
		}, nil

	case src.Type.Is(openapi3.TypeArray):
		if src.Items == nil || src.Items.Value == nil || !src.Items.Value.Type.Is(openapi3.TypeObject) {
			return model.Field{}, fmt.Errorf("openapi: array property %q requires object items", name)
		}
		children, err := objectFields(src.Items.Value)
		if err != nil {
			return model.Field{}, err
		}
		field := model.Field{
			Kind:     model.KindListOfFieldset,
			Label:    labelFor(name, src),
			Fields:   children,
			Messages: messagesExtension(src),
		}
		// equal item bounds pin the list to a fixed size; everything else
		// stays dynamically controlled
		if src.MaxItems != nil && src.MinItems == *src.MaxItems {
			field.Count = int(src.MinItems)
		}
		return field, nil

	default:
		return controlField(name, src, required), nil
	}
}

func controlField(name string, src *openapi3.Schema, required bool) model.Field {
	field := model.Field{
		Kind:     model.KindControl,
		Type:     controlType(src),
		Label:    labelFor(name, src),
		Required: required,
		Pattern:  src.Pattern,
		Messages: messagesExtension(src),
	}

	if src.MinLength != 0 {
		field.MinLength = int(src.MinLength)
	}
	if src.MaxLength != nil {
		field.MaxLength = int(*src.MaxLength)
	}
	if src.Min != nil {
		field.Min = *src.Min
	}
	if src.Max != nil {
		field.Max = *src.Max
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

func controlType(src *openapi3.Schema) string {
	if len(src.Enum) > 0 {
		return "select"
	}
	switch {
	case src.Type.Is(openapi3.TypeBoolean):
		return "checkbox"
	case src.Type.Is(openapi3.TypeInteger), src.Type.Is(openapi3.TypeNumber):
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

func labelFor(name string, src *openapi3.Schema) string {
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

func messagesExtension(src *openapi3.Schema) map[string]string {
	raw, ok := src.Extensions[messagesExtensionKey]
	if !ok {
		return nil
	}
	values, ok := raw.(map[string]any)
	if !ok || len(values) == 0 {
		return nil
	}
	out := make(map[string]string, len(values))
	for constraint, value := range values {
		if text, ok := value.(string); ok && text != "" {
			out[constraint] = text
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
