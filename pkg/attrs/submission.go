package attrs

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formbind/pkg/repeater"
)

// HiddenField represents a hidden form input emitted alongside the visible
// controls, for example a structural directive carried by a non-button
// submitter.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// ForDirective encodes a structural list action as a hidden field pair.
func ForDirective(action repeater.Action) HiddenField {
	name, value := action.Encode()
	return HiddenField{Name: name, Value: value}
}

// MergeHiddenFields returns a copy of base with the provided fields applied.
// Later fields win; empty names are skipped.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	out := make(map[string]string, len(base)+len(fields))
	for name, value := range base {
		out[name] = value
	}
	for _, field := range fields {
		if field.Name == "" {
			continue
		}
		out[field.Name] = field.Value
	}
	return out
}
