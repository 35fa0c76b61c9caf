package form

import (
	"strings"

	"github.com/goliatone/go-formbind/pkg/fieldpath"
	"github.com/goliatone/go-formbind/pkg/model"
)

// ErrorMapping splits a server error payload into per-address and form-level
// messages keyed by the dotted addresses used throughout the binding engine.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MergeFormErrors concatenates and normalises multiple form-level error
// slices, trimming whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapServerErrors normalises a server error payload into addresses the tree
// can resolve. Keys that resolve to a field keep their messages there; keys
// that only partially resolve are attached to their deepest resolvable
// prefix. Unknown paths become form-level errors so messages are not lost.
func MapServerErrors(tree model.FieldTree, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{
		Fields: make(map[string][]string),
	}
	if len(payload) == 0 {
		mapping.Fields = nil
		return mapping
	}

	for rawPath, messages := range payload {
		normalized := normalizeMessages(messages)
		if len(normalized) == 0 {
			continue
		}

		address, ok := mapErrorPath(tree, rawPath)
		if !ok {
			mapping.Form = append(mapping.Form, normalized...)
			continue
		}
		mapping.Fields[address] = append(mapping.Fields[address], normalized...)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func mapErrorPath(tree model.FieldTree, raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if isFormLevelKey(trimmed) {
		return "", false
	}

	segments := fieldpath.Segments(trimmed)
	for end := len(segments); end > 0; end-- {
		candidate := strings.Join(segments[:end], ".")
		if _, err := resolveConfig(tree, candidate); err == nil {
			return candidate, true
		}
	}
	return "", false
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(key) {
	case "", "form", "_form", "base", "*":
		return true
	}
	return false
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
