package model

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	errCountNotInteger  = errors.New("model: count must be a non-negative integer")
	errCountOnControl   = errors.New("model: count is only valid on fieldset kinds")
	errMissingChildren  = errors.New("model: fieldset kinds require child fields")
	errChildrenOnLeaf   = errors.New("model: control kinds cannot carry child fields")
	errLengthNegative   = errors.New("model: length constraints must be non-negative")
	errLengthInverted   = errors.New("model: minLength exceeds maxLength")
	errBoundsInverted   = errors.New("model: min exceeds max")
	errOptionsOnNonEnum = errors.New("model: options require an enumerable control type")
	errUnknownKind      = errors.New("model: unknown field kind")
)

// enumerable control types that may carry an options list.
var enumerableTypes = map[string]struct{}{
	"select": {},
	"radio":  {},
}

// dateLayouts maps temporal control types to their canonical value layout.
// week is absent on purpose: yyyy-Www is not expressible as a time layout
// (the week number is not a calendar field) and is parsed explicitly.
var dateLayouts = map[string]string{
	"date":           "2006-01-02",
	"datetime-local": "2006-01-02T15:04",
	"time":           "15:04",
	"month":          "2006-01",
}

// NormalizeTree normalizes every field in a raw tree, failing fast on the
// first malformed configuration. Keys are visited in sorted order so error
// reporting is deterministic.
func NormalizeTree(raw map[string]Field) (FieldTree, error) {
	if len(raw) == 0 {
		return FieldTree{}, nil
	}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	tree := make(FieldTree, len(raw))
	for _, key := range keys {
		if strings.TrimSpace(key) == "" {
			return nil, errors.New("model: field key cannot be empty")
		}
		cfg, err := Normalize(raw[key])
		if err != nil {
			return nil, fmt.Errorf("model: field %q: %w", key, err)
		}
		tree[key] = cfg
	}
	return tree, nil
}

// Normalize coerces a declarative Field into its engine-internal FieldConfig,
// with every constraint attribute brought into comparison-ready form.
// Malformed configurations fail here, at setup, never during interaction.
func Normalize(raw Field) (FieldConfig, error) {
	kind := raw.Kind
	if kind == "" {
		if len(raw.Fields) > 0 {
			kind = KindFieldset
		} else {
			kind = KindControl
		}
	}

	switch kind {
	case KindControl:
		return normalizeControl(raw)
	case KindFieldset, KindListOfFieldset:
		return normalizeFieldset(kind, raw)
	default:
		return FieldConfig{}, fmt.Errorf("%w: %q", errUnknownKind, kind)
	}
}

func normalizeControl(raw Field) (FieldConfig, error) {
	if raw.Count != nil {
		return FieldConfig{}, errCountOnControl
	}
	if len(raw.Fields) > 0 {
		return FieldConfig{}, errChildrenOnLeaf
	}

	controlType := strings.TrimSpace(raw.Type)
	if controlType == "" {
		controlType = "text"
	}

	cfg := FieldConfig{
		Kind:     KindControl,
		Type:     controlType,
		Label:    strings.TrimSpace(raw.Label),
		Required: raw.Required,
		Multiple: raw.Multiple,
		Pattern:  strings.TrimSpace(raw.Pattern),
	}

	if cfg.Pattern != "" {
		if _, err := regexp.Compile(cfg.Pattern); err != nil {
			return FieldConfig{}, fmt.Errorf("model: invalid pattern %q: %w", cfg.Pattern, err)
		}
	}

	var err error
	if cfg.MinLength, err = intValue("minLength", raw.MinLength); err != nil {
		return FieldConfig{}, err
	}
	if cfg.MaxLength, err = intValue("maxLength", raw.MaxLength); err != nil {
		return FieldConfig{}, err
	}
	if (cfg.MinLength != nil && *cfg.MinLength < 0) || (cfg.MaxLength != nil && *cfg.MaxLength < 0) {
		return FieldConfig{}, errLengthNegative
	}
	if cfg.MinLength != nil && cfg.MaxLength != nil && *cfg.MinLength > *cfg.MaxLength {
		return FieldConfig{}, errLengthInverted
	}

	if cfg.Min, err = boundValue("min", raw.Min, controlType); err != nil {
		return FieldConfig{}, err
	}
	if cfg.Max, err = boundValue("max", raw.Max, controlType); err != nil {
		return FieldConfig{}, err
	}
	if cfg.Step, err = boundValue("step", raw.Step, controlType); err != nil {
		return FieldConfig{}, err
	}
	if err := checkBoundOrder(cfg.Min, cfg.Max, controlType); err != nil {
		return FieldConfig{}, err
	}

	if len(raw.Options) > 0 {
		if _, ok := enumerableTypes[controlType]; !ok {
			return FieldConfig{}, fmt.Errorf("%w (got %q)", errOptionsOnNonEnum, controlType)
		}
		cfg.Options = make([]Option, len(raw.Options))
		copy(cfg.Options, raw.Options)
	}

	if cfg.Messages, err = normalizeMessages(raw.Messages); err != nil {
		return FieldConfig{}, err
	}
	return cfg, nil
}

func normalizeFieldset(kind Kind, raw Field) (FieldConfig, error) {
	if raw.MinLength != nil || raw.MaxLength != nil || raw.Min != nil || raw.Max != nil ||
		raw.Step != nil || raw.Pattern != "" || len(raw.Options) > 0 {
		return FieldConfig{}, fmt.Errorf("model: control constraints are not valid on %s kinds", kind)
	}
	if len(raw.Fields) == 0 {
		return FieldConfig{}, errMissingChildren
	}

	cfg := FieldConfig{
		Kind:  kind,
		Label: strings.TrimSpace(raw.Label),
	}

	var err error
	if cfg.Count, err = intValue("count", raw.Count); err != nil {
		return FieldConfig{}, err
	}
	if cfg.Count != nil && *cfg.Count < 0 {
		return FieldConfig{}, errCountNotInteger
	}

	if cfg.Fields, err = NormalizeTree(raw.Fields); err != nil {
		return FieldConfig{}, err
	}
	if cfg.Messages, err = normalizeMessages(raw.Messages); err != nil {
		return FieldConfig{}, err
	}
	return cfg, nil
}

func normalizeMessages(raw map[string]string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	known := map[string]struct{}{
		ConstraintRequired:  {},
		ConstraintType:      {},
		ConstraintBadInput:  {},
		ConstraintMinLength: {},
		ConstraintMaxLength: {},
		ConstraintMin:       {},
		ConstraintMax:       {},
		ConstraintStep:      {},
		ConstraintPattern:   {},
		ConstraintCustom:    {},
	}
	out := make(map[string]string, len(raw))
	for constraint, msg := range raw {
		if _, ok := known[constraint]; !ok {
			return nil, fmt.Errorf("model: unknown message constraint %q", constraint)
		}
		out[constraint] = msg
	}
	return out, nil
}

func intValue(attr string, raw any) (*int, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case int:
		return &v, nil
	case int64:
		n := int(v)
		return &n, nil
	case float64:
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("model: %s must be an integer, got %v", attr, v)
		}
		n := int(v)
		return &n, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("model: %s must be an integer, got %q", attr, v)
		}
		return &n, nil
	default:
		return nil, fmt.Errorf("model: %s must be an integer, got %T", attr, raw)
	}
}

// boundValue coerces a min/max/step attribute into its canonical string form
// so later comparisons never need to re-parse the source representation.
func boundValue(attr string, raw any, controlType string) (string, error) {
	if raw == nil {
		return "", nil
	}

	if controlType == "week" {
		return weekBound(attr, raw)
	}
	if layout, ok := dateLayouts[controlType]; ok {
		return dateBound(attr, raw, layout)
	}

	switch v := raw.(type) {
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return "", nil
		}
		if attr == "step" && strings.EqualFold(trimmed, "any") {
			return "any", nil
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return "", fmt.Errorf("model: %s must be numeric, got %q", attr, v)
		}
		return strconv.FormatFloat(parsed, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("model: %s has unsupported type %T", attr, raw)
	}
}

func dateBound(attr string, raw any, layout string) (string, error) {
	switch v := raw.(type) {
	case time.Time:
		return v.Format(layout), nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return "", nil
		}
		parsed, err := time.Parse(layout, trimmed)
		if err != nil {
			return "", fmt.Errorf("model: %s is not a valid %q value: %q", attr, layout, v)
		}
		return parsed.Format(layout), nil
	default:
		return "", fmt.Errorf("model: %s has unsupported type %T", attr, raw)
	}
}

func weekBound(attr string, raw any) (string, error) {
	v, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("model: %s has unsupported type %T", attr, raw)
	}
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return "", nil
	}
	canonical, ok := parseWeek(trimmed)
	if !ok {
		return "", fmt.Errorf("model: %s is not a valid week value: %q", attr, v)
	}
	return canonical, nil
}

// parseWeek validates the yyyy-Www form and returns it zero-padded so week
// strings sort lexicographically. ISO weeks run 1 through 53.
func parseWeek(s string) (string, bool) {
	yearPart, weekPart, found := strings.Cut(s, "-W")
	if !found || len(yearPart) != 4 || len(weekPart) == 0 || len(weekPart) > 2 {
		return "", false
	}
	year, err := strconv.Atoi(yearPart)
	if err != nil || year < 1 {
		return "", false
	}
	week, err := strconv.Atoi(weekPart)
	if err != nil || week < 1 || week > 53 {
		return "", false
	}
	return fmt.Sprintf("%04d-W%02d", year, week), true
}

func checkBoundOrder(min, max, controlType string) error {
	if min == "" || max == "" {
		return nil
	}
	if controlType == "week" {
		if min > max {
			return errBoundsInverted
		}
		return nil
	}
	if _, ok := dateLayouts[controlType]; ok {
		// canonical layouts sort lexicographically
		if min > max {
			return errBoundsInverted
		}
		return nil
	}
	lo, err1 := strconv.ParseFloat(min, 64)
	hi, err2 := strconv.ParseFloat(max, 64)
	if err1 == nil && err2 == nil && lo > hi {
		return errBoundsInverted
	}
	return nil
}
