// Package attrs produces the flat control and form attribute sets a UI layer
// applies when mounting the tree. Constraint attributes are taken verbatim
// from the normalized field configuration; the engine never re-interprets
// them at interaction time.
package attrs

import (
	"strconv"

	"github.com/goliatone/go-formbind/pkg/model"
)

// ControlAttrs is the attribute set for one addressable control.
type ControlAttrs struct {
	Name     string
	Type     string
	Required bool
	Multiple bool

	MinLength *int
	MaxLength *int
	Min       string
	Max       string
	Step      string
	Pattern   string
	Options   []model.Option
}

// FormAttrs is the attribute set for the form element itself.
type FormAttrs struct {
	// NoValidate is forced true once the engine owns the form: the platform's
	// own pre-submission UI would race the gate's message timing.
	NoValidate bool
	Method     string
	Action     string
}

// ForControl derives the attributes for a control at the given address.
func ForControl(address string, cfg model.FieldConfig) ControlAttrs {
	return ControlAttrs{
		Name:      address,
		Type:      cfg.Type,
		Required:  cfg.Required,
		Multiple:  cfg.Multiple,
		MinLength: cfg.MinLength,
		MaxLength: cfg.MaxLength,
		Min:       cfg.Min,
		Max:       cfg.Max,
		Step:      cfg.Step,
		Pattern:   cfg.Pattern,
		Options:   cfg.Options,
	}
}

// ForForm derives the form-level attributes. The caller's noValidate intent
// is recorded but the engine takes over after first mount, so the produced
// value is always true.
func ForForm(method, action string) FormAttrs {
	return FormAttrs{
		NoValidate: true,
		Method:     method,
		Action:     action,
	}
}

// Map flattens the attributes into canonical HTML attribute names for UI
// layers that consume string maps. Unset attributes are omitted; boolean
// attributes carry their own name as value.
func (a ControlAttrs) Map() map[string]string {
	out := map[string]string{
		"name": a.Name,
	}
	if a.Type != "" {
		out["type"] = a.Type
	}
	if a.Required {
		out["required"] = "required"
	}
	if a.Multiple {
		out["multiple"] = "multiple"
	}
	if a.MinLength != nil {
		out["minlength"] = strconv.Itoa(*a.MinLength)
	}
	if a.MaxLength != nil {
		out["maxlength"] = strconv.Itoa(*a.MaxLength)
	}
	if a.Min != "" {
		out["min"] = a.Min
	}
	if a.Max != "" {
		out["max"] = a.Max
	}
	if a.Step != "" {
		out["step"] = a.Step
	}
	if a.Pattern != "" {
		out["pattern"] = a.Pattern
	}
	return out
}
