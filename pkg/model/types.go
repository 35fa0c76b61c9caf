package model

// Kind selects which constraint set applies to a field configuration.
type Kind string

const (
	KindControl        Kind = "control"
	KindFieldset       Kind = "fieldset"
	KindListOfFieldset Kind = "list-of-fieldset"
)

// Constraint identifiers used to key custom messages and to report which
// check produced a validation message.
const (
	ConstraintRequired  = "required"
	ConstraintType      = "type"
	ConstraintBadInput  = "badInput"
	ConstraintMinLength = "minLength"
	ConstraintMaxLength = "maxLength"
	ConstraintMin       = "min"
	ConstraintMax       = "max"
	ConstraintStep      = "step"
	ConstraintPattern   = "pattern"
	ConstraintCustom    = "custom"
)

// Field is the caller-facing declarative description of one form input. The
// constraint attributes are deliberately loose (any) so schema layers can
// hand over whatever their source format produced; Normalize coerces them
// into the comparison-ready FieldConfig representation and rejects malformed
// values up front.
type Field struct {
	Kind      Kind              `json:"kind,omitempty"`
	Type      string            `json:"type,omitempty"`
	Label     string            `json:"label,omitempty"`
	Required  bool              `json:"required,omitempty"`
	Multiple  bool              `json:"multiple,omitempty"`
	MinLength any               `json:"minLength,omitempty"`
	MaxLength any               `json:"maxLength,omitempty"`
	Min       any               `json:"min,omitempty"`
	Max       any               `json:"max,omitempty"`
	Step      any               `json:"step,omitempty"`
	Pattern   string            `json:"pattern,omitempty"`
	Options   []Option          `json:"options,omitempty"`
	Count     any               `json:"count,omitempty"`
	Fields    map[string]Field  `json:"fields,omitempty"`
	Messages  map[string]string `json:"messages,omitempty"`
}

// Option is one allowed value for an enumerable control. Order is
// significant and preserved through normalization.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label,omitempty"`
}

// FieldConfig is the normalized, engine-internal representation of a Field.
// Exactly one constraint set applies, selected by Kind: control kinds carry
// the per-control constraint attributes, fieldset kinds carry children and an
// optional fixed Count. All bounds are stored in their comparison-ready
// string form (dates as canonical "2006-01-02", numbers as trimmed decimals).
type FieldConfig struct {
	Kind     Kind
	Type     string
	Label    string
	Required bool
	Multiple bool

	MinLength *int
	MaxLength *int
	Min       string
	Max       string
	Step      string
	Pattern   string
	Options   []Option

	Count  *int
	Fields FieldTree

	Messages map[string]string
}

// FieldTree maps field keys to their configurations. Keys are unique within
// their parent; insertion order is irrelevant for addressing. The tree is
// owned by the caller and only read by the engine.
type FieldTree map[string]FieldConfig

// IsControl reports whether the configuration describes a leaf control.
func (c FieldConfig) IsControl() bool {
	return c.Kind == KindControl
}

// IsList reports whether the configuration describes a repeated fieldset.
func (c FieldConfig) IsList() bool {
	return c.Kind == KindListOfFieldset
}

// Message returns the configured custom message template for a constraint,
// if any.
func (c FieldConfig) Message(constraint string) (string, bool) {
	msg, ok := c.Messages[constraint]
	return msg, ok
}
