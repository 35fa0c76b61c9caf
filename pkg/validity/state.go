package validity

import "github.com/goliatone/go-formbind/pkg/model"

// State mirrors the platform-reported constraint-violation flags for one
// control. The zero value is fully valid.
type State struct {
	ValueMissing    bool
	TypeMismatch    bool
	BadInput        bool
	TooShort        bool
	TooLong         bool
	RangeUnderflow  bool
	RangeOverflow   bool
	StepMismatch    bool
	PatternMismatch bool
	CustomError     bool
}

// Valid reports whether no violation flag is set.
func (s State) Valid() bool {
	return s == State{}
}

// flagOrder fixes the evaluation priority: the missing-value check first,
// then type/format problems, then range/step/pattern checks, with the
// caller-supplied custom error last. Exactly one message is synthesized per
// evaluation, first match wins.
var flagOrder = []struct {
	constraint string
	set        func(State) bool
}{
	{model.ConstraintRequired, func(s State) bool { return s.ValueMissing }},
	{model.ConstraintType, func(s State) bool { return s.TypeMismatch }},
	{model.ConstraintBadInput, func(s State) bool { return s.BadInput }},
	{model.ConstraintMinLength, func(s State) bool { return s.TooShort }},
	{model.ConstraintMaxLength, func(s State) bool { return s.TooLong }},
	{model.ConstraintMin, func(s State) bool { return s.RangeUnderflow }},
	{model.ConstraintMax, func(s State) bool { return s.RangeOverflow }},
	{model.ConstraintStep, func(s State) bool { return s.StepMismatch }},
	{model.ConstraintPattern, func(s State) bool { return s.PatternMismatch }},
	{model.ConstraintCustom, func(s State) bool { return s.CustomError }},
}

// FirstViolation returns the constraint identifier of the highest-priority
// flag currently set, or "" when the state is valid.
func (s State) FirstViolation() string {
	for _, entry := range flagOrder {
		if entry.set(s) {
			return entry.constraint
		}
	}
	return ""
}

// Status is the tri-state message lifecycle for a bound control. A binding
// starts Unknown until its first evaluation; afterwards it is either Valid
// (empty message) or Invalid (message present). The engine resets custom
// validity before every re-evaluation, so no sentinel message string is ever
// compared to decide whether a previous message should be cleared.
type Status int

const (
	StatusUnknown Status = iota
	StatusValid
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}
