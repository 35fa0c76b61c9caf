// Package controls provides an in-memory reference implementation of the
// live-control handle the registry binds to. It evaluates the standard
// constraint attributes the way a browser control would, which makes the
// engine drivable headless: in tests, in the CLI, or in server-side
// previews. UI layers targeting a real platform supply their own handle
// instead and this package stays out of the picture.
package controls

import (
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-formbind/pkg/model"
	"github.com/goliatone/go-formbind/pkg/validity"
)

// emailShape is the willful-violation email check: one @ with something on
// both sides, no whitespace.
var emailShape = regexp.MustCompile(`^[^@\s]+@[^@\s]+$`)

// Native is an in-memory control. The zero value is unusable; construct via
// New.
type Native struct {
	cfg   model.FieldConfig
	value string

	customValidity string
	disabled       bool
	catalog        validity.Catalog
}

// New constructs a control for one field configuration.
func New(cfg model.FieldConfig) *Native {
	return &Native{cfg: cfg, catalog: validity.DefaultCatalog()}
}

// SetDisabled toggles validation participation, like the disabled attribute.
func (c *Native) SetDisabled(disabled bool) { c.disabled = disabled }

// WillValidate reports whether the control participates in validation.
func (c *Native) WillValidate() bool { return !c.disabled }

// Value returns the current value.
func (c *Native) Value() string { return c.value }

// SetValue assigns the current value.
func (c *Native) SetValue(value string) { c.value = value }

// SetCustomValidity overrides the reported message; empty clears it.
func (c *Native) SetCustomValidity(message string) { c.customValidity = message }

// ValidationMessage returns the message the platform would report for the
// current state: a custom override wins, otherwise the default text for the
// first violated constraint.
func (c *Native) ValidationMessage() string {
	if c.customValidity != "" {
		return c.customValidity
	}
	state := c.Validity()
	constraint := state.FirstViolation()
	if constraint == "" {
		return ""
	}
	return c.catalog.Text(constraint, c.cfg)
}

// Validity evaluates the constraint attributes against the current value.
func (c *Native) Validity() validity.State {
	state := validity.State{CustomError: c.customValidity != ""}
	value := c.value

	if c.cfg.Required && strings.TrimSpace(value) == "" {
		state.ValueMissing = true
	}
	if value == "" {
		return state
	}

	switch c.cfg.Type {
	case "email":
		if !c.matchesEmail(value) {
			state.TypeMismatch = true
		}
	case "url":
		if !matchesURL(value) {
			state.TypeMismatch = true
		}
	case "number", "range":
		if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err != nil {
			state.BadInput = true
			return state
		}
	}

	length := utf8.RuneCountInString(value)
	if c.cfg.MinLength != nil && length < *c.cfg.MinLength {
		state.TooShort = true
	}
	if c.cfg.MaxLength != nil && length > *c.cfg.MaxLength {
		state.TooLong = true
	}

	c.checkRange(value, &state)
	c.checkPattern(value, &state)
	return state
}

func (c *Native) matchesEmail(value string) bool {
	if !c.cfg.Multiple {
		return emailShape.MatchString(value)
	}
	for _, part := range strings.Split(value, ",") {
		if !emailShape.MatchString(strings.TrimSpace(part)) {
			return false
		}
	}
	return true
}

// matchesURL requires an absolute URL: a scheme plus either a host or an
// opaque part (mailto:x@y has no host but is a valid url-input value).
func matchesURL(value string) bool {
	parsed, err := url.Parse(strings.TrimSpace(value))
	if err != nil {
		return false
	}
	return parsed.Scheme != "" && (parsed.Host != "" || parsed.Opaque != "")
}

func (c *Native) checkRange(value string, state *validity.State) {
	switch c.cfg.Type {
	case "number", "range":
		current, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return
		}
		var lo float64
		haveLo := false
		if c.cfg.Min != "" {
			if parsed, err := strconv.ParseFloat(c.cfg.Min, 64); err == nil {
				lo, haveLo = parsed, true
				if current < lo {
					state.RangeUnderflow = true
				}
			}
		}
		if c.cfg.Max != "" {
			if hi, err := strconv.ParseFloat(c.cfg.Max, 64); err == nil && current > hi {
				state.RangeOverflow = true
			}
		}
		if c.cfg.Step != "" && c.cfg.Step != "any" {
			if step, err := strconv.ParseFloat(c.cfg.Step, 64); err == nil && step > 0 {
				base := 0.0
				if haveLo {
					base = lo
				}
				ratio := (current - base) / step
				if diff := ratio - math.Round(ratio); diff > 1e-9 || diff < -1e-9 {
					state.StepMismatch = true
				}
			}
		}
	case "date", "datetime-local", "time", "month", "week":
		// canonical layouts compare lexicographically
		if c.cfg.Min != "" && value < c.cfg.Min {
			state.RangeUnderflow = true
		}
		if c.cfg.Max != "" && value > c.cfg.Max {
			state.RangeOverflow = true
		}
	}
}

func (c *Native) checkPattern(value string, state *validity.State) {
	if c.cfg.Pattern == "" {
		return
	}
	// the pattern compiled during normalization; anchor it over the whole
	// value like the platform does
	re, err := regexp.Compile("^(?:" + c.cfg.Pattern + ")$")
	if err != nil {
		return
	}
	if !re.MatchString(value) {
		state.PatternMismatch = true
	}
}
