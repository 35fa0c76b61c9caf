package validity

import (
	"fmt"

	"github.com/goliatone/go-formbind/pkg/model"
)

// Catalog supplies fallback message text for a violated constraint when the
// control cannot provide platform text and the field configuration carries no
// custom message.
type Catalog interface {
	Text(constraint string, cfg model.FieldConfig) string
}

// DefaultCatalog returns the built-in English catalog.
func DefaultCatalog() Catalog {
	return defaultCatalog{}
}

type defaultCatalog struct{}

func (defaultCatalog) Text(constraint string, cfg model.FieldConfig) string {
	switch constraint {
	case model.ConstraintRequired:
		return "Please fill out this field."
	case model.ConstraintType:
		return fmt.Sprintf("Please enter a valid %s.", typeNoun(cfg.Type))
	case model.ConstraintBadInput:
		return "Please enter a valid value."
	case model.ConstraintMinLength:
		if cfg.MinLength != nil {
			return fmt.Sprintf("Please lengthen this text to %d characters or more.", *cfg.MinLength)
		}
		return "This text is too short."
	case model.ConstraintMaxLength:
		if cfg.MaxLength != nil {
			return fmt.Sprintf("Please shorten this text to %d characters or less.", *cfg.MaxLength)
		}
		return "This text is too long."
	case model.ConstraintMin:
		if cfg.Min != "" {
			return fmt.Sprintf("Value must be greater than or equal to %s.", cfg.Min)
		}
		return "Value is too small."
	case model.ConstraintMax:
		if cfg.Max != "" {
			return fmt.Sprintf("Value must be less than or equal to %s.", cfg.Max)
		}
		return "Value is too large."
	case model.ConstraintStep:
		return "Please enter a valid value; the value does not match the allowed step."
	case model.ConstraintPattern:
		return "Please match the requested format."
	case model.ConstraintCustom:
		return "This value is invalid."
	default:
		return ""
	}
}

func typeNoun(controlType string) string {
	switch controlType {
	case "email":
		return "email address"
	case "url":
		return "URL"
	case "number":
		return "number"
	case "date", "datetime-local", "time", "month", "week":
		return "date"
	case "tel":
		return "phone number"
	default:
		return "value"
	}
}
