package repeater

import (
	"strconv"
	"strings"
)

// DirectiveField is the reserved submit-control name that marks a structural
// action. It must never collide with a user field key; the leading
// underscores keep it out of the dotted address namespace.
const DirectiveField = "__formbind_action"

const (
	insertTag = "insert"
	removeTag = "remove"
)

// Action is a structural list mutation carried by a non-validating submit
// control. The tagged variants keep the wire encoding (a name/value string
// pair) confined to Encode/Decode at the UI boundary.
type Action interface {
	// Encode returns the reserved name/value pair for the submit control.
	Encode() (name, value string)
	// List returns the address of the list the action targets.
	List() string

	isAction()
}

// Insert appends one element to the list at the given address.
type Insert struct {
	ListAddress string
}

func (a Insert) Encode() (string, string) {
	return DirectiveField, a.ListAddress + ":" + insertTag
}

func (a Insert) List() string { return a.ListAddress }
func (Insert) isAction()      {}

// Remove drops the element at Index from the list at the given address.
type Remove struct {
	ListAddress string
	Index       int
}

func (a Remove) Encode() (string, string) {
	return DirectiveField, a.ListAddress + ":" + removeTag + ":" + strconv.Itoa(a.Index)
}

func (a Remove) List() string { return a.ListAddress }
func (Remove) isAction()      {}

// IsStructural reports whether a submitter name carries the reserved
// directive field, regardless of whether its value decodes.
func IsStructural(name string) bool {
	return name == DirectiveField
}

// Decode parses a directive name/value pair back into its Action. A
// malformed value returns (nil, false); callers treat that as a no-op list
// mutation, never as an error to propagate.
func Decode(name, value string) (Action, bool) {
	if !IsStructural(name) {
		return nil, false
	}

	parts := strings.Split(value, ":")
	switch {
	case len(parts) == 2 && parts[1] == insertTag:
		if strings.TrimSpace(parts[0]) == "" {
			return nil, false
		}
		return Insert{ListAddress: parts[0]}, true
	case len(parts) == 3 && parts[1] == removeTag:
		if strings.TrimSpace(parts[0]) == "" {
			return nil, false
		}
		index, err := strconv.Atoi(parts[2])
		if err != nil || index < 0 {
			return nil, false
		}
		return Remove{ListAddress: parts[0], Index: index}, true
	default:
		return nil, false
	}
}
