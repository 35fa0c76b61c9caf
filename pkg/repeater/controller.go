package repeater

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formbind/pkg/fieldpath"
	"github.com/goliatone/go-formbind/pkg/model"
)

var errNotAList = errors.New("repeater: configuration is not a list-of-fieldset")

// SubmitControl describes the attributes a UI layer must place on an
// append/remove button: the reserved directive name/value pair plus the
// validation-exempt flag so required-but-empty sibling fields never block the
// structural operation.
type SubmitControl struct {
	Name           string
	Value          string
	FormNoValidate bool
}

// Controller manages the key sequence for one dynamically sized
// list-of-fieldset and produces the structural submit controls that mutate
// it. Fixed-count lists never get a controller.
type Controller struct {
	address string
	config  model.FieldConfig
	keys    *KeySequence
}

// NewController builds a controller for the list at address, seeded with the
// external value array's current length.
func NewController(address string, cfg model.FieldConfig, length int) (*Controller, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, errors.New("repeater: list address is required")
	}
	if !cfg.IsList() {
		return nil, fmt.Errorf("%w: %q", errNotAList, address)
	}
	if cfg.Count != nil {
		return nil, fmt.Errorf("repeater: list %q has a fixed count and cannot be controlled dynamically", address)
	}
	return &Controller{
		address: address,
		config:  cfg,
		keys:    NewKeySequence(length),
	}, nil
}

// Address returns the list's own address.
func (c *Controller) Address() string { return c.address }

// Len returns the number of live elements.
func (c *Controller) Len() int { return c.keys.Len() }

// Keys returns the stable element keys in order.
func (c *Controller) Keys() []Key { return c.keys.Keys() }

// ElementAddress computes the positional address of one element,
// e.g. "chapters[2]".
func (c *Controller) ElementAddress(index int) string {
	return fieldpath.Indexed(c.address, index)
}

// Reconcile aligns the key sequence with the external value array length.
func (c *Controller) Reconcile(length int) {
	c.keys.Reconcile(length)
}

// AppendControl returns the submit control that requests one more element.
func (c *Controller) AppendControl() SubmitControl {
	name, value := Insert{ListAddress: c.address}.Encode()
	return SubmitControl{Name: name, Value: value, FormNoValidate: true}
}

// RemoveControl returns the submit control that requests removal of the
// element at index.
func (c *Controller) RemoveControl(index int) SubmitControl {
	name, value := Remove{ListAddress: c.address, Index: index}.Encode()
	return SubmitControl{Name: name, Value: value, FormNoValidate: true}
}

// Apply executes a decoded structural action against the key sequence and
// reports whether the sequence changed. Actions addressed to other lists and
// out-of-range removals are no-ops.
func (c *Controller) Apply(action Action) bool {
	if action == nil || action.List() != c.address {
		return false
	}
	switch a := action.(type) {
	case Insert:
		c.keys.Append()
		return true
	case Remove:
		before := c.keys.Len()
		c.keys.Remove(a.Index)
		return c.keys.Len() != before
	default:
		return false
	}
}
