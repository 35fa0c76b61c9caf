package registry

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-formbind/pkg/model"
	"github.com/goliatone/go-formbind/pkg/validity"
)

// ErrDuplicateAddress is returned when two live controls claim the same
// address within one form scope.
var ErrDuplicateAddress = errors.New("registry: address already bound")

// Control is the handle a UI layer exposes for one live form control. The
// registry never owns the control; it only reads flags and pushes message
// overrides through it.
type Control interface {
	// Validity re-evaluates and reports the control's current violation flags.
	Validity() validity.State
	// ValidationMessage returns the platform's default text for the current
	// state, or "" when the platform supplies none.
	ValidationMessage() string
	// SetCustomValidity overrides the message the platform reports. An empty
	// string clears the override.
	SetCustomValidity(message string)
	Value() string
	SetValue(value string)
	// WillValidate reports whether the control participates in constraint
	// validation at all (disabled or readonly controls do not).
	WillValidate() bool
}

// Binding links an address to its live control plus the last synthesized
// message. Created on mount, dropped on unmount.
type Binding struct {
	Address string
	Control Control
	Config  model.FieldConfig

	message string
	status  validity.Status
}

// Message returns the last synthesized message and its tri-state status.
// Before the first evaluation the status is StatusUnknown and the message is
// empty.
func (b *Binding) Message() (string, validity.Status) {
	if b == nil {
		return "", validity.StatusUnknown
	}
	return b.message, b.status
}

// Registry is the single coordination point through which "check this
// form/control now" requests flow for one form scope. It carries no mutable
// cross-control state beyond the bindings themselves; all evaluation logic is
// stateless.
type Registry struct {
	mu       sync.RWMutex
	synth    *validity.Synthesizer
	bindings map[string]*Binding
	order    []string
}

// New constructs an empty registry around the given synthesizer.
func New(synth *validity.Synthesizer) *Registry {
	return &Registry{
		synth:    synth,
		bindings: make(map[string]*Binding),
	}
}

// Attach binds a mounted control to its address. Binding an address that is
// already live is a configuration error.
func (r *Registry) Attach(address string, ctl Control, cfg model.FieldConfig) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return errors.New("registry: address is required")
	}
	if ctl == nil {
		return fmt.Errorf("registry: control for %q is required", address)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bindings[address]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateAddress, address)
	}
	r.bindings[address] = &Binding{Address: address, Control: ctl, Config: cfg}
	r.order = append(r.order, address)
	return nil
}

// Detach drops the binding for an unmounted control. Unknown addresses are
// ignored.
func (r *Registry) Detach(address string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bindings[address]; !exists {
		return
	}
	delete(r.bindings, address)
	for i, addr := range r.order {
		if addr == address {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// CheckControl re-evaluates one control and refreshes its message. Checking a
// detached address is a no-op returning true: there is nothing left to
// invalidate.
func (r *Registry) CheckControl(address string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	binding, exists := r.bindings[address]
	if !exists {
		return true
	}
	return r.evaluate(binding)
}

// CheckAll walks every binding in mount order and re-evaluates each one. All
// controls are evaluated even after the first failure; the result is true iff
// every control came back valid.
func (r *Registry) CheckAll() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	allValid := true
	for _, address := range r.order {
		if !r.evaluate(r.bindings[address]) {
			allValid = false
		}
	}
	return allValid
}

// Message returns the last synthesized message for an address.
func (r *Registry) Message(address string) (string, validity.Status) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bindings[address].Message()
}

// Messages snapshots every binding's current message keyed by address.
// Empty string means valid (or not yet evaluated).
func (r *Registry) Messages() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]string, len(r.bindings))
	for address, binding := range r.bindings {
		out[address] = binding.message
	}
	return out
}

// Addresses returns the bound addresses in mount order.
func (r *Registry) Addresses() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Has reports whether an address is currently bound.
func (r *Registry) Has(address string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.bindings[address]
	return ok
}

func (r *Registry) evaluate(binding *Binding) bool {
	ctl := binding.Control
	if !ctl.WillValidate() {
		binding.message = ""
		binding.status = validity.StatusValid
		return true
	}

	// clear any previous override so a stale custom message never masks the
	// fresh flag read
	ctl.SetCustomValidity("")

	state := ctl.Validity()
	platformText := ""
	if !state.Valid() {
		platformText = ctl.ValidationMessage()
	}

	message := r.synth.Message(state, binding.Config, platformText)
	binding.message = message
	if message == "" {
		binding.status = validity.StatusValid
		return true
	}

	binding.status = validity.StatusInvalid
	if message != platformText {
		ctl.SetCustomValidity(message)
	}
	return false
}
