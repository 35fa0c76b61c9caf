package form

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formbind/pkg/attrs"
	"github.com/goliatone/go-formbind/pkg/fieldpath"
	"github.com/goliatone/go-formbind/pkg/gate"
	"github.com/goliatone/go-formbind/pkg/model"
	"github.com/goliatone/go-formbind/pkg/registry"
	"github.com/goliatone/go-formbind/pkg/repeater"
	"github.com/goliatone/go-formbind/pkg/validity"
)

var (
	// ErrUnknownAddress is returned when an address does not resolve to a
	// field configuration in the form's tree.
	ErrUnknownAddress = errors.New("form: address does not resolve to a field")
	// ErrDuplicateList is returned when two list controllers claim the same
	// address within one form scope.
	ErrDuplicateList = errors.New("form: list controller already mounted")
)

// Option configures a Form during construction.
type Option func(*config)

type config struct {
	synthOptions []validity.Option
	method       string
	action       string
}

// WithSynthesizerOptions forwards options to the message synthesizer, for
// example a custom catalog or template engine.
func WithSynthesizerOptions(options ...validity.Option) Option {
	return func(cfg *config) {
		cfg.synthOptions = append(cfg.synthOptions, options...)
	}
}

// WithSubmission records the form's method and action for attribute
// production.
func WithSubmission(method, action string) Option {
	return func(cfg *config) {
		cfg.method = strings.TrimSpace(method)
		cfg.action = strings.TrimSpace(action)
	}
}

// Form is the per-instance scope object: it owns the constraint registry,
// the touch/submit gate and the dynamic list controllers for one rendered
// form, and it is the only place their interplay is coordinated. Everything
// runs synchronously on the interaction thread; a Form must not be shared
// across forms or reused after Close.
type Form struct {
	tree  model.FieldTree
	reg   *registry.Registry
	gate  *gate.Gate
	lists map[string]*repeater.Controller

	method string
	action string
}

// New constructs a form scope over a normalized field tree. Dynamic
// list-of-fieldset entries reachable without list indices get their
// controllers mounted immediately (seeded empty); lists nested inside list
// elements are mounted by the UI layer as elements materialize, via
// MountList. Configuration problems abort construction.
func New(tree model.FieldTree, options ...Option) (*Form, error) {
	if tree == nil {
		return nil, errors.New("form: field tree is required")
	}

	cfg := &config{}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}

	synth, err := validity.NewSynthesizer(cfg.synthOptions...)
	if err != nil {
		return nil, fmt.Errorf("form: synthesizer: %w", err)
	}

	f := &Form{
		tree:   tree,
		reg:    registry.New(synth),
		gate:   gate.New(),
		lists:  make(map[string]*repeater.Controller),
		method: cfg.method,
		action: cfg.action,
	}
	if err := f.mountStaticLists("", tree); err != nil {
		return nil, err
	}
	return f, nil
}

// NewFromFields normalizes a raw declarative tree and constructs the form in
// one step.
func NewFromFields(raw map[string]model.Field, options ...Option) (*Form, error) {
	tree, err := model.NormalizeTree(raw)
	if err != nil {
		return nil, err
	}
	return New(tree, options...)
}

func (f *Form) mountStaticLists(parent string, tree model.FieldTree) error {
	for key, cfg := range tree {
		address := fieldpath.Join(parent, key)
		switch cfg.Kind {
		case model.KindFieldset:
			if err := f.mountStaticLists(address, cfg.Fields); err != nil {
				return err
			}
		case model.KindListOfFieldset:
			if cfg.Count != nil {
				continue
			}
			if err := f.MountList(address, 0); err != nil {
				return err
			}
		}
	}
	return nil
}

// Config resolves an address to its field configuration, stripping
// positional indices along the way.
func (f *Form) Config(address string) (model.FieldConfig, error) {
	return resolveConfig(f.tree, address)
}

func resolveConfig(tree model.FieldTree, address string) (model.FieldConfig, error) {
	segments := fieldpath.Segments(address)
	if len(segments) == 0 {
		return model.FieldConfig{}, fmt.Errorf("%w: %q", ErrUnknownAddress, address)
	}

	var cfg model.FieldConfig
	for i, segment := range segments {
		_, indexed := fieldpath.Index(segment)
		key := fieldpath.LastSegment(segment)

		var ok bool
		cfg, ok = tree[key]
		if !ok {
			return model.FieldConfig{}, fmt.Errorf("%w: %q", ErrUnknownAddress, address)
		}
		if indexed && !cfg.IsList() {
			return model.FieldConfig{}, fmt.Errorf("%w: %q indexes a non-list field", ErrUnknownAddress, address)
		}
		if i < len(segments)-1 {
			tree = cfg.Fields
		}
	}
	return cfg, nil
}

// Attributes produces the control attributes for an address, drawn verbatim
// from its configuration.
func (f *Form) Attributes(address string) (attrs.ControlAttrs, error) {
	cfg, err := f.Config(address)
	if err != nil {
		return attrs.ControlAttrs{}, err
	}
	if !cfg.IsControl() {
		return attrs.ControlAttrs{}, fmt.Errorf("form: %q is not a control", address)
	}
	return attrs.ForControl(address, cfg), nil
}

// FormAttributes produces the form-level attributes. NoValidate is always
// true once the engine owns the form.
func (f *Form) FormAttributes() attrs.FormAttrs {
	return attrs.ForForm(f.method, f.action)
}

// MountControl attaches a live control at an address. The address must
// resolve to a control configuration; binding a live address twice is a
// configuration error.
func (f *Form) MountControl(address string, ctl registry.Control) error {
	cfg, err := f.Config(address)
	if err != nil {
		return err
	}
	if !cfg.IsControl() {
		return fmt.Errorf("form: %q is not a control", address)
	}
	return f.reg.Attach(address, ctl, cfg)
}

// UnmountControl detaches the control at an address. Unknown addresses are
// ignored.
func (f *Form) UnmountControl(address string) {
	f.reg.Detach(address)
}

// MountList attaches a dynamic list controller at a concrete address,
// seeded with the external value array's current length.
func (f *Form) MountList(address string, length int) error {
	cfg, err := f.Config(address)
	if err != nil {
		return err
	}
	if _, exists := f.lists[address]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateList, address)
	}
	controller, err := repeater.NewController(address, cfg, length)
	if err != nil {
		return err
	}
	f.lists[address] = controller
	return nil
}

// List returns the controller mounted at an address.
func (f *Form) List(address string) (*repeater.Controller, bool) {
	controller, ok := f.lists[address]
	return controller, ok
}

// ReconcileList aligns a list's key sequence with its external value array
// length. Unknown addresses are ignored.
func (f *Form) ReconcileList(address string, length int) {
	if controller, ok := f.lists[address]; ok {
		controller.Reconcile(length)
	}
}

// Blur feeds a blur interaction for the control at address and reports
// whether that control is currently valid.
func (f *Form) Blur(address string) bool {
	return f.run(f.gate.Blur(address))
}

// Change feeds a change interaction for the control at address. The result
// is true when no validation ran or the control came back valid.
func (f *Form) Change(address string) bool {
	return f.run(f.gate.Change(address))
}

// Submit feeds a submit attempt identified by the triggering control's
// name/value pair. The result reports whether the default submission may
// proceed: false either because the full-form check failed (messages stay
// populated) or because the submitter carried a structural directive, which
// mutates its list and never commits data.
func (f *Form) Submit(submitterName, submitterValue string) bool {
	return f.run(f.gate.Submit(submitterName, submitterValue))
}

// Reset clears the touched set. Messages are not cleared here; they only
// clear through subsequent successful re-validation.
func (f *Form) Reset() {
	f.gate.Reset()
}

// Errors snapshots the current message per bound address; empty means valid.
func (f *Form) Errors() map[string]string {
	return f.reg.Messages()
}

// Message returns the current message and status for one address.
func (f *Form) Message(address string) (string, validity.Status) {
	return f.reg.Message(address)
}

// Phase exposes the gate's lifecycle phase.
func (f *Form) Phase() gate.Phase { return f.gate.Phase() }

// Touched reports whether an address has been visited.
func (f *Form) Touched(address string) bool { return f.gate.Touched(address) }

// Close detaches every binding. The form must not be used afterwards.
func (f *Form) Close() {
	for _, address := range f.reg.Addresses() {
		f.reg.Detach(address)
	}
}

func (f *Form) run(actions []gate.Action) bool {
	result := true
	for _, action := range actions {
		switch a := action.(type) {
		case gate.CheckControl:
			if !f.reg.CheckControl(a.Address) {
				result = false
			}
		case gate.CheckForm:
			if !f.reg.CheckAll() {
				result = false
			}
		case gate.ApplyStructural:
			f.applyStructural(a)
			// structural submits never commit data
			result = false
		}
	}
	return result
}

func (f *Form) applyStructural(action gate.ApplyStructural) {
	decoded, ok := repeater.Decode(action.Name, action.Value)
	if !ok {
		return
	}
	if controller, exists := f.lists[decoded.List()]; exists {
		controller.Apply(decoded)
	}
}
