package gate

import (
	"github.com/goliatone/go-formbind/pkg/repeater"
)

// Phase is the coarse lifecycle of a form instance. The submitted phase is
// terminal: once a real submit was attempted the form keeps validating
// eagerly for the rest of its life, even though the touched set keeps
// growing.
type Phase int

const (
	Pristine Phase = iota
	Touched
	Submitted
)

func (p Phase) String() string {
	switch p {
	case Touched:
		return "touched"
	case Submitted:
		return "submitted"
	default:
		return "pristine"
	}
}

// State is the gate's complete mutable state: which addresses have been
// visited and whether submission was attempted.
type State struct {
	TouchedSet map[string]struct{}
	Submitted  bool
}

// NewState returns an empty pristine state.
func NewState() State {
	return State{TouchedSet: make(map[string]struct{})}
}

// Phase derives the lifecycle phase from the state.
func (s State) Phase() Phase {
	switch {
	case s.Submitted:
		return Submitted
	case len(s.TouchedSet) > 0:
		return Touched
	default:
		return Pristine
	}
}

// Touched reports whether an address has been visited.
func (s State) Touched(address string) bool {
	_, ok := s.TouchedSet[address]
	return ok
}

// Event is a discrete interaction signal fed into the gate.
type Event interface{ isEvent() }

// Blur reports that a control lost focus.
type Blur struct{ Address string }

// Change reports that a control's value changed.
type Change struct{ Address string }

// Submit reports a submit attempt. SubmitterName/SubmitterValue carry the
// triggering control's name/value pair so structural directives can be
// recognized before any validation decision is made.
type Submit struct {
	SubmitterName  string
	SubmitterValue string
}

// Reset clears the touched set when the form's values are reset. The
// submitted flag survives for the form instance's lifetime.
type Reset struct{}

func (Blur) isEvent()   {}
func (Change) isEvent() {}
func (Submit) isEvent() {}
func (Reset) isEvent()  {}

// Action is a side effect the caller must run after a transition. The gate
// itself never talks to the registry; it only decides.
type Action interface{ isAction() }

// CheckControl asks for a single-control validity re-evaluation.
type CheckControl struct{ Address string }

// CheckForm asks for a full-form walk; the caller suppresses the default
// submission when the walk fails.
type CheckForm struct{}

// ApplyStructural hands a structural submit over to the list layer without
// any validation. A directive value that fails to decode simply applies as a
// no-op mutation downstream.
type ApplyStructural struct {
	Name  string
	Value string
}

func (CheckControl) isAction()    {}
func (CheckForm) isAction()       {}
func (ApplyStructural) isAction() {}

// ShouldSkipValidate reports whether the submitter carries the reserved
// structural directive, making the submit non-committing: no full-form check
// runs and the submitted flag stays untouched.
func ShouldSkipValidate(submitterName string) bool {
	return repeater.IsStructural(submitterName)
}

// Step is the pure transition function. It returns the successor state and
// the actions the caller must execute, and never mutates its input.
func Step(state State, event Event) (State, []Action) {
	switch e := event.(type) {
	case Blur:
		// blur always re-checks, even on a previously untouched field
		next := withTouched(state, e.Address)
		return next, []Action{CheckControl{Address: e.Address}}

	case Change:
		// defer noisy validation until the field was visited once, unless a
		// submit attempt already put the whole form in eager mode
		if state.Submitted || state.Touched(e.Address) {
			return state, []Action{CheckControl{Address: e.Address}}
		}
		return state, nil

	case Submit:
		if ShouldSkipValidate(e.SubmitterName) {
			return state, []Action{ApplyStructural{Name: e.SubmitterName, Value: e.SubmitterValue}}
		}
		next := state
		next.Submitted = true
		return next, []Action{CheckForm{}}

	case Reset:
		next := state
		next.TouchedSet = make(map[string]struct{})
		return next, nil

	default:
		return state, nil
	}
}

func withTouched(state State, address string) State {
	next := state
	next.TouchedSet = make(map[string]struct{}, len(state.TouchedSet)+1)
	for addr := range state.TouchedSet {
		next.TouchedSet[addr] = struct{}{}
	}
	next.TouchedSet[address] = struct{}{}
	return next
}

// Gate is the stateful wrapper a form instance owns. All methods run
// synchronously on the interaction thread; a transition and its actions
// complete before the next event is observed.
type Gate struct {
	state State
}

// New constructs a pristine gate.
func New() *Gate {
	return &Gate{state: NewState()}
}

// Blur feeds a blur event and returns the actions to run.
func (g *Gate) Blur(address string) []Action {
	return g.step(Blur{Address: address})
}

// Change feeds a change event and returns the actions to run.
func (g *Gate) Change(address string) []Action {
	return g.step(Change{Address: address})
}

// Submit feeds a submit attempt, identified by the triggering control's
// name/value pair.
func (g *Gate) Submit(submitterName, submitterValue string) []Action {
	return g.step(Submit{SubmitterName: submitterName, SubmitterValue: submitterValue})
}

// Reset clears the touched set.
func (g *Gate) Reset() {
	g.step(Reset{})
}

// Phase returns the current lifecycle phase.
func (g *Gate) Phase() Phase { return g.state.Phase() }

// Touched reports whether an address has been visited.
func (g *Gate) Touched(address string) bool { return g.state.Touched(address) }

// Submitted reports whether a committing submit was attempted.
func (g *Gate) Submitted() bool { return g.state.Submitted }

func (g *Gate) step(event Event) []Action {
	next, actions := Step(g.state, event)
	g.state = next
	return actions
}
