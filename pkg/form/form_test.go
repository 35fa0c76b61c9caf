package form_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-formbind/pkg/controls"
	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/gate"
	"github.com/goliatone/go-formbind/pkg/model"
	"github.com/goliatone/go-formbind/pkg/repeater"
	"github.com/goliatone/go-formbind/pkg/validity"
)

func bookFields() map[string]model.Field {
	return map[string]model.Field{
		"title": {Required: true, MaxLength: 120},
		"author": {
			Kind: model.KindFieldset,
			Fields: map[string]model.Field{
				"email": {Type: "email", Required: true},
			},
		},
		"chapters": {
			Kind: model.KindListOfFieldset,
			Fields: map[string]model.Field{
				"heading": {Required: true},
			},
		},
	}
}

// mount builds a native control for the address and attaches it.
func mount(t *testing.T, f *form.Form, address string) *controls.Native {
	t.Helper()
	cfg, err := f.Config(address)
	if err != nil {
		t.Fatalf("config %q: %v", address, err)
	}
	ctl := controls.New(cfg)
	if err := f.MountControl(address, ctl); err != nil {
		t.Fatalf("mount %q: %v", address, err)
	}
	return ctl
}

func TestNewRejectsBadTree(t *testing.T) {
	_, err := form.NewFromFields(map[string]model.Field{
		"chapters": {Kind: model.KindListOfFieldset, Count: "three",
			Fields: map[string]model.Field{"heading": {}}},
	})
	if err == nil {
		t.Fatalf("expected configuration error")
	}
}

func TestConfigResolvesIndexedAddresses(t *testing.T) {
	f, err := form.NewFromFields(bookFields())
	if err != nil {
		t.Fatalf("NewFromFields: %v", err)
	}
	defer f.Close()

	cfg, err := f.Config("chapters[0].heading")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if !cfg.Required {
		t.Fatalf("wrong config resolved: %#v", cfg)
	}

	if _, err := f.Config("chapters.heading[0]"); err == nil {
		t.Fatalf("indexing a non-list field must fail")
	}
	if _, err := f.Config("missing"); !errors.Is(err, form.ErrUnknownAddress) {
		t.Fatalf("expected ErrUnknownAddress, got %v", err)
	}
}

func TestEmailBlurScenario(t *testing.T) {
	f, err := form.NewFromFields(bookFields())
	if err != nil {
		t.Fatalf("NewFromFields: %v", err)
	}
	defer f.Close()

	email := mount(t, f, "author.email")

	f.Blur("author.email")
	if msg, _ := f.Message("author.email"); msg != "Please fill out this field." {
		t.Fatalf("expected required text, got %q", msg)
	}

	email.SetValue("not-an-email")
	f.Blur("author.email")
	if msg, _ := f.Message("author.email"); msg != "Please enter a valid email address." {
		t.Fatalf("expected type mismatch text, got %q", msg)
	}

	email.SetValue("a@b.com")
	f.Blur("author.email")
	msg, status := f.Message("author.email")
	if msg != "" || status != validity.StatusValid {
		t.Fatalf("expected cleared message, got %q (%v)", msg, status)
	}
}

func TestChangeGating(t *testing.T) {
	f, err := form.NewFromFields(bookFields())
	if err != nil {
		t.Fatalf("NewFromFields: %v", err)
	}
	defer f.Close()

	title := mount(t, f, "title")

	// change on a pristine field stays silent
	f.Change("title")
	if msg, status := f.Message("title"); msg != "" || status != validity.StatusUnknown {
		t.Fatalf("pristine change must not evaluate, got %q (%v)", msg, status)
	}

	// once touched, change re-validates
	f.Blur("title")
	title.SetValue("A Title")
	f.Change("title")
	if msg, status := f.Message("title"); msg != "" || status != validity.StatusValid {
		t.Fatalf("expected valid after change, got %q (%v)", msg, status)
	}
}

func TestSubmitChecksWholeForm(t *testing.T) {
	f, err := form.NewFromFields(bookFields())
	if err != nil {
		t.Fatalf("NewFromFields: %v", err)
	}
	defer f.Close()

	mount(t, f, "title")
	email := mount(t, f, "author.email")
	email.SetValue("a@b.com")

	if f.Submit("save", "") {
		t.Fatalf("submit must be suppressed while title is empty")
	}
	errsByAddr := f.Errors()
	if errsByAddr["title"] == "" {
		t.Fatalf("every invalid field must surface a message: %#v", errsByAddr)
	}
	if errsByAddr["author.email"] != "" {
		t.Fatalf("valid field must stay clean: %#v", errsByAddr)
	}
	if f.Phase() != gate.Submitted {
		t.Fatalf("failed submit still flips the submitted flag")
	}
}

func TestStructuralSubmitBypassesValidation(t *testing.T) {
	f, err := form.NewFromFields(bookFields())
	if err != nil {
		t.Fatalf("NewFromFields: %v", err)
	}
	defer f.Close()

	mount(t, f, "title") // required and empty
	f.Blur("title")

	controller, ok := f.List("chapters")
	if !ok {
		t.Fatalf("dynamic list controller not mounted")
	}
	f.ReconcileList("chapters", 2)
	if controller.Len() != 2 {
		t.Fatalf("reconcile did not seed the list")
	}

	appendCtl := controller.AppendControl()
	if f.Submit(appendCtl.Name, appendCtl.Value) {
		t.Fatalf("structural submit never commits data")
	}
	if controller.Len() != 3 {
		t.Fatalf("append did not apply, len=%d", controller.Len())
	}
	if got := controller.ElementAddress(2); got != "chapters[2]" {
		t.Fatalf("new element address %q", got)
	}

	// the required-but-empty sibling neither blocked the mutation nor
	// acquired a message, and its touched state survived
	if msg, _ := f.Message("title"); msg != "" {
		t.Fatalf("structural submit must not validate unrelated fields: %q", msg)
	}
	if !f.Touched("title") {
		t.Fatalf("touched state must survive structural submits")
	}
	if f.Phase() == gate.Submitted {
		t.Fatalf("structural submit must not count as submission")
	}

	keys := controller.Keys()
	removeCtl := controller.RemoveControl(0)
	f.Submit(removeCtl.Name, removeCtl.Value)
	if controller.Len() != 2 {
		t.Fatalf("remove did not apply, len=%d", controller.Len())
	}
	if controller.Keys()[0] != keys[1] {
		t.Fatalf("survivor lost its stable key")
	}
}

func TestMalformedDirectiveIsNoop(t *testing.T) {
	f, err := form.NewFromFields(bookFields())
	if err != nil {
		t.Fatalf("NewFromFields: %v", err)
	}
	defer f.Close()

	controller, _ := f.List("chapters")
	f.ReconcileList("chapters", 1)

	f.Submit(repeater.DirectiveField, "chapters:explode:9")
	if controller.Len() != 1 {
		t.Fatalf("malformed directive must be a no-op, len=%d", controller.Len())
	}
	if f.Phase() == gate.Submitted {
		t.Fatalf("malformed directive must not flip submitted")
	}
}

func TestDuplicateListMount(t *testing.T) {
	f, err := form.NewFromFields(bookFields())
	if err != nil {
		t.Fatalf("NewFromFields: %v", err)
	}
	defer f.Close()

	err = f.MountList("chapters", 0)
	if !errors.Is(err, form.ErrDuplicateList) {
		t.Fatalf("expected ErrDuplicateList, got %v", err)
	}
}

func TestAttributes(t *testing.T) {
	f, err := form.NewFromFields(bookFields())
	if err != nil {
		t.Fatalf("NewFromFields: %v", err)
	}
	defer f.Close()

	a, err := f.Attributes("title")
	if err != nil {
		t.Fatalf("attributes: %v", err)
	}
	if a.Name != "title" || !a.Required || a.MaxLength == nil || *a.MaxLength != 120 {
		t.Fatalf("unexpected attributes %#v", a)
	}

	if _, err := f.Attributes("author"); err == nil {
		t.Fatalf("fieldset must not produce control attributes")
	}

	formAttrs := f.FormAttributes()
	if !formAttrs.NoValidate {
		t.Fatalf("form must carry noValidate")
	}
}

func TestResetPreservesSubmitted(t *testing.T) {
	f, err := form.NewFromFields(bookFields())
	if err != nil {
		t.Fatalf("NewFromFields: %v", err)
	}
	defer f.Close()

	mount(t, f, "title")
	f.Blur("title")
	f.Submit("save", "")

	f.Reset()
	if f.Touched("title") {
		t.Fatalf("reset must clear touched state")
	}
	if f.Phase() != gate.Submitted {
		t.Fatalf("submitted flag survives reset")
	}
}

func TestCloseDetachesBindings(t *testing.T) {
	f, err := form.NewFromFields(bookFields())
	if err != nil {
		t.Fatalf("NewFromFields: %v", err)
	}
	mount(t, f, "title")
	f.Close()
	if len(f.Errors()) != 0 {
		t.Fatalf("expected no bindings after close")
	}
}
