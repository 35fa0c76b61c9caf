package attrs_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/attrs"
	"github.com/goliatone/go-formbind/pkg/model"
)

func TestForControlCarriesConstraintsVerbatim(t *testing.T) {
	minLength := 2
	cfg := model.FieldConfig{
		Kind:      model.KindControl,
		Type:      "number",
		Required:  true,
		MinLength: &minLength,
		Min:       "1.5",
		Max:       "10",
		Step:      "0.5",
	}

	got := attrs.ForControl("scores[0]", cfg)
	if got.Name != "scores[0]" {
		t.Fatalf("name = %q, want address", got.Name)
	}

	want := map[string]string{
		"name":      "scores[0]",
		"type":      "number",
		"required":  "required",
		"minlength": "2",
		"min":       "1.5",
		"max":       "10",
		"step":      "0.5",
	}
	if diff := cmp.Diff(want, got.Map()); diff != "" {
		t.Fatalf("attribute map mismatch (-want +got):\n%s", diff)
	}
}

func TestForControlOmitsUnset(t *testing.T) {
	got := attrs.ForControl("title", model.FieldConfig{Kind: model.KindControl, Type: "text"})
	want := map[string]string{"name": "title", "type": "text"}
	if diff := cmp.Diff(want, got.Map()); diff != "" {
		t.Fatalf("attribute map mismatch (-want +got):\n%s", diff)
	}
}

func TestForFormForcesNoValidate(t *testing.T) {
	form := attrs.ForForm("POST", "/books")
	if !form.NoValidate {
		t.Fatalf("engine-owned forms must disable platform validation UI")
	}
	if form.Method != "POST" || form.Action != "/books" {
		t.Fatalf("method/action not passed through: %#v", form)
	}
}
