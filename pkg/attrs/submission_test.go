package attrs_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/attrs"
	"github.com/goliatone/go-formbind/pkg/repeater"
)

func TestForDirective(t *testing.T) {
	field := attrs.ForDirective(repeater.Insert{ListAddress: "authors"})
	if field.Name != repeater.DirectiveField {
		t.Fatalf("name = %q", field.Name)
	}
	if field.Value != "authors:insert" {
		t.Fatalf("value = %q", field.Value)
	}

	field = attrs.ForDirective(repeater.Remove{ListAddress: "authors", Index: 2})
	if field.Value != "authors:remove:2" {
		t.Fatalf("value = %q", field.Value)
	}
}

func TestMergeHiddenFields(t *testing.T) {
	base := map[string]string{"csrf": "tok"}
	got := attrs.MergeHiddenFields(base,
		attrs.Hidden("csrf", "rotated"),
		attrs.Hidden("  version ", 7),
		attrs.Hidden("", "skipped"),
	)
	want := map[string]string{"csrf": "rotated", "version": "7"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
	if base["csrf"] != "tok" {
		t.Fatal("base map should not be mutated")
	}
}
