package repeater_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/model"
	"github.com/goliatone/go-formbind/pkg/repeater"
)

func listConfig() model.FieldConfig {
	return model.FieldConfig{
		Kind: model.KindListOfFieldset,
		Fields: model.FieldTree{
			"heading": {Kind: model.KindControl, Type: "text", Required: true},
		},
	}
}

func TestReconcileGrowsByLength(t *testing.T) {
	seq := repeater.NewKeySequence(2)
	before := seq.Keys()

	seq.Reconcile(3)
	after := seq.Keys()

	if len(after) != 3 {
		t.Fatalf("expected 3 keys, got %d", len(after))
	}
	if diff := cmp.Diff(before, after[:2]); diff != "" {
		t.Fatalf("prior keys changed identity (-before +after):\n%s", diff)
	}
}

func TestReconcileShrinksTrailing(t *testing.T) {
	seq := repeater.NewKeySequence(3)
	keys := seq.Keys()

	seq.Reconcile(1)
	if got := seq.Keys(); len(got) != 1 || got[0] != keys[0] {
		t.Fatalf("expected head key to survive, got %#v", got)
	}
}

func TestRemoveKeepsSurvivorIdentity(t *testing.T) {
	seq := repeater.NewKeySequence(2)
	keys := seq.Keys()

	seq.Remove(0)
	got := seq.Keys()
	if len(got) != 1 {
		t.Fatalf("expected one key, got %d", len(got))
	}
	if got[0] != keys[1] {
		t.Fatalf("surviving key renumbered: got %v, want %v", got[0], keys[1])
	}

	// fresh keys never reuse a removed identity
	appended := seq.Append()
	if appended == keys[0] {
		t.Fatalf("appended key reused removed identity %v", appended)
	}
}

func TestActionEncodeDecode(t *testing.T) {
	name, value := repeater.Insert{ListAddress: "chapters"}.Encode()
	if name != repeater.DirectiveField || value != "chapters:insert" {
		t.Fatalf("unexpected encoding %q=%q", name, value)
	}
	decoded, ok := repeater.Decode(name, value)
	if !ok {
		t.Fatalf("expected insert to decode")
	}
	if diff := cmp.Diff(repeater.Insert{ListAddress: "chapters"}, decoded); diff != "" {
		t.Fatalf("decode mismatch (-want +got):\n%s", diff)
	}

	name, value = repeater.Remove{ListAddress: "book.chapters", Index: 4}.Encode()
	if value != "book.chapters:remove:4" {
		t.Fatalf("unexpected encoding %q", value)
	}
	decoded, ok = repeater.Decode(name, value)
	if !ok {
		t.Fatalf("expected remove to decode")
	}
	if diff := cmp.Diff(repeater.Remove{ListAddress: "book.chapters", Index: 4}, decoded); diff != "" {
		t.Fatalf("decode mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeMalformed(t *testing.T) {
	cases := []struct {
		name  string
		value string
	}{
		{"ordinary.field", "chapters:insert"},
		{repeater.DirectiveField, "chapters"},
		{repeater.DirectiveField, "chapters:grow"},
		{repeater.DirectiveField, "chapters:remove"},
		{repeater.DirectiveField, "chapters:remove:x"},
		{repeater.DirectiveField, "chapters:remove:-1"},
		{repeater.DirectiveField, ":insert"},
	}
	for _, tc := range cases {
		if action, ok := repeater.Decode(tc.name, tc.value); ok {
			t.Fatalf("expected %q=%q to reject, got %#v", tc.name, tc.value, action)
		}
	}
}

func TestControllerRequiresDynamicList(t *testing.T) {
	if _, err := repeater.NewController("title", model.FieldConfig{Kind: model.KindControl}, 0); err == nil {
		t.Fatalf("expected control kind to be rejected")
	}

	fixed := listConfig()
	count := 3
	fixed.Count = &count
	if _, err := repeater.NewController("chapters", fixed, 3); err == nil {
		t.Fatalf("expected fixed-count list to be rejected")
	}
}

func TestControllerAppendRemoveScenario(t *testing.T) {
	ctl, err := repeater.NewController("list", listConfig(), 2)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}

	appendCtl := ctl.AppendControl()
	if !appendCtl.FormNoValidate {
		t.Fatalf("append control must bypass form validation")
	}
	action, ok := repeater.Decode(appendCtl.Name, appendCtl.Value)
	if !ok {
		t.Fatalf("append control encoding did not decode")
	}
	if !ctl.Apply(action) {
		t.Fatalf("append action did not apply")
	}
	if ctl.Len() != 3 {
		t.Fatalf("expected 3 elements, got %d", ctl.Len())
	}
	if got := ctl.ElementAddress(2); got != "list[2]" {
		t.Fatalf("new element address = %q, want %q", got, "list[2]")
	}

	keys := ctl.Keys()
	removeCtl := ctl.RemoveControl(0)
	action, ok = repeater.Decode(removeCtl.Name, removeCtl.Value)
	if !ok {
		t.Fatalf("remove control encoding did not decode")
	}
	if !ctl.Apply(action) {
		t.Fatalf("remove action did not apply")
	}
	if ctl.Len() != 2 {
		t.Fatalf("expected 2 elements, got %d", ctl.Len())
	}
	// the former index-1 element is now addressed list[0] but keeps its key
	if got := ctl.Keys()[0]; got != keys[1] {
		t.Fatalf("survivor lost identity: got %v, want %v", got, keys[1])
	}
	if got := ctl.ElementAddress(0); got != "list[0]" {
		t.Fatalf("survivor address = %q, want %q", got, "list[0]")
	}
}

func TestControllerIgnoresForeignAndOutOfRangeActions(t *testing.T) {
	ctl, err := repeater.NewController("chapters", listConfig(), 1)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	if ctl.Apply(repeater.Insert{ListAddress: "other"}) {
		t.Fatalf("foreign list action must not apply")
	}
	if ctl.Apply(repeater.Remove{ListAddress: "chapters", Index: 9}) {
		t.Fatalf("out-of-range removal must be a no-op")
	}
	if ctl.Len() != 1 {
		t.Fatalf("length changed unexpectedly: %d", ctl.Len())
	}
}
