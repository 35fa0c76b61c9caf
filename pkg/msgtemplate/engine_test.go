package msgtemplate_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-formbind/pkg/msgtemplate"
)

func TestRenderString(t *testing.T) {
	engine, err := msgtemplate.New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := engine.RenderString("must be at least {{ minLength }} characters", map[string]any{
		"minLength": 8,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "must be at least 8 characters" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRenderStringGlobals(t *testing.T) {
	engine, err := msgtemplate.New(msgtemplate.WithGlobalData(map[string]any{
		"product": "library",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := engine.RenderString("{{ label }} is required by {{ product }}", map[string]any{
		"label": "Title",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Title is required by library" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRenderStringParseError(t *testing.T) {
	engine, err := msgtemplate.New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := engine.RenderString("{% broken", nil); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestIsTemplate(t *testing.T) {
	if msgtemplate.IsTemplate("plain message") {
		t.Fatalf("plain string misreported as template")
	}
	if !msgtemplate.IsTemplate("needs {{ min }}") {
		t.Fatalf("template markup not detected")
	}
}

func TestRegisterFilterRejectsBlankName(t *testing.T) {
	engine, err := msgtemplate.New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := engine.RegisterFilter("  ", func(in any, _ any) (any, error) { return in, nil }); err == nil {
		t.Fatalf("expected error for blank filter name")
	}
	if err := engine.RegisterFilter(strings.TrimSpace("upperlabel"), nil); err == nil {
		t.Fatalf("expected error for nil filter")
	}
}
