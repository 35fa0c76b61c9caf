package openapi_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/model"
	"github.com/goliatone/go-formbind/pkg/openapi"
)

const registrationDoc = `
openapi: 3.0.3
info:
  title: registration
  version: 1.0.0
paths: {}
components:
  schemas:
    Registration:
      type: object
      required: [email]
      properties:
        email:
          type: string
          format: email
          maxLength: 254
          x-messages:
            required: "We need your email address."
        nickname:
          type: string
          minLength: 3
          pattern: "^[a-z0-9_]+$"
        age:
          type: integer
          minimum: 13
          maximum: 120
        plan:
          type: string
          enum: [free, pro]
        shipping:
          type: object
          properties:
            city:
              type: string
        authors:
          type: array
          items:
            type: object
            properties:
              name:
                type: string
                minLength: 1
        witnesses:
          type: array
          minItems: 2
          maxItems: 2
          items:
            type: object
            properties:
              name:
                type: string
    Broken:
      type: array
      items:
        type: string
`

func loadTree(t *testing.T, schemaName string) (model.FieldTree, error) {
	t.Helper()

	fsys := fstest.MapFS{
		"schema.yaml": &fstest.MapFile{Data: []byte(registrationDoc)},
	}
	doc, err := openapi.Load(openapi.SourceFromFS(fsys, "schema.yaml"))
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	adapter := openapi.NewAdapter(openapi.AdapterOptions{})
	return adapter.FieldTree(context.Background(), doc, schemaName)
}

func TestAdapterControls(t *testing.T) {
	tree, err := loadTree(t, "Registration")
	if err != nil {
		t.Fatalf("FieldTree: %v", err)
	}

	email, ok := tree["email"]
	if !ok {
		t.Fatalf("missing field %q", "email")
	}
	if email.Kind != model.KindControl || email.Type != "email" {
		t.Fatalf("email = kind %q type %q, want control email", email.Kind, email.Type)
	}
	if !email.Required {
		t.Fatal("email should be required")
	}
	if email.MaxLength == nil || *email.MaxLength != 254 {
		t.Fatalf("email.MaxLength = %v, want 254", email.MaxLength)
	}
	if got, ok := email.Message(model.ConstraintRequired); !ok || got != "We need your email address." {
		t.Fatalf("email required message = %q, %v", got, ok)
	}

	nickname := tree["nickname"]
	if nickname.MinLength == nil || *nickname.MinLength != 3 {
		t.Fatalf("nickname.MinLength = %v, want 3", nickname.MinLength)
	}
	if nickname.Pattern != "^[a-z0-9_]+$" {
		t.Fatalf("nickname.Pattern = %q", nickname.Pattern)
	}

	age := tree["age"]
	if age.Type != "number" {
		t.Fatalf("age.Type = %q, want number", age.Type)
	}
	if age.Min != "13" || age.Max != "120" {
		t.Fatalf("age bounds = %q..%q, want 13..120", age.Min, age.Max)
	}

	plan := tree["plan"]
	if plan.Type != "select" {
		t.Fatalf("plan.Type = %q, want select", plan.Type)
	}
	wantOptions := []model.Option{{Value: "free"}, {Value: "pro"}}
	if diff := cmp.Diff(wantOptions, plan.Options); diff != "" {
		t.Fatalf("plan options mismatch (-want +got):\n%s", diff)
	}
}

func TestAdapterNesting(t *testing.T) {
	tree, err := loadTree(t, "Registration")
	if err != nil {
		t.Fatalf("FieldTree: %v", err)
	}

	shipping := tree["shipping"]
	if shipping.Kind != model.KindFieldset {
		t.Fatalf("shipping.Kind = %q, want fieldset", shipping.Kind)
	}
	if _, ok := shipping.Fields["city"]; !ok {
		t.Fatal("shipping should contain city")
	}

	authors := tree["authors"]
	if authors.Kind != model.KindListOfFieldset {
		t.Fatalf("authors.Kind = %q, want list-of-fieldset", authors.Kind)
	}
	if authors.Count != nil {
		t.Fatalf("authors.Count = %v, want dynamic", authors.Count)
	}
	name := authors.Fields["name"]
	if name.MinLength == nil || *name.MinLength != 1 {
		t.Fatalf("authors name.MinLength = %v, want 1", name.MinLength)
	}

	witnesses := tree["witnesses"]
	if witnesses.Count == nil || *witnesses.Count != 2 {
		t.Fatalf("witnesses.Count = %v, want fixed 2", witnesses.Count)
	}
}

func TestAdapterErrors(t *testing.T) {
	if _, err := loadTree(t, "Missing"); err == nil {
		t.Fatal("expected error for unknown schema")
	}
	if _, err := loadTree(t, "Broken"); err == nil {
		t.Fatal("expected error for non-object schema")
	}
}
