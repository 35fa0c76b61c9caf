package formbind

import (
	"context"

	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/jsonschema"
	"github.com/goliatone/go-formbind/pkg/model"
	pkgopenapi "github.com/goliatone/go-formbind/pkg/openapi"
)

// Form is the per-instance binding scope; alias exported via the root package
// for convenience.
type Form = form.Form

// Option configures a Form during construction.
type Option = form.Option

// WithSubmission records the form's method and action for attribute
// production.
var WithSubmission = form.WithSubmission

// WithSynthesizerOptions forwards options to the message synthesizer.
var WithSynthesizerOptions = form.WithSynthesizerOptions

// FieldTree loads a schema document and converts it into a normalized field
// tree. JSON Schema payloads are detected automatically; anything else is
// treated as an OpenAPI document whose named component schema is extracted.
func FieldTree(ctx context.Context, source pkgopenapi.Source, schemaName string) (model.FieldTree, error) {
	doc, err := pkgopenapi.Load(source)
	if err != nil {
		return nil, err
	}
	return FieldTreeFromDocument(ctx, doc, schemaName)
}

// FieldTreeFromDocument converts a pre-loaded document, bypassing the loader
// stage.
func FieldTreeFromDocument(ctx context.Context, doc pkgopenapi.Document, schemaName string) (model.FieldTree, error) {
	raw := doc.Raw()
	if jsonschema.Detect(raw) {
		return jsonschema.FieldTree(ctx, raw, schemaName)
	}
	adapter := pkgopenapi.NewAdapter(pkgopenapi.AdapterOptions{})
	return adapter.FieldTree(ctx, doc, schemaName)
}

// Bind loads a schema source and constructs the form scope over it. It is
// the simplest entry point for callers that just want a live form.
func Bind(ctx context.Context, source pkgopenapi.Source, schemaName string, options ...Option) (*Form, error) {
	tree, err := FieldTree(ctx, source, schemaName)
	if err != nil {
		return nil, err
	}
	return form.New(tree, options...)
}
