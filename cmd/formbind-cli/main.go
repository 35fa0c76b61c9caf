package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-formbind/pkg/jsonschema"
	"github.com/goliatone/go-formbind/pkg/messages"
	"github.com/goliatone/go-formbind/pkg/model"
	pkgopenapi "github.com/goliatone/go-formbind/pkg/openapi"
	"github.com/goliatone/go-formbind/pkg/prompt"
)

func main() {
	source := flag.String("source", "schema.yaml", "OpenAPI or JSON Schema document path")
	schema := flag.String("schema", "", "component schema or definition name to bind")
	msgPath := flag.String("messages", "", "optional message catalog file (YAML or JSON)")
	output := flag.String("output", "", "output file for collected values (stdout if empty)")
	flag.Parse()

	ctx := context.Background()

	doc, err := pkgopenapi.Load(pkgopenapi.SourceFromFile(*source))
	if err != nil {
		log.Fatalf("Failed to load document: %v", err)
	}

	var tree model.FieldTree
	if jsonschema.Detect(doc.Raw()) {
		tree, err = jsonschema.FieldTree(ctx, doc.Raw(), *schema)
	} else {
		if *schema == "" {
			log.Fatalf("missing required -schema flag")
		}
		adapter := pkgopenapi.NewAdapter(pkgopenapi.AdapterOptions{})
		tree, err = adapter.FieldTree(ctx, doc, *schema)
	}
	if err != nil {
		log.Fatalf("Failed to build field tree: %v", err)
	}

	if *msgPath != "" {
		raw, err := os.ReadFile(*msgPath)
		if err != nil {
			log.Fatalf("Failed to read message catalog: %v", err)
		}
		catalog, err := messages.Load(raw)
		if err != nil {
			log.Fatalf("Failed to parse message catalog: %v", err)
		}
		tree = catalog.Apply(tree)
	}

	session, err := prompt.NewSession(tree, prompt.WithTheme(prompt.Theme{ErrorPrefix: "✗ "}))
	if err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}

	if err := session.Run(ctx); err != nil {
		if errors.Is(err, prompt.ErrAborted) {
			os.Exit(130)
		}
		log.Fatalf("Failed to complete form: %v", err)
	}

	payload, err := json.MarshalIndent(session.Values(), "", "  ")
	if err != nil {
		log.Fatalf("Failed to serialize values: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, payload, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Values written to %s\n", *output)
	} else {
		fmt.Println(string(payload))
	}
}
