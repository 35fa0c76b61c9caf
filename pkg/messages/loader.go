// Package messages loads custom validation-message catalogs from YAML or
// JSON documents and overlays them onto a normalized field tree. Catalogs
// let deployments rephrase constraint feedback without touching the schema
// layer that produced the tree.
package messages

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbind/pkg/fieldpath"
	"github.com/goliatone/go-formbind/pkg/model"
	"github.com/goliatone/go-formbind/pkg/validity"
)

// Catalog holds per-field message overrides plus constraint-level defaults.
type Catalog struct {
	// Defaults maps constraint identifiers to fallback message templates used
	// when a field carries no specific override.
	Defaults map[string]string `json:"defaults" yaml:"defaults"`
	// Fields maps dotted field paths to per-constraint message templates.
	Fields map[string]map[string]string `json:"fields" yaml:"fields"`
}

// Load parses a single catalog document. YAML is tried first; JSON documents
// parse as a YAML subset.
func Load(data []byte) (Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return Catalog{}, fmt.Errorf("messages: parse catalog: %w", err)
	}
	if err := catalog.validate(); err != nil {
		return Catalog{}, err
	}
	return catalog, nil
}

// LoadFS walks a filesystem and merges every catalog file found. Later files
// win on conflicting keys; file order is the walk order.
func LoadFS(fsys fs.FS) (Catalog, error) {
	merged := Catalog{}
	if fsys == nil {
		return merged, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isCatalogFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("messages: read %s: %w", path, err)
		}
		catalog, err := Load(data)
		if err != nil {
			return fmt.Errorf("messages: file %s: %w", path, err)
		}
		merged = merge(merged, catalog)
		return nil
	})
	if err != nil {
		return Catalog{}, err
	}
	return merged, nil
}

// Apply overlays the catalog onto a normalized tree and returns a copy; the
// input tree is never mutated. Field-specific templates win over existing
// configuration messages.
func (c Catalog) Apply(tree model.FieldTree) model.FieldTree {
	return c.apply("", tree)
}

// Translator adapts the catalog's Defaults section into a validity.Catalog,
// falling back to the built-in text for constraints it does not cover.
func (c Catalog) Translator() validity.Catalog {
	return catalogTranslator{defaults: c.Defaults, fallback: validity.DefaultCatalog()}
}

func (c Catalog) apply(parent string, tree model.FieldTree) model.FieldTree {
	out := make(model.FieldTree, len(tree))
	for key, cfg := range tree {
		address := fieldpath.Join(parent, key)
		if overrides, ok := c.Fields[address]; ok {
			merged := make(map[string]string, len(cfg.Messages)+len(overrides))
			for constraint, msg := range cfg.Messages {
				merged[constraint] = msg
			}
			for constraint, msg := range overrides {
				merged[constraint] = msg
			}
			cfg.Messages = merged
		}
		if len(cfg.Fields) > 0 {
			cfg.Fields = c.apply(address, cfg.Fields)
		}
		out[key] = cfg
	}
	return out
}

func (c Catalog) validate() error {
	for constraint := range c.Defaults {
		if !knownConstraint(constraint) {
			return fmt.Errorf("messages: unknown default constraint %q", constraint)
		}
	}
	for path, overrides := range c.Fields {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("messages: catalog contains an empty field path")
		}
		for constraint := range overrides {
			if !knownConstraint(constraint) {
				return fmt.Errorf("messages: field %q: unknown constraint %q", path, constraint)
			}
		}
	}
	return nil
}

func knownConstraint(constraint string) bool {
	switch constraint {
	case model.ConstraintRequired, model.ConstraintType, model.ConstraintBadInput,
		model.ConstraintMinLength, model.ConstraintMaxLength, model.ConstraintMin,
		model.ConstraintMax, model.ConstraintStep, model.ConstraintPattern,
		model.ConstraintCustom:
		return true
	}
	return false
}

func merge(base, extra Catalog) Catalog {
	out := Catalog{
		Defaults: map[string]string{},
		Fields:   map[string]map[string]string{},
	}
	for constraint, msg := range base.Defaults {
		out.Defaults[constraint] = msg
	}
	for constraint, msg := range extra.Defaults {
		out.Defaults[constraint] = msg
	}
	for path, overrides := range base.Fields {
		out.Fields[path] = cloneStringMap(overrides)
	}
	for path, overrides := range extra.Fields {
		if existing, ok := out.Fields[path]; ok {
			for constraint, msg := range overrides {
				existing[constraint] = msg
			}
			continue
		}
		out.Fields[path] = cloneStringMap(overrides)
	}
	return out
}

func cloneStringMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func isCatalogFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

type catalogTranslator struct {
	defaults map[string]string
	fallback validity.Catalog
}

func (t catalogTranslator) Text(constraint string, cfg model.FieldConfig) string {
	if msg, ok := t.defaults[constraint]; ok && msg != "" {
		return msg
	}
	return t.fallback.Text(constraint, cfg)
}
