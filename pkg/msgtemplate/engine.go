package msgtemplate

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	gotemplatepkg "github.com/goliatone/go-template"
)

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	filters    map[string]func(input any, param any) (any, error)
	globalData map[string]any
}

// WithFilter registers a template filter available to every message template.
func WithFilter(name string, fn func(input any, param any) (any, error)) Option {
	return func(cfg *config) {
		name = strings.TrimSpace(name)
		if name == "" || fn == nil {
			return
		}
		if cfg.filters == nil {
			cfg.filters = make(map[string]func(any, any) (any, error))
		}
		cfg.filters[name] = fn
	}
}

// WithGlobalData seeds context values available to every message template,
// for example an application name or support contact.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// WithGoTemplateOptions exists for callers migrating from the go-template
// engine configuration surface and is currently a no-op.
func WithGoTemplateOptions(_ ...gotemplatepkg.Option) Option {
	return func(*config) {}
}

// Engine renders message templates from strings. Custom validation messages
// are short pongo2 expressions ("must be at least {{ minLength }} characters")
// evaluated against the violated constraint's parameters; there is no file or
// fs loading because messages never live on disk.
type Engine struct {
	mu          sync.RWMutex
	templateSet *pongo2.TemplateSet
	cache       map[string]*pongo2.Template
}

// New constructs an Engine using the provided configuration options.
func New(options ...Option) (*Engine, error) {
	cfg := &config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	engine := &Engine{
		templateSet: pongo2.NewSet("formbind", pongo2.MustNewLocalFileSystemLoader("")),
		cache:       make(map[string]*pongo2.Template),
	}

	if len(cfg.globalData) > 0 {
		engine.templateSet.Globals = pongo2.Context(cfg.globalData)
	}
	for name, fn := range cfg.filters {
		if err := engine.RegisterFilter(name, fn); err != nil {
			return nil, fmt.Errorf("msgtemplate: register filter %q: %w", name, err)
		}
	}
	return engine, nil
}

// RenderString parses and executes a template string against data. Parsed
// templates are cached by content since message templates repeat per field.
func (e *Engine) RenderString(content string, data map[string]any) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("msgtemplate: engine is nil")
	}

	tmpl, err := e.template(content)
	if err != nil {
		return "", fmt.Errorf("msgtemplate: parse template: %w", err)
	}

	out, err := tmpl.Execute(pongo2.Context(data))
	if err != nil {
		return "", fmt.Errorf("msgtemplate: execute template: %w", err)
	}
	return out, nil
}

// RegisterFilter registers a pongo2 filter unless the name is already taken.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	if strings.TrimSpace(name) == "" || fn == nil {
		return errors.New("msgtemplate: filter name and function required")
	}
	if pongo2.FilterExists(name) {
		return fmt.Errorf("msgtemplate: filter %q already exists", name)
	}
	filter := func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var paramVal any
		if param != nil {
			paramVal = param.Interface()
		}
		result, err := fn(in.Interface(), paramVal)
		if err != nil {
			return nil, &pongo2.Error{Sender: "custom_filter", OrigError: err}
		}
		return pongo2.AsValue(result), nil
	}
	return pongo2.RegisterFilter(name, filter)
}

// IsTemplate reports whether a message string contains template markup.
// Plain custom messages skip the render step entirely.
func IsTemplate(s string) bool {
	return strings.Contains(s, "{{") || strings.Contains(s, "{%")
}

func (e *Engine) template(content string) (*pongo2.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.cache[content]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.cache[content]; ok {
		return tmpl, nil
	}
	tmpl, err := e.templateSet.FromString(content)
	if err != nil {
		return nil, err
	}
	e.cache[content] = tmpl
	return tmpl, nil
}
