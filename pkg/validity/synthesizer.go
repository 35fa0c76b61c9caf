package validity

import (
	"github.com/goliatone/go-formbind/pkg/model"
	"github.com/goliatone/go-formbind/pkg/msgtemplate"
)

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithEngine replaces the message-template engine.
func WithEngine(engine *msgtemplate.Engine) Option {
	return func(s *Synthesizer) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithCatalog replaces the fallback text catalog.
func WithCatalog(catalog Catalog) Option {
	return func(s *Synthesizer) {
		if catalog != nil {
			s.catalog = catalog
		}
	}
}

// Synthesizer turns a control's violation flags plus its field configuration
// into a single human-readable message.
type Synthesizer struct {
	engine  *msgtemplate.Engine
	catalog Catalog
}

// NewSynthesizer constructs a Synthesizer with the built-in catalog and a
// default template engine.
func NewSynthesizer(options ...Option) (*Synthesizer, error) {
	engine, err := msgtemplate.New()
	if err != nil {
		return nil, err
	}
	s := &Synthesizer{
		engine:  engine,
		catalog: DefaultCatalog(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Message resolves the message for the highest-priority violated constraint:
// a configured custom message wins (template-rendered against the constraint
// parameters and sanitized), then the platform-supplied text for that flag,
// then the built-in catalog. A valid state yields the empty string.
func (s *Synthesizer) Message(state State, cfg model.FieldConfig, platformText string) string {
	constraint := state.FirstViolation()
	if constraint == "" {
		return ""
	}

	if custom, ok := cfg.Message(constraint); ok && custom != "" {
		if rendered := s.renderCustom(custom, cfg); rendered != "" {
			return rendered
		}
	}

	if platformText != "" {
		return platformText
	}
	return s.catalog.Text(constraint, cfg)
}

func (s *Synthesizer) renderCustom(custom string, cfg model.FieldConfig) string {
	if !msgtemplate.IsTemplate(custom) {
		return sanitizeMessage(custom)
	}
	rendered, err := s.engine.RenderString(custom, templateContext(cfg))
	if err != nil {
		// a malformed template never breaks an interaction; fall through to
		// platform/catalog text instead
		return ""
	}
	return sanitizeMessage(rendered)
}

func templateContext(cfg model.FieldConfig) map[string]any {
	ctx := map[string]any{
		"label":   cfg.Label,
		"type":    cfg.Type,
		"min":     cfg.Min,
		"max":     cfg.Max,
		"step":    cfg.Step,
		"pattern": cfg.Pattern,
	}
	if cfg.MinLength != nil {
		ctx["minLength"] = *cfg.MinLength
	}
	if cfg.MaxLength != nil {
		ctx["maxLength"] = *cfg.MaxLength
	}
	return ctx
}
