package prompt

import (
	"context"
	"fmt"
	"sort"

	"github.com/goliatone/go-formbind/pkg/controls"
	"github.com/goliatone/go-formbind/pkg/fieldpath"
	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/model"
)

// Theme captures optional formatting prefixes the session applies when
// printing messages. Keep minimal to avoid coupling session logic to ANSI
// specifics.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures a Session.
type Option func(*Session)

// WithDriver overrides the terminal driver.
func WithDriver(driver Driver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(s *Session) {
		s.theme = theme
	}
}

// WithFormOptions forwards options to the underlying form scope, for example
// a custom message catalog.
func WithFormOptions(options ...form.Option) Option {
	return func(s *Session) {
		s.formOptions = append(s.formOptions, options...)
	}
}

// Session drives one interactive fill of a field tree. Each answered prompt
// feeds a blur interaction, so messages appear with the same timing a live
// form would show them; the closing confirm feeds the submit attempt.
type Session struct {
	tree        model.FieldTree
	driver      Driver
	theme       Theme
	formOptions []form.Option

	form   *form.Form
	values map[string]string
}

// NewSession constructs a session over a normalized field tree.
func NewSession(tree model.FieldTree, options ...Option) (*Session, error) {
	s := &Session{
		tree:   tree,
		driver: NewSurveyDriver(),
		values: make(map[string]string),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	f, err := form.New(tree, s.formOptions...)
	if err != nil {
		return nil, err
	}
	s.form = f
	return s, nil
}

// Values returns the collected address to value map. Only meaningful after
// Run returns.
func (s *Session) Values() map[string]string {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Run walks the tree prompting for every control, then performs the final
// submit check. It returns ErrInvalid when messages remain after submit.
func (s *Session) Run(ctx context.Context) error {
	defer s.form.Close()

	if err := s.promptFields(ctx, "", s.tree); err != nil {
		return err
	}

	if s.form.Submit("", "") {
		return nil
	}
	errs := s.form.Errors()
	for _, address := range sortedKeys(errs) {
		if msg := errs[address]; msg != "" {
			if err := s.driver.Info(ctx, fmt.Sprintf("%s%s: %s", s.theme.ErrorPrefix, address, msg)); err != nil {
				return err
			}
		}
	}
	return ErrInvalid
}

func (s *Session) promptFields(ctx context.Context, parent string, tree model.FieldTree) error {
	for _, key := range sortedKeys(tree) {
		cfg := tree[key]
		address := fieldpath.Join(parent, key)

		var err error
		switch cfg.Kind {
		case model.KindControl:
			err = s.promptControl(ctx, address, cfg)
		case model.KindFieldset:
			err = s.promptFields(ctx, address, cfg.Fields)
		case model.KindListOfFieldset:
			err = s.promptList(ctx, address, cfg)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) promptControl(ctx context.Context, address string, cfg model.FieldConfig) error {
	ctl := controls.New(cfg)
	if err := s.form.MountControl(address, ctl); err != nil {
		return err
	}

	for {
		value, err := s.ask(ctx, address, cfg, ctl.Value())
		if err != nil {
			return err
		}
		ctl.SetValue(value)
		if s.form.Blur(address) {
			s.values[address] = value
			return nil
		}
		msg, _ := s.form.Message(address)
		if err := s.driver.Info(ctx, s.theme.ErrorPrefix+msg); err != nil {
			return err
		}
	}
}

func (s *Session) ask(ctx context.Context, address string, cfg model.FieldConfig, current string) (string, error) {
	label := cfg.Label
	if label == "" {
		label = fieldpath.LastSegment(address)
	}

	switch {
	case cfg.Type == "password":
		return s.driver.Password(ctx, InputConfig{Message: label})
	case cfg.Type == "checkbox":
		checked, err := s.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: current != ""})
		if err != nil {
			return "", err
		}
		if checked {
			return "on", nil
		}
		return "", nil
	case len(cfg.Options) > 0:
		names := make([]string, 0, len(cfg.Options))
		defaultIndex := 0
		for i, option := range cfg.Options {
			names = append(names, option.Value)
			if option.Value == current {
				defaultIndex = i
			}
		}
		idx, err := s.driver.Select(ctx, SelectConfig{Message: label, Options: names, DefaultIndex: defaultIndex})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(cfg.Options) {
			return "", nil
		}
		return cfg.Options[idx].Value, nil
	default:
		return s.driver.Input(ctx, InputConfig{Message: label, Default: current})
	}
}

func (s *Session) promptList(ctx context.Context, address string, cfg model.FieldConfig) error {
	if cfg.Count != nil {
		// fixed-size lists have no structural controls; prompt each element
		for i := 0; i < *cfg.Count; i++ {
			elem := fieldpath.Indexed(address, i)
			if err := s.promptFields(ctx, elem, cfg.Fields); err != nil {
				return err
			}
		}
		return nil
	}

	// lists nested inside list elements mount as their element materializes
	controller, ok := s.form.List(address)
	if !ok {
		if err := s.form.MountList(address, 0); err != nil {
			return err
		}
		controller, _ = s.form.List(address)
	}

	label := cfg.Label
	if label == "" {
		label = fieldpath.LastSegment(address)
	}

	for {
		add, err := s.driver.Confirm(ctx, ConfirmConfig{Message: fmt.Sprintf("Add an entry to %s?", label)})
		if err != nil {
			return err
		}
		if !add {
			return nil
		}
		sc := controller.AppendControl()
		s.form.Submit(sc.Name, sc.Value)
		elem := controller.ElementAddress(controller.Len() - 1)
		if err := s.promptFields(ctx, elem, cfg.Fields); err != nil {
			return err
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
