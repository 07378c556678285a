package config

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/validator/v10"
)

var structValidator = validator.New()

// Error wraps a struct-tag validation failure with the section it came
// from, reported as "section.field: cause" without pulling config
// concerns into internal/errors's declaration/resolution/structural/
// binary/budget error kinds, which config validation isn't one of.
type Error struct {
	Section string
	Field   string
	Err     error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config: %s.%s: %v", e.Section, e.Field, e.Err)
	}
	return fmt.Sprintf("config: %s: %v", e.Section, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Validate runs struct-tag validation over cfg and checks every
// Include/Exclude entry is a syntactically valid doublestar pattern.
// Called after Load, before the config is handed to the rest of the
// engine.
func (c *Config) Validate() error {
	if err := structValidator.Struct(c); err != nil {
		ve, ok := err.(validator.ValidationErrors)
		if !ok || len(ve) == 0 {
			return &Error{Section: "config", Err: err}
		}
		fe := ve[0]
		return &Error{Section: fe.StructNamespace(), Field: fe.Field(), Err: fmt.Errorf("failed on %q", fe.Tag())}
	}

	for _, pattern := range c.Include {
		if !doublestar.ValidatePattern(pattern) {
			return &Error{Section: "include", Err: fmt.Errorf("invalid glob pattern %q", pattern)}
		}
	}
	for _, pattern := range c.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return &Error{Section: "exclude", Err: fmt.Errorf("invalid glob pattern %q", pattern)}
		}
	}
	return nil
}

// Matches reports whether path (relative to Project.Root) should be
// considered by the engine: excluded patterns win, then an empty Include
// list means "everything", otherwise at least one Include pattern must
// match.
func (c *Config) Matches(path string) bool {
	for _, pattern := range c.Exclude {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return false
		}
	}
	if len(c.Include) == 0 {
		return true
	}
	for _, pattern := range c.Include {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}
