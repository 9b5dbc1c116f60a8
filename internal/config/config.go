package config

import (
	"fmt"
	"strings"

	"github.com/dshills/stache/internal/config/loader"
	"github.com/dshills/stache/internal/logging"
)

// EnvPrefix is the prefix of environment variables that override settings.
const EnvPrefix = "STACHE_"

// Bounds for editor.indentSize.
const (
	MinIndentSize = 1
	MaxIndentSize = 16
)

// Typing holds the flags consulted by the typed-handler engine. It is passed
// by value to every decision.
type Typing struct {
	// AutoInsertCloseTag enables "{{/name}}" synthesis after a block opener.
	AutoInsertCloseTag bool
	// FormattingEnabled enables reindenting after a close or else stache.
	FormattingEnabled bool
}

// Editor holds host editor settings.
type Editor struct {
	// AutoPairs enables the host's default bracket auto-pairing.
	AutoPairs bool
	// IndentSize is the number of columns per nesting level.
	IndentSize int
	// UseTabs indents with one tab per level instead of spaces.
	UseTabs bool
}

// Logging holds logger settings.
type Logging struct {
	Level string
}

// Settings is a complete, validated configuration. Treat it as immutable
// once it has been published.
type Settings struct {
	Typing  Typing
	Editor  Editor
	Logging Logging
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Typing: Typing{
			AutoInsertCloseTag: true,
			FormattingEnabled:  true,
		},
		Editor: Editor{
			AutoPairs:  true,
			IndentSize: 2,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// Validate checks value ranges.
func (s Settings) Validate() error {
	if s.Editor.IndentSize < MinIndentSize || s.Editor.IndentSize > MaxIndentSize {
		return &ValidationError{
			Path:    "editor.indentSize",
			Value:   s.Editor.IndentSize,
			Err:     ErrValidationFailed,
			Message: fmt.Sprintf("must be between %d and %d", MinIndentSize, MaxIndentSize),
		}
	}
	if _, err := logging.ParseLevel(s.Logging.Level); err != nil {
		return &ValidationError{
			Path:    "logging.level",
			Value:   s.Logging.Level,
			Err:     ErrValidationFailed,
			Message: err.Error(),
		}
	}
	return nil
}

// IndentUnit returns the text of one indentation level.
func (s Settings) IndentUnit() string {
	if s.Editor.UseTabs {
		return "\t"
	}
	return strings.Repeat(" ", s.Editor.IndentSize)
}

// LogLevel returns the parsed logging level. Settings that passed Validate
// always parse.
func (s Settings) LogLevel() logging.Level {
	level, _ := logging.ParseLevel(s.Logging.Level)
	return level
}

// Load resolves settings from defaults, the file at path (skipped when path
// is empty or the file does not exist) and the environment.
func Load(path string) (Settings, error) {
	merged := make(map[string]any)

	if path != "" {
		fileConfig, err := loader.ForPath(path).Load()
		if err != nil {
			return Settings{}, fmt.Errorf("loading %s: %w", path, err)
		}
		merged = loader.DeepMerge(merged, fileConfig)
	}

	// Unrelated STACHE_* variables are not settings and must not fail the load.
	envConfig, err := loader.NewEnvLoader(EnvPrefix).Restrict(settingPaths...).Load()
	if err != nil {
		return Settings{}, fmt.Errorf("loading environment: %w", err)
	}
	merged = loader.DeepMerge(merged, envConfig)

	return FromMap(merged)
}

// FromMap applies a generic configuration map over the defaults and
// validates the result.
func FromMap(m map[string]any) (Settings, error) {
	s := Default()
	if err := s.apply(m); err != nil {
		return Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s *Settings) apply(m map[string]any) error {
	for section, raw := range m {
		values, ok := raw.(map[string]any)
		if !ok {
			return &ValidationError{Path: section, Value: raw, Err: ErrTypeMismatch, Message: "expected a table"}
		}
		for key, v := range values {
			path := section + "." + key
			if err := s.set(path, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// settingPaths lists every path set accepts.
var settingPaths = []string{
	"typing.autoInsertCloseTag",
	"typing.formattingEnabled",
	"editor.autoPairs",
	"editor.indentSize",
	"editor.useTabs",
	"logging.level",
}

func (s *Settings) set(path string, v any) error {
	var err error
	switch path {
	case "typing.autoInsertCloseTag":
		s.Typing.AutoInsertCloseTag, err = asBool(path, v)
	case "typing.formattingEnabled":
		s.Typing.FormattingEnabled, err = asBool(path, v)
	case "editor.autoPairs":
		s.Editor.AutoPairs, err = asBool(path, v)
	case "editor.indentSize":
		s.Editor.IndentSize, err = asInt(path, v)
	case "editor.useTabs":
		s.Editor.UseTabs, err = asBool(path, v)
	case "logging.level":
		s.Logging.Level, err = asString(path, v)
	default:
		err = &ValidationError{Path: path, Value: v, Err: ErrUnknownSetting}
	}
	return err
}

func asBool(path string, v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case int64:
		if b == 0 || b == 1 {
			return b == 1, nil
		}
	}
	return false, &ValidationError{Path: path, Value: v, Err: ErrTypeMismatch, Message: fmt.Sprintf("expected bool, got %T", v)}
}

func asInt(path string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n == float64(int(n)) {
			return int(n), nil
		}
	}
	return 0, &ValidationError{Path: path, Value: v, Err: ErrTypeMismatch, Message: fmt.Sprintf("expected integer, got %T", v)}
}

func asString(path string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", &ValidationError{Path: path, Value: v, Err: ErrTypeMismatch, Message: fmt.Sprintf("expected string, got %T", v)}
	}
	return s, nil
}
