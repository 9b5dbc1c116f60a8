package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/stache/internal/logging"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestDefault(t *testing.T) {
	s := Default()

	if !s.Typing.AutoInsertCloseTag || !s.Typing.FormattingEnabled {
		t.Errorf("typing flags should default to on: %+v", s.Typing)
	}
	if !s.Editor.AutoPairs || s.Editor.IndentSize != 2 || s.Editor.UseTabs {
		t.Errorf("unexpected editor defaults: %+v", s.Editor)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
	if s.LogLevel() != logging.LevelInfo {
		t.Errorf("LogLevel() = %v, want INFO", s.LogLevel())
	}
}

func TestIndentUnit(t *testing.T) {
	s := Default()
	s.Editor.IndentSize = 4
	if got := s.IndentUnit(); got != "    " {
		t.Errorf("IndentUnit() = %q, want four spaces", got)
	}

	s.Editor.UseTabs = true
	if got := s.IndentUnit(); got != "\t" {
		t.Errorf("IndentUnit() = %q, want tab", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
		path   string
	}{
		{"indent too small", func(s *Settings) { s.Editor.IndentSize = 0 }, "editor.indentSize"},
		{"indent too large", func(s *Settings) { s.Editor.IndentSize = MaxIndentSize + 1 }, "editor.indentSize"},
		{"unknown level", func(s *Settings) { s.Logging.Level = "loud" }, "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.modify(&s)

			err := s.Validate()
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if ve.Path != tt.path {
				t.Errorf("Path = %q, want %q", ve.Path, tt.path)
			}
			if !errors.Is(err, ErrValidationFailed) {
				t.Errorf("expected ErrValidationFailed, got %v", err)
			}
		})
	}
}

func TestFromMap(t *testing.T) {
	s, err := FromMap(map[string]any{
		"typing": map[string]any{"autoInsertCloseTag": false},
		"editor": map[string]any{"indentSize": int64(4), "useTabs": int64(1)},
	})
	if err != nil {
		t.Fatalf("FromMap failed: %v", err)
	}

	if s.Typing.AutoInsertCloseTag {
		t.Error("autoInsertCloseTag should be off")
	}
	if !s.Typing.FormattingEnabled {
		t.Error("formattingEnabled should keep its default")
	}
	if s.Editor.IndentSize != 4 || !s.Editor.UseTabs {
		t.Errorf("unexpected editor settings: %+v", s.Editor)
	}
}

func TestFromMapErrors(t *testing.T) {
	tests := []struct {
		name string
		m    map[string]any
		want error
	}{
		{"wrong type", map[string]any{"typing": map[string]any{"formattingEnabled": "yes please"}}, ErrTypeMismatch},
		{"unknown key", map[string]any{"editor": map[string]any{"wordWrap": true}}, ErrUnknownSetting},
		{"section not a table", map[string]any{"typing": true}, ErrTypeMismatch},
		{"fractional indent", map[string]any{"editor": map[string]any{"indentSize": 2.5}}, ErrTypeMismatch},
		{"out of range", map[string]any{"editor": map[string]any{"indentSize": 40}}, ErrValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromMap(tt.m); !errors.Is(err, tt.want) {
				t.Errorf("FromMap() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "stache.toml", `
[typing]
formattingEnabled = false

[editor]
indentSize = 4

[logging]
level = "debug"
`)

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Typing.FormattingEnabled {
		t.Error("formattingEnabled should be off")
	}
	if s.Editor.IndentSize != 4 {
		t.Errorf("IndentSize = %d, want 4", s.Editor.IndentSize)
	}
	if s.LogLevel() != logging.LevelDebug {
		t.Errorf("LogLevel() = %v, want DEBUG", s.LogLevel())
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "stache.yml", `
editor:
  autoPairs: false
  useTabs: true
`)

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Editor.AutoPairs || !s.Editor.UseTabs {
		t.Errorf("unexpected editor settings: %+v", s.Editor)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s != Default() {
		t.Errorf("expected defaults, got %+v", s)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "stache.toml", "[typing]\nautoInsertCloseTag = true\n")
	t.Setenv("STACHE_TYPING_AUTO_INSERT_CLOSE_TAG", "false")
	t.Setenv("STACHE_EDITOR_INDENT_SIZE", "8")
	t.Setenv("STACHE_LOG_LEVEL", "warn")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Typing.AutoInsertCloseTag {
		t.Error("environment should override the file")
	}
	if s.Editor.IndentSize != 8 {
		t.Errorf("IndentSize = %d, want 8", s.Editor.IndentSize)
	}
	if s.Logging.Level != "warn" {
		t.Errorf("Level = %q, want warn", s.Logging.Level)
	}
}

func TestLoadParseError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "stache.toml", "[typing\n")

	_, err := Load(path)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
}

func TestLoadIgnoresUnrelatedEnvironment(t *testing.T) {
	t.Setenv("STACHE_LOG_FILE", "/tmp/stache.log")
	t.Setenv("STACHE_EDITOR_USE_TABS", "on")

	s, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !s.Editor.UseTabs {
		t.Error("STACHE_EDITOR_USE_TABS should still apply")
	}
}

func TestSettingPathsAreAccepted(t *testing.T) {
	for _, path := range settingPaths {
		s := Default()
		err := s.set(path, "x")
		if errors.Is(err, ErrUnknownSetting) {
			t.Errorf("set(%q) reports an unknown setting", path)
		}
	}
}
