package loader

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a configuration file syntax.
type Format int

const (
	// TOML is the default format.
	TOML Format = iota
	// YAML is used for .yaml and .yml files.
	YAML
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case TOML:
		return "toml"
	case YAML:
		return "yaml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatFor picks the format from the extension of path. Unknown
// extensions are read as TOML.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return TOML
	}
}

// decode parses data into a section map. Decoder errors are returned as
// *ParseError with the best position the decoder reports.
func (f Format) decode(source string, data []byte) (map[string]any, error) {
	var out map[string]any
	var err error
	switch f {
	case YAML:
		err = yaml.Unmarshal(data, &out)
	default:
		err = toml.Unmarshal(data, &out)
	}
	if err == nil {
		return out, nil
	}

	pe := &ParseError{Path: source, Format: f, Message: err.Error(), Err: err}
	var decErr *toml.DecodeError
	var typeErr *yaml.TypeError
	switch {
	case errors.As(err, &decErr):
		pe.Line, pe.Column = decErr.Position()
	case errors.As(err, &typeErr) && len(typeErr.Errors) > 0:
		pe.Message = typeErr.Errors[0]
		_, _ = fmt.Sscanf(pe.Message, "line %d:", &pe.Line)
	default:
		// yaml syntax errors read "yaml: line N: ..."
		_, _ = fmt.Sscanf(pe.Message, "yaml: line %d:", &pe.Line)
	}
	return nil, pe
}

// ParseError is a configuration file that could not be decoded.
type ParseError struct {
	Path    string
	Format  Format
	Line    int // 1-based, 0 when unknown
	Column  int // 1-based, 0 when unknown
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	var pos string
	switch {
	case e.Line > 0 && e.Column > 0:
		pos = fmt.Sprintf(":%d:%d", e.Line, e.Column)
	case e.Line > 0:
		pos = fmt.Sprintf(":%d", e.Line)
	}
	return fmt.Sprintf("%s%s: invalid %s: %s", e.Path, pos, e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
