package loader

import (
	"fmt"
	"io"
)

// File loads configuration from a TOML or YAML file.
type File struct {
	fs     FileSystem
	path   string
	format Format
}

// NewFile creates a loader reading path in the given format.
func NewFile(path string, format Format) *File {
	return &File{fs: DefaultFS(), path: path, format: format}
}

// ForPath creates a loader for path, choosing the format by extension.
func ForPath(path string) *File {
	return NewFile(path, FormatFor(path))
}

// WithFS replaces the file system the loader reads from.
func (l *File) WithFS(fsys FileSystem) *File {
	l.fs = fsys
	return l
}

// Format returns the format the loader decodes.
func (l *File) Format() Format { return l.format }

// Path returns the configured path.
func (l *File) Path() string { return l.path }

// Load reads configuration from the configured path.
func (l *File) Load() (map[string]any, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom reads configuration from a specific path. A missing file
// yields nil, nil.
func (l *File) LoadFrom(path string) (map[string]any, error) {
	data, err := readFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if data == nil {
		return nil, nil
	}
	return l.format.decode(path, data)
}

// LoadFromReader reads configuration from r.
func (l *File) LoadFromReader(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return l.format.decode("<reader>", data)
}

// DeepMerge merges src into dst and returns dst. Nested section maps
// merge key by key; any other value in src replaces the one in dst.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for key, v := range src {
		sub, ok := v.(map[string]any)
		if !ok {
			dst[key] = v
			continue
		}
		if cur, ok := dst[key].(map[string]any); ok {
			dst[key] = DeepMerge(cur, sub)
		} else {
			dst[key] = DeepMerge(nil, sub)
		}
	}
	return dst
}
