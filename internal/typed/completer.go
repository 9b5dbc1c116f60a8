package typed

import (
	"github.com/dshills/stache/internal/logging"
	"github.com/dshills/stache/internal/syntax"
)

// DelimiterCompleter turns a lone "}" that closes a stache into "}}".
type DelimiterCompleter struct {
	doc    Document
	caret  Caret
	syntax Syntax
	logger *logging.Logger
}

// NewDelimiterCompleter creates a delimiter completer.
func NewDelimiterCompleter(doc Document, caret Caret, syn Syntax, logger *logging.Logger) *DelimiterCompleter {
	return &DelimiterCompleter{doc: doc, caret: caret, syntax: syn, logger: logger}
}

// Complete runs after "}" was committed, with offset just past it. When the
// typed brace lexes as an invalid token, a second "}" is inserted and the
// caret moves past it. It returns the resulting caret offset and whether it
// completed.
func (d *DelimiterCompleter) Complete(offset ByteOffset) (ByteOffset, bool) {
	if _, kind, ok := tokenKindAt(d.syntax, offset-1); !ok || kind != syntax.Invalid {
		return offset, false
	}

	if _, err := d.doc.Insert(offset, "}"); err != nil {
		d.logger.Warn("complete delimiter at %d: %v", offset, err)
		return offset, false
	}
	d.caret.MoveTo(offset + 1)
	d.logger.Debug("completed delimiter at %d", offset)
	return offset + 1, true
}
