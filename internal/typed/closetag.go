package typed

import (
	"github.com/dshills/stache/internal/config"
	"github.com/dshills/stache/internal/logging"
	"github.com/dshills/stache/internal/syntax"
)

// CloseTagSynthesizer inserts "{{/name}}" after a completed block opener
// that has no matching close tag.
type CloseTagSynthesizer struct {
	doc    Document
	syntax Syntax
	logger *logging.Logger
}

// NewCloseTagSynthesizer creates a close tag synthesizer.
func NewCloseTagSynthesizer(doc Document, syn Syntax, logger *logging.Logger) *CloseTagSynthesizer {
	return &CloseTagSynthesizer{doc: doc, syntax: syn, logger: logger}
}

// Synthesize runs with offset just past a "}}". The close tag is inserted
// at offset and the caret is left where it is.
func (s *CloseTagSynthesizer) Synthesize(offset ByteOffset, cfg config.Typing) bool {
	if !cfg.AutoInsertCloseTag {
		return false
	}

	leaf, kind, ok := tokenKindAt(s.syntax, offset-1)
	if !ok || kind != syntax.Close {
		return false
	}

	open := syntax.FindEnclosing(leaf, true, syntax.OfKind(syntax.OpenBlockStache, syntax.OpenInverseStache))
	if open == nil || open.PairedClose() != nil {
		return false
	}
	name := open.NameNode()
	if len(open.SignificantChildren()) <= 1 || name == nil {
		return false
	}

	tag := "{{/" + name.Text() + "}}"
	if _, err := s.doc.Insert(offset, tag); err != nil {
		s.logger.Warn("insert close tag at %d: %v", offset, err)
		return false
	}
	s.logger.Debug("inserted %s at %d", tag, offset)
	return true
}
