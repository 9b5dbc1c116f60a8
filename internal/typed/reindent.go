package typed

import (
	"github.com/dshills/stache/internal/config"
	"github.com/dshills/stache/internal/logging"
	"github.com/dshills/stache/internal/syntax"
)

// ReindentTrigger requests a reindent of the caret line after a completed
// "{{/name}}", "{{^}}" or "{{else}}".
type ReindentTrigger struct {
	doc        Document
	caret      Caret
	syntax     Syntax
	reindenter Reindenter
	logger     *logging.Logger
}

// NewReindentTrigger creates a reindent trigger.
func NewReindentTrigger(doc Document, caret Caret, syn Syntax, reindenter Reindenter, logger *logging.Logger) *ReindentTrigger {
	return &ReindentTrigger{doc: doc, caret: caret, syntax: syn, reindenter: reindenter, logger: logger}
}

// Trigger runs with offset just past a "}}".
func (r *ReindentTrigger) Trigger(offset ByteOffset, cfg config.Typing) bool {
	if !cfg.FormattingEnabled || r.reindenter == nil {
		return false
	}

	leaf := r.syntax.Resync().NodeAt(offset - 1)
	if leaf == nil {
		return false
	}
	if syntax.FindEnclosing(leaf, true, syntax.OfKind(syntax.SimpleInverse, syntax.CloseBlockStache)) == nil {
		return false
	}

	line := r.doc.OffsetToPoint(r.caret.Offset()).Line
	lineStart := r.doc.LineStartOffset(line)
	if _, err := r.reindenter.ReindentLineAt(lineStart); err != nil {
		r.logger.Warn("reindent line %d: %v", line, err)
		return false
	}
	r.logger.Debug("reindented line %d", line)
	return true
}
