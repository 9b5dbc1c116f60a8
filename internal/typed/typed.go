package typed

import (
	"github.com/dshills/stache/internal/engine/buffer"
	"github.com/dshills/stache/internal/syntax"
)

// ByteOffset is an alias for buffer.ByteOffset.
type ByteOffset = buffer.ByteOffset

// Document is the text being edited.
type Document interface {
	TextRange(start, end ByteOffset) string
	Insert(offset ByteOffset, text string) (ByteOffset, error)
	Len() ByteOffset
	LineStartOffset(line uint32) ByteOffset
	OffsetToPoint(offset ByteOffset) buffer.Point
}

// Caret is the single insertion point.
type Caret interface {
	Offset() ByteOffset
	MoveTo(offset ByteOffset)
}

// Syntax provides the syntax tree of the document's current revision.
// Resync must be called after every mutation and before every query.
type Syntax interface {
	Resync() *syntax.View
}

// Reindenter reindents the line containing an offset.
type Reindenter interface {
	ReindentLineAt(offset ByteOffset) (bool, error)
}

// Decision is the result of the pre-commit phase.
type Decision int

const (
	// Continue lets the host commit the character normally.
	Continue Decision = iota
	// Suppress means the keystroke was consumed; the host must skip both
	// its default commit and the post-commit phase.
	Suppress
)

// String returns the decision name.
func (d Decision) String() string {
	switch d {
	case Continue:
		return "continue"
	case Suppress:
		return "suppress"
	default:
		return "unknown"
	}
}

// Outcome records which post-commit behaviors fired for a keystroke.
type Outcome struct {
	// Completed is set when a lone "}" was completed to "}}".
	Completed bool
	// ClosedTag is set when a "{{/name}}" was inserted.
	ClosedTag bool
	// Reindented is set when a reindent was requested.
	Reindented bool
	// Offset is the caret offset after the post-commit phase.
	Offset ByteOffset
}

// Fired reports whether any behavior fired.
func (o Outcome) Fired() bool {
	return o.Completed || o.ClosedTag || o.Reindented
}

// charAt returns the character at offset, or 0 when offset is out of range.
func charAt(doc Document, offset ByteOffset) byte {
	s := doc.TextRange(offset, offset+1)
	if len(s) != 1 {
		return 0
	}
	return s[0]
}

// tokenKindAt resyncs and returns the kind of the token covering offset.
func tokenKindAt(syn Syntax, offset ByteOffset) (*syntax.Node, syntax.TokenKind, bool) {
	leaf := syn.Resync().NodeAt(offset)
	kind, ok := leaf.TokenKind()
	return leaf, kind, ok
}
