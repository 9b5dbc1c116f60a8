package format

import (
	"strings"

	"github.com/dshills/stache/internal/engine/buffer"
	"github.com/dshills/stache/internal/syntax"
)

// DefaultUnit is the indentation used when none is configured.
const DefaultUnit = "  "

// Document is the text the indenter edits.
type Document interface {
	Len() buffer.ByteOffset
	OffsetToPoint(offset buffer.ByteOffset) buffer.Point
	LineStartOffset(line uint32) buffer.ByteOffset
	LineText(line uint32) string
	Replace(start, end buffer.ByteOffset, text string) (buffer.ByteOffset, error)
}

// Tree provides the syntax view of the document's current revision.
type Tree interface {
	Resync() *syntax.View
}

// Caret is moved along with indentation edits.
type Caret interface {
	Transform(r buffer.Range, newLen buffer.ByteOffset)
}

// Indenter rewrites the leading whitespace of single lines.
type Indenter struct {
	doc   Document
	tree  Tree
	caret Caret
	unit  string
}

// NewIndenter creates an indenter. caret may be nil.
func NewIndenter(doc Document, tree Tree, caret Caret) *Indenter {
	return &Indenter{
		doc:   doc,
		tree:  tree,
		caret: caret,
		unit:  DefaultUnit,
	}
}

// SetUnit sets the text of one indentation level.
func (ix *Indenter) SetUnit(unit string) {
	ix.unit = unit
}

// Unit returns the text of one indentation level.
func (ix *Indenter) Unit() string {
	return ix.unit
}

// ReindentLineAt reindents the line containing offset. Blank lines are left
// alone. It reports whether the document changed.
func (ix *Indenter) ReindentLineAt(offset buffer.ByteOffset) (bool, error) {
	line := ix.doc.OffsetToPoint(offset).Line
	lineStart := ix.doc.LineStartOffset(line)
	text := ix.doc.LineText(line)

	body := strings.TrimLeft(text, " \t")
	if body == "" {
		return false, nil
	}
	wsLen := buffer.ByteOffset(len(text) - len(body))

	view := ix.tree.Resync()
	want := strings.Repeat(ix.unit, Depth(view.NodeAt(lineStart+wsLen)))
	if text[:wsLen] == want {
		return false, nil
	}

	r := buffer.NewRange(lineStart, lineStart+wsLen)
	if _, err := ix.doc.Replace(r.Start, r.End, want); err != nil {
		return false, err
	}
	if ix.caret != nil {
		ix.caret.Transform(r, buffer.ByteOffset(len(want)))
	}
	return true, nil
}

// Depth returns the number of block bodies enclosing n.
func Depth(n *syntax.Node) int {
	depth := 0
	for p := n; p != nil; p = p.Parent() {
		if p.Kind() == syntax.Program && p.Parent() != nil && p.Parent().Kind() == syntax.Block {
			depth++
		}
	}
	return depth
}
