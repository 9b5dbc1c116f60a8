package syntax

import "github.com/dshills/stache/internal/engine/buffer"

// View is the syntax tree of one document revision.
type View struct {
	revision buffer.RevisionID
	root     *Node
	length   buffer.ByteOffset
}

// NewView parses src and tags the result with revision.
func NewView(src string, revision buffer.RevisionID) *View {
	return &View{
		revision: revision,
		root:     Parse(src),
		length:   buffer.ByteOffset(len(src)),
	}
}

// Revision returns the document revision the view was built from.
func (v *View) Revision() buffer.RevisionID { return v.revision }

// Root returns the root node.
func (v *View) Root() *Node { return v.root }

// Len returns the length of the text the view was built from.
func (v *View) Len() buffer.ByteOffset { return v.length }

// NodeAt returns the leaf whose token covers offset, or nil when offset is
// outside the text.
func (v *View) NodeAt(offset buffer.ByteOffset) *Node {
	if offset < 0 || offset >= v.length {
		return nil
	}
	return v.root.leafAt(offset)
}

// Leaves returns every leaf of the tree in document order.
func (v *View) Leaves() []*Node {
	var out []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.IsLeaf() {
			out = append(out, n)
			return
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(v.root)
	return out
}

// Source is the document a Syncer keeps a view of.
type Source interface {
	Text() string
	RevisionID() buffer.RevisionID
}

// Syncer keeps a View in step with a Source. A view is only valid for the
// revision it was built from; callers must Resync after every mutation and
// before every query.
type Syncer struct {
	src    Source
	view   *View
	parses int
}

// NewSyncer creates a syncer for src. No parsing happens until Resync.
func NewSyncer(src Source) *Syncer {
	return &Syncer{src: src}
}

// Resync returns a view of the current revision, reparsing only when the
// document changed since the last resync.
func (s *Syncer) Resync() *View {
	rev := s.src.RevisionID()
	if s.view != nil && s.view.revision == rev {
		return s.view
	}
	s.view = NewView(s.src.Text(), rev)
	s.parses++
	return s.view
}

// Stale reports whether the last view no longer matches the document.
func (s *Syncer) Stale() bool {
	return s.view == nil || s.view.revision != s.src.RevisionID()
}

// Parses returns how many times the syncer has reparsed the document.
func (s *Syncer) Parses() int {
	return s.parses
}
