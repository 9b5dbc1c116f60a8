package syntax

import (
	"fmt"
	"io"
	"strings"

	"github.com/dshills/stache/internal/engine/buffer"
)

// NodeKind identifies the syntactic role of a node.
type NodeKind uint8

const (
	// Root is the top of every tree.
	Root NodeKind = iota
	// Program is a sequence of statements, either at the top level or
	// inside a block.
	Program
	// Block groups an open stache, its programs, any simple inverses and
	// the close stache, when one is present.
	Block
	// OpenBlockStache is "{{#name ...}}".
	OpenBlockStache
	// OpenInverseStache is "{{^name ...}}".
	OpenInverseStache
	// CloseBlockStache is "{{/name}}".
	CloseBlockStache
	// SimpleInverse is "{{^}}" or "{{else}}".
	SimpleInverse
	// Mustache is "{{name ...}}" or "{{{name ...}}}".
	Mustache
	// Partial is "{{> name ...}}".
	Partial
	// MustacheName is the path naming a stache.
	MustacheName
	// Param is a positional parameter.
	Param
	// Hash groups the key=value pairs of a stache.
	Hash
	// HashPair is a single key=value pair.
	HashPair
	// Sexpr is a parenthesized sub-expression.
	Sexpr
	// Leaf wraps a single token.
	Leaf
)

// String returns the name of the node kind.
func (k NodeKind) String() string {
	switch k {
	case Root:
		return "Root"
	case Program:
		return "Program"
	case Block:
		return "Block"
	case OpenBlockStache:
		return "OpenBlockStache"
	case OpenInverseStache:
		return "OpenInverseStache"
	case CloseBlockStache:
		return "CloseBlockStache"
	case SimpleInverse:
		return "SimpleInverse"
	case Mustache:
		return "Mustache"
	case Partial:
		return "Partial"
	case MustacheName:
		return "MustacheName"
	case Param:
		return "Param"
	case Hash:
		return "Hash"
	case HashPair:
		return "HashPair"
	case Sexpr:
		return "Sexpr"
	case Leaf:
		return "Leaf"
	default:
		return fmt.Sprintf("NodeKind(%d)", uint8(k))
	}
}

// IsOpenTag reports whether the kind opens a block.
func (k NodeKind) IsOpenTag() bool {
	switch k {
	case OpenBlockStache, OpenInverseStache:
		return true
	default:
		return false
	}
}

// Node is an element of the syntax tree. Leaves carry exactly one token;
// every other node carries children. A tree is built for one document
// revision and never mutated afterwards.
type Node struct {
	kind     NodeKind
	rng      buffer.Range
	token    Token
	parent   *Node
	children []*Node
}

func newNode(kind NodeKind) *Node {
	return &Node{kind: kind}
}

func newLeaf(tok Token) *Node {
	return &Node{kind: Leaf, rng: tok.Range, token: tok}
}

// add appends child and returns it.
func (n *Node) add(child *Node) *Node {
	child.parent = n
	n.children = append(n.children, child)
	return child
}

// seal computes the node range from its children. Empty nodes collapse to
// the position at.
func (n *Node) seal(at buffer.ByteOffset) *Node {
	if len(n.children) == 0 {
		n.rng = buffer.NewRange(at, at)
		return n
	}
	n.rng = buffer.NewRange(n.children[0].rng.Start, n.children[len(n.children)-1].rng.End)
	return n
}

// Kind returns the node kind.
func (n *Node) Kind() NodeKind { return n.kind }

// Range returns the byte range the node covers.
func (n *Node) Range() buffer.Range { return n.rng }

// Parent returns the enclosing node, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the direct children of the node.
func (n *Node) Children() []*Node { return n.children }

// IsLeaf reports whether the node wraps a token.
func (n *Node) IsLeaf() bool { return n.kind == Leaf }

// Token returns the wrapped token. Only meaningful for leaves.
func (n *Node) Token() Token { return n.token }

// TokenKind returns the wrapped token kind, or false for non-leaves.
func (n *Node) TokenKind() (TokenKind, bool) {
	if n == nil || n.kind != Leaf {
		return 0, false
	}
	return n.token.Kind, true
}

// Text returns the source text covered by the node.
func (n *Node) Text() string {
	if n.kind == Leaf {
		return n.token.Text
	}
	var sb strings.Builder
	n.writeText(&sb)
	return sb.String()
}

func (n *Node) writeText(sb *strings.Builder) {
	if n.kind == Leaf {
		sb.WriteString(n.token.Text)
		return
	}
	for _, c := range n.children {
		c.writeText(sb)
	}
}

// SignificantChildren returns the children that are not whitespace.
func (n *Node) SignificantChildren() []*Node {
	var out []*Node
	for _, c := range n.children {
		if k, ok := c.TokenKind(); ok && k == Whitespace {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Child returns the first direct child of the given kind.
func (n *Node) Child(kind NodeKind) *Node {
	for _, c := range n.children {
		if c.kind == kind {
			return c
		}
	}
	return nil
}

// NameNode returns the MustacheName child of a stache, or nil.
func (n *Node) NameNode() *Node {
	return n.Child(MustacheName)
}

// Name returns the text of the MustacheName child, or "" when the stache
// has no name.
func (n *Node) Name() string {
	if name := n.NameNode(); name != nil {
		return name.Text()
	}
	return ""
}

// PairedClose returns the close stache matching an open block stache.
// The pairing is derived from the tree on every call: the close stache must
// belong to the same Block and carry the same name. It returns nil when the
// block is unclosed, when the names differ, or when n is not an open tag.
func (n *Node) PairedClose() *Node {
	if !n.kind.IsOpenTag() || n.parent == nil || n.parent.kind != Block {
		return nil
	}
	closeTag := n.parent.Child(CloseBlockStache)
	if closeTag == nil || closeTag.Name() != n.Name() {
		return nil
	}
	return closeTag
}

// PairedOpen returns the open stache matching a close block stache, using
// the same rules as PairedClose.
func (n *Node) PairedOpen() *Node {
	if n.kind != CloseBlockStache || n.parent == nil || n.parent.kind != Block {
		return nil
	}
	for _, c := range n.parent.children {
		if c.kind.IsOpenTag() {
			if c.PairedClose() == n {
				return c
			}
			return nil
		}
	}
	return nil
}

// FindEnclosing walks up from n and returns the first node matching pred.
// With strict set, n itself is not considered.
func FindEnclosing(n *Node, strict bool, pred func(*Node) bool) *Node {
	if n == nil {
		return nil
	}
	if strict {
		n = n.parent
	}
	for ; n != nil; n = n.parent {
		if pred(n) {
			return n
		}
	}
	return nil
}

// OfKind returns a predicate matching any of the given kinds.
func OfKind(kinds ...NodeKind) func(*Node) bool {
	return func(n *Node) bool {
		for _, k := range kinds {
			if n.kind == k {
				return true
			}
		}
		return false
	}
}

// leafAt returns the leaf covering offset, or nil.
func (n *Node) leafAt(offset buffer.ByteOffset) *Node {
	if !n.rng.Contains(offset) {
		return nil
	}
	if n.kind == Leaf {
		return n
	}
	for _, c := range n.children {
		if c.rng.Start > offset {
			break
		}
		if leaf := c.leafAt(offset); leaf != nil {
			return leaf
		}
	}
	return nil
}

// Dump writes an indented outline of the tree rooted at n.
func (n *Node) Dump(w io.Writer) error {
	return n.dump(w, 0)
}

func (n *Node) dump(w io.Writer, depth int) error {
	indent := strings.Repeat("  ", depth)
	var err error
	if n.kind == Leaf {
		_, err = fmt.Fprintf(w, "%s%s\n", indent, n.token)
	} else {
		_, err = fmt.Fprintf(w, "%s%s%s\n", indent, n.kind, n.rng)
	}
	if err != nil {
		return err
	}
	for _, c := range n.children {
		if err := c.dump(w, depth+1); err != nil {
			return err
		}
	}
	return nil
}
