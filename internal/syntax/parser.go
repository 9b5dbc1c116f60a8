package syntax

import "github.com/dshills/stache/internal/engine/buffer"

// Parse builds a syntax tree from src. Parsing never fails: unterminated
// or malformed constructs produce partial nodes, which is the normal state
// of a template while it is being typed.
func Parse(src string) *Node {
	p := &parser{
		toks: Tokenize(src),
		end:  buffer.ByteOffset(len(src)),
	}
	return p.parseRoot()
}

// parser is an error-tolerant recursive descent parser over a token slice.
//
// Block nesting is resolved with a stack of open block names. A close stache
// "{{/name}}" closes the innermost open block when the names match, or when
// no enclosing block carries that name. Otherwise the innermost block is left
// unclosed and the close stache is handed to the enclosing block that does
// match.
type parser struct {
	toks []Token
	pos  int
	end  buffer.ByteOffset
	open []string
}

func (p *parser) eof() bool {
	return p.pos >= len(p.toks)
}

func (p *parser) peek() Token {
	return p.toks[p.pos]
}

// peekPast returns the first token after the current one that is not
// whitespace.
func (p *parser) peekPast() (Token, bool) {
	for i := p.pos + 1; i < len(p.toks); i++ {
		if p.toks[i].Kind != Whitespace {
			return p.toks[i], true
		}
	}
	return Token{}, false
}

func (p *parser) next() *Node {
	leaf := newLeaf(p.toks[p.pos])
	p.pos++
	return leaf
}

// offset returns the position of the current token, or the end of input.
func (p *parser) offset() buffer.ByteOffset {
	if p.eof() {
		return p.end
	}
	return p.peek().Range.Start
}

func (p *parser) parseRoot() *Node {
	root := newNode(Root)
	root.add(p.parseProgram())
	// Top-level programs consume everything, but keep the tree total.
	for !p.eof() {
		root.add(p.next())
	}
	return root.seal(0)
}

// parseProgram parses statements until the end of input or, inside a block,
// until a close stache or simple inverse that the block has to handle.
func (p *parser) parseProgram() *Node {
	prog := newNode(Program)
	for !p.eof() {
		tok := p.peek()
		switch tok.Kind {
		case OpenEndBlock:
			if len(p.open) > 0 {
				return prog.seal(p.offset())
			}
			prog.add(p.parseStache(CloseBlockStache))
		case OpenInverse, Open:
			if p.atSimpleInverse() {
				if len(p.open) > 0 {
					return prog.seal(p.offset())
				}
				prog.add(p.parseStache(SimpleInverse))
				continue
			}
			if tok.Kind == OpenInverse {
				prog.add(p.parseBlock(OpenInverseStache))
			} else {
				prog.add(p.parseStache(Mustache))
			}
		case OpenBlock:
			prog.add(p.parseBlock(OpenBlockStache))
		case OpenUnescaped:
			prog.add(p.parseStache(Mustache))
		case OpenPartial:
			prog.add(p.parseStache(Partial))
		case Content, Comment, UnclosedComment:
			prog.add(p.next())
		case Close, CloseUnescaped, ID, Sep, String, Number, Boolean, Equals, Else,
			OpenSexpr, CloseSexpr, Whitespace, Invalid:
			// Only reachable when a stache swallowed its closer; keep the
			// token so the tree still covers the whole document.
			prog.add(p.next())
		}
	}
	return prog.seal(p.offset())
}

// atSimpleInverse reports whether the current token starts "{{^}}" or
// "{{else ...}}".
func (p *parser) atSimpleInverse() bool {
	tok := p.peek()
	after, ok := p.peekPast()
	switch tok.Kind {
	case OpenInverse:
		return ok && after.Kind.IsCloser()
	case Open:
		return ok && after.Kind == Else
	default:
		return false
	}
}

// parseBlock parses an open stache of the given kind together with its
// body, simple inverses and, when it belongs here, the close stache.
func (p *parser) parseBlock(openKind NodeKind) *Node {
	block := newNode(Block)
	open := block.add(p.parseStache(openKind))
	name := open.Name()

	p.open = append(p.open, name)
	block.add(p.parseProgram())
	for !p.eof() && p.atSimpleInverse() {
		block.add(p.parseStache(SimpleInverse))
		block.add(p.parseProgram())
	}
	p.open = p.open[:len(p.open)-1]

	if !p.eof() && p.peek().Kind == OpenEndBlock && p.closesHere(name) {
		block.add(p.parseStache(CloseBlockStache))
	}
	return block.seal(p.offset())
}

// closesHere reports whether the close stache at the current position
// belongs to the block named name, given the blocks still open around it.
func (p *parser) closesHere(name string) bool {
	closeName := p.peekCloseName()
	if closeName == name {
		return true
	}
	for _, outer := range p.open {
		if outer == closeName {
			return false
		}
	}
	return true
}

// peekCloseName returns the path following the current "{{/" token.
func (p *parser) peekCloseName() string {
	var name string
	i := p.pos + 1
	for i < len(p.toks) && p.toks[i].Kind == Whitespace {
		i++
	}
	for ; i < len(p.toks); i++ {
		k := p.toks[i].Kind
		if k != ID && k != Sep {
			break
		}
		name += p.toks[i].Text
	}
	return name
}

// parseStache parses a single mustache starting at an opener token.
func (p *parser) parseStache(kind NodeKind) *Node {
	n := newNode(kind)
	n.add(p.next())

	p.skipWhitespace(n)
	if p.eof() {
		return n.seal(p.offset())
	}

	switch kind {
	case SimpleInverse:
		if p.peek().Kind == Else {
			n.add(p.next())
		}
	case OpenBlockStache, OpenInverseStache, CloseBlockStache, Mustache, Partial:
		if k := p.peek().Kind; k == ID || k == Sep {
			n.add(p.parsePath(MustacheName))
		}
	case Root, Program, Block, MustacheName, Param, Hash, HashPair, Sexpr, Leaf:
	}

	p.parseParams(n, false)
	return n.seal(p.offset())
}

// parseParams parses parameters and hash pairs into n until the closer of
// the enclosing stache (or sub-expression, when inSexpr is set).
func (p *parser) parseParams(n *Node, inSexpr bool) {
	var hash *Node
	defer func() {
		if hash != nil {
			hash.seal(p.offset())
		}
	}()

	for !p.eof() {
		tok := p.peek()
		switch {
		case tok.Kind.IsCloser() && !inSexpr:
			n.add(p.next())
			return
		case tok.Kind == CloseSexpr && inSexpr:
			n.add(p.next())
			return
		case tok.Kind.IsCloser():
			// "}}" inside an unterminated sub-expression ends both.
			return
		case tok.Kind == Whitespace:
			if hash != nil {
				hash.add(p.next())
			} else {
				n.add(p.next())
			}
		case tok.Kind == ID && p.pos+1 < len(p.toks) && p.toks[p.pos+1].Kind == Equals:
			if hash == nil {
				hash = n.add(newNode(Hash))
			}
			hash.add(p.parseHashPair())
		case tok.Kind == OpenSexpr:
			n.add(p.parseSexpr())
		case tok.Kind == ID || tok.Kind == Sep:
			n.add(p.parsePath(Param))
		case tok.Kind == String || tok.Kind == Number || tok.Kind == Boolean:
			param := newNode(Param)
			param.add(p.next())
			n.add(param.seal(p.offset()))
		default:
			n.add(p.next())
		}
	}
}

// parsePath parses contiguous ID and Sep tokens.
func (p *parser) parsePath(kind NodeKind) *Node {
	n := newNode(kind)
	for !p.eof() {
		if k := p.peek().Kind; k != ID && k != Sep {
			break
		}
		n.add(p.next())
	}
	return n.seal(p.offset())
}

func (p *parser) parseHashPair() *Node {
	pair := newNode(HashPair)
	pair.add(p.next()) // key
	pair.add(p.next()) // =
	if !p.eof() {
		switch k := p.peek().Kind; k {
		case OpenSexpr:
			pair.add(p.parseSexpr())
		case ID, Sep:
			pair.add(p.parsePath(Param))
		case String, Number, Boolean:
			pair.add(p.next())
		}
	}
	return pair.seal(p.offset())
}

func (p *parser) parseSexpr() *Node {
	n := newNode(Sexpr)
	n.add(p.next())
	p.skipWhitespace(n)
	if !p.eof() {
		if k := p.peek().Kind; k == ID || k == Sep {
			n.add(p.parsePath(MustacheName))
		}
	}
	p.parseParams(n, true)
	return n.seal(p.offset())
}

func (p *parser) skipWhitespace(n *Node) {
	for !p.eof() && p.peek().Kind == Whitespace {
		n.add(p.next())
	}
}
