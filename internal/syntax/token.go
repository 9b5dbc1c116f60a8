package syntax

import (
	"fmt"

	"github.com/dshills/stache/internal/engine/buffer"
)

// TokenKind identifies the lexical class of a token.
type TokenKind uint8

const (
	// Content is raw template text outside any mustache.
	Content TokenKind = iota
	// Comment is a complete "{{! ... }}" or "{{!-- ... --}}" comment.
	Comment
	// UnclosedComment is a comment opener with no terminator.
	UnclosedComment

	// Open is "{{" (optionally "{{~" or "{{&").
	Open
	// OpenUnescaped is "{{{".
	OpenUnescaped
	// OpenBlock is "{{#".
	OpenBlock
	// OpenInverse is "{{^".
	OpenInverse
	// OpenEndBlock is "{{/".
	OpenEndBlock
	// OpenPartial is "{{>".
	OpenPartial

	// Close is "}}".
	Close
	// CloseUnescaped is "}}}".
	CloseUnescaped

	// ID is an identifier or path segment.
	ID
	// Sep is a path separator ("." or "/").
	Sep
	// String is a quoted string literal.
	String
	// Number is a numeric literal.
	Number
	// Boolean is "true" or "false".
	Boolean
	// Equals separates a hash key from its value.
	Equals
	// Else is the "else" keyword.
	Else
	// OpenSexpr is "(".
	OpenSexpr
	// CloseSexpr is ")".
	CloseSexpr
	// Whitespace is whitespace inside a mustache.
	Whitespace

	// Invalid is any character that cannot start a token in its position,
	// such as a lone "}" inside an unterminated mustache.
	Invalid
)

// String returns the name of the token kind.
func (k TokenKind) String() string {
	switch k {
	case Content:
		return "CONTENT"
	case Comment:
		return "COMMENT"
	case UnclosedComment:
		return "UNCLOSED_COMMENT"
	case Open:
		return "OPEN"
	case OpenUnescaped:
		return "OPEN_UNESCAPED"
	case OpenBlock:
		return "OPEN_BLOCK"
	case OpenInverse:
		return "OPEN_INVERSE"
	case OpenEndBlock:
		return "OPEN_ENDBLOCK"
	case OpenPartial:
		return "OPEN_PARTIAL"
	case Close:
		return "CLOSE"
	case CloseUnescaped:
		return "CLOSE_UNESCAPED"
	case ID:
		return "ID"
	case Sep:
		return "SEP"
	case String:
		return "STRING"
	case Number:
		return "NUMBER"
	case Boolean:
		return "BOOLEAN"
	case Equals:
		return "EQUALS"
	case Else:
		return "ELSE"
	case OpenSexpr:
		return "OPEN_SEXPR"
	case CloseSexpr:
		return "CLOSE_SEXPR"
	case Whitespace:
		return "WHITESPACE"
	case Invalid:
		return "INVALID"
	default:
		return fmt.Sprintf("TokenKind(%d)", uint8(k))
	}
}

// IsOpener reports whether the kind starts a mustache.
func (k TokenKind) IsOpener() bool {
	switch k {
	case Open, OpenUnescaped, OpenBlock, OpenInverse, OpenEndBlock, OpenPartial:
		return true
	default:
		return false
	}
}

// IsCloser reports whether the kind ends a mustache.
func (k TokenKind) IsCloser() bool {
	return k == Close || k == CloseUnescaped
}

// Token is a single lexical token.
type Token struct {
	Kind  TokenKind
	Range buffer.Range
	Text  string
}

// String returns a debug representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("%s%s %q", t.Kind, t.Range, t.Text)
}
