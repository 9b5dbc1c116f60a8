package syntax

import (
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/dshills/stache/internal/engine/buffer"
)

// handlebarsLexer tokenizes Handlebars templates.
//
// "Root" lexes template content and pushes "Stache" on every mustache
// opener; "Stache" pops on "}}" or "}}}". Both states end in a catch-all
// rule, so lexing never fails: anything that is not a valid token in its
// position becomes a one-character Invalid (inside a mustache) or Content
// (outside) token.
var handlebarsLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "LongComment", Pattern: `\{\{~?!--(?s:.*?)--~?\}\}`},
		{Name: "ShortComment", Pattern: `\{\{~?!(?s:.*?)\}\}`},
		{Name: "UnclosedComment", Pattern: `\{\{~?!(?s:.*)`},
		{Name: "OpenUnescaped", Pattern: `\{\{~?\{`, Action: lexer.Push("Stache")},
		{Name: "OpenBlock", Pattern: `\{\{~?#`, Action: lexer.Push("Stache")},
		{Name: "OpenInverse", Pattern: `\{\{~?\^`, Action: lexer.Push("Stache")},
		{Name: "OpenEndBlock", Pattern: `\{\{~?/`, Action: lexer.Push("Stache")},
		{Name: "OpenPartial", Pattern: `\{\{~?>`, Action: lexer.Push("Stache")},
		{Name: "Open", Pattern: `\{\{~?&?`, Action: lexer.Push("Stache")},
		{Name: "Content", Pattern: `[^{]+|\{`},
	},
	"Stache": {
		{Name: "CloseUnescaped", Pattern: `~?\}\}\}`, Action: lexer.Pop()},
		{Name: "Close", Pattern: `~?\}\}`, Action: lexer.Pop()},
		{Name: "Whitespace", Pattern: `\s+`},
		{Name: "String", Pattern: `"(?:\\.|[^"\\])*"|'(?:\\.|[^'\\])*'`},
		{Name: "Number", Pattern: `-?\d+(?:\.\d+)?`},
		{Name: "Boolean", Pattern: `(?:true|false)\b`},
		{Name: "Else", Pattern: `else\b`},
		{Name: "ID", Pattern: `\.\.|@?[A-Za-z_$][\w$\-]*|\[[^\]]*\]`},
		{Name: "Sep", Pattern: `[./]`},
		{Name: "Equals", Pattern: `=`},
		{Name: "OpenSexpr", Pattern: `\(`},
		{Name: "CloseSexpr", Pattern: `\)`},
		{Name: "Invalid", Pattern: `(?s:.)`},
	},
})

var kindBySymbol = map[string]TokenKind{
	"LongComment":     Comment,
	"ShortComment":    Comment,
	"UnclosedComment": UnclosedComment,
	"OpenUnescaped":   OpenUnescaped,
	"OpenBlock":       OpenBlock,
	"OpenInverse":     OpenInverse,
	"OpenEndBlock":    OpenEndBlock,
	"OpenPartial":     OpenPartial,
	"Open":            Open,
	"Content":         Content,
	"CloseUnescaped":  CloseUnescaped,
	"Close":           Close,
	"Whitespace":      Whitespace,
	"String":          String,
	"Number":          Number,
	"Boolean":         Boolean,
	"Else":            Else,
	"ID":              ID,
	"Sep":             Sep,
	"Equals":          Equals,
	"OpenSexpr":       OpenSexpr,
	"CloseSexpr":      CloseSexpr,
	"Invalid":         Invalid,
}

var kindByType = func() map[lexer.TokenType]TokenKind {
	m := make(map[lexer.TokenType]TokenKind, len(kindBySymbol))
	for name, tt := range handlebarsLexer.Symbols() {
		if kind, ok := kindBySymbol[name]; ok {
			m[tt] = kind
		}
	}
	return m
}()

// Tokenize splits src into tokens. The tokens cover src exactly: their
// ranges are contiguous, start at 0 and end at len(src).
func Tokenize(src string) []Token {
	lex, err := handlebarsLexer.LexString("", src)
	if err != nil {
		return invalidTail(nil, src, 0)
	}

	var toks []Token
	var end buffer.ByteOffset
	for {
		tok, err := lex.Next()
		if err != nil {
			// Unreachable with the catch-all rules, but never lose text.
			return invalidTail(toks, src, end)
		}
		if tok.EOF() {
			break
		}
		kind, ok := kindByType[tok.Type]
		if !ok {
			kind = Invalid
		}
		start := buffer.ByteOffset(tok.Pos.Offset)
		end = start + buffer.ByteOffset(len(tok.Value))
		toks = append(toks, Token{
			Kind:  kind,
			Range: buffer.NewRange(start, end),
			Text:  tok.Value,
		})
	}
	return toks
}

// invalidTail appends the unlexed remainder of src as a single Invalid token.
func invalidTail(toks []Token, src string, from buffer.ByteOffset) []Token {
	if from >= buffer.ByteOffset(len(src)) {
		return toks
	}
	return append(toks, Token{
		Kind:  Invalid,
		Range: buffer.NewRange(from, buffer.ByteOffset(len(src))),
		Text:  src[from:],
	})
}
