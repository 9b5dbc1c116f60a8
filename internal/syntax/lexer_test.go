package syntax

import (
	"strings"
	"testing"
)

func kinds(toks []Token) []TokenKind {
	out := make([]TokenKind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func equalKinds(a, b []TokenKind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []TokenKind
	}{
		{"content", "hello", []TokenKind{Content}},
		{"lone brace", "a{b", []TokenKind{Content, Content, Content}},
		{"mustache", "{{foo}}", []TokenKind{Open, ID, Close}},
		{"block", "{{#if x}}", []TokenKind{OpenBlock, ID, Whitespace, ID, Close}},
		{"inverse", "{{^list}}", []TokenKind{OpenInverse, ID, Close}},
		{"end block", "{{/if}}", []TokenKind{OpenEndBlock, ID, Close}},
		{"partial", "{{> card}}", []TokenKind{OpenPartial, Whitespace, ID, Close}},
		{"unescaped", "{{{body}}}", []TokenKind{OpenUnescaped, ID, CloseUnescaped}},
		{"else", "{{else}}", []TokenKind{Open, Else, Close}},
		{"elsewhere is an id", "{{elsewhere}}", []TokenKind{Open, ID, Close}},
		{"half closed", "{{#if x}", []TokenKind{OpenBlock, ID, Whitespace, ID, Invalid}},
		{"unterminated", "{{foo", []TokenKind{Open, ID}},
		{"path", "{{foo.bar}}", []TokenKind{Open, ID, Sep, ID, Close}},
		{"parent path", "{{../foo}}", []TokenKind{Open, ID, Sep, ID, Close}},
		{"literals", `{{f "s" 'q' 12 -1.5 true}}`, []TokenKind{
			Open, ID, Whitespace, String, Whitespace, String, Whitespace,
			Number, Whitespace, Number, Whitespace, Boolean, Close,
		}},
		{"hash", "{{f a=1}}", []TokenKind{Open, ID, Whitespace, ID, Equals, Number, Close}},
		{"sexpr", "{{f (g x)}}", []TokenKind{
			Open, ID, Whitespace, OpenSexpr, ID, Whitespace, ID, CloseSexpr, Close,
		}},
		{"whitespace control", "{{~foo~}}", []TokenKind{Open, ID, Close}},
		{"comment", "{{! note }}x", []TokenKind{Comment, Content}},
		{"long comment", "{{!-- a }} b --}}", []TokenKind{Comment}},
		{"unclosed comment", "{{!-- open", []TokenKind{UnclosedComment}},
		{"closer in content", "a}}b", []TokenKind{Content}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := kinds(Tokenize(tc.src))
			if !equalKinds(got, tc.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tc.src, got, tc.want)
			}
		})
	}
}

func TestTokenizeCoversInput(t *testing.T) {
	inputs := []string{
		"",
		"{{#each items}}\n  <li>{{this}}</li>\n{{/each}}",
		"{{#if x}\n{{else}}\n{{/if",
		"{{{{}}}}}}",
		"héllo {{naïve}}",
	}

	for _, src := range inputs {
		var sb strings.Builder
		var next int64
		for _, tok := range Tokenize(src) {
			if tok.Range.Start != next {
				t.Fatalf("%q: gap before %s", src, tok)
			}
			next = tok.Range.End
			sb.WriteString(tok.Text)
		}
		if sb.String() != src {
			t.Errorf("tokens of %q reassemble to %q", src, sb.String())
		}
	}
}

func TestTokenKindString(t *testing.T) {
	if Invalid.String() != "INVALID" {
		t.Errorf("unexpected name %q", Invalid.String())
	}
	if Close.String() != "CLOSE" {
		t.Errorf("unexpected name %q", Close.String())
	}
	if !OpenBlock.IsOpener() || Close.IsOpener() {
		t.Error("unexpected IsOpener result")
	}
	if !CloseUnescaped.IsCloser() || Invalid.IsCloser() {
		t.Error("unexpected IsCloser result")
	}
}
