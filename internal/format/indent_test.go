package format

import (
	"testing"

	"github.com/dshills/stache/internal/engine/buffer"
	"github.com/dshills/stache/internal/engine/cursor"
	"github.com/dshills/stache/internal/syntax"
)

func newIndenter(text string, caretAt buffer.ByteOffset) (*Indenter, *buffer.Buffer, *cursor.Caret) {
	buf := buffer.NewBufferFromString(text)
	caret := cursor.NewCaret(buf, caretAt)
	return NewIndenter(buf, syntax.NewSyncer(buf), caret), buf, caret
}

func TestReindentLineAt(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		line    uint32
		want    string
		changed bool
	}{
		{
			name:    "close stache outdents to block level",
			text:    "{{#if a}}\n  x\n    {{/if}}",
			line:    2,
			want:    "{{#if a}}\n  x\n{{/if}}",
			changed: true,
		},
		{
			name:    "else outdents to block level",
			text:    "{{#if a}}\n  x\n  {{else}}\n  y\n{{/if}}",
			line:    2,
			want:    "{{#if a}}\n  x\n{{else}}\n  y\n{{/if}}",
			changed: true,
		},
		{
			name:    "simple inverse caret form",
			text:    "{{#if a}}\n  x\n   {{^}}\n{{/if}}",
			line:    2,
			want:    "{{#if a}}\n  x\n{{^}}\n{{/if}}",
			changed: true,
		},
		{
			name:    "body line indents one level",
			text:    "{{#if a}}\nx\n{{/if}}",
			line:    1,
			want:    "{{#if a}}\n  x\n{{/if}}",
			changed: true,
		},
		{
			name:    "nested close",
			text:    "{{#if a}}\n  {{#each b}}\n    {{c}}\n{{/each}}\n{{/if}}",
			line:    3,
			want:    "{{#if a}}\n  {{#each b}}\n    {{c}}\n  {{/each}}\n{{/if}}",
			changed: true,
		},
		{
			name:    "already correct",
			text:    "{{#if a}}\n  x\n{{/if}}",
			line:    2,
			want:    "{{#if a}}\n  x\n{{/if}}",
			changed: false,
		},
		{
			name:    "blank line untouched",
			text:    "{{#if a}}\n   \n{{/if}}",
			line:    1,
			want:    "{{#if a}}\n   \n{{/if}}",
			changed: false,
		},
		{
			name:    "top level strips indentation",
			text:    "  {{x}}",
			line:    0,
			want:    "{{x}}",
			changed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix, buf, _ := newIndenter(tt.text, 0)

			changed, err := ix.ReindentLineAt(buf.LineStartOffset(tt.line))
			if err != nil {
				t.Fatalf("ReindentLineAt failed: %v", err)
			}
			if changed != tt.changed {
				t.Errorf("changed = %v, want %v", changed, tt.changed)
			}
			if buf.Text() != tt.want {
				t.Errorf("text = %q, want %q", buf.Text(), tt.want)
			}
		})
	}
}

func TestReindentLineAtMovesCaret(t *testing.T) {
	// Caret sits right after the close stache on the last line.
	text := "{{#if a}}\n  x\n    {{/if}}"
	ix, buf, caret := newIndenter(text, buffer.ByteOffset(len(text)))

	if _, err := ix.ReindentLineAt(buf.LineStartOffset(2)); err != nil {
		t.Fatalf("ReindentLineAt failed: %v", err)
	}
	if caret.Offset() != buf.Len() {
		t.Errorf("caret = %d, want end of text %d", caret.Offset(), buf.Len())
	}
}

func TestReindentLineAtUsesUnit(t *testing.T) {
	ix, buf, _ := newIndenter("{{#if a}}\nx\n{{/if}}", 0)
	ix.SetUnit("\t")

	if _, err := ix.ReindentLineAt(buf.LineStartOffset(1)); err != nil {
		t.Fatalf("ReindentLineAt failed: %v", err)
	}
	if buf.Text() != "{{#if a}}\n\tx\n{{/if}}" {
		t.Errorf("text = %q", buf.Text())
	}
	if ix.Unit() != "\t" {
		t.Errorf("Unit() = %q", ix.Unit())
	}
}

func TestDepth(t *testing.T) {
	src := "{{#a}}{{#b}}x{{/b}}{{/a}}"
	view := syntax.NewView(src, buffer.NewRevisionID())

	tests := []struct {
		offset buffer.ByteOffset
		want   int
	}{
		{0, 0},  // {{#a
		{6, 1},  // {{#b
		{12, 2}, // x
		{13, 1}, // {{/b
		{19, 0}, // {{/a
	}
	for _, tt := range tests {
		if got := Depth(view.NodeAt(tt.offset)); got != tt.want {
			t.Errorf("Depth at %d = %d, want %d", tt.offset, got, tt.want)
		}
	}
	if Depth(nil) != 0 {
		t.Error("Depth(nil) should be 0")
	}
}
