package typed

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dshills/stache/internal/config"
	"github.com/dshills/stache/internal/engine/buffer"
	"github.com/dshills/stache/internal/engine/cursor"
	"github.com/dshills/stache/internal/logging"
	"github.com/dshills/stache/internal/syntax"
)

var (
	allOn  = config.Typing{AutoInsertCloseTag: true, FormattingEnabled: true}
	allOff = config.Typing{}
)

// fakeReindenter records reindent requests.
type fakeReindenter struct {
	calls []ByteOffset
	err   error
}

func (r *fakeReindenter) ReindentLineAt(offset ByteOffset) (bool, error) {
	r.calls = append(r.calls, offset)
	return r.err == nil, r.err
}

// failingDocument rejects every insertion.
type failingDocument struct {
	*buffer.Buffer
}

func (failingDocument) Insert(ByteOffset, string) (ByteOffset, error) {
	return 0, errors.New("read-only")
}

// fixture models a minimal host: the handler runs around a plain insertion
// of the typed character at the caret.
type fixture struct {
	buf       *buffer.Buffer
	caret     *cursor.Caret
	syncer    *syntax.Syncer
	reindent  *fakeReindenter
	handler   *Handler
	logOutput *bytes.Buffer
}

// newFixture loads text with the caret at the "|" marker, or at the end
// when there is none.
func newFixture(t *testing.T, text string) *fixture {
	t.Helper()

	at := strings.Index(text, "|")
	if at < 0 {
		at = len(text)
	} else {
		text = text[:at] + text[at+1:]
	}

	var logOutput bytes.Buffer
	logger := logging.New(logging.Config{Level: logging.LevelDebug, Output: &logOutput})

	f := &fixture{
		buf:       buffer.NewBufferFromString(text),
		reindent:  &fakeReindenter{},
		logOutput: &logOutput,
	}
	f.caret = cursor.NewCaret(f.buf, ByteOffset(at))
	f.syncer = syntax.NewSyncer(f.buf)
	f.handler = NewHandler(f.buf, f.caret, f.syncer, f.reindent, logger)
	return f
}

// typeChar runs one keystroke through the handler and the host commit.
func (f *fixture) typeChar(t *testing.T, c rune, cfg config.Typing) (Decision, Outcome) {
	t.Helper()

	offset := f.caret.Offset()
	if d := f.handler.BeforeCommit(c, offset, cfg); d == Suppress {
		return d, Outcome{Offset: f.caret.Offset()}
	}

	end, err := f.buf.Insert(offset, string(c))
	if err != nil {
		t.Fatalf("host commit failed: %v", err)
	}
	f.caret.MoveTo(end)
	return Continue, f.handler.AfterCommit(c, end, cfg)
}

func (f *fixture) typeString(t *testing.T, s string, cfg config.Typing) {
	t.Helper()
	for _, c := range s {
		f.typeChar(t, c, cfg)
	}
}

func (f *fixture) assert(t *testing.T, wantText string, wantCaret ByteOffset) {
	t.Helper()
	if got := f.buf.Text(); got != wantText {
		t.Errorf("text = %q, want %q", got, wantText)
	}
	if got := f.caret.Offset(); got != wantCaret {
		t.Errorf("caret = %d, want %d", got, wantCaret)
	}
}

func TestBeforeCommit(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		c         rune
		want      Decision
		wantText  string
		wantCaret ByteOffset
	}{
		{"second brace is inserted directly", "{", '{', Suppress, "{{", 2},
		{"third brace makes the unescaped opener", "{{", '{', Suppress, "{{{", 3},
		{"brace at document start", "|", '{', Continue, "", 0},
		{"brace after text", "a", '{', Continue, "a", 1},
		{"other character after brace", "{", 'x', Continue, "{", 1},
		{"brace before existing brace", "|{", '{', Continue, "{", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.text)

			got := f.handler.BeforeCommit(tt.c, f.caret.Offset(), allOn)
			if got != tt.want {
				t.Errorf("BeforeCommit() = %v, want %v", got, tt.want)
			}
			f.assert(t, tt.wantText, tt.wantCaret)
		})
	}
}

func TestBeforeCommitOutOfRange(t *testing.T) {
	f := newFixture(t, "{")

	if got := f.handler.BeforeCommit('{', 5, allOn); got != Continue {
		t.Errorf("BeforeCommit() past the end = %v, want continue", got)
	}
	if f.buf.Text() != "{" {
		t.Errorf("text changed to %q", f.buf.Text())
	}
}

func TestOpeningBracesNeverLeaveStrayCloser(t *testing.T) {
	f := newFixture(t, "")

	f.typeString(t, "{{", allOn)

	f.assert(t, "{{", 2)
	if strings.Contains(f.buf.Text(), "}") {
		t.Errorf("stray closer in %q", f.buf.Text())
	}
}

func TestAfterCommitCompletesBlockOpener(t *testing.T) {
	f := newFixture(t, "{{#if x")

	_, out := f.typeChar(t, '}', allOn)

	f.assert(t, "{{#if x}}{{/if}}", 9)
	if !out.Completed || !out.ClosedTag || out.Reindented {
		t.Errorf("unexpected outcome %+v", out)
	}
	if out.Offset != 9 {
		t.Errorf("outcome offset = %d, want 9", out.Offset)
	}
}

func TestAfterCommitCloseTagDisabled(t *testing.T) {
	f := newFixture(t, "{{#if x")

	_, out := f.typeChar(t, '}', config.Typing{FormattingEnabled: true})

	f.assert(t, "{{#if x}}", 9)
	if !out.Completed || out.ClosedTag {
		t.Errorf("unexpected outcome %+v", out)
	}
}

func TestAfterCommitCloseTagInsertedOnce(t *testing.T) {
	f := newFixture(t, "{{#each items}|")

	_, out := f.typeChar(t, '}', allOn)
	f.assert(t, "{{#each items}}{{/each}}", 15)
	if out.Completed || !out.ClosedTag {
		t.Errorf("unexpected outcome %+v", out)
	}

	// Retyping the closer of an already paired opener adds nothing.
	g := newFixture(t, "{{#each items}|{{/each}}")
	_, out = g.typeChar(t, '}', allOn)
	g.assert(t, "{{#each items}}{{/each}}", 15)
	if out.ClosedTag {
		t.Errorf("close tag inserted twice: %+v", out)
	}
}

func TestAfterCommitInverseBlock(t *testing.T) {
	f := newFixture(t, "{{^items")

	f.typeChar(t, '}', allOn)

	f.assert(t, "{{^items}}{{/items}}", 10)
}

func TestAfterCommitNameMismatchIsUnpaired(t *testing.T) {
	f := newFixture(t, "{{#if x|{{/each}}")

	_, out := f.typeChar(t, '}', allOn)

	f.assert(t, "{{#if x}}{{/if}}{{/each}}", 9)
	if !out.ClosedTag {
		t.Errorf("mismatched close should not count as a pair: %+v", out)
	}
}

func TestAfterCommitNamelessOpener(t *testing.T) {
	f := newFixture(t, "{{#")

	_, out := f.typeChar(t, '}', allOn)

	f.assert(t, "{{#}}", 5)
	if !out.Completed || out.ClosedTag {
		t.Errorf("unexpected outcome %+v", out)
	}
}

func TestAfterCommitValidCloseNotDuplicated(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"mustache", "{{foo}", "{{foo}}"},
		{"unescaped", "{{{foo}}", "{{{foo}}}"},
		{"after content", "a}", "a}}"},
		{"partial", "{{> p}", "{{> p}}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.text)

			_, out := f.typeChar(t, '}', allOn)

			if f.buf.Text() != tt.want {
				t.Errorf("text = %q, want %q", f.buf.Text(), tt.want)
			}
			if out.Completed || out.ClosedTag {
				t.Errorf("unexpected outcome %+v", out)
			}
		})
	}
}

func TestAfterCommitBraceInContentNotCompleted(t *testing.T) {
	f := newFixture(t, "x")

	_, out := f.typeChar(t, '}', allOn)

	f.assert(t, "x}", 2)
	if out.Fired() {
		t.Errorf("unexpected outcome %+v", out)
	}
}

func TestAfterCommitReindent(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		lineStart ByteOffset
	}{
		{"block close", "{{#if a}}\n  x\n  {{/if}", 14},
		{"else", "{{#if a}}\n  x\n  {{else}", 14},
		{"simple inverse", "{{#if a}}\n  x\n  {{^}", 14},
		{"block close on first line", "{{#if a}}{{/if}", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.text)

			_, out := f.typeChar(t, '}', allOn)

			if !out.Reindented {
				t.Fatalf("expected reindent, got %+v", out)
			}
			if len(f.reindent.calls) != 1 || f.reindent.calls[0] != tt.lineStart {
				t.Errorf("reindent calls = %v, want [%d]", f.reindent.calls, tt.lineStart)
			}
		})
	}
}

func TestAfterCommitReindentDisabled(t *testing.T) {
	f := newFixture(t, "{{#if a}}\n  x\n  {{/if")

	_, out := f.typeChar(t, '}', config.Typing{AutoInsertCloseTag: true})

	if out.Reindented || len(f.reindent.calls) != 0 {
		t.Errorf("reindent should not run: %+v, calls %v", out, f.reindent.calls)
	}
	if !out.Completed {
		t.Errorf("completion should still run: %+v", out)
	}
}

func TestAfterCommitNoReindentForOpeners(t *testing.T) {
	f := newFixture(t, "{{#if a}}\n  {{#each b}")

	f.typeChar(t, '}', allOn)

	if len(f.reindent.calls) != 0 {
		t.Errorf("unexpected reindent calls %v", f.reindent.calls)
	}
}

func TestAfterCommitReindentErrorIsNotReported(t *testing.T) {
	f := newFixture(t, "{{#if a}}\n{{/if}")
	f.reindent.err = errors.New("boom")

	_, out := f.typeChar(t, '}', allOn)

	if out.Reindented {
		t.Errorf("a failed reindent should not be reported: %+v", out)
	}
	if len(f.reindent.calls) != 1 {
		t.Errorf("expected one reindent attempt, got %v", f.reindent.calls)
	}
	if !strings.Contains(f.logOutput.String(), "[WARN]") {
		t.Errorf("expected a warning, got %q", f.logOutput.String())
	}
}

func TestAfterCommitIgnoresOtherCharacters(t *testing.T) {
	f := newFixture(t, "{{#if x")

	_, out := f.typeChar(t, 'y', allOn)

	f.assert(t, "{{#if xy", 8)
	if out.Fired() {
		t.Errorf("unexpected outcome %+v", out)
	}
}

func TestAfterCommitOutOfRange(t *testing.T) {
	f := newFixture(t, "}")

	if out := f.handler.AfterCommit('}', 1, allOn); out.Fired() {
		t.Errorf("offset below 2 should not fire: %+v", out)
	}
	if out := f.handler.AfterCommit('}', 9, allOn); out.Fired() {
		t.Errorf("offset past the end should not fire: %+v", out)
	}
}

func TestInsertFailuresAbstain(t *testing.T) {
	buf := buffer.NewBufferFromString("{{#if x}")
	doc := failingDocument{buf}
	caret := cursor.NewCaret(buf, buf.Len())
	var logOutput bytes.Buffer
	logger := logging.New(logging.Config{Level: logging.LevelWarn, Output: &logOutput})
	h := NewHandler(doc, caret, syntax.NewSyncer(buf), nil, logger)

	if out := h.AfterCommit('}', buf.Len(), allOn); out.Fired() {
		t.Errorf("failed insert should abstain: %+v", out)
	}

	brace := buffer.NewBufferFromString("{")
	h = NewHandler(failingDocument{brace}, cursor.NewCaret(brace, 1), syntax.NewSyncer(brace), nil, logger)
	if d := h.BeforeCommit('{', 1, allOn); d != Continue {
		t.Errorf("failed insert should continue, got %v", d)
	}

	if strings.Count(logOutput.String(), "[WARN]") != 2 {
		t.Errorf("expected two warnings, got %q", logOutput.String())
	}
}

func TestHandlerLogsWithComponent(t *testing.T) {
	f := newFixture(t, "{{#if x")

	f.typeChar(t, '}', allOn)

	out := f.logOutput.String()
	if !strings.Contains(out, "component=typed") {
		t.Errorf("missing component field in %q", out)
	}
	if !strings.Contains(out, "inserted {{/if}} at 9") {
		t.Errorf("missing close tag log line in %q", out)
	}
}

func TestScenarioTypeBlockOpener(t *testing.T) {
	f := newFixture(t, "")

	f.typeString(t, "{{#if x}", allOn)

	f.assert(t, "{{#if x}}{{/if}}", 9)
}

func TestScenarioTypeBlockAcrossLines(t *testing.T) {
	f := newFixture(t, "")

	f.typeString(t, "{{#if a}", allOn)
	f.caret.MoveTo(9)
	f.typeString(t, "\n  x\n  ", allOn)

	f.assert(t, "{{#if a}}\n  x\n  {{/if}}", 16)
	if len(f.reindent.calls) != 0 {
		t.Errorf("unexpected reindent calls %v", f.reindent.calls)
	}
}

func TestDecisionString(t *testing.T) {
	if Continue.String() != "continue" || Suppress.String() != "suppress" || Decision(7).String() != "unknown" {
		t.Error("unexpected decision names")
	}
}
