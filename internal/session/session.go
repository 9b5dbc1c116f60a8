package session

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dshills/stache/internal/config"
	"github.com/dshills/stache/internal/engine/buffer"
	"github.com/dshills/stache/internal/engine/cursor"
	"github.com/dshills/stache/internal/engine/history"
	"github.com/dshills/stache/internal/format"
	"github.com/dshills/stache/internal/logging"
	"github.com/dshills/stache/internal/syntax"
	"github.com/dshills/stache/internal/typed"
)

// Errors returned by session operations.
var (
	// ErrUnknownKey is returned for keys the session cannot handle.
	ErrUnknownKey = errors.New("unknown key")
	// ErrInvalidSettings is returned when settings fail validation.
	ErrInvalidSettings = errors.New("invalid settings")
)

// autoPairs maps an opening character to the closer the host inserts
// after it. "{" is handled separately: only a completed "{{" is paired.
var autoPairs = map[rune]string{
	'(': ")",
	'[': "]",
}

// typeThrough remembers a "}" completed by the engine. The user's own "}"
// typed next, at the same caret and revision, is absorbed.
type typeThrough struct {
	offset   buffer.ByteOffset
	revision buffer.RevisionID
}

// Session is one editing session.
type Session struct {
	id       string
	buf      *buffer.Buffer
	doc      *history.Recorder
	history  *history.History
	caret    *cursor.Caret
	syncer   *syntax.Syncer
	indenter *format.Indenter
	handler  *typed.Handler
	logger   *logging.Logger

	settings atomic.Pointer[config.Settings]
	pending  *typeThrough
}

// Option configures a Session.
type Option func(*options)

type options struct {
	text      string
	caret     buffer.ByteOffset
	settings  config.Settings
	logger    *logging.Logger
	engine    bool
	undoLimit int
}

// WithText sets the initial document text. The caret starts at the end.
func WithText(text string) Option {
	return func(o *options) {
		o.text = text
		o.caret = -1
	}
}

// WithCaret sets the initial caret offset.
func WithCaret(offset buffer.ByteOffset) Option {
	return func(o *options) {
		o.caret = offset
	}
}

// WithSettings sets the initial settings.
func WithSettings(s config.Settings) Option {
	return func(o *options) {
		o.settings = s
	}
}

// WithLogger sets the logger. Sessions log with a "session" field.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithoutEngine disables the typed-character engine, leaving only the
// host's default behavior.
func WithoutEngine() Option {
	return func(o *options) {
		o.engine = false
	}
}

// WithUndoLimit bounds the number of undo steps kept.
func WithUndoLimit(n int) Option {
	return func(o *options) {
		o.undoLimit = n
	}
}

// New creates a session.
func New(opts ...Option) (*Session, error) {
	o := options{
		settings: config.Default(),
		logger:   logging.Default(),
		engine:   true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	id := uuid.NewString()
	s := &Session{
		id:     id,
		buf:    buffer.NewBufferFromString(o.text),
		logger: o.logger.WithField("session", id),
	}
	if o.caret < 0 {
		o.caret = s.buf.Len()
	}
	s.history = history.New(o.undoLimit)
	s.doc = history.NewRecorder(s.buf, s.history)
	s.caret = cursor.NewCaret(s.buf, o.caret)
	s.syncer = syntax.NewSyncer(s.buf)
	s.indenter = format.NewIndenter(s.doc, s.syncer, s.caret)
	if o.engine {
		s.handler = typed.NewHandler(s.doc, s.caret, s.syncer, s.indenter, s.logger)
	}

	if err := s.SetSettings(o.settings); err != nil {
		return nil, err
	}
	s.logger.Debug("session started with %d bytes", s.buf.Len())
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Text returns the document text.
func (s *Session) Text() string { return s.buf.Text() }

// Buffer returns the document.
func (s *Session) Buffer() *buffer.Buffer { return s.buf }

// History returns the undo history. A keystroke that edits the document,
// together with the engine's response to it, is one entry.
func (s *Session) History() *history.History { return s.history }

// Caret returns the caret offset.
func (s *Session) Caret() buffer.ByteOffset { return s.caret.Offset() }

// CaretPoint returns the caret position as line and column.
func (s *Session) CaretPoint() buffer.Point {
	return s.buf.OffsetToPoint(s.caret.Offset())
}

// View returns the syntax view of the current revision.
func (s *Session) View() *syntax.View { return s.syncer.Resync() }

// Settings returns the current settings.
func (s *Session) Settings() config.Settings { return *s.settings.Load() }

// SetSettings validates and publishes new settings. It is safe to call
// from another goroutine; keystrokes in progress keep the settings they
// started with.
func (s *Session) SetSettings(cfg config.Settings) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	s.settings.Store(&cfg)
	s.logger.SetLevel(cfg.LogLevel())
	return nil
}

// Result describes what one keystroke did.
type Result struct {
	Key Key
	// Decision is the engine's pre-commit decision.
	Decision typed.Decision
	// Outcome is the engine's post-commit outcome.
	Outcome typed.Outcome
	// Absorbed is set when the key typed over a pending closer.
	Absorbed bool
	// Paired is set when the host auto-inserted a closer.
	Paired bool
	// Undone and Redone are set when the key moved through the history.
	Undone bool
	Redone bool
}

// Summary lists what happened during the keystroke, e.g.
// "completed }}, closed tag". It is empty when only the character was
// typed.
func (r Result) Summary() string {
	var parts []string
	if r.Decision == typed.Suppress {
		parts = append(parts, "intercepted")
	}
	if r.Absorbed {
		parts = append(parts, "typed over")
	}
	if r.Paired {
		parts = append(parts, "paired")
	}
	if r.Outcome.Completed {
		parts = append(parts, "completed }}")
	}
	if r.Outcome.ClosedTag {
		parts = append(parts, "closed tag")
	}
	if r.Outcome.Reindented {
		parts = append(parts, "reindented")
	}
	if r.Undone {
		parts = append(parts, "undone")
	}
	if r.Redone {
		parts = append(parts, "redone")
	}
	return strings.Join(parts, ", ")
}

// Press handles one key.
func (s *Session) Press(k Key) (Result, error) {
	res := Result{Key: k}
	pending := s.pending
	s.pending = nil

	if k.Kind.edits() {
		s.history.Begin(k.String(), s.caret.Offset())
		defer func() { s.history.End(s.caret.Offset()) }()
	}

	switch k.Kind {
	case KeyRune:
		return s.typeRune(k, pending)
	case KeyBackspace:
		return res, s.deleteBackward()
	case KeyDelete:
		return res, s.deleteForward()
	case KeyLeft:
		s.caret.MoveTo(s.prevRuneStart(s.caret.Offset()))
	case KeyRight:
		s.caret.MoveTo(s.nextRuneEnd(s.caret.Offset()))
	case KeyHome:
		s.caret.MoveTo(s.buf.LineStartOffset(s.CaretPoint().Line))
	case KeyEnd:
		s.caret.MoveTo(s.buf.LineEndOffset(s.CaretPoint().Line))
	case KeyUndo:
		var err error
		res.Undone, err = s.travel(s.history.Undo)
		return res, err
	case KeyRedo:
		var err error
		res.Redone, err = s.travel(s.history.Redo)
		return res, err
	default:
		return res, fmt.Errorf("%w: %v", ErrUnknownKey, k)
	}
	return res, nil
}

// travel applies an undo or redo step and reports whether one was taken.
// An empty stack is not an error.
func (s *Session) travel(step func(history.Editor) (buffer.ByteOffset, error)) (bool, error) {
	caret, err := step(s.buf)
	switch {
	case errors.Is(err, history.ErrNothingToUndo), errors.Is(err, history.ErrNothingToRedo):
		return false, nil
	case err != nil:
		return false, err
	}
	s.caret.MoveTo(caret)
	return true, nil
}

// Type types a single character.
func (s *Session) Type(r rune) (Result, error) {
	return s.Press(RuneKey(r))
}

// Replay presses every key in order and stops at the first error.
func (s *Session) Replay(keys []Key) ([]Result, error) {
	results := make([]Result, 0, len(keys))
	for i, k := range keys {
		res, err := s.Press(k)
		if err != nil {
			return results, fmt.Errorf("key %d %v: %w", i, k, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// typeRune runs the keystroke pipeline: type-through, pre-commit decision,
// host commit with auto-pairing, post-commit decisions.
// Host closers ")" and "]" type over an identical character at the caret.
func (s *Session) typeRune(k Key, pending *typeThrough) (Result, error) {
	res := Result{Key: k}
	cfg := *s.settings.Load()
	offset := s.caret.Offset()
	s.indenter.SetUnit(cfg.IndentUnit())

	if k.Rune == '}' && pending != nil &&
		pending.offset == offset && pending.revision == s.buf.RevisionID() {
		res.Absorbed = true
		s.logger.Debug("absorbed '}' at %d", offset)
		return res, nil
	}
	if cfg.Editor.AutoPairs && s.isPairCloser(k.Rune) && s.nextRune(offset) == k.Rune {
		s.caret.MoveTo(s.nextRuneEnd(offset))
		res.Absorbed = true
		s.logger.Debug("typed over %q at %d", k.Rune, offset)
		return res, nil
	}

	if s.handler != nil {
		res.Decision = s.handler.BeforeCommit(k.Rune, offset, cfg.Typing)
		if res.Decision == typed.Suppress {
			return res, nil
		}
	}

	end, err := s.doc.Insert(offset, string(k.Rune))
	if err != nil {
		return res, fmt.Errorf("committing %q: %w", k.Rune, err)
	}
	s.caret.MoveTo(end)

	if cfg.Editor.AutoPairs {
		if closer := s.pairFor(k.Rune, end); closer != "" {
			if _, err := s.doc.Insert(end, closer); err != nil {
				return res, fmt.Errorf("auto-pairing %q: %w", k.Rune, err)
			}
			res.Paired = true
		}
	}

	if s.handler != nil {
		res.Outcome = s.handler.AfterCommit(k.Rune, s.caret.Offset(), cfg.Typing)
		if res.Outcome.Completed {
			s.pending = &typeThrough{
				offset:   s.caret.Offset(),
				revision: s.buf.RevisionID(),
			}
		}
	}
	return res, nil
}

// pairFor returns the closer the host inserts after committing r at end.
func (s *Session) pairFor(r rune, end buffer.ByteOffset) string {
	if r == '{' {
		if end >= 2 && s.buf.TextRange(end-2, end) == "{{" {
			return "}}"
		}
		return ""
	}
	return autoPairs[r]
}

// isPairCloser reports whether r is a closer the host auto-inserts.
func (s *Session) isPairCloser(r rune) bool {
	for _, closer := range autoPairs {
		if closer == string(r) {
			return true
		}
	}
	return false
}

func (s *Session) nextRune(offset buffer.ByteOffset) rune {
	r, size := utf8.DecodeRuneInString(s.buf.TextRange(offset, offset+utf8.UTFMax))
	if size == 0 {
		return utf8.RuneError
	}
	return r
}

func (s *Session) deleteBackward() error {
	offset := s.caret.Offset()
	start := s.prevRuneStart(offset)
	if start == offset {
		return nil
	}
	if err := s.doc.Delete(start, offset); err != nil {
		return fmt.Errorf("backspace at %d: %w", offset, err)
	}
	s.caret.MoveTo(start)
	return nil
}

func (s *Session) deleteForward() error {
	offset := s.caret.Offset()
	end := s.nextRuneEnd(offset)
	if end == offset {
		return nil
	}
	if err := s.doc.Delete(offset, end); err != nil {
		return fmt.Errorf("delete at %d: %w", offset, err)
	}
	return nil
}

func (s *Session) prevRuneStart(offset buffer.ByteOffset) buffer.ByteOffset {
	if offset <= 0 {
		return 0
	}
	_, size := utf8.DecodeLastRuneInString(s.buf.TextRange(offset-utf8.UTFMax, offset))
	return offset - buffer.ByteOffset(size)
}

func (s *Session) nextRuneEnd(offset buffer.ByteOffset) buffer.ByteOffset {
	_, size := utf8.DecodeRuneInString(s.buf.TextRange(offset, offset+utf8.UTFMax))
	return offset + buffer.ByteOffset(size)
}
