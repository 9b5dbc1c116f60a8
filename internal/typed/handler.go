package typed

import (
	"github.com/dshills/stache/internal/config"
	"github.com/dshills/stache/internal/logging"
)

// Handler composes the four typed-character behaviors.
type Handler struct {
	doc Document

	interceptor *Interceptor
	completer   *DelimiterCompleter
	synthesizer *CloseTagSynthesizer
	trigger     *ReindentTrigger
}

// NewHandler creates a handler. reindenter may be nil, which disables the
// reindent trigger; a nil logger discards output.
func NewHandler(doc Document, caret Caret, syn Syntax, reindenter Reindenter, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Null()
	}
	logger = logger.WithComponent("typed")

	return &Handler{
		doc:         doc,
		interceptor: NewInterceptor(doc, caret, logger),
		completer:   NewDelimiterCompleter(doc, caret, syn, logger),
		synthesizer: NewCloseTagSynthesizer(doc, syn, logger),
		trigger:     NewReindentTrigger(doc, caret, syn, reindenter, logger),
	}
}

// BeforeCommit is called before the host inserts c at offset.
func (h *Handler) BeforeCommit(c rune, offset ByteOffset, _ config.Typing) Decision {
	return h.interceptor.BeforeCommit(c, offset)
}

// AfterCommit is called after the host inserted c, with offset being the
// caret position just past it. The behaviors run in order: delimiter
// completion, close tag synthesis, reindent.
func (h *Handler) AfterCommit(c rune, offset ByteOffset, cfg config.Typing) Outcome {
	out := Outcome{Offset: offset}
	if c != '}' || offset < 2 || offset > h.doc.Len() {
		return out
	}

	prev := charAt(h.doc, offset-2)
	if prev != '}' {
		out.Offset, out.Completed = h.completer.Complete(offset)
		if !out.Completed {
			return out
		}
	}

	out.ClosedTag = h.synthesizer.Synthesize(out.Offset, cfg)
	out.Reindented = h.trigger.Trigger(out.Offset, cfg)
	return out
}
