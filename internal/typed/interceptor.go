package typed

import "github.com/dshills/stache/internal/logging"

// Interceptor handles the pre-commit phase.
type Interceptor struct {
	doc    Document
	caret  Caret
	logger *logging.Logger
}

// NewInterceptor creates an interceptor.
func NewInterceptor(doc Document, caret Caret, logger *logging.Logger) *Interceptor {
	return &Interceptor{doc: doc, caret: caret, logger: logger}
}

// BeforeCommit inserts a "{" typed directly after another "{" and consumes
// the keystroke. This keeps the host from auto-pairing the second brace.
func (i *Interceptor) BeforeCommit(c rune, offset ByteOffset) Decision {
	if offset == 0 || offset > i.doc.Len() {
		return Continue
	}
	if c != '{' || charAt(i.doc, offset-1) != '{' {
		return Continue
	}

	if _, err := i.doc.Insert(offset, "{"); err != nil {
		i.logger.Warn("intercept at %d: %v", offset, err)
		return Continue
	}
	i.caret.MoveTo(offset + 1)
	i.logger.Debug("intercepted '{' at %d", offset)
	return Suppress
}
