// Package session hosts a single editing session around the typed-character
// engine.
//
// A Session owns the document, the caret, the syntax syncer and the
// indenter, and plays the part of the editor: it runs the engine's
// pre-commit phase, commits the character itself (with the default
// bracket auto-pairing an editor would apply), then runs the post-commit
// phase. Settings can be swapped at any time; each keystroke reads them
// once. Every edit goes through an undo history, and a keystroke together
// with whatever the engine inserted in response undoes as one step.
//
// Key scripts drive a session non-interactively. Characters are typed
// literally; the names below, in angle brackets and case-insensitive,
// stand for special keys:
//
//	<CR> <ENTER>  newline        <TAB>  tab
//	<BS>          backspace      <DEL>  delete
//	<LEFT> <RIGHT> <HOME> <END>  caret movement
//	<UNDO>        undo           <REDO> redo
//	<LT>          a literal "<"
//
// Anything else in angle brackets, such as "<div>", is typed as is.
// Literal newlines in a script are ignored so scripts can be wrapped.
package session
