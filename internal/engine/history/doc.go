// Package history provides undo/redo for a text buffer.
//
// Edits are captured by a Recorder, which wraps a buffer and records an
// Operation for every insert, delete and replace that goes through it.
// Operations recorded between Begin and End form one Entry, so a keystroke
// and everything the typing engine inserted in response to it undo
// together:
//
//	h := history.New(0)
//	doc := history.NewRecorder(buf, h)
//
//	h.Begin("}", caret)
//	doc.Insert(caret, "}")
//	doc.Insert(caret+1, "{{/if}}")
//	h.End(caret + 1)
//
//	caret, _ = h.Undo(buf) // both inserts are reverted
//
// Undo and Redo apply inverted operations straight to the buffer, so they
// are never recorded themselves.
package history
