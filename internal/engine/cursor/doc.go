// Package cursor provides the caret of an editing session.
//
// Cursor is an immutable offset value. Caret wraps one and binds it to the
// document it lives in, so that every position it reports satisfies
// 0 <= offset <= document length. The typing engine supports a single
// caret only.
//
// When text is replaced somewhere in the document, Transform keeps the caret
// on the same logical character:
//
//	caret := cursor.NewCaret(buf, 10)
//	buf.Replace(0, 4, "  ")
//	caret.Transform(buffer.NewRange(0, 4), 2) // caret now at 8
package cursor
