package cursor

import (
	"fmt"

	"github.com/dshills/stache/internal/engine/buffer"
)

// ByteOffset is an alias for buffer.ByteOffset for convenience.
type ByteOffset = buffer.ByteOffset

// Cursor represents an insertion point in the buffer.
// Cursor is an immutable value type.
type Cursor struct {
	offset ByteOffset
}

// NewCursor creates a cursor at the given offset.
func NewCursor(offset ByteOffset) Cursor {
	if offset < 0 {
		offset = 0
	}
	return Cursor{offset: offset}
}

// Offset returns the cursor's byte offset.
func (c Cursor) Offset() ByteOffset {
	return c.offset
}

// MoveTo returns a new cursor at the given offset.
func (c Cursor) MoveTo(offset ByteOffset) Cursor {
	return NewCursor(offset)
}

// MoveBy returns a new cursor shifted by delta bytes.
func (c Cursor) MoveBy(delta ByteOffset) Cursor {
	return NewCursor(c.offset + delta)
}

// Clamp returns a cursor clamped to the valid range [0, maxOffset].
func (c Cursor) Clamp(maxOffset ByteOffset) Cursor {
	if c.offset > maxOffset {
		return Cursor{offset: maxOffset}
	}
	return c
}

// String returns a string representation of the cursor.
func (c Cursor) String() string {
	return fmt.Sprintf("Cursor(%d)", c.offset)
}

// Bounds reports the current length of the text a caret lives in.
type Bounds interface {
	Len() ByteOffset
}

// Caret is the single mutable insertion point of an editing session.
// Every read and write is clamped to [0, Len()] of its bounds, so the caret
// can never point outside the document even after text is removed.
//
// Caret is not thread-safe.
type Caret struct {
	cur    Cursor
	bounds Bounds
}

// NewCaret creates a caret over bounds at the given offset.
func NewCaret(bounds Bounds, offset ByteOffset) *Caret {
	c := &Caret{bounds: bounds}
	c.MoveTo(offset)
	return c
}

// Offset returns the caret position.
func (c *Caret) Offset() ByteOffset {
	return c.cur.Clamp(c.bounds.Len()).Offset()
}

// MoveTo places the caret at offset, clamped to the document.
func (c *Caret) MoveTo(offset ByteOffset) {
	c.cur = c.cur.MoveTo(offset).Clamp(c.bounds.Len())
}

// MoveBy shifts the caret by delta bytes, clamped to the document.
func (c *Caret) MoveBy(delta ByteOffset) {
	c.MoveTo(c.Offset() + delta)
}

// Transform moves the caret to follow a replacement of r by newLen bytes.
func (c *Caret) Transform(r buffer.Range, newLen ByteOffset) {
	// The document has already been edited, so the stored offset is the
	// pre-edit position; Offset would clamp it to the new length first.
	c.MoveTo(TransformOffset(c.cur.Offset(), r, newLen))
}
