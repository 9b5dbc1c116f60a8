package cursor

import "github.com/dshills/stache/internal/engine/buffer"

// TransformOffset updates an offset after the text in r was replaced by
// newLen bytes.
//
// Transformation rules:
//   - If the edit is entirely before offset: adjust offset by the edit's delta
//   - If the edit starts at or after offset: offset unchanged
//   - If the edit spans offset: move offset to end of new text
//
// A pure insertion exactly at offset counts as "before", so the offset moves
// past the inserted text.
func TransformOffset(offset ByteOffset, r buffer.Range, newLen ByteOffset) ByteOffset {
	if r.End <= offset {
		return offset - r.Len() + newLen
	}
	if r.Start >= offset {
		return offset
	}
	return r.Start + newLen
}
