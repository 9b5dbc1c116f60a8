package buffer

import (
	"fmt"
	"sync/atomic"
)

// ByteOffset is a 0-based byte position in a buffer.
type ByteOffset = int64

// Point is a 0-based line and byte column.
type Point struct {
	Line   uint32
	Column uint32
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// RevisionID identifies one state of a buffer's text. IDs are unique
// across all buffers in the process.
type RevisionID uint64

var lastRevision atomic.Uint64

// NewRevisionID returns a fresh revision ID.
func NewRevisionID() RevisionID {
	return RevisionID(lastRevision.Add(1))
}
