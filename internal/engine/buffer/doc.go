// Package buffer provides the document model the typing engine edits: a
// thread-safe byte buffer with a line index and revision tracking.
//
// Offsets are 0-based byte offsets and ranges are half-open. Line endings
// are normalized to "\n" on the way in, so a line is always the text
// between two newline bytes.
//
// Every mutation advances the buffer's RevisionID. Consumers that derive
// state from the text (the syntax syncer in particular) compare revisions
// to know whether their derived state is still current:
//
//	buf := buffer.NewBufferFromString("{{#if x}}")
//	rev := buf.RevisionID()
//	buf.Insert(9, "{{/if}}")
//	stale := buf.RevisionID() != rev // true
package buffer
