package history

import "github.com/dshills/stache/internal/engine/buffer"

// Recorder is a buffer whose edits are recorded into a History. Reads go
// straight to the embedded buffer.
type Recorder struct {
	*buffer.Buffer
	history *History
}

// NewRecorder wraps buf so that its edits are recorded into h.
func NewRecorder(buf *buffer.Buffer, h *History) *Recorder {
	return &Recorder{Buffer: buf, history: h}
}

// History returns the history edits are recorded into.
func (r *Recorder) History() *History { return r.history }

// Insert inserts text at offset and records the edit.
func (r *Recorder) Insert(offset ByteOffset, text string) (ByteOffset, error) {
	end, err := r.Buffer.Insert(offset, text)
	if err != nil {
		return end, err
	}
	// The buffer normalizes line endings; record what actually landed.
	r.history.Record(NewInsertOperation(offset, r.Buffer.TextRange(offset, end)))
	return end, nil
}

// Replace replaces the text in [start, end) and records the edit.
func (r *Recorder) Replace(start, end ByteOffset, text string) (ByteOffset, error) {
	old := r.Buffer.TextRange(start, end)
	newEnd, err := r.Buffer.Replace(start, end, text)
	if err != nil {
		return newEnd, err
	}
	r.history.Record(NewOperation(buffer.NewRange(start, end), old, r.Buffer.TextRange(start, newEnd)))
	return newEnd, nil
}

// Delete removes the text in [start, end) and records the edit.
func (r *Recorder) Delete(start, end ByteOffset) error {
	_, err := r.Replace(start, end, "")
	return err
}
