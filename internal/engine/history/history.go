package history

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Errors returned by History.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultMaxEntries bounds the undo stack when New is given no limit.
const DefaultMaxEntries = 1000

// Editor applies replacements. *buffer.Buffer implements it.
type Editor interface {
	Replace(start, end ByteOffset, text string) (ByteOffset, error)
}

// Entry is one undo unit.
type Entry struct {
	Name        string
	Ops         OperationList
	CaretBefore ByteOffset
	CaretAfter  ByteOffset
	Timestamp   time.Time
}

// History manages the undo and redo stacks of one buffer.
type History struct {
	mu sync.Mutex

	undoStack []*Entry
	redoStack []*Entry
	open      *Entry

	maxEntries int
}

// New creates a history keeping at most maxEntries undo entries.
func New(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{maxEntries: maxEntries}
}

// Begin opens an entry. Operations recorded until End join it. Nested
// calls are ignored.
func (h *History) Begin(name string, caret ByteOffset) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.open != nil {
		return
	}
	h.open = &Entry{Name: name, CaretBefore: caret}
}

// End closes the open entry and pushes it when it recorded anything.
func (h *History) End(caret ByteOffset) {
	h.mu.Lock()
	defer h.mu.Unlock()

	e := h.open
	h.open = nil
	if e == nil || len(e.Ops) == 0 {
		return
	}
	e.CaretAfter = caret
	e.Timestamp = time.Now()
	h.pushLocked(e)
}

// Cancel discards the open entry. Its edits stay in the buffer.
func (h *History) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.open = nil
}

// Record adds op to the open entry, or pushes it as its own entry when
// none is open.
func (h *History) Record(op *Operation) {
	if op.IsNoop() {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.open != nil {
		h.open.Ops = append(h.open.Ops, op)
		return
	}
	h.pushLocked(&Entry{
		Name:        "edit",
		Ops:         OperationList{op},
		CaretBefore: op.Range.End,
		CaretAfter:  op.NewRange().End,
		Timestamp:   op.Timestamp,
	})
}

// pushLocked adds an entry, clears the redo stack and enforces the limit.
func (h *History) pushLocked(e *Entry) {
	h.undoStack = append(h.undoStack, e)
	h.redoStack = nil

	if excess := len(h.undoStack) - h.maxEntries; excess > 0 {
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo reverts the last entry and returns the caret offset from before it.
func (h *History) Undo(ed Editor) (ByteOffset, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return 0, ErrNothingToUndo
	}
	e := h.undoStack[len(h.undoStack)-1]
	if err := apply(ed, e.Ops.Invert()); err != nil {
		return 0, fmt.Errorf("undo %q: %w", e.Name, err)
	}
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, e)
	return e.CaretBefore, nil
}

// Redo reapplies the last undone entry and returns the caret offset from
// after it.
func (h *History) Redo(ed Editor) (ByteOffset, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return 0, ErrNothingToRedo
	}
	e := h.redoStack[len(h.redoStack)-1]
	if err := apply(ed, e.Ops); err != nil {
		return 0, fmt.Errorf("redo %q: %w", e.Name, err)
	}
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, e)
	return e.CaretAfter, nil
}

func apply(ed Editor, ops OperationList) error {
	for _, op := range ops {
		if _, err := ed.Replace(op.Range.Start, op.Range.End, op.NewText); err != nil {
			return err
		}
	}
	return nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo entries available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo entries available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// PeekUndo returns the name of the next entry Undo would revert.
func (h *History) PeekUndo() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.undoStack) == 0 {
		return "", false
	}
	return h.undoStack[len(h.undoStack)-1].Name, true
}

// Clear removes all undo/redo history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undoStack = nil
	h.redoStack = nil
	h.open = nil
}
