// Package history keeps the linear undo/redo stack of committed images.
package history

import (
	"errors"
	"fmt"

	"github.com/gogpu/retouch/raster"
)

// Errors returned by History.
var (
	// ErrEmpty is returned by Current when nothing has been loaded.
	ErrEmpty = errors.New("history: empty")

	// ErrInvalidCursor is returned by Restore for an out-of-range cursor.
	ErrInvalidCursor = errors.New("history: cursor out of range")
)

// History is an append-only list of images with a cursor at the current one.
//
// Whenever entries is non-empty, 0 <= cursor < len(entries). Entries are only
// dropped by Load, Reset, or the redo-tail truncation in Commit.
//
// History is not safe for concurrent use; the owning session serializes
// access.
type History struct {
	entries []*raster.Image
	cursor  int
}

// New returns an empty history.
func New() *History {
	return &History{}
}

// Load discards all entries and starts over with img at cursor 0.
func (h *History) Load(img *raster.Image) {
	clear(h.entries)
	h.entries = append(h.entries[:0], img)
	h.cursor = 0
}

// Commit drops any redo tail, appends img and moves the cursor onto it.
// Committing to an empty history behaves like Load.
func (h *History) Commit(img *raster.Image) {
	if len(h.entries) == 0 {
		h.Load(img)
		return
	}
	tail := h.entries[h.cursor+1:]
	clear(tail)
	h.entries = append(h.entries[:h.cursor+1], img)
	h.cursor = len(h.entries) - 1
}

// Undo moves the cursor back one entry and reports whether it moved.
func (h *History) Undo() bool {
	if h.cursor <= 0 || len(h.entries) == 0 {
		return false
	}
	h.cursor--
	return true
}

// Redo moves the cursor forward one entry and reports whether it moved.
func (h *History) Redo() bool {
	if h.cursor >= len(h.entries)-1 {
		return false
	}
	h.cursor++
	return true
}

// Current returns the image under the cursor.
func (h *History) Current() (*raster.Image, error) {
	if len(h.entries) == 0 {
		return nil, ErrEmpty
	}
	return h.entries[h.cursor], nil
}

// CanUndo reports whether Undo would move the cursor.
func (h *History) CanUndo() bool {
	return len(h.entries) > 0 && h.cursor > 0
}

// CanRedo reports whether Redo would move the cursor.
func (h *History) CanRedo() bool {
	return h.cursor < len(h.entries)-1
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Cursor returns the index of the current entry, or -1 when empty.
func (h *History) Cursor() int {
	if len(h.entries) == 0 {
		return -1
	}
	return h.cursor
}

// Entries returns a copy of the entry list. The images themselves are
// immutable and shared.
func (h *History) Entries() []*raster.Image {
	return append([]*raster.Image(nil), h.entries...)
}

// Restore replaces the history with entries and cursor, as read back from
// storage. An empty list requires cursor -1 or 0 and leaves the history
// empty.
func (h *History) Restore(entries []*raster.Image, cursor int) error {
	if len(entries) == 0 {
		if cursor > 0 || cursor < -1 {
			return fmt.Errorf("%w: %d with no entries", ErrInvalidCursor, cursor)
		}
		h.Reset()
		return nil
	}
	if cursor < 0 || cursor >= len(entries) {
		return fmt.Errorf("%w: %d of %d", ErrInvalidCursor, cursor, len(entries))
	}
	for i, e := range entries {
		if e == nil {
			return fmt.Errorf("history: entry %d is nil", i)
		}
	}
	h.entries = append([]*raster.Image(nil), entries...)
	h.cursor = cursor
	return nil
}

// Reset drops every entry.
func (h *History) Reset() {
	clear(h.entries)
	h.entries = nil
	h.cursor = 0
}
