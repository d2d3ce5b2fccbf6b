package retouch

import (
	"fmt"

	"github.com/gogpu/retouch/pipeline"
	"github.com/gogpu/retouch/raster"
	"github.com/gogpu/retouch/region"
)

// Snapshot is the persistent state of a session. Entries share the
// immutable images of the session they were taken from.
type Snapshot struct {
	ID       string
	Filename string
	Entries  []*raster.Image
	Cursor   int
	Settings pipeline.Settings
	Stickers []region.Sticker
}

// Snapshot captures the session state for storage.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	snap := Snapshot{
		ID:       s.id,
		Filename: s.filename,
		Entries:  s.hist.Entries(),
		Cursor:   s.hist.Cursor(),
	}
	s.mu.Unlock()

	s.stateMu.Lock()
	snap.Settings = s.settings
	snap.Stickers = append([]region.Sticker(nil), s.stickers...)
	s.stateMu.Unlock()
	return snap
}

// RestoreSession rebuilds a session from a snapshot. The snapshot ID wins
// over WithID.
func RestoreSession(snap Snapshot, opts ...SessionOption) (*Session, error) {
	s := NewSession(opts...)
	if snap.ID != "" {
		s.id = snap.ID
	}
	if err := s.hist.Restore(snap.Entries, snap.Cursor); err != nil {
		return nil, fmt.Errorf("retouch: restore %s: %w", snap.ID, err)
	}
	s.filename = snap.Filename
	s.settings = snap.Settings.Normalize()
	s.stickers = append([]region.Sticker(nil), snap.Stickers...)
	return s, nil
}
