package retouch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gogpu/retouch/history"
	"github.com/gogpu/retouch/pipeline"
	"github.com/gogpu/retouch/raster"
	"github.com/gogpu/retouch/region"
)

// Session is one photo being edited: its undo/redo history, the live
// adjustment settings and the pending stickers.
//
// Two locks split the state. mu guards the history, the file name and the
// busy flag of the single in-flight destructive operation. stateMu guards
// settings and stickers, which never enter history.
type Session struct {
	id   string
	opts sessionOptions

	mu       sync.Mutex
	hist     *history.History
	filename string
	busy     string // name of the pending destructive op, "" when idle

	stateMu  sync.Mutex
	settings pipeline.Settings
	stickers []region.Sticker
}

// NewSession returns an empty session. Load an image before editing.
func NewSession(opts ...SessionOption) *Session {
	o := defaultSessionOptions()
	for _, opt := range opts {
		opt(&o)
	}
	id := o.id
	if id == "" {
		id = uuid.NewString()
	}
	return &Session{
		id:       id,
		opts:     o,
		hist:     history.New(),
		settings: pipeline.Defaults(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

func (s *Session) log() *slog.Logger {
	if s.opts.logger != nil {
		return s.opts.logger
	}
	return Logger()
}

// Load decodes data and makes it the only history entry, discarding any
// previous history, resetting settings to defaults and clearing stickers.
// hint is a MIME type or file extension; empty means sniff the content.
//
// Images above the session's pixel limit fail with a *raster.DecodeError
// wrapping raster.ErrTooLarge. The image becomes current only after
// decoding succeeds. On error the session is unchanged.
func (s *Session) Load(ctx context.Context, data []byte, hint, filename string) error {
	if err := s.checkIdle("load"); err != nil {
		return err
	}

	start := time.Now()
	format, err := raster.ParseFormat(hint)
	if err != nil {
		return &raster.DecodeError{Format: format, Err: err}
	}
	img, err := raster.DecodeLimit(data, format, s.opts.maxPixels)
	if err != nil {
		s.log().Debug("retouch: decode failed", "session", s.id, "file", filename, "error", err)
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.busy != "" {
		op := s.busy
		s.mu.Unlock()
		s.log().Warn("retouch: load rejected", "session", s.id, "pending", op)
		return ErrBusy
	}
	s.hist.Load(img)
	s.filename = filename
	s.mu.Unlock()

	s.stateMu.Lock()
	s.settings = pipeline.Defaults()
	s.stickers = nil
	s.stateMu.Unlock()

	s.log().Info("retouch: loaded",
		"session", s.id,
		"file", filename,
		"format", format.String(),
		"width", img.Width(),
		"height", img.Height(),
		"elapsed", time.Since(start))
	return nil
}

// checkIdle returns ErrBusy if a destructive operation is pending.
func (s *Session) checkIdle(op string) error {
	s.mu.Lock()
	pending := s.busy
	s.mu.Unlock()
	if pending != "" {
		s.log().Warn("retouch: operation rejected", "session", s.id, "op", op, "pending", pending)
		return ErrBusy
	}
	return nil
}

// Current returns the image under the history cursor.
func (s *Session) Current() (*raster.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.Current()
}

// Dimensions returns the size of the current image, or zeros when empty.
func (s *Session) Dimensions() (width, height int) {
	img, err := s.Current()
	if err != nil {
		return 0, 0
	}
	return img.Size()
}

// Filename returns the name the current image was loaded under.
func (s *Session) Filename() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filename
}

// Busy reports whether a destructive operation is pending.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy != ""
}

// Undo moves back one history entry and reports whether it moved.
// Undo on an empty session, or at the first entry, is a silent no-op.
func (s *Session) Undo() (bool, error) {
	return s.step("undo", (*history.History).Undo)
}

// Redo moves forward one history entry and reports whether it moved.
func (s *Session) Redo() (bool, error) {
	return s.step("redo", (*history.History).Redo)
}

func (s *Session) step(op string, move func(*history.History) bool) (bool, error) {
	s.mu.Lock()
	if s.busy != "" {
		pending := s.busy
		s.mu.Unlock()
		s.log().Warn("retouch: operation rejected", "session", s.id, "op", op, "pending", pending)
		return false, ErrBusy
	}
	moved := move(s.hist)
	cursor := s.hist.Cursor()
	s.mu.Unlock()

	if moved {
		s.log().Debug("retouch: "+op, "session", s.id, "cursor", cursor)
	}
	return moved, nil
}

// CanUndo reports whether Undo would move.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.CanUndo()
}

// CanRedo reports whether Redo would move.
func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.CanRedo()
}

// HistoryLen returns the number of history entries and the cursor
// position (-1 when empty).
func (s *Session) HistoryLen() (n, cursor int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.Len(), s.hist.Cursor()
}

// Close drops the history and stickers. The session can be reused by
// loading a new image.
func (s *Session) Close() {
	s.mu.Lock()
	s.hist.Reset()
	s.filename = ""
	s.mu.Unlock()

	s.stateMu.Lock()
	s.stickers = nil
	s.settings = pipeline.Defaults()
	s.stateMu.Unlock()
}
