package retouch

import (
	"log/slog"
	"sync/atomic"
)

// silent discards every record; its Enabled reports false so attributes
// are never evaluated.
var silent = slog.New(slog.DiscardHandler)

var pkgLogger atomic.Pointer[slog.Logger]

func init() {
	pkgLogger.Store(silent)
}

// SetLogger sets the logger used by sessions created without WithLogger.
// retouch is silent until SetLogger is called; nil makes it silent again.
// It may be called at any time from any goroutine.
//
// Levels:
//   - Debug: decode failures, aborted operations, undo/redo moves
//   - Info: load, commit and export of a session
//   - Warn: collaborator failures and operations rejected as busy
//
// Binaries typically install a JSON handler:
//
//	retouch.SetLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	pkgLogger.Store(l)
}

// Logger returns the package logger. It never returns nil.
func Logger() *slog.Logger {
	return pkgLogger.Load()
}
