package retouch

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// swapLogger installs l for the duration of the test.
func swapLogger(t *testing.T, l *slog.Logger) {
	t.Helper()
	prev := Logger()
	SetLogger(l)
	t.Cleanup(func() { SetLogger(prev) })
}

func TestLoggerSilentByDefault(t *testing.T) {
	swapLogger(t, nil)

	levels := []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError}
	for _, lvl := range levels {
		if Logger().Enabled(context.Background(), lvl) {
			t.Errorf("silent logger enabled for %v", lvl)
		}
	}
}

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, nil))
	swapLogger(t, l)

	if Logger() != l {
		t.Fatal("Logger() did not return the installed logger")
	}

	SetLogger(nil)
	if Logger() == nil {
		t.Fatal("SetLogger(nil) left a nil logger")
	}
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) did not restore silence")
	}
}

func TestSessionLogging(t *testing.T) {
	tests := []struct {
		name       string
		pkg        bool // install a package logger
		withLogger bool // pass WithLogger to the session
	}{
		{"package logger", true, false},
		{"session logger", false, true},
		{"session logger wins", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var pkgBuf, sessBuf bytes.Buffer
			swapLogger(t, nil)
			if tt.pkg {
				SetLogger(slog.New(slog.NewTextHandler(&pkgBuf, nil)))
			}
			var opts []SessionOption
			if tt.withLogger {
				opts = append(opts, WithLogger(slog.New(slog.NewTextHandler(&sessBuf, nil))))
			}

			s := NewSession(opts...)
			if err := s.Load(context.Background(), pngBytes(t, checkerImage(4, 4)), "image/png", "a.png"); err != nil {
				t.Fatal(err)
			}

			want, other := &pkgBuf, &sessBuf
			if tt.withLogger {
				want, other = &sessBuf, &pkgBuf
			}
			if !strings.Contains(want.String(), "retouch: loaded") {
				t.Errorf("load not logged to the expected logger: %q", want.String())
			}
			if other.Len() != 0 {
				t.Errorf("unexpected output on the other logger: %q", other.String())
			}
		})
	}
}

func TestLoggerConcurrentSwap(t *testing.T) {
	swapLogger(t, nil)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			Logger().Debug("read")
		}()
		go func() {
			defer wg.Done()
			SetLogger(slog.Default())
			SetLogger(nil)
		}()
	}
	wg.Wait()
}

func BenchmarkSilentLogger(b *testing.B) {
	l := silent
	b.ReportAllocs()
	for b.Loop() {
		l.Debug("retouch: committed", "op", "crop", "width", 640)
	}
}
