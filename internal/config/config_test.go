package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gogpu/retouch/pipeline"
)

func TestParseDefaults(t *testing.T) {
	c, err := Parse([]byte("db_path: retouch.db\n"))
	if err != nil {
		t.Fatal(err)
	}
	if c.Listen != ":8080" || c.LogLevel != "info" || c.DBPath != "retouch.db" {
		t.Errorf("top-level defaults: %+v", c)
	}
	if c.Editor.JPEGQuality != 90 || c.Editor.PreviewMaxDim != 1024 || c.Editor.MaxPixels != DefaultMaxPixels {
		t.Errorf("editor defaults: %+v", c.Editor)
	}
	if c.Remote.Timeout != time.Minute || c.Server.MaxUploadBytes != 32<<20 {
		t.Errorf("remote/server defaults: %+v %+v", c.Remote, c.Server)
	}
}

func TestParseOverrides(t *testing.T) {
	data := []byte(`
listen: 127.0.0.1:9000
log_level: debug
workers: 4
editor:
  jpeg_quality: 75
  preview_max_dim: 512
  max_pixels: 1000000
remote:
  endpoint: http://models.local/remove-bg
  timeout: 5s
server:
  max_upload_bytes: 1048576
`)
	c, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if c.Listen != "127.0.0.1:9000" || c.Workers != 4 {
		t.Errorf("got %+v", c)
	}
	if c.Editor.JPEGQuality != 75 || c.Editor.PreviewMaxDim != 512 || c.Editor.MaxPixels != 1000000 {
		t.Errorf("editor: %+v", c.Editor)
	}
	if c.Remote.Endpoint != "http://models.local/remove-bg" || c.Remote.Timeout != 5*time.Second {
		t.Errorf("remote: %+v", c.Remote)
	}
	if c.Server.MaxUploadBytes != 1<<20 {
		t.Errorf("server: %+v", c.Server)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"quality", "editor:\n  jpeg_quality: 150\n"},
		{"workers", "workers: -1\n"},
		{"max pixels", "editor:\n  max_pixels: 1000000000\n"},
		{"level", "log_level: loud\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); !errors.Is(err, ErrInvalid) {
				t.Errorf("err = %v, want ErrInvalid", err)
			}
		})
	}
	if _, err := Parse([]byte("listen: [")); err == nil {
		t.Error("malformed YAML should fail")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "retouchd.yaml")
	if err := os.WriteFile(path, []byte("listen: :7000\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Listen != ":7000" {
		t.Errorf("Listen = %q", c.Listen)
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
}

func TestParseScript(t *testing.T) {
	data := []byte(`
input: in.jpg
output: out.png
prompt: warm sunset
settings:
  sharpen: 40
  blur: 2
operations:
  - op: clone
    target: {x: 0.5, y: 0.5}
    source: {x: 0.2, y: 0.2}
    radius: 10
  - op: redeye
    at: {x: 0.4, y: 0.3}
  - op: crop
    rect: {x: 1, y: 2, width: 30, height: 40}
  - op: stickers
    stickers:
      - content: "★"
        x: 0.1
        y: 0.9
        scale: 2
  - op: upscale
    width: 2048
  - op: undo
`)
	s, err := ParseScript(data)
	if err != nil {
		t.Fatal(err)
	}
	if s.Input != "in.jpg" || s.Output != "out.png" || s.Prompt != "warm sunset" {
		t.Errorf("header: %+v", s)
	}
	if len(s.Operations) != 6 {
		t.Fatalf("operations = %d, want 6", len(s.Operations))
	}
	clone := s.Operations[0]
	if clone.Target.X != 0.5 || clone.Source.Y != 0.2 || clone.Radius != 10 {
		t.Errorf("clone: %+v", clone)
	}
	if r := s.Operations[2].Rect; r.X != 1 || r.Y != 2 || r.Width != 30 || r.Height != 40 {
		t.Errorf("crop rect: %+v", r)
	}
	if st := s.Operations[3].Stickers[0]; st.Content != "★" || st.Scale != 2 {
		t.Errorf("sticker: %+v", st)
	}

	base := pipeline.Defaults()
	base.Sepia = 30
	got, err := s.ResolveSettings(base)
	if err != nil {
		t.Fatal(err)
	}
	if got.Sharpen != 40 || got.Blur != 2 || got.Sepia != 30 || got.Brightness != 100 {
		t.Errorf("ResolveSettings = %+v", got)
	}
}

func TestParseScriptNoSettings(t *testing.T) {
	s, err := ParseScript([]byte("input: a.png\n"))
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.ResolveSettings(pipeline.Defaults())
	if err != nil || got != pipeline.Defaults() {
		t.Errorf("ResolveSettings = %+v, %v", got, err)
	}
}

func TestParseScriptInvalidOps(t *testing.T) {
	tests := []string{
		"operations:\n  - op: paint\n",
		"operations:\n  - op: crop\n",
		"operations:\n  - op: upscale\n",
		"operations:\n  - op: stickers\n",
	}
	for _, data := range tests {
		if _, err := ParseScript([]byte(data)); !errors.Is(err, ErrInvalid) {
			t.Errorf("%q: err = %v, want ErrInvalid", data, err)
		}
	}
}
