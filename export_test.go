package retouch

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/gogpu/retouch/pipeline"
	"github.com/gogpu/retouch/raster"
)

func TestExportIdentityRoundTrip(t *testing.T) {
	src := checkerImage(16, 8)
	s := loadedSession(t, src)

	out, err := s.Export(context.Background(), raster.FormatPNG)
	if err != nil {
		t.Fatal(err)
	}
	if out.Filename != "edited-photo.png" {
		t.Errorf("Filename = %q, want edited-photo.png", out.Filename)
	}
	img, err := raster.Decode(out.Data, raster.FormatPNG)
	if err != nil {
		t.Fatal(err)
	}
	if !img.Equal(src) {
		t.Error("identity export is not byte-identical")
	}
}

func TestExportBakesSettings(t *testing.T) {
	src := checkerImage(16, 8)
	s := loadedSession(t, src)
	s.UpdateSettings(func(ps *pipeline.Settings) {
		ps.Grayscale = 100
		ps.Scale = 2
	})

	out, err := s.Export(context.Background(), raster.FormatPNG)
	if err != nil {
		t.Fatal(err)
	}
	img, err := raster.Decode(out.Data, raster.FormatAuto)
	if err != nil {
		t.Fatal(err)
	}
	if img.Width() != 32 || img.Height() != 16 {
		t.Errorf("export is %dx%d, want 32x16", img.Width(), img.Height())
	}
	if r, g, b, _ := img.RGBA(16, 8); r != g || g != b {
		t.Errorf("pixel not gray: %d %d %d", r, g, b)
	}
	if !current(t, s).Equal(src) {
		t.Error("export modified history")
	}
}

func TestExportJPEGAndDefaultName(t *testing.T) {
	s := NewSession(WithEncodeOptions(&raster.EncodeOptions{JPEGQuality: 50}))
	if err := s.Load(context.Background(), pngBytes(t, checkerImage(8, 8)), "", ""); err != nil {
		t.Fatal(err)
	}
	out, err := s.Export(context.Background(), raster.FormatJPEG)
	if err != nil {
		t.Fatal(err)
	}
	if out.Filename != "edited-image.jpg" {
		t.Errorf("Filename = %q", out.Filename)
	}
	if !bytes.HasPrefix(out.Data, []byte{0xFF, 0xD8}) {
		t.Error("data is not JPEG")
	}
}

func TestPreviewBounded(t *testing.T) {
	s := loadedSession(t, checkerImage(64, 32), WithPreviewMaxDim(16))

	img, err := s.Preview(0)
	if err != nil {
		t.Fatal(err)
	}
	if img.Width() != 16 || img.Height() != 8 {
		t.Errorf("preview %dx%d, want 16x8", img.Width(), img.Height())
	}
	img, err = s.Preview(32)
	if err != nil {
		t.Fatal(err)
	}
	if img.Width() != 32 {
		t.Errorf("preview width %d, want 32", img.Width())
	}
}

func TestRenderLogsCacheStats(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := loadedSession(t, checkerImage(16, 16), WithLogger(logger))
	s.UpdateSettings(func(ps *pipeline.Settings) { ps.Blur = 1.5 })

	for range 2 {
		if _, err := s.Render(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	out := buf.String()
	for _, want := range []string{"retouch: caches", "kernels.hitRate=", "glyphs.len="} {
		if !strings.Contains(out, want) {
			t.Errorf("debug log missing %q:\n%s", want, out)
		}
	}
}
