package retouch

import (
	"context"
	"log/slog"
	"time"

	"github.com/gogpu/retouch/internal/filter"
	"github.com/gogpu/retouch/pipeline"
	"github.com/gogpu/retouch/raster"
	"github.com/gogpu/retouch/text"
)

// ExportPrefix is prepended to the loaded file name for downloads.
const ExportPrefix = "edited-"

// Export is an encoded, fully rendered image ready for download.
type Export struct {
	Data     []byte
	Format   raster.Format
	Filename string
}

// Render bakes the live settings, sharpening included, into a copy of the
// current image. The history is not modified.
func (s *Session) Render(ctx context.Context) (*raster.Image, error) {
	cur, err := s.Current()
	if err != nil {
		return nil, err
	}
	out, err := pipeline.RenderContext(ctx, cur, s.Settings())
	if err != nil {
		return nil, err
	}
	s.logCaches(ctx, "render")
	return out, nil
}

// logCaches reports the shared Gaussian kernel and glyph bitmap caches.
func (s *Session) logCaches(ctx context.Context, op string) {
	l := s.log()
	if !l.Enabled(ctx, slog.LevelDebug) {
		return
	}
	k, g := filter.KernelCacheStats(), text.BitmapCacheStats()
	l.DebugContext(ctx, "retouch: caches",
		"session", s.id,
		"op", op,
		slog.Group("kernels", "len", k.Len, "hitRate", k.HitRate(), "evictions", k.Evictions),
		slog.Group("glyphs", "len", g.Len, "hitRate", g.HitRate(), "evictions", g.Evictions))
}

// Preview renders the live settings on a downsampled copy of the current
// image. maxDim <= 0 uses the session default.
func (s *Session) Preview(maxDim int) (*raster.Image, error) {
	cur, err := s.Current()
	if err != nil {
		return nil, err
	}
	if maxDim <= 0 {
		maxDim = s.opts.previewMaxDim
	}
	return pipeline.Preview(cur, s.Settings(), maxDim), nil
}

// Export renders the current image with the live settings and encodes it.
// The download name is ExportPrefix followed by the loaded file name.
func (s *Session) Export(ctx context.Context, format raster.Format) (*Export, error) {
	start := time.Now()
	img, err := s.Render(ctx)
	if err != nil {
		return nil, err
	}
	data, err := raster.EncodeBytes(img, format, s.opts.encode)
	if err != nil {
		return nil, err
	}

	name := s.Filename()
	if name == "" {
		name = "image" + format.Extension()
	}
	out := &Export{
		Data:     data,
		Format:   format,
		Filename: ExportPrefix + name,
	}
	s.log().Info("retouch: exported",
		"session", s.id,
		"file", out.Filename,
		"format", format.String(),
		"bytes", len(data),
		"elapsed", time.Since(start))
	return out, nil
}
