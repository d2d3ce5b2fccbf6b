package retouch

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/gogpu/retouch/internal/filter"
	rimage "github.com/gogpu/retouch/internal/image"
	"github.com/gogpu/retouch/raster"
	"github.com/gogpu/retouch/region"
)

// editFunc computes the next history entry from the current one.
type editFunc func(ctx context.Context, cur *raster.Image) (*raster.Image, error)

// edit runs a destructive operation: it claims the session, computes the
// new image outside the lock and commits it. The history is left untouched
// when fn fails, panics or ctx is done before the commit; the session is
// released in every case.
func (s *Session) edit(ctx context.Context, op string, fn editFunc) error {
	s.mu.Lock()
	if s.busy != "" {
		pending := s.busy
		s.mu.Unlock()
		s.log().Warn("retouch: operation rejected", "session", s.id, "op", op, "pending", pending)
		return ErrBusy
	}
	cur, err := s.hist.Current()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.busy = op
	s.mu.Unlock()

	start := time.Now()
	next, err := s.compute(ctx, op, fn, cur)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = ""
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.log().Debug("retouch: operation aborted", "session", s.id, "op", op, "error", err)
		return err
	}
	s.hist.Commit(next)
	s.log().Info("retouch: committed",
		"session", s.id,
		"op", op,
		"width", next.Width(),
		"height", next.Height(),
		"entries", s.hist.Len(),
		"elapsed", time.Since(start))
	return nil
}

// compute runs fn, converting a panic into an *OperationPanicError.
func (s *Session) compute(ctx context.Context, op string, fn editFunc, cur *raster.Image) (next *raster.Image, err error) {
	defer func() {
		if v := recover(); v != nil {
			s.log().ErrorContext(ctx, "retouch: operation panicked",
				"session", s.id, "op", op, "panic", v, "stack", string(debug.Stack()))
			next, err = nil, &OperationPanicError{Op: op, Value: v}
		}
	}()
	next, err = fn(ctx, cur)
	if err == nil && next == nil {
		err = fmt.Errorf("retouch: %s: no image produced", op)
	}
	return next, err
}

// CloneStamp copies a disk of pixels around source onto target. Both points
// are normalized; radius is in pixels and zero selects
// region.DefaultCloneRadius.
func (s *Session) CloneStamp(ctx context.Context, target, source raster.Point, radius float64) error {
	if radius == 0 {
		radius = region.DefaultCloneRadius
	}
	return s.edit(ctx, "clone", func(_ context.Context, cur *raster.Image) (*raster.Image, error) {
		w, h := cur.Size()
		return region.CloneStamp(cur, raster.ToPixel(target, w, h), raster.ToPixel(source, w, h), radius)
	})
}

// RedEye desaturates red pixels in a disk around the normalized centre.
// A zero radius selects region.DefaultRedEyeRadius.
func (s *Session) RedEye(ctx context.Context, centre raster.Point, radius float64) error {
	if radius == 0 {
		radius = region.DefaultRedEyeRadius
	}
	return s.edit(ctx, "redeye", func(_ context.Context, cur *raster.Image) (*raster.Image, error) {
		w, h := cur.Size()
		return region.RedEye(cur, raster.ToPixel(centre, w, h), radius)
	})
}

// Crop replaces the current image with the pixel rectangle r.
func (s *Session) Crop(ctx context.Context, r region.Rect) error {
	return s.edit(ctx, "crop", func(_ context.Context, cur *raster.Image) (*raster.Image, error) {
		return region.Crop(cur, r)
	})
}

// Upscale resamples the current image to the given width, keeping its
// aspect ratio. Targets above the session's pixel limit return an error
// matching image.ErrInvalidSize.
func (s *Session) Upscale(ctx context.Context, width int) error {
	return s.edit(ctx, "upscale", func(_ context.Context, cur *raster.Image) (*raster.Image, error) {
		height, err := rimage.HeightForWidth(cur, width)
		if err != nil {
			return nil, fmt.Errorf("retouch: upscale: %w", err)
		}
		if err := raster.CheckSize(width, height, s.opts.maxPixels); err != nil {
			return nil, fmt.Errorf("retouch: upscale: %w: %w", rimage.ErrInvalidSize, err)
		}
		out, err := rimage.Resize(cur, width, height, rimage.QualityBest)
		if err != nil {
			return nil, fmt.Errorf("retouch: upscale: %w", err)
		}
		return out, nil
	})
}

// RemoveBackground sends the current image to the configured background
// remover and commits its result. Failures are reported as
// *ExternalOperationError.
func (s *Session) RemoveBackground(ctx context.Context) error {
	return s.edit(ctx, "remove-background", func(ctx context.Context, cur *raster.Image) (*raster.Image, error) {
		return s.external(ctx, "remove-background", s.opts.remover, cur)
	})
}

// ImproveQuality commits a sharpened version of the current image. With a
// configured quality improver it delegates to it; otherwise it applies the
// built-in enhance convolution.
func (s *Session) ImproveQuality(ctx context.Context) error {
	return s.edit(ctx, "improve", func(ctx context.Context, cur *raster.Image) (*raster.Image, error) {
		if s.opts.improver == nil {
			return filter.Enhance(cur), nil
		}
		return s.external(ctx, "improve", s.opts.improver, cur)
	})
}

// external round-trips cur through a collaborator as PNG.
func (s *Session) external(ctx context.Context, op string, t Transformer, cur *raster.Image) (*raster.Image, error) {
	fail := func(err error) (*raster.Image, error) {
		s.log().Warn("retouch: collaborator failed", "session", s.id, "op", op, "error", err)
		return nil, &ExternalOperationError{Op: op, Err: err}
	}
	if t == nil {
		return fail(ErrNotConfigured)
	}
	in, err := raster.EncodeBytes(cur, raster.FormatPNG, nil)
	if err != nil {
		return nil, err
	}
	out, err := t.Transform(ctx, in)
	if err != nil {
		return fail(err)
	}
	img, err := raster.DecodeLimit(out, raster.FormatAuto, s.opts.maxPixels)
	if err != nil {
		return fail(err)
	}
	return img, nil
}
