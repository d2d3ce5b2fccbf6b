package region

import (
	"fmt"

	"github.com/gogpu/retouch/raster"
)

// Rect is a pixel rectangle with its top-left corner at (X, Y).
type Rect struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// overlaps reports whether r shares at least one pixel with a w x h image.
func (r Rect) overlaps(w, h int) bool {
	return r.X < w && r.Y < h && r.X+r.Width > 0 && r.Y+r.Height > 0
}

// Crop returns the r.Width x r.Height window of img at (r.X, r.Y). Parts of
// the window outside the image come out fully transparent.
//
// An empty rectangle, one that does not overlap the image, or one larger
// than raster.MaxPixels returns ErrInvalidRegion before anything is
// allocated.
func Crop(img *raster.Image, r Rect) (*raster.Image, error) {
	width, height := img.Size()
	if r.Empty() || !r.overlaps(width, height) {
		return nil, fmt.Errorf("%w: crop %dx%d at (%d,%d) on %dx%d image",
			ErrInvalidRegion, r.Width, r.Height, r.X, r.Y, width, height)
	}
	if err := raster.CheckSize(r.Width, r.Height, 0); err != nil {
		return nil, fmt.Errorf("%w: crop: %w", ErrInvalidRegion, err)
	}

	pix := make([]byte, r.Width*r.Height*raster.BytesPerPixel)
	src := img.Data()

	// Intersection in source coordinates.
	x0, y0 := max(r.X, 0), max(r.Y, 0)
	x1, y1 := min(r.X+r.Width, width), min(r.Y+r.Height, height)
	n := (x1 - x0) * raster.BytesPerPixel

	for y := y0; y < y1; y++ {
		from := (y*width + x0) * raster.BytesPerPixel
		to := ((y-r.Y)*r.Width + (x0 - r.X)) * raster.BytesPerPixel
		copy(pix[to:to+n], src[from:from+n])
	}

	return raster.Wrap(r.Width, r.Height, pix), nil
}
