package image

import (
	"errors"
	"fmt"
	stdimage "image"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/retouch/raster"
)

// ErrInvalidSize is returned when a resize target is not positive or too large.
var ErrInvalidSize = errors.New("image: invalid target size")

// Quality selects the resampling kernel used by Resize.
type Quality uint8

const (
	// QualityFast uses x/image's approximate bilinear filter.
	QualityFast Quality = iota

	// QualityBest uses the Catmull-Rom cubic filter.
	QualityBest
)

func (q Quality) interpolator() xdraw.Interpolator {
	if q == QualityBest {
		return xdraw.CatmullRom
	}
	return xdraw.ApproxBiLinear
}

// Resize resamples img to exactly width x height.
// Targets that are not positive or exceed raster.MaxPixels return
// ErrInvalidSize.
func Resize(img *raster.Image, width, height int, q Quality) (*raster.Image, error) {
	if err := raster.CheckSize(width, height, 0); err != nil {
		return nil, fmt.Errorf("%w: %dx%d: %w", ErrInvalidSize, width, height, err)
	}
	if width == img.Width() && height == img.Height() {
		return img.Clone(), nil
	}

	src := img.ToNRGBA()
	dst := stdimage.NewNRGBA(stdimage.Rect(0, 0, width, height))
	q.interpolator().Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	return raster.Wrap(width, height, dst.Pix), nil
}

// HeightForWidth returns the height that keeps img's aspect ratio at the
// given width, rounded and at least 1. Widths that are not positive or
// exceed raster.MaxPixels return ErrInvalidSize.
func HeightForWidth(img *raster.Image, width int) (int, error) {
	if width <= 0 || width > raster.MaxPixels {
		return 0, fmt.Errorf("%w: width %d", ErrInvalidSize, width)
	}
	w, h := img.Size()
	return max(1, int(math.Round(float64(h)*float64(width)/float64(w)))), nil
}

// Fit downsamples img so that neither side exceeds maxDim, keeping the
// aspect ratio. Images already within bounds, or maxDim <= 0, return img
// itself.
func Fit(img *raster.Image, maxDim int, q Quality) *raster.Image {
	w, h := img.Size()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return img
	}
	f := float64(maxDim) / float64(max(w, h))
	nw := max(1, int(math.Round(float64(w)*f)))
	nh := max(1, int(math.Round(float64(h)*f)))
	out, err := Resize(img, nw, nh, q)
	if err != nil {
		return img
	}
	return out
}
