package region

import (
	"fmt"
	"math"

	"github.com/gogpu/retouch/raster"
)

// DefaultCloneRadius is the brush radius in pixels used when the caller does
// not pick one.
const DefaultCloneRadius = 20

// CloneStamp copies a circular patch so that the pixel under source appears
// under target. Every pixel within radius of target takes the value of the
// pixel displaced by source-target, with the displacement rounded to whole
// pixels. Reads always come from img, so overlapping patches do not smear.
//
// Target pixels whose source sample falls outside the image keep their
// value. A non-positive radius or a brush entirely outside the image returns
// ErrInvalidRegion.
func CloneStamp(img *raster.Image, target, source raster.Point, radius float64) (*raster.Image, error) {
	width, height := img.Size()
	d, ok := newDisk(target.X, target.Y, radius, width, height)
	if !ok || !finite(source.X) || !finite(source.Y) {
		return nil, fmt.Errorf("%w: clone at (%g,%g) radius %g", ErrInvalidRegion, target.X, target.Y, radius)
	}

	dx := int(math.Round(target.X - source.X))
	dy := int(math.Round(target.Y - source.Y))

	src := img.Data()
	pix := img.Pix()
	d.each(func(x, y int) {
		from := img.Offset(x-dx, y-dy)
		if from < 0 {
			return
		}
		to := (y*width + x) * raster.BytesPerPixel
		copy(pix[to:to+raster.BytesPerPixel], src[from:from+raster.BytesPerPixel])
	})

	return raster.Wrap(width, height, pix), nil
}
