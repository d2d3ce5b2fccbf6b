package region

import (
	"fmt"

	"github.com/gogpu/retouch/raster"
)

// DefaultRedEyeRadius is the correction radius in pixels applied around a
// clicked point.
const DefaultRedEyeRadius = 15

// RedEye neutralizes red-dominant pixels within radius of centre. A pixel is
// red-dominant when r > g+b; its R, G and B are then all set to (g+b)/2
// using integer division. Alpha and all other pixels are unchanged.
//
// A non-positive radius or a disk entirely outside the image returns
// ErrInvalidRegion.
func RedEye(img *raster.Image, centre raster.Point, radius float64) (*raster.Image, error) {
	width, height := img.Size()
	d, ok := newDisk(centre.X, centre.Y, radius, width, height)
	if !ok {
		return nil, fmt.Errorf("%w: red-eye at (%g,%g) radius %g", ErrInvalidRegion, centre.X, centre.Y, radius)
	}

	pix := img.Pix()
	d.each(func(x, y int) {
		i := (y*width + x) * raster.BytesPerPixel
		r, g, b := int(pix[i]), int(pix[i+1]), int(pix[i+2])
		if r > g+b {
			avg := uint8((g + b) / 2)
			pix[i], pix[i+1], pix[i+2] = avg, avg, avg
		}
	})

	return raster.Wrap(width, height, pix), nil
}
