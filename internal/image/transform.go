package image

import (
	"math"

	"github.com/gogpu/retouch/internal/parallel"
	"github.com/gogpu/retouch/raster"
)

// Transform draws img onto a new dstW x dstH transparent canvas through m.
//
// Each destination pixel centre is mapped back through the inverse of m; if
// it lands outside the source rectangle the pixel stays transparent,
// otherwise it is sampled with mode. A singular m yields an empty canvas.
// dstW and dstH are raised to at least 1.
func Transform(img *raster.Image, m Affine, dstW, dstH int, mode InterpolationMode) *raster.Image {
	dstW = max(dstW, 1)
	dstH = max(dstH, 1)
	dst := make([]byte, dstW*dstH*raster.BytesPerPixel)

	inv, ok := m.Invert()
	if !ok {
		return raster.Wrap(dstW, dstH, dst)
	}

	srcW, srcH := float64(img.Width()), float64(img.Height())
	sample := samplerFor(mode)

	parallel.Rows(dstH, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := range dstW {
				sx, sy := inv.TransformPoint(float64(x)+0.5, float64(y)+0.5)
				if sx < 0 || sy < 0 || sx >= srcW || sy >= srcH {
					continue
				}
				r, g, b, a := sample(img, sx, sy)
				i := (y*dstW + x) * raster.BytesPerPixel
				dst[i] = toByte(r)
				dst[i+1] = toByte(g)
				dst[i+2] = toByte(b)
				dst[i+3] = toByte(a)
			}
		}
	})

	return raster.Wrap(dstW, dstH, dst)
}

// RotateScale rotates img clockwise by degrees and scales it by scale about
// its centre. The output canvas is round(w*scale) x round(h*scale) with the
// image centred on it; corners rotated out of the canvas are clipped and
// uncovered pixels are transparent. A zero rotation at scale 1 returns a
// copy of img; a half turn at scale 1 maps pixel centres onto pixel centres
// and is copied with nearest sampling, so it is lossless.
func RotateScale(img *raster.Image, degrees, scale float64) *raster.Image {
	degrees = math.Mod(degrees, 360)
	if degrees < 0 {
		degrees += 360
	}
	if degrees == 0 && scale == 1 {
		return img.Clone()
	}

	w, h := img.Size()
	dstW := int(math.Round(float64(w) * scale))
	dstH := int(math.Round(float64(h) * scale))
	m := Centered(w, h, dstW, dstH, degrees, scale)
	mode := InterpBilinear
	if degrees == 180 && scale == 1 {
		mode = InterpNearest
	}
	return Transform(img, m, dstW, dstH, mode)
}
