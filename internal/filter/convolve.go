package filter

import (
	"math"

	"github.com/gogpu/retouch/internal/parallel"
	"github.com/gogpu/retouch/raster"
)

// Convolve applies kernel k to the R, G and B channels of img.
//
// Source samples that fall outside the image are absent: they contribute
// nothing to the sum, so edge pixels of a sharpening kernel come out darker.
// Alpha is copied unchanged. Each channel saturates to [0,255] and rounds
// half to even.
//
// An identity kernel, or the zero Kernel, returns a copy of img.
func Convolve(img *raster.Image, k Kernel) *raster.Image {
	if k.Size() == 0 || k.IsIdentity() {
		return img.Clone()
	}
	width, height := img.Size()
	src := img.Data()
	dst := make([]byte, len(src))
	size := k.Size()
	center := k.Center()

	parallel.Rows(height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := range width {
				var r, g, b float64
				for ky := range size {
					py := y + ky - center
					if py < 0 || py >= height {
						continue
					}
					for kx := range size {
						px := x + kx - center
						if px < 0 || px >= width {
							continue
						}
						w := k.At(ky, kx)
						if w == 0 {
							continue
						}
						idx := (py*width + px) * 4
						r += float64(src[idx]) * w
						g += float64(src[idx+1]) * w
						b += float64(src[idx+2]) * w
					}
				}
				i := (y*width + x) * 4
				dst[i] = clampRound(r)
				dst[i+1] = clampRound(g)
				dst[i+2] = clampRound(b)
				dst[i+3] = src[i+3]
			}
		}
	})

	return raster.Wrap(width, height, dst)
}

// Sharpen convolves img with SharpenKernel(amount).
// An amount of zero or less returns an identical copy without convolving.
func Sharpen(img *raster.Image, amount float64) *raster.Image {
	if amount <= 0 {
		return img.Clone()
	}
	return Convolve(img, SharpenKernel(amount))
}

// Enhance convolves img with EnhanceKernel.
func Enhance(img *raster.Image) *raster.Image {
	return Convolve(img, EnhanceKernel())
}

// clampRound converts a channel sum to a byte with clamped-array semantics.
func clampRound(v float64) uint8 {
	if !(v > 0) { // also catches NaN
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.RoundToEven(v))
}
