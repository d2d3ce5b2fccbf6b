package filter

import (
	rimage "github.com/gogpu/retouch/internal/image"
	"github.com/gogpu/retouch/internal/parallel"
	"github.com/gogpu/retouch/raster"
)

// Blur applies a Gaussian blur with standard deviation sigma in pixels.
//
// The blur is separable: a horizontal pass into a float buffer followed by a
// vertical pass. Colour is premultiplied by alpha while blurring so that
// transparent pixels do not bleed their RGB into neighbours. Samples past the
// edge repeat the nearest edge pixel. Sigma <= 0 returns a copy of img.
func Blur(img *raster.Image, sigma float64) *raster.Image {
	if sigma <= 0 {
		return img.Clone()
	}

	kernel := CachedGaussianKernel(sigma)
	if len(kernel) == 1 {
		return img.Clone()
	}

	width, height := img.Size()
	src := img.Data()
	temp := rimage.GetScratch(width * height * 4)
	defer rimage.PutScratch(temp)

	// Pass 1: horizontal, src -> temp (premultiplied).
	parallel.Rows(height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			blurRow(src, temp, y, width, kernel)
		}
	})

	// Pass 2: vertical, temp -> dst (straight).
	dst := make([]byte, len(src))
	parallel.Rows(height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			blurColumnRow(temp, dst, y, width, height, kernel)
		}
	})

	return raster.Wrap(width, height, dst)
}

func blurRow(src []byte, temp []float32, y, width int, kernel []float32) {
	half := len(kernel) / 2
	row := y * width * 4
	for x := range width {
		var r, g, b, a float32
		for k, w := range kernel {
			sx := clampInt(x+k-half, 0, width-1)
			idx := row + sx*4
			sa := float32(src[idx+3])
			pa := sa / 255
			r += float32(src[idx]) * pa * w
			g += float32(src[idx+1]) * pa * w
			b += float32(src[idx+2]) * pa * w
			a += sa * w
		}
		i := row + x*4
		temp[i] = r
		temp[i+1] = g
		temp[i+2] = b
		temp[i+3] = a
	}
}

func blurColumnRow(temp []float32, dst []byte, y, width, height int, kernel []float32) {
	half := len(kernel) / 2
	for x := range width {
		var r, g, b, a float32
		for k, w := range kernel {
			sy := clampInt(y+k-half, 0, height-1)
			idx := (sy*width + x) * 4
			r += temp[idx] * w
			g += temp[idx+1] * w
			b += temp[idx+2] * w
			a += temp[idx+3] * w
		}
		i := (y*width + x) * 4
		if a <= 0 {
			dst[i], dst[i+1], dst[i+2], dst[i+3] = 0, 0, 0, 0
			continue
		}
		inv := 255 / a
		dst[i] = roundByte(clamp255(float64(r * inv)))
		dst[i+1] = roundByte(clamp255(float64(g * inv)))
		dst[i+2] = roundByte(clamp255(float64(b * inv)))
		dst[i+3] = roundByte(clamp255(float64(a)))
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
