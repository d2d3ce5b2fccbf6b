package image

import (
	"math"

	"github.com/gogpu/retouch/raster"
)

// InterpolationMode selects how Transform samples the source image.
type InterpolationMode uint8

const (
	// InterpNearest selects the pixel containing the sample point.
	InterpNearest InterpolationMode = iota

	// InterpBilinear blends the four nearest pixel centres.
	InterpBilinear
)

// String returns a string representation of the interpolation mode.
func (m InterpolationMode) String() string {
	switch m {
	case InterpNearest:
		return "Nearest"
	case InterpBilinear:
		return "Bilinear"
	default:
		return "Unknown"
	}
}

// sampler reads straight-alpha pixels at continuous pixel coordinates, where
// pixel (i, j) covers [i, i+1) x [j, j+1) and its centre is (i+0.5, j+0.5).
type sampler func(img *raster.Image, x, y float64) (r, g, b, a float64)

func samplerFor(mode InterpolationMode) sampler {
	if mode == InterpNearest {
		return sampleNearest
	}
	return sampleBilinear
}

// sampleNearest returns the pixel containing (x, y), clamped to the edge.
func sampleNearest(img *raster.Image, x, y float64) (r, g, b, a float64) {
	w, h := img.Size()
	px := clamp(int(math.Floor(x)), 0, w-1)
	py := clamp(int(math.Floor(y)), 0, h-1)
	cr, cg, cb, ca := img.RGBA(px, py)
	return float64(cr), float64(cg), float64(cb), float64(ca)
}

// sampleBilinear interpolates the four pixel centres around (x, y) in
// premultiplied space, so transparent neighbours do not tint the result.
// Neighbours past the edge repeat the edge pixel.
func sampleBilinear(img *raster.Image, x, y float64) (r, g, b, a float64) {
	w, h := img.Size()
	fx := x - 0.5
	fy := y - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	x1 := clamp(x0+1, 0, w-1)
	y1 := clamp(y0+1, 0, h-1)
	x0 = clamp(x0, 0, w-1)
	y0 = clamp(y0, 0, h-1)

	weights := [4]float64{(1 - tx) * (1 - ty), tx * (1 - ty), (1 - tx) * ty, tx * ty}
	coords := [4][2]int{{x0, y0}, {x1, y0}, {x0, y1}, {x1, y1}}

	data := img.Data()
	for i, c := range coords {
		wt := weights[i]
		if wt == 0 {
			continue
		}
		off := img.Offset(c[0], c[1])
		pa := float64(data[off+3])
		f := wt * pa / 255
		r += float64(data[off]) * f
		g += float64(data[off+1]) * f
		b += float64(data[off+2]) * f
		a += pa * wt
	}
	if a <= 0 {
		return 0, 0, 0, 0
	}
	inv := 255 / a
	return r * inv, g * inv, b * inv, a
}

// clamp clamps an integer value to [minVal, maxVal].
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// toByte clamps v to [0,255] and rounds to nearest.
func toByte(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
