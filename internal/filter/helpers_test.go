package filter

import "github.com/gogpu/retouch/raster"

// Test helper functions shared across filter tests.

// solidImage creates a w x h image filled with one colour.
func solidImage(w, h int, r, g, b, a uint8) *raster.Image {
	pix := make([]byte, w*h*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = r, g, b, a
	}
	return raster.Wrap(w, h, pix)
}

// noiseImage creates a deterministic pseudo-random opaque image.
func noiseImage(w, h int) *raster.Image {
	pix := make([]byte, w*h*4)
	seed := uint32(2463534242)
	for i := 0; i < len(pix); i += 4 {
		for c := range 3 {
			seed ^= seed << 13
			seed ^= seed >> 17
			seed ^= seed << 5
			pix[i+c] = byte(seed)
		}
		pix[i+3] = 255
	}
	return raster.Wrap(w, h, pix)
}

// pixel returns the RGBA bytes at (x, y).
func pixel(img *raster.Image, x, y int) [4]uint8 {
	r, g, b, a := img.RGBA(x, y)
	return [4]uint8{r, g, b, a}
}

// absDiff returns |a-b| for bytes.
func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
