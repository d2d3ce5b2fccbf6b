package region

import "github.com/gogpu/retouch/raster"

// indexedImage gives every pixel a unique colour derived from its position:
// R = x, G = y, B = 7, A = 255.
func indexedImage(w, h int) *raster.Image {
	pix := make([]byte, w*h*4)
	for y := range h {
		for x := range w {
			i := (y*w + x) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = byte(x), byte(y), 7, 255
		}
	}
	return raster.Wrap(w, h, pix)
}

func solidImage(w, h int, c [4]uint8) *raster.Image {
	pix := make([]byte, w*h*4)
	for i := 0; i < len(pix); i += 4 {
		copy(pix[i:i+4], c[:])
	}
	return raster.Wrap(w, h, pix)
}

func pixel(img *raster.Image, x, y int) [4]uint8 {
	r, g, b, a := img.RGBA(x, y)
	return [4]uint8{r, g, b, a}
}

// within mirrors the brush: inside the circle and strictly before the
// right and bottom extents.
func within(x, y int, cx, cy, r float64) bool {
	dx, dy := float64(x)-cx, float64(y)-cy
	return dx*dx+dy*dy <= r*r && float64(x) < cx+r && float64(y) < cy+r
}
