package retouch

import (
	"context"
	"testing"

	"github.com/gogpu/retouch/raster"
)

// checkerImage returns an opaque image with 8x8 red and blue squares.
func checkerImage(w, h int) *raster.Image {
	pix := make([]byte, w*h*4)
	for y := range h {
		for x := range w {
			i := (y*w + x) * 4
			if (x/8+y/8)%2 == 0 {
				pix[i] = 200
			} else {
				pix[i+2] = 200
			}
			pix[i+3] = 255
		}
	}
	return raster.Wrap(w, h, pix)
}

func solidImage(w, h int, c [4]uint8) *raster.Image {
	pix := make([]byte, w*h*4)
	for i := 0; i < len(pix); i += 4 {
		copy(pix[i:], c[:])
	}
	return raster.Wrap(w, h, pix)
}

func pngBytes(t testing.TB, img *raster.Image) []byte {
	t.Helper()
	data, err := raster.EncodeBytes(img, raster.FormatPNG, nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return data
}

// loadedSession returns a session holding img as its only entry.
func loadedSession(t testing.TB, img *raster.Image, opts ...SessionOption) *Session {
	t.Helper()
	s := NewSession(opts...)
	if err := s.Load(context.Background(), pngBytes(t, img), "image/png", "photo.png"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s
}

func current(t testing.TB, s *Session) *raster.Image {
	t.Helper()
	img, err := s.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	return img
}

func pixel(img *raster.Image, x, y int) [4]uint8 {
	r, g, b, a := img.RGBA(x, y)
	return [4]uint8{r, g, b, a}
}
