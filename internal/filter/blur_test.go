package filter

import (
	"testing"

	"github.com/gogpu/retouch/raster"
)

func TestBlurZeroSigma(t *testing.T) {
	img := noiseImage(12, 12)
	for _, sigma := range []float64{0, -1, 0.001} {
		if !Blur(img, sigma).Equal(img) {
			t.Errorf("Blur(%v) changed the image", sigma)
		}
	}
}

func TestBlurUniformUnchanged(t *testing.T) {
	// With edge clamping a flat image stays flat, border included.
	img := solidImage(20, 15, 90, 180, 30, 255)
	out := Blur(img, 3)
	for y := range 15 {
		for x := range 20 {
			got := pixel(out, x, y)
			want := [4]uint8{90, 180, 30, 255}
			for c := range 4 {
				if absDiff(got[c], want[c]) > 1 {
					t.Fatalf("(%d,%d) = %v, want ~%v", x, y, got, want)
				}
			}
		}
	}
}

func TestBlurSpreadsEnergy(t *testing.T) {
	pix := make([]byte, 21*21*4)
	for i := 3; i < len(pix); i += 4 {
		pix[i] = 255
	}
	c := (10*21 + 10) * 4
	pix[c], pix[c+1], pix[c+2] = 255, 255, 255
	img := raster.Wrap(21, 21, pix)

	out := Blur(img, 2)

	center := pixel(out, 10, 10)
	near := pixel(out, 11, 10)
	far := pixel(out, 16, 10)
	if !(center[0] < 255 && center[0] > near[0] && near[0] > far[0]) {
		t.Errorf("falloff centre=%v near=%v far=%v", center, near, far)
	}
	if near != pixel(out, 10, 11) || near != pixel(out, 9, 10) {
		t.Error("blur is not symmetric")
	}
}

func TestBlurTransparentDoesNotBleed(t *testing.T) {
	// Left half opaque blue, right half transparent red. Premultiplied
	// blurring keeps the red out of the visible result.
	pix := make([]byte, 10*4*4)
	for y := range 4 {
		for x := range 10 {
			i := (y*10 + x) * 4
			if x < 5 {
				pix[i+2], pix[i+3] = 255, 255
			} else {
				pix[i] = 255
			}
		}
	}
	img := raster.Wrap(10, 4, pix)

	out := Blur(img, 1.5)
	for x := range 10 {
		p := pixel(out, x, 2)
		if p[3] > 0 && p[0] > 1 {
			t.Errorf("x=%d = %v, red bled into visible pixel", x, p)
		}
	}
	if p := pixel(out, 5, 2); p[3] == 0 || p[3] == 255 {
		t.Errorf("boundary alpha = %d, want partially transparent", p[3])
	}
}

func BenchmarkBlur(b *testing.B) {
	img := noiseImage(512, 512)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Blur(img, 4)
	}
}
