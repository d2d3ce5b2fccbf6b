package filter

import (
	"testing"

	"github.com/gogpu/retouch/raster"
)

func TestSharpenZeroIsIdentity(t *testing.T) {
	img := noiseImage(17, 23)
	for _, amount := range []float64{0, -5} {
		out := Sharpen(img, amount)
		if !out.Equal(img) {
			t.Errorf("Sharpen(%v) changed the image", amount)
		}
		if &out.Data()[0] == &img.Data()[0] {
			t.Errorf("Sharpen(%v) returned the input buffer", amount)
		}
	}
}

func TestConvolveIdentityKernel(t *testing.T) {
	img := noiseImage(40, 31)
	identity, _ := NewKernel(3, []float64{0, 0, 0, 0, 1, 0, 0, 0, 0})
	unit, _ := NewKernel(1, []float64{1})

	tests := []struct {
		name string
		k    Kernel
	}{
		{"3x3 identity", identity},
		{"1x1 identity", unit},
		{"zero kernel", Kernel{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Convolve(img, tt.k)
			if !out.Equal(img) {
				t.Error("kernel changed the image")
			}
			if &out.Data()[0] == &img.Data()[0] {
				t.Error("Convolve returned the input buffer")
			}
		})
	}
}

func TestConvolveUniformInterior(t *testing.T) {
	// Interior pixels of a flat image are unchanged by a sum-to-one kernel.
	img := solidImage(8, 8, 100, 150, 200, 255)
	out := Sharpen(img, 100)

	for y := 1; y < 7; y++ {
		for x := 1; x < 7; x++ {
			if got := pixel(out, x, y); got != [4]uint8{100, 150, 200, 255} {
				t.Fatalf("interior (%d,%d) = %v, want unchanged", x, y, got)
			}
		}
	}
}

func TestConvolveEdgesAbsent(t *testing.T) {
	// At the border the missing neighbours do not contribute, so a flat image
	// brightens by one neighbour weight per missing side.
	img := solidImage(5, 5, 100, 100, 100, 255)
	out := Sharpen(img, 50) // centre 3, edges -0.5

	tests := []struct {
		x, y int
		want uint8
	}{
		{2, 2, 100}, // 300 - 4*50
		{0, 2, 150}, // 300 - 3*50
		{0, 0, 200}, // 300 - 2*50
		{4, 4, 200},
	}
	for _, tt := range tests {
		if got := pixel(out, tt.x, tt.y); got[0] != tt.want || got[1] != tt.want || got[2] != tt.want {
			t.Errorf("(%d,%d) = %v, want %d", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestConvolveClampsAndKeepsAlpha(t *testing.T) {
	pix := make([]byte, 3*3*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i+3] = 77
	}
	// Bright centre on a black field.
	pix[4*4], pix[4*4+1], pix[4*4+2] = 200, 200, 200
	img := raster.Wrap(3, 3, pix)

	out := Sharpen(img, 100)

	if got := pixel(out, 1, 1); got != [4]uint8{255, 255, 255, 77} {
		t.Errorf("centre = %v, want saturated white with alpha 77", got)
	}
	if got := pixel(out, 1, 0); got != [4]uint8{0, 0, 0, 77} {
		t.Errorf("neighbour = %v, want clamped black with alpha 77", got)
	}
}

func TestClampRound(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{-3, 0},
		{0.5, 0},
		{1.5, 2},
		{2.5, 2},
		{254.4, 254},
		{254.5, 254},
		{300, 255},
	}
	for _, tt := range tests {
		if got := clampRound(tt.in); got != tt.want {
			t.Errorf("clampRound(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestConvolveDeterministicAcrossBands(t *testing.T) {
	img := noiseImage(64, 200)
	a := Sharpen(img, 40)
	b := Sharpen(img, 40)
	if !a.Equal(b) {
		t.Error("convolution output differs between runs")
	}
	if a.Equal(img) {
		t.Error("sharpen 40 left a noisy image unchanged")
	}
}

func TestEnhance(t *testing.T) {
	img := noiseImage(10, 10)
	if Enhance(img).Equal(img) {
		t.Error("Enhance left a noisy image unchanged")
	}
}

func BenchmarkSharpen(b *testing.B) {
	img := noiseImage(512, 512)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Sharpen(img, 40)
	}
}
