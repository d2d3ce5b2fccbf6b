package retouch

import (
	"errors"
	"testing"
)

func TestSharpenZeroIsIdentity(t *testing.T) {
	img := checkerImage(16, 16)
	for _, amount := range []float64{0, -5} {
		out := Sharpen(img, amount)
		if !out.Equal(img) {
			t.Errorf("Sharpen(%v) changed the image", amount)
		}
		if out == img {
			t.Errorf("Sharpen(%v) returned the input instead of a copy", amount)
		}
	}
}

func TestConvolveCustomKernel(t *testing.T) {
	k, err := NewKernel(1, []float64{0.5})
	if err != nil {
		t.Fatal(err)
	}
	img := solidImage(3, 3, [4]uint8{100, 50, 20, 128})
	out := Convolve(img, k)
	if got, want := pixel(out, 1, 1), [4]uint8{50, 25, 10, 128}; got != want {
		t.Errorf("pixel = %v, want %v", got, want)
	}

	if _, err := NewKernel(2, make([]float64, 4)); !errors.Is(err, ErrInvalidKernel) {
		t.Errorf("even kernel: err = %v, want ErrInvalidKernel", err)
	}
}

func TestKernelFromRows(t *testing.T) {
	k, err := KernelFromRows([][]float64{{0, 0, 0}, {0, 1, 0}, {0, 0, 0}})
	if err != nil {
		t.Fatal(err)
	}
	img := checkerImage(16, 16)
	if out := Convolve(img, k); !out.Equal(img) {
		t.Error("identity kernel changed the image")
	}
	if _, err := KernelFromRows([][]float64{{1, 2}, {3}}); !errors.Is(err, ErrInvalidKernel) {
		t.Errorf("ragged rows: err = %v, want ErrInvalidKernel", err)
	}
}

func TestConvolveZeroKernelCopies(t *testing.T) {
	img := checkerImage(8, 8)
	out := Convolve(img, Kernel{})
	if !out.Equal(img) || out == img {
		t.Error("zero Kernel should return an equal copy")
	}
}
