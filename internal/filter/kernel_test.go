package filter

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

func TestNewKernelValidation(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		weights []float64
		wantErr bool
	}{
		{"1x1", 1, []float64{1}, false},
		{"3x3", 3, make([]float64, 9), false},
		{"even size", 2, make([]float64, 4), true},
		{"zero size", 0, nil, true},
		{"short weights", 3, make([]float64, 8), true},
		{"long weights", 3, make([]float64, 10), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewKernel(tt.size, tt.weights)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidKernel) {
					t.Errorf("NewKernel(%d) err = %v, want ErrInvalidKernel", tt.size, err)
				}
				return
			}
			if err != nil {
				t.Errorf("NewKernel(%d) unexpected error: %v", tt.size, err)
			}
		})
	}
}

func TestNewKernelCopiesWeights(t *testing.T) {
	w := []float64{0, 0, 0, 0, 1, 0, 0, 0, 0}
	k, err := NewKernel(3, w)
	if err != nil {
		t.Fatal(err)
	}
	w[4] = 7
	if k.At(1, 1) != 1 {
		t.Errorf("kernel changed with caller slice: At(1,1) = %v", k.At(1, 1))
	}
}

func TestKernelFromRows(t *testing.T) {
	k, err := KernelFromRows([][]float64{{0, 0, 0}, {0, 1, 0}, {0, 0, 0}})
	if err != nil {
		t.Fatal(err)
	}
	if !k.IsIdentity() {
		t.Error("expected identity kernel")
	}

	if _, err := KernelFromRows([][]float64{{0, 0, 0}, {0, 1}, {0, 0, 0}}); !errors.Is(err, ErrInvalidKernel) {
		t.Errorf("ragged rows err = %v, want ErrInvalidKernel", err)
	}
}

func TestSharpenKernel(t *testing.T) {
	tests := []struct {
		amount     float64
		wantCenter float64
		wantEdge   float64
	}{
		{0, 1, 0},
		{50, 3, -0.5},
		{100, 5, -1},
		{150, 5, -1}, // clamped
		{-10, 1, 0},  // clamped
	}

	for _, tt := range tests {
		k := SharpenKernel(tt.amount)
		if got := k.At(1, 1); math.Abs(got-tt.wantCenter) > 1e-12 {
			t.Errorf("SharpenKernel(%v) centre = %v, want %v", tt.amount, got, tt.wantCenter)
		}
		for _, pos := range [][2]int{{0, 1}, {1, 0}, {1, 2}, {2, 1}} {
			if got := k.At(pos[0], pos[1]); math.Abs(got-tt.wantEdge) > 1e-12 {
				t.Errorf("SharpenKernel(%v) At%v = %v, want %v", tt.amount, pos, got, tt.wantEdge)
			}
		}
		for _, pos := range [][2]int{{0, 0}, {0, 2}, {2, 0}, {2, 2}} {
			if got := k.At(pos[0], pos[1]); got != 0 {
				t.Errorf("SharpenKernel(%v) corner At%v = %v, want 0", tt.amount, pos, got)
			}
		}

		sum := 0.0
		for ky := range k.Size() {
			for kx := range k.Size() {
				sum += k.At(ky, kx)
			}
		}
		if math.Abs(sum-1) > 1e-12 {
			t.Errorf("SharpenKernel(%v) sum = %v, want 1", tt.amount, sum)
		}
	}
}

func TestEnhanceKernel(t *testing.T) {
	want := []float64{0, -1, 0, -1, 5, -1, 0, -1, 0}
	k := EnhanceKernel()
	for i := range want {
		if got := k.At(i/3, i%3); got != want[i] {
			t.Fatalf("EnhanceKernel At(%d,%d) = %v, want %v", i/3, i%3, got, want[i])
		}
	}
}

func TestGaussianKernelZeroSigma(t *testing.T) {
	for _, sigma := range []float64{0, -5} {
		kernel := GaussianKernel(sigma)
		if len(kernel) != 1 || kernel[0] != 1.0 {
			t.Errorf("GaussianKernel(%v) = %v, want [1]", sigma, kernel)
		}
	}
}

func TestGaussianKernelNormalized(t *testing.T) {
	for _, sigma := range []float64{1, 2, 3, 5, 10, 20} {
		kernel := GaussianKernel(sigma)

		var sum float32
		for _, v := range kernel {
			sum += v
		}

		if math.Abs(float64(sum)-1.0) > 0.001 {
			t.Errorf("GaussianKernel(%v) sum = %v, want ~1.0", sigma, sum)
		}
	}
}

func TestGaussianKernelSymmetric(t *testing.T) {
	kernel := GaussianKernel(5)
	n := len(kernel)

	for i := 0; i < n/2; i++ {
		j := n - 1 - i
		if math.Abs(float64(kernel[i]-kernel[j])) > 0.0001 {
			t.Errorf("kernel[%d] = %v != kernel[%d] = %v (asymmetric)", i, kernel[i], j, kernel[j])
		}
	}
}

func TestGaussianKernelSize(t *testing.T) {
	tests := []struct {
		sigma    float64
		wantSize int
	}{
		{0.5, 5},   // ceil(0.5*3)*2+1
		{1.0, 7},   // ceil(1*3)*2+1
		{2.0, 13},  // ceil(2*3)*2+1
		{5.0, 31},  // ceil(5*3)*2+1
		{10.0, 61}, // ceil(10*3)*2+1
	}

	for _, tt := range tests {
		kernel := GaussianKernel(tt.sigma)
		if len(kernel) != tt.wantSize {
			t.Errorf("GaussianKernel(%v) len = %d, want %d", tt.sigma, len(kernel), tt.wantSize)
		}
	}
}

func TestCachedGaussianKernel(t *testing.T) {
	kernel1 := CachedGaussianKernel(5.0)
	kernel2 := CachedGaussianKernel(5.0)

	if len(kernel1) != len(kernel2) {
		t.Fatalf("cached kernel len mismatch: %d != %d", len(kernel1), len(kernel2))
	}
	for i := range kernel1 {
		if kernel1[i] != kernel2[i] {
			t.Errorf("cached kernel[%d] mismatch: %v != %v", i, kernel1[i], kernel2[i])
		}
	}

	if len(CachedGaussianKernel(10.0)) == len(kernel1) {
		t.Error("different sigmas should produce different kernel sizes")
	}
}

func TestCachedGaussianKernelBounded(t *testing.T) {
	for i := 1; i <= 100; i++ {
		_ = CachedGaussianKernel(float64(i) / 10)
	}
	if st := KernelCacheStats(); st.Len > st.Capacity {
		t.Errorf("cache holds %d entries, capacity %d", st.Len, st.Capacity)
	}
}

func BenchmarkCachedGaussianKernel(b *testing.B) {
	for _, sigma := range []float64{1, 5, 10, 20} {
		b.Run(fmt.Sprintf("sigma=%v", sigma), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = CachedGaussianKernel(sigma)
			}
		})
	}
}
