package filter

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/retouch/internal/cache"
)

// ErrInvalidKernel is returned for kernels that are not square with an odd size.
var ErrInvalidKernel = errors.New("filter: kernel must be square with odd size")

// Kernel is a square convolution matrix with an odd side length, stored
// row-major. Kernels are built with NewKernel or KernelFromRows; the zero
// Kernel has no weights and convolves as the identity.
type Kernel struct {
	size    int
	weights []float64
}

// NewKernel validates and copies a size x size row-major weight matrix.
func NewKernel(size int, weights []float64) (Kernel, error) {
	if size <= 0 || size%2 == 0 {
		return Kernel{}, fmt.Errorf("%w: size %d", ErrInvalidKernel, size)
	}
	if len(weights) != size*size {
		return Kernel{}, fmt.Errorf("%w: %d weights for size %d", ErrInvalidKernel, len(weights), size)
	}
	w := make([]float64, len(weights))
	copy(w, weights)
	return Kernel{size: size, weights: w}, nil
}

// KernelFromRows builds a kernel from a matrix given as rows.
func KernelFromRows(rows [][]float64) (Kernel, error) {
	n := len(rows)
	flat := make([]float64, 0, n*n)
	for _, row := range rows {
		if len(row) != n {
			return Kernel{}, fmt.Errorf("%w: row of %d weights in %dx%d matrix", ErrInvalidKernel, len(row), n, n)
		}
		flat = append(flat, row...)
	}
	return NewKernel(n, flat)
}

// mustKernel is used for the built-in kernels, which are valid by construction.
func mustKernel(size int, weights []float64) Kernel {
	k, err := NewKernel(size, weights)
	if err != nil {
		panic(err)
	}
	return k
}

// Size returns the side length of the kernel.
func (k Kernel) Size() int {
	return k.size
}

// Center returns the index of the centre row and column.
func (k Kernel) Center() int {
	return k.size / 2
}

// At returns the weight at row ky, column kx.
func (k Kernel) At(ky, kx int) float64 {
	return k.weights[ky*k.size+kx]
}

// IsIdentity reports whether the kernel has a single 1 at its centre.
func (k Kernel) IsIdentity() bool {
	c := k.Center()*k.size + k.Center()
	for i, w := range k.weights {
		if (i == c && w != 1) || (i != c && w != 0) {
			return false
		}
	}
	return k.size > 0
}

// SharpenKernel returns the 3x3 unsharp kernel for an amount in [0,100]:
//
//	[   0  -k/100      0   ]
//	[-k/100 1+4k/100 -k/100]
//	[   0  -k/100      0   ]
//
// Amounts outside [0,100] are clamped.
func SharpenKernel(amount float64) Kernel {
	k := math.Max(0, math.Min(100, amount)) / 100
	return mustKernel(3, []float64{
		0, -k, 0,
		-k, 1 + 4*k, -k,
		0, -k, 0,
	})
}

// EnhanceKernel returns the fixed strong sharpening kernel used by the
// built-in quality improvement.
func EnhanceKernel() Kernel {
	return mustKernel(3, []float64{
		0, -1, 0,
		-1, 5, -1,
		0, -1, 0,
	})
}

// GaussianKernel generates a normalized 1D Gaussian kernel with standard
// deviation sigma, sized 2*ceil(3*sigma)+1. For sigma <= 0 it returns [1].
func GaussianKernel(sigma float64) []float32 {
	if sigma <= 0 {
		return []float32{1.0}
	}

	halfSize := int(math.Ceil(sigma * 3))
	size := halfSize*2 + 1
	kernel := make([]float32, size)

	twoSigmaSq := 2 * sigma * sigma
	sum := 0.0
	for i := range size {
		x := float64(i - halfSize)
		val := math.Exp(-(x * x) / twoSigmaSq)
		kernel[i] = float32(val)
		sum += val
	}

	invSum := float32(1.0 / sum)
	for i := range kernel {
		kernel[i] *= invSum
	}
	return kernel
}

// gaussianCache holds Gaussian kernels keyed by sigma quantized to 0.01.
var gaussianCache = cache.New[int, []float32](64)

// CachedGaussianKernel returns a shared Gaussian kernel for sigma.
// The returned slice must not be modified.
func CachedGaussianKernel(sigma float64) []float32 {
	key := int(sigma * 100)
	return gaussianCache.GetOrCreate(key, func() []float32 {
		return GaussianKernel(float64(key) / 100)
	})
}

// KernelCacheStats reports the Gaussian kernel cache counters.
func KernelCacheStats() cache.Stats {
	return gaussianCache.Stats()
}
