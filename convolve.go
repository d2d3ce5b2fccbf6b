package retouch

import (
	"github.com/gogpu/retouch/internal/filter"
	"github.com/gogpu/retouch/raster"
)

// Kernel is a square convolution matrix with an odd side length.
type Kernel = filter.Kernel

// ErrInvalidKernel is returned for kernels that are not square with an odd
// size.
var ErrInvalidKernel = filter.ErrInvalidKernel

// NewKernel validates and copies a size x size row-major weight matrix.
func NewKernel(size int, weights []float64) (Kernel, error) {
	return filter.NewKernel(size, weights)
}

// KernelFromRows builds a kernel from a square matrix given as rows.
func KernelFromRows(rows [][]float64) (Kernel, error) {
	return filter.KernelFromRows(rows)
}

// Convolve applies k to the colour channels of img. Samples outside the
// image do not contribute; alpha is copied unchanged. An identity kernel,
// or the zero Kernel, returns a copy of img.
func Convolve(img *raster.Image, k Kernel) *raster.Image {
	return filter.Convolve(img, k)
}

// Sharpen applies the unsharp kernel for an amount in [0,100]. Amounts
// <= 0 return a copy of img.
func Sharpen(img *raster.Image, amount float64) *raster.Image {
	return filter.Sharpen(img, amount)
}
