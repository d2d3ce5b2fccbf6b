package raster

import (
	"errors"
	"fmt"
)

// MaxPixels is the largest pixel count an Image may hold: 16384 x 16384,
// or 1 GiB of RGBA8. Callers may impose a lower limit with CheckSize.
const MaxPixels = 1 << 28

// ErrTooLarge is returned when dimensions exceed a pixel limit.
var ErrTooLarge = errors.New("raster: image too large")

// CheckSize reports whether a width x height image fits within limit pixels.
// A limit <= 0, or one above MaxPixels, means MaxPixels. The check does not
// overflow for any int dimensions.
func CheckSize(width, height, limit int) error {
	if width <= 0 || height <= 0 {
		return ErrInvalidDimensions
	}
	if limit <= 0 || limit > MaxPixels {
		limit = MaxPixels
	}
	if width > limit/height {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrTooLarge, width, height, limit)
	}
	return nil
}
