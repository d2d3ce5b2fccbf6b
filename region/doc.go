// Package region implements the destructive, pixel-space edits of a photo:
// clone stamping, red-eye correction, cropping and baking text stickers.
//
// Every function takes an immutable *raster.Image and returns a new one.
// Coordinates are in pixels; callers holding normalized [0,1] points convert
// them with raster.ToPixel first.
package region

import "errors"

// ErrInvalidRegion is returned when a requested region is empty or lies
// entirely outside the image.
var ErrInvalidRegion = errors.New("region: invalid region")
