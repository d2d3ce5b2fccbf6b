// Package filter implements the pixel-level engines behind retouch edits:
//   - square-kernel convolution (sharpen, enhance) with absent out-of-bounds samples
//   - 4x5 colour matrices following the CSS filter-function formulas
//     (brightness, contrast, saturate, grayscale, sepia, hue-rotate)
//   - separable Gaussian blur
//
// Every function reads an immutable *raster.Image and returns a new one.
// Rows are processed in bands on the internal/parallel worker pool; the
// output does not depend on how rows are scheduled.
package filter
