package raster

import "math"

// Point is a 2D coordinate. Depending on context it is either normalized
// ([0,1] relative to the displayed image) or in pixel space.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// ToPixel converts a normalized point to pixel space for an image of the
// given size. Values outside [0,1] are passed through unclamped so callers
// can detect clicks that miss the image.
func ToPixel(p Point, width, height int) Point {
	return Point{X: p.X * float64(width), Y: p.Y * float64(height)}
}

// ToNormalized converts a pixel-space point back to normalized coordinates.
// A zero-sized image maps every point to the origin.
func ToNormalized(p Point, width, height int) Point {
	if width <= 0 || height <= 0 {
		return Point{}
	}
	return Point{X: p.X / float64(width), Y: p.Y / float64(height)}
}

// Clamp01 limits both coordinates to [0,1].
func (p Point) Clamp01() Point {
	return Point{X: clamp01(p.X), Y: clamp01(p.Y)}
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
