// Package image holds the geometric stage of the retouch pipeline: affine
// matrices, pixel sampling, the centred rotate/scale transform and
// resampling to new dimensions.
package image

import (
	"math"
)

// Affine is a 2D affine transformation in pixel space:
//
//	| a  b  c |
//	| d  e  f |
//	| 0  0  1 |
//
// The y axis points down, so a positive rotation angle turns the image
// clockwise on screen.
type Affine struct {
	a, b, c float64 // x' = ax + by + c
	d, e, f float64 // y' = dx + ey + f
}

// Identity returns the identity transformation.
func Identity() Affine {
	return Affine{a: 1, e: 1}
}

// Translate returns a translation by (tx, ty).
func Translate(tx, ty float64) Affine {
	return Affine{a: 1, c: tx, e: 1, f: ty}
}

// Scale returns a scale by (sx, sy) about the origin.
func Scale(sx, sy float64) Affine {
	return Affine{a: sx, e: sy}
}

// Rotate returns a rotation by angle radians about the origin.
func Rotate(angle float64) Affine {
	sin, cos := math.Sincos(angle)
	return Affine{
		a: cos, b: -sin,
		d: sin, e: cos,
	}
}

// Multiply returns a*other, the transform that applies other first and then a.
func (a Affine) Multiply(other Affine) Affine {
	return Affine{
		a: a.a*other.a + a.b*other.d,
		b: a.a*other.b + a.b*other.e,
		c: a.a*other.c + a.b*other.f + a.c,
		d: a.d*other.a + a.e*other.d,
		e: a.d*other.b + a.e*other.e,
		f: a.d*other.c + a.e*other.f + a.f,
	}
}

// Invert returns the inverse transformation, or false if a is singular.
func (a Affine) Invert() (Affine, bool) {
	det := a.a*a.e - a.b*a.d
	if math.Abs(det) < 1e-10 {
		return Affine{}, false
	}
	inv := 1.0 / det
	return Affine{
		a: a.e * inv,
		b: -a.b * inv,
		c: (a.b*a.f - a.c*a.e) * inv,
		d: -a.d * inv,
		e: a.a * inv,
		f: (a.c*a.d - a.a*a.f) * inv,
	}, true
}

// TransformPoint maps (x, y) through a.
func (a Affine) TransformPoint(x, y float64) (float64, float64) {
	return a.a*x + a.b*y + a.c, a.d*x + a.e*y + a.f
}

// IsIdentity reports whether a is exactly the identity.
func (a Affine) IsIdentity() bool {
	return a == Identity()
}

// Centered maps a srcW x srcH image onto a dstW x dstH canvas: the source
// centre lands on the canvas centre, then the image is rotated clockwise by
// degrees and scaled uniformly by scale about that point.
func Centered(srcW, srcH, dstW, dstH int, degrees, scale float64) Affine {
	return Translate(float64(dstW)/2, float64(dstH)/2).
		Multiply(Rotate(degrees * math.Pi / 180)).
		Multiply(Scale(scale, scale)).
		Multiply(Translate(-float64(srcW)/2, -float64(srcH)/2))
}
