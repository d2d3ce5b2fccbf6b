package filter

import (
	"math"

	"github.com/gogpu/retouch/internal/parallel"
	"github.com/gogpu/retouch/raster"
)

// ColorMatrix is a 4x5 colour transformation in row-major order:
//
//	[R']   [m0  m1  m2  m3  m4 ]   [R]
//	[G'] = [m5  m6  m7  m8  m9 ] * [G]
//	[B']   [m10 m11 m12 m13 m14]   [B]
//	[A']   [m15 m16 m17 m18 m19]   [A]
//	                               [1]
//
// Channels are straight-alpha values in [0,255]; the fifth column is an
// offset in the same range.
type ColorMatrix [20]float64

// IdentityMatrix leaves every pixel unchanged.
func IdentityMatrix() ColorMatrix {
	return ColorMatrix{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// IsIdentity reports whether m is exactly the identity.
func (m ColorMatrix) IsIdentity() bool {
	return m == IdentityMatrix()
}

// Brightness scales RGB linearly. percent 100 is unchanged, 0 is black.
func Brightness(percent float64) ColorMatrix {
	s := math.Max(0, percent) / 100
	return ColorMatrix{
		s, 0, 0, 0, 0,
		0, s, 0, 0, 0,
		0, 0, s, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Contrast scales RGB around mid-grey. percent 100 is unchanged, 0 is flat grey.
func Contrast(percent float64) ColorMatrix {
	c := math.Max(0, percent) / 100
	off := 255 * (0.5 - 0.5*c)
	return ColorMatrix{
		c, 0, 0, 0, off,
		0, c, 0, 0, off,
		0, 0, c, 0, off,
		0, 0, 0, 1, 0,
	}
}

// Saturate scales chroma. percent 100 is unchanged, 0 is fully desaturated and
// values above 100 oversaturate.
func Saturate(percent float64) ColorMatrix {
	s := math.Max(0, percent) / 100
	return ColorMatrix{
		0.213 + 0.787*s, 0.715 - 0.715*s, 0.072 - 0.072*s, 0, 0,
		0.213 - 0.213*s, 0.715 + 0.285*s, 0.072 - 0.072*s, 0, 0,
		0.213 - 0.213*s, 0.715 - 0.715*s, 0.072 + 0.928*s, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Grayscale converts towards Rec. 709 luma. percent is clamped to [0,100].
func Grayscale(percent float64) ColorMatrix {
	a := 1 - clampUnit(percent/100)
	return ColorMatrix{
		0.2126 + 0.7874*a, 0.7152 - 0.7152*a, 0.0722 - 0.0722*a, 0, 0,
		0.2126 - 0.2126*a, 0.7152 + 0.2848*a, 0.0722 - 0.0722*a, 0, 0,
		0.2126 - 0.2126*a, 0.7152 - 0.7152*a, 0.0722 + 0.9278*a, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Sepia blends towards a sepia tone. percent is clamped to [0,100].
func Sepia(percent float64) ColorMatrix {
	a := 1 - clampUnit(percent/100)
	return ColorMatrix{
		0.393 + 0.607*a, 0.769 - 0.769*a, 0.189 - 0.189*a, 0, 0,
		0.349 - 0.349*a, 0.686 + 0.314*a, 0.168 - 0.168*a, 0, 0,
		0.272 - 0.272*a, 0.534 - 0.534*a, 0.131 + 0.869*a, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// HueRotate rotates hue by the given angle in degrees.
func HueRotate(degrees float64) ColorMatrix {
	if math.Mod(degrees, 360) == 0 {
		return IdentityMatrix()
	}
	rad := degrees * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	return ColorMatrix{
		0.213 + cos*0.787 - sin*0.213, 0.715 - cos*0.715 - sin*0.715, 0.072 - cos*0.072 + sin*0.928, 0, 0,
		0.213 - cos*0.213 + sin*0.143, 0.715 + cos*0.285 + sin*0.140, 0.072 - cos*0.072 - sin*0.283, 0, 0,
		0.213 - cos*0.213 - sin*0.787, 0.715 - cos*0.715 + sin*0.715, 0.072 + cos*0.928 + sin*0.072, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// transform applies m to one straight-alpha pixel and clamps the result.
func (m *ColorMatrix) transform(r, g, b, a float64) (float64, float64, float64, float64) {
	nr := m[0]*r + m[1]*g + m[2]*b + m[3]*a + m[4]
	ng := m[5]*r + m[6]*g + m[7]*b + m[8]*a + m[9]
	nb := m[10]*r + m[11]*g + m[12]*b + m[13]*a + m[14]
	na := m[15]*r + m[16]*g + m[17]*b + m[18]*a + m[19]
	return clamp255(nr), clamp255(ng), clamp255(nb), clamp255(na)
}

// ApplyColorMatrices runs the matrices over every pixel in order. Results are
// clamped to [0,255] after each matrix, as a chain of separate filter
// primitives would, and rounded once at the end. Identity matrices are
// skipped; if all are identity the result is a copy of img.
func ApplyColorMatrices(img *raster.Image, matrices ...ColorMatrix) *raster.Image {
	active := make([]ColorMatrix, 0, len(matrices))
	for _, m := range matrices {
		if !m.IsIdentity() {
			active = append(active, m)
		}
	}
	if len(active) == 0 {
		return img.Clone()
	}

	width, height := img.Size()
	src := img.Data()
	dst := make([]byte, len(src))

	parallel.Rows(height, func(y0, y1 int) {
		for i := y0 * width * 4; i < y1*width*4; i += 4 {
			r := float64(src[i])
			g := float64(src[i+1])
			b := float64(src[i+2])
			a := float64(src[i+3])
			for j := range active {
				r, g, b, a = active[j].transform(r, g, b, a)
			}
			dst[i] = roundByte(r)
			dst[i+1] = roundByte(g)
			dst[i+2] = roundByte(b)
			dst[i+3] = roundByte(a)
		}
	})

	return raster.Wrap(width, height, dst)
}

func clamp255(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

func clampUnit(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// roundByte rounds a value already clamped to [0,255].
func roundByte(v float64) uint8 {
	return uint8(v + 0.5)
}
