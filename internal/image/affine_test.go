package image

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestAffinePoints(t *testing.T) {
	tests := []struct {
		name       string
		m          Affine
		inX, inY   float64
		outX, outY float64
	}{
		{"identity", Identity(), 10, 20, 10, 20},
		{"translate", Translate(3, -4), 2, 8, 5, 4},
		{"scale", Scale(2, 0.5), 3, 8, 6, 4},
		// y points down, so +90 degrees takes +x to +y (clockwise on screen).
		{"rotate 90", Rotate(math.Pi / 2), 1, 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := tt.m.TransformPoint(tt.inX, tt.inY)
			if !near(x, tt.outX) || !near(y, tt.outY) {
				t.Errorf("TransformPoint(%v, %v) = (%v, %v), want (%v, %v)", tt.inX, tt.inY, x, y, tt.outX, tt.outY)
			}
		})
	}
}

func TestAffineMultiplyOrder(t *testing.T) {
	// Scale first, then translate.
	m := Translate(10, 0).Multiply(Scale(2, 2))
	x, y := m.TransformPoint(1, 1)
	if !near(x, 12) || !near(y, 2) {
		t.Errorf("got (%v, %v), want (12, 2)", x, y)
	}
}

func TestAffineInvert(t *testing.T) {
	m := Centered(40, 30, 60, 45, 33, 1.5)
	inv, ok := m.Invert()
	if !ok {
		t.Fatal("Invert failed on a regular matrix")
	}
	x, y := m.TransformPoint(7, 11)
	bx, by := inv.TransformPoint(x, y)
	if !near(bx, 7) || !near(by, 11) {
		t.Errorf("round trip = (%v, %v), want (7, 11)", bx, by)
	}

	if _, ok := Scale(0, 1).Invert(); ok {
		t.Error("singular matrix inverted")
	}
}

func TestCenteredMapsCentre(t *testing.T) {
	m := Centered(40, 30, 80, 60, 127, 2)
	x, y := m.TransformPoint(20, 15)
	if !near(x, 40) || !near(y, 30) {
		t.Errorf("source centre -> (%v, %v), want (40, 30)", x, y)
	}
	if !Centered(40, 30, 40, 30, 0, 1).IsIdentity() {
		t.Error("Centered with no rotation or scale should be identity")
	}
}
