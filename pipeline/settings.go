// Package pipeline renders the non-destructive adjustments of an edit
// session onto an image.
//
// Render applies a fixed stage order: the colour stage (brightness,
// contrast, saturate, grayscale, sepia), Gaussian blur, hue rotation, the
// rotate/scale transform about the image centre, and finally sharpening.
package pipeline

import "math"

// Settings are the live, non-destructive adjustments of a session.
// Percentages use 100 as neutral for Brightness, Contrast and Saturation,
// and 0 as neutral for Grayscale and Sepia.
type Settings struct {
	Brightness float64 `json:"brightness" yaml:"brightness"`
	Contrast   float64 `json:"contrast" yaml:"contrast"`
	Saturation float64 `json:"saturation" yaml:"saturation"`
	Grayscale  float64 `json:"grayscale" yaml:"grayscale"`
	Sepia      float64 `json:"sepia" yaml:"sepia"`
	Blur       float64 `json:"blur" yaml:"blur"`           // Gaussian standard deviation, px
	HueRotate  float64 `json:"hueRotate" yaml:"hueRotate"` // degrees
	Rotate     float64 `json:"rotate" yaml:"rotate"`       // degrees clockwise
	Scale      float64 `json:"scale" yaml:"scale"`
	Sharpen    float64 `json:"sharpen" yaml:"sharpen"`
}

// Domain limits applied by Normalize.
const (
	MaxPercent = 200 // brightness, contrast, saturation
	MaxBlur    = 100
	MinScale   = 0.5
	MaxScale   = 2.0
	MaxSharpen = 100
)

// Defaults returns the identity settings.
func Defaults() Settings {
	return Settings{
		Brightness: 100,
		Contrast:   100,
		Saturation: 100,
		Scale:      1,
	}
}

// Normalize clamps every field into its domain and folds Rotate into
// [0,360). Non-finite values fall back to the neutral value of the field.
func (s Settings) Normalize() Settings {
	d := Defaults()
	s.Brightness = clampOr(s.Brightness, 0, MaxPercent, d.Brightness)
	s.Contrast = clampOr(s.Contrast, 0, MaxPercent, d.Contrast)
	s.Saturation = clampOr(s.Saturation, 0, MaxPercent, d.Saturation)
	s.Grayscale = clampOr(s.Grayscale, 0, 100, 0)
	s.Sepia = clampOr(s.Sepia, 0, 100, 0)
	s.Blur = clampOr(s.Blur, 0, MaxBlur, 0)
	s.Scale = clampOr(s.Scale, MinScale, MaxScale, d.Scale)
	s.Sharpen = clampOr(s.Sharpen, 0, MaxSharpen, 0)

	if !finite(s.HueRotate) {
		s.HueRotate = 0
	}
	if !finite(s.Rotate) {
		s.Rotate = 0
	}
	s.Rotate = math.Mod(s.Rotate, 360)
	if s.Rotate < 0 {
		s.Rotate += 360
	}
	return s
}

// IsIdentity reports whether rendering with s leaves an image unchanged.
func (s Settings) IsIdentity() bool {
	n := s.Normalize()
	return !n.hasColor() && n.Blur == 0 && !n.hasHue() && !n.hasTransform() && n.Sharpen == 0
}

func (s Settings) hasColor() bool {
	return s.Brightness != 100 || s.Contrast != 100 || s.Saturation != 100 || s.Grayscale != 0 || s.Sepia != 0
}

func (s Settings) hasHue() bool {
	return math.Mod(s.HueRotate, 360) != 0
}

func (s Settings) hasTransform() bool {
	return s.Rotate != 0 || s.Scale != 1
}

func clampOr(v, lo, hi, fallback float64) float64 {
	if !finite(v) {
		return fallback
	}
	return math.Max(lo, math.Min(hi, v))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
