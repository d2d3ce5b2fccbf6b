package pipeline

import (
	"context"

	"github.com/gogpu/retouch/internal/filter"
	rimage "github.com/gogpu/retouch/internal/image"
	"github.com/gogpu/retouch/raster"
)

// Render applies s to img and returns the result. The input is never
// modified; identity settings return a byte-identical copy.
func Render(img *raster.Image, s Settings) *raster.Image {
	out, _ := RenderContext(context.Background(), img, s)
	return out
}

// RenderContext is Render with cancellation checked between stages.
func RenderContext(ctx context.Context, img *raster.Image, s Settings) (*raster.Image, error) {
	s = s.Normalize()
	out := img

	stages := []func(*raster.Image) *raster.Image{
		func(m *raster.Image) *raster.Image {
			if !s.hasColor() {
				return m
			}
			return filter.ApplyColorMatrices(m, colorMatrices(s)...)
		},
		func(m *raster.Image) *raster.Image {
			if s.Blur == 0 {
				return m
			}
			return filter.Blur(m, s.Blur)
		},
		func(m *raster.Image) *raster.Image {
			if !s.hasHue() {
				return m
			}
			return filter.ApplyColorMatrices(m, filter.HueRotate(s.HueRotate))
		},
		func(m *raster.Image) *raster.Image {
			if !s.hasTransform() {
				return m
			}
			return rimage.RotateScale(m, s.Rotate, s.Scale)
		},
		func(m *raster.Image) *raster.Image {
			if s.Sharpen == 0 {
				return m
			}
			return filter.Sharpen(m, s.Sharpen)
		},
	}

	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = stage(out)
	}

	if out == img {
		return img.Clone(), nil
	}
	return out, nil
}

// colorMatrices returns the colour stage in its fixed order, omitting
// neutral steps.
func colorMatrices(s Settings) []filter.ColorMatrix {
	ms := make([]filter.ColorMatrix, 0, 5)
	if s.Brightness != 100 {
		ms = append(ms, filter.Brightness(s.Brightness))
	}
	if s.Contrast != 100 {
		ms = append(ms, filter.Contrast(s.Contrast))
	}
	if s.Saturation != 100 {
		ms = append(ms, filter.Saturate(s.Saturation))
	}
	if s.Grayscale != 0 {
		ms = append(ms, filter.Grayscale(s.Grayscale))
	}
	if s.Sepia != 0 {
		ms = append(ms, filter.Sepia(s.Sepia))
	}
	return ms
}

// Preview renders s on a copy of img downsampled so that neither side
// exceeds maxDim. Blur is scaled with the image so the preview matches the
// full-size look. maxDim <= 0 renders at full size.
func Preview(img *raster.Image, s Settings, maxDim int) *raster.Image {
	small := rimage.Fit(img, maxDim, rimage.QualityFast)
	if small != img {
		s.Blur *= float64(small.Width()) / float64(img.Width())
	}
	return Render(small, s)
}
