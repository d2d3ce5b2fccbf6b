// Package raster provides the immutable RGBA8 image value that every retouch
// operation consumes and produces, together with the decode/encode boundary and
// the normalized-to-pixel coordinate mapping.
//
// Pixel data is stored straight (non-premultiplied) RGBA, 4 bytes per pixel,
// row-major without padding. An Image never changes after construction: every
// editing operation allocates a new buffer and wraps it in a new Image.
package raster

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
)

// Common errors for image construction.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("raster: invalid dimensions")

	// ErrDataSize is returned when a pixel buffer length does not match width*height*4.
	ErrDataSize = errors.New("raster: pixel data size mismatch")
)

// BytesPerPixel is the size of one RGBA8 pixel.
const BytesPerPixel = 4

// Image is an immutable width x height grid of RGBA8 pixels.
//
// Image is safe for concurrent read access. The zero value is not usable;
// construct images with New, FromPixels, Wrap or FromStdImage.
type Image struct {
	width  int
	height int
	data   []byte
}

// New creates a fully transparent image with the given dimensions.
// Dimensions above MaxPixels return ErrTooLarge.
func New(width, height int) (*Image, error) {
	if err := CheckSize(width, height, 0); err != nil {
		return nil, err
	}
	return &Image{
		width:  width,
		height: height,
		data:   make([]byte, width*height*BytesPerPixel),
	}, nil
}

// FromPixels creates an image from a copy of pix.
// The caller keeps ownership of pix and may reuse it after this call.
func FromPixels(width, height int, pix []byte) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if len(pix) != width*height*BytesPerPixel {
		return nil, ErrDataSize
	}
	data := make([]byte, len(pix))
	copy(data, pix)
	return &Image{width: width, height: height, data: data}, nil
}

// Wrap creates an image that takes ownership of pix without copying.
// The caller must not read or write pix after this call; operations use it to
// publish a buffer they have just computed.
//
// Wrap panics if the dimensions do not describe pix, since that is always a
// programming error inside an operation.
func Wrap(width, height int, pix []byte) *Image {
	if width <= 0 || height <= 0 || len(pix) != width*height*BytesPerPixel {
		panic("raster: Wrap called with mismatched dimensions")
	}
	return &Image{width: width, height: height, data: pix}
}

// Width returns the image width in pixels.
func (m *Image) Width() int {
	return m.width
}

// Height returns the image height in pixels.
func (m *Image) Height() int {
	return m.height
}

// Stride returns the number of bytes per row.
func (m *Image) Stride() int {
	return m.width * BytesPerPixel
}

// Size returns the image dimensions as (width, height).
func (m *Image) Size() (int, int) {
	return m.width, m.height
}

// Data returns the underlying pixel buffer.
// The returned slice is a read-only view and must not be modified.
func (m *Image) Data() []byte {
	return m.data
}

// Pix returns a copy of the pixel buffer that the caller may modify freely.
func (m *Image) Pix() []byte {
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out
}

// Offset returns the byte offset of pixel (x, y), or -1 if it is out of bounds.
func (m *Image) Offset(x, y int) int {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return -1
	}
	return (y*m.width + x) * BytesPerPixel
}

// RGBA returns the channels of pixel (x, y).
// Out-of-bounds coordinates return (0, 0, 0, 0).
func (m *Image) RGBA(x, y int) (r, g, b, a uint8) {
	i := m.Offset(x, y)
	if i < 0 {
		return 0, 0, 0, 0
	}
	return m.data[i], m.data[i+1], m.data[i+2], m.data[i+3]
}

// Contains reports whether (x, y) lies inside the image.
func (m *Image) Contains(x, y int) bool {
	return x >= 0 && x < m.width && y >= 0 && y < m.height
}

// Equal reports whether two images have identical dimensions and pixels.
func (m *Image) Equal(other *Image) bool {
	if m == nil || other == nil {
		return m == other
	}
	return m.width == other.width &&
		m.height == other.height &&
		bytes.Equal(m.data, other.data)
}

// Clone returns a deep copy of the image.
func (m *Image) Clone() *Image {
	return &Image{width: m.width, height: m.height, data: m.Pix()}
}

// ToNRGBA returns a standard library view of a copy of the image.
func (m *Image) ToNRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    m.Pix(),
		Stride: m.Stride(),
		Rect:   image.Rect(0, 0, m.width, m.height),
	}
}

// At implements the image.Image interface.
func (m *Image) At(x, y int) color.Color {
	r, g, b, a := m.RGBA(x, y)
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

// Bounds implements the image.Image interface.
func (m *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.width, m.height)
}

// ColorModel implements the image.Image interface.
func (m *Image) ColorModel() color.Model {
	return color.NRGBAModel
}

// FromStdImage converts any standard library image into an Image.
// Straight-alpha sources are copied byte for byte; everything else goes
// through color.NRGBAModel.
func FromStdImage(img image.Image) (*Image, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if err := CheckSize(width, height, 0); err != nil {
		return nil, err
	}

	data := make([]byte, width*height*BytesPerPixel)
	rowBytes := width * BytesPerPixel

	switch src := img.(type) {
	case *image.NRGBA:
		for y := range height {
			start := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(data[y*rowBytes:(y+1)*rowBytes], src.Pix[start:start+rowBytes])
		}
	case *image.RGBA:
		// Premultiplied with full alpha is already straight; convert the rest.
		for y := range height {
			start := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			row := src.Pix[start : start+rowBytes]
			dst := data[y*rowBytes : (y+1)*rowBytes]
			for x := 0; x < rowBytes; x += 4 {
				a := row[x+3]
				switch a {
				case 255:
					copy(dst[x:x+4], row[x:x+4])
				case 0:
					// fully transparent stays zero
				default:
					c := color.NRGBAModel.Convert(color.RGBA{R: row[x], G: row[x+1], B: row[x+2], A: a}).(color.NRGBA)
					dst[x], dst[x+1], dst[x+2], dst[x+3] = c.R, c.G, c.B, c.A
				}
			}
		}
	default:
		nrgba := image.NewNRGBA(image.Rect(0, 0, width, height))
		draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)
		copy(data, nrgba.Pix)
	}

	return &Image{width: width, height: height, data: data}, nil
}
