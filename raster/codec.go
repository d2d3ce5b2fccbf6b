package raster

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// Codec errors.
var (
	// ErrDecode is matched by every decode failure (see DecodeError).
	ErrDecode = errors.New("raster: decode failed")

	// ErrUnsupportedFormat is returned when a format cannot be decoded or encoded.
	ErrUnsupportedFormat = errors.New("raster: unsupported format")

	// ErrEmptyData is returned when there are no bytes to decode.
	ErrEmptyData = errors.New("raster: empty data")
)

// Format identifies an encoded image container.
type Format uint8

const (
	// FormatAuto sniffs the container from the data when decoding.
	// It encodes as PNG.
	FormatAuto Format = iota
	FormatPNG
	FormatJPEG
	FormatGIF
	FormatBMP
	FormatTIFF
	// FormatWebP is decode-only.
	FormatWebP
)

// String returns the short lowercase name of the format.
func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatPNG:
		return "png"
	case FormatJPEG:
		return "jpeg"
	case FormatGIF:
		return "gif"
	case FormatBMP:
		return "bmp"
	case FormatTIFF:
		return "tiff"
	case FormatWebP:
		return "webp"
	default:
		return "unknown"
	}
}

// MIMEType returns the media type for the format.
func (f Format) MIMEType() string {
	if f == FormatAuto {
		return "image/png"
	}
	return "image/" + f.String()
}

// Extension returns the canonical file extension including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	case FormatAuto:
		return ".png"
	default:
		return "." + f.String()
	}
}

// ParseFormat maps a MIME type, file extension or format name to a Format.
// An empty hint yields FormatAuto.
func ParseFormat(hint string) (Format, error) {
	h := strings.ToLower(strings.TrimSpace(hint))
	if i := strings.IndexByte(h, ';'); i >= 0 {
		h = strings.TrimSpace(h[:i])
	}
	h = strings.TrimPrefix(h, "image/")
	h = strings.TrimPrefix(h, ".")

	switch h {
	case "", "auto", "application/octet-stream":
		return FormatAuto, nil
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg", "pjpeg":
		return FormatJPEG, nil
	case "gif":
		return FormatGIF, nil
	case "bmp", "x-ms-bmp":
		return FormatBMP, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	case "webp":
		return FormatWebP, nil
	default:
		return FormatAuto, fmt.Errorf("%w: %q", ErrUnsupportedFormat, hint)
	}
}

// DecodeError describes a failed decode. It matches ErrDecode with errors.Is.
type DecodeError struct {
	Format Format
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("raster: decode %s: %v", e.Format, e.Err)
}

// Unwrap returns the underlying cause.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrDecode.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// Decode decodes data using the declared format.
// FormatAuto sniffs the container; any other format uses that decoder only,
// so data that does not match its declared format fails.
// Images larger than MaxPixels are rejected; see DecodeLimit.
func Decode(data []byte, format Format) (*Image, error) {
	return DecodeLimit(data, format, 0)
}

// DecodeLimit is like Decode but rejects images whose header declares more
// than maxPixels pixels, before any pixel data is decoded. The failure is a
// DecodeError wrapping ErrTooLarge. A maxPixels <= 0 means MaxPixels.
func DecodeLimit(data []byte, format Format, maxPixels int) (*Image, error) {
	if len(data) == 0 {
		return nil, &DecodeError{Format: format, Err: ErrEmptyData}
	}

	cfg, name, err := decodeConfig(bytes.NewReader(data), format)
	if err != nil {
		return nil, &DecodeError{Format: format, Err: err}
	}
	if format == FormatAuto {
		format, _ = ParseFormat(name)
	}
	if err := CheckSize(cfg.Width, cfg.Height, maxPixels); err != nil {
		return nil, &DecodeError{Format: format, Err: err}
	}

	img, err := decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, &DecodeError{Format: format, Err: err}
	}
	out, err := FromStdImage(img)
	if err != nil {
		return nil, &DecodeError{Format: format, Err: err}
	}
	return out, nil
}

// DecodeReader reads r to the end and decodes it with Decode.
func DecodeReader(r io.Reader, format Format) (*Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &DecodeError{Format: format, Err: err}
	}
	return Decode(data, format)
}

func decodeConfig(r io.Reader, format Format) (image.Config, string, error) {
	switch format {
	case FormatAuto:
		return image.DecodeConfig(r)
	case FormatPNG:
		cfg, err := png.DecodeConfig(r)
		return cfg, "png", err
	case FormatJPEG:
		cfg, err := jpeg.DecodeConfig(r)
		return cfg, "jpeg", err
	case FormatGIF:
		cfg, err := gif.DecodeConfig(r)
		return cfg, "gif", err
	case FormatBMP:
		cfg, err := bmp.DecodeConfig(r)
		return cfg, "bmp", err
	case FormatTIFF:
		cfg, err := tiff.DecodeConfig(r)
		return cfg, "tiff", err
	case FormatWebP:
		cfg, err := webp.DecodeConfig(r)
		return cfg, "webp", err
	default:
		return image.Config{}, "", ErrUnsupportedFormat
	}
}

func decode(r io.Reader, format Format) (image.Image, error) {
	switch format {
	case FormatPNG:
		return png.Decode(r)
	case FormatJPEG:
		return jpeg.Decode(r)
	case FormatGIF:
		return gif.Decode(r)
	case FormatBMP:
		return bmp.Decode(r)
	case FormatTIFF:
		return tiff.Decode(r)
	case FormatWebP:
		return webp.Decode(r)
	default:
		img, _, err := image.Decode(r)
		return img, err
	}
}

// EncodeOptions tunes lossy encoders. A nil *EncodeOptions uses defaults.
type EncodeOptions struct {
	// JPEGQuality is the JPEG quality in 1..100. Zero means 90.
	JPEGQuality int
}

func (o *EncodeOptions) jpegQuality() int {
	if o == nil || o.JPEGQuality == 0 {
		return 90
	}
	return max(1, min(100, o.JPEGQuality))
}

// Encode writes img to w in the given format.
// PNG (and FormatAuto) is lossless: decoding the output reproduces img exactly.
func Encode(w io.Writer, img *Image, format Format, opts *EncodeOptions) error {
	src := img.ToNRGBA()

	var err error
	switch format {
	case FormatAuto, FormatPNG:
		err = png.Encode(w, src)
	case FormatJPEG:
		err = jpeg.Encode(w, src, &jpeg.Options{Quality: opts.jpegQuality()})
	case FormatGIF:
		err = gif.Encode(w, src, nil)
	case FormatBMP:
		err = bmp.Encode(w, src)
	case FormatTIFF:
		err = tiff.Encode(w, src, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("raster: encode %s: %w", format, ErrUnsupportedFormat)
	}
	if err != nil {
		return fmt.Errorf("raster: encode %s: %w", format, err)
	}
	return nil
}

// EncodeBytes encodes img and returns the bytes.
func EncodeBytes(img *Image, format Format, opts *EncodeOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, format, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DataURI encodes img and wraps it as a base64 data URI.
func DataURI(img *Image, format Format, opts *EncodeOptions) (string, error) {
	data, err := EncodeBytes(img, format, opts)
	if err != nil {
		return "", err
	}
	return "data:" + format.MIMEType() + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
