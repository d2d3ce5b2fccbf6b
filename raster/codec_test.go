package raster

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"strings"
	"testing"
)

func TestPNGRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		img  *Image
	}{
		{"translucent", gradientImage(17, 9)},
		{"opaque", opaqueImage(8, 8)},
		{"single pixel", Wrap(1, 1, []byte{0, 0, 0, 0})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeBytes(tt.img, FormatPNG, nil)
			if err != nil {
				t.Fatalf("EncodeBytes() error = %v", err)
			}
			got, err := Decode(data, FormatPNG)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !got.Equal(tt.img) {
				t.Error("PNG round trip is not byte-identical")
			}
		})
	}
}

func TestDecodeAutoSniffs(t *testing.T) {
	data, err := EncodeBytes(gradientImage(4, 4), FormatPNG, nil)
	if err != nil {
		t.Fatal(err)
	}
	img, err := Decode(data, FormatAuto)
	if err != nil {
		t.Fatalf("Decode(auto) error = %v", err)
	}
	if img.Width() != 4 {
		t.Errorf("Width() = %d, want 4", img.Width())
	}
}

func TestDecodeErrors(t *testing.T) {
	pngData, err := EncodeBytes(gradientImage(2, 2), FormatPNG, nil)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		data   []byte
		format Format
	}{
		{"empty", nil, FormatPNG},
		{"garbage", []byte("not an image"), FormatAuto},
		{"truncated", pngData[:len(pngData)/2], FormatPNG},
		{"declared mismatch", pngData, FormatJPEG},
		{"unknown format", pngData, Format(200)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data, tt.format)
			if !errors.Is(err, ErrDecode) {
				t.Fatalf("Decode() error = %v, want ErrDecode", err)
			}
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("error %T is not *DecodeError", err)
			}
		})
	}
}

// withPNGSize rewrites the IHDR of an encoded PNG to declare w x h.
func withPNGSize(t *testing.T, data []byte, w, h uint32) []byte {
	t.Helper()
	out := append([]byte(nil), data...)
	// 8-byte signature, 4-byte length, "IHDR", then width and height.
	if string(out[12:16]) != "IHDR" {
		t.Fatalf("unexpected first chunk %q", out[12:16])
	}
	binary.BigEndian.PutUint32(out[16:20], w)
	binary.BigEndian.PutUint32(out[20:24], h)
	binary.BigEndian.PutUint32(out[29:33], crc32.ChecksumIEEE(out[12:29]))
	return out
}

func TestDecodeRejectsOversizedHeader(t *testing.T) {
	data, err := EncodeBytes(gradientImage(2, 2), FormatPNG, nil)
	if err != nil {
		t.Fatal(err)
	}
	huge := withPNGSize(t, data, 20000, 20000)

	for _, f := range []Format{FormatPNG, FormatAuto} {
		t.Run(f.String(), func(t *testing.T) {
			_, err := Decode(huge, f)
			if !errors.Is(err, ErrDecode) || !errors.Is(err, ErrTooLarge) {
				t.Fatalf("Decode() error = %v, want ErrDecode wrapping ErrTooLarge", err)
			}
			var de *DecodeError
			if errors.As(err, &de) && de.Format != FormatPNG {
				t.Errorf("Format = %s, want png", de.Format)
			}
		})
	}
}

func TestDecodeLimit(t *testing.T) {
	data, err := EncodeBytes(gradientImage(4, 4), FormatPNG, nil)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		limit   int
		wantErr bool
	}{
		{"default", 0, false},
		{"exact", 16, false},
		{"one short", 15, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := DecodeLimit(data, FormatPNG, tt.limit)
			if tt.wantErr {
				if !errors.Is(err, ErrTooLarge) {
					t.Fatalf("DecodeLimit(%d) error = %v, want ErrTooLarge", tt.limit, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeLimit(%d) error = %v", tt.limit, err)
			}
			if img.Width() != 4 || img.Height() != 4 {
				t.Errorf("size = %dx%d, want 4x4", img.Width(), img.Height())
			}
		})
	}
}

func TestDecodeReader(t *testing.T) {
	src := gradientImage(3, 5)
	data, err := EncodeBytes(src, FormatPNG, nil)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeReader(strings.NewReader(string(data)), FormatAuto)
	if err != nil {
		t.Fatalf("DecodeReader() error = %v", err)
	}
	if !got.Equal(src) {
		t.Error("DecodeReader() result differs from source")
	}
}

func TestFromStdImageZeroDimensions(t *testing.T) {
	_, err := FromStdImage(image.NewNRGBA(image.Rect(0, 0, 0, 3)))
	if !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("FromStdImage(0x3) error = %v, want ErrInvalidDimensions", err)
	}
}

func TestLossyAndAlternateFormats(t *testing.T) {
	src := opaqueImage(16, 16)
	for _, f := range []Format{FormatJPEG, FormatGIF, FormatBMP, FormatTIFF} {
		t.Run(f.String(), func(t *testing.T) {
			data, err := EncodeBytes(src, f, &EncodeOptions{JPEGQuality: 95})
			if err != nil {
				t.Fatalf("EncodeBytes(%s) error = %v", f, err)
			}
			got, err := Decode(data, f)
			if err != nil {
				t.Fatalf("Decode(%s) error = %v", f, err)
			}
			if got.Width() != 16 || got.Height() != 16 {
				t.Errorf("size = %dx%d, want 16x16", got.Width(), got.Height())
			}
		})
	}
}

func TestEncodeWebPUnsupported(t *testing.T) {
	_, err := EncodeBytes(opaqueImage(2, 2), FormatWebP, nil)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("EncodeBytes(webp) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		hint string
		want Format
	}{
		{"", FormatAuto},
		{"image/png", FormatPNG},
		{"image/jpeg; charset=binary", FormatJPEG},
		{".JPG", FormatJPEG},
		{"tif", FormatTIFF},
		{"image/webp", FormatWebP},
		{"image/x-ms-bmp", FormatBMP},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.hint)
		if err != nil {
			t.Errorf("ParseFormat(%q) error = %v", tt.hint, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.hint, got, tt.want)
		}
	}

	if _, err := ParseFormat("image/svg+xml"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("ParseFormat(svg) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestDataURI(t *testing.T) {
	uri, err := DataURI(opaqueImage(2, 2), FormatPNG, nil)
	if err != nil {
		t.Fatalf("DataURI() error = %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Errorf("DataURI() prefix = %q", uri[:min(len(uri), 30)])
	}
}

func opaqueImage(w, h int) *Image {
	img := gradientImage(w, h)
	pix := img.Pix()
	for i := 3; i < len(pix); i += 4 {
		pix[i] = 255
	}
	return Wrap(w, h, pix)
}
