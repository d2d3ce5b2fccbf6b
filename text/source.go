package text

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	gtfont "github.com/go-text/typesetting/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// FontSource is a parsed font file. One FontSource can create faces at any
// size and should be shared across the application.
//
// FontSource is safe for concurrent use.
// FontSource must not be copied after creation (enforced by copyCheck).
type FontSource struct {
	// addr points to the FontSource itself and detects copies by value.
	addr *FontSource

	data    []byte
	outline *opentype.Font // x/image, for outline rasterization
	shaping *gtfont.Font   // go-text, for shaping and bitmap glyphs
	bitmaps []gtfont.BitmapSize

	name   string
	config sourceConfig
}

// NewFontSource creates a FontSource from font data (TTF or OTF).
// The data slice is copied internally and can be reused after this call.
func NewFontSource(data []byte, opts ...SourceOption) (*FontSource, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}

	config := defaultSourceConfig()
	for _, opt := range opts {
		opt(&config)
	}

	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	shapingFace, err := gtfont.ParseTTF(bytes.NewReader(dataCopy))
	if err != nil {
		return nil, fmt.Errorf("text: failed to parse font: %w", err)
	}

	s := &FontSource{
		data:    dataCopy,
		shaping: shapingFace.Font,
		bitmaps: shapingFace.Font.BitmapSizes(),
		config:  config,
	}
	s.addr = s

	// Bitmap-only emoji fonts have no outlines for x/image to load; they are
	// still usable through their bitmap strikes.
	if otf, err := opentype.Parse(dataCopy); err == nil {
		s.outline = otf
	} else if len(s.bitmaps) == 0 {
		return nil, fmt.Errorf("text: failed to parse font: %w", err)
	}

	s.name = config.name
	if s.name == "" && s.outline != nil {
		s.name = fontName(s.outline)
	}
	return s, nil
}

// NewFontSourceFromFile loads a FontSource from a font file path.
func NewFontSourceFromFile(path string, opts ...SourceOption) (*FontSource, error) {
	// #nosec G304 -- font file path is provided by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("text: failed to read font file: %w", err)
	}
	return NewFontSource(data, opts...)
}

var defaultSource = sync.OnceValue(func() *FontSource {
	s, err := NewFontSource(goregular.TTF, WithName("Go Regular"))
	if err != nil {
		panic(err) // embedded font, cannot fail
	}
	return s
})

// DefaultSource returns the embedded Go Regular font.
func DefaultSource() *FontSource {
	return defaultSource()
}

// Face creates a face at size pixels using only this source.
func (s *FontSource) Face(size float64) (*Face, error) {
	s.copyCheck()
	return NewFace(size, s)
}

// Name returns the font name.
func (s *FontSource) Name() string {
	s.copyCheck()
	return s.name
}

// HasGlyph reports whether the font maps r to a glyph.
func (s *FontSource) HasGlyph(r rune) bool {
	s.copyCheck()
	_, ok := s.shaping.NominalGlyph(r)
	return ok
}

// HasBitmaps reports whether the font carries colour bitmap strikes.
func (s *FontSource) HasBitmaps() bool {
	return len(s.bitmaps) > 0
}

// strikeFor picks the smallest bitmap strike at least size pixels tall,
// or the largest strike if none is big enough.
func (s *FontSource) strikeFor(size float64) (gtfont.BitmapSize, bool) {
	if len(s.bitmaps) == 0 {
		return gtfont.BitmapSize{}, false
	}
	best := s.bitmaps[0]
	for _, b := range s.bitmaps[1:] {
		bigEnough := float64(b.YPpem) >= size
		bestBigEnough := float64(best.YPpem) >= size
		switch {
		case bigEnough && (!bestBigEnough || b.YPpem < best.YPpem):
			best = b
		case !bigEnough && !bestBigEnough && b.YPpem > best.YPpem:
			best = b
		}
	}
	return best, true
}

// copyCheck panics if FontSource was copied by value.
func (s *FontSource) copyCheck() {
	if s.addr != s {
		panic("text: FontSource must not be copied by value")
	}
}

func fontName(f *opentype.Font) string {
	var buf sfnt.Buffer
	if name, err := f.Name(&buf, sfnt.NameIDFull); err == nil && name != "" {
		return name
	}
	if name, err := f.Name(&buf, sfnt.NameIDFamily); err == nil {
		return name
	}
	return ""
}

// Chain is an ordered list of sources consulted per rune: the first source
// that maps a rune renders it. Runes no source maps are drawn with the first
// source's .notdef glyph.
type Chain []*FontSource

// Face creates a face at size pixels over all sources in the chain.
func (c Chain) Face(size float64) (*Face, error) {
	return NewFace(size, c...)
}

// FaceProvider creates faces at a requested pixel size.
// FontSource and Chain implement it.
type FaceProvider interface {
	Face(size float64) (*Face, error)
}
