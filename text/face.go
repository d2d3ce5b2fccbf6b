package text

import (
	"fmt"
	"image"

	gtfont "github.com/go-text/typesetting/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/retouch/internal/cache"
)

// Metrics are the vertical font metrics of a face in pixels. Descent is
// positive below the baseline.
type Metrics struct {
	Ascent  float64
	Descent float64
	LineGap float64
}

// Height returns the distance between consecutive baselines.
func (m Metrics) Height() float64 {
	return m.Ascent + m.Descent + m.LineGap
}

// Face is a set of font sources bound to one pixel size.
//
// Face caches per-source glyph state and is NOT safe for concurrent use;
// create one face per goroutine.
type Face struct {
	size    float64
	sources []*FontSource

	buf      sfnt.Buffer
	shapers  []*gtfont.Face
	runeSrcs map[rune]int
}

// maxCachedBitmaps bounds the decoded colour glyphs kept across all faces.
const maxCachedBitmaps = 256

// bitmapCache is shared by every face: bitmaps depend only on the source,
// the strike and the glyph, not on the face size.
var bitmapCache = cache.New[bitmapKey, image.Image](maxCachedBitmaps)

type bitmapKey struct {
	source *FontSource
	ppem   uint16
	gid    gtfont.GID
}

// BitmapCacheStats reports the shared colour glyph cache counters.
func BitmapCacheStats() cache.Stats {
	return bitmapCache.Stats()
}

// NewFace creates a face at size pixels. Runes are looked up in sources in
// order; at least one source is required.
func NewFace(size float64, sources ...*FontSource) (*Face, error) {
	if len(sources) == 0 {
		return nil, ErrEmptyFaces
	}
	if !(size > 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSize, size)
	}
	for i, s := range sources {
		if s == nil {
			return nil, fmt.Errorf("text: source %d is nil", i)
		}
		s.copyCheck()
	}
	return &Face{
		size:     size,
		sources:  append([]*FontSource(nil), sources...),
		shapers:  make([]*gtfont.Face, len(sources)),
		runeSrcs: make(map[rune]int),
	}, nil
}

// Size returns the face size in pixels per em.
func (f *Face) Size() float64 {
	return f.size
}

// Sources returns the fallback chain of the face.
func (f *Face) Sources() []*FontSource {
	return append([]*FontSource(nil), f.sources...)
}

// Metrics returns the vertical metrics of the primary source.
func (f *Face) Metrics() Metrics {
	return f.sourceMetrics(0)
}

func (f *Face) sourceMetrics(i int) Metrics {
	src := f.sources[i]
	if src.outline != nil {
		m, err := src.outline.Metrics(&f.buf, f.ppem(), src.config.hinting.xfont())
		if err == nil {
			return Metrics{
				Ascent:  fixedToFloat(m.Ascent),
				Descent: fixedToFloat(m.Descent),
				LineGap: fixedToFloat(m.Height - m.Ascent - m.Descent),
			}
		}
	}
	ext, ok := f.shaper(i).FontHExtents()
	if !ok {
		return Metrics{Ascent: f.size * 0.8, Descent: f.size * 0.2}
	}
	scale := f.size / float64(src.shaping.Upem())
	return Metrics{
		Ascent:  float64(ext.Ascender) * scale,
		Descent: -float64(ext.Descender) * scale,
		LineGap: float64(ext.LineGap) * scale,
	}
}

// Close releases cached glyph data. The face must not be used afterwards.
func (f *Face) Close() error {
	f.shapers = nil
	f.runeSrcs = nil
	return nil
}

// sourceIndex returns the first source that maps r, or 0.
func (f *Face) sourceIndex(r rune) int {
	if i, ok := f.runeSrcs[r]; ok {
		return i
	}
	idx := 0
	for i, s := range f.sources {
		if s.HasGlyph(r) {
			idx = i
			break
		}
	}
	f.runeSrcs[r] = idx
	return idx
}

// shaper returns the go-text face for source i, creating it on first use.
func (f *Face) shaper(i int) *gtfont.Face {
	if f.shapers[i] == nil {
		gf := gtfont.NewFace(f.sources[i].shaping)
		if strike, ok := f.sources[i].strikeFor(f.size); ok {
			gf.SetPpem(strike.XPpem, strike.YPpem)
		}
		f.shapers[i] = gf
	}
	return f.shapers[i]
}

func (f *Face) ppem() fixed.Int26_6 {
	return floatToFixed(f.size)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}
