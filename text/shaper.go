package text

import (
	"sync"

	"github.com/go-text/typesetting/di"
	gtfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
)

// Glyph is one shaped glyph, positioned relative to the string origin on
// the baseline. X grows right and Y grows down, in pixels.
type Glyph struct {
	Source  int // index into the face's sources
	ID      gtfont.GID
	Rune    rune // first rune of the cluster
	X, Y    float64
	Advance float64
}

// HarfbuzzShaper instances keep internal buffers and are not safe for
// concurrent use, so they are pooled.
var shaperPool = sync.Pool{
	New: func() any {
		return &shaping.HarfbuzzShaper{}
	},
}

// Shape converts s into positioned glyphs. The string is split into runs of
// runes served by the same source and each run is shaped with HarfBuzz, so
// kerning and ligatures of every font in the chain apply.
func (f *Face) Shape(s string) []Glyph {
	if s == "" {
		return nil
	}
	runes := []rune(s)
	out := make([]Glyph, 0, len(runes))
	pen := 0.0

	for start := 0; start < len(runes); {
		src := f.sourceIndex(runes[start])
		end := start + 1
		for end < len(runes) && f.sourceIndex(runes[end]) == src {
			end++
		}

		input := shaping.Input{
			Text:      runes,
			RunStart:  start,
			RunEnd:    end,
			Direction: di.DirectionLTR,
			Face:      f.shaper(src),
			Size:      f.ppem(),
			Script:    detectScript(runes[start:end]),
			Language:  language.NewLanguage("en"),
		}

		hb := shaperPool.Get().(*shaping.HarfbuzzShaper)
		output := hb.Shape(input)
		shaperPool.Put(hb)

		for _, g := range output.Glyphs {
			r := runes[start]
			if g.ClusterIndex >= 0 && g.ClusterIndex < len(runes) {
				r = runes[g.ClusterIndex]
			}
			out = append(out, Glyph{
				Source:  src,
				ID:      g.GlyphID,
				Rune:    r,
				X:       pen + fixedToFloat(g.XOffset),
				Y:       -fixedToFloat(g.YOffset),
				Advance: fixedToFloat(g.XAdvance),
			})
			pen += fixedToFloat(g.XAdvance)
		}
		start = end
	}
	return out
}

// Advance returns the total horizontal advance of s in pixels.
func (f *Face) Advance(s string) float64 {
	return advanceOf(f.Shape(s))
}

func advanceOf(glyphs []Glyph) float64 {
	w := 0.0
	for _, g := range glyphs {
		w += g.Advance
	}
	return w
}

// detectScript returns the script of the first non-space rune. Mixed-script
// strings are shaped with that script.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
