package text

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"math"

	gtfont "github.com/go-text/typesetting/font"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/tiff"
	"golang.org/x/image/vector"
)

// DrawCentered renders s centred on (cx, cy): horizontally on its advance
// width and vertically on the middle of the primary font's ascent and
// descent.
func DrawCentered(dst draw.Image, face *Face, s string, cx, cy float64, col color.Color) {
	glyphs := face.Shape(s)
	if len(glyphs) == 0 {
		return
	}
	m := face.Metrics()
	x := cx - advanceOf(glyphs)/2
	y := cy + (m.Ascent-m.Descent)/2
	drawGlyphs(dst, face, glyphs, x, y, col)
}

func drawGlyphs(dst draw.Image, face *Face, glyphs []Glyph, x, y float64, col color.Color) {
	src := image.NewUniform(col)
	for _, g := range glyphs {
		gx, gy := x+g.X, y+g.Y
		if face.drawBitmap(dst, g, gx, gy) {
			continue
		}
		face.drawOutline(dst, g, gx, gy, src)
	}
}

// drawOutline fills the outline of g with its origin at (x, y).
func (f *Face) drawOutline(dst draw.Image, g Glyph, x, y float64, src image.Image) {
	otf := f.sources[g.Source].outline
	if otf == nil {
		return
	}
	segs, err := otf.LoadGlyph(&f.buf, sfnt.GlyphIndex(g.ID), f.ppem(), nil)
	if err != nil || len(segs) == 0 {
		return
	}

	b := segs.Bounds()
	left := int(math.Floor(x + fixedToFloat(b.Min.X)))
	top := int(math.Floor(y + fixedToFloat(b.Min.Y)))
	right := int(math.Ceil(x + fixedToFloat(b.Max.X)))
	bottom := int(math.Ceil(y + fixedToFloat(b.Max.Y)))
	if right <= left || bottom <= top {
		return
	}
	rect := image.Rect(left, top, right, bottom)
	if !rect.Overlaps(dst.Bounds()) {
		return
	}

	ox := float32(x - float64(left))
	oy := float32(y - float64(top))
	pt := func(p fixed.Point26_6) (float32, float32) {
		return ox + float32(p.X)/64, oy + float32(p.Y)/64
	}

	r := vector.NewRasterizer(rect.Dx(), rect.Dy())
	r.DrawOp = draw.Src
	for i, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if i > 0 {
				r.ClosePath()
			}
			r.MoveTo(pt(seg.Args[0]))
		case sfnt.SegmentOpLineTo:
			r.LineTo(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			r.QuadTo(bx, by, cx, cy)
		case sfnt.SegmentOpCubeTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			dx, dy := pt(seg.Args[2])
			r.CubeTo(bx, by, cx, cy, dx, dy)
		}
	}
	r.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	r.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	draw.DrawMask(dst, rect, src, image.Point{}, mask, image.Point{}, draw.Over)
}

// drawBitmap draws g from the source's colour bitmap strike, scaled so that
// the strike's em matches the face size. It reports false when g has no
// bitmap.
func (f *Face) drawBitmap(dst draw.Image, g Glyph, x, y float64) bool {
	src := f.sources[g.Source]
	if !src.HasBitmaps() {
		return false
	}
	bm, ok := f.bitmap(g.Source, g.ID)
	if !ok {
		return false
	}
	strike, _ := src.strikeFor(f.size)
	if strike.YPpem == 0 {
		return false
	}

	scale := f.size / float64(strike.YPpem)
	w := int(math.Round(float64(bm.Bounds().Dx()) * scale))
	h := int(math.Round(float64(bm.Bounds().Dy()) * scale))
	if w <= 0 || h <= 0 {
		return true
	}

	// Split the bitmap over the baseline in the font's ascent:descent ratio.
	m := f.sourceMetrics(g.Source)
	ratio := 0.8
	if m.Ascent+m.Descent > 0 {
		ratio = m.Ascent / (m.Ascent + m.Descent)
	}
	left := int(math.Round(x))
	top := int(math.Round(y - float64(h)*ratio))
	rect := image.Rect(left, top, left+w, top+h)

	xdraw.CatmullRom.Scale(dst, rect, bm, bm.Bounds(), xdraw.Over, nil)
	return true
}

// bitmap returns the decoded bitmap glyph gid of source i at the face's
// strike, decoding it on first use.
func (f *Face) bitmap(i int, gid gtfont.GID) (image.Image, bool) {
	strike, _ := f.sources[i].strikeFor(f.size)
	key := bitmapKey{source: f.sources[i], ppem: strike.YPpem, gid: gid}
	img := bitmapCache.GetOrCreate(key, func() image.Image {
		if data, ok := f.shaper(i).GlyphData(gid).(gtfont.GlyphBitmap); ok {
			return decodeBitmap(data)
		}
		return nil
	})
	return img, img != nil
}

func decodeBitmap(data gtfont.GlyphBitmap) image.Image {
	var (
		img image.Image
		err error
	)
	r := bytes.NewReader(data.Data)
	switch data.Format {
	case gtfont.PNG:
		img, err = png.Decode(r)
	case gtfont.JPG:
		img, err = jpeg.Decode(r)
	case gtfont.TIFF:
		img, err = tiff.Decode(r)
	case gtfont.BlackAndWhite:
		img = monoBitmap(data)
	}
	if err != nil {
		return nil
	}
	return img
}

// monoBitmap expands a packed 1-bit bitmap into an alpha mask.
func monoBitmap(data gtfont.GlyphBitmap) image.Image {
	if data.Width <= 0 || data.Height <= 0 || len(data.Data)*8 < data.Width*data.Height {
		return nil
	}
	img := image.NewAlpha(image.Rect(0, 0, data.Width, data.Height))
	for i := range data.Width * data.Height {
		if data.Data[i/8]&(0x80>>(i%8)) != 0 {
			img.Pix[i] = 0xff
		}
	}
	return img
}
