// Package text rasterizes short strings onto raster images, which is how
// stickers are baked into a photo.
//
// The pipeline follows a separation of concerns:
//
//   - FontSource: heavyweight, shared font resource (parses TTF/OTF data)
//   - Face: a size-bound view over one or more sources, with per-rune fallback
//   - Shaper: HarfBuzz shaping through go-text/typesetting
//
// Outline glyphs are rasterized by golang.org/x/image/font/opentype. Colour
// bitmap glyphs (CBDT or sbix emoji fonts) are decoded and scaled to the
// line height, so an emoji font placed in a Chain renders stickers in colour.
//
// # Example usage
//
//	face, err := text.DefaultSource().Face(48)
//	if err != nil {
//	    return err
//	}
//	defer face.Close()
//
//	text.DrawCentered(dst, face, "Hi", 100, 60, color.Black)
package text
