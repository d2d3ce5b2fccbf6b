package region

import (
	"fmt"
	"image/color"
	"math"

	"github.com/google/uuid"

	"github.com/gogpu/retouch/raster"
	"github.com/gogpu/retouch/text"
)

// StickerSizeRatio is the font size of a scale-1 sticker as a fraction of
// the image width.
const StickerSizeRatio = 0.1

// MaxStickerScale is the largest sticker scale. FontSize clamps larger
// scales, so a scale-20 sticker is twice the image width.
const MaxStickerScale = 20

// Sticker is a short string (usually an emoji) placed over the photo.
// X and Y are the normalized position of its centre.
type Sticker struct {
	ID      string  `json:"id" yaml:"id"`
	Content string  `json:"content" yaml:"content"`
	X       float64 `json:"x" yaml:"x"`
	Y       float64 `json:"y" yaml:"y"`
	Scale   float64 `json:"scale" yaml:"scale"`
}

// NewSticker returns a sticker centred on the image at scale 1 with a fresh
// random ID.
func NewSticker(content string) Sticker {
	return Sticker{
		ID:      uuid.NewString(),
		Content: content,
		X:       0.5,
		Y:       0.5,
		Scale:   1,
	}
}

// FontSize returns the pixel size of the sticker on an image of the given
// width: floor(0.1 * width * scale), with scale clamped to MaxStickerScale.
// Non-positive and NaN scales give 0.
func (s Sticker) FontSize(imageWidth int) int {
	if !(s.Scale > 0) {
		return 0
	}
	scale := min(s.Scale, MaxStickerScale)
	return int(math.Floor(StickerSizeRatio * float64(imageWidth) * scale))
}

// CompositeStickers draws each sticker's content centred at
// (X*width, Y*height), in order, so later stickers land on top. Glyphs are
// composited source-over; outline glyphs are black. Stickers with empty
// content or a font size below one pixel are skipped. A nil provider uses
// text.DefaultSource.
func CompositeStickers(img *raster.Image, stickers []Sticker, faces text.FaceProvider) (*raster.Image, error) {
	if faces == nil {
		faces = text.DefaultSource()
	}
	width, height := img.Size()
	dst := img.ToNRGBA()

	for _, s := range stickers {
		size := s.FontSize(width)
		if s.Content == "" || size < 1 {
			continue
		}
		face, err := faces.Face(float64(size))
		if err != nil {
			return nil, fmt.Errorf("region: sticker %q: %w", s.ID, err)
		}
		text.DrawCentered(dst, face, s.Content, s.X*float64(width), s.Y*float64(height), color.Black)
		_ = face.Close()
	}

	return raster.Wrap(width, height, dst.Pix), nil
}
