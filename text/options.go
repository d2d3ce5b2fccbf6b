package text

import "golang.org/x/image/font"

// Hinting selects outline hinting for rasterized glyphs.
type Hinting uint8

const (
	// HintingNone keeps outlines unhinted.
	HintingNone Hinting = iota
	// HintingVertical snaps to the pixel grid vertically only.
	HintingVertical
	// HintingFull snaps to the pixel grid in both directions.
	HintingFull
)

func (h Hinting) xfont() font.Hinting {
	switch h {
	case HintingNone:
		return font.HintingNone
	case HintingVertical:
		return font.HintingVertical
	default:
		return font.HintingFull
	}
}

// SourceOption configures FontSource creation.
type SourceOption func(*sourceConfig)

type sourceConfig struct {
	hinting Hinting
	name    string
}

func defaultSourceConfig() sourceConfig {
	return sourceConfig{hinting: HintingNone}
}

// WithHinting sets the hinting mode for faces created from the source.
func WithHinting(h Hinting) SourceOption {
	return func(c *sourceConfig) {
		c.hinting = h
	}
}

// WithName overrides the name read from the font's name table.
func WithName(name string) SourceOption {
	return func(c *sourceConfig) {
		c.name = name
	}
}
