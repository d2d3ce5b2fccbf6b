package retouch

import (
	"log/slog"

	"github.com/gogpu/retouch/raster"
	"github.com/gogpu/retouch/text"
)

// DefaultPreviewMaxDim bounds the longer side of previews when no other
// limit is configured.
const DefaultPreviewMaxDim = 1024

// DefaultMaxPixels bounds decoded and upscaled images when no other limit
// is configured: 8192 x 8192, 256 MiB per history entry.
const DefaultMaxPixels = 1 << 26

// SessionOption configures a Session during creation.
//
// Example:
//
//	s := retouch.NewSession(
//	    retouch.WithLogger(logger),
//	    retouch.WithBackgroundRemover(remote.New(endpoint)),
//	)
type SessionOption func(*sessionOptions)

// sessionOptions holds optional configuration for Session creation.
type sessionOptions struct {
	logger        *slog.Logger
	remover       Transformer
	improver      Transformer
	faces         text.FaceProvider
	previewMaxDim int
	maxPixels     int
	encode        *raster.EncodeOptions
	id            string
}

func defaultSessionOptions() sessionOptions {
	return sessionOptions{
		previewMaxDim: DefaultPreviewMaxDim,
		maxPixels:     DefaultMaxPixels,
	}
}

// WithLogger sets the logger for the session. Without it the session logs
// through the package-wide Logger.
func WithLogger(l *slog.Logger) SessionOption {
	return func(o *sessionOptions) {
		o.logger = l
	}
}

// WithBackgroundRemover sets the collaborator used by RemoveBackground.
func WithBackgroundRemover(t Transformer) SessionOption {
	return func(o *sessionOptions) {
		o.remover = t
	}
}

// WithQualityImprover sets the collaborator used by ImproveQuality.
// Without one, ImproveQuality applies the built-in enhance convolution.
func WithQualityImprover(t Transformer) SessionOption {
	return func(o *sessionOptions) {
		o.improver = t
	}
}

// WithFaces sets the fonts used to draw stickers. The default is
// text.DefaultSource.
//
// Example:
//
//	emoji, _ := text.NewFontSourceFromFile("NotoColorEmoji.ttf")
//	s := retouch.NewSession(retouch.WithFaces(text.Chain{emoji, text.DefaultSource()}))
func WithFaces(p text.FaceProvider) SessionOption {
	return func(o *sessionOptions) {
		o.faces = p
	}
}

// WithPreviewMaxDim sets the default bound for Preview. Values <= 0 render
// previews at full size.
func WithPreviewMaxDim(n int) SessionOption {
	return func(o *sessionOptions) {
		o.previewMaxDim = n
	}
}

// WithMaxPixels bounds the pixel count of images the session decodes or
// produces by upscaling. Values <= 0 allow up to raster.MaxPixels.
func WithMaxPixels(n int) SessionOption {
	return func(o *sessionOptions) {
		o.maxPixels = n
	}
}

// WithEncodeOptions sets the encoder options used by Export.
func WithEncodeOptions(opts *raster.EncodeOptions) SessionOption {
	return func(o *sessionOptions) {
		o.encode = opts
	}
}

// WithID sets the session ID instead of generating a random one.
func WithID(id string) SessionOption {
	return func(o *sessionOptions) {
		o.id = id
	}
}
