// Command retouch applies edits to a photo from the command line.
//
// Usage:
//
//	retouch -in photo.jpg -out edited.png                   # re-encode
//	retouch -in photo.jpg -out edited.png -prompt "warm sunset"
//	retouch -in photo.jpg -out edited.jpg -sharpen 40 -quality 85
//	retouch -script edits.yaml -log-level debug             # scripted edits
//
// A script names the input and output, a prompt, adjustment settings and an
// ordered list of destructive operations (see internal/config.Script).
// Flags override the script.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gogpu/retouch"
	"github.com/gogpu/retouch/internal/config"
	"github.com/gogpu/retouch/internal/parallel"
	"github.com/gogpu/retouch/pipeline"
	"github.com/gogpu/retouch/prompt"
	"github.com/gogpu/retouch/raster"
	"github.com/gogpu/retouch/text"
)

type options struct {
	in, out    string
	format     string
	prompt     string
	sharpen    float64
	scriptPath string
	fontPath   string
	quality    int
	maxPixels  int
}

func main() {
	var opts options
	flag.StringVar(&opts.in, "in", "", "input image")
	flag.StringVar(&opts.out, "out", "", "output image")
	flag.StringVar(&opts.format, "format", "", "output format: png, jpeg, gif, bmp, tiff (default from -out)")
	flag.StringVar(&opts.prompt, "prompt", "", "describe the look, e.g. \"warm sunset\"")
	flag.Float64Var(&opts.sharpen, "sharpen", -1, "sharpen amount 0..100")
	flag.StringVar(&opts.scriptPath, "script", "", "YAML edit script")
	flag.StringVar(&opts.fontPath, "font", "", "extra font for stickers, tried before Go Regular")
	flag.IntVar(&opts.quality, "quality", 90, "JPEG quality 1..100")
	flag.IntVar(&opts.maxPixels, "max-pixels", retouch.DefaultMaxPixels, "largest image, in pixels, to load or upscale to")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	workers := flag.Int("workers", 0, "worker goroutines (0 = GOMAXPROCS)")
	flag.Parse()

	level, err := config.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	retouch.SetLogger(logger)
	if *workers > 0 {
		parallel.SetWorkers(*workers)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, opts); err != nil {
		logger.Error("retouch: failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, opts options) error {
	script := &config.Script{}
	if opts.scriptPath != "" {
		var err error
		if script, err = config.LoadScript(opts.scriptPath); err != nil {
			return err
		}
	}
	in := firstNonEmpty(opts.in, script.Input)
	out := firstNonEmpty(opts.out, script.Output)
	if in == "" || out == "" {
		return fmt.Errorf("both an input and an output are required (-in, -out or script)")
	}

	format, err := raster.ParseFormat(firstNonEmpty(opts.format, script.Format, filepath.Ext(out)))
	if err != nil {
		return err
	}

	sessOpts := []retouch.SessionOption{
		retouch.WithLogger(logger),
		retouch.WithEncodeOptions(&raster.EncodeOptions{JPEGQuality: opts.quality}),
		retouch.WithMaxPixels(opts.maxPixels),
	}
	if opts.fontPath != "" {
		src, err := text.NewFontSourceFromFile(opts.fontPath)
		if err != nil {
			return err
		}
		sessOpts = append(sessOpts, retouch.WithFaces(text.Chain{src, text.DefaultSource()}))
	}
	sess := retouch.NewSession(sessOpts...)

	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	if err := sess.Load(ctx, data, filepath.Ext(in), filepath.Base(in)); err != nil {
		return err
	}

	for i, op := range script.Operations {
		if err := apply(ctx, sess, op); err != nil {
			return fmt.Errorf("operation %d (%s): %w", i, op.Op, err)
		}
	}

	settings := pipeline.Defaults()
	if p := firstNonEmpty(opts.prompt, script.Prompt); p != "" {
		settings = prompt.Resolve(p)
	}
	if settings, err = script.ResolveSettings(settings); err != nil {
		return err
	}
	if opts.sharpen >= 0 {
		settings.Sharpen = opts.sharpen
	}
	sess.SetSettings(settings)

	exp, err := sess.Export(ctx, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, exp.Data, 0o644); err != nil {
		return err
	}
	w, h := sess.Dimensions()
	logger.Info("retouch: written", "file", out, "format", format.String(), "bytes", len(exp.Data), "width", w, "height", h)
	return nil
}

// apply runs one script operation on the session.
func apply(ctx context.Context, sess *retouch.Session, op config.Operation) error {
	switch op.Op {
	case config.OpClone:
		return sess.CloneStamp(ctx, op.Target, op.Source, op.Radius)
	case config.OpRedEye:
		return sess.RedEye(ctx, op.At, op.Radius)
	case config.OpCrop:
		return sess.Crop(ctx, op.Rect)
	case config.OpImprove:
		return sess.ImproveQuality(ctx)
	case config.OpUpscale:
		return sess.Upscale(ctx, op.Width)
	case config.OpUndo:
		_, err := sess.Undo()
		return err
	case config.OpRedo:
		_, err := sess.Redo()
		return err
	case config.OpStickers:
		for _, st := range op.Stickers {
			added := sess.AddSticker(st.Content)
			// A sticker listed without a position stays centred.
			if st.X != 0 || st.Y != 0 {
				if _, err := sess.MoveSticker(added.ID, st.X, st.Y); err != nil {
					return err
				}
			}
			if st.Scale > 0 {
				if _, err := sess.ScaleSticker(added.ID, st.Scale); err != nil {
					return err
				}
			}
		}
		return sess.BakeStickers(ctx)
	default:
		return op.Validate()
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
