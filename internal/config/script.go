package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/retouch/pipeline"
	"github.com/gogpu/retouch/raster"
	"github.com/gogpu/retouch/region"
)

// Script operation names.
const (
	OpClone    = "clone"
	OpRedEye   = "redeye"
	OpCrop     = "crop"
	OpStickers = "stickers"
	OpImprove  = "improve"
	OpUpscale  = "upscale"
	OpUndo     = "undo"
	OpRedo     = "redo"
)

// Script is an edit script for the retouch command: an input image, a
// prompt and settings for the adjustments, and an ordered list of
// destructive operations.
//
//	input: photo.jpg
//	output: out.png
//	prompt: warm sunset
//	settings:
//	  sharpen: 40
//	operations:
//	  - op: redeye
//	    at: {x: 0.42, y: 0.37}
//	  - op: crop
//	    rect: {x: 10, y: 10, width: 400, height: 300}
type Script struct {
	Input      string      `yaml:"input"`
	Output     string      `yaml:"output"`
	Format     string      `yaml:"format"`
	Prompt     string      `yaml:"prompt"`
	Settings   yaml.Node   `yaml:"settings"`
	Operations []Operation `yaml:"operations"`
}

// Operation is one destructive step. Which fields apply depends on Op;
// points are normalized, Rect and Width are in pixels.
type Operation struct {
	Op       string           `yaml:"op"`
	Target   raster.Point     `yaml:"target"`
	Source   raster.Point     `yaml:"source"`
	At       raster.Point     `yaml:"at"`
	Radius   float64          `yaml:"radius"`
	Rect     region.Rect      `yaml:"rect"`
	Stickers []region.Sticker `yaml:"stickers"`
	Width    int              `yaml:"width"`
}

// Validate checks that the operation is known and has its arguments.
func (o Operation) Validate() error {
	switch o.Op {
	case OpClone, OpRedEye, OpImprove, OpUndo, OpRedo:
		return nil
	case OpCrop:
		if o.Rect.Empty() {
			return fmt.Errorf("%w: crop needs a non-empty rect", ErrInvalid)
		}
	case OpStickers:
		if len(o.Stickers) == 0 {
			return fmt.Errorf("%w: stickers op lists no stickers", ErrInvalid)
		}
	case OpUpscale:
		if o.Width <= 0 {
			return fmt.Errorf("%w: upscale needs a positive width", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown op %q", ErrInvalid, o.Op)
	}
	return nil
}

// ParseScript decodes and validates an edit script.
func ParseScript(data []byte) (*Script, error) {
	s := &Script{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("config: parse script: %w", err)
	}
	for i, op := range s.Operations {
		if err := op.Validate(); err != nil {
			return nil, fmt.Errorf("config: operation %d: %w", i, err)
		}
	}
	return s, nil
}

// LoadScript reads an edit script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return ParseScript(data)
}

// ResolveSettings returns the adjustment settings of the script: base,
// overlaid with the fields present under settings. Fields the script does
// not name keep their base value.
func (s *Script) ResolveSettings(base pipeline.Settings) (pipeline.Settings, error) {
	if s.Settings.Kind == 0 {
		return base, nil
	}
	if err := s.Settings.Decode(&base); err != nil {
		return base, fmt.Errorf("config: script settings: %w", err)
	}
	return base, nil
}
