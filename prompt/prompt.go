// Package prompt turns a free-text description such as "warm sunset" into
// filter settings using a fixed keyword table.
package prompt

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/gogpu/retouch/pipeline"
)

// Preset is one row of the keyword table: if any keyword occurs in the
// prompt, Apply sets the preset's fields.
type Preset struct {
	Name     string
	Keywords []string
	Apply    func(*pipeline.Settings)
}

// Presets is the ordered keyword table. All matching presets apply in this
// order, so later rows overwrite fields set by earlier ones.
var Presets = []Preset{
	{
		Name:     "vintage",
		Keywords: []string{"vintage", "retro", "old"},
		Apply: func(s *pipeline.Settings) {
			s.Sepia = 60
			s.Contrast = 90
			s.Brightness = 90
			s.Saturation = 80
		},
	},
	{
		Name:     "warm",
		Keywords: []string{"warm", "summer", "sunset"},
		Apply: func(s *pipeline.Settings) {
			s.Sepia = 30
			s.Saturation = 130
			s.Brightness = 110
		},
	},
	{
		Name:     "cool",
		Keywords: []string{"cool", "cold", "winter"},
		Apply: func(s *pipeline.Settings) {
			s.HueRotate = 180
			s.Saturation = 90
			s.Brightness = 110
		},
	},
	{
		Name:     "noir",
		Keywords: []string{"noir", "black", "white", "mono"},
		Apply: func(s *pipeline.Settings) {
			s.Grayscale = 100
			s.Contrast = 130
			s.Brightness = 110
		},
	},
	{
		Name:     "cyberpunk",
		Keywords: []string{"cyberpunk", "neon", "future"},
		Apply: func(s *pipeline.Settings) {
			s.Saturation = 150
			s.Contrast = 130
			s.HueRotate = -20
		},
	},
	{
		Name:     "dramatic",
		Keywords: []string{"dramatic", "dark"},
		Apply: func(s *pipeline.Settings) {
			s.Contrast = 150
			s.Brightness = 80
			s.Saturation = 110
		},
	},
}

// Keywords match anywhere in the prompt, including inside longer words
// ("bold" contains "old").
func (p Preset) matches(folded string) bool {
	for _, k := range p.Keywords {
		if strings.Contains(folded, k) {
			return true
		}
	}
	return false
}

// fold returns a caseless form of s for substring matching.
// cases.Caser is stateful, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

// Resolve maps a prompt to settings. It always starts from
// pipeline.Defaults, so earlier settings never leak in; a prompt matching
// nothing returns the defaults.
func Resolve(text string) pipeline.Settings {
	s := pipeline.Defaults()
	folded := fold(text)
	for _, p := range Presets {
		if p.matches(folded) {
			p.Apply(&s)
		}
	}
	return s
}

// Matches returns the names of the presets that fire for text, in table
// order.
func Matches(text string) []string {
	folded := fold(text)
	var names []string
	for _, p := range Presets {
		if p.matches(folded) {
			names = append(names, p.Name)
		}
	}
	return names
}
