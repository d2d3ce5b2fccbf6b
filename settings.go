package retouch

import (
	"github.com/gogpu/retouch/pipeline"
	"github.com/gogpu/retouch/prompt"
)

// Settings returns the live adjustment settings.
func (s *Session) Settings() pipeline.Settings {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.settings
}

// SetSettings replaces the settings with ps, normalized, and returns the
// stored value.
func (s *Session) SetSettings(ps pipeline.Settings) pipeline.Settings {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.settings = ps.Normalize()
	return s.settings
}

// UpdateSettings applies fn to a copy of the settings and stores the
// normalized result.
//
// Example:
//
//	s.UpdateSettings(func(ps *pipeline.Settings) { ps.Blur = 4 })
func (s *Session) UpdateSettings(fn func(*pipeline.Settings)) pipeline.Settings {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	next := s.settings
	fn(&next)
	s.settings = next.Normalize()
	return s.settings
}

// ResetSettings restores the identity settings.
func (s *Session) ResetSettings() {
	s.stateMu.Lock()
	s.settings = pipeline.Defaults()
	s.stateMu.Unlock()
}

// ApplyPrompt replaces the settings wholesale with the preset resolved from
// a free-text description, and returns them.
func (s *Session) ApplyPrompt(text string) pipeline.Settings {
	ps := prompt.Resolve(text)
	s.log().Debug("retouch: prompt", "session", s.id, "presets", prompt.Matches(text))
	return s.SetSettings(ps)
}
