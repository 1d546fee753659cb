package tui

import (
	"log"

	"github.com/tinytelemetry/flipbook/internal/prefs"
)

// Session carries user preferences shared by every page and persists them
// after each change. A Session with an empty path never writes.
type Session struct {
	path  string
	prefs prefs.Prefs
}

// NewSession starts a session from previously loaded prefs.
func NewSession(path string, p prefs.Prefs) *Session {
	return &Session{path: path, prefs: p}
}

// Prefs returns a copy of the current preferences.
func (s *Session) Prefs() prefs.Prefs {
	if s == nil {
		return prefs.Defaults()
	}
	return s.prefs
}

func (s *Session) update(fn func(p *prefs.Prefs)) {
	if s == nil {
		return
	}
	before := s.prefs
	fn(&s.prefs)
	if s.prefs == before || s.path == "" {
		return
	}
	if err := prefs.Save(s.path, s.prefs); err != nil {
		log.Printf("tui: save prefs: %v", err)
	}
}
