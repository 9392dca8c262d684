package compose

import (
	"sync"

	surface "github.com/kitchenlab/surface"
)

// Session holds the user-facing selection state: the five category
// assignments, the active scene, and whether the current mix matches a
// named theme or is a custom one.
//
// A Session only tracks state; painting happens when its selection is
// handed to the compositor's ApplyAll.
type Session struct {
	mu        sync.Mutex
	sceneID   string
	selection surface.Selection
	themeID   string
	custom    bool
}

// NewSession creates a session on the given scene with nothing selected.
func NewSession(sceneID string) *Session {
	return &Session{sceneID: sceneID}
}

// Selection returns a copy of the current selection.
func (s *Session) Selection() surface.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

// SceneID returns the active scene id.
func (s *Session) SceneID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sceneID
}

// SetScene switches the active scene. The material selection carries
// over; the new scene's document is painted from it on the next pass.
func (s *Session) SetScene(sceneID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sceneID = sceneID
}

// SetMaterial assigns one material directly. Any direct per-category
// selection clears the named-theme marker: the system does not attempt to
// reverse-match a manually built selection back to a theme.
func (s *Session) SetMaterial(cat surface.Category, materialID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.Set(cat, materialID)
	s.themeID = ""
	s.custom = true
}

// ApplyTheme overwrites the entire selection atomically with the theme's
// bundle and records the theme as the active preset. No partial
// application is observable: callers reading through Selection() see
// either the old selection or the full theme.
func (s *Session) ApplyTheme(t surface.Theme) {
	next := surface.FromTheme(t)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = next
	s.themeID = t.ID
	s.custom = false
}

// Theme returns the active named theme id, or false when the selection is
// a custom mix (or nothing has been applied yet).
func (s *Session) Theme() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.custom || s.themeID == "" {
		return "", false
	}
	return s.themeID, true
}

// IsCustom reports whether the selection was built by direct picks.
func (s *Session) IsCustom() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.custom
}

// Fingerprint returns the de-dup key of the current state.
func (s *Session) Fingerprint() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Fingerprint(s.sceneID)
}
