package config

import (
	"fmt"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	prefsObject   = "prefs"
	prefsProperty = "ui"
)

// Prefs is the UI state remembered between runs.
type Prefs struct {
	Template string `yaml:"template"`
	Color    string `yaml:"color"`
}

// PrefsStore persists Prefs through gdata. A nil manager keeps the last
// saved value in memory only, so it is forgotten on exit.
type PrefsStore struct {
	manager *gdata.Manager
	mem     *Prefs
}

// OpenPrefs opens the platform data directory for appName. When storage is
// unavailable the returned store is memory-only and err says why.
func OpenPrefs(appName string) (*PrefsStore, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return &PrefsStore{}, fmt.Errorf("failed to open prefs storage: %w", err)
	}
	return &PrefsStore{manager: m}, nil
}

// NewPrefsStore wraps an existing manager, which may be nil.
func NewPrefsStore(m *gdata.Manager) *PrefsStore {
	return &PrefsStore{manager: m}
}

// Load returns the saved prefs, or ok=false when nothing was saved.
func (s *PrefsStore) Load() (Prefs, bool, error) {
	if s.manager == nil {
		if s.mem == nil {
			return Prefs{}, false, nil
		}
		return *s.mem, true, nil
	}
	if !s.manager.ObjectPropExists(prefsObject, prefsProperty) {
		return Prefs{}, false, nil
	}

	data, err := s.manager.LoadObjectProp(prefsObject, prefsProperty)
	if err != nil {
		return Prefs{}, false, fmt.Errorf("failed to load prefs: %w", err)
	}

	var p Prefs
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Prefs{}, false, fmt.Errorf("failed to unmarshal prefs: %w", err)
	}
	return p, true, nil
}

// Save writes prefs.
func (s *PrefsStore) Save(p Prefs) error {
	if s.manager == nil {
		s.mem = &p
		return nil
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal prefs: %w", err)
	}
	if err := s.manager.SaveObjectProp(prefsObject, prefsProperty, data); err != nil {
		return fmt.Errorf("failed to save prefs: %w", err)
	}
	return nil
}
