package state

import (
	"fmt"
	"sync"

	"github.com/splatview/splatview/internal/events"
	"github.com/splatview/splatview/internal/models"
)

// Setting names one toolbar toggle.
type Setting string

const (
	SettingDarkMode  Setting = "dark-mode"
	SettingInverted  Setting = "inverted"
	SettingSixShades Setting = "six-shades"
	SettingCoolTone  Setting = "cool-tone"
)

// AllSettings lists the toggles in toolbar order.
var AllSettings = []Setting{SettingDarkMode, SettingInverted, SettingSixShades, SettingCoolTone}

// ViewSettingsState holds the rendering toggles of the toolbar.
// Every change publishes the full settings.
type ViewSettingsState struct {
	eventBus *events.EventBus
	settings models.ViewSettings
	mu       sync.RWMutex
}

// NewViewSettingsState creates a state with every toggle off.
func NewViewSettingsState(eventBus *events.EventBus) *ViewSettingsState {
	return &ViewSettingsState{eventBus: eventBus}
}

// Get returns the current settings.
func (s *ViewSettingsState) Get() models.ViewSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Set assigns a toggle. Setting it to its current value publishes nothing.
func (s *ViewSettingsState) Set(setting Setting, on bool) error {
	s.mu.Lock()
	field, err := s.fieldLocked(setting)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if *field == on {
		s.mu.Unlock()
		return nil
	}
	*field = on
	snapshot := s.settings
	s.mu.Unlock()

	if s.eventBus != nil {
		s.eventBus.Publish(NewViewSettingsChangedEvent(snapshot, setting))
	}
	return nil
}

// Toggle flips a toggle and returns its new value.
func (s *ViewSettingsState) Toggle(setting Setting) (bool, error) {
	s.mu.Lock()
	field, err := s.fieldLocked(setting)
	if err != nil {
		s.mu.Unlock()
		return false, err
	}
	*field = !*field
	on := *field
	snapshot := s.settings
	s.mu.Unlock()

	if s.eventBus != nil {
		s.eventBus.Publish(NewViewSettingsChangedEvent(snapshot, setting))
	}
	return on, nil
}

// fieldLocked maps a setting to its field (must hold lock).
func (s *ViewSettingsState) fieldLocked(setting Setting) (*bool, error) {
	switch setting {
	case SettingDarkMode:
		return &s.settings.DarkMode, nil
	case SettingInverted:
		return &s.settings.Inverted, nil
	case SettingSixShades:
		return &s.settings.SixShades, nil
	case SettingCoolTone:
		return &s.settings.CoolTone, nil
	default:
		return nil, fmt.Errorf("unknown view setting %q", setting)
	}
}
