package state

import (
	"testing"
	"time"

	"github.com/splatview/splatview/internal/events"
	"github.com/splatview/splatview/internal/models"
)

func TestViewSettingsToggle(t *testing.T) {
	eventBus := events.NewEventBus(100)
	defer eventBus.Close()
	ch := eventBus.Subscribe(events.EventViewSettingsChanged)

	state := NewViewSettingsState(eventBus)
	if state.Get() != (models.ViewSettings{}) {
		t.Fatal("All toggles should start off")
	}

	on, err := state.Toggle(SettingDarkMode)
	if err != nil || !on {
		t.Fatalf("Toggle(dark-mode) = %v, %v", on, err)
	}
	if _, err := state.Toggle(SettingCoolTone); err != nil {
		t.Fatal(err)
	}

	want := models.ViewSettings{DarkMode: true, CoolTone: true}
	if state.Get() != want {
		t.Errorf("Get() = %+v, want %+v", state.Get(), want)
	}

	for i, setting := range []Setting{SettingDarkMode, SettingCoolTone} {
		select {
		case ev := <-ch:
			changed := ev.(*ViewSettingsChangedEvent)
			if changed.Changed != setting {
				t.Errorf("event %d changed = %q, want %q", i, changed.Changed, setting)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("Timeout waiting for event %d", i)
		}
	}
}

func TestViewSettingsSet(t *testing.T) {
	eventBus := events.NewEventBus(100)
	defer eventBus.Close()
	ch := eventBus.Subscribe(events.EventViewSettingsChanged)

	state := NewViewSettingsState(eventBus)
	for _, s := range AllSettings {
		if err := state.Set(s, true); err != nil {
			t.Fatalf("Set(%q): %v", s, err)
		}
	}
	if state.Get() != (models.ViewSettings{DarkMode: true, Inverted: true, SixShades: true, CoolTone: true}) {
		t.Errorf("Get() = %+v", state.Get())
	}

	// Unchanged value publishes nothing
	if err := state.Set(SettingInverted, true); err != nil {
		t.Fatal(err)
	}
	if got := len(ch); got != 4 {
		t.Errorf("published %d events, want 4", got)
	}
}

func TestViewSettingsUnknown(t *testing.T) {
	state := NewViewSettingsState(nil)
	if err := state.Set("sepia", true); err == nil {
		t.Error("Expected error for unknown setting")
	}
	if _, err := state.Toggle("sepia"); err == nil {
		t.Error("Expected error for unknown setting")
	}
}
