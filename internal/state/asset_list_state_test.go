package state

import (
	"reflect"
	"testing"
	"time"

	"github.com/splatview/splatview/internal/events"
	"github.com/splatview/splatview/internal/models"
	"github.com/splatview/splatview/internal/notify"
)

func names(items []models.Asset) []string {
	out := make([]string, 0, len(items))
	for _, a := range items {
		out = append(out, a.Name)
	}
	return out
}

func TestNewAssetListState(t *testing.T) {
	state := NewAssetListState(models.DefaultAssets(), nil, nil)

	if state.Count() != 8 {
		t.Errorf("Count = %d, want 8", state.Count())
	}
	if got := len(state.Filtered()); got != 8 {
		t.Errorf("Filtered with no query = %d items, want 8", got)
	}
	if _, ok := state.Selected(); ok {
		t.Error("Nothing should be selected initially")
	}
}

func TestAssetListStateQuery(t *testing.T) {
	state := NewAssetListState(models.DefaultAssets(), nil, nil)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"Amplifier", "Ammo Can", "Colored Radios", "Colored Cooler Bomb", "ROI Battery Charger", "XR150", "ROI USB WiFi", "ROI Salt and Pepper"}},
		{"   ", []string{"Amplifier", "Ammo Can", "Colored Radios", "Colored Cooler Bomb", "ROI Battery Charger", "XR150", "ROI USB WiFi", "ROI Salt and Pepper"}},
		{"roi", []string{"ROI Battery Charger", "ROI USB WiFi", "ROI Salt and Pepper"}},
		{"COLORED", []string{"Colored Radios", "Colored Cooler Bomb"}},
		{"am", []string{"Amplifier", "Ammo Can"}},
		{"xyz", []string{}},
	}

	for _, tt := range tests {
		state.SetQuery(tt.query)
		got := names(state.Filtered())
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SetQuery(%q): got %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestAssetListStateSelect(t *testing.T) {
	sink := notify.NewMemorySink()
	eventBus := events.NewEventBus(100)
	defer eventBus.Close()
	ch := eventBus.Subscribe(events.EventAssetSelected)

	state := NewAssetListState(models.DefaultAssets(), eventBus, sink)

	asset, ok := state.Select("6")
	if !ok || asset.Name != "XR150" {
		t.Fatalf("Select(6) = %v, %v", asset, ok)
	}
	if sel, _ := state.Selected(); sel.ID != "6" {
		t.Errorf("Selected ID = %q, want 6", sel.ID)
	}

	all := sink.All()
	if len(all) != 1 || all[0].Title != "Model Selected" || all[0].Description != "Loading XR150 model..." {
		t.Errorf("notifications = %+v", all)
	}

	select {
	case ev := <-ch:
		if ev.(*AssetSelectedEvent).Asset.ID != "6" {
			t.Error("Wrong asset in selection event")
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for selection event")
	}

	if _, ok := state.Select("missing"); ok {
		t.Error("Selecting an unknown id should fail")
	}
	if sink.Count() != 1 {
		t.Error("Unknown id should not raise a notification")
	}
}

func TestAssetListStateRemove(t *testing.T) {
	eventBus := events.NewEventBus(100)
	defer eventBus.Close()
	ch := eventBus.Subscribe(events.EventAssetListChanged)

	state := NewAssetListState(models.DefaultAssets(), eventBus, nil)
	state.Select("2")

	if !state.Remove("2") {
		t.Fatal("Remove(2) should succeed")
	}
	if state.Count() != 7 {
		t.Errorf("Count = %d, want 7", state.Count())
	}
	if _, ok := state.Selected(); ok {
		t.Error("Removing the selected asset should clear the selection")
	}
	if state.Remove("2") {
		t.Error("Removing twice should fail")
	}

	select {
	case ev := <-ch:
		changed := ev.(*AssetListChangedEvent)
		if changed.Total != 7 || len(changed.Items) != 7 {
			t.Errorf("list event = total %d, items %d", changed.Total, len(changed.Items))
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for list event")
	}
}

func TestAssetListStateSetItems(t *testing.T) {
	state := NewAssetListState(models.DefaultAssets(), nil, nil)
	state.Select("1")

	state.SetItems([]models.Asset{{ID: "9", Name: "Drone"}})
	if state.Count() != 1 {
		t.Errorf("Count = %d, want 1", state.Count())
	}
	if _, ok := state.Selected(); ok {
		t.Error("Selection should be cleared when the asset disappears")
	}
	if a, ok := state.FindByID("9"); !ok || a.Name != "Drone" {
		t.Errorf("FindByID(9) = %v, %v", a, ok)
	}
}

func TestHighlight(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []Segment
	}{
		{"Amplifier", "", []Segment{{Text: "Amplifier"}}},
		{"Amplifier", "amp", []Segment{{Text: "Amp", Match: true}, {Text: "lifier"}}},
		{"ROI Salt and Pepper", "pe", []Segment{{Text: "ROI Salt and "}, {Text: "Pe", Match: true}, {Text: "p"}, {Text: "pe", Match: true}, {Text: "r"}}},
		{"XR150", "xr150", []Segment{{Text: "XR150", Match: true}}},
		{"Ammo Can", "zzz", []Segment{{Text: "Ammo Can"}}},
		{"a.b(c)", ".b(", []Segment{{Text: "a"}, {Text: ".b(", Match: true}, {Text: "c)"}}},
	}

	for _, tt := range tests {
		got := Highlight(tt.name, tt.query)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Highlight(%q, %q) = %+v, want %+v", tt.name, tt.query, got, tt.want)
		}
	}
}

func TestHighlightSegmentsUsesQuery(t *testing.T) {
	state := NewAssetListState(models.DefaultAssets(), nil, nil)
	state.SetQuery("can")

	got := state.HighlightSegments("Ammo Can")
	want := []Segment{{Text: "Ammo "}, {Text: "Can", Match: true}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("HighlightSegments = %+v, want %+v", got, want)
	}
}
