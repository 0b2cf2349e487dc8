// Package state provides observable state containers for the viewer page.
// These containers emit events when state changes, allowing any frontend
// to subscribe and update its UI accordingly.
package state

import (
	"github.com/splatview/splatview/internal/events"
	"github.com/splatview/splatview/internal/models"
)

// AssetListChangedEvent is published when the catalogue or the search
// query changes. Items holds the filtered view.
type AssetListChangedEvent struct {
	events.BaseEvent
	Items []models.Asset
	Query string
	Total int // Size of the unfiltered catalogue
}

// AssetSelectedEvent is published when an asset is picked.
type AssetSelectedEvent struct {
	events.BaseEvent
	Asset models.Asset
}

// ViewSettingsChangedEvent carries the full settings after a toggle.
type ViewSettingsChangedEvent struct {
	events.BaseEvent
	Settings models.ViewSettings
	Changed  Setting
}

// NewAssetListChangedEvent creates a new AssetListChangedEvent.
func NewAssetListChangedEvent(items []models.Asset, query string, total int) *AssetListChangedEvent {
	return &AssetListChangedEvent{
		BaseEvent: events.NewBaseEvent(events.EventAssetListChanged),
		Items:     items,
		Query:     query,
		Total:     total,
	}
}

// NewAssetSelectedEvent creates a new AssetSelectedEvent.
func NewAssetSelectedEvent(asset models.Asset) *AssetSelectedEvent {
	return &AssetSelectedEvent{
		BaseEvent: events.NewBaseEvent(events.EventAssetSelected),
		Asset:     asset,
	}
}

// NewViewSettingsChangedEvent creates a new ViewSettingsChangedEvent.
func NewViewSettingsChangedEvent(settings models.ViewSettings, changed Setting) *ViewSettingsChangedEvent {
	return &ViewSettingsChangedEvent{
		BaseEvent: events.NewBaseEvent(events.EventViewSettingsChanged),
		Settings:  settings,
		Changed:   changed,
	}
}
