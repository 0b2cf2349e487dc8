package models

// Asset is a point-cloud model listed in the sidebar.
type Asset struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	URL       string `json:"url,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Category  string `json:"category,omitempty"`
}

// DefaultAssets is the built-in catalogue shown when nothing else is loaded.
func DefaultAssets() []Asset {
	return []Asset{
		{ID: "1", Name: "Amplifier"},
		{ID: "2", Name: "Ammo Can"},
		{ID: "3", Name: "Colored Radios"},
		{ID: "4", Name: "Colored Cooler Bomb"},
		{ID: "5", Name: "ROI Battery Charger"},
		{ID: "6", Name: "XR150"},
		{ID: "7", Name: "ROI USB WiFi"},
		{ID: "8", Name: "ROI Salt and Pepper"},
	}
}

// ViewSettings are the rendering toggles exposed by the toolbar.
type ViewSettings struct {
	DarkMode  bool `json:"darkMode"`
	Inverted  bool `json:"inverted"`
	SixShades bool `json:"sixShades"`
	CoolTone  bool `json:"coolTone"`
}
