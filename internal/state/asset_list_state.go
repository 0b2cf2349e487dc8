package state

import (
	"strings"
	"sync"

	"github.com/splatview/splatview/internal/events"
	"github.com/splatview/splatview/internal/models"
	"github.com/splatview/splatview/internal/notify"
)

// AssetListState is the searchable model list of the sidebar.
// Thread-safe for concurrent access.
type AssetListState struct {
	eventBus *events.EventBus
	notifier notify.Sink

	items    []models.Asset
	query    string
	selected string

	mu sync.RWMutex
}

// NewAssetListState creates a list holding items. Either dependency may be nil.
func NewAssetListState(items []models.Asset, eventBus *events.EventBus, notifier notify.Sink) *AssetListState {
	s := &AssetListState{
		eventBus: eventBus,
		notifier: notifier,
		items:    make([]models.Asset, len(items)),
	}
	copy(s.items, items)
	return s
}

// GetItems returns a copy of the full catalogue.
func (s *AssetListState) GetItems() []models.Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Asset, len(s.items))
	copy(result, s.items)
	return result
}

// SetItems replaces the catalogue and publishes a change event.
func (s *AssetListState) SetItems(items []models.Asset) {
	s.mu.Lock()
	s.items = make([]models.Asset, len(items))
	copy(s.items, items)
	if s.indexOfLocked(s.selected) < 0 {
		s.selected = ""
	}
	s.mu.Unlock()

	s.publishList()
}

// Count returns the number of items in the catalogue.
func (s *AssetListState) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// SetQuery updates the search query and publishes the new filtered view.
func (s *AssetListState) SetQuery(query string) {
	s.mu.Lock()
	s.query = query
	s.mu.Unlock()

	s.publishList()
}

// GetQuery returns the current search query.
func (s *AssetListState) GetQuery() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// Filtered returns the assets whose name contains the query, ignoring case.
// A blank query matches everything.
func (s *AssetListState) Filtered() []models.Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filteredLocked()
}

func (s *AssetListState) filteredLocked() []models.Asset {
	result := make([]models.Asset, 0, len(s.items))
	if strings.TrimSpace(s.query) == "" {
		return append(result, s.items...)
	}
	q := strings.ToLower(s.query)
	for _, item := range s.items {
		if strings.Contains(strings.ToLower(item.Name), q) {
			result = append(result, item)
		}
	}
	return result
}

// Select marks an asset as the active model and raises "Model Selected".
// Unknown ids are ignored.
func (s *AssetListState) Select(id string) (models.Asset, bool) {
	s.mu.Lock()
	idx := s.indexOfLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return models.Asset{}, false
	}
	s.selected = id
	asset := s.items[idx]
	s.mu.Unlock()

	if s.eventBus != nil {
		s.eventBus.Publish(NewAssetSelectedEvent(asset))
	}
	if s.notifier != nil {
		s.notifier.Notify(notify.ModelSelected(asset.Name))
	}
	return asset, true
}

// Selected returns the active asset, if any.
func (s *AssetListState) Selected() (models.Asset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexOfLocked(s.selected)
	if idx < 0 {
		return models.Asset{}, false
	}
	return s.items[idx], true
}

// Remove drops an asset from the catalogue. Removing the active asset
// clears the selection.
func (s *AssetListState) Remove(id string) bool {
	s.mu.Lock()
	idx := s.indexOfLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	if s.selected == id {
		s.selected = ""
	}
	s.mu.Unlock()

	s.publishList()
	return true
}

// FindByID finds an asset by ID.
func (s *AssetListState) FindByID(id string) (models.Asset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexOfLocked(id)
	if idx < 0 {
		return models.Asset{}, false
	}
	return s.items[idx], true
}

// indexOfLocked returns the position of id (must hold lock).
func (s *AssetListState) indexOfLocked(id string) int {
	if id == "" {
		return -1
	}
	for i, item := range s.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (s *AssetListState) publishList() {
	if s.eventBus == nil {
		return
	}
	s.mu.RLock()
	filtered := s.filteredLocked()
	query := s.query
	total := len(s.items)
	s.mu.RUnlock()

	s.eventBus.Publish(NewAssetListChangedEvent(filtered, query, total))
}

// Segment is a run of a name, flagged when it matches the search query.
type Segment struct {
	Text  string
	Match bool
}

// HighlightSegments splits name around every case-insensitive occurrence of
// the current query. The query is matched literally. A blank query yields a
// single unmatched segment.
func (s *AssetListState) HighlightSegments(name string) []Segment {
	return Highlight(name, s.GetQuery())
}

// Highlight splits name around case-insensitive literal matches of query.
func Highlight(name, query string) []Segment {
	if strings.TrimSpace(query) == "" || name == "" {
		return []Segment{{Text: name}}
	}

	lowerName := strings.ToLower(name)
	lowerQuery := strings.ToLower(query)
	// Lowercasing can change byte lengths outside ASCII
	if len(lowerName) != len(name) || len(lowerQuery) != len(query) {
		return []Segment{{Text: name}}
	}

	var segments []Segment
	pos := 0
	for pos < len(name) {
		i := strings.Index(lowerName[pos:], lowerQuery)
		if i < 0 {
			break
		}
		if i > 0 {
			segments = append(segments, Segment{Text: name[pos : pos+i]})
		}
		end := pos + i + len(query)
		segments = append(segments, Segment{Text: name[pos+i : end], Match: true})
		pos = end
	}
	if pos < len(name) {
		segments = append(segments, Segment{Text: name[pos:]})
	}
	return segments
}
