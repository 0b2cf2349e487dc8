// Package events provides the event bus the upload dialog publishes to.
// Any front-end (CLI bars, logs, a web page) subscribes and redraws from it.
package events

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/splatview/splatview/internal/constants"
)

// EventType defines the types of events that can be emitted
type EventType string

const (
	// Batch entry list events
	EventEntryAdded    EventType = "entry_added"    // Intake accepted a file
	EventEntryRejected EventType = "entry_rejected" // Intake rejected one or more files
	EventEntryRemoved  EventType = "entry_removed"  // User removed a pending file

	// Transfer events
	EventTransferStarted   EventType = "transfer_started"   // Entry moved pending -> transferring
	EventTransferProgress  EventType = "transfer_progress"  // Progress advanced on a tick
	EventTransferCompleted EventType = "transfer_completed" // Entry reached success
	EventTransferFailed    EventType = "transfer_failed"    // Entry reached error

	// EventBatchComplete is published once per started batch, after every entry is terminal.
	EventBatchComplete EventType = "batch_complete"

	// EventNotification carries a user-facing message (toast equivalent).
	EventNotification EventType = "notification"

	// Sidebar and toolbar state events
	EventAssetListChanged    EventType = "asset_list_changed"
	EventAssetSelected       EventType = "asset_selected"
	EventViewSettingsChanged EventType = "view_settings_changed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
	Timestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventType EventType
	Time      time.Time
}

func (e BaseEvent) Type() EventType      { return e.EventType }
func (e BaseEvent) Timestamp() time.Time { return e.Time }

// NewBaseEvent stamps an event type with the current time.
func NewBaseEvent(eventType EventType) BaseEvent {
	return BaseEvent{EventType: eventType, Time: time.Now()}
}

// EntryEvent reports a change to a single batch entry.
type EntryEvent struct {
	BaseEvent
	EntryID  string
	Name     string  // File name
	Size     int64   // File size in bytes
	Status   string  // Entry status after the change
	Progress float64 // 0 to 100
	Error    string  // Error message if failed
}

// RejectionEvent reports files refused by intake.
type RejectionEvent struct {
	BaseEvent
	Reason string // "invalid-type", "duplicate", "batch-full"
	Name   string // Offending file, empty for batch-full
	Count  int    // Number of files covered by this rejection
}

// BatchCompleteEvent reports the aggregated result of a batch.
type BatchCompleteEvent struct {
	BaseEvent
	BatchID      string
	TotalFiles   int
	SuccessFiles int
	FailedFiles  int
	Ticks        int
	Duration     time.Duration
}

// NotificationEvent carries a user-facing message.
type NotificationEvent struct {
	BaseEvent
	Title       string
	Description string
	Severity    string // "info" or "destructive"
}

// EventBus manages event subscriptions and publishing
type EventBus struct {
	subscribers   map[EventType][]chan Event
	all           []chan Event // Subscribers to all events
	mu            sync.RWMutex
	bufferSize    int
	closed        bool
	droppedEvents atomic.Int64 // Count of dropped events due to full buffers
}

// NewEventBus creates a new event bus with specified buffer size
func NewEventBus(bufferSize int) *EventBus {
	if bufferSize <= 0 {
		bufferSize = constants.EventBusDefaultBuffer
	}
	if bufferSize > constants.EventBusMaxBuffer {
		bufferSize = constants.EventBusMaxBuffer
	}
	return &EventBus{
		subscribers: make(map[EventType][]chan Event),
		all:         make([]chan Event, 0),
		bufferSize:  bufferSize,
	}
}

// Subscribe creates a subscription to a specific event type
func (eb *EventBus) Subscribe(eventType EventType) <-chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, eb.bufferSize)
	eb.subscribers[eventType] = append(eb.subscribers[eventType], ch)
	return ch
}

// SubscribeAll creates a subscription to all events
func (eb *EventBus) SubscribeAll() <-chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, eb.bufferSize)
	eb.all = append(eb.all, ch)
	return ch
}

// Publish sends an event to all subscribers without blocking.
// Events for a full subscriber are dropped and counted.
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if eb.closed {
		return
	}

	for _, ch := range eb.subscribers[event.Type()] {
		select {
		case ch <- event:
		default:
			eb.droppedEvents.Add(1)
		}
	}

	for _, ch := range eb.all {
		select {
		case ch <- event:
		default:
			eb.droppedEvents.Add(1)
		}
	}
}

// Close shuts down the event bus and closes all channels
func (eb *EventBus) Close() {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		return
	}

	eb.closed = true

	for _, channels := range eb.subscribers {
		for _, ch := range channels {
			close(ch)
		}
	}

	for _, ch := range eb.all {
		close(ch)
	}
}

// PublishEntry is a convenience method for publishing entry events
func (eb *EventBus) PublishEntry(eventType EventType, entryID, name string, size int64, status string, progress float64, errMsg string) {
	eb.Publish(&EntryEvent{
		BaseEvent: NewBaseEvent(eventType),
		EntryID:   entryID,
		Name:      name,
		Size:      size,
		Status:    status,
		Progress:  progress,
		Error:     errMsg,
	})
}

// PublishNotification is a convenience method for publishing notification events
func (eb *EventBus) PublishNotification(title, description, severity string) {
	eb.Publish(&NotificationEvent{
		BaseEvent:   NewBaseEvent(EventNotification),
		Title:       title,
		Description: description,
		Severity:    severity,
	})
}

// Unsubscribe removes a subscription channel from a specific event type
func (eb *EventBus) Unsubscribe(eventType EventType, ch <-chan Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		return
	}

	subscribers := eb.subscribers[eventType]
	for i, subCh := range subscribers {
		if subCh == ch {
			close(subCh)
			subscribers[i] = subscribers[len(subscribers)-1]
			eb.subscribers[eventType] = subscribers[:len(subscribers)-1]
			break
		}
	}
}

// UnsubscribeAll removes a SubscribeAll channel.
func (eb *EventBus) UnsubscribeAll(ch <-chan Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		return
	}

	for i, subCh := range eb.all {
		if subCh == ch {
			close(subCh)
			eb.all[i] = eb.all[len(eb.all)-1]
			eb.all = eb.all[:len(eb.all)-1]
			break
		}
	}
}

// GetDroppedEventCount returns the total number of events dropped due to full buffers
func (eb *EventBus) GetDroppedEventCount() int64 {
	return eb.droppedEvents.Load()
}

// ResetDroppedEventCount resets the dropped event counter to zero
func (eb *EventBus) ResetDroppedEventCount() int64 {
	return eb.droppedEvents.Swap(0)
}
