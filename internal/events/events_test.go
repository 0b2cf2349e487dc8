package events

import (
	"testing"
	"time"
)

func TestEventBus_PublishSubscribe(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	ch := bus.Subscribe(EventTransferProgress)

	bus.Publish(&EntryEvent{
		BaseEvent: NewBaseEvent(EventTransferProgress),
		EntryID:   "file-1",
		Name:      "scan.tif",
		Status:    "transferring",
		Progress:  42.5,
	})

	select {
	case received := <-ch:
		entry, ok := received.(*EntryEvent)
		if !ok {
			t.Fatal("Expected EntryEvent")
		}
		if entry.Name != "scan.tif" {
			t.Errorf("Expected name 'scan.tif', got '%s'", entry.Name)
		}
		if entry.Progress != 42.5 {
			t.Errorf("Expected progress 42.5, got %f", entry.Progress)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for event")
	}
}

func TestEventBus_MultipleSubscribers(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	ch1 := bus.Subscribe(EventNotification)
	ch2 := bus.Subscribe(EventNotification)

	bus.PublishNotification("Upload complete", "Successfully uploaded 1 file(s).", "info")

	received1 := false
	received2 := false

	select {
	case <-ch1:
		received1 = true
	case <-time.After(100 * time.Millisecond):
	}

	select {
	case <-ch2:
		received2 = true
	case <-time.After(100 * time.Millisecond):
	}

	if !received1 || !received2 {
		t.Error("Not all subscribers received the event")
	}
}

func TestEventBus_DifferentEventTypes(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	progressCh := bus.Subscribe(EventTransferProgress)
	completeCh := bus.Subscribe(EventBatchComplete)

	bus.PublishEntry(EventTransferProgress, "file-1", "a.tif", 10, "transferring", 5, "")

	select {
	case <-progressCh:
	case <-time.After(100 * time.Millisecond):
		t.Error("Progress subscriber didn't receive event")
	}

	select {
	case <-completeCh:
		t.Error("Batch subscriber received wrong event type")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEventBus_SubscribeAll(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	allCh := bus.SubscribeAll()

	bus.PublishEntry(EventEntryAdded, "file-1", "a.tif", 10, "pending", 0, "")
	bus.Publish(&BatchCompleteEvent{
		BaseEvent:    NewBaseEvent(EventBatchComplete),
		TotalFiles:   1,
		SuccessFiles: 1,
	})

	count := 0
	for i := 0; i < 2; i++ {
		select {
		case <-allCh:
			count++
		case <-time.After(100 * time.Millisecond):
		}
	}

	if count != 2 {
		t.Errorf("Expected to receive 2 events, got %d", count)
	}
}

func TestEventBus_NonBlocking(t *testing.T) {
	bus := NewEventBus(2)
	defer bus.Close()

	ch := bus.Subscribe(EventTransferProgress)

	for i := 0; i < 10; i++ {
		bus.PublishEntry(EventTransferProgress, "file-1", "a.tif", 10, "transferring", float64(i), "")
	}

	if got := bus.GetDroppedEventCount(); got != 8 {
		t.Errorf("Dropped count = %d, want 8", got)
	}

	count := 0
	for {
		select {
		case <-ch:
			count++
		case <-time.After(10 * time.Millisecond):
			goto done
		}
	}
done:

	if count != 2 {
		t.Errorf("Expected 2 buffered events, got %d", count)
	}

	if reset := bus.ResetDroppedEventCount(); reset != 8 {
		t.Errorf("ResetDroppedEventCount = %d, want 8", reset)
	}
	if bus.GetDroppedEventCount() != 0 {
		t.Error("Dropped count should be zero after reset")
	}
}

func TestEventBus_Close(t *testing.T) {
	bus := NewEventBus(10)

	ch := bus.Subscribe(EventTransferProgress)

	bus.Close()

	_, ok := <-ch
	if ok {
		t.Error("Channel should be closed after bus.Close()")
	}

	// Publishing after close should not panic
	bus.PublishNotification("x", "y", "info")

	// Subscribing after close yields a closed channel
	late := bus.Subscribe(EventNotification)
	if _, ok := <-late; ok {
		t.Error("Subscribe after Close should return a closed channel")
	}
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	ch := bus.Subscribe(EventEntryRemoved)
	bus.Unsubscribe(EventEntryRemoved, ch)

	if _, ok := <-ch; ok {
		t.Error("Unsubscribed channel should be closed")
	}

	// Must not panic on a closed subscriber list entry
	bus.PublishEntry(EventEntryRemoved, "file-1", "a.tif", 10, "pending", 0, "")

	all := bus.SubscribeAll()
	bus.UnsubscribeAll(all)
	if _, ok := <-all; ok {
		t.Error("UnsubscribeAll channel should be closed")
	}
}

func TestNewEventBus_BufferBounds(t *testing.T) {
	if bus := NewEventBus(0); bus.bufferSize <= 0 {
		t.Errorf("bufferSize = %d, want default", bus.bufferSize)
	}
	if bus := NewEventBus(1 << 30); bus.bufferSize != 10000 {
		t.Errorf("bufferSize = %d, want capped at 10000", bus.bufferSize)
	}
}
