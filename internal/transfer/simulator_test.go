package transfer

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splatview/splatview/internal/events"
	"github.com/splatview/splatview/internal/models"
	"github.com/splatview/splatview/internal/scheduler"
)

// sliceStore is a minimal EntryStore over a mutex-guarded slice.
type sliceStore struct {
	mu      sync.Mutex
	entries []models.FileEntry
	calls   int
}

func (s *sliceStore) UpdateEntries(fn func(entries []models.FileEntry)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	fn(s.entries)
}

func (s *sliceStore) snapshot() []models.FileEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.FileEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

func newEntries(n int) []models.FileEntry {
	entries := make([]models.FileEntry, n)
	for i := range entries {
		entries[i] = models.FileEntry{
			ID:     fmt.Sprintf("file-%d", i),
			Handle: models.FileHandle{Name: fmt.Sprintf("scan-%d.tif", i), Size: int64(i + 1)},
			Status: models.StatusPending,
		}
	}
	return entries
}

func TestSimulatorBegin(t *testing.T) {
	sim := NewSimulator(scheduler.NewManual(time.Time{}))
	entries := newEntries(3)
	entries[2].Status = models.StatusSuccess

	assert.Equal(t, 2, sim.Begin(entries))
	assert.Equal(t, models.StatusTransferring, entries[0].Status)
	assert.Equal(t, models.StatusTransferring, entries[1].Status)
	assert.Equal(t, models.StatusSuccess, entries[2].Status)
}

func TestSimulatorTickProgressIsMonotonic(t *testing.T) {
	sim := NewSimulator(scheduler.NewManual(time.Time{}), WithRand(SeededRand(42)))
	entries := newEntries(4)
	sim.Begin(entries)

	prev := make([]float64, len(entries))
	for tick := 1; tick <= 1000; tick++ {
		done := sim.Tick(entries, tick)
		for i, e := range entries {
			require.GreaterOrEqual(t, e.Progress, prev[i], "entry %d went backwards", i)
			require.LessOrEqual(t, e.Progress, 100.0)
			if e.Status == models.StatusSuccess {
				require.Equal(t, 100.0, e.Progress)
			}
			prev[i] = e.Progress
		}
		if done {
			return
		}
	}
	t.Fatal("batch did not converge")
}

// The completion check must look at the entries the tick just updated.
// Checking a copy taken before the tick would report "not done" on the tick
// that finishes the batch (one extra tick) or, if the copy were taken before
// Begin, never report done at all. Which of those the old dialog intended
// is ambiguous; this pins the live-state behavior.
func TestTickCompletionReadsLiveEntries(t *testing.T) {
	sim := NewSimulator(scheduler.NewManual(time.Time{}), WithRand(NewSequenceRand(0)))
	entries := newEntries(2)
	sim.Begin(entries)

	for tick := 1; tick < 10; tick++ {
		assert.False(t, sim.Tick(entries, tick), "tick %d", tick)
	}
	assert.True(t, sim.Tick(entries, 10), "the tick reaching 100 reports completion")
}

func TestSimulatorRunTimeline(t *testing.T) {
	clock := scheduler.NewManual(time.Time{})
	sim := NewSimulator(clock, WithRand(NewSequenceRand(0))) // +10 per tick
	store := &sliceStore{entries: newEntries(3)}
	sim.Begin(store.entries)

	var results []RunResult
	sim.Run(store, func(r RunResult) { results = append(results, r) })

	// First tick at 500ms, tenth at 500+9*200=2300ms, completion at 2800ms
	clock.Advance(499 * time.Millisecond)
	assert.Zero(t, store.calls)
	clock.Advance(time.Millisecond)
	assert.Equal(t, 1, store.calls)
	assert.InDelta(t, 10, store.snapshot()[0].Progress, 1e-9)

	clock.Advance(1800 * time.Millisecond)
	assert.Equal(t, 10, store.calls)
	for _, e := range store.snapshot() {
		assert.Equal(t, models.StatusSuccess, e.Status)
	}
	assert.Empty(t, results, "completion waits for the completion delay")

	clock.Advance(499 * time.Millisecond)
	assert.Empty(t, results)
	clock.Advance(time.Millisecond)
	require.Len(t, results, 1)
	assert.Equal(t, 10, results[0].Ticks)
	assert.Equal(t, 2800*time.Millisecond, results[0].Duration)

	clock.Advance(time.Minute)
	assert.Len(t, results, 1, "completion fires exactly once")
	assert.Zero(t, clock.Pending())
}

func TestSimulatorRunCustomTimings(t *testing.T) {
	clock := scheduler.NewManual(time.Time{})
	sim := NewSimulator(clock,
		WithRand(NewSequenceRand(0)),
		WithTimings(Timings{StartDelay: 0, TickInterval: time.Millisecond, CompletionDelay: 0}),
	)
	store := &sliceStore{entries: newEntries(1)}
	sim.Begin(store.entries)

	done := false
	sim.Run(store, func(RunResult) { done = true })
	clock.RunUntilIdle(100)

	assert.True(t, done)
	assert.Equal(t, Timings{TickInterval: time.Millisecond}, sim.Timings())
}

func TestSimulatorFaultDoesNotAbortBatch(t *testing.T) {
	clock := scheduler.NewManual(time.Time{})
	faults := FaultFunc(func(e models.FileEntry, tick int) error {
		if e.ID == "file-1" && tick == 3 {
			return errors.New("checksum mismatch")
		}
		return nil
	})
	sim := NewSimulator(clock, WithRand(NewSequenceRand(0.5)), WithFaults(faults))
	store := &sliceStore{entries: newEntries(3)}
	sim.Begin(store.entries)

	var result *RunResult
	sim.Run(store, func(r RunResult) { result = &r })
	clock.RunUntilIdle(1000)

	require.NotNil(t, result)
	assert.Equal(t, 20, result.Ticks) // +5 per tick
	entries := store.snapshot()
	assert.Equal(t, models.StatusSuccess, entries[0].Status)
	assert.Equal(t, models.StatusError, entries[1].Status)
	assert.Equal(t, "checksum mismatch", entries[1].ErrorMessage)
	assert.InDelta(t, 10, entries[1].Progress, 1e-9)
	assert.Equal(t, models.StatusSuccess, entries[2].Status)
}

func TestSimulatorPublishesEvents(t *testing.T) {
	bus := events.NewEventBus(64)
	defer bus.Close()
	ch := bus.SubscribeAll()

	sim := NewSimulator(scheduler.NewManual(time.Time{}), WithRand(NewSequenceRand(0)), WithEventBus(bus))
	entries := newEntries(1)
	sim.Begin(entries)
	for tick := 1; !sim.Tick(entries, tick); tick++ {
	}

	counts := map[events.EventType]int{}
	for len(ch) > 0 {
		ev := <-ch
		counts[ev.Type()]++
		if ev.Type() == events.EventTransferCompleted {
			entry := ev.(*events.EntryEvent)
			assert.Equal(t, "file-0", entry.EntryID)
			assert.Equal(t, 100.0, entry.Progress)
			assert.Equal(t, "success", entry.Status)
		}
	}
	assert.Equal(t, 1, counts[events.EventTransferStarted])
	assert.Equal(t, 9, counts[events.EventTransferProgress])
	assert.Equal(t, 1, counts[events.EventTransferCompleted])
}
