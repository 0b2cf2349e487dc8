package transfer

import (
	"sync/atomic"
	"time"

	"github.com/splatview/splatview/internal/constants"
	"github.com/splatview/splatview/internal/events"
	"github.com/splatview/splatview/internal/logging"
	"github.com/splatview/splatview/internal/models"
	"github.com/splatview/splatview/internal/scheduler"
)

// Timings controls the pace of a simulated batch.
type Timings struct {
	StartDelay      time.Duration // StartBatch to first tick
	TickInterval    time.Duration // Between ticks
	CompletionDelay time.Duration // Final tick to completion callback
}

// DefaultTimings returns the 500ms/200ms/500ms pacing of the upload dialog.
func DefaultTimings() Timings {
	return Timings{
		StartDelay:      constants.DefaultStartDelay,
		TickInterval:    constants.DefaultTickInterval,
		CompletionDelay: constants.DefaultCompletionDelay,
	}
}

// EntryStore gives the simulator serialized access to the live batch.
// UpdateEntries must run fn while holding whatever lock guards the entries;
// fn mutates the slice elements in place.
type EntryStore interface {
	UpdateEntries(fn func(entries []models.FileEntry))
}

// RunResult describes a finished simulation run.
type RunResult struct {
	Ticks    int
	Duration time.Duration
}

// Simulator drives entries through the transfer state machine on a
// scheduler. It holds no batch state of its own; every tick reads the live
// entries through an EntryStore.
type Simulator struct {
	sched   scheduler.Scheduler
	rand    RandSource
	faults  FaultInjector
	bus     *events.EventBus
	logger  *logging.Logger
	timings Timings
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithRand sets the source of progress increments.
func WithRand(r RandSource) Option {
	return func(s *Simulator) {
		if r != nil {
			s.rand = r
		}
	}
}

// WithFaults installs a fault injector. Nil disables faults.
func WithFaults(f FaultInjector) Option {
	return func(s *Simulator) { s.faults = f }
}

// WithEventBus publishes per-entry transfer events to bus.
func WithEventBus(bus *events.EventBus) Option {
	return func(s *Simulator) { s.bus = bus }
}

// WithLogger sets the logger used for per-tick debug output.
func WithLogger(l *logging.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTimings overrides the default pacing.
func WithTimings(t Timings) Option {
	return func(s *Simulator) { s.timings = t }
}

// NewSimulator creates a simulator scheduling on sched.
func NewSimulator(sched scheduler.Scheduler, opts ...Option) *Simulator {
	s := &Simulator{
		sched:   sched,
		rand:    DefaultRand(),
		logger:  logging.NewNopLogger(),
		timings: DefaultTimings(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Timings returns the pacing in use.
func (s *Simulator) Timings() Timings {
	return s.timings
}

// Begin moves every pending entry to transferring at zero progress and
// returns how many changed.
func (s *Simulator) Begin(entries []models.FileEntry) int {
	n := 0
	for i := range entries {
		if Begin(&entries[i]) {
			n++
			s.publish(events.EventTransferStarted, entries[i])
		}
	}
	return n
}

// Tick advances every transferring entry once, in batch order, and reports
// whether the batch is finished. The check runs on the entries just
// updated, never on a copy taken before the tick.
func (s *Simulator) Tick(entries []models.FileEntry, tick int) bool {
	for i := range entries {
		e := &entries[i]
		if e.Status != models.StatusTransferring {
			continue
		}

		if s.faults != nil {
			if err := s.faults.Fault(*e, tick); err != nil {
				Fail(e, err)
				s.logger.Warn().Str("entry", e.ID).Str("name", e.Handle.Name).Err(err).Msg("Transfer failed")
				s.publish(events.EventTransferFailed, *e)
				continue
			}
		}

		Advance(e, Increment(s.rand))
		if e.Status == models.StatusSuccess {
			s.publish(events.EventTransferCompleted, *e)
		} else {
			s.publish(events.EventTransferProgress, *e)
		}
	}

	done := len(entries) == 0 || AllTerminal(entries)
	if ev := s.logger.Debug(); ev.Enabled() {
		stats := Summarize(entries)
		ev.Int("tick", tick).
			Int("transferring", stats.Transferring).
			Int("success", stats.Success).
			Int("failed", stats.Failed).
			Bool("done", done).
			Msg("Transfer tick")
	}
	return done
}

// Run schedules ticks against store until every entry is terminal, then
// calls onComplete once after the completion delay. Begin must already have
// been applied. Run returns immediately; all work happens in scheduler
// callbacks.
func (s *Simulator) Run(store EntryStore, onComplete func(RunResult)) {
	started := s.sched.Now()
	var ticks atomic.Int64

	var tick func()
	tick = func() {
		n := int(ticks.Add(1))
		var done bool
		store.UpdateEntries(func(entries []models.FileEntry) {
			done = s.Tick(entries, n)
		})

		if !done {
			s.sched.AfterFunc(s.timings.TickInterval, tick)
			return
		}
		s.sched.AfterFunc(s.timings.CompletionDelay, func() {
			if onComplete != nil {
				onComplete(RunResult{Ticks: n, Duration: s.sched.Now().Sub(started)})
			}
		})
	}

	s.sched.AfterFunc(s.timings.StartDelay, tick)
}

func (s *Simulator) publish(eventType events.EventType, e models.FileEntry) {
	if s.bus == nil {
		return
	}
	s.bus.PublishEntry(eventType, e.ID, e.Handle.Name, e.Handle.Size, string(e.Status), e.Progress, e.ErrorMessage)
}
