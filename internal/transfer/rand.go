package transfer

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/splatview/splatview/internal/constants"
	"github.com/splatview/splatview/internal/models"
)

// RandSource supplies uniform values in [0, 1). *rand.Rand satisfies it.
type RandSource interface {
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// DefaultRand draws from the math/rand/v2 global source.
func DefaultRand() RandSource { return globalRand{} }

// SeededRand returns a reproducible source.
func SeededRand(seed uint64) RandSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// SequenceRand replays a fixed list of values, cycling when exhausted.
// Safe for concurrent use.
type SequenceRand struct {
	mu     sync.Mutex
	values []float64
	next   int
}

// NewSequenceRand creates a source replaying values. With no values it
// always returns 0, which yields the maximum increment.
func NewSequenceRand(values ...float64) *SequenceRand {
	return &SequenceRand{values: values}
}

// Float64 returns the next value in the sequence.
func (s *SequenceRand) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

// Increment maps a uniform [0, 1) draw onto (0, MaxProgressIncrement].
// Out-of-range draws are clamped into the interval.
func Increment(r RandSource) float64 {
	u := r.Float64()
	if u < 0 {
		u = 0
	}
	inc := (1 - u) * constants.MaxProgressIncrement
	if inc <= 0 {
		// A draw of exactly 1 would stall the entry
		inc = constants.MaxProgressIncrement / 1000
	}
	return inc
}

// FaultInjector decides whether a transferring entry fails on a tick.
// A non-nil error moves the entry to error with that message.
type FaultInjector interface {
	Fault(entry models.FileEntry, tick int) error
}

// FaultFunc adapts a function to FaultInjector.
type FaultFunc func(entry models.FileEntry, tick int) error

// Fault calls f.
func (f FaultFunc) Fault(entry models.FileEntry, tick int) error { return f(entry, tick) }

// RandomFaults fails each transferring entry with probability rate per tick.
// A rate of zero or less never faults.
func RandomFaults(rate float64, r RandSource) FaultInjector {
	if r == nil {
		r = DefaultRand()
	}
	return FaultFunc(func(entry models.FileEntry, tick int) error {
		if rate <= 0 || r.Float64() >= rate {
			return nil
		}
		return fmt.Errorf("simulated transfer failure at %.0f%%", entry.Progress)
	})
}
