package progress

import (
	"context"
	"errors"
	"fmt"

	"github.com/splatview/splatview/internal/events"
)

// Renderer drives a BatchView and an aggregate Reporter from the event bus.
// It subscribes on construction so no event published after NewRenderer
// returns is missed.
type Renderer struct {
	bus       *events.EventBus
	view      BatchView
	aggregate Reporter
	ch        <-chan events.Event

	totalFiles int
	progress   map[string]float64 // entry ID -> percent
	bars       map[string]EntryBar
}

// NewRenderer subscribes to bus. aggregate may be nil.
func NewRenderer(bus *events.EventBus, view BatchView, aggregate Reporter, totalFiles int) *Renderer {
	if aggregate == nil {
		aggregate = NewNoOpProgress()
	}
	return &Renderer{
		bus:        bus,
		view:       view,
		aggregate:  aggregate,
		ch:         bus.SubscribeAll(),
		totalFiles: totalFiles,
		progress:   make(map[string]float64),
		bars:       make(map[string]EntryBar),
	}
}

// Run renders until the batch completes, the bus closes or ctx is done.
// It returns the completion event when the batch finished.
func (r *Renderer) Run(ctx context.Context) (*events.BatchCompleteEvent, error) {
	defer r.bus.UnsubscribeAll(r.ch)

	r.aggregate.Start(int64(r.totalFiles)*100, "Uploading")
	for {
		select {
		case <-ctx.Done():
			r.aggregate.Error(ctx.Err())
			return nil, ctx.Err()
		case ev, ok := <-r.ch:
			if !ok {
				return nil, errors.New("event bus closed before batch completed")
			}
			if done := r.handle(ev); done != nil {
				r.aggregate.Finish()
				return done, nil
			}
		}
	}
}

func (r *Renderer) handle(ev events.Event) *events.BatchCompleteEvent {
	switch e := ev.(type) {
	case *events.EntryEvent:
		switch e.Type() {
		case events.EventTransferStarted:
			r.bars[e.EntryID] = r.view.AddEntry(e.EntryID, e.Name, e.Size)
			r.setProgress(e.EntryID, 0)
		case events.EventTransferProgress:
			r.bar(e).SetProgress(e.Progress)
			r.setProgress(e.EntryID, e.Progress)
		case events.EventTransferCompleted:
			r.bar(e).Complete(nil)
			r.setProgress(e.EntryID, 100)
		case events.EventTransferFailed:
			r.bar(e).Complete(errors.New(e.Error))
			r.setProgress(e.EntryID, 100)
		}
	case *events.BatchCompleteEvent:
		r.aggregate.SetDescription(fmt.Sprintf("Uploaded %d/%d", e.SuccessFiles, e.TotalFiles))
		return e
	}
	return nil
}

// bar returns the entry's bar, creating one if transfer_started was dropped.
func (r *Renderer) bar(e *events.EntryEvent) EntryBar {
	if b, ok := r.bars[e.EntryID]; ok {
		return b
	}
	b := r.view.AddEntry(e.EntryID, e.Name, e.Size)
	r.bars[e.EntryID] = b
	return b
}

func (r *Renderer) setProgress(id string, percent float64) {
	r.progress[id] = percent
	var sum float64
	for _, p := range r.progress {
		sum += p
	}
	r.aggregate.Update(int64(sum))
}
