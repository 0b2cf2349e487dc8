package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/splatview/splatview/internal/events"
	"github.com/splatview/splatview/internal/intake"
	"github.com/splatview/splatview/internal/logging"
	"github.com/splatview/splatview/internal/models"
	"github.com/splatview/splatview/internal/notify"
	"github.com/splatview/splatview/internal/scheduler"
	"github.com/splatview/splatview/internal/transfer"
)

// BatchControllerConfig wires a BatchController. Only Scheduler has no
// usable zero value; nil selects the wall clock.
type BatchControllerConfig struct {
	Scheduler   scheduler.Scheduler
	Rand        transfer.RandSource
	Faults      transfer.FaultInjector
	Timings     *transfer.Timings // nil uses transfer.DefaultTimings
	EventBus    *events.EventBus
	Notifier    notify.Sink
	Consumer    UploadConsumer
	Logger      *logging.Logger
	IDGenerator func() string // nil uses intake.NewEntryID
}

// BatchController owns the entries of one upload session and drives them
// from intake through simulated transfer to completion.
//
// All state is guarded by mu. Scheduler callbacks and API calls may come
// from different goroutines with the real scheduler; the lock serializes
// them. Notifications and consumer callbacks run after mu is released.
type BatchController struct {
	mu        sync.Mutex
	entries   []models.FileEntry
	uploading bool
	batchID   string
	finished  chan struct{} // Closed when the in-flight batch completes

	intake   *intake.Intake
	sim      *transfer.Simulator
	bus      *events.EventBus
	notifier notify.Sink
	consumer UploadConsumer
	logger   *logging.Logger
}

// NewBatchController creates an idle controller with an empty batch.
func NewBatchController(cfg BatchControllerConfig) *BatchController {
	sched := cfg.Scheduler
	if sched == nil {
		sched = scheduler.NewReal()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	simOpts := []transfer.Option{
		transfer.WithRand(cfg.Rand),
		transfer.WithFaults(cfg.Faults),
		transfer.WithEventBus(cfg.EventBus),
		transfer.WithLogger(logger.Named("transfer")),
	}
	if cfg.Timings != nil {
		simOpts = append(simOpts, transfer.WithTimings(*cfg.Timings))
	}

	return &BatchController{
		intake:   intake.New(intake.WithIDGenerator(cfg.IDGenerator)),
		sim:      transfer.NewSimulator(sched, simOpts...),
		bus:      cfg.EventBus,
		notifier: cfg.Notifier,
		consumer: cfg.Consumer,
		logger:   logger,
	}
}

// OfferFiles runs intake against the current batch, appends the accepted
// entries and reports every rejection. Offering nothing is a no-op.
// Files cannot be added while a batch is in flight.
func (c *BatchController) OfferFiles(handles []models.FileHandle) (intake.Result, error) {
	c.mu.Lock()
	if c.uploading {
		c.mu.Unlock()
		c.logger.Debug().Int("files", len(handles)).Msg("Offer ignored: batch in flight")
		return intake.Result{}, ErrBatchInFlight
	}

	res := c.intake.Evaluate(c.entries, handles)
	c.entries = append(c.entries, res.Accepted...)
	size := len(c.entries)
	c.mu.Unlock()

	for _, e := range res.Accepted {
		c.publishEntry(events.EventEntryAdded, e)
		c.logger.Debug().Str("entry", e.ID).Str("name", e.Handle.Name).Int64("size", e.Handle.Size).Msg("File accepted")
	}

	notes := make([]notify.Notification, 0, len(res.Rejections))
	for _, rej := range res.Rejections {
		c.logger.Debug().Str("reason", string(rej.Reason)).Str("name", rej.Name).Int("count", rej.Count).Msg("File rejected")
		if c.bus != nil {
			c.bus.Publish(&events.RejectionEvent{
				BaseEvent: events.NewBaseEvent(events.EventEntryRejected),
				Reason:    string(rej.Reason),
				Name:      rej.Name,
				Count:     rej.Count,
			})
		}
		notes = append(notes, rej.Notification())
	}
	c.notify(notes...)

	if len(handles) > 0 {
		c.logger.Debug().
			Int("offered", len(handles)).
			Int("accepted", len(res.Accepted)).
			Int("rejected", len(res.Rejections)).
			Int("batch_size", size).
			Msg("Offer processed")
	}
	return res, nil
}

// RemoveFile drops a pending entry. Unknown ids and entries of a batch that
// has started are left alone. No notification is raised either way.
func (c *BatchController) RemoveFile(id string) error {
	c.mu.Lock()
	if c.uploading {
		c.mu.Unlock()
		return ErrEntryLocked
	}

	idx := c.indexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return fmt.Errorf("remove %s: %w", id, ErrEntryNotFound)
	}
	removed := c.entries[idx]
	if removed.Status != models.StatusPending {
		c.mu.Unlock()
		return fmt.Errorf("remove %s: %w", id, ErrEntryLocked)
	}
	c.entries = append(c.entries[:idx], c.entries[idx+1:]...)
	c.mu.Unlock()

	c.publishEntry(events.EventEntryRemoved, removed)
	c.logger.Debug().Str("entry", id).Str("name", removed.Handle.Name).Msg("File removed")
	return nil
}

// StartBatch begins the simulated transfer of every entry. An empty batch
// raises the no-files notification and returns ErrNoFiles. Starting while a
// batch is in flight does nothing and returns ErrBatchInFlight.
func (c *BatchController) StartBatch() error {
	c.mu.Lock()
	if c.uploading {
		c.mu.Unlock()
		return ErrBatchInFlight
	}
	if len(c.entries) == 0 {
		c.mu.Unlock()
		c.notify(notify.NoFiles())
		return ErrNoFiles
	}

	c.uploading = true
	c.batchID = uuid.NewString()
	c.finished = make(chan struct{})
	started := c.sim.Begin(c.entries)
	batchID := c.batchID
	c.mu.Unlock()

	c.logger.Info().Str("batch", batchID).Int("files", started).Msg("Batch upload started")
	c.sim.Run(liveBatch{c}, c.onBatchComplete)
	return nil
}

// onBatchComplete runs once per started batch, after every entry is
// terminal. Success handles go to the consumer in batch order, then the
// batch is cleared and the session returns to idle.
func (c *BatchController) onBatchComplete(run transfer.RunResult) {
	c.mu.Lock()
	if !c.uploading {
		c.mu.Unlock()
		return
	}

	var succeeded []models.FileHandle
	for _, e := range c.entries {
		if e.Status == models.StatusSuccess {
			succeeded = append(succeeded, e.Handle)
		}
	}
	stats := transfer.Summarize(c.entries)
	batchID := c.batchID
	finished := c.finished

	c.entries = nil
	c.uploading = false
	c.batchID = ""
	c.finished = nil
	c.mu.Unlock()

	if c.consumer != nil {
		c.consumer.ConfirmUpload(succeeded)
	}
	c.notify(notify.UploadComplete(len(succeeded)))

	if c.bus != nil {
		c.bus.Publish(&events.BatchCompleteEvent{
			BaseEvent:    events.NewBaseEvent(events.EventBatchComplete),
			BatchID:      batchID,
			TotalFiles:   stats.Total(),
			SuccessFiles: stats.Success,
			FailedFiles:  stats.Failed,
			Ticks:        run.Ticks,
			Duration:     run.Duration,
		})
	}

	ev := c.logger.Info()
	if stats.Failed > 0 {
		ev = c.logger.Warn()
	}
	ev.Str("batch", batchID).
		Int("success", stats.Success).
		Int("failed", stats.Failed).
		Int("ticks", run.Ticks).
		Dur("duration", run.Duration).
		Msg("Batch upload complete")

	close(finished)
}

// Entries returns a copy of the batch in order.
func (c *BatchController) Entries() []models.FileEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.FileEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of entries in the batch.
func (c *BatchController) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// IsUploading reports whether a batch is in flight.
func (c *BatchController) IsUploading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uploading
}

// Dismissible reports whether the dialog may be closed by the user.
func (c *BatchController) Dismissible() bool {
	return !c.IsUploading()
}

// Close discards a batch that has not started. Mid-transfer it does nothing
// and returns ErrBatchInFlight.
func (c *BatchController) Close() error {
	c.mu.Lock()
	if c.uploading {
		c.mu.Unlock()
		return ErrBatchInFlight
	}
	discarded := c.entries
	c.entries = nil
	c.mu.Unlock()

	for _, e := range discarded {
		c.publishEntry(events.EventEntryRemoved, e)
	}
	if len(discarded) > 0 {
		c.logger.Debug().Int("files", len(discarded)).Msg("Batch discarded")
	}
	return nil
}

// Wait blocks until the in-flight batch completes or ctx is done.
// It returns immediately when idle.
func (c *BatchController) Wait(ctx context.Context) error {
	c.mu.Lock()
	finished := c.finished
	c.mu.Unlock()

	if finished == nil {
		return nil
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Timings returns the transfer pacing in use.
func (c *BatchController) Timings() transfer.Timings {
	return c.sim.Timings()
}

func (c *BatchController) indexOf(id string) int {
	for i, e := range c.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (c *BatchController) notify(notes ...notify.Notification) {
	if c.notifier == nil {
		return
	}
	for _, n := range notes {
		c.notifier.Notify(n)
	}
}

func (c *BatchController) publishEntry(eventType events.EventType, e models.FileEntry) {
	if c.bus == nil {
		return
	}
	c.bus.PublishEntry(eventType, e.ID, e.Handle.Name, e.Handle.Size, string(e.Status), e.Progress, e.ErrorMessage)
}

// liveBatch exposes the controller's entries to the simulator under lock.
type liveBatch struct {
	c *BatchController
}

func (b liveBatch) UpdateEntries(fn func(entries []models.FileEntry)) {
	b.c.mu.Lock()
	defer b.c.mu.Unlock()
	fn(b.c.entries)
}
