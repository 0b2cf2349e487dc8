// Package services provides frontend-agnostic upload orchestration.
// The BatchController owns one upload dialog session; any front-end drives
// it through method calls and observes it through the event bus.
package services

import (
	"errors"

	"github.com/splatview/splatview/internal/logging"
	"github.com/splatview/splatview/internal/models"
	"github.com/splatview/splatview/internal/notify"
)

// Sentinel errors returned by BatchController. None of them is fatal to
// the session; callers may ignore them and rely on notifications.
var (
	ErrNoFiles       = errors.New("no files selected")
	ErrBatchInFlight = errors.New("batch upload in progress")
	ErrEntryNotFound = errors.New("entry not found")
	ErrEntryLocked   = errors.New("entry is no longer pending")
)

// UploadConsumer receives the files of a completed batch that reached
// success, in batch order.
type UploadConsumer interface {
	ConfirmUpload(handles []models.FileHandle)
}

// ConsumerFunc adapts a function to UploadConsumer.
type ConsumerFunc func(handles []models.FileHandle)

// ConfirmUpload calls f(handles).
func (f ConsumerFunc) ConfirmUpload(handles []models.FileHandle) { f(handles) }

// LoggingConsumer is the page-level consumer: it logs the received files
// and confirms them to the user.
type LoggingConsumer struct {
	logger *logging.Logger
	sink   notify.Sink
}

// NewLoggingConsumer creates a consumer. Either argument may be nil.
func NewLoggingConsumer(logger *logging.Logger, sink notify.Sink) *LoggingConsumer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &LoggingConsumer{logger: logger, sink: sink}
}

// ConfirmUpload logs each handle and raises "Files Uploaded" when at least
// one file arrived.
func (c *LoggingConsumer) ConfirmUpload(handles []models.FileHandle) {
	for _, h := range handles {
		c.logger.Info().Str("name", h.Name).Int64("size", h.Size).Str("path", h.Path).Msg("File received")
	}
	if len(handles) > 0 && c.sink != nil {
		c.sink.Notify(notify.FilesProcessed(len(handles)))
	}
}
