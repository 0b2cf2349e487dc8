// Package notify delivers user-facing outcome messages for the upload dialog.
// Every rejection and every batch completion becomes a Notification that is
// handed to a Sink owned by the surrounding application.
package notify

import (
	"fmt"
	"sync"

	"github.com/splatview/splatview/internal/constants"
)

// Severity distinguishes neutral messages from failures.
type Severity string

const (
	SeverityInfo        Severity = "info"
	SeverityDestructive Severity = "destructive"
)

// Notification is a title/description/severity triple, the toast of the
// original page.
type Notification struct {
	Title       string
	Description string
	Severity    Severity
}

// Sink receives notifications. Implementations must not block for long:
// the batch controller calls Notify while holding its lock.
type Sink interface {
	Notify(n Notification)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(n Notification)

// Notify calls f(n).
func (f SinkFunc) Notify(n Notification) { f(n) }

// Config holds notification configuration.
type Config struct {
	// Enabled determines if notifications are sent at all.
	Enabled bool

	// Desktop forwards notifications to the OS notification center.
	Desktop bool
}

// DefaultConfig returns the default notification configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled: true,
		Desktop: false, // Terminal output is enough for CLI use
	}
}

// Messages emitted by the upload dialog.

// InvalidType is raised for a file whose name lacks a TIF/TIFF extension.
func InvalidType(name string) Notification {
	return Notification{
		Title:       "Invalid file type",
		Description: fmt.Sprintf("%s is not a TIF/TIFF file.", name),
		Severity:    SeverityDestructive,
	}
}

// Duplicate is raised for a file already present in the batch.
func Duplicate(name string) Notification {
	return Notification{
		Title:       "Duplicate file",
		Description: fmt.Sprintf("%s is already in the upload list.", name),
		Severity:    SeverityDestructive,
	}
}

// BatchFull is raised once per offer that overflowed the batch cap.
func BatchFull() Notification {
	return Notification{
		Title:       "Too many files",
		Description: fmt.Sprintf("Maximum %d files can be uploaded at once.", constants.MaxBatchFiles),
		Severity:    SeverityDestructive,
	}
}

// NoFiles is raised when an empty batch is started.
func NoFiles() Notification {
	return Notification{
		Title:       "No files selected",
		Description: "Please select at least one TIF/TIFF file to upload.",
		Severity:    SeverityDestructive,
	}
}

// UploadComplete reports the number of files that reached success.
func UploadComplete(count int) Notification {
	return Notification{
		Title:       "Upload complete",
		Description: fmt.Sprintf("Successfully uploaded %d file(s).", count),
		Severity:    SeverityInfo,
	}
}

// FilesProcessed is raised by the page-level consumer after it receives files.
func FilesProcessed(count int) Notification {
	return Notification{
		Title:       "Files Uploaded",
		Description: fmt.Sprintf("Successfully processed %d files.", count),
		Severity:    SeverityInfo,
	}
}

// ModelSelected is raised when an asset is picked in the sidebar.
func ModelSelected(name string) Notification {
	return Notification{
		Title:       "Model Selected",
		Description: fmt.Sprintf("Loading %s model...", name),
		Severity:    SeverityInfo,
	}
}

// MultiSink fans a notification out to several sinks in order.
type MultiSink []Sink

// Notify forwards n to every non-nil sink.
func (m MultiSink) Notify(n Notification) {
	for _, s := range m {
		if s != nil {
			s.Notify(n)
		}
	}
}

// MemorySink records notifications. Safe for concurrent use.
type MemorySink struct {
	mu    sync.Mutex
	items []Notification
}

// NewMemorySink creates an empty recorder.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Notify records n.
func (m *MemorySink) Notify(n Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, n)
}

// All returns a copy of every recorded notification in arrival order.
func (m *MemorySink) All() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Notification, len(m.items))
	copy(out, m.items)
	return out
}

// Count returns how many notifications were recorded.
func (m *MemorySink) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Reset drops everything recorded so far.
func (m *MemorySink) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
