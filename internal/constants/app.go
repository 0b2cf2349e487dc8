// Package constants holds the fixed limits and timings of the upload dialog.
package constants

import (
	"time"
)

// Batch limits
const (
	// MaxBatchFiles is the hard cap on entries held by one upload session.
	// Not configurable: the dialog advertises "Maximum 10 files".
	MaxBatchFiles = 10
)

// AcceptedExtensions lists the file suffixes the intake accepts.
// Matching is a case-insensitive suffix comparison on the file name.
var AcceptedExtensions = []string{".tif", ".tiff"}

// Transfer simulation timings
const (
	// DefaultStartDelay - delay between StartBatch and the first progress tick (500ms)
	DefaultStartDelay = 500 * time.Millisecond

	// DefaultTickInterval - delay between consecutive progress ticks (200ms)
	DefaultTickInterval = 200 * time.Millisecond

	// DefaultCompletionDelay - delay between the tick that made every entry
	// terminal and the completion callback (500ms)
	DefaultCompletionDelay = 500 * time.Millisecond

	// MaxProgressIncrement - upper bound of the per-tick progress step.
	// Each step is drawn from (0, MaxProgressIncrement].
	MaxProgressIncrement = 10.0

	// ProgressComplete - progress value of a finished entry
	ProgressComplete = 100.0
)

// Event bus sizing
const (
	// EventBusDefaultBuffer - per-subscriber channel buffer when none is configured
	EventBusDefaultBuffer = 256

	// EventBusMaxBuffer - upper bound for configured buffers
	EventBusMaxBuffer = 10000
)

// Display
const (
	// ConsoleTimeFormat is the timestamp layout used by console log output.
	ConsoleTimeFormat = "15:04:05"

	// AppName is used for desktop notification titles and config paths.
	AppName = "SplatView"
)
