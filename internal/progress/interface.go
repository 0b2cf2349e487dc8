package progress

import "io"

// BatchView renders the entries of an upload batch. UploadUI is the
// terminal implementation.
type BatchView interface {
	// AddEntry creates a progress bar for one entry
	AddEntry(id, name string, size int64) EntryBar

	// Wait blocks until all progress bars complete
	Wait()

	// Writer returns an io.Writer that safely outputs above the progress bars.
	Writer() io.Writer

	// IsTerminal returns true if output is to a terminal (progress bars are active)
	IsTerminal() bool
}

// EntryBar is a handle to a single entry's progress bar
type EntryBar interface {
	// SetProgress moves the bar to percent (0 to 100)
	SetProgress(percent float64)

	// Complete marks the entry as finished and prints a summary line
	Complete(err error)
}
