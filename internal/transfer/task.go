// Package transfer simulates the network transfer of a batch of files.
// Each entry moves pending -> transferring -> success (or error) on its own;
// the Simulator advances every transferring entry once per tick.
package transfer

import (
	"github.com/splatview/splatview/internal/constants"
	"github.com/splatview/splatview/internal/models"
)

// Begin moves a pending entry to transferring with zero progress.
// It reports whether the entry changed.
func Begin(e *models.FileEntry) bool {
	if e.Status != models.StatusPending {
		return false
	}
	e.Status = models.StatusTransferring
	e.Progress = 0
	e.ErrorMessage = ""
	return true
}

// Advance adds inc to a transferring entry's progress. Reaching or passing
// ProgressComplete clamps progress to exactly 100 and marks the entry
// success in the same step. Non-positive increments are ignored so progress
// never decreases. It reports whether the entry changed.
func Advance(e *models.FileEntry, inc float64) bool {
	if e.Status != models.StatusTransferring || inc <= 0 {
		return false
	}
	next := e.Progress + inc
	if next >= constants.ProgressComplete {
		e.Progress = constants.ProgressComplete
		e.Status = models.StatusSuccess
		return true
	}
	e.Progress = next
	return true
}

// Fail moves a transferring entry to error. Progress is left where it was.
func Fail(e *models.FileEntry, err error) bool {
	if e.Status != models.StatusTransferring || err == nil {
		return false
	}
	e.Status = models.StatusError
	e.ErrorMessage = err.Error()
	return true
}

// AllTerminal reports whether every entry has reached success or error.
// An empty batch is not considered complete.
func AllTerminal(entries []models.FileEntry) bool {
	if len(entries) == 0 {
		return false
	}
	for _, e := range entries {
		if !e.IsTerminal() {
			return false
		}
	}
	return true
}

// Stats counts entries per status.
type Stats struct {
	Pending      int
	Transferring int
	Success      int
	Failed       int
}

// Total returns the number of entries counted.
func (s Stats) Total() int {
	return s.Pending + s.Transferring + s.Success + s.Failed
}

// Summarize counts entries per status.
func Summarize(entries []models.FileEntry) Stats {
	var s Stats
	for _, e := range entries {
		switch e.Status {
		case models.StatusPending:
			s.Pending++
		case models.StatusTransferring:
			s.Transferring++
		case models.StatusSuccess:
			s.Success++
		case models.StatusError:
			s.Failed++
		}
	}
	return s
}
