package models

// EntryStatus is the lifecycle state of one FileEntry.
type EntryStatus string

const (
	StatusPending      EntryStatus = "pending"      // Accepted, waiting for the batch to start
	StatusTransferring EntryStatus = "transferring" // Progress is advancing
	StatusSuccess      EntryStatus = "success"      // Reached 100
	StatusError        EntryStatus = "error"        // Failed, ErrorMessage is set
)

// IsTerminal returns true for success and error.
func (s EntryStatus) IsTerminal() bool {
	return s == StatusSuccess || s == StatusError
}

// FileEntry is one file's intake/transfer record inside a batch.
//
// Progress is meaningful only while Status is transferring or success.
// ErrorMessage is set only when Status is error.
type FileEntry struct {
	ID           string      `json:"id"`
	Handle       FileHandle  `json:"handle"`
	Status       EntryStatus `json:"status"`
	Progress     float64     `json:"progress"`
	ErrorMessage string      `json:"errorMessage,omitempty"`
}

// IsTerminal returns true if the entry will not transition again.
func (e FileEntry) IsTerminal() bool {
	return e.Status.IsTerminal()
}
