// Package intake validates files offered to the upload dialog and splits them
// into entries to append and rejections to report.
package intake

import (
	"strings"

	"github.com/google/uuid"

	"github.com/splatview/splatview/internal/constants"
	"github.com/splatview/splatview/internal/models"
	"github.com/splatview/splatview/internal/notify"
)

// Reason classifies why an offered file was not accepted.
type Reason string

const (
	ReasonInvalidType Reason = "invalid-type"
	ReasonDuplicate   Reason = "duplicate"
	ReasonBatchFull   Reason = "batch-full"
)

// Rejection is one reportable refusal. Batch-full rejections are aggregated:
// Name is empty and Count holds the number of files that did not fit.
type Rejection struct {
	Reason Reason
	Name   string
	Count  int
}

// Notification renders the rejection as a user-facing message.
func (r Rejection) Notification() notify.Notification {
	switch r.Reason {
	case ReasonInvalidType:
		return notify.InvalidType(r.Name)
	case ReasonDuplicate:
		return notify.Duplicate(r.Name)
	default:
		return notify.BatchFull()
	}
}

// Result is the outcome of one offer.
type Result struct {
	Accepted   []models.FileEntry
	Rejections []Rejection
}

// Overflow returns the number of files dropped because the batch was full.
func (r Result) Overflow() int {
	for _, rej := range r.Rejections {
		if rej.Reason == ReasonBatchFull {
			return rej.Count
		}
	}
	return 0
}

// Intake applies the extension, duplicate and cap rules.
type Intake struct {
	maxFiles   int
	extensions []string
	newID      func() string
}

// Option configures an Intake.
type Option func(*Intake)

// WithIDGenerator replaces the entry id generator.
func WithIDGenerator(fn func() string) Option {
	return func(in *Intake) {
		if fn != nil {
			in.newID = fn
		}
	}
}

// New creates an Intake with the fixed batch cap and TIF/TIFF extensions.
func New(opts ...Option) *Intake {
	in := &Intake{
		maxFiles:   constants.MaxBatchFiles,
		extensions: constants.AcceptedExtensions,
		newID:      NewEntryID,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// NewEntryID returns a fresh entry identifier.
func NewEntryID() string {
	return "file-" + uuid.NewString()
}

// IsAcceptedName reports whether name ends in a TIF/TIFF extension,
// ignoring case.
func IsAcceptedName(name string) bool {
	return hasExtension(name, constants.AcceptedExtensions)
}

func hasExtension(name string, extensions []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Evaluate checks offered against the current batch. It never mutates
// existing; the caller appends Result.Accepted.
//
// Each rejected file yields exactly one rejection: a bad extension is
// reported as invalid-type without a duplicate check. Duplicates are matched
// against the batch and against files accepted earlier in the same offer.
// Files that survive both checks are accepted in offer order until the cap
// is reached, and the remainder is reported as one batch-full rejection.
func (in *Intake) Evaluate(existing []models.FileEntry, offered []models.FileHandle) Result {
	var res Result
	if len(offered) == 0 {
		return res
	}

	seen := make([]models.FileHandle, 0, len(existing)+len(offered))
	for _, e := range existing {
		seen = append(seen, e.Handle)
	}

	var survivors []models.FileHandle
	for _, h := range offered {
		if !hasExtension(h.Name, in.extensions) {
			res.Rejections = append(res.Rejections, Rejection{Reason: ReasonInvalidType, Name: h.Name, Count: 1})
			continue
		}
		if containsSame(seen, h) {
			res.Rejections = append(res.Rejections, Rejection{Reason: ReasonDuplicate, Name: h.Name, Count: 1})
			continue
		}
		seen = append(seen, h)
		survivors = append(survivors, h)
	}

	available := in.maxFiles - len(existing)
	if available < 0 {
		available = 0
	}
	if len(survivors) > available {
		res.Rejections = append(res.Rejections, Rejection{Reason: ReasonBatchFull, Count: len(survivors) - available})
		survivors = survivors[:available]
	}

	for _, h := range survivors {
		res.Accepted = append(res.Accepted, models.FileEntry{
			ID:     in.newID(),
			Handle: h,
			Status: models.StatusPending,
		})
	}
	return res
}

func containsSame(list []models.FileHandle, h models.FileHandle) bool {
	for _, other := range list {
		if other.SameFile(h) {
			return true
		}
	}
	return false
}
