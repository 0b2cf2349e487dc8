// Package progress renders upload batch progress in the terminal: one mpb
// bar per entry plus an optional aggregate progressbar, both driven by the
// event bus.
package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Reporter tracks aggregate progress of a whole batch.
type Reporter interface {
	Start(total int64, description string)
	Update(current int64)
	Finish()
	Error(err error)
	SetDescription(desc string)
}

// CLIProgress implements Reporter with a single progress bar.
type CLIProgress struct {
	bar *progressbar.ProgressBar
	out io.Writer
}

// NewCLIProgress creates a reporter writing to stderr.
func NewCLIProgress() *CLIProgress {
	return NewCLIProgressTo(os.Stderr)
}

// NewCLIProgressTo creates a reporter writing to w.
func NewCLIProgressTo(w io.Writer) *CLIProgress {
	return &CLIProgress{out: w}
}

// Start initializes the progress bar with total size and description.
func (p *CLIProgress) Start(total int64, description string) {
	out := p.out
	p.bar = progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(out, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// Update updates the progress bar to the current position.
func (p *CLIProgress) Update(current int64) {
	if p.bar != nil {
		_ = p.bar.Set64(current)
	}
}

// Finish completes the progress bar.
func (p *CLIProgress) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

// Error displays an error message.
func (p *CLIProgress) Error(err error) {
	if err != nil {
		fmt.Fprintf(p.out, "\nError: %v\n", err)
	}
}

// SetDescription updates the progress bar description.
func (p *CLIProgress) SetDescription(desc string) {
	if p.bar != nil {
		p.bar.Describe(desc)
	}
}

// Current returns the last position set, or zero before Start.
func (p *CLIProgress) Current() int64 {
	if p.bar == nil {
		return 0
	}
	return p.bar.State().CurrentNum
}

// NoOpProgress is a progress reporter that does nothing (for background/silent operations).
type NoOpProgress struct{}

// NewNoOpProgress creates a new no-op progress reporter.
func NewNoOpProgress() *NoOpProgress {
	return &NoOpProgress{}
}

// Start does nothing.
func (p *NoOpProgress) Start(total int64, description string) {}

// Update does nothing.
func (p *NoOpProgress) Update(current int64) {}

// Finish does nothing.
func (p *NoOpProgress) Finish() {}

// Error does nothing.
func (p *NoOpProgress) Error(err error) {}

// SetDescription does nothing.
func (p *NoOpProgress) SetDescription(desc string) {}
