package progress

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/term"
)

// barScale is the bar total; percent values are scaled by 10 so the bar
// moves on fractional progress.
const barScale = 1000

// UploadUI manages one progress bar per batch entry using mpb
type UploadUI struct {
	progress   *mpb.Progress
	out        io.Writer
	bars       sync.Map // entry ID -> *FileBar
	isTerminal bool
	totalFiles int
	started    int32 // Atomic counter for entry index (1, 2, 3, ...)
	completed  int32
}

// FileBar represents a single entry's progress bar
type FileBar struct {
	bar       *mpb.Bar
	ui        *UploadUI
	index     int
	name      string
	size      int64
	startTime time.Time
	done      atomic.Bool
}

// NewUploadUI creates an upload UI on stderr for totalFiles entries.
func NewUploadUI(totalFiles int) *UploadUI {
	isTerminal := term.IsTerminal(int(os.Stderr.Fd()))
	if isTerminal {
		// Enable ANSI escape sequences on Windows for proper progress bar rendering
		enableANSIOnWindows(os.Stderr)
	}
	return NewUploadUIWithWriter(totalFiles, os.Stderr, isTerminal)
}

// NewUploadUIWithWriter creates an upload UI on w. With isTerminal false no
// bars are drawn and each entry prints plain start and finish lines.
func NewUploadUIWithWriter(totalFiles int, w io.Writer, isTerminal bool) *UploadUI {
	var p *mpb.Progress
	if isTerminal {
		p = mpb.New(
			mpb.WithOutput(w),
			mpb.WithRefreshRate(150*time.Millisecond),
			mpb.WithWidth(80),
		)
	} else {
		// Non-TTY: disable progress bars, just use text output
		p = mpb.New(mpb.WithOutput(io.Discard))
	}

	return &UploadUI{
		progress:   p,
		out:        w,
		isTerminal: isTerminal,
		totalFiles: totalFiles,
	}
}

// AddEntry creates a new progress bar for an entry.
// Implements the BatchView interface.
func (u *UploadUI) AddEntry(id, name string, size int64) EntryBar {
	if existing, ok := u.bars.Load(id); ok {
		return existing.(*FileBar)
	}

	// Atomic increment to get a unique display index
	index := int(atomic.AddInt32(&u.started, 1))

	fb := &FileBar{
		ui:        u,
		index:     index,
		name:      name,
		size:      size,
		startTime: time.Now(),
	}

	label := fmt.Sprintf("[%d/%d] %s (%s)", index, u.totalFiles, name, FormatSize(size))
	if u.isTerminal {
		fb.bar = u.progress.New(barScale,
			mpb.BarStyle().
				Lbound("[").
				Filler("█"). // U+2588 - Full block for completed portion
				Tip("█").
				Padding("░"). // U+2591 - Light shade for remaining portion
				Rbound("]"),
			mpb.PrependDecorators(
				decor.Name(label, decor.WCSyncSpaceR),
			),
			mpb.AppendDecorators(
				decor.Percentage(decor.WCSyncSpace),
				decor.Name("  "),
				decor.Elapsed(decor.ET_STYLE_GO, decor.WCSyncSpace),
			),
			mpb.BarRemoveOnComplete(),
		)
	} else {
		// Non-TTY: print simple start message
		fmt.Fprintf(u.out, "Uploading %s\n", label)
	}

	u.bars.Store(id, fb)
	return fb
}

// Entry returns the bar registered for id.
func (u *UploadUI) Entry(id string) (*FileBar, bool) {
	v, ok := u.bars.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*FileBar), true
}

// SetProgress moves the bar to percent (0 to 100).
func (f *FileBar) SetProgress(percent float64) {
	if f.bar == nil || f.done.Load() {
		return
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	// Stay one unit short so only Complete finishes the bar
	cur := int64(percent * barScale / 100)
	if cur >= barScale {
		cur = barScale - 1
	}
	f.bar.SetCurrent(cur)
}

// Complete marks the entry as finished and prints a summary.
// Subsequent calls are ignored.
func (f *FileBar) Complete(err error) {
	if !f.done.CompareAndSwap(false, true) {
		return
	}
	elapsed := time.Since(f.startTime)

	var msg string
	if err == nil {
		if f.bar != nil {
			// ENSURE exact 100% completion (no rounding errors)
			f.bar.SetCurrent(barScale)
			f.bar.SetTotal(barScale, true) // Mark done, trigger BarRemoveOnComplete
		}
		msg = fmt.Sprintf("✓ %s (%s, %s)\n", f.name, FormatSize(f.size), elapsed.Round(10*time.Millisecond))
	} else {
		// Error: keep bar visible if terminal, print error
		if f.bar != nil {
			f.bar.Abort(false) // false = don't remove (show failure)
		}
		msg = fmt.Sprintf("✗ %s: %v\n", f.name, err)
	}

	// Write through mpb's writer (not the raw output) to avoid breaking redraws
	_, _ = io.WriteString(f.ui.Writer(), msg)
	atomic.AddInt32(&f.ui.completed, 1)
}

// Completed returns how many entries have finished.
func (u *UploadUI) Completed() int {
	return int(atomic.LoadInt32(&u.completed))
}

// Wait blocks until all progress bars complete
func (u *UploadUI) Wait() {
	if u.progress != nil {
		u.progress.Wait()
	}
}

// Writer returns an io.Writer for output during progress operations.
// Implements the BatchView interface.
func (u *UploadUI) Writer() io.Writer {
	if u.progress != nil && u.isTerminal {
		return u.progress
	}
	return u.out
}

// IsTerminal returns true if output is to a terminal (progress bars are active).
// Implements the BatchView interface.
func (u *UploadUI) IsTerminal() bool {
	return u.isTerminal
}

// FormatSize renders a byte count with a binary unit.
func FormatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 4; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTP"[exp])
}

// enableANSIOnWindows enables Virtual Terminal processing on Windows for ANSI escape sequences
// This is a no-op on non-Windows platforms
func enableANSIOnWindows(f *os.File) {
	if runtime.GOOS == "windows" {
		enableWindowsANSI(f)
	}
}
