package progress

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/splatview/splatview/internal/events"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1024 * 1024, "1.0 MiB"},
		{5 * 1024 * 1024 * 1024, "5.0 GiB"},
	}
	for _, tt := range tests {
		if got := FormatSize(tt.in); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUploadUINonTerminal(t *testing.T) {
	var buf bytes.Buffer
	ui := NewUploadUIWithWriter(2, &buf, false)

	if ui.IsTerminal() {
		t.Fatal("Expected non-terminal UI")
	}

	a := ui.AddEntry("file-a", "a.tif", 10)
	b := ui.AddEntry("file-b", "b.tif", 2048)
	a.SetProgress(50) // no bar, must not panic
	a.Complete(nil)
	a.Complete(nil) // ignored
	b.Complete(errors.New("checksum mismatch"))
	ui.Wait()

	out := buf.String()
	for _, want := range []string{
		"Uploading [1/2] a.tif (10 B)",
		"Uploading [2/2] b.tif (2.0 KiB)",
		"✓ a.tif (10 B",
		"✗ b.tif: checksum mismatch",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "✓ a.tif") != 1 {
		t.Error("Complete should print once")
	}
	if ui.Completed() != 2 {
		t.Errorf("Completed = %d, want 2", ui.Completed())
	}
}

func TestUploadUIAddEntryIdempotent(t *testing.T) {
	ui := NewUploadUIWithWriter(1, io.Discard, false)
	first := ui.AddEntry("file-a", "a.tif", 1)
	second := ui.AddEntry("file-a", "a.tif", 1)
	if first != second {
		t.Error("AddEntry should return the existing bar for a known id")
	}
	if _, ok := ui.Entry("file-a"); !ok {
		t.Error("Entry lookup failed")
	}
}

// recordingReporter captures aggregate updates.
type recordingReporter struct {
	total    int64
	updates  []int64
	finished bool
	desc     string
}

func (r *recordingReporter) Start(total int64, description string) { r.total = total }
func (r *recordingReporter) Update(current int64)                  { r.updates = append(r.updates, current) }
func (r *recordingReporter) Finish()                               { r.finished = true }
func (r *recordingReporter) Error(err error)                       {}
func (r *recordingReporter) SetDescription(desc string)            { r.desc = desc }

func TestRendererDrivesBars(t *testing.T) {
	bus := events.NewEventBus(100)
	defer bus.Close()

	var buf bytes.Buffer
	ui := NewUploadUIWithWriter(2, &buf, false)
	agg := &recordingReporter{}
	r := NewRenderer(bus, ui, agg, 2)

	bus.PublishEntry(events.EventTransferStarted, "file-a", "a.tif", 1, "transferring", 0, "")
	bus.PublishEntry(events.EventTransferStarted, "file-b", "b.tif", 1, "transferring", 0, "")
	bus.PublishEntry(events.EventTransferProgress, "file-a", "a.tif", 1, "transferring", 40, "")
	bus.PublishEntry(events.EventTransferCompleted, "file-a", "a.tif", 1, "success", 100, "")
	bus.PublishEntry(events.EventTransferFailed, "file-b", "b.tif", 1, "error", 20, "disk full")
	bus.Publish(&events.BatchCompleteEvent{
		BaseEvent:    events.NewBaseEvent(events.EventBatchComplete),
		TotalFiles:   2,
		SuccessFiles: 1,
		FailedFiles:  1,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	done, err := r.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if done.SuccessFiles != 1 {
		t.Errorf("SuccessFiles = %d, want 1", done.SuccessFiles)
	}

	if agg.total != 200 {
		t.Errorf("aggregate total = %d, want 200", agg.total)
	}
	if last := agg.updates[len(agg.updates)-1]; last != 200 {
		t.Errorf("last aggregate update = %d, want 200", last)
	}
	if !agg.finished || agg.desc != "Uploaded 1/2" {
		t.Errorf("aggregate finished=%v desc=%q", agg.finished, agg.desc)
	}

	out := buf.String()
	if !strings.Contains(out, "✓ a.tif") || !strings.Contains(out, "✗ b.tif: disk full") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRendererContextCancel(t *testing.T) {
	bus := events.NewEventBus(10)
	defer bus.Close()
	r := NewRenderer(bus, NewUploadUIWithWriter(0, io.Discard, false), nil, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run error = %v, want context.Canceled", err)
	}
}

func TestCLIProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewCLIProgressTo(&buf)

	p.Start(300, "Uploading")
	p.Update(150)
	if p.Current() != 150 {
		t.Errorf("Current = %d, want 150", p.Current())
	}
	p.SetDescription("Almost")
	p.Finish()
	p.Error(errors.New("boom"))

	if !strings.Contains(buf.String(), "Error: boom") {
		t.Errorf("missing error output: %q", buf.String())
	}
}

func TestNoOpProgress(t *testing.T) {
	var r Reporter = NewNoOpProgress()
	r.Start(1, "x")
	r.Update(1)
	r.SetDescription("y")
	r.Error(errors.New("z"))
	r.Finish()
}
