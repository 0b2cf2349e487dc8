package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/splatview/splatview/internal/events"
	"github.com/splatview/splatview/internal/models"
	"github.com/splatview/splatview/internal/notify"
	"github.com/splatview/splatview/internal/progress"
	"github.com/splatview/splatview/internal/scheduler"
	"github.com/splatview/splatview/internal/services"
	"github.com/splatview/splatview/internal/transfer"
)

// rendererDrainTimeout bounds how long the upload command waits for the
// renderer after the controller reports completion.
const rendererDrainTimeout = 2 * time.Second

// newUploadCmd creates the 'upload' command.
func newUploadCmd() *cobra.Command {
	var (
		compact bool
		seed    uint64
	)

	cmd := &cobra.Command{
		Use:   "upload <file> [file...]",
		Short: "Upload TIF/TIFF scans as one batch",
		Long: `Stage files into an upload batch and transfer them.

Only .tif and .tiff files are accepted, at most 10 per batch, and a file with
the same name and size as one already staged is rejected as a duplicate.
Rejected files are reported and the rest of the batch proceeds.

The command exits with an error when nothing was accepted or when no file in
the batch uploaded successfully.

Examples:
  splatview upload scan1.tif scan2.tiff
  splatview upload --compact scans/*.tif`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handles, err := statHandles(args)
			if err != nil {
				return err
			}

			var rnd transfer.RandSource
			if seed != 0 {
				rnd = transfer.SeededRand(seed)
			}
			return runUpload(GetContext(), cmd.ErrOrStderr(), handles, uploadOptions{
				compact: compact,
				rand:    rnd,
			})
		},
	}

	cmd.Flags().BoolVar(&compact, "compact", false, "Show a single aggregate bar instead of one bar per file")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed the progress generator for a reproducible run (0 = random)")

	return cmd
}

// uploadOptions tunes runUpload. Zero values select the production wiring.
type uploadOptions struct {
	compact   bool
	rand      transfer.RandSource
	scheduler scheduler.Scheduler
	terminal  *bool
}

// statHandles turns command-line paths into file handles.
func statHandles(paths []string) ([]models.FileHandle, error) {
	handles := make([]models.FileHandle, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", p, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory", p)
		}
		handles = append(handles, models.NewLocalFileHandle(p, filepath.Base(p), info.Size()))
	}
	return handles, nil
}

// runUpload offers handles to a fresh batch, starts it and renders progress
// to out until the batch completes.
func runUpload(ctx context.Context, out io.Writer, handles []models.FileHandle, opts uploadOptions) error {
	cfg := GetConfig()
	log := GetLogger().Named("upload")

	bus := events.NewEventBus(cfg.Events.BufferSize)
	defer bus.Close()

	isTerminal := isTerminalWriter(out)
	if opts.terminal != nil {
		isTerminal = *opts.terminal
	}

	var (
		view      *progress.UploadUI
		aggregate progress.Reporter
		console   = out
	)
	if opts.compact {
		view = progress.NewUploadUIWithWriter(len(handles), io.Discard, false)
		if isTerminal {
			aggregate = progress.NewCLIProgressTo(out)
		}
	} else {
		view = progress.NewUploadUIWithWriter(len(handles), out, isTerminal)
		console = view.Writer()
	}

	notifyCfg := cfg.NotifyConfig()
	sinks := notify.MultiSink{notify.NewLogSink(log), notify.NewEventSink(bus)}
	if notifyCfg.Enabled {
		sinks = append(sinks, notify.SinkFunc(func(n notify.Notification) {
			mark := "i"
			if n.Severity == notify.SeverityDestructive {
				mark = "!"
			}
			fmt.Fprintf(console, "[%s] %s: %s\n", mark, n.Title, n.Description)
		}))
	}
	sinks = append(sinks, notify.NewDesktopSink(notifyCfg, log))

	sched := opts.scheduler
	if sched == nil {
		sched = scheduler.NewReal()
	}
	rnd := opts.rand
	if rnd == nil {
		rnd = transfer.DefaultRand()
	}
	timings := cfg.Timings()

	received := 0
	logConsumer := services.NewLoggingConsumer(log, sinks)
	consumer := services.ConsumerFunc(func(h []models.FileHandle) {
		received = len(h)
		logConsumer.ConfirmUpload(h)
	})

	ctl := services.NewBatchController(services.BatchControllerConfig{
		Scheduler: sched,
		Rand:      rnd,
		Faults:    transfer.RandomFaults(cfg.Upload.FaultRate, rnd),
		Timings:   &timings,
		EventBus:  bus,
		Notifier:  sinks,
		Consumer:  consumer,
		Logger:    log,
	})

	res, err := ctl.OfferFiles(handles)
	if err != nil {
		return err
	}
	if len(res.Accepted) == 0 {
		return errors.New("no files accepted for upload")
	}

	// Subscribe before starting so no transfer event is missed
	renderer := progress.NewRenderer(bus, view, aggregate, len(res.Accepted))
	renderCtx, stopRender := context.WithCancel(ctx)
	defer stopRender()

	type renderResult struct {
		done *events.BatchCompleteEvent
		err  error
	}
	rendered := make(chan renderResult, 1)
	go func() {
		done, err := renderer.Run(renderCtx)
		rendered <- renderResult{done, err}
	}()

	if err := ctl.StartBatch(); err != nil {
		return err
	}

	if err := ctl.Wait(ctx); err != nil {
		stopRender()
		<-rendered
		return fmt.Errorf("upload interrupted: %w", err)
	}

	// The batch is complete; give the renderer time to drain the bus
	var summary *events.BatchCompleteEvent
	select {
	case r := <-rendered:
		summary = r.done
	case <-time.After(rendererDrainTimeout):
		stopRender()
		<-rendered
	}
	if summary != nil {
		if view.IsTerminal() {
			view.Wait()
		}
		fmt.Fprintf(out, "\nUploaded %d of %d files in %s\n",
			summary.SuccessFiles, summary.TotalFiles, summary.Duration.Round(time.Millisecond))
	} else {
		log.Warn().Int64("dropped", bus.GetDroppedEventCount()).Msg("Batch summary event was not observed")
	}

	// Wait returned after the consumer ran, so received is settled
	if received == 0 {
		return fmt.Errorf("all %d uploads failed", len(res.Accepted))
	}
	return nil
}
