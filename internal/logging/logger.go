// Package logging provides structured logging for the CLI and embedded front-ends.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/splatview/splatview/internal/constants"
)

// Logger wraps zerolog with mode-specific behavior.
type Logger struct {
	zlog   zerolog.Logger
	mode   string    // "cli" or "embedded"
	output io.Writer // current output writer
	file   *lumberjack.Logger
}

// Options configures where a Logger writes.
type Options struct {
	// Mode is "cli" (stdout, stderr reserved for progress bars) or anything
	// else for stderr output.
	Mode string

	// File enables a rotating log file in addition to the console.
	File string

	// Quiet disables console output. Ignored when File is empty.
	Quiet bool
}

// NewLogger creates a new logger for the specified mode.
func NewLogger(mode string) *Logger {
	return NewLoggerWithOptions(Options{Mode: mode})
}

// NewLoggerWithOptions creates a logger, optionally teeing into a rotating file.
func NewLoggerWithOptions(opts Options) *Logger {
	l := &Logger{mode: opts.Mode}

	var writers []io.Writer
	if !opts.Quiet || opts.File == "" {
		writers = append(writers, consoleWriter(opts.Mode))
	}
	if opts.File != "" {
		l.file = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // MB
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
		writers = append(writers, l.file)
	}

	if len(writers) == 1 {
		l.output = writers[0]
	} else {
		l.output = zerolog.MultiLevelWriter(writers...)
	}
	l.zlog = zerolog.New(l.output).With().Timestamp().Logger()
	return l
}

// NewDefaultCLILogger creates a default CLI logger.
func NewDefaultCLILogger() *Logger {
	return NewLogger("cli")
}

// NewNopLogger returns a logger that discards everything. Used by tests and
// by components constructed without a logger.
func NewNopLogger() *Logger {
	return &Logger{zlog: zerolog.Nop(), mode: "nop", output: io.Discard}
}

func consoleWriter(mode string) io.Writer {
	out := os.Stderr
	if mode == "cli" {
		out = os.Stdout
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: constants.ConsoleTimeFormat,
	}
}

// Info returns an info level event.
func (l *Logger) Info() *zerolog.Event {
	return l.zlog.Info()
}

// Error returns an error level event.
func (l *Logger) Error() *zerolog.Event {
	return l.zlog.Error()
}

// Debug returns a debug level event.
func (l *Logger) Debug() *zerolog.Event {
	return l.zlog.Debug()
}

// Warn returns a warn level event.
func (l *Logger) Warn() *zerolog.Event {
	return l.zlog.Warn()
}

// With creates a child logger with additional context.
func (l *Logger) With() zerolog.Context {
	return l.zlog.With()
}

// Named returns a child logger tagged with a component name.
func (l *Logger) Named(component string) *Logger {
	return &Logger{
		zlog:   l.zlog.With().Str("component", component).Logger(),
		mode:   l.mode,
		output: l.output,
		file:   l.file,
	}
}

// SetOutput changes the output writer for the logger.
// Used to route log lines above the mpb progress bars.
func (l *Logger) SetOutput(w io.Writer) {
	l.output = w
	l.zlog = zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: constants.ConsoleTimeFormat,
	}).With().Timestamp().Logger()
}

// Output returns the current output writer.
func (l *Logger) Output() io.Writer {
	return l.output
}

// Close flushes and closes the rotating log file, if any.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Debugf logs a debug message with printf-style formatting.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.zlog.Debug().Msgf(format, args...)
}

// Infof logs an info message with printf-style formatting.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.zlog.Info().Msgf(format, args...)
}

// Errorf logs an error message with printf-style formatting.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.zlog.Error().Msgf(format, args...)
}

// Warnf logs a warning message with printf-style formatting.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.zlog.Warn().Msgf(format, args...)
}

// SetGlobalLevel sets the global log level.
func SetGlobalLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}

// ParseLevel maps a config string ("debug", "info", "warn", "error") to a level.
func ParseLevel(s string) (zerolog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
}

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: constants.ConsoleTimeFormat,
	})
}
