package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{" WARN ", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"loud", zerolog.NoLevel, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestSetOutput(t *testing.T) {
	l := NewLogger("cli")
	var buf bytes.Buffer
	l.SetOutput(&buf)

	l.Info().Str("file", "scan.tif").Msg("accepted")

	if !strings.Contains(buf.String(), "accepted") {
		t.Errorf("output %q should contain message", buf.String())
	}
	if l.Output() != &buf {
		t.Error("Output() should return the writer passed to SetOutput")
	}
}

func TestFileLogging(t *testing.T) {
	path := filepath.Join(t.TempDir(), "splatview.log")
	l := NewLoggerWithOptions(Options{Mode: "cli", File: path, Quiet: true})

	l.Named("intake").Warn().Msg("rejected upload")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "rejected upload") {
		t.Errorf("log file %q should contain message", string(data))
	}
	if !strings.Contains(string(data), `"component":"intake"`) {
		t.Errorf("log file %q should carry component field", string(data))
	}
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Infof("discarded %d", 1)
	if err := l.Close(); err != nil {
		t.Errorf("Close on nop logger: %v", err)
	}
}
