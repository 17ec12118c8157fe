package renderer

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func write(t *testing.T, path string, mode Mode, content string) error {
	t.Helper()
	w, err := Open(path, mode)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, content); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return w.Close()
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")

	tests := []struct {
		mode    Mode
		content string
		want    string
		wantErr error
	}{
		{StopIfExists, "first", "first", nil},
		{StopIfExists, "second", "first", ErrFileExists},
		{Append, "+more", "first+more", nil},
		{Overwrite, "new", "new", nil},
	}
	for _, tt := range tests {
		err := write(t, path, tt.mode, tt.content)
		if !errors.Is(err, tt.wantErr) {
			t.Fatalf("Open(%v) error = %v, want %v", tt.mode, err, tt.wantErr)
		}
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != tt.want {
			t.Errorf("after %v: content = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestOpen_Stdout(t *testing.T) {
	for _, path := range []string{"", "-"} {
		w, err := Open(path, StopIfExists)
		if err != nil {
			t.Fatalf("Open(%q) unexpected error: %v", path, err)
		}
		if err := w.Close(); err != nil {
			t.Errorf("Close() = %v, want nil", err)
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"", Overwrite, false},
		{"overwrite", Overwrite, false},
		{"APPEND", Append, false},
		{"stop", StopIfExists, false},
		{"stop-if-exists", StopIfExists, false},
		{"merge", Overwrite, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
