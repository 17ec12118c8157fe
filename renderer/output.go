package renderer

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// ErrFileExists is returned by Open in StopIfExists mode.
var ErrFileExists = errors.New("file already exists")

// Mode is the behaviour of Open when the file exists.
type Mode int

const (
	Overwrite Mode = iota
	Append
	StopIfExists
)

func (m Mode) String() string {
	switch m {
	case Overwrite:
		return "overwrite"
	case Append:
		return "append"
	case StopIfExists:
		return "stop"
	default:
		return "unknown"
	}
}

// ParseMode parses "overwrite", "append" or "stop". The empty string is
// Overwrite.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "overwrite":
		return Overwrite, nil
	case "append":
		return Append, nil
	case "stop", "stop-if-exists":
		return StopIfExists, nil
	default:
		return 0, fmt.Errorf("unknown write mode %q", s)
	}
}

// Open opens path for writing in mode. An empty path or "-" is the standard
// output, which is never closed.
func Open(path string, mode Mode) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	flags := os.O_WRONLY | os.O_CREATE
	switch mode {
	case Overwrite:
		flags |= os.O_TRUNC
	case Append:
		flags |= os.O_APPEND
	case StopIfExists:
		flags |= os.O_EXCL
	default:
		return nil, fmt.Errorf("unknown write mode %v", mode)
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileExists, path)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
