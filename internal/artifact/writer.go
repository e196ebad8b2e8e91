// internal/artifact/writer.go
package artifact

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sync"
)

// Writer is the delivery-only contract for the shared artifact.
// It receives one checkpoint batch and writes it verbatim.
// No logic, no interpretation.
type Writer interface {
	WriteBatch(lines []string) error
}

// Mode selects how a batch lands in the artifact file.
type Mode string

const (
	// ModeAppend appends each checkpoint batch to the file.
	ModeAppend Mode = "append"

	// ModeReplace rewrites the file with the current batch only.
	ModeReplace Mode = "replace"
)

// WriteError wraps an IO failure on the artifact.
// It is fatal to the coupling and never retried.
type WriteError struct {
	Path string
	Op   string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("artifact: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// File writes batches into one path.
// The file is opened per batch and closed right after the flush,
// so the host never sees a half-written batch held open across checkpoints.
type File struct {
	mu   sync.Mutex
	path string
	mode Mode
	perm os.FileMode
}

// Config is minimal artifact config.
type Config struct {
	Path string
	Mode Mode
}

// NewFile creates a file-backed artifact writer. Nothing is opened yet.
func NewFile(cfg Config) (*File, error) {
	if cfg.Path == "" {
		return nil, errors.New("artifact: path required")
	}
	switch cfg.Mode {
	case "":
		cfg.Mode = ModeAppend
	case ModeAppend, ModeReplace:
	default:
		return nil, fmt.Errorf("artifact: unknown mode %q", cfg.Mode)
	}

	return &File{path: cfg.Path, mode: cfg.Mode, perm: 0o644}, nil
}

// Path returns the artifact path.
func (f *File) Path() string { return f.path }

// WriteBatch writes one checkpoint batch, one line per entry, LF framed.
// In append mode an empty batch performs no IO.
func (f *File) WriteBatch(lines []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(lines) == 0 && f.mode == ModeAppend {
		return nil
	}

	flags := os.O_WRONLY | os.O_CREATE
	if f.mode == ModeReplace {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}

	fh, err := os.OpenFile(f.path, flags, f.perm)
	if err != nil {
		return &WriteError{Path: f.path, Op: "open", Err: err}
	}

	bw := bufio.NewWriter(fh)
	for _, l := range lines {
		if _, err := bw.WriteString(l); err != nil {
			_ = fh.Close()
			return &WriteError{Path: f.path, Op: "write", Err: err}
		}
		if err := bw.WriteByte('\n'); err != nil {
			_ = fh.Close()
			return &WriteError{Path: f.path, Op: "write", Err: err}
		}
	}

	if err := bw.Flush(); err != nil {
		_ = fh.Close()
		return &WriteError{Path: f.path, Op: "flush", Err: err}
	}
	if err := fh.Sync(); err != nil {
		_ = fh.Close()
		return &WriteError{Path: f.path, Op: "sync", Err: err}
	}
	if err := fh.Close(); err != nil {
		return &WriteError{Path: f.path, Op: "close", Err: err}
	}

	return nil
}
