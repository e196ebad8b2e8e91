// internal/host/stream/reporter.go
package stream

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/tamzrod/outboard-coupler/internal/control"
)

var errClosed = errors.New("host stream: reporter closed")

// Reporter writes one status line per checkpoint:
//
//	<index> <code> <NAME>
//
// Every line is flushed before ReportStatus returns.
type Reporter struct {
	mu     sync.Mutex
	w      *bufio.Writer
	closer io.Closer
	closed bool
}

// NewReporter wraps w. If w is an io.Closer, Close closes it.
func NewReporter(w io.Writer) *Reporter {
	r := &Reporter{w: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		r.closer = c
	}
	return r
}

// ReportStatus implements driver.Reporter.
func (r *Reporter) ReportStatus(ctx context.Context, index int, s control.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return errClosed
	}
	if _, err := fmt.Fprintf(r.w, "%d %d %s\n", index, s.Code(), s); err != nil {
		return fmt.Errorf("host stream: write status: %w", err)
	}
	if err := r.w.Flush(); err != nil {
		return fmt.Errorf("host stream: flush status: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer, if any.
func (r *Reporter) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	if err := r.w.Flush(); err != nil {
		return fmt.Errorf("host stream: flush status: %w", err)
	}
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}
