// internal/driver/types.go
package driver

import (
	"context"
	"errors"
	"fmt"

	"github.com/tamzrod/outboard-coupler/internal/control"
	"github.com/tamzrod/outboard-coupler/internal/snapshot"
)

// DecideFunc is the outboard decision. It must not touch coupling state;
// everything it wants the host to see goes into the returned Record.
// At time 0 callbacks should return the zero Record.
type DecideFunc func(s snapshot.Snapshot) (control.Record, error)

// Source delivers host checkpoints. Next blocks until one is available.
// io.EOF means the host finished the run.
type Source interface {
	Next(ctx context.Context) (snapshot.RawCheckpoint, error)
}

// Reporter delivers the per-checkpoint status back to the host.
type Reporter interface {
	ReportStatus(ctx context.Context, index int, s control.Status) error
}

// Journal records processed checkpoints. Optional, observability only.
type Journal interface {
	Append(ctx context.Context, o Outcome) error
}

// ErrTerminated is returned by Step once a terminal status was reached.
var ErrTerminated = errors.New("driver: coupling already terminated")

// CallbackError wraps a failure raised inside the decision callback.
// Exactly one of Err and Panic is set.
type CallbackError struct {
	Index int
	Err   error
	Panic any
}

func (e *CallbackError) Error() string {
	if e.Panic != nil {
		return fmt.Sprintf("driver: callback panicked at checkpoint %d: %v", e.Index, e.Panic)
	}
	return fmt.Sprintf("driver: callback failed at checkpoint %d: %v", e.Index, e.Err)
}

func (e *CallbackError) Unwrap() error { return e.Err }

// Outcome is everything the driver did for one checkpoint.
type Outcome struct {
	RunID string
	Index int

	// Time is valid only when HasTime is true (snapshot built).
	Time    float64
	HasTime bool

	// Requested is what the callback asked for; Status is what the host got.
	Requested control.Status
	Status    control.Status

	// Lines is the batch that reached the artifact (nil if the write failed).
	Lines    []string
	Messages []string

	// Err is the contained failure mapped to ABNORMAL_TERMINATE, if any.
	Err error

	// ReportErr is set when the status could not reach the host.
	ReportErr error
}

// Result summarizes one Run.
type Result struct {
	RunID       string
	Checkpoints int
	Final       control.Status

	// HostClosed is true when the host ended the run (io.EOF)
	// before a terminal status was reached.
	HostClosed bool
}
