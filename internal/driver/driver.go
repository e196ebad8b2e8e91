// internal/driver/driver.go
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/tamzrod/outboard-coupler/internal/artifact"
	"github.com/tamzrod/outboard-coupler/internal/control"
	"github.com/tamzrod/outboard-coupler/internal/keyword"
	"github.com/tamzrod/outboard-coupler/internal/snapshot"
)

// Config is the minimal runtime config the driver needs.
type Config struct {
	// RunID tags log lines and journal rows. Generated when empty.
	RunID string

	Journal Journal
	Logger  *log.Logger
}

// Driver runs the checkpoint loop for one coupling run.
// Single goroutine. Checkpoint N is written and reported before N+1 is requested.
type Driver struct {
	runID   string
	src     Source
	rep     Reporter
	art     artifact.Writer
	decide  DecideFunc
	journal Journal
	logger  *log.Logger

	machine Machine
	next    int
	closed  bool
}

// New creates a driver. Nothing is read or written yet.
func New(cfg Config, src Source, rep Reporter, art artifact.Writer, decide DecideFunc) (*Driver, error) {
	if src == nil {
		return nil, errors.New("driver: source required")
	}
	if rep == nil {
		return nil, errors.New("driver: reporter required")
	}
	if art == nil {
		return nil, errors.New("driver: artifact writer required")
	}
	if decide == nil {
		return nil, errors.New("driver: decision callback required")
	}

	runID := cfg.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Driver{
		runID:   runID,
		src:     src,
		rep:     rep,
		art:     art,
		decide:  decide,
		journal: cfg.Journal,
		logger:  logger,
	}, nil
}

// RunID returns the id of this run.
func (d *Driver) RunID() string { return d.runID }

// Status returns the status of the last processed checkpoint.
func (d *Driver) Status() control.Status { return d.machine.Current() }

// Run processes checkpoints until a terminal status, host EOF, or ctx is done.
// ctx is only observed between checkpoints.
// A returned error means the host could not be reached; contained checkpoint
// failures are reported to the host as ABNORMAL_TERMINATE instead.
func (d *Driver) Run(ctx context.Context) (Result, error) {
	res := Result{RunID: d.runID, Final: d.machine.Current()}

	defer func() {
		if err := d.Close(); err != nil {
			d.logf("close: %v", err)
		}
	}()

	for !d.machine.Current().Terminal() {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		raw, err := d.src.Next(ctx)
		if errors.Is(err, io.EOF) {
			res.HostClosed = true
			d.logf("host closed after %d checkpoints (status=%s)", res.Checkpoints, res.Final)
			return res, nil
		}
		if err != nil {
			return res, fmt.Errorf("driver: wait for checkpoint: %w", err)
		}

		out := d.Step(ctx, raw)
		res.Checkpoints++
		res.Final = out.Status

		if out.ReportErr != nil {
			return res, fmt.Errorf("driver: report status: %w", out.ReportErr)
		}
	}

	d.logf("terminated with %s after %d checkpoints", res.Final, res.Checkpoints)
	return res, nil
}

// Step processes exactly one checkpoint.
//
// build snapshot -> decide -> encode -> write artifact -> advance status
// -> log messages -> report status -> journal.
//
// Failures are contained: they become ABNORMAL_TERMINATE plus a message.
func (d *Driver) Step(ctx context.Context, raw snapshot.RawCheckpoint) Outcome {
	if d.machine.Current().Terminal() {
		return Outcome{
			RunID:  d.runID,
			Index:  d.next,
			Status: d.machine.Current(),
			Err:    ErrTerminated,
		}
	}

	idx := d.next
	d.next++

	out := Outcome{RunID: d.runID, Index: idx}

	var rec control.Record

	snap, err := snapshot.Build(raw)
	if err != nil {
		out.Err = err
		rec = control.Record{}.WithMessage(control.AbnormalTerminate, failureMessage(idx, err))
	} else {
		out.Time, out.HasTime = snap.Time(), true

		rec, err = d.invoke(idx, snap)
		if err != nil {
			out.Err = err
			rec = control.Record{}.WithMessage(control.AbnormalTerminate, failureMessage(idx, err))
		}
	}

	out.Requested = rec.Status()
	if !rec.Empty() && out.Err == nil {
		d.logf("cp=%d t=%g lines=%d settings=%d", idx, out.Time, len(rec.Lines()), len(rec.WellSettings()))
	}

	// ---- artifact (one batch per checkpoint) ----
	lines := keyword.Encode(rec)
	if err := d.art.WriteBatch(lines); err != nil {
		out.Err = joinErr(out.Err, err)
		rec = rec.WithMessage(control.AbnormalTerminate, failureMessage(idx, err))
	} else {
		out.Lines = lines
	}

	out.Status = d.machine.Advance(rec.Status())
	out.Messages = rec.Messages()

	for _, m := range out.Messages {
		d.logf("cp=%d %s", idx, m)
	}
	if out.Status != control.Ready {
		d.logf("cp=%d status=%s", idx, out.Status)
	}

	// ---- status back to host ----
	if err := d.rep.ReportStatus(ctx, idx, out.Status); err != nil {
		out.ReportErr = err
		d.logf("cp=%d status report failed: %v", idx, err)
	}

	if d.journal != nil {
		if err := d.journal.Append(ctx, out); err != nil {
			d.logf("cp=%d journal append failed: %v", idx, err)
		}
	}

	return out
}

// Close releases every collaborator that holds resources. Idempotent.
func (d *Driver) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true

	var errs []string
	seen := make(map[io.Closer]bool)

	for _, v := range []any{d.src, d.rep, d.art, d.journal} {
		c, ok := v.(io.Closer)
		if !ok || c == nil || seen[c] {
			continue
		}
		seen[c] = true
		if err := c.Close(); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return errors.New("driver: " + strings.Join(errs, " | "))
	}
	return nil
}

// invoke calls the decision callback and converts errors and panics.
func (d *Driver) invoke(idx int, s snapshot.Snapshot) (rec control.Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec = control.Record{}
			err = &CallbackError{Index: idx, Panic: r}
		}
	}()

	rec, err = d.decide(s)
	if err != nil {
		return control.Record{}, &CallbackError{Index: idx, Err: err}
	}
	return rec, nil
}

func (d *Driver) logf(format string, args ...any) {
	d.logger.Printf("outboard[run=%s] "+format, append([]any{d.runID}, args...)...)
}

func failureMessage(idx int, err error) string {
	return fmt.Sprintf("checkpoint %d aborted: %v", idx, err)
}

func joinErr(a, b error) error {
	if a == nil {
		return b
	}
	return errors.Join(a, b)
}
