// cmd/outboard/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tamzrod/outboard-coupler/internal/artifact"
	"github.com/tamzrod/outboard-coupler/internal/config"
	"github.com/tamzrod/outboard-coupler/internal/control"
	"github.com/tamzrod/outboard-coupler/internal/driver"
	mhost "github.com/tamzrod/outboard-coupler/internal/host/modbus"
	"github.com/tamzrod/outboard-coupler/internal/host/stream"
	"github.com/tamzrod/outboard-coupler/internal/journal"
	"github.com/tamzrod/outboard-coupler/internal/policy"
)

// Exit codes seen by whoever launched the outboard process.
const (
	exitNormal   = 0
	exitHost     = 1
	exitAbnormal = 2
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: outboard <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	o := cfg.Outboard

	// --------------------
	// Build collaborators
	// --------------------

	ref, err := policy.New(o.Policy.Resolve())
	if err != nil {
		log.Fatalf("policy build failed: %v", err)
	}

	art, err := artifact.NewFile(artifact.Config{
		Path: o.Artifact.Path,
		Mode: artifact.Mode(o.Artifact.Mode),
	})
	if err != nil {
		log.Fatalf("artifact build failed: %v", err)
	}

	src, rep, err := buildHost(o.Host)
	if err != nil {
		log.Fatalf("host build failed (kind=%s): %v", o.Host.Kind, err)
	}

	dcfg := driver.Config{RunID: o.RunID}

	if o.Journal.Path != "" {
		j, err := journal.New(o.Journal.Path)
		if err != nil {
			log.Fatalf("journal open failed: %v", err)
		}
		dcfg.Journal = j
	}

	d, err := driver.New(dcfg, src, rep, art, ref.Decide)
	if err != nil {
		log.Fatalf("driver build failed: %v", err)
	}
	defer d.Close()

	log.Printf("outboard[run=%s] coupling started (host=%s artifact=%s mode=%s)",
		d.RunID(), o.Host.Kind, art.Path(), o.Artifact.Mode)

	// --------------------
	// Checkpoint loop
	// --------------------

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := d.Run(ctx)
	if err != nil {
		log.Printf("outboard[run=%s] coupling failed after %d checkpoints: %v", res.RunID, res.Checkpoints, err)
		_ = d.Close()
		os.Exit(exitHost)
	}

	_ = d.Close()

	if o.Journal.Path != "" {
		summarize(o.Journal.Path, res.RunID)
	}
	os.Exit(exitCode(res.Final))
}

// summarize reopens the journal after the run and logs what it recorded.
func summarize(path, runID string) {
	j, err := journal.New(path)
	if err != nil {
		log.Printf("outboard[run=%s] journal reopen failed: %v", runID, err)
		return
	}
	defer j.Close()

	entries, err := j.List(context.Background(), runID)
	if err != nil {
		log.Printf("outboard[run=%s] journal list failed: %v", runID, err)
		return
	}

	var flagged int
	for _, e := range entries {
		if e.Status != control.Ready {
			flagged++
		}
	}
	log.Printf("outboard[run=%s] journal: %d checkpoints recorded, %d non-ready", runID, len(entries), flagged)
}

// buildHost wires the configured host integration.
// The returned source and reporter are closed by the driver.
func buildHost(h config.HostConfig) (driver.Source, driver.Reporter, error) {
	switch h.Kind {
	case config.HostModbus:
		m := h.Modbus
		wells := make([]mhost.WellMap, 0, len(m.Wells))
		for _, w := range m.Wells {
			wells = append(wells, mhost.WellMap{Name: w.Name, Base: w.BaseRegister})
		}

		host, err := mhost.Dial(mhost.Config{
			Endpoint:        m.Endpoint,
			UnitID:          m.UnitID,
			Timeout:         time.Duration(m.TimeoutMs) * time.Millisecond,
			Poll:            time.Duration(m.PollMs) * time.Millisecond,
			CounterRegister: m.CounterRegister,
			StatusRegister:  m.StatusRegister,
			TimeRegister:    m.TimeRegister,
			Wells:           wells,
		})
		if err != nil {
			return nil, nil, err
		}
		return host, host, nil

	case config.HostStream:
		in := os.Stdin
		if h.Stream.Input != "-" {
			f, err := os.Open(h.Stream.Input)
			if err != nil {
				return nil, nil, fmt.Errorf("open checkpoint input: %w", err)
			}
			in = f
		}

		out := os.Stdout
		if h.Stream.Status != "-" {
			f, err := os.OpenFile(h.Stream.Status, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
			if err != nil {
				_ = in.Close()
				return nil, nil, fmt.Errorf("open status output: %w", err)
			}
			out = f
		}

		return stream.NewSource(in), stream.NewReporter(out), nil
	}

	return nil, nil, errors.New("unknown host kind " + h.Kind)
}

func exitCode(s control.Status) int {
	if s == control.AbnormalTerminate {
		return exitAbnormal
	}
	return exitNormal
}
