// internal/host/modbus/host.go
package modbus

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/goburrow/modbus"

	"github.com/tamzrod/outboard-coupler/internal/control"
	"github.com/tamzrod/outboard-coupler/internal/snapshot"
)

// registers is the exact subset of modbus.Client the host uses.
type registers interface {
	ReadHoldingRegisters(address, quantity uint16) ([]byte, error)
	WriteSingleRegister(address, value uint16) ([]byte, error)
}

// WellMap places one well's BHP, STO, STG float32 pairs at Base, Base+2, Base+4.
type WellMap struct {
	Name string
	Base uint16
}

// Config is minimal transport + register map config.
type Config struct {
	Endpoint string
	UnitID   uint8
	Timeout  time.Duration
	Poll     time.Duration

	CounterRegister uint16
	StatusRegister  uint16
	TimeRegister    uint16

	Wells []WellMap
}

// Host couples to a simulator gateway through holding registers.
//
// The gateway increments the counter register once per published checkpoint.
// The host polls it; a value different from the last counter value consumed
// means a new checkpoint is ready. Counter jumps (restart, non-zero start)
// deliver the current register state once. Floats are IEEE-754
// float32, high word first. A well whose three values are all NaN is not
// reported at that checkpoint.
//
// It serializes requests; one Host per gateway connection.
type Host struct {
	mu      sync.Mutex
	cfg     Config
	handler *modbus.TCPClientHandler
	cli     registers
	seen    uint16 // last counter value consumed
}

// Dial connects to the gateway. Fail fast at startup.
func Dial(cfg Config) (*Host, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("host modbus: endpoint required")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout
	h.SlaveId = cfg.UnitID

	if err := h.Connect(); err != nil {
		return nil, fmt.Errorf("host modbus: connect %s: %w", cfg.Endpoint, err)
	}

	host, err := newHost(cfg, modbus.NewClient(h))
	if err != nil {
		_ = h.Close()
		return nil, err
	}
	host.handler = h
	return host, nil
}

func newHost(cfg Config, cli registers) (*Host, error) {
	if cfg.Poll <= 0 {
		return nil, errors.New("host modbus: poll interval must be > 0")
	}
	if len(cfg.Wells) == 0 {
		return nil, errors.New("host modbus: at least one well required")
	}
	return &Host{cfg: cfg, cli: cli}, nil
}

// Close closes the TCP connection.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.handler == nil {
		return nil
	}
	err := h.handler.Close()
	h.handler = nil
	return err
}

// Next polls the counter register until a new checkpoint is published.
// No retries: any transport error ends the wait.
func (h *Host) Next(ctx context.Context) (snapshot.RawCheckpoint, error) {
	ticker := time.NewTicker(h.cfg.Poll)
	defer ticker.Stop()

	for {
		counter, ready, err := h.pending()
		if err != nil {
			return snapshot.RawCheckpoint{}, err
		}
		if ready {
			return h.readCheckpoint(counter)
		}

		select {
		case <-ctx.Done():
			return snapshot.RawCheckpoint{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

// ReportStatus writes the host status code (signed 16-bit) into the status register.
func (h *Host) ReportStatus(ctx context.Context, index int, s control.Status) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := h.cli.WriteSingleRegister(h.cfg.StatusRegister, uint16(s.Code())); err != nil {
		return fmt.Errorf("host modbus: write status reg=%d cp=%d: %w", h.cfg.StatusRegister, index, err)
	}
	return nil
}

// ---- internal ----

// pending reads the counter and reports whether it moved since the last
// consumed checkpoint.
func (h *Host) pending() (uint16, bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	b, err := h.cli.ReadHoldingRegisters(h.cfg.CounterRegister, 1)
	if err != nil {
		return 0, false, fmt.Errorf("host modbus: read counter reg=%d: %w", h.cfg.CounterRegister, err)
	}
	if len(b) < 2 {
		return 0, false, errors.New("host modbus: short counter payload")
	}
	counter := binary.BigEndian.Uint16(b)
	return counter, counter != h.seen, nil
}

func (h *Host) readCheckpoint(counter uint16) (snapshot.RawCheckpoint, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	t, err := h.readFloats(h.cfg.TimeRegister, 1)
	if err != nil {
		return snapshot.RawCheckpoint{}, fmt.Errorf("host modbus: read time: %w", err)
	}

	raw := snapshot.RawCheckpoint{Time: snapshot.Float(t[0])}

	for _, w := range h.cfg.Wells {
		v, err := h.readFloats(w.Base, 3)
		if err != nil {
			return snapshot.RawCheckpoint{}, fmt.Errorf("host modbus: read well %q: %w", w.Name, err)
		}
		if math.IsNaN(v[0]) && math.IsNaN(v[1]) && math.IsNaN(v[2]) {
			continue
		}
		raw.Wells = append(raw.Wells, snapshot.RawWell{
			Name: w.Name,
			Fields: map[string]float64{
				snapshot.FieldBHP: v[0],
				snapshot.FieldSTO: v[1],
				snapshot.FieldSTG: v[2],
			},
		})
	}

	h.seen = counter
	return raw, nil
}

func (h *Host) readFloats(addr uint16, n int) ([]float64, error) {
	b, err := h.cli.ReadHoldingRegisters(addr, uint16(2*n))
	if err != nil {
		return nil, err
	}
	return decodeFloat32s(b, n)
}

// decodeFloat32s unpacks n big-endian float32 values (high word first).
func decodeFloat32s(b []byte, n int) ([]float64, error) {
	if len(b) < 4*n {
		return nil, fmt.Errorf("short payload: got=%d want=%d bytes", len(b), 4*n)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		bits := binary.BigEndian.Uint32(b[4*i : 4*i+4])
		out[i] = float64(math.Float32frombits(bits))
	}
	return out, nil
}
