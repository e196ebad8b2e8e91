// internal/policy/policy.go
package policy

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/tamzrod/outboard-coupler/internal/control"
	"github.com/tamzrod/outboard-coupler/internal/keyword"
	"github.com/tamzrod/outboard-coupler/internal/snapshot"
)

// Config holds the GOR choke / low-rate shut-in thresholds.
type Config struct {
	Wells       []string
	GORLimit    float64
	STOLimit    float64
	ChokeFactor float64
	BHPCap      float64
}

// DefaultConfig returns the thresholds of the single-producer field case.
func DefaultConfig() Config {
	return Config{
		Wells:       []string{"PRODUCER1"},
		GORLimit:    100,
		STOLimit:    75,
		ChokeFactor: 1.5,
		BHPCap:      2500,
	}
}

// Reference chokes back high-GOR wells and shuts in low-rate wells.
// Both rules are evaluated independently for every configured well.
type Reference struct {
	cfg Config
}

// New creates the reference policy with immutable config.
func New(cfg Config) (*Reference, error) {
	if len(cfg.Wells) == 0 {
		return nil, errors.New("policy: at least one well required")
	}
	for _, w := range cfg.Wells {
		if w == "" {
			return nil, errors.New("policy: empty well name")
		}
	}
	if cfg.ChokeFactor <= 0 {
		return nil, errors.New("policy: choke factor must be > 0")
	}
	if cfg.BHPCap <= 0 {
		return nil, errors.New("policy: bhp cap must be > 0")
	}

	wells := make([]string, len(cfg.Wells))
	copy(wells, cfg.Wells)
	cfg.Wells = wells

	return &Reference{cfg: cfg}, nil
}

// Decide implements driver.DecideFunc.
// A configured well missing from the snapshot is an error.
func (p *Reference) Decide(s snapshot.Snapshot) (control.Record, error) {
	// No outboard update before the first timestep.
	if s.Time() == 0 {
		return control.Record{}, nil
	}

	b := control.NewBuilder()

	for _, name := range p.cfg.Wells {
		w, ok := s.Well(name)
		if !ok {
			return control.Record{}, fmt.Errorf("policy: well %q not reported", name)
		}

		if w.GOR() > p.cfg.GORLimit {
			newBHP := math.Min(w.BHP*p.cfg.ChokeFactor, p.cfg.BHPCap)
			b.InfoToSim("ALTER " + keyword.Quote(name))
			b.InfoToSim(keyword.FormatNumber(newBHP))
			b.Message(event(s.Time(), "Choking back well "+name+" to control GOR."))
		}

		if w.STO < p.cfg.STOLimit {
			b.InfoToSim("SHUTIN " + keyword.Quote(name))
			b.Message(event(s.Time(), "Shutting in well "+name+" due to low oil rate."))
		}
	}

	return b.Build(), nil
}

// event formats an operator message stamped with the simulation time,
// time centered in a 10-wide field.
func event(t float64, what string) string {
	return fmt.Sprintf("OB Event (%s days ):\t%s", center(fmt.Sprintf("%.2f", t), 10), what)
}

func center(s string, width int) string {
	pad := width - len(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}
