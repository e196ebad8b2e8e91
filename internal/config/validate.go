// internal/config/validate.go
package config

import (
	"fmt"
)

// Registers per float32 value, and float32 values per well (BHP, STO, STG).
const (
	regsPerFloat   = 2
	floatsPerWell  = 3
	regsPerWell    = regsPerFloat * floatsPerWell
	maxRegisterEnd = 0xFFFF
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil config")
	}
	o := cfg.Outboard

	// ------------------------------------------------------------
	// ARTIFACT
	// ------------------------------------------------------------

	if o.Artifact.Path == "" {
		return fmt.Errorf("artifact: path is required")
	}
	switch o.Artifact.Mode {
	case "", "append", "replace":
	default:
		return fmt.Errorf("artifact: unknown mode %q (want append or replace)", o.Artifact.Mode)
	}

	// ------------------------------------------------------------
	// HOST
	// ------------------------------------------------------------

	switch o.Host.Kind {
	case "", HostStream:
		if o.Host.Stream.Input != "" && o.Host.Stream.Input == o.Host.Stream.Status && o.Host.Stream.Input != "-" {
			return fmt.Errorf("host stream: input and status must differ (%s)", o.Host.Stream.Input)
		}
	case HostModbus:
		if err := validateModbus(o.Host.Modbus); err != nil {
			return err
		}
	default:
		return fmt.Errorf("host: unknown kind %q (want stream or modbus)", o.Host.Kind)
	}

	// ------------------------------------------------------------
	// POLICY
	// ------------------------------------------------------------

	seen := make(map[string]bool)
	for _, w := range o.Policy.Wells {
		if w == "" {
			return fmt.Errorf("policy: empty well name")
		}
		if seen[w] {
			return fmt.Errorf("policy: well %q listed twice", w)
		}
		seen[w] = true
	}
	if p := o.Policy.ChokeFactor; p != nil && *p <= 0 {
		return fmt.Errorf("policy: choke_factor must be > 0")
	}
	if p := o.Policy.BHPCap; p != nil && *p <= 0 {
		return fmt.Errorf("policy: bhp_cap must be > 0")
	}

	return nil
}

func validateModbus(m ModbusConfig) error {
	type span struct {
		start uint32
		end   uint32
		owner string
	}

	if m.Endpoint == "" {
		return fmt.Errorf("host modbus: endpoint is required")
	}
	if len(m.Wells) == 0 {
		return fmt.Errorf("host modbus: at least one well mapping is required")
	}

	// ------------------------------------------------------------
	// REGISTER MAP GEOMETRY
	// ------------------------------------------------------------

	var spans []span
	add := func(owner string, start uint16, qty uint32) error {
		s := span{start: uint32(start), end: uint32(start) + qty - 1, owner: owner}
		if s.end > maxRegisterEnd {
			return fmt.Errorf("host modbus: %s range %d-%d exceeds register space", owner, s.start, s.end)
		}
		for _, e := range spans {
			// overlap check (inclusive)
			if !(s.end < e.start || s.start > e.end) {
				return fmt.Errorf(
					"host modbus: register overlap: %s range=%d-%d overlaps with %s range=%d-%d",
					owner, s.start, s.end, e.owner, e.start, e.end,
				)
			}
		}
		spans = append(spans, s)
		return nil
	}

	if err := add("counter", m.CounterRegister, 1); err != nil {
		return err
	}
	if err := add("status", m.StatusRegister, 1); err != nil {
		return err
	}
	if err := add("time", m.TimeRegister, regsPerFloat); err != nil {
		return err
	}

	names := make(map[string]bool)
	for _, w := range m.Wells {
		if w.Name == "" {
			return fmt.Errorf("host modbus: well mapping with empty name")
		}
		if names[w.Name] {
			return fmt.Errorf("host modbus: well %q mapped twice", w.Name)
		}
		names[w.Name] = true

		if err := add(fmt.Sprintf("well %q", w.Name), w.BaseRegister, regsPerWell); err != nil {
			return err
		}
	}

	return nil
}
