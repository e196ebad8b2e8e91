// internal/snapshot/types.go
package snapshot

import "sort"

// Required per-well fields. Host field names, upper-case.
const (
	FieldBHP = "BHP"
	FieldSTO = "STO"
	FieldSTG = "STG"
)

// RawWell is one well as reported by the host at a checkpoint.
type RawWell struct {
	Name   string
	Fields map[string]float64
}

// RawCheckpoint is the raw field set a host adapter hands to Build.
// Time is a pointer so "not reported" differs from zero.
type RawCheckpoint struct {
	Time  *float64
	Wells []RawWell
}

// WellRecord is the fixed-schema view of one well.
// Extra carries host fields the record does not model.
type WellRecord struct {
	Name string
	BHP  float64
	STO  float64
	STG  float64

	extra map[string]float64
}

// GOR returns STG/STO, or 0 when there is no oil production.
func (w WellRecord) GOR() float64 {
	if w.STO <= 0 {
		return 0
	}
	return w.STG / w.STO
}

// Field returns a pass-through host field by exact name.
// The modelled fields are also reachable under their upper-case names.
func (w WellRecord) Field(name string) (float64, bool) {
	switch name {
	case FieldBHP:
		return w.BHP, true
	case FieldSTO:
		return w.STO, true
	case FieldSTG:
		return w.STG, true
	}
	v, ok := w.extra[name]
	return v, ok
}

// Snapshot is the immutable view of simulator state at one checkpoint.
type Snapshot struct {
	time  float64
	wells map[string]WellRecord
}

// Time returns the current simulation time in host units.
func (s Snapshot) Time() float64 { return s.time }

// Well returns the record for name. Names are case-sensitive.
func (s Snapshot) Well(name string) (WellRecord, bool) {
	w, ok := s.wells[name]
	return w, ok
}

// Wells returns the reported well names, sorted.
func (s Snapshot) Wells() []string {
	out := make([]string, 0, len(s.wells))
	for name := range s.wells {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of wells reported at this checkpoint.
func (s Snapshot) Len() int { return len(s.wells) }
