// internal/snapshot/build.go
package snapshot

import (
	"math"
	"strings"
)

// Build translates one raw checkpoint into a Snapshot.
// Only reported wells appear. No side effects.
func Build(raw RawCheckpoint) (Snapshot, error) {
	if raw.Time == nil {
		return Snapshot{}, &MissingFieldError{Field: "TIME"}
	}
	t := *raw.Time
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return Snapshot{}, &InvalidFieldError{Field: "TIME", Reason: "not a finite number"}
	}
	if t < 0 {
		return Snapshot{}, &InvalidFieldError{Field: "TIME", Reason: "negative"}
	}

	wells := make(map[string]WellRecord, len(raw.Wells))

	for _, rw := range raw.Wells {
		if rw.Name == "" {
			return Snapshot{}, &InvalidFieldError{Field: "NAME", Reason: "empty well name"}
		}
		if _, dup := wells[rw.Name]; dup {
			return Snapshot{}, &InvalidFieldError{Well: rw.Name, Field: "NAME", Reason: "reported twice"}
		}

		rec, err := buildWell(rw)
		if err != nil {
			return Snapshot{}, err
		}
		wells[rw.Name] = rec
	}

	return Snapshot{time: t, wells: wells}, nil
}

func buildWell(rw RawWell) (WellRecord, error) {
	rec := WellRecord{Name: rw.Name}

	var have [3]bool
	for k, v := range rw.Fields {
		key := strings.ToUpper(k)
		isRequired := key == FieldBHP || key == FieldSTO || key == FieldSTG
		if isRequired && (math.IsNaN(v) || math.IsInf(v, 0)) {
			return WellRecord{}, &InvalidFieldError{Well: rw.Name, Field: key, Reason: "not a finite number"}
		}

		switch key {
		case FieldBHP:
			rec.BHP, have[0] = v, true
		case FieldSTO:
			rec.STO, have[1] = v, true
		case FieldSTG:
			rec.STG, have[2] = v, true
		default:
			if rec.extra == nil {
				rec.extra = make(map[string]float64)
			}
			rec.extra[k] = v
		}
	}

	for i, name := range [...]string{FieldBHP, FieldSTO, FieldSTG} {
		if !have[i] {
			return WellRecord{}, &MissingFieldError{Well: rw.Name, Field: name}
		}
	}

	return rec, nil
}

// Float is a helper for host adapters building RawCheckpoint literals.
func Float(v float64) *float64 { return &v }
