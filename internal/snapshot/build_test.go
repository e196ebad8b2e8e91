// internal/snapshot/build_test.go
package snapshot

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuild_Success(t *testing.T) {
	raw := RawCheckpoint{
		Time: Float(10),
		Wells: []RawWell{
			{Name: "PRODUCER1", Fields: map[string]float64{"BHP": 2000, "sto": 80, "STG": 9000, "WCUT": 0.2}},
			{Name: "INJECTOR1", Fields: map[string]float64{"BHP": 3000, "STO": 0, "STG": 0}},
		},
	}

	s, err := Build(raw)
	if err != nil {
		t.Fatalf("Build err=%v", err)
	}

	if s.Time() != 10 {
		t.Fatalf("time: got=%v want=10", s.Time())
	}
	if diff := cmp.Diff([]string{"INJECTOR1", "PRODUCER1"}, s.Wells()); diff != "" {
		t.Fatalf("wells (-want +got):\n%s", diff)
	}

	p, ok := s.Well("PRODUCER1")
	if !ok {
		t.Fatalf("PRODUCER1 missing")
	}
	if p.BHP != 2000 || p.STO != 80 || p.STG != 9000 {
		t.Fatalf("unexpected record: %+v", p)
	}
	if v, ok := p.Field("WCUT"); !ok || v != 0.2 {
		t.Fatalf("pass-through WCUT: got=%v ok=%v", v, ok)
	}
	if v, ok := p.Field("BHP"); !ok || v != 2000 {
		t.Fatalf("modelled field via Field: got=%v ok=%v", v, ok)
	}
	if _, ok := p.Field("wcut"); ok {
		t.Fatalf("pass-through names are exact")
	}
}

func TestBuild_UnreportedWellAbsent(t *testing.T) {
	s, err := Build(RawCheckpoint{Time: Float(0)})
	if err != nil {
		t.Fatalf("Build err=%v", err)
	}
	if _, ok := s.Well("PRODUCER1"); ok {
		t.Fatalf("unreported well must be absent")
	}
	if s.Len() != 0 {
		t.Fatalf("expected no wells, got %d", s.Len())
	}
}

func TestBuild_MissingTime(t *testing.T) {
	_, err := Build(RawCheckpoint{})

	var mf *MissingFieldError
	if !errors.As(err, &mf) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
	if mf.Field != "TIME" || mf.Well != "" {
		t.Fatalf("unexpected error fields: %+v", mf)
	}
}

func TestBuild_MissingWellField(t *testing.T) {
	_, err := Build(RawCheckpoint{
		Time: Float(1),
		Wells: []RawWell{
			{Name: "P1", Fields: map[string]float64{"BHP": 1, "STO": 2}},
		},
	})

	var mf *MissingFieldError
	if !errors.As(err, &mf) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
	if mf.Well != "P1" || mf.Field != FieldSTG {
		t.Fatalf("unexpected error fields: %+v", mf)
	}
}

func TestBuild_InvalidInputs(t *testing.T) {
	full := map[string]float64{"BHP": 1, "STO": 1, "STG": 1}

	cases := map[string]RawCheckpoint{
		"negative time": {Time: Float(-1)},
		"nan time":      {Time: Float(math.NaN())},
		"empty name":    {Time: Float(1), Wells: []RawWell{{Name: "", Fields: full}}},
		"duplicate":     {Time: Float(1), Wells: []RawWell{{Name: "P1", Fields: full}, {Name: "P1", Fields: full}}},
	}

	for name, raw := range cases {
		_, err := Build(raw)
		var inv *InvalidFieldError
		if !errors.As(err, &inv) {
			t.Fatalf("%s: expected InvalidFieldError, got %v", name, err)
		}
	}
}

func TestBuild_WellNamesCaseSensitive(t *testing.T) {
	full := map[string]float64{"BHP": 1, "STO": 1, "STG": 1}

	s, err := Build(RawCheckpoint{
		Time:  Float(1),
		Wells: []RawWell{{Name: "P1", Fields: full}, {Name: "p1", Fields: full}},
	})
	if err != nil {
		t.Fatalf("Build err=%v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 distinct wells, got %d", s.Len())
	}
}

func TestBuild_SnapshotIsolatedFromRaw(t *testing.T) {
	fields := map[string]float64{"BHP": 1, "STO": 1, "STG": 1, "X": 5}
	s, err := Build(RawCheckpoint{Time: Float(1), Wells: []RawWell{{Name: "P1", Fields: fields}}})
	if err != nil {
		t.Fatalf("Build err=%v", err)
	}

	fields["BHP"] = 99
	fields["X"] = 99

	w, _ := s.Well("P1")
	if w.BHP != 1 {
		t.Fatalf("BHP leaked from raw: %v", w.BHP)
	}
	if v, _ := w.Field("X"); v != 5 {
		t.Fatalf("extra leaked from raw: %v", v)
	}
}

func TestGOR_ZeroOil(t *testing.T) {
	w := WellRecord{STO: 0, STG: 500}
	if w.GOR() != 0 {
		t.Fatalf("GOR with zero STO: got=%v want=0", w.GOR())
	}

	w = WellRecord{STO: 80, STG: 9000}
	if w.GOR() != 112.5 {
		t.Fatalf("GOR: got=%v want=112.5", w.GOR())
	}
}

func TestBuild_NonFiniteWellField(t *testing.T) {
	cases := map[string]map[string]float64{
		"nan bhp":  {"BHP": math.NaN(), "STO": 80, "STG": 9000},
		"inf sto":  {"BHP": 2000, "STO": math.Inf(1), "STG": 9000},
		"-inf stg": {"BHP": 2000, "STO": 80, "STG": math.Inf(-1)},
	}

	for name, fields := range cases {
		_, err := Build(RawCheckpoint{
			Time:  Float(1),
			Wells: []RawWell{{Name: "P1", Fields: fields}},
		})
		var inv *InvalidFieldError
		if !errors.As(err, &inv) {
			t.Fatalf("%s: expected InvalidFieldError, got %v", name, err)
		}
		if inv.Well != "P1" {
			t.Fatalf("%s: well: got=%q", name, inv.Well)
		}
	}

	// pass-through fields are not examined
	_, err := Build(RawCheckpoint{
		Time:  Float(1),
		Wells: []RawWell{{Name: "P1", Fields: map[string]float64{"BHP": 1, "STO": 1, "STG": 1, "WCUT": math.NaN()}}},
	})
	if err != nil {
		t.Fatalf("non-finite extra field must pass through: %v", err)
	}
}
