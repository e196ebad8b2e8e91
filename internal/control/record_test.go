// internal/control/record_test.go
package control

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestZeroRecordIsNoop(t *testing.T) {
	var r Record

	if r.Status() != Ready {
		t.Fatalf("zero status: got=%v want=%v", r.Status(), Ready)
	}
	if !r.Empty() {
		t.Fatalf("zero record should be empty")
	}
	if r.Lines() != nil || r.Messages() != nil || r.WellSettings() != nil {
		t.Fatalf("zero record should have no sequences")
	}
}

func TestBuilderPreservesOrder(t *testing.T) {
	b := NewBuilder()
	b.InfoToSim("ALTER 'P1'").InfoToSim("2500").InfoToSim("ALTER 'P1'")
	b.Message("first").Message("second")
	b.SetWCURRCN("P1", On)
	b.SetWCURRCNList([]string{"P2", "P3"}, Off)

	r := b.Build()

	if diff := cmp.Diff([]string{"ALTER 'P1'", "2500", "ALTER 'P1'"}, r.Lines()); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"first", "second"}, r.Messages()); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}

	want := []WellSetting{
		{Wells: []string{"P1"}, Flag: On},
		{Wells: []string{"P2", "P3"}, List: true, Flag: Off},
	}
	if diff := cmp.Diff(want, r.WellSettings()); diff != "" {
		t.Fatalf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordIsImmutable(t *testing.T) {
	b := NewBuilder().InfoToSim("a")
	wells := []string{"P1", "P2"}
	b.SetWCURRCNList(wells, On)
	r := b.Build()

	// mutate everything reachable from the outside
	b.InfoToSim("b")
	wells[0] = "X"
	r.Lines()[0] = "mutated"
	r.WellSettings()[0].Wells[1] = "Y"

	if diff := cmp.Diff([]string{"a"}, r.Lines()); diff != "" {
		t.Fatalf("record lines changed (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"P1", "P2"}, r.WellSettings()[0].Wells); diff != "" {
		t.Fatalf("record wells changed (-want +got):\n%s", diff)
	}
}

func TestWithMessage(t *testing.T) {
	r := NewBuilder().InfoToSim("x").Message("m1").Build()

	out := r.WithMessage(AbnormalTerminate, "boom")

	if out.Status() != AbnormalTerminate {
		t.Fatalf("status: got=%v", out.Status())
	}
	if diff := cmp.Diff([]string{"m1", "boom"}, out.Messages()); diff != "" {
		t.Fatalf("messages (-want +got):\n%s", diff)
	}
	if len(r.Messages()) != 1 {
		t.Fatalf("original record modified")
	}
}

func TestStatusCodes(t *testing.T) {
	cases := []struct {
		s        Status
		code     int16
		name     string
		terminal bool
	}{
		{Ready, 1, "READY", false},
		{TerminateNextComTime, 9, "TERMINATE_NEXT_COM_TIME", false},
		{NormalTerminate, -100, "NORMAL_TERMINATE", true},
		{AbnormalTerminate, -101, "ABNORMAL_TERMINATE", true},
	}

	for _, c := range cases {
		if c.s.Code() != c.code {
			t.Fatalf("%v code: got=%d want=%d", c.s, c.s.Code(), c.code)
		}
		if c.s.String() != c.name {
			t.Fatalf("name: got=%q want=%q", c.s.String(), c.name)
		}
		if c.s.Terminal() != c.terminal {
			t.Fatalf("%v terminal: got=%v", c.s, c.s.Terminal())
		}
		back, err := ParseCode(c.code)
		if err != nil || back != c.s {
			t.Fatalf("ParseCode(%d) = %v, %v", c.code, back, err)
		}
	}

	if _, err := ParseCode(42); err == nil {
		t.Fatalf("expected error for unknown code")
	}
	if Status(99).Code() != -101 {
		t.Fatalf("unknown status must map to abnormal code")
	}
}
