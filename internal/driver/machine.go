// internal/driver/machine.go
package driver

import "github.com/tamzrod/outboard-coupler/internal/control"

// Machine is the coupling status state machine.
//
//	READY -> READY
//	READY -> TERMINATE_NEXT_COM_TIME -> NORMAL_TERMINATE
//	READY -> NORMAL_TERMINATE
//	any   -> ABNORMAL_TERMINATE
//
// Terminal states are sticky. The zero Machine is READY.
type Machine struct {
	cur control.Status
}

// Current returns the status of the last processed checkpoint.
func (m *Machine) Current() control.Status { return m.cur }

// Advance applies the status requested for one checkpoint and returns the
// status the host must see for it.
func (m *Machine) Advance(requested control.Status) control.Status {
	if m.cur.Terminal() {
		return m.cur
	}

	next := requested
	if !next.Valid() {
		next = control.AbnormalTerminate
	}

	// One more checkpoint was granted; it is the last one.
	if m.cur == control.TerminateNextComTime && next != control.AbnormalTerminate {
		next = control.NormalTerminate
	}

	m.cur = next
	return next
}
