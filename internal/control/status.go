// internal/control/status.go
package control

import "fmt"

// Status is the outboard status signalled to the host once per checkpoint.
// The set is closed. The zero value is Ready.
type Status int

const (
	// Ready: keep running.
	Ready Status = iota

	// TerminateNextComTime: process one more checkpoint, then stop.
	TerminateNextComTime

	// NormalTerminate: graceful shutdown. Terminal.
	NormalTerminate

	// AbnormalTerminate: shutdown on error. Terminal.
	AbnormalTerminate
)

// ---- HOST CODES ----
// These values define the host protocol and MUST NOT be configurable.

const (
	codeReady                int16 = 1
	codeTerminateNextComTime int16 = 9
	codeNormalTerminate      int16 = -100
	codeAbnormalTerminate    int16 = -101
)

// Terminal reports whether no checkpoint may follow this status.
func (s Status) Terminal() bool {
	return s == NormalTerminate || s == AbnormalTerminate
}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	return s >= Ready && s <= AbnormalTerminate
}

// Code returns the host wire code for s.
// Unknown values map to the abnormal code so the host never sees garbage.
func (s Status) Code() int16 {
	switch s {
	case Ready:
		return codeReady
	case TerminateNextComTime:
		return codeTerminateNextComTime
	case NormalTerminate:
		return codeNormalTerminate
	default:
		return codeAbnormalTerminate
	}
}

func (s Status) String() string {
	switch s {
	case Ready:
		return "READY"
	case TerminateNextComTime:
		return "TERMINATE_NEXT_COM_TIME"
	case NormalTerminate:
		return "NORMAL_TERMINATE"
	case AbnormalTerminate:
		return "ABNORMAL_TERMINATE"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// ParseCode maps a host wire code back to a Status.
func ParseCode(code int16) (Status, error) {
	switch code {
	case codeReady:
		return Ready, nil
	case codeTerminateNextComTime:
		return TerminateNextComTime, nil
	case codeNormalTerminate:
		return NormalTerminate, nil
	case codeAbnormalTerminate:
		return AbnormalTerminate, nil
	default:
		return AbnormalTerminate, fmt.Errorf("control: unknown status code %d", code)
	}
}
