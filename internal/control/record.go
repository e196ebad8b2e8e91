// internal/control/record.go
package control

// Flag is the ON/OFF value of a well current-conditions directive.
type Flag bool

const (
	Off Flag = false
	On  Flag = true
)

func (f Flag) String() string {
	if f {
		return "ON"
	}
	return "OFF"
}

// WellSetting toggles the host current-conditions switch for one or more wells.
// List is true when the setting was given as a list, even a list of one.
type WellSetting struct {
	Wells []string
	List  bool
	Flag  Flag
}

// Record is what one decision produces for one checkpoint.
// It is immutable: accessors return copies.
// The zero Record is the no-op record (Ready, nothing to send).
type Record struct {
	status   Status
	lines    []string
	messages []string
	settings []WellSetting
}

// Status returns the requested outboard status.
func (r Record) Status() Status { return r.status }

// Lines returns the command lines in insertion order.
func (r Record) Lines() []string { return cloneStrings(r.lines) }

// Messages returns the operator messages in insertion order.
func (r Record) Messages() []string { return cloneStrings(r.messages) }

// WellSettings returns the current-conditions directives in insertion order.
func (r Record) WellSettings() []WellSetting {
	if len(r.settings) == 0 {
		return nil
	}
	out := make([]WellSetting, len(r.settings))
	for i, s := range r.settings {
		out[i] = WellSetting{Wells: cloneStrings(s.Wells), List: s.List, Flag: s.Flag}
	}
	return out
}

// Empty reports whether the record carries nothing for the host.
func (r Record) Empty() bool {
	return r.status == Ready && len(r.lines) == 0 && len(r.messages) == 0 && len(r.settings) == 0
}

// WithMessage returns a copy of r with msg appended to its messages
// and status replaced by s.
func (r Record) WithMessage(s Status, msg string) Record {
	out := r
	out.status = s
	out.messages = append(cloneStrings(r.messages), msg)
	return out
}

// ---- BUILDER ----

// Builder accumulates one Record. Not safe for concurrent use.
type Builder struct {
	rec Record
}

// NewBuilder returns a builder for a Ready record.
func NewBuilder() *Builder {
	return &Builder{}
}

// SetStatus sets the outboard status. The last call wins.
func (b *Builder) SetStatus(s Status) *Builder {
	b.rec.status = s
	return b
}

// InfoToSim appends one command line, written verbatim to the artifact.
func (b *Builder) InfoToSim(line string) *Builder {
	b.rec.lines = append(b.rec.lines, line)
	return b
}

// Message appends one operator message.
func (b *Builder) Message(msg string) *Builder {
	b.rec.messages = append(b.rec.messages, msg)
	return b
}

// SetWCURRCN sets the current-conditions flag for a single well.
func (b *Builder) SetWCURRCN(well string, flag Flag) *Builder {
	b.rec.settings = append(b.rec.settings, WellSetting{Wells: []string{well}, Flag: flag})
	return b
}

// SetWCURRCNList sets the current-conditions flag for a list of wells.
func (b *Builder) SetWCURRCNList(wells []string, flag Flag) *Builder {
	b.rec.settings = append(b.rec.settings, WellSetting{Wells: cloneStrings(wells), List: true, Flag: flag})
	return b
}

// Build returns the accumulated Record.
// The builder may keep being used; later calls do not affect the result.
func (b *Builder) Build() Record {
	return Record{
		status:   b.rec.status,
		lines:    cloneStrings(b.rec.lines),
		messages: cloneStrings(b.rec.messages),
		settings: Record{settings: b.rec.settings}.WellSettings(),
	}
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
