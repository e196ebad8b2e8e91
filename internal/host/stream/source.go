// internal/host/stream/source.go
package stream

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tamzrod/outboard-coupler/internal/snapshot"
)

// document is one checkpoint as written by the host.
//
//	time: 10
//	wells:
//	  PRODUCER1: {BHP: 2000, STO: 80, STG: 9000}
//	...
type document struct {
	Time  *float64                      `yaml:"time"`
	Wells map[string]map[string]float64 `yaml:"wells"`
}

// Source reads checkpoints as YAML documents from a line stream.
// A document ends at a "..." line, at the next "---" line, or at EOF.
// Interactive hosts must end every document with "..." so the checkpoint
// is delivered without waiting for the next one.
type Source struct {
	sc     *bufio.Scanner
	closer io.Closer
	n      int
}

// NewSource wraps r. If r is an io.Closer, Close closes it.
func NewSource(r io.Reader) *Source {
	s := &Source{sc: bufio.NewScanner(r)}
	s.sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// Next blocks until the next document is complete.
// Returns io.EOF once the stream ends with no pending document.
func (s *Source) Next(ctx context.Context) (snapshot.RawCheckpoint, error) {
	if err := ctx.Err(); err != nil {
		return snapshot.RawCheckpoint{}, err
	}

	var buf strings.Builder
	pending := false

	for s.sc.Scan() {
		line := s.sc.Text()
		marker := strings.TrimRight(line, " \t")

		if marker == "..." || marker == "---" {
			if pending {
				return s.decode(buf.String())
			}
			continue
		}
		if strings.TrimSpace(line) != "" && !strings.HasPrefix(strings.TrimSpace(line), "#") {
			pending = true
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	if err := s.sc.Err(); err != nil {
		return snapshot.RawCheckpoint{}, fmt.Errorf("host stream: read: %w", err)
	}
	if pending {
		return s.decode(buf.String())
	}
	return snapshot.RawCheckpoint{}, io.EOF
}

// Close closes the underlying reader, if any.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func (s *Source) decode(text string) (snapshot.RawCheckpoint, error) {
	idx := s.n
	s.n++

	var d document
	if err := yaml.Unmarshal([]byte(text), &d); err != nil {
		return snapshot.RawCheckpoint{}, fmt.Errorf("host stream: document %d: %w", idx, err)
	}
	return d.raw(), nil
}

func (d document) raw() snapshot.RawCheckpoint {
	raw := snapshot.RawCheckpoint{Time: d.Time}

	names := make([]string, 0, len(d.Wells))
	for name := range d.Wells {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		raw.Wells = append(raw.Wells, snapshot.RawWell{Name: name, Fields: d.Wells[name]})
	}
	return raw
}
