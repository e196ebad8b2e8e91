// internal/keyword/encode.go
package keyword

import (
	"strconv"
	"strings"

	"github.com/tamzrod/outboard-coupler/internal/control"
)

// KeywordWCURRCN is the host keyword for the well current-conditions toggle.
const KeywordWCURRCN = "WCURRCN"

// Encode converts a Record into the artifact lines for one checkpoint.
// Command lines come first, in order, then well settings, in order.
// Command text is opaque: no validation, no dedupe.
// No IO. No side effects.
func Encode(rec control.Record) []string {
	lines := rec.Lines()
	settings := rec.WellSettings()

	out := make([]string, 0, len(lines)+len(settings))

	for _, l := range lines {
		out = append(out, frame(l))
	}
	for _, s := range settings {
		out = append(out, EncodeWellSetting(s))
	}

	return out
}

// EncodeWellSetting renders one WCURRCN directive.
//
//	WCURRCN 'P1' ON
//	WCURRCN ('P1' 'P2') OFF
func EncodeWellSetting(s control.WellSetting) string {
	var b strings.Builder

	b.WriteString(KeywordWCURRCN)
	b.WriteByte(' ')

	if s.List || len(s.Wells) != 1 {
		b.WriteByte('(')
		for i, w := range s.Wells {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(Quote(w))
		}
		b.WriteByte(')')
	} else {
		b.WriteString(Quote(s.Wells[0]))
	}

	b.WriteByte(' ')
	b.WriteString(s.Flag.String())

	return frame(b.String())
}

// Quote renders a well name as a single-quoted host token.
// Embedded quotes are doubled.
func Quote(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// FormatNumber renders v as the shortest decimal that parses back to v.
// 2500 -> "2500", 1312.5 -> "1312.5".
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// frame keeps one entry on one physical line of valid UTF-8.
// Invalid byte sequences become U+FFFD.
func frame(s string) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(s)
}
