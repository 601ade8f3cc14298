package logger

import (
	"fmt"
	"strings"
)

// SanitizeForLog escapes control characters in user-chosen paths and tool
// output before they are logged. Printable Unicode passes through unchanged;
// \n, \r and \t get their usual escapes and every other C0 control or DEL
// becomes \xNN.
func SanitizeForLog(s string) string {
	if !strings.ContainsFunc(s, isControl) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		switch {
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case isControl(r):
			fmt.Fprintf(&b, `\x%02x`, r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7f
}
