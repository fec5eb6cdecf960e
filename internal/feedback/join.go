// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feedback

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// JoinLines merges wrapped lines into one paragraph. A trailing hyphen
// followed by a line starting in lower case is taken as a broken word and
// removed; every other boundary becomes a single space. Genuine compounds
// split at their hyphen are merged too.
func JoinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(lines[0])
	for _, line := range lines[1:] {
		acc := b.String()
		if strings.HasSuffix(acc, "-") && startsLower(line) {
			b.Reset()
			b.WriteString(acc[:len(acc)-1])
			b.WriteString(line)
			continue
		}
		b.WriteByte(' ')
		b.WriteString(line)
	}
	return b.String()
}

func startsLower(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r != utf8.RuneError && unicode.IsLower(r)
}
