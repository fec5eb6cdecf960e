// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feedback

import (
	"regexp"
	"strings"
)

var (
	// truncateMarker matches the first heading of the report's appendix.
	// Nothing after it carries grading data.
	truncateMarker = regexp.MustCompile(`(?i)Document Review|Spelling and Grammar`)

	paginationLine = regexp.MustCompile(`^Page \d+ of \d+$`)

	// bannerLine matches the running header the report prints on every page,
	// e.g. "Taylor_  Light pollution_review".
	bannerLine = regexp.MustCompile(`(?i)^[A-Za-z]+_\s+.*_review$`)
)

// Normalize turns the extracted text of a whole report into trimmed,
// non-empty lines in source order. Text from the first appendix marker on is
// dropped, as are pagination lines and running banners.
func Normalize(text string) []string {
	if loc := truncateMarker.FindStringIndex(text); loc != nil {
		text = text[:loc[0]]
	}

	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || paginationLine.MatchString(line) || bannerLine.MatchString(line) {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
