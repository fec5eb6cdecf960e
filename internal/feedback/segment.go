// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feedback

import (
	"regexp"
	"strings"

	"github.com/pdiddy/rubric-report/pkg/types"
)

var gradeToken = regexp.MustCompile(`^\d+/\d+$`)

const overallHeader = "grading"

// header marks the line at which a rubric section starts.
type header struct {
	index int
	name  string
}

// span is a half-open range of line indices.
type span struct {
	start, end int
}

// IsGradeToken reports whether s has the form "<int>/<int>".
func IsGradeToken(s string) bool {
	return gradeToken.MatchString(s)
}

// rubricName returns the canonical rubric name line matches, ignoring case.
func rubricName(line string) (string, bool) {
	for _, name := range types.RubricNames {
		if strings.EqualFold(line, name) {
			return name, true
		}
	}
	return "", false
}

// findHeaders scans lines for rubric headers. Only the first occurrence of
// each rubric name counts; a repeat stays inside the enclosing section.
func findHeaders(lines []string) []header {
	var headers []header
	seen := make(map[string]bool, len(types.RubricNames))
	for i, line := range lines {
		name, ok := rubricName(line)
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		headers = append(headers, header{index: i, name: name})
	}
	return headers
}

// sectionSpans returns the content range of each header: from the line
// after it up to the next header, or to the end of lines for the last one.
func sectionSpans(headers []header, n int) []span {
	spans := make([]span, len(headers))
	for i, h := range headers {
		end := n
		if i+1 < len(headers) {
			end = headers[i+1].index
		}
		spans[i] = span{start: h.index + 1, end: end}
	}
	return spans
}

// overallBlock extracts the overall grade and its overview. The grade must
// sit on the line right after the "Grading" header; without it nothing is
// recorded.
func overallBlock(lines []string, headers []header) (grade, overview string) {
	for i, line := range lines {
		if !strings.EqualFold(line, overallHeader) {
			continue
		}
		if i+1 >= len(lines) || !IsGradeToken(lines[i+1]) {
			return "", ""
		}

		start := i + 2
		end := len(lines)
		for _, h := range headers {
			if h.index >= start {
				end = h.index
				break
			}
		}
		return lines[i+1], JoinLines(lines[start:end])
	}
	return "", ""
}
