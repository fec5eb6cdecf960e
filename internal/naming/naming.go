// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package naming recovers the student name and essay title from report and
// worksheet file names of the form "<Name>_<Title>[_review].<ext>".
package naming

import (
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pdiddy/rubric-report/pkg/types"
)

// UnknownTitle is used when a file name has no title part.
const UnknownTitle = "Unknown"

var (
	partSeparator = regexp.MustCompile(`_\s*`)
	reviewSuffix  = regexp.MustCompile(`(?i)\s*review\s*$`)
)

// ParseFilename splits a file name into student name and essay title. The
// first underscore-separated part is the name. With three or more parts the
// last one is dropped (it carries the "review" marker); the rest, joined
// with spaces and stripped of a trailing "review", form the title.
func ParseFilename(filename string) types.Student {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	parts := partSeparator.Split(base, -1)
	if len(parts) < 2 {
		return types.Student{Name: base, Title: UnknownTitle}
	}

	titleParts := parts[1:2]
	if len(parts) > 2 {
		titleParts = parts[1 : len(parts)-1]
	}
	title := strings.TrimSpace(strings.Join(titleParts, " "))
	title = reviewSuffix.ReplaceAllString(title, "")

	return types.Student{
		Name:  strings.TrimSpace(parts[0]),
		Title: TitleCase(title),
	}
}

// TitleCase upper-cases the first letter of every word and lower-cases the
// rest. Casing is locale-independent (Unicode default rules), so the result
// does not depend on the host language settings.
func TitleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

// SameStudent reports whether two student names refer to the same person,
// ignoring case.
func SameStudent(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
