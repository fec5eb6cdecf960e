// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package feedback parses the plain text of a grading-feedback report into
// a FeedbackDocument: the overall grade and overview, then one RubricSection
// per rubric header with its grade, overview and quote/feedback pairs.
//
// The input carries no markup. Structure is recovered from line content
// alone: header lines, "<int>/<int>" grade tokens and quote marks.
package feedback

import "github.com/pdiddy/rubric-report/pkg/types"

// Parse normalizes the extracted text of one report and parses it. It never
// fails; missing structure yields empty fields.
func Parse(text string) types.FeedbackDocument {
	return ParseLines(Normalize(text))
}

// ParseLines parses already-normalized lines.
func ParseLines(lines []string) types.FeedbackDocument {
	headers := findHeaders(lines)

	doc := types.FeedbackDocument{
		Sections: make([]types.RubricSection, 0, len(headers)),
	}
	doc.OverallGrade, doc.OverallOverview = overallBlock(lines, headers)

	for i, sp := range sectionSpans(headers, len(lines)) {
		doc.Sections = append(doc.Sections, parseSection(headers[i].name, lines[sp.start:sp.end]))
	}
	return doc
}
