// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package worksheet reads the grading worksheet DOCX that accompanies each
// feedback report: the rubric table and the essay text.
package worksheet

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/rubric-report/pkg/types"
)

const documentPart = "word/document.xml"

// essayStart marks the paragraph after which the essay begins.
const essayStart = "content review"

// essayStops mark the worksheet appendix; the essay ends before the first of them.
var essayStops = []string{"Grammar and Spelling Review", "Scan Results", "AI Detection"}

// Read opens the DOCX at path and extracts its worksheet content.
func Read(path string) (types.Worksheet, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return types.Worksheet{}, fmt.Errorf("opening DOCX %s: %w", path, err)
	}
	defer zr.Close()

	var part *zip.File
	for _, f := range zr.File {
		if f.Name == documentPart {
			part = f
			break
		}
	}
	if part == nil {
		return types.Worksheet{}, fmt.Errorf("opening DOCX %s: missing %s", path, documentPart)
	}

	rc, err := part.Open()
	if err != nil {
		return types.Worksheet{}, fmt.Errorf("opening %s in %s: %w", documentPart, path, err)
	}
	defer rc.Close()

	ws, err := Parse(rc)
	if err != nil {
		return types.Worksheet{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return ws, nil
}

// Parse extracts worksheet content from the XML of a document.xml part.
// The first body-level table supplies the grading rows (its header row is
// skipped); body paragraphs supply the essay.
func Parse(r io.Reader) (types.Worksheet, error) {
	b, err := parseBody(r)
	if err != nil {
		return types.Worksheet{}, err
	}

	ws := types.Worksheet{Essay: essay(b.paragraphs)}
	if len(b.table) > 1 {
		ws.Table = b.table[1:]
	}
	return ws, nil
}

// essay returns the paragraphs between the "Content Review" heading and the
// first appendix marker, skipping blank ones. Kept paragraphs are verbatim.
func essay(paragraphs []string) []string {
	var out []string
	started := false
	for _, p := range paragraphs {
		text := strings.ToLower(strings.TrimSpace(p))
		if containsAny(text, essayStops) {
			break
		}
		if strings.Contains(text, essayStart) {
			started = true
			continue
		}
		if started && text != "" {
			out = append(out, p)
		}
	}
	return out
}

func containsAny(lower string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(lower, strings.ToLower(m)) {
			return true
		}
	}
	return false
}
