// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders one student's combined grading report: the essay,
// the rubric table from the worksheet, and the quote/feedback pairs from the
// feedback report, in a fixed section order.
package report

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/rubric-report/internal/docx"
	"github.com/pdiddy/rubric-report/pkg/types"
)

const (
	defaultFont = "Calibri"
	bodySize    = 12
	headingSize = 14
	tableSize   = 10
	tableStyle  = "TableGrid"
	tableCols   = 3
)

// rowOrder lists the first-cell prefixes that fix the rubric table order.
var rowOrder = []string{"overall", "thesis", "evidence", "sophistication"}

var columnWidths = []docx.Length{docx.Inches(1.2), docx.Inches(1.2), docx.Inches(4.1)}

// Generator builds report documents.
type Generator struct {
	font string
	now  func() time.Time
}

// New creates a generator. An empty font selects Calibri.
func New(cfg types.ReportConfig) *Generator {
	font := cfg.Font
	if font == "" {
		font = defaultFont
	}
	return &Generator{font: font, now: time.Now}
}

// WithClock returns a copy of g that dates reports with now.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	c := *g
	c.now = now
	return &c
}

// FileName returns the report file name for a student.
func FileName(student types.Student) string {
	return NumberedFileName(student, 1)
}

// NumberedFileName returns the name of the student's n-th report in one
// folder: Taylor_report.docx, then Taylor_report_2.docx.
func NumberedFileName(student types.Student, n int) string {
	if n <= 1 {
		return student.Name + "_report.docx"
	}
	return fmt.Sprintf("%s_report_%d.docx", student.Name, n)
}

// FormatDate renders t as "17 February 2026".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), t.Month(), t.Year())
}

// Write builds the report and saves it under dir, returning its path.
func (g *Generator) Write(dir string, student types.Student, fb types.FeedbackDocument, ws types.Worksheet) (string, error) {
	path := filepath.Join(dir, FileName(student))
	if err := g.WriteFile(path, student, fb, ws); err != nil {
		return "", err
	}
	return path, nil
}

// WriteFile builds the report and saves it at path.
func (g *Generator) WriteFile(path string, student types.Student, fb types.FeedbackDocument, ws types.Worksheet) error {
	if err := g.Build(student, fb, ws).Save(path); err != nil {
		return fmt.Errorf("writing report for %s: %w", student.Name, err)
	}
	return nil
}

// Build lays out the full report.
func (g *Generator) Build(student types.Student, fb types.FeedbackDocument, ws types.Worksheet) *docx.Document {
	d := docx.New(g.font, bodySize)

	d.AddText("Name: " + student.Name)
	d.AddText("Essay: " + student.Title)
	d.AddText("Date: " + FormatDate(g.now()))
	d.AddBlank()

	g.addEssay(d, ws.Essay)
	d.AddBlank()
	d.AddBlank()

	g.addRubricTable(d, ws.Table)
	d.AddBlank()
	d.AddBlank()

	g.addFeedback(d, fb)
	return d
}

func (g *Generator) heading(text string) docx.Run {
	return docx.Run{Text: text, Bold: true, Size: headingSize, Font: g.font}
}

func (g *Generator) addEssay(d *docx.Document, paragraphs []string) {
	d.AddParagraph(docx.Paragraph{Runs: []docx.Run{g.heading("ESSAY")}})
	for _, p := range paragraphs {
		d.AddParagraph(docx.Paragraph{Runs: []docx.Run{
			{Text: p, Size: bodySize, Font: g.font, Break: true},
		}})
	}
}

// addRubricTable writes the heading, kept on the same page as the table,
// and the table itself when the worksheet had one.
func (g *Generator) addRubricTable(d *docx.Document, rows [][]string) {
	d.AddParagraph(docx.Paragraph{
		KeepNext:  true,
		KeepLines: true,
		Runs:      []docx.Run{g.heading("AP RUBRIC")},
	})
	if len(rows) == 0 {
		return
	}

	ordered := OrderRows(rows)
	table := docx.Table{Style: tableStyle, Widths: columnWidths}
	for i, row := range ordered {
		r := docx.Row{CantSplit: true}
		for j := 0; j < tableCols; j++ {
			text := ""
			if j < len(row) {
				text = row[j]
			}
			p := docx.Paragraph{
				KeepLines: true,
				KeepNext:  i < len(ordered)-1,
			}
			if text != "" {
				p.Runs = []docx.Run{{Text: text, Size: tableSize, Font: g.font}}
			}
			r.Cells = append(r.Cells, docx.Cell{Paragraphs: []docx.Paragraph{p}})
		}
		table.Rows = append(table.Rows, r)
	}
	d.AddTable(table)
}

// addFeedback writes the overall grade and the rubric sections in
// canonical order, whatever order the feedback report used.
func (g *Generator) addFeedback(d *docx.Document, fb types.FeedbackDocument) {
	if fb.OverallGrade != "" {
		d.AddParagraph(docx.Paragraph{Runs: []docx.Run{g.heading("OVERALL: " + fb.OverallGrade)}})
		d.AddBlank()
	}

	for _, name := range types.RubricNames {
		sec, ok := fb.Section(name)
		if !ok {
			continue
		}
		d.AddParagraph(docx.Paragraph{
			SpaceBefore: docx.Spacing(docx.Pt(12)),
			SpaceAfter:  docx.Spacing(0),
			Runs:        []docx.Run{g.heading(sec.Name + ": " + sec.Grade)},
		})

		for i, q := range sec.Quotes {
			before := docx.Pt(12)
			if i == 0 {
				before = docx.Pt(6)
			}
			qp := docx.Paragraph{
				SpaceBefore: docx.Spacing(before),
				SpaceAfter:  docx.Spacing(0),
			}
			if q.Quote != "" {
				qp.Runs = []docx.Run{{Text: q.Quote, Italic: true, Size: bodySize, Font: g.font}}
			}
			d.AddParagraph(qp)

			if q.Feedback != "" {
				d.AddParagraph(docx.Paragraph{
					IndentLeft:  docx.Inches(0.5),
					SpaceBefore: docx.Spacing(docx.Pt(2)),
					SpaceAfter:  docx.Spacing(0),
					Runs:        []docx.Run{{Text: q.Feedback, Size: bodySize, Font: g.font}},
				})
			}
		}
		d.AddBlank()
	}
}

// OrderRows sorts worksheet rows into Overall, Thesis, Evidence,
// Sophistication order by the prefix of their first cell. Rows matching no
// prefix follow in their original order.
func OrderRows(rows [][]string) [][]string {
	used := make([]bool, len(rows))
	out := make([][]string, 0, len(rows))

	for _, prefix := range rowOrder {
		for i, row := range rows {
			if used[i] || len(row) == 0 {
				continue
			}
			if strings.HasPrefix(strings.ToLower(row[0]), prefix) {
				out = append(out, row)
				used[i] = true
				break
			}
		}
	}
	for i, row := range rows {
		if !used[i] {
			out = append(out, row)
		}
	}
	return out
}
