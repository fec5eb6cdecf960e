// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docx writes minimal WordprocessingML (.docx) documents: styled
// paragraphs and runs, and grid tables with fixed column widths.
package docx

import "math"

// Length is a distance in twentieths of a point (twips), the unit Word
// uses for indents, spacing and widths.
type Length int

// Inches converts inches to a Length.
func Inches(in float64) Length { return Length(math.Round(in * 1440)) }

// Pt converts points to a Length.
func Pt(pt float64) Length { return Length(math.Round(pt * 20)) }

// Run is a stretch of text sharing one set of character properties.
type Run struct {
	Text   string
	Bold   bool
	Italic bool

	// Size is the font size in points; zero inherits the document default.
	Size float64

	// Font overrides the document font family when set.
	Font string

	// Break appends a line break (soft return) after the text.
	Break bool
}

// Paragraph is a block of runs with optional layout properties.
type Paragraph struct {
	Runs []Run

	KeepNext  bool
	KeepLines bool

	// IndentLeft indents the whole paragraph from the left margin.
	IndentLeft Length

	// SpaceBefore and SpaceAfter override paragraph spacing when non-nil.
	SpaceBefore *Length
	SpaceAfter  *Length
}

// Spacing returns a pointer to l, for use with SpaceBefore and SpaceAfter.
func Spacing(l Length) *Length { return &l }

// Cell holds the paragraphs of one table cell.
type Cell struct {
	Paragraphs []Paragraph
}

// Row is one table row.
type Row struct {
	Cells []Cell

	// CantSplit keeps the row on one page.
	CantSplit bool
}

// Table is a fixed-layout table. Widths gives each column's width; cells
// take the width of their column.
type Table struct {
	Style  string
	Widths []Length
	Rows   []Row
}

// Document accumulates body content in order.
type Document struct {
	// Font and Size set the default character properties.
	Font string
	Size float64

	blocks []any
}

// New returns an empty document with the given default font family and size.
func New(font string, size float64) *Document {
	return &Document{Font: font, Size: size}
}

// AddParagraph appends p to the body.
func (d *Document) AddParagraph(p Paragraph) {
	d.blocks = append(d.blocks, p)
}

// AddText appends a paragraph holding a single plain run.
func (d *Document) AddText(text string) {
	d.AddParagraph(Paragraph{Runs: []Run{{Text: text}}})
}

// AddBlank appends an empty paragraph.
func (d *Document) AddBlank() {
	d.AddParagraph(Paragraph{})
}

// AddTable appends t to the body.
func (d *Document) AddTable(t Table) {
	d.blocks = append(d.blocks, t)
}

// Len returns the number of body blocks.
func (d *Document) Len() int { return len(d.blocks) }
