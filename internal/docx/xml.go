// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docx

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// Namespace of the WordprocessingML main part.
const NamespaceW = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// Element order inside each property block follows the OOXML schema; Word
// rejects documents that reorder them.

type documentXML struct {
	XMLName xml.Name `xml:"w:document"`
	NS      string   `xml:"xmlns:w,attr"`
	Body    bodyXML  `xml:"w:body"`
}

type bodyXML struct {
	Blocks []any
	SectPr sectPrXML `xml:"w:sectPr"`
}

type sectPrXML struct {
	PgSz  pgSzXML  `xml:"w:pgSz"`
	PgMar pgMarXML `xml:"w:pgMar"`
}

type pgSzXML struct {
	W int `xml:"w:w,attr"`
	H int `xml:"w:h,attr"`
}

type pgMarXML struct {
	Top    int `xml:"w:top,attr"`
	Right  int `xml:"w:right,attr"`
	Bottom int `xml:"w:bottom,attr"`
	Left   int `xml:"w:left,attr"`
}

type onOffXML struct{}

type valXML struct {
	Val string `xml:"w:val,attr"`
}

type pXML struct {
	XMLName xml.Name `xml:"w:p"`
	PPr     *pPrXML  `xml:"w:pPr,omitempty"`
	Runs    []rXML   `xml:"w:r"`
}

type pPrXML struct {
	KeepNext  *onOffXML   `xml:"w:keepNext,omitempty"`
	KeepLines *onOffXML   `xml:"w:keepLines,omitempty"`
	Spacing   *spacingXML `xml:"w:spacing,omitempty"`
	Ind       *indXML     `xml:"w:ind,omitempty"`
}

type spacingXML struct {
	Before string `xml:"w:before,attr,omitempty"`
	After  string `xml:"w:after,attr,omitempty"`
}

type indXML struct {
	Left int `xml:"w:left,attr"`
}

type rXML struct {
	RPr *rPrXML   `xml:"w:rPr,omitempty"`
	T   *tXML     `xml:"w:t,omitempty"`
	Br  *onOffXML `xml:"w:br,omitempty"`
}

type rPrXML struct {
	RFonts *rFontsXML `xml:"w:rFonts,omitempty"`
	B      *onOffXML  `xml:"w:b,omitempty"`
	I      *onOffXML  `xml:"w:i,omitempty"`
	Sz     *valXML    `xml:"w:sz,omitempty"`
	SzCs   *valXML    `xml:"w:szCs,omitempty"`
}

type rFontsXML struct {
	ASCII string `xml:"w:ascii,attr"`
	HAnsi string `xml:"w:hAnsi,attr"`
	CS    string `xml:"w:cs,attr"`
}

type tXML struct {
	Space string `xml:"xml:space,attr,omitempty"`
	Text  string `xml:",chardata"`
}

type tblXML struct {
	XMLName xml.Name   `xml:"w:tbl"`
	TblPr   tblPrXML   `xml:"w:tblPr"`
	Grid    tblGridXML `xml:"w:tblGrid"`
	Rows    []trXML    `xml:"w:tr"`
}

type tblPrXML struct {
	Style  *valXML      `xml:"w:tblStyle,omitempty"`
	W      widthXML     `xml:"w:tblW"`
	Layout tblLayoutXML `xml:"w:tblLayout"`
}

type widthXML struct {
	W    int    `xml:"w:w,attr"`
	Type string `xml:"w:type,attr"`
}

type tblLayoutXML struct {
	Type string `xml:"w:type,attr"`
}

type tblGridXML struct {
	Cols []gridColXML `xml:"w:gridCol"`
}

type gridColXML struct {
	W int `xml:"w:w,attr"`
}

type trXML struct {
	TrPr  *trPrXML `xml:"w:trPr,omitempty"`
	Cells []tcXML  `xml:"w:tc"`
}

type trPrXML struct {
	CantSplit *onOffXML `xml:"w:cantSplit,omitempty"`
}

type tcXML struct {
	TcPr       tcPrXML `xml:"w:tcPr"`
	Paragraphs []pXML  `xml:"w:p"`
}

type tcPrXML struct {
	W widthXML `xml:"w:tcW"`
}

func halfPoints(pt float64) *valXML {
	return &valXML{Val: strconv.Itoa(int(pt * 2))}
}

func (d *Document) runXML(r Run) rXML {
	out := rXML{}
	props := rPrXML{}
	set := false
	if r.Font != "" {
		props.RFonts = &rFontsXML{ASCII: r.Font, HAnsi: r.Font, CS: r.Font}
		set = true
	}
	if r.Bold {
		props.B = &onOffXML{}
		set = true
	}
	if r.Italic {
		props.I = &onOffXML{}
		set = true
	}
	if r.Size > 0 {
		props.Sz = halfPoints(r.Size)
		props.SzCs = halfPoints(r.Size)
		set = true
	}
	if set {
		out.RPr = &props
	}
	if r.Text != "" {
		t := &tXML{Text: r.Text}
		if strings.TrimSpace(r.Text) != r.Text {
			t.Space = "preserve"
		}
		out.T = t
	}
	if r.Break {
		out.Br = &onOffXML{}
	}
	return out
}

// paragraphXML splits runs containing newlines into line breaks so text
// taken verbatim from a worksheet keeps its shape.
func (d *Document) paragraphXML(p Paragraph) pXML {
	out := pXML{}
	props := pPrXML{}
	set := false
	if p.KeepNext {
		props.KeepNext = &onOffXML{}
		set = true
	}
	if p.KeepLines {
		props.KeepLines = &onOffXML{}
		set = true
	}
	if p.SpaceBefore != nil || p.SpaceAfter != nil {
		sp := &spacingXML{}
		if p.SpaceBefore != nil {
			sp.Before = strconv.Itoa(int(*p.SpaceBefore))
		}
		if p.SpaceAfter != nil {
			sp.After = strconv.Itoa(int(*p.SpaceAfter))
		}
		props.Spacing = sp
		set = true
	}
	if p.IndentLeft > 0 {
		props.Ind = &indXML{Left: int(p.IndentLeft)}
		set = true
	}
	if set {
		out.PPr = &props
	}

	for _, r := range p.Runs {
		lines := strings.Split(r.Text, "\n")
		for i, line := range lines {
			part := r
			part.Text = line
			part.Break = i < len(lines)-1 || r.Break
			out.Runs = append(out.Runs, d.runXML(part))
		}
	}
	return out
}

func (d *Document) tableXML(t Table) tblXML {
	total := 0
	grid := make([]gridColXML, len(t.Widths))
	for i, w := range t.Widths {
		grid[i] = gridColXML{W: int(w)}
		total += int(w)
	}

	out := tblXML{
		TblPr: tblPrXML{
			W:      widthXML{W: total, Type: "dxa"},
			Layout: tblLayoutXML{Type: "fixed"},
		},
		Grid: tblGridXML{Cols: grid},
	}
	if t.Style != "" {
		out.TblPr.Style = &valXML{Val: t.Style}
	}

	for _, row := range t.Rows {
		tr := trXML{}
		if row.CantSplit {
			tr.TrPr = &trPrXML{CantSplit: &onOffXML{}}
		}
		for j, cell := range row.Cells {
			tc := tcXML{}
			if j < len(t.Widths) {
				tc.TcPr.W = widthXML{W: int(t.Widths[j]), Type: "dxa"}
			} else {
				tc.TcPr.W = widthXML{Type: "auto"}
			}
			for _, p := range cell.Paragraphs {
				tc.Paragraphs = append(tc.Paragraphs, d.paragraphXML(p))
			}
			// Every cell needs at least one paragraph.
			if len(tc.Paragraphs) == 0 {
				tc.Paragraphs = []pXML{{}}
			}
			tr.Cells = append(tr.Cells, tc)
		}
		out.Rows = append(out.Rows, tr)
	}
	return out
}

func (d *Document) documentXML() documentXML {
	doc := documentXML{
		NS: NamespaceW,
		Body: bodyXML{
			SectPr: sectPrXML{
				PgSz:  pgSzXML{W: 12240, H: 15840},
				PgMar: pgMarXML{Top: 1440, Right: 1440, Bottom: 1440, Left: 1440},
			},
		},
	}
	for _, b := range d.blocks {
		switch v := b.(type) {
		case Paragraph:
			doc.Body.Blocks = append(doc.Body.Blocks, d.paragraphXML(v))
		case Table:
			doc.Body.Blocks = append(doc.Body.Blocks, d.tableXML(v))
		}
	}
	return doc
}
