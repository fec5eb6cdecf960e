// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package worksheet

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const namespaceW = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// body is the text content of a document body: top-level paragraphs in
// order and the cells of the first top-level table.
type body struct {
	paragraphs []string
	table      [][]string
}

// bodyWalker tracks nesting while streaming document.xml. Only paragraphs
// directly under w:body count as essay text, and only cells of the first
// top-level table count as grading rows. Nested tables and text boxes are
// skipped.
type bodyWalker struct {
	out body

	inBody    bool
	sawBody   bool
	inText    bool
	tblDepth  int
	pDepth    int
	tables    int
	text      strings.Builder
	cellParas []string
	cellSpan  int
	row       []string
}

func parseBody(r io.Reader) (body, error) {
	w := &bodyWalker{}
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return body{}, fmt.Errorf("decoding document XML: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			w.start(t)
		case xml.EndElement:
			w.end(t)
		case xml.CharData:
			if w.pDepth == 1 && w.inText {
				w.text.Write(t)
			}
		}
	}
	if !w.sawBody {
		return body{}, errors.New("decoding document XML: no w:body element")
	}
	return w.out, nil
}

// collecting reports whether the current paragraph belongs to the body or
// to the first table.
func (w *bodyWalker) collecting() bool {
	return w.tblDepth == 0 || (w.tblDepth == 1 && w.tables == 1)
}

func (w *bodyWalker) start(t xml.StartElement) {
	if t.Name.Space != namespaceW {
		return
	}
	switch t.Name.Local {
	case "body":
		w.inBody, w.sawBody = true, true
	case "tbl":
		if w.inBody && w.pDepth == 0 {
			w.tblDepth++
			if w.tblDepth == 1 {
				w.tables++
			}
		}
	case "tr":
		if w.tblDepth == 1 && w.tables == 1 {
			w.row = []string{}
		}
	case "tc":
		if w.tblDepth == 1 && w.tables == 1 {
			w.cellParas = nil
			w.cellSpan = 1
		}
	case "gridSpan":
		if w.tblDepth == 1 && w.tables == 1 {
			if n, err := strconv.Atoi(attr(t, "val")); err == nil && n > 1 {
				w.cellSpan = n
			}
		}
	case "p":
		if !w.inBody {
			return
		}
		w.pDepth++
		if w.pDepth == 1 {
			w.text.Reset()
		}
	case "t":
		w.inText = true
	case "tab":
		// Tab stop definitions in w:pPr carry a position; run tabs do not.
		if w.pDepth == 1 && attr(t, "pos") == "" {
			w.text.WriteByte('\t')
		}
	case "br", "cr":
		if w.pDepth == 1 {
			w.text.WriteByte('\n')
		}
	}
}

func (w *bodyWalker) end(t xml.EndElement) {
	if t.Name.Space != namespaceW {
		return
	}
	switch t.Name.Local {
	case "body":
		w.inBody = false
	case "t":
		w.inText = false
	case "p":
		if w.pDepth == 0 {
			return
		}
		w.pDepth--
		if w.pDepth > 0 || !w.collecting() {
			return
		}
		if w.tblDepth == 0 {
			w.out.paragraphs = append(w.out.paragraphs, w.text.String())
		} else {
			w.cellParas = append(w.cellParas, w.text.String())
		}
	case "tc":
		if w.tblDepth == 1 && w.tables == 1 {
			cell := strings.TrimSpace(strings.Join(w.cellParas, "\n"))
			// A spanning cell is repeated once per grid column it covers.
			for i := 0; i < w.cellSpan; i++ {
				w.row = append(w.row, cell)
			}
		}
	case "tr":
		if w.tblDepth == 1 && w.tables == 1 {
			w.out.table = append(w.out.table, w.row)
			w.row = nil
		}
	case "tbl":
		if w.tblDepth > 0 && w.pDepth == 0 {
			w.tblDepth--
		}
	}
}

func attr(t xml.StartElement, local string) string {
	for _, a := range t.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
