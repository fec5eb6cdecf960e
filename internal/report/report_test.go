// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/rubric-report/pkg/types"
)

var fixedNow = func() time.Time { return time.Date(2026, time.February, 17, 9, 30, 0, 0, time.UTC) }

// documentXML renders the report and returns its main part.
func documentXML(t *testing.T, g *Generator, student types.Student, fb types.FeedbackDocument, ws types.Worksheet) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, g.Build(student, fb, ws).Write(&buf))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			require.NoError(t, err)
			defer rc.Close()
			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			return string(data)
		}
	}
	t.Fatal("word/document.xml not found")
	return ""
}

// paragraphTexts returns the text of every paragraph, table cells included,
// in document order.
func paragraphTexts(t *testing.T, body string) []string {
	t.Helper()
	var out []string
	var cur strings.Builder
	inText := false
	dec := xml.NewDecoder(strings.NewReader(body))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		switch tk := tok.(type) {
		case xml.StartElement:
			switch tk.Name.Local {
			case "p":
				cur.Reset()
			case "t":
				inText = true
			}
		case xml.EndElement:
			switch tk.Name.Local {
			case "p":
				out = append(out, cur.String())
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				cur.Write(tk)
			}
		}
	}
	return out
}

func sampleFeedback() types.FeedbackDocument {
	return types.FeedbackDocument{
		OverallGrade:    "4/6",
		OverallOverview: "Not rendered.",
		Sections: []types.RubricSection{
			{Name: types.SectionSophistication, Grade: "0/1", Overview: "Not rendered either.", Quotes: []types.QuoteFeedbackPair{}},
			{Name: types.SectionThesis, Grade: "1/1", Quotes: []types.QuoteFeedbackPair{{Quote: `"Q1."`, Feedback: "F1"}}},
			{Name: types.SectionEvidence, Grade: "3/4", Quotes: []types.QuoteFeedbackPair{
				{Quote: `"Q2."`},
				{Quote: `"Q3."`, Feedback: "F3"},
			}},
		},
	}
}

func sampleWorksheet() types.Worksheet {
	return types.Worksheet{
		Table: [][]string{
			{"Sophistication", "0/1", "None"},
			{"Evidence and Commentary", "3/4", "Thin"},
			{"Thesis", "1/1", "Clear"},
			{"Overall", "4/6", "Good"},
			{"Extra"},
		},
		Essay: []string{"Para one", "Para two"},
	}
}

func TestBuild_Layout(t *testing.T) {
	g := New(types.ReportConfig{}).WithClock(fixedNow)
	student := types.Student{Name: "Taylor", Title: "Light Pollution"}

	body := documentXML(t, g, student, sampleFeedback(), sampleWorksheet())

	assert.Equal(t, []string{
		"Name: Taylor",
		"Essay: Light Pollution",
		"Date: 17 February 2026",
		"",
		"ESSAY",
		"Para one",
		"Para two",
		"",
		"",
		"AP RUBRIC",
		"Overall", "4/6", "Good",
		"Thesis", "1/1", "Clear",
		"Evidence and Commentary", "3/4", "Thin",
		"Sophistication", "0/1", "None",
		"Extra", "", "",
		"",
		"",
		"OVERALL: 4/6",
		"",
		"Thesis: 1/1",
		`"Q1."`,
		"F1",
		"",
		"Evidence and Commentary: 3/4",
		`"Q2."`,
		`"Q3."`,
		"F3",
		"",
		"Sophistication: 0/1",
		"",
	}, paragraphTexts(t, body))
}

func TestBuild_Formatting(t *testing.T) {
	g := New(types.ReportConfig{Font: "Georgia"}).WithClock(fixedNow)
	body := documentXML(t, g, types.Student{Name: "Taylor"}, sampleFeedback(), sampleWorksheet())

	assert.Contains(t, body, `w:ascii="Georgia"`)
	assert.Contains(t, body, `<w:i></w:i>`)
	assert.Contains(t, body, `<w:ind w:left="720"></w:ind>`)
	assert.Contains(t, body, `<w:tblStyle w:val="TableGrid">`)
	assert.Contains(t, body, `<w:cantSplit></w:cantSplit>`)
	assert.Contains(t, body, `<w:keepNext></w:keepNext><w:keepLines></w:keepLines></w:pPr><w:r><w:rPr><w:rFonts w:ascii="Georgia" w:hAnsi="Georgia" w:cs="Georgia"></w:rFonts><w:b></w:b><w:sz w:val="28">`)
	assert.Contains(t, body, `<w:spacing w:before="120" w:after="0">`)
	assert.Contains(t, body, `<w:spacing w:before="240" w:after="0">`)
	assert.Contains(t, body, `<w:spacing w:before="40" w:after="0">`)
}

func TestBuild_Sparse(t *testing.T) {
	g := New(types.ReportConfig{}).WithClock(fixedNow)
	fb := types.FeedbackDocument{Sections: []types.RubricSection{{Name: types.SectionThesis, Quotes: []types.QuoteFeedbackPair{}}}}

	body := documentXML(t, g, types.Student{Name: "Sam", Title: "Unknown"}, fb, types.Worksheet{})

	texts := paragraphTexts(t, body)
	assert.Equal(t, []string{
		"Name: Sam", "Essay: Unknown", "Date: 17 February 2026", "",
		"ESSAY", "", "",
		"AP RUBRIC", "", "",
		"Thesis: ", "",
	}, texts)
	assert.NotContains(t, body, "<w:tbl>")
}

func TestOrderRows(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want [][]string
	}{
		{
			name: "canonical order with prefix match",
			rows: [][]string{{"Sophistication (0-1)"}, {"EVIDENCE & commentary"}, {"Thesis"}, {"Overall Score"}},
			want: [][]string{{"Overall Score"}, {"Thesis"}, {"EVIDENCE & commentary"}, {"Sophistication (0-1)"}},
		},
		{
			name: "unmatched rows follow in order",
			rows: [][]string{{"Notes"}, {"Thesis"}, {}, {"Other"}},
			want: [][]string{{"Thesis"}, {"Notes"}, {}, {"Other"}},
		},
		{
			name: "only first match per prefix moves",
			rows: [][]string{{"Thesis b"}, {"Thesis a"}},
			want: [][]string{{"Thesis b"}, {"Thesis a"}},
		},
		{
			name: "duplicate rows both kept",
			rows: [][]string{{"x", "1"}, {"x", "1"}},
			want: [][]string{{"x", "1"}, {"x", "1"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OrderRows(tt.rows))
		})
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "17 February 2026", FormatDate(fixedNow()))
	assert.Equal(t, "1 March 2025", FormatDate(time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local)))
}

func TestWrite(t *testing.T) {
	g := New(types.ReportConfig{}).WithClock(fixedNow)
	dir := t.TempDir()

	path, err := g.Write(dir, types.Student{Name: "Taylor", Title: "X"}, sampleFeedback(), sampleWorksheet())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Taylor_report.docx"), path)

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	zr.Close()
}

func TestNumberedFileName(t *testing.T) {
	s := types.Student{Name: "Taylor"}
	assert.Equal(t, "Taylor_report.docx", FileName(s))
	assert.Equal(t, "Taylor_report.docx", NumberedFileName(s, 1))
	assert.Equal(t, "Taylor_report_2.docx", NumberedFileName(s, 2))
	assert.Equal(t, "Taylor_report_10.docx", NumberedFileName(s, 10))
}
