// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Student identifies the author and essay a pair of input files belongs to,
// as recovered from the file name.
type Student struct {
	Name  string `json:"name" yaml:"name"`
	Title string `json:"title" yaml:"title"`
}

// Worksheet holds the content pulled from a DOCX grading worksheet.
type Worksheet struct {
	// Table holds the grading table rows, header row excluded. Each row is
	// the trimmed text of its cells.
	Table [][]string `json:"table" yaml:"table"`

	// Essay holds the essay paragraphs in order, verbatim.
	Essay []string `json:"essay" yaml:"essay"`
}

// SectionGrade is the per-criterion summary stored in the ledger.
type SectionGrade struct {
	Section    string `json:"section" yaml:"section"`
	Grade      string `json:"grade" yaml:"grade"`
	QuoteCount int    `json:"quote_count" yaml:"quote_count"`
}

// ReportRecord describes one generated report.
type ReportRecord struct {
	ID           int64          `json:"id" yaml:"id"`
	Student      string         `json:"student" yaml:"student"`
	Title        string         `json:"title" yaml:"title"`
	OverallGrade string         `json:"overall_grade" yaml:"overall_grade"`
	Sections     []SectionGrade `json:"sections" yaml:"sections"`
	PDFPath      string         `json:"pdf_path" yaml:"pdf_path"`
	DOCXPath     string         `json:"docx_path,omitempty" yaml:"docx_path,omitempty"`
	ReportPath   string         `json:"report_path" yaml:"report_path"`
	ProcessedAt  time.Time      `json:"processed_at" yaml:"processed_at"`
}

// NewReportRecord summarizes a parsed feedback document for the ledger.
func NewReportRecord(student Student, doc FeedbackDocument) ReportRecord {
	rec := ReportRecord{
		Student:      student.Name,
		Title:        student.Title,
		OverallGrade: doc.OverallGrade,
	}
	for _, s := range doc.Sections {
		rec.Sections = append(rec.Sections, SectionGrade{
			Section:    s.Name,
			Grade:      s.Grade,
			QuoteCount: len(s.Quotes),
		})
	}
	return rec
}
