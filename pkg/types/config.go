// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ExtractionBackend identifies the PDF text extraction library.
type ExtractionBackend string

const (
	BackendFitz ExtractionBackend = "fitz"
	BackendPDF  ExtractionBackend = "pdf"
)

// ExtractionConfig holds settings for PDF text extraction.
type ExtractionConfig struct {
	// Backend selects the extractor: fitz (MuPDF) or pdf (pure Go).
	Backend ExtractionBackend `json:"backend" yaml:"backend"`
}

// ReportConfig holds settings for report rendering.
type ReportConfig struct {
	// Font is the font family used for every run (default "Calibri").
	Font string `json:"font" yaml:"font"`
}

// BatchConfig holds settings for the process command.
type BatchConfig struct {
	// PDFDir and DOCXDir are scanned for inputs; the files found are added to
	// any explicitly listed files.
	PDFDir  string `json:"pdf_dir" yaml:"pdf_dir"`
	DOCXDir string `json:"docx_dir" yaml:"docx_dir"`

	// OutputDir is the root under which the dated report folder is created.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Workers bounds the number of documents processed concurrently (default 4).
	Workers int `json:"workers" yaml:"workers"`
}

// LedgerConfig holds settings for the grade ledger.
type LedgerConfig struct {
	// Path is the SQLite database file. Empty disables the ledger.
	Path string `json:"path" yaml:"path"`

	// MaxResults is the default number of records returned by history (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// Config groups all settings read from rubric-report.yaml.
type Config struct {
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Report     ReportConfig     `json:"report" yaml:"report"`
	Batch      BatchConfig      `json:"batch" yaml:"batch"`
	Ledger     LedgerConfig     `json:"ledger" yaml:"ledger"`
}
