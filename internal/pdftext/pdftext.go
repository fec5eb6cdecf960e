// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftext extracts the plain text of a PDF with pluggable backends.
// Page order is preserved and page breaks collapse into the line stream.
package pdftext

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/rubric-report/pkg/types"
)

// ErrNoText is wrapped by ExtractionError when a PDF opens but yields no text,
// as happens with scanned reports.
var ErrNoText = errors.New("no text extracted")

// Extractor returns the full plain text of a PDF. Different backends
// (MuPDF, pure Go) implement this interface.
type Extractor interface {
	// Name returns the backend name.
	Name() string

	// Extract reads the PDF at path and returns its text, pages in order.
	Extract(path string) (string, error)
}

// ExtractionError reports that the text of a PDF could not be obtained.
type ExtractionError struct {
	Path    string
	Backend string
	Err     error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting text from %s (%s): %v", e.Path, e.Backend, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// New returns the extractor for backend. An empty backend selects fitz.
func New(backend types.ExtractionBackend) (Extractor, error) {
	switch backend {
	case types.BackendFitz, "":
		return FitzExtractor{}, nil
	case types.BackendPDF:
		return PureExtractor{}, nil
	default:
		return nil, fmt.Errorf("unknown extraction backend %q (want %s or %s)", backend, types.BackendFitz, types.BackendPDF)
	}
}

// pageReader yields the text of each page of an opened document.
type pageReader func() ([]string, error)

// collect runs read and concatenates its pages, converting failures and
// text-less documents into an ExtractionError.
func collect(path, backend string, read pageReader) (string, error) {
	pages, err := read()
	if err != nil {
		return "", &ExtractionError{Path: path, Backend: backend, Err: err}
	}

	var b strings.Builder
	for _, p := range pages {
		b.WriteString(p)
		if !strings.HasSuffix(p, "\n") {
			b.WriteByte('\n')
		}
	}

	text := b.String()
	if strings.TrimSpace(text) == "" {
		return "", &ExtractionError{Path: path, Backend: backend, Err: ErrNoText}
	}
	return text, nil
}
