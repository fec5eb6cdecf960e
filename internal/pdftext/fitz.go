// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"fmt"

	"github.com/gen2brain/go-fitz"

	"github.com/pdiddy/rubric-report/pkg/types"
)

// FitzExtractor extracts text with MuPDF through go-fitz. It needs cgo.
type FitzExtractor struct{}

func (FitzExtractor) Name() string { return string(types.BackendFitz) }

// Extract opens path with MuPDF and returns the text of every page.
func (f FitzExtractor) Extract(path string) (string, error) {
	return collect(path, f.Name(), func() ([]string, error) {
		doc, err := fitz.New(path)
		if err != nil {
			return nil, fmt.Errorf("opening PDF: %w", err)
		}
		defer doc.Close()

		pages := make([]string, 0, doc.NumPage())
		for i := 0; i < doc.NumPage(); i++ {
			text, err := doc.Text(i)
			if err != nil {
				return nil, fmt.Errorf("reading page %d: %w", i+1, err)
			}
			pages = append(pages, text)
		}
		return pages, nil
	})
}
