// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/rubric-report/pkg/types"
)

// PureExtractor extracts text with the pure-Go ledongthuc/pdf reader, for
// builds without cgo. Its line breaking is less faithful than MuPDF's.
type PureExtractor struct{}

func (PureExtractor) Name() string { return string(types.BackendPDF) }

// Extract opens path and returns the plain text of every non-empty page.
func (p PureExtractor) Extract(path string) (string, error) {
	return collect(path, p.Name(), func() ([]string, error) {
		f, r, err := pdf.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening PDF: %w", err)
		}
		defer f.Close()

		var pages []string
		for i := 1; i <= r.NumPage(); i++ {
			page := r.Page(i)
			if page.V.IsNull() {
				continue
			}
			text, err := page.GetPlainText(nil)
			if err != nil {
				return nil, fmt.Errorf("reading page %d: %w", i, err)
			}
			pages = append(pages, text)
		}
		return pages, nil
	})
}
