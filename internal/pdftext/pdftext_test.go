// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/rubric-report/pkg/types"
)

func TestNew(t *testing.T) {
	tests := []struct {
		backend types.ExtractionBackend
		want    string
		wantErr bool
	}{
		{backend: "", want: "fitz"},
		{backend: types.BackendFitz, want: "fitz"},
		{backend: types.BackendPDF, want: "pdf"},
		{backend: "grobid", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			ex, err := New(tt.backend)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unknown extraction backend")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ex.Name())
		})
	}
}

func TestCollect(t *testing.T) {
	text, err := collect("a.pdf", "fake", func() ([]string, error) {
		return []string{"Grading\n3/4", "Page 2 of 2\nThesis\n"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Grading\n3/4\nPage 2 of 2\nThesis\n", text)
}

func TestCollect_ReadFailure(t *testing.T) {
	cause := errors.New("corrupt xref")
	_, err := collect("a.pdf", "fake", func() ([]string, error) { return nil, cause })

	var exErr *ExtractionError
	require.ErrorAs(t, err, &exErr)
	assert.Equal(t, "a.pdf", exErr.Path)
	assert.Equal(t, "fake", exErr.Backend)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "extracting text from a.pdf (fake): corrupt xref")
}

func TestCollect_NoText(t *testing.T) {
	_, err := collect("scan.pdf", "fake", func() ([]string, error) {
		return []string{"  \n", "\t"}, nil
	})
	assert.ErrorIs(t, err, ErrNoText)
}

func TestExtract_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.pdf")

	for _, ex := range []Extractor{FitzExtractor{}, PureExtractor{}} {
		t.Run(ex.Name(), func(t *testing.T) {
			_, err := ex.Extract(missing)
			var exErr *ExtractionError
			require.ErrorAs(t, err, &exErr)
			assert.Equal(t, missing, exErr.Path)
		})
	}
}

func TestExtract_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf"), 0o644))

	_, err := PureExtractor{}.Extract(path)
	var exErr *ExtractionError
	assert.ErrorAs(t, err, &exErr)
}
