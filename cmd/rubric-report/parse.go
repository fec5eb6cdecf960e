// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/rubric-report/internal/feedback"
	"github.com/pdiddy/rubric-report/internal/pdftext"
	"github.com/pdiddy/rubric-report/pkg/types"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file.pdf|file.txt>",
	Short: "Parse one feedback report and print its structure",
	Long: `Parse extracts the text of a feedback PDF (or reads an already extracted
.txt file) and prints the overall grade, overview, and every rubric section
with its quote/feedback pairs as YAML or JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper(), cmd.Flags(), map[string]string{
		"extraction.backend": "backend",
	})
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")

	text, err := readFeedbackText(args[0], cfg.Extraction.Backend)
	if err != nil {
		return err
	}
	return writeFeedback(cmd.OutOrStdout(), feedback.Parse(text), format)
}

// readFeedbackText returns the report text, extracting it from PDFs with
// the configured backend.
func readFeedbackText(path string, backend types.ExtractionBackend) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
		return string(data), nil
	}

	ex, err := pdftext.New(backend)
	if err != nil {
		return "", err
	}
	return ex.Extract(path)
}

func writeFeedback(w io.Writer, doc types.FeedbackDocument, format string) error {
	switch format {
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
}

func init() {
	parseCmd.Flags().String("format", "yaml", "output format: yaml or json")
	parseCmd.Flags().String("backend", string(types.BackendFitz), "PDF text backend: fitz (MuPDF) or pdf (pure Go)")

	rootCmd.AddCommand(parseCmd)
}
