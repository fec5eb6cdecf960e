// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/rubric-report/internal/batch"
	"github.com/pdiddy/rubric-report/internal/ledger"
	"github.com/pdiddy/rubric-report/internal/pdftext"
	"github.com/pdiddy/rubric-report/internal/report"
	"github.com/pdiddy/rubric-report/pkg/types"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Generate a report for every feedback PDF",
	Long: `Process pairs each feedback PDF with the DOCX worksheet of the same
student (matched by file name, ignoring case) and writes one report per
student into a new dated folder, report_data_<dd_Mon_yyyy>, under the output
directory.

Inputs are given as files (--pdf, --docx, repeatable) or as directories
(--pdf-dir, --docx-dir). A PDF without a worksheet still gets a report and a
warning. Failed documents are reported and skipped; the command fails only
when no report could be written.`,
	RunE: runProcess,
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper(), cmd.Flags(), map[string]string{
		"extraction.backend": "backend",
		"report.font":        "font",
		"batch.pdf_dir":      "pdf-dir",
		"batch.docx_dir":     "docx-dir",
		"batch.output_dir":   "output-dir",
		"batch.workers":      "workers",
		"ledger.path":        "ledger",
	})
	if err != nil {
		return err
	}

	pdfs, _ := cmd.Flags().GetStringArray("pdf")
	docxs, _ := cmd.Flags().GetStringArray("docx")
	pdfs, docxs, err = collectInputs(cfg.Batch, pdfs, docxs)
	if err != nil {
		return err
	}
	if len(pdfs) == 0 {
		return fmt.Errorf("no PDF files to process: use --pdf or --pdf-dir")
	}

	ex, err := pdftext.New(cfg.Extraction.Backend)
	if err != nil {
		return err
	}

	opts := []batch.Option{batch.WithWorkers(cfg.Batch.Workers)}
	if cfg.Ledger.Path != "" {
		store, err := ledger.NewStore(cfg.Ledger)
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, batch.WithRecorder(store))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	p := batch.NewProcessor(ex, report.New(cfg.Report), opts...)
	result, err := p.Run(ctx, batch.Pair(pdfs, docxs), cfg.Batch.OutputDir, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if result.AllFailed() {
		return fmt.Errorf("all %d document(s) failed", result.Failed)
	}
	return nil
}

// collectInputs adds the PDFs and worksheets found in the configured
// directories to the explicitly listed files.
func collectInputs(cfg types.BatchConfig, pdfs, docxs []string) ([]string, []string, error) {
	if cfg.PDFDir != "" {
		found, err := batch.ListFiles(cfg.PDFDir, ".pdf")
		if err != nil {
			return nil, nil, err
		}
		pdfs = append(pdfs, found...)
	}
	if cfg.DOCXDir != "" {
		found, err := batch.ListFiles(cfg.DOCXDir, ".docx")
		if err != nil {
			return nil, nil, err
		}
		docxs = append(docxs, found...)
	}
	return pdfs, docxs, nil
}

func init() {
	processCmd.Flags().StringArray("pdf", nil, "feedback PDF file (repeatable)")
	processCmd.Flags().StringArray("docx", nil, "worksheet DOCX file (repeatable)")
	processCmd.Flags().String("pdf-dir", "", "directory of feedback PDFs")
	processCmd.Flags().String("docx-dir", "", "directory of worksheet DOCX files")
	processCmd.Flags().String("output-dir", ".", "directory under which the dated report folder is created")
	processCmd.Flags().Int("workers", 4, "number of documents processed concurrently")
	processCmd.Flags().String("ledger", "", "SQLite grade ledger to record reports in")
	processCmd.Flags().String("backend", string(types.BackendFitz), "PDF text backend: fitz (MuPDF) or pdf (pure Go)")
	processCmd.Flags().String("font", "Calibri", "report font family")

	rootCmd.AddCommand(processCmd)
}
