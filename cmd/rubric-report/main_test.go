// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/rubric-report/pkg/types"
)

func testViper(t *testing.T, configYAML string) *viper.Viper {
	t.Helper()
	v := viper.New()
	setDefaults(v)
	bindEnv(v)
	if configYAML != "" {
		path := filepath.Join(t.TempDir(), "rubric-report.yaml")
		require.NoError(t, os.WriteFile(path, []byte(configYAML), 0o644))
		v.SetConfigFile(path)
		require.NoError(t, v.ReadInConfig())
	}
	return v
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(testViper(t, ""), pflag.NewFlagSet("test", pflag.ContinueOnError), nil)
	require.NoError(t, err)
	assert.Equal(t, types.Config{
		Extraction: types.ExtractionConfig{Backend: types.BackendFitz},
		Report:     types.ReportConfig{Font: "Calibri"},
		Batch:      types.BatchConfig{OutputDir: ".", Workers: 4},
		Ledger:     types.LedgerConfig{MaxResults: 50},
	}, cfg)
}

func TestLoadConfig_Precedence(t *testing.T) {
	t.Setenv("RUBRIC_REPORT_BATCH_WORKERS", "8")
	t.Setenv("RUBRIC_REPORT_REPORT_FONT", "Georgia")

	v := testViper(t, `
extraction:
  backend: pdf
report:
  font: Arial
batch:
  pdf_dir: feedback
  workers: 2
ledger:
  path: grades.db
`)
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("ledger", "", "")
	flags.String("output-dir", ".", "")
	require.NoError(t, flags.Parse([]string{"--ledger", "other.db"}))

	cfg, err := loadConfig(v, flags, map[string]string{
		"ledger.path":      "ledger",
		"batch.output_dir": "output-dir",
	})
	require.NoError(t, err)

	assert.Equal(t, types.BackendPDF, cfg.Extraction.Backend, "file")
	assert.Equal(t, "Georgia", cfg.Report.Font, "env over file")
	assert.Equal(t, 8, cfg.Batch.Workers, "env over file")
	assert.Equal(t, "feedback", cfg.Batch.PDFDir)
	assert.Equal(t, ".", cfg.Batch.OutputDir, "unset flag keeps default")
	assert.Equal(t, "other.db", cfg.Ledger.Path, "set flag over file")
}

func TestLoadConfig_UnknownFlag(t *testing.T) {
	_, err := loadConfig(testViper(t, ""), pflag.NewFlagSet("test", pflag.ContinueOnError), map[string]string{
		"ledger.path": "ledger",
	})
	assert.ErrorContains(t, err, "unknown flag --ledger")
}

func TestWriteFeedback(t *testing.T) {
	doc := types.FeedbackDocument{
		OverallGrade: "4/6",
		Sections: []types.RubricSection{{
			Name:   types.SectionThesis,
			Grade:  "1/1",
			Quotes: []types.QuoteFeedbackPair{{Quote: `"Q."`, Feedback: "F."}},
		}},
	}

	var y bytes.Buffer
	require.NoError(t, writeFeedback(&y, doc, "yaml"))
	assert.Contains(t, y.String(), "overall_grade: 4/6\n")
	assert.Contains(t, y.String(), "- name: Thesis\n")

	var j bytes.Buffer
	require.NoError(t, writeFeedback(&j, doc, "json"))
	assert.Contains(t, j.String(), `"overall_grade": "4/6"`)

	assert.ErrorContains(t, writeFeedback(&bytes.Buffer{}, doc, "xml"), "unsupported format")
}

func TestReadFeedbackText_PlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.TXT")
	require.NoError(t, os.WriteFile(path, []byte("Grading\n4/6\n"), 0o644))

	text, err := readFeedbackText(path, types.BackendFitz)
	require.NoError(t, err)
	assert.Equal(t, "Grading\n4/6\n", text)

	_, err = readFeedbackText(path+".pdf", "ocr")
	assert.ErrorContains(t, err, "unknown extraction backend")
}

func TestCollectInputs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Sam_Dams_review.pdf"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Sam_Dams.docx"), nil, 0o644))

	pdfs, docxs, err := collectInputs(types.BatchConfig{PDFDir: dir, DOCXDir: dir}, []string{"x.pdf"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"x.pdf", filepath.Join(dir, "Sam_Dams_review.pdf")}, pdfs)
	assert.Equal(t, []string{filepath.Join(dir, "Sam_Dams.docx")}, docxs)

	_, _, err = collectInputs(types.BatchConfig{PDFDir: filepath.Join(dir, "missing")}, nil, nil)
	assert.Error(t, err)
}

func TestFormatHistory(t *testing.T) {
	records := []types.ReportRecord{{
		Student:      "Taylor",
		Title:        "A Very Long Essay Title About Light Pollution",
		OverallGrade: "4/6",
		Sections:     []types.SectionGrade{{Section: types.SectionThesis, Grade: "1/1"}},
		ProcessedAt:  time.Date(2026, 2, 17, 9, 0, 0, 0, time.UTC),
	}}

	var buf bytes.Buffer
	require.NoError(t, formatHistory(&buf, records, false))
	assert.Contains(t, buf.String(), "A Very Long Essay Tit...")
	assert.Contains(t, buf.String(), "Thesis 1/1")
	assert.Contains(t, buf.String(), "\n1 reports\n")

	buf.Reset()
	accented := []types.ReportRecord{{Student: "Zoë", Title: "Été à Montréal: la pollution lumineuse", ProcessedAt: records[0].ProcessedAt}}
	require.NoError(t, formatHistory(&buf, accented, false))
	assert.Contains(t, buf.String(), "Été à Montréal: la po...")
	assert.True(t, utf8.ValidString(buf.String()))

	buf.Reset()
	require.NoError(t, formatHistory(&buf, nil, false))
	assert.Equal(t, "No reports recorded.\n", buf.String())

	buf.Reset()
	require.NoError(t, formatHistory(&buf, nil, true))
	assert.Equal(t, "[]\n", buf.String())
}
