// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch pairs feedback PDFs with grading worksheets and turns each
// pair into a report, several documents at a time. A failing document never
// stops the rest of the batch.
package batch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/rubric-report/internal/feedback"
	"github.com/pdiddy/rubric-report/internal/naming"
	"github.com/pdiddy/rubric-report/internal/report"
	"github.com/pdiddy/rubric-report/internal/worksheet"
	"github.com/pdiddy/rubric-report/pkg/types"
)

const (
	folderPrefix   = "report_data_"
	folderDate     = "02_Jan_2006"
	defaultWorkers = 4
)

// Extractor returns the plain text of a PDF. pdftext.Extractor satisfies it.
type Extractor interface {
	Extract(path string) (string, error)
}

// Recorder stores a summary of each generated report. ledger.Store
// satisfies it.
type Recorder interface {
	Record(ctx context.Context, rec types.ReportRecord) (int64, error)
}

// Job is one feedback PDF and the worksheet paired with it. DOCXPath is
// empty when no worksheet matched.
type Job struct {
	Student  types.Student
	PDFPath  string
	DOCXPath string
}

// Outcome is the result of processing one Job.
type Outcome struct {
	Job        Job
	ReportPath string
	Warnings   []string
	Err        error
}

// BatchResult holds the outcome of a batch run.
type BatchResult struct {
	Processed int
	Failed    int
	Warnings  int

	// OutputDir is the dated folder the reports were written to.
	OutputDir string

	Outcomes []Outcome
}

// Total returns the number of documents attempted.
func (r BatchResult) Total() int {
	return r.Processed + r.Failed
}

// HasFailures reports whether any document failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// AllFailed reports whether documents were attempted and none succeeded.
func (r BatchResult) AllFailed() bool {
	return r.Failed > 0 && r.Processed == 0
}

// Processor runs the per-document pipeline: extract, parse, read the
// worksheet, write the report and record it.
type Processor struct {
	extractor Extractor
	reports   *report.Generator
	recorder  Recorder
	workers   int
	now       func() time.Time
}

// Option configures a Processor.
type Option func(*Processor)

// WithRecorder records every generated report.
func WithRecorder(r Recorder) Option {
	return func(p *Processor) { p.recorder = r }
}

// WithWorkers bounds the number of documents processed at once.
func WithWorkers(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithClock sets the clock used for folder names, report dates and ledger
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

// NewProcessor creates a processor that extracts text with ex and renders
// reports with gen.
func NewProcessor(ex Extractor, gen *report.Generator, opts ...Option) *Processor {
	p := &Processor{
		extractor: ex,
		workers:   defaultWorkers,
		now:       time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	p.reports = gen.WithClock(p.now)
	return p
}

// Pair matches every PDF with the first worksheet, in input order, whose
// file name names the same student.
func Pair(pdfPaths, docxPaths []string) []Job {
	students := make([]types.Student, len(docxPaths))
	for i, d := range docxPaths {
		students[i] = naming.ParseFilename(d)
	}

	jobs := make([]Job, len(pdfPaths))
	for i, p := range pdfPaths {
		job := Job{Student: naming.ParseFilename(p), PDFPath: p}
		for j, s := range students {
			if naming.SameStudent(job.Student.Name, s.Name) {
				job.DOCXPath = docxPaths[j]
				break
			}
		}
		jobs[i] = job
	}
	return jobs
}

// ListFiles returns the files in dir with extension ext (case-insensitive),
// sorted by name. Office lock files ("~$...") are skipped.
func ListFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, "~$") {
			continue
		}
		if strings.EqualFold(filepath.Ext(name), ext) {
			out = append(out, filepath.Join(dir, name))
		}
	}
	sort.Strings(out)
	return out, nil
}

// FolderName returns the dated output folder name, e.g. report_data_17_Feb_2026.
func FolderName(t time.Time) string {
	return folderPrefix + t.Format(folderDate)
}

// CreateOutputDir creates a fresh dated folder under root. When the folder
// already exists a counter suffix is added, starting at _2.
func CreateOutputDir(root string, t time.Time) (string, error) {
	base := filepath.Join(root, FolderName(t))
	dir := base
	for n := 2; ; n++ {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			break
		} else if err != nil {
			return "", fmt.Errorf("checking output directory %s: %w", dir, err)
		}
		dir = fmt.Sprintf("%s_%d", base, n)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	return dir, nil
}

// Run processes jobs into a new dated folder under root, printing one status
// line per document to w in input order, followed by a summary. The returned
// error is non-nil only when the output folder cannot be created or ctx is
// cancelled; per-document failures are counted in the result.
func (p *Processor) Run(ctx context.Context, jobs []Job, root string, w io.Writer) (BatchResult, error) {
	dir, err := CreateOutputDir(root, p.now())
	if err != nil {
		return BatchResult{}, err
	}

	names := ReportNames(jobs)
	outcomes := make([]Outcome, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	scheduled := 0
	for i, job := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			outcomes[i] = p.processSafe(gctx, job, filepath.Join(dir, names[i]))
			return nil
		})
		scheduled++
	}
	_ = g.Wait()

	result := BatchResult{OutputDir: dir}
	for i := range outcomes {
		if i >= scheduled {
			outcomes[i] = Outcome{Job: jobs[i], Err: context.Cause(ctx)}
		}
		o := outcomes[i]
		if o.Err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", filepath.Base(o.Job.PDFPath), o.Err)
			result.Failed++
			continue
		}
		for _, warn := range o.Warnings {
			fmt.Fprintf(w, "warning: %s\n", warn)
		}
		result.Warnings += len(o.Warnings)
		fmt.Fprintf(w, "processed: %s -> %s\n", o.Job.Student.Name, filepath.Base(o.ReportPath))
		result.Processed++
	}
	result.Outcomes = outcomes

	fmt.Fprintf(w, "\nBatch summary: %d processed, %d failed, %d warnings (saved to %s)\n",
		result.Processed, result.Failed, result.Warnings, dir)

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// ReportNames assigns every job a distinct report file name. A student with
// several feedback PDFs gets Name_report.docx, Name_report_2.docx, ... in
// input order. Names are compared ignoring case so reports do not overwrite
// each other on case-insensitive file systems.
func ReportNames(jobs []Job) []string {
	names := make([]string, len(jobs))
	taken := make(map[string]bool, len(jobs))
	counts := make(map[string]int, len(jobs))
	for i, job := range jobs {
		key := strings.ToLower(job.Student.Name)
		for {
			counts[key]++
			name := report.NumberedFileName(job.Student, counts[key])
			if !taken[strings.ToLower(name)] {
				taken[strings.ToLower(name)] = true
				names[i] = name
				break
			}
		}
	}
	return names
}

// processSafe runs process and turns a panic into a failed outcome.
func (p *Processor) processSafe(ctx context.Context, job Job, path string) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Job: job, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return p.process(ctx, job, path)
}

func (p *Processor) process(ctx context.Context, job Job, path string) Outcome {
	out := Outcome{Job: job}
	if err := ctx.Err(); err != nil {
		out.Err = err
		return out
	}

	text, err := p.extractor.Extract(job.PDFPath)
	if err != nil {
		out.Err = err
		return out
	}
	fb := feedback.Parse(text)

	var ws types.Worksheet
	if job.DOCXPath == "" {
		out.Warnings = append(out.Warnings, "No matching DOCX for "+job.Student.Name)
	} else {
		ws, err = worksheet.Read(job.DOCXPath)
		if err != nil {
			out.Err = err
			return out
		}
	}

	if err := p.reports.WriteFile(path, job.Student, fb, ws); err != nil {
		out.Err = err
		return out
	}
	out.ReportPath = path

	if p.recorder != nil {
		rec := types.NewReportRecord(job.Student, fb)
		rec.PDFPath = job.PDFPath
		rec.DOCXPath = job.DOCXPath
		rec.ReportPath = path
		rec.ProcessedAt = p.now().UTC()
		if _, err := p.recorder.Record(ctx, rec); err != nil {
			out.Warnings = append(out.Warnings, fmt.Sprintf("recording %s: %v", job.Student.Name, err))
		}
	}
	return out
}
