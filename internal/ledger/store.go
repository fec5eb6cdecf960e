// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger keeps a history of generated reports and the grades they
// carried in a SQLite database.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/rubric-report/pkg/types"
)

const (
	defaultMaxResults = 50

	// timeLayout is fixed-width so processed_at sorts as text.
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

// Store manages the ledger database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// QueryOptions filters List and the exports.
type QueryOptions struct {
	// Student matches the student name, ignoring case. Empty matches all.
	Student string

	// Limit caps the number of records. Zero uses the configured default.
	Limit int
}

// NewStore opens or creates the ledger database at cfg.Path, creating the
// parent directory and schema when missing.
func NewStore(cfg types.LedgerConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("opening ledger: no database path configured")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS reports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			student TEXT NOT NULL,
			title TEXT,
			overall_grade TEXT,
			pdf_path TEXT,
			docx_path TEXT,
			report_path TEXT,
			processed_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS section_grades (
			report_id INTEGER NOT NULL REFERENCES reports(id) ON DELETE CASCADE,
			section TEXT NOT NULL,
			grade TEXT,
			quote_count INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (report_id, section)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_student ON reports(student COLLATE NOCASE)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_processed_at ON reports(processed_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores rec and its section grades in one transaction and returns
// the new report id. A zero ProcessedAt is stamped with the current time.
func (s *Store) Record(ctx context.Context, rec types.ReportRecord) (int64, error) {
	if rec.ProcessedAt.IsZero() {
		rec.ProcessedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO reports (student, title, overall_grade, pdf_path, docx_path, report_path, processed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Student, rec.Title, rec.OverallGrade, rec.PDFPath, rec.DOCXPath, rec.ReportPath,
		rec.ProcessedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting report for %s: %w", rec.Student, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading report id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO section_grades (report_id, section, grade, quote_count) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, sg := range rec.Sections {
		if _, err := stmt.ExecContext(ctx, id, sg.Section, sg.Grade, sg.QuoteCount); err != nil {
			return 0, fmt.Errorf("inserting section %s: %w", sg.Section, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing report: %w", err)
	}
	return id, nil
}

// List returns recorded reports, newest first.
func (s *Store) List(ctx context.Context, opts QueryOptions) ([]types.ReportRecord, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = s.maxResults
	}

	query := `SELECT id, student, title, overall_grade, pdf_path, docx_path, report_path, processed_at
		FROM reports`
	var args []any
	if opts.Student != "" {
		query += ` WHERE student = ? COLLATE NOCASE`
		args = append(args, opts.Student)
	}
	query += ` ORDER BY processed_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying reports: %w", err)
	}
	defer rows.Close()

	var records []types.ReportRecord
	for rows.Next() {
		var rec types.ReportRecord
		var title, grade, pdf, docxPath, reportPath sql.NullString
		var processedAt string
		if err := rows.Scan(&rec.ID, &rec.Student, &title, &grade, &pdf, &docxPath, &reportPath, &processedAt); err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}
		rec.Title = title.String
		rec.OverallGrade = grade.String
		rec.PDFPath = pdf.String
		rec.DOCXPath = docxPath.String
		rec.ReportPath = reportPath.String
		if rec.ProcessedAt, err = time.Parse(timeLayout, processedAt); err != nil {
			return nil, fmt.Errorf("parsing processed_at for report %d: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reports: %w", err)
	}
	rows.Close()

	for i := range records {
		sections, err := s.sections(ctx, records[i].ID)
		if err != nil {
			return nil, err
		}
		records[i].Sections = sections
	}
	return records, nil
}

func (s *Store) sections(ctx context.Context, reportID int64) ([]types.SectionGrade, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT section, grade, quote_count FROM section_grades WHERE report_id = ? ORDER BY rowid`, reportID)
	if err != nil {
		return nil, fmt.Errorf("querying sections for report %d: %w", reportID, err)
	}
	defer rows.Close()

	var out []types.SectionGrade
	for rows.Next() {
		var sg types.SectionGrade
		var grade sql.NullString
		if err := rows.Scan(&sg.Section, &grade, &sg.QuoteCount); err != nil {
			return nil, fmt.Errorf("scanning section: %w", err)
		}
		sg.Grade = grade.String
		out = append(out, sg)
	}
	return out, rows.Err()
}
