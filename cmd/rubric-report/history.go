// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/rubric-report/internal/ledger"
	"github.com/pdiddy/rubric-report/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List reports recorded in the grade ledger",
	Long: `History lists previously generated reports, newest first, with the
overall and per-criterion grades. Use --student to follow one student and
--export to write the matching records to a YAML or JSON file.`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper(), cmd.Flags(), map[string]string{
		"ledger.path": "ledger",
	})
	if err != nil {
		return err
	}
	if cfg.Ledger.Path == "" {
		return fmt.Errorf("no ledger configured: set ledger.path or use --ledger")
	}

	store, err := ledger.NewStore(cfg.Ledger)
	if err != nil {
		return err
	}
	defer store.Close()

	student, _ := cmd.Flags().GetString("student")
	limit, _ := cmd.Flags().GetInt("limit")
	opts := ledger.QueryOptions{Student: student, Limit: limit}
	ctx := context.Background()

	if path, _ := cmd.Flags().GetString("export"); path != "" {
		if err := store.Export(ctx, path, opts); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
		return nil
	}

	records, err := store.List(ctx, opts)
	if err != nil {
		return err
	}
	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatHistory(cmd.OutOrStdout(), records, jsonOutput)
}

func formatHistory(w io.Writer, records []types.ReportRecord, jsonOutput bool) error {
	if jsonOutput {
		if records == nil {
			records = []types.ReportRecord{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "No reports recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-16s  %-20s  %-24s  %-7s  %s\n", "Processed", "Student", "Essay", "Overall", "Sections")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, r := range records {
		title := r.Title
		if runes := []rune(title); len(runes) > 24 {
			title = string(runes[:21]) + "..."
		}
		grades := make([]string, len(r.Sections))
		for i, s := range r.Sections {
			grades[i] = s.Section + " " + s.Grade
		}
		fmt.Fprintf(w, "%-16s  %-20s  %-24s  %-7s  %s\n",
			r.ProcessedAt.Local().Format("2006-01-02 15:04"), r.Student, title, r.OverallGrade,
			strings.Join(grades, ", "))
	}
	fmt.Fprintf(w, "\n%d reports\n", len(records))
	return nil
}

func init() {
	historyCmd.Flags().String("ledger", "", "SQLite grade ledger (default: ledger.path from config)")
	historyCmd.Flags().String("student", "", "only show reports for this student (case-insensitive)")
	historyCmd.Flags().Int("limit", 0, "maximum number of reports (default: ledger.max_results)")
	historyCmd.Flags().Bool("json", false, "output records as JSON")
	historyCmd.Flags().String("export", "", "write matching records to a .yaml or .json file")

	rootCmd.AddCommand(historyCmd)
}
