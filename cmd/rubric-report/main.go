// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the rubric-report CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/rubric-report/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the rubric-report CLI.
var rootCmd = &cobra.Command{
	Use:   "rubric-report",
	Short: "Combine essay feedback PDFs and grading worksheets into student reports",
	Long: `rubric-report reads AI grading feedback exported as PDF, pairs each
report with the student's DOCX grading worksheet, and writes one formatted
DOCX report per student: the essay, the rubric table, and the quoted
feedback for each rubric criterion.

Use parse to inspect how a single feedback report is read, process to
generate reports for a class, and history to look up past grades.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./rubric-report.yaml or ~/.config/rubric-report/rubric-report.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("rubric-report")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "rubric-report"))
		}
	}

	setDefaults(viper.GetViper())
	bindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so environment overrides reach
// Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("extraction.backend", string(types.BackendFitz))
	v.SetDefault("report.font", "Calibri")
	v.SetDefault("batch.pdf_dir", "")
	v.SetDefault("batch.docx_dir", "")
	v.SetDefault("batch.output_dir", ".")
	v.SetDefault("batch.workers", 4)
	v.SetDefault("ledger.path", "")
	v.SetDefault("ledger.max_results", 50)
}

// bindEnv maps keys to RUBRIC_REPORT_* variables, e.g. batch.workers to
// RUBRIC_REPORT_BATCH_WORKERS.
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("RUBRIC_REPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// loadConfig binds the given command flags to config keys and decodes the
// merged settings. Flags only override the file and environment when set.
func loadConfig(v *viper.Viper, flags *pflag.FlagSet, bindings map[string]string) (types.Config, error) {
	for key, name := range bindings {
		f := flags.Lookup(name)
		if f == nil {
			return types.Config{}, fmt.Errorf("binding %s: unknown flag --%s", key, name)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return types.Config{}, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	var cfg types.Config
	err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
	})
	if err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
