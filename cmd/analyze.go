package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"geojournal/internal/journal"
)

var (
	analyzeJSON      bool
	analyzeTopN      int
	analyzeStaleDays int64
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Check journal integrity: missing or corrupt geometry, misplaced media, dating",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, c, err := OpenJournal(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()

		config := journal.DefaultAnalyzerConfig()
		config.StaleDays = analyzeStaleDays
		report := journal.Analyze(c.Locations(), config)

		if analyzeJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		printReport(os.Stdout, report, analyzeTopN)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Output as JSON")
	analyzeCmd.Flags().IntVar(&analyzeTopN, "top-n", 10, "Number of items to show per section")
	analyzeCmd.Flags().Int64Var(&analyzeStaleDays, "stale-days", 365, "Days since update to consider a location stale")
	rootCmd.AddCommand(analyzeCmd)
}

func printReport(w io.Writer, report *journal.Report, topN int) {
	// Health bar
	barLen := int(report.HealthScore * 20)
	if barLen > 20 {
		barLen = 20
	}
	bar := strings.Repeat("█", barLen) + strings.Repeat("░", 20-barLen)
	fmt.Fprintf(w, "\n  Journal Health: %.0f%%  [%s]\n", report.HealthScore*100, bar)
	fmt.Fprintf(w, "  breakdown: completeness=%.2f integrity=%.2f placement=%.2f dating=%.2f\n\n",
		report.HealthBreakdown.Completeness,
		report.HealthBreakdown.Integrity,
		report.HealthBreakdown.Placement,
		report.HealthBreakdown.Dating)

	fmt.Fprintln(w, "  CONTENTS")
	fmt.Fprintln(w, "  ────────────────────────────────────────")
	fmt.Fprintf(w, "  Locations: %d  Media: %d  Tags: %d\n", report.Total, report.MediaCount, report.TagCount)
	kinds := make([]string, 0, len(report.ByKind))
	for k := range report.ByKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(w, "    %-10s %4d\n", k, report.ByKind[k])
	}

	printIssues(w, "Missing geometry (area or route never stored)", report.MissingGeometry, topN)
	printIssues(w, "Corrupt geometry", report.CorruptGeometry, topN)
	printIssues(w, "Media placed past the last paragraph", report.MediaOutOfRange, topN)
	printIssues(w, "Undated", report.Undated, topN)

	if len(report.Stale) > 0 {
		fmt.Fprintf(w, "\n  %d stale locations:\n", len(report.Stale))
		limit := min(topN, len(report.Stale))
		for _, s := range report.Stale[:limit] {
			fmt.Fprintf(w, "    %s %dd since edit  %s\n", truncID(s.ID), s.DaysSinceUpdate, truncTitle(s.Name, 40))
		}
		if len(report.Stale) > limit {
			fmt.Fprintf(w, "    ... and %d more\n", len(report.Stale)-limit)
		}
	}

	fmt.Fprintln(w)
}

func printIssues(w io.Writer, heading string, issues []journal.Issue, topN int) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintf(w, "\n  %s: %d\n", heading, len(issues))
	limit := min(topN, len(issues))
	for _, is := range issues[:limit] {
		fmt.Fprintf(w, "    - %s %s  %s\n", truncID(is.ID), truncTitle(is.Name, 30), is.Detail)
	}
	if len(issues) > limit {
		fmt.Fprintf(w, "    ... and %d more\n", len(issues)-limit)
	}
}

func truncID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncTitle(s string, max int) string {
	if len(s) <= max {
		return s
	}
	// Find a safe UTF-8 boundary
	truncated := s[:max]
	for len(truncated) > 0 && !utf8.ValidString(truncated) {
		truncated = truncated[:len(truncated)-1]
	}
	return truncated + "..."
}
