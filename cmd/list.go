package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"geojournal/internal/journal"
)

var (
	listJSON    bool
	listKeyword string
	listType    string
	listFrom    string
	listTo      string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List locations, newest visit first",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := journal.Filter{Keyword: listKeyword, From: listFrom, To: listTo}
		if listType != "" && listType != "all" {
			kind, err := journal.ParseKind(listType)
			if err != nil {
				return err
			}
			f.Kind = kind
		}

		d, c, err := OpenJournal(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()

		matched := f.Apply(c.Locations())
		if listJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(matched)
		}
		printLocations(os.Stdout, matched)
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	listCmd.Flags().StringVarP(&listKeyword, "query", "q", "", "Keyword in name or description")
	listCmd.Flags().StringVar(&listType, "type", "", "point, area, trajectory or all")
	listCmd.Flags().StringVar(&listFrom, "from", "", "Earliest visit date (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listTo, "to", "", "Latest visit date (YYYY-MM-DD)")
	rootCmd.AddCommand(listCmd)
}

func printLocations(w io.Writer, aggs []journal.Aggregate) {
	if len(aggs) == 0 {
		fmt.Fprintln(w, "No locations.")
		return
	}
	for _, a := range aggs {
		date := "----------"
		if a.VisitDate != nil && *a.VisitDate != "" {
			date = *a.VisitDate
		}
		line := fmt.Sprintf("%s  %-10s  %s  %s", truncID(a.ID), a.LocationType, date, truncTitle(a.Name, 40))
		if len(a.Media) > 0 {
			line += fmt.Sprintf("  [%d media]", len(a.Media))
		}
		if len(a.Tags) > 0 {
			names := make([]string, len(a.Tags))
			for i, t := range a.Tags {
				names[i] = "#" + t.Name
			}
			line += "  " + strings.Join(names, " ")
		}
		fmt.Fprintln(w, line)
	}
}
