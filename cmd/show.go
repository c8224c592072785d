package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"geojournal/internal/content"
	"geojournal/internal/journal"
	"geojournal/internal/render"
)

var showMap bool

var showCmd = &cobra.Command{
	Use:   "show <location>",
	Short: "Show a location with its composed content",
	Long:  "Resolves a location by ID, ID prefix or name and prints its description interleaved with its media.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, c, err := OpenJournal(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()

		a, err := ResolveLocation(c.Locations(), args[0])
		if err != nil {
			return err
		}

		composer := content.NewComposer(settings.Content.CacheTTL)
		blocks, err := composer.Compose(a.Description, a.Media)
		printLocation(os.Stdout, a, blocks, err)

		if showMap {
			fmt.Println("\n  MAP")
			fmt.Println("  ────────────────────────────────────────")
			m := render.NewTextMap(os.Stdout)
			plan := render.BuildPlan([]journal.Aggregate{a}, a.ID)
			if _, err := render.Apply(cmd.Context(), m, nil, plan); err != nil {
				return err
			}
			for _, f := range plan.Failures {
				fmt.Printf("  ! not drawable: %s\n", f.Reason)
			}
			return render.Focus(cmd.Context(), m, a)
		}
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showMap, "map", false, "Also print the map overlays")
	rootCmd.AddCommand(showCmd)
}

// printLocation prints the header and blocks of a location, then one line per
// media row composeErr reports as skipped.
func printLocation(w io.Writer, a journal.Aggregate, blocks []content.Block, composeErr error) {
	fmt.Fprintf(w, "\n  %s\n", a.Name)
	fmt.Fprintf(w, "  %s  %s  (%g, %g)\n", a.ID, a.LocationType, a.Longitude, a.Latitude)
	if a.VisitDate != nil {
		fmt.Fprintf(w, "  visited %s\n", *a.VisitDate)
	}
	for _, t := range a.Tags {
		fmt.Fprintf(w, "  #%s", t.Name)
	}
	if len(a.Tags) > 0 {
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)

	for _, b := range blocks {
		switch b.Kind {
		case content.KindText:
			fmt.Fprintf(w, "  %s\n\n", b.Content)
		default:
			fmt.Fprintf(w, "  [%s %s] %s\n", b.Kind, truncID(b.ID), b.Content)
			if b.Caption != nil {
				fmt.Fprintf(w, "    %s\n", *b.Caption)
			}
			fmt.Fprintln(w)
		}
	}
	for _, warning := range content.Warnings(composeErr) {
		fmt.Fprintf(w, "  ! skipped %s\n", warning)
	}
}
