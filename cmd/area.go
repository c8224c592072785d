package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"geojournal/internal/db"
	"geojournal/internal/journal"
)

var areaCmd = &cobra.Command{
	Use:   "area",
	Short: "Set or remove the geometry of an area location",
}

var areaSetCmd = &cobra.Command{
	Use:   "set <location>",
	Short: "Replace the areas of an area location",
	Long: `Deletes the areas held for the location and stores the one given with
--polygon or --circle/--radius. Use it to repair an area location whose area
was never stored.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		in, err := areaInput()
		if err != nil {
			return err
		}

		d, c, err := OpenJournal(ctx)
		if err != nil {
			return err
		}
		defer d.Close()

		a, err := resolveAreaLocation(c.Locations(), args[0])
		if err != nil {
			return err
		}
		in.LocationID = a.ID
		if !c.ReplaceArea(ctx, in) {
			return fmt.Errorf("setting area of %s: %w", a.Name, c.WriteErr())
		}
		fmt.Printf("[area] %s %s: %s (replaced %d)\n", truncID(a.ID), a.Name, in.AreaType, len(a.Areas))
		return nil
	},
}

var areaDeleteCmd = &cobra.Command{
	Use:   "delete <location>",
	Short: "Delete the areas of an area location, keeping the location",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		d, c, err := OpenJournal(ctx)
		if err != nil {
			return err
		}
		defer d.Close()

		a, err := resolveAreaLocation(c.Locations(), args[0])
		if err != nil {
			return err
		}
		if len(a.Areas) == 0 {
			return fmt.Errorf("%s has no area", a.Name)
		}
		for _, ar := range a.Areas {
			if !c.DeleteArea(ctx, ar.ID) {
				return fmt.Errorf("deleting area %s: %w", truncID(ar.ID), c.WriteErr())
			}
			fmt.Printf("[area] deleted %s %s\n", truncID(ar.ID), ar.AreaType)
		}
		return nil
	},
}

func init() {
	areaSetCmd.Flags().StringVar(&locPolygon, "polygon", "", "Polygon vertices: lng,lat;lng,lat;...")
	areaSetCmd.Flags().StringVar(&locCircle, "circle", "", "Circle centre as lng,lat")
	areaSetCmd.Flags().Float64Var(&locRadius, "radius", 0, "Circle radius in meters")
	areaSetCmd.Flags().StringVar(&locStrokeColor, "stroke-color", "", "Area stroke color")
	areaSetCmd.MarkFlagsMutuallyExclusive("polygon", "circle")

	areaCmd.AddCommand(areaSetCmd, areaDeleteCmd)
	rootCmd.AddCommand(areaCmd)
}

// areaInput builds the area given by --polygon or --circle
func areaInput() (db.AreaInput, error) {
	if locPath != "" {
		return db.AreaInput{}, errors.New("a path is not an area")
	}
	s, err := buildShape()
	if err != nil {
		return db.AreaInput{}, err
	}
	if s.area == nil {
		return db.AreaInput{}, errors.New("--polygon or --circle is required")
	}
	return *s.area, nil
}

func resolveAreaLocation(aggs []journal.Aggregate, reference string) (journal.Aggregate, error) {
	a, err := ResolveLocation(aggs, reference)
	if err != nil {
		return journal.Aggregate{}, err
	}
	if a.LocationType != "area" {
		return journal.Aggregate{}, fmt.Errorf("%s is a %s, not an area", a.Name, a.LocationType)
	}
	return a, nil
}
