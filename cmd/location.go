package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"geojournal/internal/db"
	"geojournal/internal/geometry"
)

var (
	locName        string
	locType        string
	locAt          string
	locDescription string
	locVisitDate   string
	locIconColor   string
	locIconURL     string
	locPolygon     string
	locCircle      string
	locRadius      float64
	locPath        string
	locStrokeColor string
	locStrokeWidth float64
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a location (point, area or trajectory)",
	Long: `Adds a location. Areas take --polygon "lng,lat;lng,lat;lng,lat" or
--circle lng,lat --radius meters; trajectories take --path. Without --at the
location sits at the polygon centroid, the circle centre or the path start.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		shape, err := buildShape()
		if err != nil {
			return err
		}
		in, err := locationInput(shape)
		if err != nil {
			return err
		}

		d, c, err := OpenJournal(ctx)
		if err != nil {
			return err
		}
		defer d.Close()

		id, ok := c.CreateLocation(ctx, in)
		if !ok {
			return fmt.Errorf("adding location: %w", c.WriteErr())
		}
		fmt.Printf("[add] %s %s\n", truncID(id), in.Name)

		switch {
		case shape.area != nil:
			shape.area.LocationID = id
			if !c.CreateArea(ctx, *shape.area) {
				return fmt.Errorf("location %s stored without its area: %w", truncID(id), c.WriteErr())
			}
			fmt.Printf("[add] %s area attached\n", shape.area.AreaType)
		case shape.path != nil:
			shape.path.LocationID = id
			if !c.CreateTrajectory(ctx, *shape.path) {
				return fmt.Errorf("location %s stored without its path: %w", truncID(id), c.WriteErr())
			}
			fmt.Println("[add] path attached")
		}
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <location>",
	Short: "Change fields of a location",
	Long:  `Only the flags given are written. Pass an empty string to clear description, visit date or icon.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		var p db.LocationPatch
		flags := cmd.Flags()
		if flags.Changed("name") {
			p.Name = &locName
		}
		if flags.Changed("description") {
			p.Description = &locDescription
		}
		if flags.Changed("visit-date") {
			p.VisitDate = &locVisitDate
		}
		if flags.Changed("icon-color") {
			p.IconColor = &locIconColor
		}
		if flags.Changed("icon-url") {
			p.IconURL = &locIconURL
		}
		if flags.Changed("at") {
			at, err := parsePoint(locAt)
			if err != nil {
				return err
			}
			p.Longitude, p.Latitude = &at.Lng, &at.Lat
		}
		if p.Empty() {
			return errors.New("nothing to update")
		}

		d, c, err := OpenJournal(ctx)
		if err != nil {
			return err
		}
		defer d.Close()

		a, err := ResolveLocation(c.Locations(), args[0])
		if err != nil {
			return err
		}
		if !c.UpdateLocation(ctx, a.ID, p) {
			return fmt.Errorf("updating %s: %w", a.Name, c.WriteErr())
		}
		fmt.Printf("[update] %s %s\n", truncID(a.ID), a.Name)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <location>",
	Short: "Delete a location with its areas, paths, media and tag links",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		d, c, err := OpenJournal(ctx)
		if err != nil {
			return err
		}
		defer d.Close()

		a, err := ResolveLocation(c.Locations(), args[0])
		if err != nil {
			return err
		}
		if !c.DeleteLocation(ctx, a.ID) {
			return fmt.Errorf("deleting %s: %w", a.Name, c.WriteErr())
		}
		fmt.Printf("[delete] %s %s\n", truncID(a.ID), a.Name)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&locName, "name", "", "Location name")
	addCmd.Flags().StringVar(&locType, "type", "", "point, area or trajectory (inferred from the shape flags)")
	addCmd.Flags().StringVar(&locAt, "at", "", "Coordinate as lng,lat")
	addCmd.Flags().StringVar(&locDescription, "description", "", "Description; each line is a paragraph")
	addCmd.Flags().StringVar(&locVisitDate, "visit-date", "", "Visit date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&locIconColor, "icon-color", "", "Marker color")
	addCmd.Flags().StringVar(&locIconURL, "icon-url", "", "Marker icon URL")
	addCmd.Flags().StringVar(&locPolygon, "polygon", "", "Polygon vertices: lng,lat;lng,lat;...")
	addCmd.Flags().StringVar(&locCircle, "circle", "", "Circle centre as lng,lat")
	addCmd.Flags().Float64Var(&locRadius, "radius", 0, "Circle radius in meters")
	addCmd.Flags().StringVar(&locPath, "path", "", "Trajectory points in travel order: lng,lat;lng,lat;...")
	addCmd.Flags().StringVar(&locStrokeColor, "stroke-color", "", "Area or path stroke color")
	addCmd.Flags().Float64Var(&locStrokeWidth, "stroke-weight", 0, "Path stroke weight")
	addCmd.MarkFlagRequired("name")
	addCmd.MarkFlagsMutuallyExclusive("polygon", "circle", "path")

	updateCmd.Flags().StringVar(&locName, "name", "", "Location name")
	updateCmd.Flags().StringVar(&locAt, "at", "", "Coordinate as lng,lat")
	updateCmd.Flags().StringVar(&locDescription, "description", "", "Description")
	updateCmd.Flags().StringVar(&locVisitDate, "visit-date", "", "Visit date (YYYY-MM-DD)")
	updateCmd.Flags().StringVar(&locIconColor, "icon-color", "", "Marker color")
	updateCmd.Flags().StringVar(&locIconURL, "icon-url", "", "Marker icon URL")

	rootCmd.AddCommand(addCmd, updateCmd, deleteCmd)
}

// shape is the geometry given to `add`, encoded for storage
type shape struct {
	kind   string
	anchor *geometry.Point
	area   *db.AreaInput
	path   *db.TrajectoryInput
}

func buildShape() (shape, error) {
	switch {
	case locPolygon != "":
		vertices, err := parsePoints(locPolygon)
		if err != nil {
			return shape{}, err
		}
		encoded, err := geometry.EncodePolygon(geometry.Polygon{Vertices: vertices})
		if err != nil {
			return shape{}, err
		}
		c := geometry.Centroid(vertices)
		return shape{kind: "area", anchor: &c, area: &db.AreaInput{
			AreaType: "polygon", Coordinates: encoded, StrokeColor: locStrokeColor,
		}}, nil
	case locCircle != "":
		center, err := parsePoint(locCircle)
		if err != nil {
			return shape{}, err
		}
		if locRadius <= 0 {
			return shape{}, errors.New("--circle needs a positive --radius")
		}
		encoded, err := geometry.EncodeCircle(geometry.Circle{Center: center, Radius: locRadius})
		if err != nil {
			return shape{}, err
		}
		radius := locRadius
		return shape{kind: "area", anchor: &center, area: &db.AreaInput{
			AreaType: "circle", Coordinates: encoded, Radius: &radius, StrokeColor: locStrokeColor,
		}}, nil
	case locPath != "":
		points, err := parsePoints(locPath)
		if err != nil {
			return shape{}, err
		}
		encoded, err := geometry.EncodePath(geometry.Path{Points: points})
		if err != nil {
			return shape{}, err
		}
		s := shape{kind: "trajectory", path: &db.TrajectoryInput{
			PathCoordinates: encoded, StrokeColor: locStrokeColor, StrokeWeight: locStrokeWidth,
		}}
		if len(points) > 0 {
			s.anchor = &points[0]
		}
		return s, nil
	default:
		return shape{kind: "point"}, nil
	}
}

func locationInput(s shape) (db.LocationInput, error) {
	kind := s.kind
	if locType != "" && locType != kind {
		return db.LocationInput{}, fmt.Errorf("--type %s does not match the shape given (%s)", locType, kind)
	}

	var at geometry.Point
	switch {
	case locAt != "":
		p, err := parsePoint(locAt)
		if err != nil {
			return db.LocationInput{}, err
		}
		at = p
	case s.anchor != nil:
		at = *s.anchor
	default:
		return db.LocationInput{}, errors.New("--at is required for a point")
	}

	in := db.LocationInput{
		Name:         locName,
		LocationType: kind,
		Longitude:    at.Lng,
		Latitude:     at.Lat,
	}
	if locDescription != "" {
		in.Description = &locDescription
	}
	if locVisitDate != "" {
		in.VisitDate = &locVisitDate
	}
	if locIconColor != "" {
		in.IconColor = &locIconColor
	}
	if locIconURL != "" {
		in.IconURL = &locIconURL
	}
	return in, nil
}
