package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"geojournal/internal/auth"
	"geojournal/internal/collection"
	"geojournal/internal/db"
	"geojournal/internal/session"
)

var (
	drawUser        string
	drawPassword    string
	drawName        string
	drawDescription string
	drawVisitDate   string
	drawRadius      float64
)

var drawCmd = &cobra.Command{
	Use:   "draw <point|polygon|circle> <coordinates>",
	Short: "Create a location the way the map editor does",
	Long: `Logs in as an editor, performs one drawing gesture and saves the draft.

  draw point   121.47,31.23
  draw polygon "121.4,31.2;121.5,31.2;121.5,31.3"
  draw circle  121.47,31.23 --radius 500

The password is read from --password, GEOJOURNAL_PASSWORD, or stdin.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		mode, err := session.ParseMode(args[0])
		if err != nil {
			return err
		}
		if mode == session.Idle {
			return errors.New("choose point, polygon or circle")
		}
		password, err := readPassword(drawPassword)
		if err != nil {
			return err
		}

		d, c, err := OpenJournal(ctx)
		if err != nil {
			return err
		}
		defer d.Close()

		s := newSession(d, c)
		if err := s.Login(ctx, drawUser, password); err != nil {
			return err
		}
		defer s.Exit()
		if err := s.SetMode(mode); err != nil {
			return err
		}
		if err := gesture(s, mode, args[1]); err != nil {
			return err
		}
		if err := s.EditDraft(applyDrawFlags); err != nil {
			return err
		}

		res, err := s.Commit(ctx)
		if err != nil {
			return err
		}
		if !res.LocationCreated {
			return fmt.Errorf("saving location: %w", c.WriteErr())
		}
		if res.Incomplete() {
			return fmt.Errorf("location %s saved without its area: %w", truncID(res.LocationID), c.WriteErr())
		}
		fmt.Printf("[draw] %s %s saved\n", mode, truncID(res.LocationID))
		return nil
	},
}

func init() {
	drawCmd.Flags().StringVarP(&drawUser, "user", "u", "admin", "Editor username")
	drawCmd.Flags().StringVar(&drawPassword, "password", "", "Editor password")
	drawCmd.Flags().StringVar(&drawName, "name", "", "Location name (default from config)")
	drawCmd.Flags().StringVar(&drawDescription, "description", "", "Description")
	drawCmd.Flags().StringVar(&drawVisitDate, "visit-date", "", "Visit date (default today)")
	drawCmd.Flags().Float64Var(&drawRadius, "radius", 0, "Circle radius in meters")
	rootCmd.AddCommand(drawCmd)
}

func newSession(d *db.DB, c *collection.Collection) *session.Session {
	defaults := session.Defaults{
		PointName:   settings.Draft.PointName,
		AreaName:    settings.Draft.AreaName,
		IconColor:   settings.Draft.IconColor,
		FillColor:   settings.Draft.FillColor,
		StrokeColor: settings.Draft.StrokeColor,
	}
	return session.New(auth.NewChecker(d, logger), c, defaults, session.WithLogger(logger))
}

func gesture(s *session.Session, mode session.Mode, coords string) error {
	switch mode {
	case session.DrawingPoint:
		at, err := parsePoint(coords)
		if err != nil {
			return err
		}
		return s.PointClicked(at)
	case session.DrawingPolygon:
		vertices, err := parsePoints(coords)
		if err != nil {
			return err
		}
		return s.PolygonClosed(vertices)
	case session.DrawingCircle:
		center, err := parsePoint(coords)
		if err != nil {
			return err
		}
		return s.CircleDrawn(center, drawRadius)
	default:
		return fmt.Errorf("no gesture for mode %s", mode)
	}
}

func applyDrawFlags(d *session.Draft) {
	if drawName != "" {
		d.Location.Name = drawName
	}
	if drawDescription != "" {
		d.Location.Description = &drawDescription
	}
	if drawVisitDate != "" {
		d.Location.VisitDate = &drawVisitDate
	}
}

// readPassword prefers the flag, then GEOJOURNAL_PASSWORD, then one line of stdin
func readPassword(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := os.Getenv("GEOJOURNAL_PASSWORD"); env != "" {
		return env, nil
	}
	fmt.Fprint(os.Stderr, "Password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
