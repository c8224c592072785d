package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"geojournal/internal/render"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the journal",
}

var exportGeoJSONCmd = &cobra.Command{
	Use:   "geojson",
	Short: "Export every location as a GeoJSON FeatureCollection",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, c, err := OpenJournal(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()

		fc, failures := render.GeoJSON(c.Locations())
		for _, f := range failures {
			logger.Warn("location left out of export", "location_id", f.LocationID, "name", f.Name, "error", f.Err)
		}
		return writeOutput(func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(fc)
		})
	},
}

var exportYAMLCmd = &cobra.Command{
	Use:   "yaml",
	Short: "Export every location in the format read by import",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, c, err := OpenJournal(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()

		file, errs := exportEntries(c.Locations())
		for _, err := range errs {
			logger.Warn("geometry left out of export", "error", err)
		}
		return writeOutput(func(w io.Writer) error {
			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			if err := enc.Encode(file); err != nil {
				return err
			}
			return enc.Close()
		})
	},
}

func init() {
	exportCmd.PersistentFlags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout")
	exportCmd.AddCommand(exportGeoJSONCmd, exportYAMLCmd)
	rootCmd.AddCommand(exportCmd)
}

func writeOutput(write func(io.Writer) error) error {
	if exportOutput == "" {
		return write(os.Stdout)
	}
	f, err := os.Create(exportOutput)
	if err != nil {
		return fmt.Errorf("creating %s: %w", exportOutput, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", exportOutput, err)
	}
	return f.Close()
}
