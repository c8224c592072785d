package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var importCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Import locations from a YAML file",
	Long: `Reads a YAML file of the form written by "export yaml":

  locations:
    - name: Corner Cafe
      at: [121.47, 31.23]
      visit_date: "2024-05-01"
      description: |
        Great espresso
        Friendly staff
      tags: [coffee]
      media:
        - {type: image, url: https://example.com/cup.jpg, position: 1}
    - name: River Park
      circle: {center: [121.5, 31.2], radius: 300}

Unknown tags are created. An entry that fails is reported and the rest are still imported.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var file journalFile
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return fmt.Errorf("parsing %s: %w", args[0], err)
		}

		d, c, err := OpenJournal(ctx)
		if err != nil {
			return err
		}
		defer d.Close()

		tags, err := d.AllTags(ctx)
		if err != nil {
			return err
		}
		res, err := importEntries(ctx, c, tags, file.Locations)
		fmt.Printf("[import] %d locations, %d media, %d new tags\n", res.Locations, res.Media, res.Tags)
		return err
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
