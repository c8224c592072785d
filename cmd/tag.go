package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"geojournal/internal/db"
)

var tagColor string

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage tags",
}

var tagListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tags",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := OpenDatabase(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()

		tags, err := d.AllTags(cmd.Context())
		if err != nil {
			return err
		}
		for _, t := range tags {
			fmt.Printf("%s  %-8s  #%s\n", truncID(t.ID), t.Color, t.Name)
		}
		return nil
	},
}

var tagCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a tag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		d, c, err := OpenJournal(ctx)
		if err != nil {
			return err
		}
		defer d.Close()

		id, ok := c.CreateTag(ctx, strings.TrimPrefix(args[0], "#"), tagColor)
		if !ok {
			return fmt.Errorf("creating tag: %w", c.WriteErr())
		}
		fmt.Printf("[tag] %s #%s\n", truncID(id), args[0])
		return nil
	},
}

var tagAttachCmd = &cobra.Command{
	Use:   "attach <location> <tag>",
	Short: "Tag a location",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return linkTag(cmd, args, true)
	},
}

var tagDetachCmd = &cobra.Command{
	Use:   "detach <location> <tag>",
	Short: "Remove a tag from a location",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return linkTag(cmd, args, false)
	},
}

func init() {
	tagCreateCmd.Flags().StringVar(&tagColor, "color", "", "Tag color (default "+db.DefaultTagColor+")")
	tagCmd.AddCommand(tagListCmd, tagCreateCmd, tagAttachCmd, tagDetachCmd)
	rootCmd.AddCommand(tagCmd)
}

func linkTag(cmd *cobra.Command, args []string, attach bool) error {
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
	tags, err := d.AllTags(ctx)
	if err != nil {
		return err
	}
	t, err := ResolveTag(tags, args[1])
	if err != nil {
		return err
	}

	if attach {
		if !c.TagLocation(ctx, a.ID, t.ID) {
			return fmt.Errorf("tagging %s: %w", a.Name, c.WriteErr())
		}
		fmt.Printf("[tag] %s #%s\n", a.Name, t.Name)
		return nil
	}
	if !c.UntagLocation(ctx, a.ID, t.ID) {
		return fmt.Errorf("untagging %s: %w", a.Name, c.WriteErr())
	}
	fmt.Printf("[tag] %s -#%s\n", a.Name, t.Name)
	return nil
}

// ResolveTag finds a tag by ID, then by case-insensitive name with or without '#'
func ResolveTag(tags []db.Tag, reference string) (db.Tag, error) {
	for _, t := range tags {
		if t.ID == reference {
			return t, nil
		}
	}
	name := strings.TrimPrefix(reference, "#")
	for _, t := range tags {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return db.Tag{}, fmt.Errorf("tag not found: %s", reference)
}
