package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"geojournal/internal/collection"
	"geojournal/internal/content"
	"geojournal/internal/db"
	"geojournal/internal/journal"
)

var (
	mediaType     string
	mediaURL      string
	mediaCaption  string
	mediaPosition int
)

var mediaCmd = &cobra.Command{
	Use:   "media",
	Short: "Manage the photos and videos of a location",
}

var mediaAddCmd = &cobra.Command{
	Use:   "add <location>",
	Short: "Attach an image or video",
	Long:  "Attaches a media item. --position is the paragraph index it follows; without it the item goes after the last paragraph.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := content.CheckMediaType(mediaType); err != nil {
			return fmt.Errorf("--type must be image or video: %w", err)
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
		in := db.MediaInput{LocationID: a.ID, MediaType: mediaType, URL: mediaURL, SortOrder: len(a.Media)}
		if mediaCaption != "" {
			in.Caption = &mediaCaption
		}
		if cmd.Flags().Changed("position") {
			in.Position = &mediaPosition
		}
		if !c.CreateMedia(ctx, in) {
			return fmt.Errorf("adding media to %s: %w", a.Name, c.WriteErr())
		}
		fmt.Printf("[media] %s added to %s\n", mediaType, a.Name)
		return nil
	},
}

var mediaUpdateCmd = &cobra.Command{
	Use:   "update <media-id>",
	Short: "Change the caption or position of a media item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		var p db.MediaPatch
		if cmd.Flags().Changed("caption") {
			p.Caption = &mediaCaption
		}
		if cmd.Flags().Changed("position") {
			p.Position = &mediaPosition
		}
		if p.Empty() {
			return errors.New("nothing to update")
		}

		d, c, err := OpenJournal(ctx)
		if err != nil {
			return err
		}
		defer d.Close()

		_, m, err := ResolveMedia(c.Locations(), args[0])
		if err != nil {
			return err
		}
		if !c.UpdateMedia(ctx, m.ID, p) {
			return fmt.Errorf("updating media %s: %w", truncID(m.ID), c.WriteErr())
		}
		fmt.Printf("[media] %s updated\n", truncID(m.ID))
		return nil
	},
}

var mediaDeleteCmd = &cobra.Command{
	Use:   "delete <media-id>",
	Short: "Remove a media item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		d, c, err := OpenJournal(ctx)
		if err != nil {
			return err
		}
		defer d.Close()

		_, m, err := ResolveMedia(c.Locations(), args[0])
		if err != nil {
			return err
		}
		res := c.DeleteMedia(ctx, m.ID)
		if res.Diverged() {
			return fmt.Errorf("media %s removed locally but the store kept it: %w", truncID(m.ID), res.Err)
		}
		if !res.RemoteConfirmed {
			return res.Err
		}
		fmt.Printf("[media] %s deleted\n", truncID(m.ID))
		if !res.Reconciled {
			logger.Warn("reload after media delete failed", "error", res.Err)
		}
		return nil
	},
}

var mediaMoveCmd = &cobra.Command{
	Use:   "move <media-id> <up|down>",
	Short: "Move a media item one slot earlier or later",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		dir, err := collection.ParseDirection(args[1])
		if err != nil {
			return err
		}

		d, c, err := OpenJournal(ctx)
		if err != nil {
			return err
		}
		defer d.Close()

		a, m, err := ResolveMedia(c.Locations(), args[0])
		if err != nil {
			return err
		}
		if !c.MoveMedia(ctx, a.ID, m.ID, dir) {
			if werr := c.WriteErr(); werr != nil {
				return fmt.Errorf("moving media %s: %w", truncID(m.ID), werr)
			}
			return fmt.Errorf("media %s cannot move %s", truncID(m.ID), dir)
		}
		fmt.Printf("[media] %s moved %s\n", truncID(m.ID), dir)
		return nil
	},
}

func init() {
	mediaAddCmd.Flags().StringVar(&mediaType, "type", "image", "image or video")
	mediaAddCmd.Flags().StringVar(&mediaURL, "url", "", "Media URL")
	mediaAddCmd.Flags().StringVar(&mediaCaption, "caption", "", "Caption")
	mediaAddCmd.Flags().IntVar(&mediaPosition, "position", 0, "Paragraph index the item follows")
	mediaAddCmd.MarkFlagRequired("url")

	mediaUpdateCmd.Flags().StringVar(&mediaCaption, "caption", "", "Caption (empty clears it)")
	mediaUpdateCmd.Flags().IntVar(&mediaPosition, "position", 0, "Paragraph index the item follows")

	mediaCmd.AddCommand(mediaAddCmd, mediaUpdateCmd, mediaDeleteCmd, mediaMoveCmd)
	rootCmd.AddCommand(mediaCmd)
}

// ResolveMedia finds a media item by full ID or an ID prefix of at least 6 characters
func ResolveMedia(aggs []journal.Aggregate, reference string) (journal.Aggregate, db.Media, error) {
	type hit struct {
		loc   journal.Aggregate
		media db.Media
	}
	var matches []hit
	for _, a := range aggs {
		for _, m := range a.Media {
			if m.ID == reference {
				return a, m, nil
			}
			if len(reference) >= 6 && strings.HasPrefix(m.ID, reference) {
				matches = append(matches, hit{a, m})
			}
		}
	}
	switch len(matches) {
	case 1:
		return matches[0].loc, matches[0].media, nil
	case 0:
		return journal.Aggregate{}, db.Media{}, fmt.Errorf("media not found: %s", reference)
	default:
		lines := make([]string, len(matches))
		for i, h := range matches {
			lines[i] = fmt.Sprintf("  %s %s (%s)", truncID(h.media.ID), h.media.URL, h.loc.Name)
		}
		return journal.Aggregate{}, db.Media{}, fmt.Errorf("ambiguous reference '%s'. %d matches:\n%s\nUse a full media ID instead.",
			reference, len(matches), strings.Join(lines, "\n"))
	}
}
