// Package content turns a location's description and media into the ordered
// list of blocks a detail view renders.
//
// A description is split into paragraphs on line breaks; blank paragraphs are
// dropped and the survivors are numbered 0..n-1. Each media item carries a
// position, the paragraph index it is inserted at. Blocks are ordered by
// position with a stable sort, so at equal positions text comes first and media
// keep their input order.
package content

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"geojournal/internal/db"
)

// Kind is the type of a content block
type Kind int

const (
	KindText Kind = iota + 1
	KindImage
	KindVideo
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText renders the kind as its name in JSON
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ErrUnknownMedia is wrapped by Compose for media rows with an unrecognised type
var ErrUnknownMedia = errors.New("unknown media type")

// Block is one renderable unit. Content is the paragraph text for text blocks
// and the URL for media blocks.
type Block struct {
	ID       string  `json:"id"`
	Kind     Kind    `json:"type"`
	Content  string  `json:"content"`
	Caption  *string `json:"caption,omitempty"`
	Position int     `json:"position"`
}

// Paragraphs splits a description on line breaks and drops blank lines.
func Paragraphs(description *string) []string {
	if description == nil || *description == "" {
		return nil
	}
	lines := strings.Split(*description, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// Compose merges the paragraphs of description with media into one ordered
// block list. A media row without a position is appended at the end. Media rows
// of an unknown type are left out and reported in the returned error; the
// blocks are still valid.
func Compose(description *string, media []db.Media) ([]Block, error) {
	paragraphs := Paragraphs(description)
	blocks := make([]Block, 0, len(paragraphs)+len(media))
	for i, p := range paragraphs {
		blocks = append(blocks, Block{
			ID:       fmt.Sprintf("text-%d", i),
			Kind:     KindText,
			Content:  p,
			Position: i,
		})
	}

	var errs []error
	for _, m := range media {
		kind, err := mediaKind(m.MediaType)
		if err != nil {
			errs = append(errs, fmt.Errorf("media %s: %w", m.ID, err))
			continue
		}
		position := len(blocks)
		if m.Position != nil {
			position = *m.Position
		}
		blocks = append(blocks, Block{
			ID:       m.ID,
			Kind:     kind,
			Content:  m.URL,
			Caption:  caption(m.Caption),
			Position: position,
		})
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].Position < blocks[j].Position
	})
	return blocks, errors.Join(errs...)
}

func mediaKind(mediaType string) (Kind, error) {
	switch mediaType {
	case "image":
		return KindImage, nil
	case "video":
		return KindVideo, nil
	default:
		return 0, fmt.Errorf("%w %q", ErrUnknownMedia, mediaType)
	}
}

// CheckMediaType reports ErrUnknownMedia for a type Compose cannot place
func CheckMediaType(mediaType string) error {
	_, err := mediaKind(mediaType)
	return err
}

// Warnings splits a Compose error into one message per skipped media row.
// It returns an empty slice for a nil error.
func Warnings(err error) []string {
	warnings := []string{}
	if err == nil {
		return warnings
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			warnings = append(warnings, e.Error())
		}
		return warnings
	}
	return append(warnings, err.Error())
}

// caption drops empty captions
func caption(c *string) *string {
	if c == nil || *c == "" {
		return nil
	}
	v := *c
	return &v
}
