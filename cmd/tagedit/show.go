package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simonhull/audiotag"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show FILE...",
		Short: "Print the canonical fields of one or more files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := audiotag.ReadMany(cmd.Context(), args, ctx.options()...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, tag := range tags {
				if i > 0 {
					fmt.Fprintln(out)
				}
				printTag(out, args[i], tag)
			}
			return nil
		},
	}
}

func printTag(out io.Writer, path string, tag audiotag.Tag) {
	fmt.Fprintf(out, "%s (%s)\n", path, tag.Type())

	rows := make([][]string, 0, len(audiotag.AllFields()))
	for _, f := range audiotag.AllFields() {
		if !tag.Supports(f) {
			continue
		}
		value, ok := fieldValue(tag, f)
		if !ok {
			continue
		}
		rows = append(rows, []string{f.String(), value})
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, "no fields set")
	} else {
		fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignLeft}))
	}

	for _, w := range tag.Warnings() {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
}

// fieldValue formats one field of tag for display.
func fieldValue(tag audiotag.Tag, f audiotag.Field) (string, bool) {
	number := func(v uint16, ok bool) (string, bool) {
		return strconv.Itoa(int(v)), ok
	}
	switch f {
	case audiotag.FieldTitle:
		return tag.Title()
	case audiotag.FieldArtist:
		artists := tag.Artists()
		return strings.Join(artists, "; "), len(artists) > 0
	case audiotag.FieldAlbum:
		return tag.Album()
	case audiotag.FieldAlbumArtist:
		artists := tag.AlbumArtists()
		return strings.Join(artists, "; "), len(artists) > 0
	case audiotag.FieldYear:
		y, ok := tag.Year()
		return strconv.Itoa(y), ok
	case audiotag.FieldTrackNumber:
		return number(tag.TrackNumber())
	case audiotag.FieldTotalTracks:
		return number(tag.TotalTracks())
	case audiotag.FieldDiscNumber:
		return number(tag.DiscNumber())
	case audiotag.FieldTotalDiscs:
		return number(tag.TotalDiscs())
	case audiotag.FieldGenre:
		return tag.Genre()
	case audiotag.FieldComposer:
		return tag.Composer()
	case audiotag.FieldComment:
		return tag.Comment()
	case audiotag.FieldAlbumCover:
		p, ok := tag.AlbumCover()
		return p.String(), ok
	case audiotag.FieldDuration:
		d, ok := tag.Duration()
		return d.String(), ok
	}
	return "", false
}
