package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simonhull/audiotag"
)

type setFlags struct {
	title       string
	artists     []string
	album       string
	albumArtist []string
	year        int
	track       uint16
	totalTracks uint16
	disc        uint16
	totalDiscs  uint16
	genre       string
	composer    string
	comment     string
	cover       string
	remove      []string
}

func newSetCommand(ctx *commandContext) *cobra.Command {
	var flags setFlags

	cmd := &cobra.Command{
		Use:   "set FILE",
		Short: "Change fields of a file and write it back",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			tag, _, err := audiotag.ReadFromPath(path, ctx.options()...)
			if err != nil {
				return err
			}
			changed, err := flags.apply(cmd, tag)
			if err != nil {
				return err
			}
			if changed == 0 {
				return fmt.Errorf("nothing to change; pass at least one field flag")
			}

			var opts []audiotag.WriteOption
			if ctx.cfg.BackupSuffix != "" {
				opts = append(opts, audiotag.WithBackup(ctx.cfg.BackupSuffix))
			}
			if err := audiotag.WriteFile(tag, path, opts...); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %d field(s) in %s\n", changed, path)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.title, "title", "", "Track title")
	f.StringArrayVar(&flags.artists, "artist", nil, "Track artist (repeat for several)")
	f.StringVar(&flags.album, "album", "", "Album title")
	f.StringArrayVar(&flags.albumArtist, "album-artist", nil, "Album artist (repeat for several)")
	f.IntVar(&flags.year, "year", 0, "Release year")
	f.Uint16Var(&flags.track, "track", 0, "Track number")
	f.Uint16Var(&flags.totalTracks, "total-tracks", 0, "Total tracks")
	f.Uint16Var(&flags.disc, "disc", 0, "Disc number")
	f.Uint16Var(&flags.totalDiscs, "total-discs", 0, "Total discs")
	f.StringVar(&flags.genre, "genre", "", "Genre")
	f.StringVar(&flags.composer, "composer", "", "Composer")
	f.StringVar(&flags.comment, "comment", "", "Comment")
	f.StringVar(&flags.cover, "cover", "", "Image file to embed as front cover")
	f.StringArrayVar(&flags.remove, "remove", nil, "Field to remove, by name (repeatable)")

	return cmd
}

// apply copies every changed flag onto tag and returns how many fields
// were touched. Removals run first so a flag can replace a removed value.
func (s *setFlags) apply(cmd *cobra.Command, tag audiotag.Tag) (int, error) {
	r := &audiotag.Record{}
	changed := 0

	for _, name := range s.remove {
		f, ok := audiotag.ParseField(strings.TrimSpace(name))
		if !ok {
			return 0, fmt.Errorf("unknown field %q", name)
		}
		if !f.Writable() {
			return 0, fmt.Errorf("field %s is read-only", f)
		}
		removeField(tag, f)
		changed++
	}

	flags := cmd.Flags()
	strField := func(flag string, value string, dst **string) {
		if flags.Changed(flag) {
			*dst = audiotag.Ptr(value)
		}
	}
	numField := func(flag string, value uint16, dst **uint16) {
		if flags.Changed(flag) {
			*dst = audiotag.Ptr(value)
		}
	}

	strField("title", s.title, &r.Title)
	strField("album", s.album, &r.Album)
	strField("genre", s.genre, &r.Genre)
	strField("composer", s.composer, &r.Composer)
	strField("comment", s.comment, &r.Comment)
	numField("track", s.track, &r.TrackNumber)
	numField("total-tracks", s.totalTracks, &r.TotalTracks)
	numField("disc", s.disc, &r.DiscNumber)
	numField("total-discs", s.totalDiscs, &r.TotalDiscs)
	if flags.Changed("year") {
		r.Year = audiotag.Ptr(s.year)
	}
	if flags.Changed("artist") {
		r.Artists = s.artists
	}
	if flags.Changed("album-artist") {
		r.AlbumArtists = s.albumArtist
	}
	if s.cover != "" {
		data, err := os.ReadFile(s.cover)
		if err != nil {
			return 0, fmt.Errorf("read cover: %w", err)
		}
		p := audiotag.NewPicture(data)
		if !strings.HasPrefix(p.MIMEType, "image/") {
			return 0, fmt.Errorf("cover %s is not an image (%s)", s.cover, p.MIMEType)
		}
		r.AlbumCover = &p
	}

	present := r.Present()
	for _, f := range audiotag.ApplyRecord(r, tag) {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s cannot store %s; skipped\n", tag.Type(), f)
	}
	return changed + len(present), nil
}

func removeField(tag audiotag.Tag, f audiotag.Field) {
	switch f {
	case audiotag.FieldTitle:
		tag.RemoveTitle()
	case audiotag.FieldArtist:
		tag.RemoveArtist()
	case audiotag.FieldAlbum:
		tag.RemoveAlbum()
	case audiotag.FieldAlbumArtist:
		tag.RemoveAlbumArtist()
	case audiotag.FieldYear:
		tag.RemoveYear()
	case audiotag.FieldTrackNumber:
		tag.RemoveTrackNumber()
	case audiotag.FieldTotalTracks:
		tag.RemoveTotalTracks()
	case audiotag.FieldDiscNumber:
		tag.RemoveDiscNumber()
	case audiotag.FieldTotalDiscs:
		tag.RemoveTotalDiscs()
	case audiotag.FieldGenre:
		tag.RemoveGenre()
	case audiotag.FieldComposer:
		tag.RemoveComposer()
	case audiotag.FieldComment:
		tag.RemoveComment()
	case audiotag.FieldAlbumCover:
		tag.RemoveAlbumCover()
	}
}
