package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	gomp4 "github.com/abema/go-mp4"
	"github.com/spf13/cobra"

	"github.com/simonhull/audiotag"
)

func newDumpCommand(ctx *commandContext) *cobra.Command {
	var boxes bool

	cmd := &cobra.Command{
		Use:   "dump FILE",
		Short: "Print the native keys of a file's tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			tag, tt, err := audiotag.ReadFromPath(path, ctx.options()...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", path, tt)
			fmt.Fprintln(out, renderTable([]string{"Key", "Value"}, nativeRows(tag), nil))

			if boxes {
				if tt != audiotag.TagTypeMP4 {
					return fmt.Errorf("--boxes needs an MP4 file, %s is %s", path, tt)
				}
				return dumpBoxes(out, path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&boxes, "boxes", false, "Also print the MP4 box tree")
	return cmd
}

// nativeRows lists the tag's keys in the naming of its own format.
func nativeRows(tag audiotag.Tag) [][]string {
	var rows [][]string
	add := func(k, v string) {
		if v != "" {
			rows = append(rows, []string{k, v})
		}
	}
	pictures := func(ps []audiotag.Picture) {
		for i, p := range ps {
			add("picture["+strconv.Itoa(i)+"]", p.String())
		}
	}

	switch t := tag.(type) {
	case *audiotag.ID3Tag:
		add("version", "ID3v2."+strconv.Itoa(int(t.Version())))
		for _, id := range t.FrameIDs() {
			if v, ok := t.TextFrame(id); ok {
				add(id, v)
			} else {
				add(id, "(binary)")
			}
		}
		pictures(t.Pictures())
	case *audiotag.FLACTag:
		add("vendor", t.Comments().Vendor())
		rows = append(rows, commentRows(t.Comments().Entries())...)
		pictures(t.Pictures())
	case *audiotag.OggTag:
		add("codec", t.Codec())
		add("vendor", t.Comments().Vendor())
		rows = append(rows, commentRows(t.Comments().Entries())...)
		pictures(t.Pictures())
	case *audiotag.MP4Tag:
		n := t.Native()
		add("\xa9nam", n.Title)
		add("\xa9ART", n.Artist)
		add("\xa9alb", n.Album)
		add("aART", n.AlbumArtist)
		add("\xa9day", n.Year)
		if n.TrackNumber > 0 || n.TrackTotal > 0 {
			add("trkn", fmt.Sprintf("%d/%d", n.TrackNumber, n.TrackTotal))
		}
		if n.DiskNumber > 0 || n.DiskTotal > 0 {
			add("disk", fmt.Sprintf("%d/%d", n.DiskNumber, n.DiskTotal))
		}
		add("\xa9gen", n.Genre)
		add("\xa9wrt", n.Composer)
		add("\xa9cmt", n.Comment)
		add("cprt", n.Copyright)
		if p, ok := t.AlbumCover(); ok {
			add("covr", p.String())
		}
	}
	return rows
}

func commentRows(entries []string) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		k, v, _ := strings.Cut(e, "=")
		rows = append(rows, []string{k, v})
	}
	return rows
}

// dumpBoxes prints every box of an MP4 file with its size and offset,
// indented by depth.
func dumpBoxes(out io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = gomp4.ReadBoxStructure(f, func(h *gomp4.ReadHandle) (interface{}, error) {
		indent := strings.Repeat("  ", len(h.Path)-1)
		fmt.Fprintf(out, "%s%s (size: %d, offset: %d)\n", indent, h.BoxInfo.Type, h.BoxInfo.Size, h.BoxInfo.Offset)
		if h.BoxInfo.IsSupportedType() {
			return h.Expand()
		}
		return nil, nil
	})
	return err
}
