package mp4

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	mp4tag "github.com/Sorrow446/go-mp4tag"
	"github.com/dhowden/tag"
	"github.com/sirupsen/logrus"

	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

// Atom names mapped onto canonical fields.
const (
	AtomTitle       = "\xa9nam"
	AtomArtist      = "\xa9ART"
	AtomAlbum       = "\xa9alb"
	AtomAlbumArtist = "aART"
	AtomYear        = "\xa9day"
	AtomTrack       = "trkn"
	AtomDisc        = "disk"
	AtomGenre       = "\xa9gen"
	AtomComposer    = "\xa9wrt"
	AtomComment     = "\xa9cmt"
	AtomCover       = "covr"
	AtomCopyright   = "cprt"
)

// Keys understood by the atom writer's delete list.
const (
	deleteTitle       = "Title"
	deleteArtist      = "Artist"
	deleteAlbum       = "Album"
	deleteAlbumArtist = "AlbumArtist"
	deleteYear        = "Year"
	deleteTrack       = "Track"
	deleteDisc        = "Disk"
	deleteGenre       = "Genre"
	deleteComposer    = "Composer"
	deleteComment     = "Comment"
	deleteCover       = "Cover"
)

var _ types.Tag = (*Tag)(nil)

// Tag is the adapter for the iTunes metadata atoms of an MP4 file.
//
// Strings and numbers use the zero value for absent: an empty string or a
// zero track number is never written.
type Tag struct {
	types.Base
	tags        mp4tag.Tags
	coverMIME   string
	duration    time.Duration
	hasDuration bool

	// numbersLost is set when trkn or disk exist but could not be decoded;
	// writing would replace them with zeros.
	numbersLost bool
}

// New returns an empty tag.
func New(cfg types.Config) *Tag {
	return &Tag{Base: types.NewBase(cfg)}
}

// Read parses the ilst atoms and the movie header of the MP4 file at path.
func Read(path string, cfg types.Config) (*Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &types.IoError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, &types.ParseError{Path: path, Type: types.TagTypeMP4, Err: err}
	}
	if m.Format() != tag.MP4 {
		return nil, &types.ParseError{Path: path, Type: types.TagTypeMP4, Err: fmt.Errorf("found %s metadata, not MP4 atoms", m.Format())}
	}

	t := New(cfg)
	t.tags = mp4tag.Tags{
		Title:       strings.TrimSpace(m.Title()),
		Artist:      strings.TrimSpace(m.Artist()),
		Album:       strings.TrimSpace(m.Album()),
		AlbumArtist: strings.TrimSpace(m.AlbumArtist()),
		Genre:       strings.TrimSpace(m.Genre()),
		Composer:    strings.TrimSpace(m.Composer()),
		Comment:     strings.TrimSpace(m.Comment()),
	}
	raw := m.Raw()
	if y, ok := raw[AtomYear].(string); ok {
		t.tags.Year = strings.TrimSpace(y)
	} else if y := m.Year(); y > 0 {
		t.tags.Year = strconv.Itoa(y)
	}
	if c, ok := raw[AtomCopyright].(string); ok {
		t.tags.Copyright = c
	}
	if p := m.Picture(); p != nil && len(p.Data) > 0 {
		t.tags.Cover = p.Data
		t.coverMIME = p.MIMEType
	}

	// the generic reader keeps only the low byte of trkn and disk
	if track, disc, err := numberPairs(f); err != nil {
		t.Warn("trkn", err.Error())
		t.numbersLost = true
	} else {
		t.tags.TrackNumber, t.tags.TrackTotal = track[0], track[1]
		t.tags.DiskNumber, t.tags.DiskTotal = disc[0], disc[1]
	}

	if t.duration, t.hasDuration, err = movieDuration(f); err != nil {
		t.Warn("mvhd", err.Error())
	}

	if err := t.Check(path, t.Validate()); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate reports a ©day atom whose text does not start with a year.
func (t *Tag) Validate() []error {
	if t.tags.Year == "" {
		return nil
	}
	if _, err := types.ParseYear(t.tags.Year); err != nil {
		return []error{&types.MalformedFieldError{
			Type: types.TagTypeMP4, Key: AtomYear, Field: types.FieldYear, Value: t.tags.Year, Err: err,
		}}
	}
	return nil
}

// Type returns TagTypeMP4.
func (t *Tag) Type() types.TagType { return types.TagTypeMP4 }

// Supports reports true for every canonical field.
func (t *Tag) Supports(types.Field) bool { return true }

// Native returns a copy of the atom values.
func (t *Tag) Native() mp4tag.Tags {
	n := t.tags
	n.Cover = bytes.Clone(t.tags.Cover)
	n.Delete = nil
	return n
}

// SetNative replaces the atom values. Custom and Delete are ignored.
func (t *Tag) SetNative(n mp4tag.Tags) {
	n.Cover = bytes.Clone(n.Cover)
	n.Custom, n.Delete = nil, nil
	t.tags = n
	t.coverMIME = ""
}

func text(v string) (string, bool) { return v, v != "" }

func number(v int) (uint16, bool) { return uint16(v), v > 0 }

func (t *Tag) Title() (string, bool) { return text(t.tags.Title) }
func (t *Tag) SetTitle(v string)     { t.tags.Title = v }
func (t *Tag) RemoveTitle()          { t.tags.Title = "" }

func (t *Tag) Album() (string, bool) { return text(t.tags.Album) }
func (t *Tag) SetAlbum(v string)     { t.tags.Album = v }
func (t *Tag) RemoveAlbum()          { t.tags.Album = "" }

func (t *Tag) Genre() (string, bool) { return text(t.tags.Genre) }
func (t *Tag) SetGenre(v string)     { t.tags.Genre = v }
func (t *Tag) RemoveGenre()          { t.tags.Genre = "" }

func (t *Tag) Composer() (string, bool) { return text(t.tags.Composer) }
func (t *Tag) SetComposer(v string)     { t.tags.Composer = v }
func (t *Tag) RemoveComposer()          { t.tags.Composer = "" }

func (t *Tag) Comment() (string, bool) { return text(t.tags.Comment) }
func (t *Tag) SetComment(v string)     { t.tags.Comment = v }
func (t *Tag) RemoveComment()          { t.tags.Comment = "" }

// Artist returns the ©ART atom. Split artists are rejoined with the
// configured separator.
func (t *Tag) Artist() (string, bool) { return t.joined(t.Artists()) }
func (t *Tag) Artists() []string      { return t.Config().SplitArtist(t.tags.Artist) }
func (t *Tag) SetArtist(v string)     { t.tags.Artist = v }
func (t *Tag) SetArtists(v []string)  { t.tags.Artist = t.Config().JoinArtists(v) }
func (t *Tag) RemoveArtist()          { t.tags.Artist = "" }

func (t *Tag) AlbumArtist() (string, bool) { return t.joined(t.AlbumArtists()) }
func (t *Tag) AlbumArtists() []string      { return t.Config().SplitArtist(t.tags.AlbumArtist) }
func (t *Tag) SetAlbumArtist(v string)     { t.tags.AlbumArtist = v }
func (t *Tag) SetAlbumArtists(v []string)  { t.tags.AlbumArtist = t.Config().JoinArtists(v) }
func (t *Tag) RemoveAlbumArtist()          { t.tags.AlbumArtist = "" }

func (t *Tag) joined(artists []string) (string, bool) {
	if len(artists) == 0 {
		return "", false
	}
	return t.Config().JoinArtists(artists), true
}

// Year returns the leading year of ©day.
func (t *Tag) Year() (int, bool) {
	if t.tags.Year == "" {
		return 0, false
	}
	y, err := types.ParseYear(t.tags.Year)
	return y, err == nil
}

func (t *Tag) SetYear(v int) { t.tags.Year = strconv.Itoa(v) }
func (t *Tag) RemoveYear()   { t.tags.Year = "" }

func (t *Tag) TrackNumber() (uint16, bool) { return number(t.tags.TrackNumber) }
func (t *Tag) SetTrackNumber(v uint16)     { t.tags.TrackNumber = int(v) }
func (t *Tag) RemoveTrackNumber()          { t.tags.TrackNumber = 0 }

func (t *Tag) TotalTracks() (uint16, bool) { return number(t.tags.TrackTotal) }
func (t *Tag) SetTotalTracks(v uint16)     { t.tags.TrackTotal = int(v) }
func (t *Tag) RemoveTotalTracks()          { t.tags.TrackTotal = 0 }

func (t *Tag) DiscNumber() (uint16, bool) { return number(t.tags.DiskNumber) }
func (t *Tag) SetDiscNumber(v uint16)     { t.tags.DiskNumber = int(v) }
func (t *Tag) RemoveDiscNumber()          { t.tags.DiskNumber = 0 }

func (t *Tag) TotalDiscs() (uint16, bool) { return number(t.tags.DiskTotal) }
func (t *Tag) SetTotalDiscs(v uint16)     { t.tags.DiskTotal = int(v) }
func (t *Tag) RemoveTotalDiscs()          { t.tags.DiskTotal = 0 }

// AlbumCover returns the covr atom.
func (t *Tag) AlbumCover() (types.Picture, bool) {
	if len(t.tags.Cover) == 0 {
		return types.Picture{}, false
	}
	mime := t.coverMIME
	if mime == "" {
		mime = types.DetectMIME(t.tags.Cover)
	}
	return types.Picture{MIMEType: mime, Data: t.tags.Cover}, true
}

// SetAlbumCover stores p as the only covr image. The atom carries no MIME
// type, so it is sniffed again when the file is read back.
func (t *Tag) SetAlbumCover(p types.Picture) {
	t.tags.Cover = bytes.Clone(p.Data)
	t.coverMIME = p.MIMEType
}

func (t *Tag) RemoveAlbumCover() {
	t.tags.Cover = nil
	t.coverMIME = ""
}

// Duration returns the movie duration from mvhd.
func (t *Tag) Duration() (time.Duration, bool) {
	return t.duration, t.hasDuration
}

// deleteList names every mapped atom to strip before the new values are
// written. trkn and disk are always rewritten from the values read, since
// the atom writer cannot update them in place.
func (t *Tag) deleteList() []string {
	del := []string{deleteTrack, deleteDisc}
	for key, v := range map[string]string{
		deleteTitle:       t.tags.Title,
		deleteArtist:      t.tags.Artist,
		deleteAlbum:       t.tags.Album,
		deleteAlbumArtist: t.tags.AlbumArtist,
		deleteYear:        t.tags.Year,
		deleteGenre:       t.tags.Genre,
		deleteComposer:    t.tags.Composer,
		deleteComment:     t.tags.Comment,
	} {
		if v == "" {
			del = append(del, key)
		}
	}
	if len(t.tags.Cover) == 0 {
		del = append(del, deleteCover)
	}
	return del
}

// WriteToFile rewrites the ilst atoms of the MP4 file behind f. Atoms with
// no canonical field, such as copyright, are kept.
//
// The atom writer works on the path of f and rewrites the same inode, so f
// stays valid. Chunk offsets are shifted when the metadata sits before the
// media data.
func (t *Tag) WriteToFile(f *os.File) error {
	path := f.Name()
	ok, err := hasIlst(f)
	if err != nil {
		return &types.ParseError{Path: path, Type: types.TagTypeMP4, Err: err}
	}
	if !ok {
		return &types.UnsupportedWriteError{Type: types.TagTypeMP4, Reason: "file has no moov/udta/meta/ilst box"}
	}
	if t.numbersLost {
		return &types.UnsupportedWriteError{Type: types.TagTypeMP4, Reason: "trkn or disk could not be read and would be lost"}
	}
	mime := t.coverMIME
	if mime == "" && len(t.tags.Cover) > 0 {
		mime = types.DetectMIME(t.tags.Cover)
	}
	if _, ok := coverClass(mime); len(t.tags.Cover) > 0 && !ok {
		return &types.UnsupportedWriteError{Type: types.TagTypeMP4, Reason: "covr must be JPEG or PNG, got " + mime}
	}
	before, hasMdat, err := mdatOffset(f)
	if err != nil {
		return &types.ParseError{Path: path, Type: types.TagTypeMP4, Err: err}
	}

	log := t.Config().Log().WithField("path", path)
	out := t.Native()
	out.Delete = t.deleteList()
	if out.TrackNumber == 0 && out.TrackTotal > 0 {
		log.Debug("trkn needs a track number; total dropped")
	}
	if out.DiskNumber == 0 && out.DiskTotal > 0 {
		log.Debug("disk needs a disc number; total dropped")
	}
	if err := mp4tag.Write(path, &out); err != nil {
		return &types.ParseError{Path: path, Type: types.TagTypeMP4, Err: fmt.Errorf("write atoms: %w", err)}
	}

	typed := false
	if len(out.Cover) > 0 {
		if typed, err = typeCover(f, f, mime); err != nil {
			return &types.IoError{Op: "write", Path: path, Err: fmt.Errorf("type covr: %w", err)}
		}
	}

	shifted := 0
	if hasMdat {
		after, _, err := mdatOffset(f)
		if err != nil {
			return &types.ParseError{Path: path, Type: types.TagTypeMP4, Err: err}
		}
		if delta := after - before; delta != 0 {
			if shifted, err = shiftChunkOffsets(f, f, delta); err != nil {
				return &types.IoError{Op: "write", Path: path, Err: fmt.Errorf("shift chunk offsets: %w", err)}
			}
		}
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return &types.IoError{Op: "seek", Path: path, Err: err}
	}

	log.WithFields(logrus.Fields{
		"deleted":      len(out.Delete),
		"chunk_tables": shifted,
		"cover_bytes":  len(out.Cover),
		"cover_typed":  typed,
	}).Debug("wrote MP4 atoms")
	return nil
}

// WriteToPath opens path for reading and writing and calls WriteToFile.
func (t *Tag) WriteToPath(path string) error {
	return types.WriteToPath(path, t.WriteToFile)
}

// init registers the MP4 adapter.
func init() {
	registry.Register(types.TagTypeMP4, registry.Adapter{
		Read: func(path string, cfg types.Config) (types.Tag, error) {
			t, err := Read(path, cfg)
			if err != nil {
				return nil, err
			}
			return t, nil
		},
		New: func(cfg types.Config) types.Tag { return New(cfg) },
	})
}
