package id3

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
	"github.com/sirupsen/logrus"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

// Frame IDs mapped onto canonical fields.
const (
	FrameTitle       = "TIT2"
	FrameArtist      = "TPE1"
	FrameAlbum       = "TALB"
	FrameAlbumArtist = "TPE2"
	FrameRecording   = "TDRC" // ID3v2.4 recording time
	FrameYear        = "TYER" // ID3v2.3 year
	FrameTrack       = "TRCK"
	FrameDisc        = "TPOS"
	FrameGenre       = "TCON"
	FrameComposer    = "TCOM"
	FrameLength      = "TLEN"
	FrameComment     = "COMM"
	FramePicture     = "APIC"
)

// commentLanguage is the language written into new COMM frames.
const commentLanguage = "eng"

// multiSeparator separates the values of a multi-valued ID3v2.4 text frame.
const multiSeparator = "\x00"

var _ types.Tag = (*Tag)(nil)

// Tag is the adapter for ID3v2.3 and ID3v2.4 tags.
type Tag struct {
	types.Base
	id3         *id3v2.Tag
	duration    time.Duration
	hasDuration bool
}

// New returns an empty ID3v2.4 tag with UTF-8 text encoding.
func New(cfg types.Config) *Tag {
	return &Tag{Base: types.NewBase(cfg), id3: id3v2.NewEmptyTag()}
}

// Read parses the ID3v2 tag of the file at path.
//
// A file without an ID3v2 tag yields an empty tag, seeded from a trailing
// ID3v1 tag when there is one. ID3v2.2 tags are read through a fallback
// parser and are upgraded to ID3v2.4 when written.
func Read(path string, cfg types.Config) (*Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &types.IoError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &types.IoError{Op: "stat", Path: path, Err: err}
	}
	sr := binary.NewSafeReader(f, info.Size(), path)
	if _, err := tagSize(sr); err != nil {
		return nil, &types.ParseError{Path: path, Type: types.TagTypeID3v2, Err: err}
	}

	t := &Tag{Base: types.NewBase(cfg)}
	t.id3, err = id3v2.ParseReader(io.NewSectionReader(f, 0, info.Size()), id3v2.Options{Parse: true})
	switch {
	case errors.Is(err, id3v2.ErrUnsupportedVersion):
		t.id3 = id3v2.NewEmptyTag()
		if err := t.seed(f, tag.ReadFrom); err != nil {
			return nil, &types.ParseError{Path: path, Type: types.TagTypeID3v2, Err: err}
		}
		t.Warn("id3v2", "unsupported ID3v2 version read through fallback parser; it is upgraded to ID3v2.4 on write")
	case err != nil:
		return nil, &types.ParseError{Path: path, Type: types.TagTypeID3v2, Err: err}
	case t.id3.Version() < 4:
		// Latin-1 cannot hold every value a setter may receive.
		t.id3.SetDefaultEncoding(id3v2.EncodingUTF16)
	case !t.id3.HasFrames() && hasID3v1(sr):
		if err := t.seed(f, tag.ReadID3v1Tags); err == nil {
			t.Warn("id3v1", "no ID3v2 tag; fields seeded from the ID3v1 tag")
		}
	}

	t.readDuration()

	if err := t.Check(path, t.Validate()); err != nil {
		return nil, err
	}
	return t, nil
}

// seed copies the fields another reader finds into this tag.
func (t *Tag) seed(f *os.File, read func(io.ReadSeeker) (tag.Metadata, error)) error {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	m, err := read(f)
	if err != nil {
		return err
	}

	set := func(v string, setter func(string)) {
		if v = strings.TrimSpace(v); v != "" {
			setter(v)
		}
	}
	set(m.Title(), t.SetTitle)
	set(m.Artist(), t.SetArtist)
	set(m.Album(), t.SetAlbum)
	set(m.AlbumArtist(), t.SetAlbumArtist)
	set(m.Genre(), t.SetGenre)
	set(m.Composer(), t.SetComposer)
	set(m.Comment(), t.SetComment)
	if y := m.Year(); y > 0 {
		t.SetYear(y)
	}
	if n, total := m.Track(); n > 0 || total > 0 {
		t.setPair(FrameTrack, types.Pair{Number: uint16(n), HasNumber: n > 0, Total: uint16(total), HasTotal: total > 0})
	}
	if n, total := m.Disc(); n > 0 || total > 0 {
		t.setPair(FrameDisc, types.Pair{Number: uint16(n), HasNumber: n > 0, Total: uint16(total), HasTotal: total > 0})
	}
	if p := m.Picture(); p != nil && len(p.Data) > 0 {
		t.SetAlbumCover(types.Picture{MIMEType: p.MIMEType, Data: p.Data})
	}
	return nil
}

// readDuration takes the length from TLEN.
func (t *Tag) readDuration() {
	if ms, ok := t.length(); ok {
		t.duration, t.hasDuration = time.Duration(ms)*time.Millisecond, true
	}
}

func (t *Tag) length() (int64, bool) {
	v, ok := t.TextFrame(FrameLength)
	if !ok {
		return 0, false
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || ms <= 0 {
		return 0, false
	}
	return ms, true
}

// Validate reports the numeric frames whose text does not parse.
func (t *Tag) Validate() []error {
	var errs []error
	for _, id := range []string{FrameTrack, FrameDisc} {
		if v, ok := t.TextFrame(id); ok {
			if _, err := types.ParsePair(v); err != nil {
				f := types.FieldTrackNumber
				if id == FrameDisc {
					f = types.FieldDiscNumber
				}
				errs = append(errs, t.malformed(id, f, v, err))
			}
		}
	}
	if v, id, ok := t.yearText(); ok {
		if _, err := types.ParseYear(v); err != nil {
			errs = append(errs, t.malformed(id, types.FieldYear, v, err))
		}
	}
	if v, ok := t.TextFrame(FrameLength); ok {
		if _, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err != nil {
			errs = append(errs, t.malformed(FrameLength, types.FieldDuration, v, types.ErrInvalidNumber))
		}
	}
	return errs
}

func (t *Tag) malformed(id string, f types.Field, value string, err error) error {
	return &types.MalformedFieldError{Type: types.TagTypeID3v2, Key: id, Field: f, Value: value, Err: err}
}

// Type returns TagTypeID3v2.
func (t *Tag) Type() types.TagType { return types.TagTypeID3v2 }

// Supports reports true for every canonical field.
func (t *Tag) Supports(types.Field) bool { return true }

// ID3 exposes the native tag.
func (t *Tag) ID3() *id3v2.Tag { return t.id3 }

// Version returns the major ID3v2 version, 3 or 4.
func (t *Tag) Version() byte { return t.id3.Version() }

// FrameIDs returns the IDs of every frame present, sorted.
func (t *Tag) FrameIDs() []string {
	var ids []string
	for id := range t.id3.AllFrames() {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// TextFrame returns the text of a text frame. Empty frames read as absent.
func (t *Tag) TextFrame(id string) (string, bool) {
	v := strings.TrimRight(t.id3.GetTextFrame(id).Text, multiSeparator)
	return v, v != ""
}

// SetTextFrame replaces a text frame. An empty value deletes it.
func (t *Tag) SetTextFrame(id, v string) {
	if v == "" {
		t.id3.DeleteFrames(id)
		return
	}
	t.id3.AddTextFrame(id, t.id3.DefaultEncoding(), v)
}

func (t *Tag) Title() (string, bool) { return t.TextFrame(FrameTitle) }
func (t *Tag) SetTitle(v string)     { t.SetTextFrame(FrameTitle, v) }
func (t *Tag) RemoveTitle()          { t.id3.DeleteFrames(FrameTitle) }

func (t *Tag) Album() (string, bool) { return t.TextFrame(FrameAlbum) }
func (t *Tag) SetAlbum(v string)     { t.SetTextFrame(FrameAlbum, v) }
func (t *Tag) RemoveAlbum()          { t.id3.DeleteFrames(FrameAlbum) }

func (t *Tag) Genre() (string, bool) { return t.TextFrame(FrameGenre) }
func (t *Tag) SetGenre(v string)     { t.SetTextFrame(FrameGenre, v) }
func (t *Tag) RemoveGenre()          { t.id3.DeleteFrames(FrameGenre) }

func (t *Tag) Composer() (string, bool) { return t.TextFrame(FrameComposer) }
func (t *Tag) SetComposer(v string)     { t.SetTextFrame(FrameComposer, v) }
func (t *Tag) RemoveComposer()          { t.id3.DeleteFrames(FrameComposer) }

func (t *Tag) Artist() (string, bool) { return t.joined(t.Artists()) }
func (t *Tag) Artists() []string      { return t.people(FrameArtist) }
func (t *Tag) SetArtist(v string)     { t.SetTextFrame(FrameArtist, v) }
func (t *Tag) SetArtists(v []string)  { t.setPeople(FrameArtist, v) }
func (t *Tag) RemoveArtist()          { t.id3.DeleteFrames(FrameArtist) }

func (t *Tag) AlbumArtist() (string, bool) { return t.joined(t.AlbumArtists()) }
func (t *Tag) AlbumArtists() []string      { return t.people(FrameAlbumArtist) }
func (t *Tag) SetAlbumArtist(v string)     { t.SetTextFrame(FrameAlbumArtist, v) }
func (t *Tag) SetAlbumArtists(v []string)  { t.setPeople(FrameAlbumArtist, v) }
func (t *Tag) RemoveAlbumArtist()          { t.id3.DeleteFrames(FrameAlbumArtist) }

func (t *Tag) joined(people []string) (string, bool) {
	if len(people) == 0 {
		return "", false
	}
	return t.Config().JoinArtists(people), true
}

// people reads a person list. ID3v2.4 frames hold NUL-separated values;
// a single value is split with the configured separator.
func (t *Tag) people(id string) []string {
	v, ok := t.TextFrame(id)
	if !ok {
		return nil
	}
	values := strings.Split(v, multiSeparator)
	if len(values) == 1 {
		return t.Config().SplitArtist(values[0])
	}
	return slices.DeleteFunc(values, func(s string) bool { return s == "" })
}

// setPeople stores NUL-separated values in ID3v2.4 and joined values in ID3v2.3.
func (t *Tag) setPeople(id string, people []string) {
	sep := multiSeparator
	if t.id3.Version() < 4 {
		sep = t.Config().Separator()
	}
	t.SetTextFrame(id, strings.Join(people, sep))
}

// yearText returns the recording time, falling back to the ID3v2.3 year frame.
func (t *Tag) yearText() (string, string, bool) {
	for _, id := range []string{FrameRecording, FrameYear} {
		if v, ok := t.TextFrame(id); ok {
			return v, id, true
		}
	}
	return "", "", false
}

func (t *Tag) Year() (int, bool) {
	v, _, ok := t.yearText()
	if !ok {
		return 0, false
	}
	year, err := types.ParseYear(v)
	if err != nil {
		return 0, false
	}
	return year, true
}

// SetYear writes TDRC in ID3v2.4 tags and TYER in ID3v2.3 tags.
func (t *Tag) SetYear(v int) {
	t.RemoveYear()
	t.SetTextFrame(t.id3.CommonID("Year"), strconv.Itoa(v))
}

func (t *Tag) RemoveYear() {
	t.id3.DeleteFrames(FrameRecording)
	t.id3.DeleteFrames(FrameYear)
}

func (t *Tag) pair(id string) types.Pair {
	v, _ := t.TextFrame(id)
	return types.SplitPair(v)
}

func (t *Tag) setPair(id string, p types.Pair) {
	t.SetTextFrame(id, p.String())
}

func (t *Tag) TrackNumber() (uint16, bool) {
	p := t.pair(FrameTrack)
	return p.Number, p.HasNumber
}

func (t *Tag) SetTrackNumber(v uint16) {
	p := t.pair(FrameTrack)
	p.Number, p.HasNumber = v, true
	t.setPair(FrameTrack, p)
}

func (t *Tag) RemoveTrackNumber() {
	p := t.pair(FrameTrack)
	p.Number, p.HasNumber = 0, false
	t.setPair(FrameTrack, p)
}

func (t *Tag) TotalTracks() (uint16, bool) {
	p := t.pair(FrameTrack)
	return p.Total, p.HasTotal
}

func (t *Tag) SetTotalTracks(v uint16) {
	p := t.pair(FrameTrack)
	p.Total, p.HasTotal = v, true
	t.setPair(FrameTrack, p)
}

func (t *Tag) RemoveTotalTracks() {
	p := t.pair(FrameTrack)
	p.Total, p.HasTotal = 0, false
	t.setPair(FrameTrack, p)
}

func (t *Tag) DiscNumber() (uint16, bool) {
	p := t.pair(FrameDisc)
	return p.Number, p.HasNumber
}

func (t *Tag) SetDiscNumber(v uint16) {
	p := t.pair(FrameDisc)
	p.Number, p.HasNumber = v, true
	t.setPair(FrameDisc, p)
}

func (t *Tag) RemoveDiscNumber() {
	p := t.pair(FrameDisc)
	p.Number, p.HasNumber = 0, false
	t.setPair(FrameDisc, p)
}

func (t *Tag) TotalDiscs() (uint16, bool) {
	p := t.pair(FrameDisc)
	return p.Total, p.HasTotal
}

func (t *Tag) SetTotalDiscs(v uint16) {
	p := t.pair(FrameDisc)
	p.Total, p.HasTotal = v, true
	t.setPair(FrameDisc, p)
}

func (t *Tag) RemoveTotalDiscs() {
	p := t.pair(FrameDisc)
	p.Total, p.HasTotal = 0, false
	t.setPair(FrameDisc, p)
}

// comments returns the COMM frames, split into the undescribed ones that
// map to the comment field and the rest.
func (t *Tag) comments() (plain, other []id3v2.CommentFrame) {
	for _, f := range t.id3.GetFrames(FrameComment) {
		cf, ok := f.(id3v2.CommentFrame)
		if !ok {
			continue
		}
		if cf.Description == "" {
			plain = append(plain, cf)
		} else {
			other = append(other, cf)
		}
	}
	return plain, other
}

// Comment returns the first COMM frame without a description.
func (t *Tag) Comment() (string, bool) {
	plain, _ := t.comments()
	for _, cf := range plain {
		if cf.Text != "" {
			return cf.Text, true
		}
	}
	return "", false
}

// SetComment replaces undescribed COMM frames, keeping described ones such
// as iTunes normalization data.
func (t *Tag) SetComment(v string) {
	t.RemoveComment()
	t.id3.AddCommentFrame(id3v2.CommentFrame{
		Encoding: t.id3.DefaultEncoding(),
		Language: commentLanguage,
		Text:     v,
	})
}

func (t *Tag) RemoveComment() {
	_, other := t.comments()
	t.id3.DeleteFrames(FrameComment)
	for _, cf := range other {
		t.id3.AddCommentFrame(cf)
	}
}

func (t *Tag) pictures() (front, other []id3v2.PictureFrame) {
	for _, f := range t.id3.GetFrames(FramePicture) {
		pf, ok := f.(id3v2.PictureFrame)
		if !ok {
			continue
		}
		if pf.PictureType == id3v2.PTFrontCover {
			front = append(front, pf)
		} else {
			other = append(other, pf)
		}
	}
	return front, other
}

// Pictures returns every attached picture.
func (t *Tag) Pictures() []types.Picture {
	front, other := t.pictures()
	var pics []types.Picture
	for _, pf := range append(front, other...) {
		pics = append(pics, toPicture(pf))
	}
	return pics
}

// AlbumCover returns the first front-cover APIC frame.
func (t *Tag) AlbumCover() (types.Picture, bool) {
	front, _ := t.pictures()
	if len(front) == 0 {
		return types.Picture{}, false
	}
	return toPicture(front[0]), true
}

func (t *Tag) SetAlbumCover(p types.Picture) {
	t.RemoveAlbumCover()
	mime := p.MIMEType
	if mime == "" {
		mime = types.DetectMIME(p.Data)
	}
	t.id3.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    t.id3.DefaultEncoding(),
		MimeType:    mime,
		PictureType: id3v2.PTFrontCover,
		Description: "Front Cover",
		Picture:     p.Data,
	})
}

func (t *Tag) RemoveAlbumCover() {
	_, other := t.pictures()
	t.id3.DeleteFrames(FramePicture)
	for _, pf := range other {
		t.id3.AddAttachedPicture(pf)
	}
}

func toPicture(pf id3v2.PictureFrame) types.Picture {
	mime := pf.MimeType
	if mime == "" || !strings.Contains(mime, "/") {
		mime = types.DetectMIME(pf.Picture)
	}
	return types.Picture{MIMEType: mime, Data: pf.Picture}
}

// Duration returns the length stored in TLEN.
func (t *Tag) Duration() (time.Duration, bool) {
	return t.duration, t.hasDuration
}

// WriteToFile replaces the ID3v2 tag at the start of f. The audio and any
// trailing ID3v1 tag are kept. A tag with no frames removes the ID3v2 tag.
func (t *Tag) WriteToFile(f *os.File) error {
	data, err := types.ReadAll(f)
	if err != nil {
		return err
	}
	old, err := tagSize(binary.NewSafeReader(bytes.NewReader(data), int64(len(data)), f.Name()))
	if err != nil {
		return &types.ParseError{Path: f.Name(), Type: types.TagTypeID3v2, Err: err}
	}

	var buf bytes.Buffer
	if t.id3.HasFrames() {
		if _, err := t.id3.WriteTo(&buf); err != nil {
			return &types.ParseError{Path: f.Name(), Type: types.TagTypeID3v2, Err: fmt.Errorf("serialize: %w", err)}
		}
	}
	written := buf.Len()
	buf.Write(data[old:])

	if err := types.Replace(f, buf.Bytes()); err != nil {
		return err
	}

	t.Config().Log().WithFields(logrus.Fields{
		"path":     f.Name(),
		"version":  t.id3.Version(),
		"old_size": old,
		"new_size": written,
	}).Debug("wrote ID3v2 tag")
	return nil
}

// WriteToPath opens path for reading and writing and calls WriteToFile.
func (t *Tag) WriteToPath(path string) error {
	return types.WriteToPath(path, t.WriteToFile)
}

// init registers the ID3v2 adapter.
func init() {
	registry.Register(types.TagTypeID3v2, registry.Adapter{
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
