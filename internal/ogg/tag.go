package ogg

import (
	"bytes"
	"errors"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
	"github.com/simonhull/audiotag/internal/vorbis"
)

// schema is the field set of an Ogg comment header. Album artist, totals,
// disc numbers, composer and cover are not mapped; those keys remain
// reachable through Comments.
var schema = &vorbis.Schema{
	Type: types.TagTypeVorbis,
	Supported: types.NewFieldSet(
		types.FieldTitle,
		types.FieldArtist,
		types.FieldAlbum,
		types.FieldYear,
		types.FieldTrackNumber,
		types.FieldGenre,
		types.FieldComment,
		types.FieldDuration,
	),
	Comment: []string{vorbis.KeyDescription},
	Year:    []string{vorbis.KeyDate},
	Track: vorbis.NumberField{
		Number:      vorbis.KeyTrackNumber,
		NumberField: types.FieldTrackNumber,
		TotalField:  types.FieldTotalTracks,
	},
}

var _ types.Tag = (*Tag)(nil)

// Tag is the adapter for the comment header of an Ogg Vorbis or Ogg Opus stream.
type Tag struct {
	*vorbis.CommentTag
	duration    time.Duration
	hasDuration bool
	codec       codec
}

// New returns an empty tag. The codec is taken from the file it is written to.
func New(cfg types.Config) *Tag {
	return &Tag{CommentTag: vorbis.NewCommentTag(schema, vorbis.NewComments(), cfg)}
}

// Read parses the comment header of the Ogg file at path.
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
	h, err := readHeaders(sr)
	if err != nil {
		return nil, &types.ParseError{Path: path, Type: types.TagTypeVorbis, Err: err}
	}

	body, err := h.codec.commentBody(h.comment())
	if err != nil {
		return nil, &types.ParseError{Path: path, Type: types.TagTypeVorbis, Err: err}
	}
	comments, err := vorbis.ParseComments(body)
	if err != nil {
		return nil, &types.ParseError{Path: path, Type: types.TagTypeVorbis, Err: err}
	}

	t := &Tag{CommentTag: vorbis.NewCommentTag(schema, comments, cfg), codec: h.codec}

	granule, err := lastGranule(sr, h.serial)
	if err == nil {
		t.duration, err = h.codec.duration(h.packets[0], granule)
	}
	if err != nil {
		t.Warn("duration", err.Error())
	} else {
		t.hasDuration = true
	}

	if err := t.Check(path, t.Validate()); err != nil {
		return nil, err
	}
	return t, nil
}

// Codec returns "vorbis" or "opus" for a tag read from a file, "unknown" otherwise.
func (t *Tag) Codec() string {
	return t.codec.String()
}

// Pictures decodes every METADATA_BLOCK_PICTURE entry. Entries that do not
// decode are skipped.
func (t *Tag) Pictures() []types.Picture {
	var pics []types.Picture
	for _, v := range t.Comments().Get(vorbis.KeyPictureBlock) {
		pic, err := vorbis.DecodePicture(v)
		if err != nil {
			continue
		}
		pics = append(pics, vorbis.ToPicture(pic))
	}
	return pics
}

// AlbumCover is not mapped for Ogg comment headers.
func (t *Tag) AlbumCover() (types.Picture, bool) { return types.Picture{}, false }

// SetAlbumCover is a no-op.
func (t *Tag) SetAlbumCover(types.Picture) {}

// RemoveAlbumCover is a no-op.
func (t *Tag) RemoveAlbumCover() {}

// Duration returns the playing time derived from the last granule position.
func (t *Tag) Duration() (time.Duration, bool) {
	return t.duration, t.hasDuration
}

// WriteToFile replaces the comment header of the Ogg stream in f.
//
// The whole file is rewritten in place: header pages are re-laid out and
// the following pages of the stream renumbered. If the tag has no vendor
// string the one already in the file is kept.
func (t *Tag) WriteToFile(f *os.File) error {
	data, err := types.ReadAll(f)
	if err != nil {
		return err
	}

	sr := binary.NewSafeReader(bytes.NewReader(data), int64(len(data)), f.Name())
	h, err := readHeaders(sr)
	if errors.Is(err, errUnknownCodec) {
		return &types.UnsupportedWriteError{Type: types.TagTypeVorbis, Reason: err.Error()}
	}
	if err != nil {
		return &types.ParseError{Path: f.Name(), Type: types.TagTypeVorbis, Err: err}
	}

	comments := t.Comments().Clone()
	if comments.Vendor() == "" {
		if body, err := h.codec.commentBody(h.comment()); err == nil {
			if old, err := vorbis.ParseComments(body); err == nil {
				comments.SetVendor(old.Vendor())
			}
		}
	}

	out, err := rewrite(sr, data, h, h.codec.commentPacket(comments.Marshal()))
	if err != nil {
		return &types.ParseError{Path: f.Name(), Type: types.TagTypeVorbis, Err: err}
	}
	if err := types.Replace(f, out); err != nil {
		return err
	}

	t.Config().Log().WithFields(logrus.Fields{
		"path":  f.Name(),
		"codec": h.codec,
		"bytes": len(out),
	}).Debug("wrote Ogg comment header")
	return nil
}

// WriteToPath opens path for reading and writing and calls WriteToFile.
func (t *Tag) WriteToPath(path string) error {
	return types.WriteToPath(path, t.WriteToFile)
}

// init registers the Ogg comment-header adapter.
func init() {
	registry.Register(types.TagTypeVorbis, registry.Adapter{
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
