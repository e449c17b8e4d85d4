package flac

import (
	"bytes"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/go-flac/flacpicture"
	goflac "github.com/go-flac/go-flac"
	"github.com/sirupsen/logrus"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
	"github.com/simonhull/audiotag/internal/vorbis"
)

// schema maps every canonical field. Artists are stored one per entry.
var schema = &vorbis.Schema{
	Type: types.TagTypeFLAC,
	Supported: types.NewFieldSet(
		types.FieldTitle,
		types.FieldArtist,
		types.FieldAlbum,
		types.FieldAlbumArtist,
		types.FieldYear,
		types.FieldTrackNumber,
		types.FieldTotalTracks,
		types.FieldDiscNumber,
		types.FieldTotalDiscs,
		types.FieldGenre,
		types.FieldComposer,
		types.FieldComment,
		types.FieldAlbumCover,
		types.FieldDuration,
	),
	MultiValued: true,
	Comment:     []string{vorbis.KeyComment, vorbis.KeyDescription},
	Year:        []string{vorbis.KeyDate, vorbis.KeyYear},
	Track: vorbis.NumberField{
		Number:      vorbis.KeyTrackNumber,
		Totals:      []string{vorbis.KeyTrackTotal, vorbis.KeyTotalTracks},
		NumberField: types.FieldTrackNumber,
		TotalField:  types.FieldTotalTracks,
	},
	Disc: vorbis.NumberField{
		Number:      vorbis.KeyDiscNumber,
		Totals:      []string{vorbis.KeyDiscTotal, vorbis.KeyTotalDiscs},
		NumberField: types.FieldDiscNumber,
		TotalField:  types.FieldTotalDiscs,
	},
}

var _ types.Tag = (*Tag)(nil)

// Tag is the adapter for the VORBIS_COMMENT and PICTURE blocks of a FLAC file.
type Tag struct {
	*vorbis.CommentTag
	pictures    []*flacpicture.MetadataBlockPicture
	duration    time.Duration
	hasDuration bool
}

// New returns an empty tag.
func New(cfg types.Config) *Tag {
	return &Tag{CommentTag: vorbis.NewCommentTag(schema, vorbis.NewComments(), cfg)}
}

// Read parses the metadata blocks of the FLAC file at path.
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

	blocks, err := readBlocks(binary.NewSafeReader(f, info.Size(), path))
	if err != nil {
		return nil, &types.ParseError{Path: path, Type: types.TagTypeFLAC, Err: err}
	}

	comments := vorbis.NewComments()
	first := slices.IndexFunc(blocks, func(b *goflac.MetaDataBlock) bool { return b.Type == goflac.VorbisComment })
	if first >= 0 {
		if comments, err = vorbis.FromBlock(blocks[first]); err != nil {
			return nil, &types.ParseError{Path: path, Type: types.TagTypeFLAC, Err: err}
		}
	}
	t := &Tag{CommentTag: vorbis.NewCommentTag(schema, comments, cfg)}

	for i, block := range blocks {
		switch block.Type {
		case goflac.StreamInfo:
			d, ok, err := streamDuration(block.Data)
			if err != nil {
				t.Warn("streaminfo", err.Error())
				continue
			}
			t.duration, t.hasDuration = d, ok

		case goflac.VorbisComment:
			if i != first {
				t.Warn("comment", "ignoring extra VORBIS_COMMENT block")
			}

		case goflac.Picture:
			pic, err := flacpicture.ParseFromMetaDataBlock(*block)
			if err != nil {
				t.Warn("picture", fmt.Sprintf("skipping PICTURE block: %v", err))
				continue
			}
			t.pictures = append(t.pictures, pic)
		}
	}

	if err := t.Check(path, t.Validate()); err != nil {
		return nil, err
	}
	return t, nil
}

// PictureBlocks returns the native picture blocks in file order.
func (t *Tag) PictureBlocks() []*flacpicture.MetadataBlockPicture {
	return slices.Clone(t.pictures)
}

// Pictures returns every embedded picture.
func (t *Tag) Pictures() []types.Picture {
	pics := make([]types.Picture, 0, len(t.pictures))
	for _, p := range t.pictures {
		pics = append(pics, vorbis.ToPicture(p))
	}
	return pics
}

// AlbumCover returns the first front-cover picture.
func (t *Tag) AlbumCover() (types.Picture, bool) {
	for _, p := range t.pictures {
		if p.PictureType == flacpicture.PictureTypeFrontCover {
			return vorbis.ToPicture(p), true
		}
	}
	return types.Picture{}, false
}

// SetAlbumCover replaces every front cover with p, keeping other pictures.
func (t *Tag) SetAlbumCover(p types.Picture) {
	cover := vorbis.FrontCover(p)
	i := slices.IndexFunc(t.pictures, isFrontCover)
	t.RemoveAlbumCover()
	if i < 0 {
		i = len(t.pictures)
	}
	t.pictures = slices.Insert(t.pictures, i, cover)
}

// RemoveAlbumCover deletes every front-cover picture.
func (t *Tag) RemoveAlbumCover() {
	t.pictures = slices.DeleteFunc(t.pictures, isFrontCover)
}

func isFrontCover(p *flacpicture.MetadataBlockPicture) bool {
	return p.PictureType == flacpicture.PictureTypeFrontCover
}

// Duration returns the playing time from STREAMINFO.
func (t *Tag) Duration() (time.Duration, bool) {
	return t.duration, t.hasDuration
}

// WriteToFile replaces the VORBIS_COMMENT and PICTURE blocks of the FLAC
// stream in f. Other metadata blocks and the audio frames are kept.
func (t *Tag) WriteToFile(f *os.File) error {
	data, err := types.ReadAll(f)
	if err != nil {
		return err
	}
	file, err := goflac.ParseBytes(bytes.NewReader(data))
	if err != nil {
		return &types.ParseError{Path: f.Name(), Type: types.TagTypeFLAC, Err: err}
	}

	comments := t.Comments().Clone()
	var meta []*goflac.MetaDataBlock
	insertAt := -1
	for _, block := range file.Meta {
		switch block.Type {
		case goflac.VorbisComment:
			if insertAt < 0 {
				insertAt = len(meta)
				if comments.Vendor() == "" {
					if old, err := vorbis.FromBlock(block); err == nil {
						comments.SetVendor(old.Vendor())
					}
				}
			}
		case goflac.Picture:
			// replaced by t.pictures
		default:
			meta = append(meta, block)
		}
	}
	if insertAt < 0 {
		insertAt = min(1, len(meta)) // right after STREAMINFO
	}

	added := make([]*goflac.MetaDataBlock, 0, 1+len(t.pictures))
	vc := comments.Block()
	added = append(added, &vc)
	for _, p := range t.pictures {
		block := p.Marshal()
		added = append(added, &block)
	}
	file.Meta = slices.Insert(meta, insertAt, added...)

	out := file.Marshal()
	if err := types.Replace(f, out); err != nil {
		return err
	}

	t.Config().Log().WithFields(logrus.Fields{
		"path":     f.Name(),
		"comments": comments.Len(),
		"pictures": len(t.pictures),
	}).Debug("wrote FLAC metadata")
	return nil
}

// WriteToPath opens path for reading and writing and calls WriteToFile.
func (t *Tag) WriteToPath(path string) error {
	return types.WriteToPath(path, t.WriteToFile)
}

// init registers the FLAC adapter.
func init() {
	registry.Register(types.TagTypeFLAC, registry.Adapter{
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
