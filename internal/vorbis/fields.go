package vorbis

import (
	"strconv"

	"github.com/simonhull/audiotag/internal/types"
)

// NumberField names the keys of a number that may carry a total. Totals
// are read from the first present Totals key, falling back to a total
// packed into the number ("3/12"). Without Totals keys the pair is
// written packed into the number key.
type NumberField struct {
	Number string
	Totals []string

	NumberField types.Field
	TotalField  types.Field
}

// mapped reports whether the schema gives the pair a number key at all.
func (nf NumberField) mapped() bool { return nf.Number != "" }

func (nf NumberField) field(total bool) types.Field {
	if total {
		return nf.TotalField
	}
	return nf.NumberField
}

// Schema maps logical fields onto comment keys for one tag type.
type Schema struct {
	Type      types.TagType
	Supported types.FieldSet

	// MultiValued stores each artist as its own ARTIST entry instead of
	// one entry joined with the configured separator.
	MultiValued bool

	// Comment and Year list the keys read in order; the first is written.
	Comment []string
	Year    []string

	Track NumberField
	Disc  NumberField
}

// CommentTag implements the comment-backed fields of the tag interface
// over a Comments list. Pictures, duration and writing are left to the
// embedding adapter.
type CommentTag struct {
	types.Base
	schema   *Schema
	comments *Comments
}

// NewCommentTag binds comments to a schema.
func NewCommentTag(schema *Schema, comments *Comments, cfg types.Config) *CommentTag {
	return &CommentTag{Base: types.NewBase(cfg), schema: schema, comments: comments}
}

// Type returns the tag type of the schema.
func (t *CommentTag) Type() types.TagType { return t.schema.Type }

// Supports reports whether the schema maps the field.
func (t *CommentTag) Supports(f types.Field) bool { return t.schema.Supported.Has(f) }

// Comments exposes the native comment list, including keys with no
// canonical equivalent.
func (t *CommentTag) Comments() *Comments { return t.comments }

// Validate reports every numeric field whose text does not parse, and
// records entries without a separator as warnings.
func (t *CommentTag) Validate() []error {
	for _, entry := range t.comments.Malformed() {
		t.Warn("comment", "entry without '=': "+strconv.Quote(entry))
	}

	var errs []error
	if t.Supports(types.FieldYear) {
		if v, key, ok := t.comments.FirstOf(t.schema.Year...); ok {
			if _, err := types.ParseYear(v); err != nil {
				errs = append(errs, t.malformed(key, types.FieldYear, v, err))
			}
		}
	}
	for _, nf := range []NumberField{t.schema.Track, t.schema.Disc} {
		if t.supportsPair(nf, false) {
			_, pairErrs := t.pair(nf)
			errs = append(errs, pairErrs...)
		}
	}
	return errs
}

func (t *CommentTag) malformed(key string, f types.Field, value string, err error) error {
	return &types.MalformedFieldError{Type: t.schema.Type, Key: key, Field: f, Value: value, Err: err}
}

// text returns the first non-empty value among keys. Empty entries read as
// absent, as they do in every other tag type.
func (t *CommentTag) text(f types.Field, keys ...string) (string, bool) {
	if !t.Supports(f) {
		return "", false
	}
	for _, key := range keys {
		if v, ok := t.comments.First(key); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// setText writes v under the first key. An empty value removes all keys.
func (t *CommentTag) setText(f types.Field, v string, keys ...string) {
	if !t.Supports(f) {
		return
	}
	if v == "" {
		t.comments.Remove(keys...)
		return
	}
	t.comments.set(keys[0], v)
}

func (t *CommentTag) remove(f types.Field, keys ...string) {
	if !t.Supports(f) {
		return
	}
	t.comments.Remove(keys...)
}

func (t *CommentTag) Title() (string, bool) { return t.text(types.FieldTitle, KeyTitle) }
func (t *CommentTag) SetTitle(v string)     { t.setText(types.FieldTitle, v, KeyTitle) }
func (t *CommentTag) RemoveTitle()          { t.remove(types.FieldTitle, KeyTitle) }

func (t *CommentTag) Album() (string, bool) { return t.text(types.FieldAlbum, KeyAlbum) }
func (t *CommentTag) SetAlbum(v string)     { t.setText(types.FieldAlbum, v, KeyAlbum) }
func (t *CommentTag) RemoveAlbum()          { t.remove(types.FieldAlbum, KeyAlbum) }

func (t *CommentTag) Genre() (string, bool) { return t.text(types.FieldGenre, KeyGenre) }
func (t *CommentTag) SetGenre(v string)     { t.setText(types.FieldGenre, v, KeyGenre) }
func (t *CommentTag) RemoveGenre()          { t.remove(types.FieldGenre, KeyGenre) }

func (t *CommentTag) Composer() (string, bool) {
	return t.text(types.FieldComposer, KeyComposer)
}

func (t *CommentTag) SetComposer(v string) {
	t.setText(types.FieldComposer, v, KeyComposer)
}

func (t *CommentTag) RemoveComposer() {
	t.remove(types.FieldComposer, KeyComposer)
}

func (t *CommentTag) Comment() (string, bool) {
	return t.text(types.FieldComment, t.schema.Comment...)
}

func (t *CommentTag) SetComment(v string) {
	t.setText(types.FieldComment, v, t.schema.Comment...)
}

func (t *CommentTag) RemoveComment() { t.remove(types.FieldComment, t.schema.Comment...) }

func (t *CommentTag) Artist() (string, bool) { return t.joined(t.Artists()) }
func (t *CommentTag) Artists() []string      { return t.people(types.FieldArtist, KeyArtist) }
func (t *CommentTag) SetArtist(v string)     { t.setText(types.FieldArtist, v, KeyArtist) }
func (t *CommentTag) SetArtists(v []string)  { t.setPeople(types.FieldArtist, KeyArtist, v) }
func (t *CommentTag) RemoveArtist()          { t.remove(types.FieldArtist, KeyArtist) }

func (t *CommentTag) AlbumArtist() (string, bool) {
	return t.joined(t.AlbumArtists())
}

func (t *CommentTag) AlbumArtists() []string {
	return t.people(types.FieldAlbumArtist, KeyAlbumArtist)
}

func (t *CommentTag) SetAlbumArtist(v string) {
	t.setText(types.FieldAlbumArtist, v, KeyAlbumArtist)
}

func (t *CommentTag) SetAlbumArtists(v []string) {
	t.setPeople(types.FieldAlbumArtist, KeyAlbumArtist, v)
}

func (t *CommentTag) RemoveAlbumArtist() {
	t.remove(types.FieldAlbumArtist, KeyAlbumArtist)
}

func (t *CommentTag) joined(people []string) (string, bool) {
	if len(people) == 0 {
		return "", false
	}
	return t.Config().JoinArtists(people), true
}

func (t *CommentTag) people(f types.Field, key string) []string {
	if !t.Supports(f) {
		return nil
	}
	if t.schema.MultiValued {
		return t.comments.Get(key)
	}
	v, ok := t.comments.First(key)
	if !ok {
		return nil
	}
	return t.Config().SplitArtist(v)
}

func (t *CommentTag) setPeople(f types.Field, key string, people []string) {
	if !t.Supports(f) {
		return
	}
	switch {
	case len(people) == 0:
		t.comments.Remove(key)
	case t.schema.MultiValued:
		t.comments.set(key, people...)
	default:
		t.comments.set(key, t.Config().JoinArtists(people))
	}
}

func (t *CommentTag) Year() (int, bool) {
	v, ok := t.text(types.FieldYear, t.schema.Year...)
	if !ok {
		return 0, false
	}
	year, err := types.ParseYear(v)
	if err != nil {
		return 0, false
	}
	return year, true
}

func (t *CommentTag) SetYear(v int) {
	t.setText(types.FieldYear, strconv.Itoa(v), t.schema.Year...)
}

func (t *CommentTag) RemoveYear() { t.remove(types.FieldYear, t.schema.Year...) }

func (t *CommentTag) TrackNumber() (uint16, bool) { return t.number(t.schema.Track, false) }
func (t *CommentTag) TotalTracks() (uint16, bool) { return t.number(t.schema.Track, true) }
func (t *CommentTag) DiscNumber() (uint16, bool)  { return t.number(t.schema.Disc, false) }
func (t *CommentTag) TotalDiscs() (uint16, bool)  { return t.number(t.schema.Disc, true) }

func (t *CommentTag) SetTrackNumber(v uint16) { t.updatePair(t.schema.Track, false, &v) }
func (t *CommentTag) RemoveTrackNumber()      { t.updatePair(t.schema.Track, false, nil) }
func (t *CommentTag) SetTotalTracks(v uint16) { t.updatePair(t.schema.Track, true, &v) }
func (t *CommentTag) RemoveTotalTracks()      { t.updatePair(t.schema.Track, true, nil) }
func (t *CommentTag) SetDiscNumber(v uint16)  { t.updatePair(t.schema.Disc, false, &v) }
func (t *CommentTag) RemoveDiscNumber()       { t.updatePair(t.schema.Disc, false, nil) }
func (t *CommentTag) SetTotalDiscs(v uint16)  { t.updatePair(t.schema.Disc, true, &v) }
func (t *CommentTag) RemoveTotalDiscs()       { t.updatePair(t.schema.Disc, true, nil) }

// supportsPair reports whether one side of a pair is both mapped to a key
// and part of the supported field set.
func (t *CommentTag) supportsPair(nf NumberField, total bool) bool {
	return nf.mapped() && t.Supports(nf.field(total))
}

func (t *CommentTag) number(nf NumberField, total bool) (uint16, bool) {
	if !t.supportsPair(nf, total) {
		return 0, false
	}
	p, _ := t.pair(nf)
	if total {
		return p.Total, p.HasTotal
	}
	return p.Number, p.HasNumber
}

// pair reads a number and its total. A dedicated total key wins over a
// total packed into the number.
func (t *CommentTag) pair(nf NumberField) (types.Pair, []error) {
	var errs []error
	var p types.Pair

	if v, ok := t.comments.First(nf.Number); ok {
		var err error
		p, err = types.ParsePair(v)
		if err != nil {
			errs = append(errs, t.malformed(nf.Number, nf.NumberField, v, err))
		}
	}

	if v, key, ok := t.comments.FirstOf(nf.Totals...); ok {
		n, err := types.ParseUint16(v)
		if err != nil {
			errs = append(errs, t.malformed(key, nf.TotalField, v, err))
		} else {
			p.Total, p.HasTotal = n, true
		}
	}

	return p, errs
}

// updatePair sets or clears one side of a pair and writes it back. With
// total keys the number is written plain and the total under the first
// total key; otherwise the pair is written packed, keeping any total
// already packed there.
func (t *CommentTag) updatePair(nf NumberField, total bool, v *uint16) {
	if !t.supportsPair(nf, total) {
		return
	}
	p, _ := t.pair(nf)
	switch {
	case total && v != nil:
		p.Total, p.HasTotal = *v, true
	case total:
		p.Total, p.HasTotal = 0, false
	case v != nil:
		p.Number, p.HasNumber = *v, true
	default:
		p.Number, p.HasNumber = 0, false
	}

	if len(nf.Totals) == 0 {
		if p.IsZero() {
			t.comments.Remove(nf.Number)
			return
		}
		t.comments.set(nf.Number, p.String())
		return
	}

	if p.HasNumber {
		t.comments.set(nf.Number, strconv.FormatUint(uint64(p.Number), 10))
	} else {
		t.comments.Remove(nf.Number)
	}
	if p.HasTotal {
		t.comments.Remove(nf.Totals[1:]...)
		t.comments.set(nf.Totals[0], strconv.FormatUint(uint64(p.Total), 10))
	} else {
		t.comments.Remove(nf.Totals...)
	}
}
