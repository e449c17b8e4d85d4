package audiotag

import (
	"github.com/simonhull/audiotag/internal/flac"
	"github.com/simonhull/audiotag/internal/id3"
	"github.com/simonhull/audiotag/internal/mp4"
	"github.com/simonhull/audiotag/internal/ogg"
	"github.com/simonhull/audiotag/internal/types"
)

// Tag is the format-agnostic capability set every adapter implements.
type Tag = types.Tag

// Concrete adapters, for callers that need native keys.
//
//	if t, ok := tag.(*audiotag.ID3Tag); ok {
//		isrc, _ := t.TextFrame("TSRC")
//	}
type (
	ID3Tag  = id3.Tag
	MP4Tag  = mp4.Tag
	FLACTag = flac.Tag
	OggTag  = ogg.Tag
)

// Field names one logical metadata field.
type Field = types.Field

// Re-export all field constants.
const (
	FieldTitle       = types.FieldTitle
	FieldArtist      = types.FieldArtist
	FieldAlbum       = types.FieldAlbum
	FieldAlbumArtist = types.FieldAlbumArtist
	FieldYear        = types.FieldYear
	FieldTrackNumber = types.FieldTrackNumber
	FieldTotalTracks = types.FieldTotalTracks
	FieldDiscNumber  = types.FieldDiscNumber
	FieldTotalDiscs  = types.FieldTotalDiscs
	FieldGenre       = types.FieldGenre
	FieldComposer    = types.FieldComposer
	FieldComment     = types.FieldComment
	FieldAlbumCover  = types.FieldAlbumCover
	FieldDuration    = types.FieldDuration
)

// AllFields returns every logical field in canonical order.
func AllFields() []Field {
	return types.AllFields()
}

// ParseField resolves a field from its snake_case name.
func ParseField(name string) (Field, bool) {
	return types.ParseField(name)
}

// Record is the format-neutral snapshot used between adapters.
type Record = types.Record

// ToRecord copies every field the tag supports into a new Record.
func ToRecord(t Tag) *Record {
	return types.ToRecord(t)
}

// Pair is a number with an optional total, as in "3/12".
type Pair = types.Pair

// SplitPair splits a packed "number/total" string, dropping sides that do
// not parse.
func SplitPair(s string) Pair {
	return types.SplitPair(s)
}

// ParsePair is SplitPair that also reports which side failed to parse.
func ParsePair(s string) (Pair, error) {
	return types.ParsePair(s)
}

// Ptr returns a pointer to v, for building records by hand.
//
//	r := &audiotag.Record{Title: audiotag.Ptr("Song"), Year: audiotag.Ptr(2024)}
func Ptr[T any](v T) *T {
	return types.Ptr(v)
}
