package types

import "strings"

// Field names one logical metadata field of the canonical record.
type Field int

const (
	FieldTitle Field = iota
	FieldArtist
	FieldAlbum
	FieldAlbumArtist
	FieldYear
	FieldTrackNumber
	FieldTotalTracks
	FieldDiscNumber
	FieldTotalDiscs
	FieldGenre
	FieldComposer
	FieldComment
	FieldAlbumCover
	FieldDuration
)

var fieldNames = [...]string{
	FieldTitle:       "title",
	FieldArtist:      "artist",
	FieldAlbum:       "album",
	FieldAlbumArtist: "album_artist",
	FieldYear:        "year",
	FieldTrackNumber: "track_number",
	FieldTotalTracks: "total_tracks",
	FieldDiscNumber:  "disc_number",
	FieldTotalDiscs:  "total_discs",
	FieldGenre:       "genre",
	FieldComposer:    "composer",
	FieldComment:     "comment",
	FieldAlbumCover:  "album_cover",
	FieldDuration:    "duration",
}

// AllFields returns every logical field in canonical order.
//
// Conversions walk fields in this order, which keeps them deterministic.
func AllFields() []Field {
	fields := make([]Field, len(fieldNames))
	for i := range fieldNames {
		fields[i] = Field(i)
	}
	return fields
}

// String returns the snake_case name of the field.
func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return "unknown"
	}
	return fieldNames[f]
}

// Writable reports whether the field is ever written to a file.
// Duration is informational only.
func (f Field) Writable() bool {
	return f != FieldDuration
}

// ParseField resolves a field from its name. Dashes, spaces and case are ignored.
func ParseField(name string) (Field, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.NewReplacer("-", "_", " ", "_").Replace(name)
	for i, n := range fieldNames {
		if n == name || strings.ReplaceAll(n, "_", "") == name {
			return Field(i), true
		}
	}
	switch name {
	case "track":
		return FieldTrackNumber, true
	case "disc":
		return FieldDiscNumber, true
	case "cover":
		return FieldAlbumCover, true
	}
	return 0, false
}

// FieldSet is a set of supported fields.
type FieldSet map[Field]struct{}

// NewFieldSet builds a set from the given fields.
func NewFieldSet(fields ...Field) FieldSet {
	s := make(FieldSet, len(fields))
	for _, f := range fields {
		s[f] = struct{}{}
	}
	return s
}

// Has reports whether f is in the set.
func (s FieldSet) Has(f Field) bool {
	_, ok := s[f]
	return ok
}
