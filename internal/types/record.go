package types

import (
	"slices"
	"time"
)

// Record is a format-neutral snapshot of every logical field.
//
// A nil pointer or empty slice means the field has no value. A Record never
// references adapter storage; everything is copied in and out.
type Record struct {
	Title       *string
	Album       *string
	Genre       *string
	Composer    *string
	Comment     *string
	Year        *int
	TrackNumber *uint16
	TotalTracks *uint16
	DiscNumber  *uint16
	TotalDiscs  *uint16
	AlbumCover  *Picture
	Duration    *time.Duration

	Artists      []string
	AlbumArtists []string

	Config Config
}

// ToRecord copies every field the tag supports into a new Record.
func ToRecord(t Tag) *Record {
	r := &Record{Config: t.Config()}
	for _, f := range AllFields() {
		if !t.Supports(f) {
			continue
		}
		switch f {
		case FieldTitle:
			r.Title = optional(t.Title())
		case FieldArtist:
			r.Artists = slices.Clone(t.Artists())
		case FieldAlbum:
			r.Album = optional(t.Album())
		case FieldAlbumArtist:
			r.AlbumArtists = slices.Clone(t.AlbumArtists())
		case FieldYear:
			r.Year = optional(t.Year())
		case FieldTrackNumber:
			r.TrackNumber = optional(t.TrackNumber())
		case FieldTotalTracks:
			r.TotalTracks = optional(t.TotalTracks())
		case FieldDiscNumber:
			r.DiscNumber = optional(t.DiscNumber())
		case FieldTotalDiscs:
			r.TotalDiscs = optional(t.TotalDiscs())
		case FieldGenre:
			r.Genre = optional(t.Genre())
		case FieldComposer:
			r.Composer = optional(t.Composer())
		case FieldComment:
			r.Comment = optional(t.Comment())
		case FieldAlbumCover:
			if p, ok := t.AlbumCover(); ok {
				p = p.Clone()
				r.AlbumCover = &p
			}
		case FieldDuration:
			r.Duration = optional(t.Duration())
		}
	}
	return r
}

// ApplyTo writes every present field the tag supports. Absent fields are
// left untouched on the tag. It returns the present fields the tag could
// not represent, in canonical order.
func (r *Record) ApplyTo(t Tag) []Field {
	var dropped []Field
	for _, f := range r.Present() {
		if !f.Writable() {
			continue
		}
		if !t.Supports(f) {
			dropped = append(dropped, f)
			continue
		}
		switch f {
		case FieldTitle:
			t.SetTitle(*r.Title)
		case FieldArtist:
			t.SetArtists(slices.Clone(r.Artists))
		case FieldAlbum:
			t.SetAlbum(*r.Album)
		case FieldAlbumArtist:
			t.SetAlbumArtists(slices.Clone(r.AlbumArtists))
		case FieldYear:
			t.SetYear(*r.Year)
		case FieldTrackNumber:
			t.SetTrackNumber(*r.TrackNumber)
		case FieldTotalTracks:
			t.SetTotalTracks(*r.TotalTracks)
		case FieldDiscNumber:
			t.SetDiscNumber(*r.DiscNumber)
		case FieldTotalDiscs:
			t.SetTotalDiscs(*r.TotalDiscs)
		case FieldGenre:
			t.SetGenre(*r.Genre)
		case FieldComposer:
			t.SetComposer(*r.Composer)
		case FieldComment:
			t.SetComment(*r.Comment)
		case FieldAlbumCover:
			t.SetAlbumCover(r.AlbumCover.Clone())
		}
	}
	return dropped
}

// Has reports whether the field has a value.
func (r *Record) Has(f Field) bool {
	switch f {
	case FieldTitle:
		return r.Title != nil
	case FieldArtist:
		return len(r.Artists) > 0
	case FieldAlbum:
		return r.Album != nil
	case FieldAlbumArtist:
		return len(r.AlbumArtists) > 0
	case FieldYear:
		return r.Year != nil
	case FieldTrackNumber:
		return r.TrackNumber != nil
	case FieldTotalTracks:
		return r.TotalTracks != nil
	case FieldDiscNumber:
		return r.DiscNumber != nil
	case FieldTotalDiscs:
		return r.TotalDiscs != nil
	case FieldGenre:
		return r.Genre != nil
	case FieldComposer:
		return r.Composer != nil
	case FieldComment:
		return r.Comment != nil
	case FieldAlbumCover:
		return r.AlbumCover != nil
	case FieldDuration:
		return r.Duration != nil
	}
	return false
}

// Present returns the fields that have a value, in canonical order.
func (r *Record) Present() []Field {
	var fields []Field
	for _, f := range AllFields() {
		if r.Has(f) {
			fields = append(fields, f)
		}
	}
	return fields
}

// Artist returns the artists joined with the configured separator.
func (r *Record) Artist() (string, bool) {
	if len(r.Artists) == 0 {
		return "", false
	}
	return r.Config.JoinArtists(r.Artists), true
}

// AlbumArtist returns the album artists joined with the configured separator.
func (r *Record) AlbumArtist() (string, bool) {
	if len(r.AlbumArtists) == 0 {
		return "", false
	}
	return r.Config.JoinArtists(r.AlbumArtists), true
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	c := &Record{
		Title:        clonePtr(r.Title),
		Album:        clonePtr(r.Album),
		Genre:        clonePtr(r.Genre),
		Composer:     clonePtr(r.Composer),
		Comment:      clonePtr(r.Comment),
		Year:         clonePtr(r.Year),
		TrackNumber:  clonePtr(r.TrackNumber),
		TotalTracks:  clonePtr(r.TotalTracks),
		DiscNumber:   clonePtr(r.DiscNumber),
		TotalDiscs:   clonePtr(r.TotalDiscs),
		Duration:     clonePtr(r.Duration),
		Artists:      slices.Clone(r.Artists),
		AlbumArtists: slices.Clone(r.AlbumArtists),
		Config:       r.Config,
	}
	if r.AlbumCover != nil {
		p := r.AlbumCover.Clone()
		c.AlbumCover = &p
	}
	return c
}

// Equal reports whether both records hold the same values. Loggers are ignored.
func (r *Record) Equal(o *Record) bool {
	return r.EqualFields(o, AllFields()...) && r.Config.Equivalent(o.Config)
}

// EqualFields compares only the listed fields.
func (r *Record) EqualFields(o *Record, fields ...Field) bool {
	for _, f := range fields {
		if !r.fieldEqual(o, f) {
			return false
		}
	}
	return true
}

func (r *Record) fieldEqual(o *Record, f Field) bool {
	switch f {
	case FieldTitle:
		return ptrEqual(r.Title, o.Title)
	case FieldArtist:
		return slices.Equal(r.Artists, o.Artists)
	case FieldAlbum:
		return ptrEqual(r.Album, o.Album)
	case FieldAlbumArtist:
		return slices.Equal(r.AlbumArtists, o.AlbumArtists)
	case FieldYear:
		return ptrEqual(r.Year, o.Year)
	case FieldTrackNumber:
		return ptrEqual(r.TrackNumber, o.TrackNumber)
	case FieldTotalTracks:
		return ptrEqual(r.TotalTracks, o.TotalTracks)
	case FieldDiscNumber:
		return ptrEqual(r.DiscNumber, o.DiscNumber)
	case FieldTotalDiscs:
		return ptrEqual(r.TotalDiscs, o.TotalDiscs)
	case FieldGenre:
		return ptrEqual(r.Genre, o.Genre)
	case FieldComposer:
		return ptrEqual(r.Composer, o.Composer)
	case FieldComment:
		return ptrEqual(r.Comment, o.Comment)
	case FieldAlbumCover:
		if r.AlbumCover == nil || o.AlbumCover == nil {
			return r.AlbumCover == o.AlbumCover
		}
		return r.AlbumCover.Equal(*o.AlbumCover)
	case FieldDuration:
		return ptrEqual(r.Duration, o.Duration)
	}
	return true
}

func optional[T any](v T, ok bool) *T {
	if !ok {
		return nil
	}
	return &v
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func ptrEqual[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Ptr returns a pointer to v, for building records by hand.
func Ptr[T any](v T) *T {
	return &v
}
