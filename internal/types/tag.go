package types

import (
	"os"
	"time"
)

// Tag is the capability set every format adapter implements.
//
// Getters return false when the field is absent, either because it is unset
// or because the format cannot represent it; Supports tells the two apart.
// Setters and removers for unsupported fields are silent no-ops.
//
// A Tag is not safe for concurrent mutation.
type Tag interface {
	// Type returns the concrete tagging scheme of this adapter.
	Type() TagType

	// Config returns the configuration used for artist joining and strictness.
	Config() Config
	// SetConfig replaces the configuration.
	SetConfig(cfg Config)

	// Supports reports whether the format can represent the field.
	Supports(f Field) bool

	// Warnings returns the non-fatal issues found when the tag was read.
	Warnings() []Warning

	Title() (string, bool)
	SetTitle(v string)
	RemoveTitle()

	// Artist returns all artists joined with the configured separator.
	Artist() (string, bool)
	Artists() []string
	// SetArtist stores a single artist value, replacing all others.
	SetArtist(v string)
	// SetArtists stores every artist. An empty slice removes the field.
	SetArtists(v []string)
	RemoveArtist()

	Album() (string, bool)
	SetAlbum(v string)
	RemoveAlbum()

	AlbumArtist() (string, bool)
	AlbumArtists() []string
	SetAlbumArtist(v string)
	SetAlbumArtists(v []string)
	RemoveAlbumArtist()

	Year() (int, bool)
	SetYear(v int)
	RemoveYear()

	TrackNumber() (uint16, bool)
	SetTrackNumber(v uint16)
	RemoveTrackNumber()

	TotalTracks() (uint16, bool)
	SetTotalTracks(v uint16)
	RemoveTotalTracks()

	DiscNumber() (uint16, bool)
	SetDiscNumber(v uint16)
	RemoveDiscNumber()

	TotalDiscs() (uint16, bool)
	SetTotalDiscs(v uint16)
	RemoveTotalDiscs()

	Genre() (string, bool)
	SetGenre(v string)
	RemoveGenre()

	Composer() (string, bool)
	SetComposer(v string)
	RemoveComposer()

	Comment() (string, bool)
	SetComment(v string)
	RemoveComment()

	AlbumCover() (Picture, bool)
	SetAlbumCover(p Picture)
	RemoveAlbumCover()

	// Duration is an informational hint taken from the container headers.
	// It is never written.
	Duration() (time.Duration, bool)

	// WriteToFile serializes the tag into the tag region of f, which must
	// be open for reading and writing. The caller owns f.
	WriteToFile(f *os.File) error
	// WriteToPath opens path for reading and writing and calls WriteToFile.
	WriteToPath(path string) error
}
