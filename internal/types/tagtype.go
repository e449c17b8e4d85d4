package types

import "strings"

// TagType identifies a concrete tagging scheme.
//
// Several container formats can share one tagging scheme: Ogg Vorbis and
// Ogg Opus both carry a Vorbis comment header and map to TagTypeVorbis.
type TagType int

const (
	// TagTypeUnknown represents an unknown or unsupported tagging scheme.
	TagTypeUnknown TagType = iota
	// TagTypeID3v2 represents frame-based ID3v2 tags (MP3).
	TagTypeID3v2
	// TagTypeMP4 represents iTunes-style atom tags (M4A, M4B, M4P).
	TagTypeMP4
	// TagTypeFLAC represents the Vorbis comment and picture blocks of a native FLAC stream.
	TagTypeFLAC
	// TagTypeVorbis represents the comment header of an Ogg Vorbis or Ogg Opus stream.
	TagTypeVorbis
)

// TagTypes lists every concrete tag type in a fixed order.
func TagTypes() []TagType {
	return []TagType{TagTypeID3v2, TagTypeMP4, TagTypeFLAC, TagTypeVorbis}
}

// String returns the display name of the tag type.
func (t TagType) String() string {
	switch t {
	case TagTypeID3v2:
		return "ID3v2"
	case TagTypeMP4:
		return "MP4"
	case TagTypeFLAC:
		return "FLAC"
	case TagTypeVorbis:
		return "Vorbis"
	case TagTypeUnknown:
		return "Unknown"
	default:
		return "Unknown"
	}
}

// Extensions returns common file extensions for this tag type.
func (t TagType) Extensions() []string {
	switch t {
	case TagTypeID3v2:
		return []string{".mp3"}
	case TagTypeMP4:
		return []string{".m4a", ".m4b", ".m4p", ".mp4", ".alac"}
	case TagTypeFLAC:
		return []string{".flac"}
	case TagTypeVorbis:
		return []string{".ogg", ".oga", ".opus"}
	case TagTypeUnknown:
		return nil
	default:
		return nil
	}
}

// ParseTagType resolves a tag type from its display name or a common
// extension, ignoring case and a leading dot.
func ParseTagType(name string) (TagType, bool) {
	name = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "."))
	switch name {
	case "id3", "id3v2", "mp3":
		return TagTypeID3v2, true
	case "mp4", "m4a", "m4b", "m4p", "alac":
		return TagTypeMP4, true
	case "flac":
		return TagTypeFLAC, true
	case "vorbis", "ogg", "oga", "opus":
		return TagTypeVorbis, true
	}
	return TagTypeUnknown, false
}

// TagTypeForExtension returns the tag type claiming the given extension.
func TagTypeForExtension(ext string) TagType {
	ext = strings.ToLower(ext)
	for _, t := range TagTypes() {
		for _, e := range t.Extensions() {
			if e == ext {
				return t
			}
		}
	}
	return TagTypeUnknown
}
