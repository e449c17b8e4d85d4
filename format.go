package audiotag

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/sirupsen/logrus"

	"github.com/simonhull/audiotag/internal/types"
)

// TagType identifies a concrete tagging scheme.
type TagType = types.TagType

// Re-export all tag type constants.
const (
	TagTypeUnknown = types.TagTypeUnknown
	TagTypeID3v2   = types.TagTypeID3v2
	TagTypeMP4     = types.TagTypeMP4
	TagTypeFLAC    = types.TagTypeFLAC
	TagTypeVorbis  = types.TagTypeVorbis
)

// ParseTagType resolves a tag type from a name such as "mp3" or "vorbis".
func ParseTagType(name string) (TagType, bool) {
	return types.ParseTagType(name)
}

// Detect determines the tag type of the file at path.
//
// Magic bytes are checked first; the file extension is the fallback for
// streams the sniffer does not recognize, such as an MP3 without any tag.
// It returns UnsupportedFormatError when neither matches.
func Detect(path string, opts ...Option) (TagType, error) {
	cfg := newConfig(opts)
	log := cfg.Log().WithField("path", path)

	f, err := os.Open(path)
	if err != nil {
		return TagTypeUnknown, &IoError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	tt, reason := sniff(f)
	if tt != TagTypeUnknown {
		log.WithFields(logrus.Fields{"tag": tt, "method": "magic"}).Debug("detected tag type")
		return tt, nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	if tt = types.TagTypeForExtension(ext); tt != TagTypeUnknown {
		log.WithFields(logrus.Fields{"tag": tt, "method": "extension"}).Debug("detected tag type")
		return tt, nil
	}

	if ext == "" {
		ext = "none"
	}
	return TagTypeUnknown, &UnsupportedFormatError{
		Path:   path,
		Reason: "unrecognized content (" + reason + ") and extension " + ext,
	}
}

// sniff maps the container reported by the magic-byte sniffer to a tag type.
func sniff(r io.ReadSeeker) (TagType, string) {
	format, fileType, err := tag.Identify(r)
	switch {
	case errors.Is(err, tag.ErrNoTagsFound):
		return TagTypeUnknown, "no known signature"
	case err != nil:
		return TagTypeUnknown, err.Error()
	}

	switch fileType {
	case tag.MP3:
		return TagTypeID3v2, ""
	case tag.M4A, tag.M4B, tag.M4P, tag.ALAC:
		return TagTypeMP4, ""
	case tag.FLAC:
		return TagTypeFLAC, ""
	case tag.OGG:
		return TagTypeVorbis, ""
	case tag.UnknownFileType:
		// ftyp with a brand the sniffer does not name
		if format == tag.MP4 {
			return TagTypeMP4, ""
		}
	}
	return TagTypeUnknown, "unsupported " + string(format) + " " + string(fileType) + " stream"
}
