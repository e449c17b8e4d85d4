package audiotag

import (
	"github.com/simonhull/audiotag/internal/types"
)

// IoError is returned when a file cannot be opened, read, seeked or written.
type IoError = types.IoError

// ParseError is returned when a tag parser or serializer rejects the byte stream.
type ParseError = types.ParseError

// UnsupportedFormatError is returned when no adapter handles a file or tag type.
type UnsupportedFormatError = types.UnsupportedFormatError

// MalformedFieldError reports a native field whose text does not parse.
// Outside strict mode it surfaces as a Warning and the field reads as absent.
type MalformedFieldError = types.MalformedFieldError

// UnsupportedWriteError indicates a write cannot be performed for a stream.
type UnsupportedWriteError = types.UnsupportedWriteError

// CorruptedFileError is returned when container structure is invalid.
type CorruptedFileError = types.CorruptedFileError

// OutOfBoundsError is returned when a read would run past the end of a file.
type OutOfBoundsError = types.OutOfBoundsError

// Warning represents a non-fatal issue found while reading a tag.
type Warning = types.Warning

// Sentinel errors wrapped by MalformedFieldError.
var (
	ErrInvalidNumber = types.ErrInvalidNumber
	ErrOutOfRange    = types.ErrOutOfRange
)
