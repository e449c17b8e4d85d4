package types

import (
	"errors"
	"fmt"
)

// IoError is returned when a file cannot be opened, read, seeked or written.
type IoError struct {
	Err  error
	Op   string // "open", "read", "write", "truncate", "stat"
	Path string
}

func (e *IoError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Path, e.Op, e.Err)
}

func (e *IoError) Unwrap() error { return e.Err }

// ParseError is returned when a tag parser or serializer rejects the byte stream.
type ParseError struct {
	Err  error
	Path string
	Type TagType
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: invalid %s tag: %v", e.Path, e.Type, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// OutOfBoundsError is returned when attempting to read beyond file bounds.
type OutOfBoundsError struct {
	Path   string
	What   string
	Offset int64
	Length int
	Size   int64
}

func (e *OutOfBoundsError) Error() string {
	if e.Offset >= e.Size {
		return fmt.Sprintf("%s: offset %d out of bounds (file size: %d) while reading %s",
			e.Path, e.Offset, e.Size, e.What)
	}
	return fmt.Sprintf("%s: read of %d bytes at offset %d would exceed file size %d while reading %s",
		e.Path, e.Length, e.Offset, e.Size, e.What)
}

// UnsupportedFormatError is returned when no adapter handles a file or tag type.
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Path == "" {
		return "unsupported format: " + e.Reason
	}
	return fmt.Sprintf("%s: unsupported format: %s", e.Path, e.Reason)
}

// CorruptedFileError is returned when container structure is invalid.
type CorruptedFileError struct {
	Path   string
	Reason string
	Offset int64
}

func (e *CorruptedFileError) Error() string {
	return fmt.Sprintf("%s: corrupted file at offset %d: %s", e.Path, e.Offset, e.Reason)
}

// ErrInvalidNumber is wrapped by MalformedFieldError when text is not a number.
var ErrInvalidNumber = errors.New("not a valid number")

// ErrOutOfRange is wrapped by MalformedFieldError when a number does not fit its field.
var ErrOutOfRange = errors.New("number out of range")

// MalformedFieldError reports a native field whose text does not parse as
// its expected type. The field reads as absent; the rest of the tag is intact.
type MalformedFieldError struct {
	Err   error
	Key   string // native key, e.g. "TRCK" or "TRACKNUMBER"
	Value string
	Field Field
	Type  TagType
}

func (e *MalformedFieldError) Error() string {
	return fmt.Sprintf("%s %s (%s): malformed value %q: %v", e.Type, e.Key, e.Field, e.Value, e.Err)
}

func (e *MalformedFieldError) Unwrap() error { return e.Err }

// UnsupportedWriteError indicates a write cannot be performed for this stream.
type UnsupportedWriteError struct {
	Reason string
	Type   TagType
}

func (e *UnsupportedWriteError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("write not supported for %s: %s", e.Type, e.Reason)
	}
	return fmt.Sprintf("write not supported for %s", e.Type)
}

// Warning represents a non-fatal issue encountered while reading a tag.
//
// Warnings indicate problems that don't prevent metadata extraction but
// may indicate corrupted or unusual data. Examples include:
//   - A numeric field that does not parse
//   - A picture block that cannot be decoded
//   - A comment without a '=' separator
type Warning struct {
	// Stage where the warning occurred
	Stage string // "field", "picture", "comment"

	// Warning message
	Message string

	// File offset where the issue occurred (0 if not applicable)
	Offset int64
}

// String returns a human-readable warning message.
func (w Warning) String() string {
	if w.Offset > 0 {
		return fmt.Sprintf("%s (at offset %d): %s", w.Stage, w.Offset, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}
