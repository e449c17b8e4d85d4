// Package id3 implements the ID3v2 adapter for MPEG audio files on top of
// github.com/bogem/id3v2.
package id3

import (
	"fmt"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// headerSize is the length of an ID3v2 header and of its optional footer.
const headerSize = 10

// flagFooter marks an ID3v2.4 tag that ends with a footer.
const flagFooter = 0x10

// tagSize returns the number of bytes the ID3v2 tag at the start of the
// file occupies, header and footer included, or 0 if there is none.
func tagSize(sr *binary.SafeReader) (int64, error) {
	if sr.Size() < headerSize {
		return 0, nil
	}
	buf, err := sr.Bytes(0, headerSize, "ID3v2 header")
	if err != nil {
		return 0, err
	}
	if string(buf[0:3]) != "ID3" {
		return 0, nil
	}

	size := int64(headerSize) + int64(decodeSynchsafe(buf[6:10]))
	if buf[5]&flagFooter != 0 {
		size += headerSize
	}
	if size > sr.Size() {
		return 0, &types.CorruptedFileError{
			Path:   sr.Path(),
			Reason: fmt.Sprintf("ID3v2 tag size %d exceeds file size %d", size, sr.Size()),
		}
	}
	return size, nil
}

// decodeSynchsafe decodes a synchsafe integer (7 bits per byte).
// ID3v2 uses 7-bit encoding where bit 7 is always 0.
func decodeSynchsafe(b []byte) uint32 {
	if len(b) != 4 {
		return 0
	}
	return uint32(b[0]&0x7F)<<21 |
		uint32(b[1]&0x7F)<<14 |
		uint32(b[2]&0x7F)<<7 |
		uint32(b[3]&0x7F)
}

// hasID3v1 reports whether the file ends with a 128-byte ID3v1 tag.
func hasID3v1(sr *binary.SafeReader) bool {
	if sr.Size() < 128 {
		return false
	}
	magic, err := sr.Bytes(sr.Size()-128, 3, "ID3v1 magic")
	return err == nil && string(magic) == "TAG"
}
