package testutil

import (
	"bytes"
	"encoding/binary"
)

// FLAC sample parameters of the STREAMINFO block built by FLAC.
const (
	FLACSampleRate   = 44100
	FLACTotalSamples = 441000 // ten seconds
)

// FLAC returns a FLAC stream with STREAMINFO, a VORBIS_COMMENT block
// holding comments, a PADDING block and some frame bytes.
func FLAC(comments ...string) []byte {
	buf := &bytes.Buffer{}
	buf.WriteString("fLaC")

	// STREAMINFO: type 0, not last, 34 bytes
	buf.Write([]byte{0x00, 0x00, 0x00, 0x22})
	_ = binary.Write(buf, binary.BigEndian, uint16(4096)) // min block size
	_ = binary.Write(buf, binary.BigEndian, uint16(4096)) // max block size
	buf.Write(make([]byte, 6))                            // min and max frame size

	// [sample_rate(20)] [channels-1(3)] [bits-1(5)] [total_samples(36)]
	packed := uint64(FLACSampleRate)<<44 | uint64(1)<<41 | uint64(15)<<36 | uint64(FLACTotalSamples)
	_ = binary.Write(buf, binary.BigEndian, packed)
	buf.Write(make([]byte, 16)) // MD5

	// VORBIS_COMMENT: type 4, not last
	body := CommentBody("reference libFLAC 1.4.3", comments...)
	writeBlockHeader(buf, 4, false, len(body))
	buf.Write(body)

	// PADDING: type 1, last
	writeBlockHeader(buf, 1, true, 64)
	buf.Write(make([]byte, 64))

	buf.Write(FLACFrames())
	return buf.Bytes()
}

// FLACFrames returns the bytes FLAC appends after the metadata blocks.
func FLACFrames() []byte {
	frames := bytes.Repeat([]byte{0xFF, 0xF8, 0x69, 0x08, 0x00, 0x00}, 32)
	return frames
}

func writeBlockHeader(buf *bytes.Buffer, blockType byte, last bool, length int) {
	if last {
		blockType |= 0x80
	}
	buf.Write([]byte{blockType, byte(length >> 16), byte(length >> 8), byte(length)})
}
