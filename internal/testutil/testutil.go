// Package testutil builds small but structurally valid audio files for tests.
package testutil

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes data to name inside a fresh temporary directory and
// returns the full path.
func WriteFile(tb testing.TB, name string, data []byte) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		tb.Fatalf("write fixture: %v", err)
	}
	return path
}

// ReadFile reads a whole file or fails the test.
func ReadFile(tb testing.TB, path string) []byte {
	tb.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		tb.Fatalf("read fixture: %v", err)
	}
	return data
}

// JPEG returns a tiny byte string that sniffs as image/jpeg.
func JPEG() []byte {
	return []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0x01, 0x01, 0x00, 0xFF, 0xD9}
}

// PNG returns a tiny byte string that sniffs as image/png.
func PNG() []byte {
	return []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
}

// MPEGAudio returns three silent MPEG-1 Layer III frames (128 kbps,
// 44.1 kHz) with no tag.
func MPEGAudio() []byte {
	const frameLen = 417
	var buf bytes.Buffer
	for k := 0; k < 3; k++ {
		frame := make([]byte, frameLen)
		copy(frame, []byte{0xFF, 0xFB, 0x90, 0x00})
		buf.Write(frame)
	}
	return buf.Bytes()
}

// CommentBody encodes a Vorbis comment body: vendor, count, entries.
func CommentBody(vendor string, comments ...string) []byte {
	var buf bytes.Buffer
	le32 := func(n int) { _ = binary.Write(&buf, binary.LittleEndian, uint32(n)) }
	le32(len(vendor))
	buf.WriteString(vendor)
	le32(len(comments))
	for _, c := range comments {
		le32(len(c))
		buf.WriteString(c)
	}
	return buf.Bytes()
}

// ID3v1 returns a 128-byte ID3v1.1 tag.
func ID3v1(title, artist, album, year string, track byte) []byte {
	b := make([]byte, 128)
	copy(b, "TAG")
	copy(b[3:33], title)
	copy(b[33:63], artist)
	copy(b[63:93], album)
	copy(b[93:97], year)
	b[126] = track
	b[127] = 255 // no genre
	return b
}
