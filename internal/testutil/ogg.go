package testutil

import (
	"bytes"
	"encoding/binary"
)

// Stream parameters of the Ogg fixtures.
const (
	OggSerial        = 0x1234abcd
	VorbisSampleRate = 44100
	OpusPreSkip      = 312
)

// OggAudioPackets is the number of audio pages each Ogg fixture carries.
const OggAudioPackets = 3

// OggVorbis returns an Ogg Vorbis stream: identification page, a page
// holding the comment and setup headers, then three one-second audio pages.
func OggVorbis(comments ...string) []byte {
	id := make([]byte, 30)
	copy(id, "\x01vorbis")
	id[11] = 2 // channels
	binary.LittleEndian.PutUint32(id[12:], VorbisSampleRate)
	binary.LittleEndian.PutUint32(id[20:], 128000) // nominal bitrate
	id[28] = 0xb8                                  // block sizes
	id[29] = 0x01                                  // framing

	comment := append([]byte("\x03vorbis"), CommentBody("Xiph.Org libVorbis I 20200704", comments...)...)
	comment = append(comment, 0x01)

	setup := append([]byte("\x05vorbis"), bytes.Repeat([]byte{0x42}, 600)...)

	var granules []int64
	for i := 1; i <= OggAudioPackets; i++ {
		granules = append(granules, int64(i*VorbisSampleRate))
	}
	return oggStream(id, [][]byte{comment, setup}, granules)
}

// OggOpus returns an Ogg Opus stream: OpusHead page, OpusTags page, then
// three one-second audio pages.
func OggOpus(comments ...string) []byte {
	head := make([]byte, 19)
	copy(head, "OpusHead")
	head[8] = 1 // version
	head[9] = 2 // channels
	binary.LittleEndian.PutUint16(head[10:], OpusPreSkip)
	binary.LittleEndian.PutUint32(head[12:], 48000)

	tags := append([]byte("OpusTags"), CommentBody("libopus 1.4", comments...)...)

	var granules []int64
	for i := 1; i <= OggAudioPackets; i++ {
		granules = append(granules, int64(i*48000+OpusPreSkip))
	}
	return oggStream(head, [][]byte{tags}, granules)
}

func oggStream(id []byte, headers [][]byte, granules []int64) []byte {
	var out bytes.Buffer
	seq := uint32(0)

	out.Write(oggPage(0x02, 0, seq, [][]byte{id}))
	seq++
	out.Write(oggPage(0x00, 0, seq, headers))
	seq++

	for i, g := range granules {
		flags := byte(0)
		if i == len(granules)-1 {
			flags = 0x04
		}
		audio := bytes.Repeat([]byte{byte(i + 1)}, 100)
		out.Write(oggPage(flags, g, seq, [][]byte{audio}))
		seq++
	}
	return out.Bytes()
}

// oggPage encodes packets on a single page. The packets must fit in 255 segments.
func oggPage(flags byte, granule int64, seq uint32, packets [][]byte) []byte {
	var segments, data []byte
	for _, p := range packets {
		n := len(p)
		for ; n >= 255; n -= 255 {
			segments = append(segments, 255)
		}
		segments = append(segments, byte(n))
		data = append(data, p...)
	}

	page := make([]byte, 27, 27+len(segments)+len(data))
	copy(page, "OggS")
	page[5] = flags
	binary.LittleEndian.PutUint64(page[6:], uint64(granule))
	binary.LittleEndian.PutUint32(page[14:], OggSerial)
	binary.LittleEndian.PutUint32(page[18:], seq)
	page[26] = byte(len(segments))
	page = append(page, segments...)
	page = append(page, data...)

	binary.LittleEndian.PutUint32(page[22:], oggCRC(page))
	return page
}

func oggCRC(b []byte) uint32 {
	var sum uint32
	for _, c := range b {
		sum ^= uint32(c) << 24
		for k := 0; k < 8; k++ {
			if sum&0x80000000 != 0 {
				sum = sum<<1 ^ 0x04c11db7
			} else {
				sum <<= 1
			}
		}
	}
	return sum
}
