package ogg

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	binutil "github.com/simonhull/audiotag/internal/binary"
)

// codec identifies the audio codec of an Ogg logical stream.
type codec int

const (
	codecUnknown codec = iota
	codecVorbis
	codecOpus
)

var (
	vorbisCommentMagic = []byte("\x03vorbis")
	opusTagsMagic      = []byte("OpusTags")
)

// errUnknownCodec is returned for Ogg streams other than Vorbis and Opus.
var errUnknownCodec = errors.New("unsupported Ogg codec (only Vorbis and Opus carry comment headers here)")

// detectCodec determines the codec from the identification packet.
func detectCodec(first []byte) codec {
	switch {
	case bytes.HasPrefix(first, []byte("OpusHead")):
		return codecOpus
	case bytes.HasPrefix(first, []byte("\x01vorbis")):
		return codecVorbis
	default:
		return codecUnknown
	}
}

func (c codec) String() string {
	switch c {
	case codecVorbis:
		return "vorbis"
	case codecOpus:
		return "opus"
	default:
		return "unknown"
	}
}

// headerCount is the number of header packets before audio data:
// identification, comment and setup for Vorbis; head and tags for Opus.
func (c codec) headerCount() int {
	switch c {
	case codecVorbis:
		return 3
	case codecOpus:
		return 2
	default:
		return 0
	}
}

// commentBody strips the codec framing from a comment header packet.
func (c codec) commentBody(packet []byte) ([]byte, error) {
	magic := vorbisCommentMagic
	if c == codecOpus {
		magic = opusTagsMagic
	}
	if !bytes.HasPrefix(packet, magic) {
		return nil, fmt.Errorf("second packet is not a %s comment header", c)
	}
	return packet[len(magic):], nil
}

// commentPacket frames a comment body for this codec. Vorbis comment
// headers end with a framing bit.
func (c codec) commentPacket(body []byte) []byte {
	if c == codecOpus {
		return append(bytes.Clone(opusTagsMagic), body...)
	}
	packet := append(bytes.Clone(vorbisCommentMagic), body...)
	return append(packet, 0x01)
}

// duration converts the final granule position into playing time.
//
// Vorbis granules count samples at the stream rate. Opus granules count
// 48 kHz samples and include the pre-skip.
func (c codec) duration(id []byte, granule int64) (time.Duration, error) {
	if granule < 0 {
		return 0, errors.New("granule position not set")
	}
	var samples int64
	var rate uint32
	switch c {
	case codecVorbis:
		if len(id) < 30 {
			return 0, fmt.Errorf("identification header too short: %d bytes", len(id))
		}
		rate = binary.LittleEndian.Uint32(id[12:16])
		samples = granule
	case codecOpus:
		if len(id) < 19 {
			return 0, fmt.Errorf("OpusHead too short: %d bytes", len(id))
		}
		rate = 48000
		samples = max(granule-int64(binary.LittleEndian.Uint16(id[10:12])), 0)
	default:
		return 0, errUnknownCodec
	}
	if rate == 0 {
		return 0, errors.New("sample rate is zero")
	}
	return time.Duration(float64(samples) / float64(rate) * float64(time.Second)), nil
}

// headers holds the header packets of the first logical stream and the
// pages that carry them.
type headers struct {
	packets [][]byte
	pages   []*Page // pages of the stream up to and including the last header page
	serial  uint32
	codec   codec
}

// comment returns the comment header packet.
func (h *headers) comment() []byte {
	return h.packets[1]
}

// last returns the final header page.
func (h *headers) last() *Page {
	return h.pages[len(h.pages)-1]
}

// readHeaders collects the header packets of the first logical stream.
//
// The identification packet must fill the first page on its own, and the
// last header packet must end its page: audio data always starts on a
// fresh page in Vorbis and Opus streams.
func readHeaders(sr *binutil.SafeReader) (*headers, error) {
	pr := newPageReader(sr)
	h := &headers{}
	var current []byte
	need := 1

	for len(h.packets) < need {
		page, err := pr.next()
		if err != nil {
			return nil, err
		}
		if page == nil {
			return nil, fmt.Errorf("stream ends after %d of %d header packets", len(h.packets), need)
		}

		if len(h.pages) == 0 {
			if page.HeaderType&flagBOS == 0 {
				return nil, errors.New("first page is not a beginning-of-stream page")
			}
			h.serial = page.SerialNumber
		} else if page.SerialNumber != h.serial {
			continue
		}
		h.pages = append(h.pages, page)

		pos := 0
		for i, seg := range page.Segments {
			current = append(current, page.Data[pos:pos+int(seg)]...)
			pos += int(seg)
			if seg == maxSegments {
				continue
			}

			h.packets = append(h.packets, current)
			current = nil
			if len(h.packets) == 1 {
				h.codec = detectCodec(h.packets[0])
				if h.codec == codecUnknown {
					return nil, errUnknownCodec
				}
				need = h.codec.headerCount()
			}
			if (len(h.packets) == 1 || len(h.packets) == need) && i != len(page.Segments)-1 {
				return nil, fmt.Errorf("header packet %d shares page %d with other data", len(h.packets), page.SequenceNumber)
			}
		}
	}

	return h, nil
}

// lastGranule searches backwards from the end of the file for the last
// page of the stream and returns its granule position.
func lastGranule(sr *binutil.SafeReader, serial uint32) (int64, error) {
	size := sr.Size()

	// Search last 64KB for final page (typical max page size)
	searchStart := max(size-65536, 0)
	buf, err := sr.Bytes(searchStart, int(size-searchStart), "search region")
	if err != nil {
		return 0, err
	}

	for i := len(buf) - pageHeaderSize; i >= 0; i-- {
		if !bytes.Equal(buf[i:i+4], []byte("OggS")) {
			continue
		}
		if binary.LittleEndian.Uint32(buf[i+14:i+18]) != serial {
			continue
		}
		granule := int64(binary.LittleEndian.Uint64(buf[i+6 : i+14]))
		if granule == -1 {
			continue
		}
		return granule, nil
	}

	return 0, errors.New("could not find last Ogg page")
}

// rewrite replaces the comment header of the stream described by h in data.
//
// The identification page is kept as is. The remaining header packets are
// laid out on new pages, and every later page of the same stream is
// renumbered. Pages of other streams are copied untouched.
func rewrite(sr *binutil.SafeReader, data []byte, h *headers, comment []byte) ([]byte, error) {
	packets := append([][]byte{comment}, h.packets[2:]...)
	newPages := paginate(packets, h.serial, h.pages[0].SequenceNumber+1)

	replaced := make(map[int64]bool, len(h.pages)-1)
	for _, p := range h.pages[1:] {
		replaced[p.Offset] = true
	}
	delta := int64(len(newPages)) - int64(len(h.pages)-1)
	lastHeader := h.last().Offset

	var out bytes.Buffer
	out.Grow(len(data) + len(comment))
	emitted := false

	pr := newPageReader(sr)
	for {
		page, err := pr.next()
		if err != nil {
			return nil, err
		}
		if page == nil {
			break
		}

		switch {
		case replaced[page.Offset]:
			if !emitted {
				for _, np := range newPages {
					out.Write(np.Marshal())
				}
				emitted = true
			}
		case page.SerialNumber == h.serial && page.Offset > lastHeader && delta != 0:
			page.SequenceNumber = uint32(int64(page.SequenceNumber) + delta)
			out.Write(page.Marshal())
		default:
			out.Write(data[page.Offset : page.Offset+page.Size])
		}
	}

	return out.Bytes(), nil
}
