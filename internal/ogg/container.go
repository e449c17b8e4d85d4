// Package ogg implements the comment-header adapter for Ogg Vorbis and
// Ogg Opus streams, including the page codec needed to rewrite headers.
package ogg

import (
	"bytes"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// Page header flags.
const (
	flagContinued = 0x01
	flagBOS       = 0x02
	flagEOS       = 0x04
)

// pageHeaderSize is the fixed part of a page header, before the segment table.
const pageHeaderSize = 27

// maxSegments is the most lacing values a page can carry.
const maxSegments = 255

// Page represents an Ogg page.
//
// An Ogg page is the fundamental unit of the Ogg container format.
// Each page contains a header, a segment table and payload data.
type Page struct {
	Segments        []byte // Lacing values; a value below 255 ends a packet
	Data            []byte // Page payload (one or more packet fragments)
	Offset          int64  // Position of the page in the file
	Size            int64  // Total encoded size of the page
	GranulePosition int64  // Position in samples, -1 when no packet ends here
	SerialNumber    uint32 // Logical bitstream identifier
	SequenceNumber  uint32 // Page sequence number within the logical stream
	HeaderType      byte   // Bit flags: 0x01=continued, 0x02=BOS, 0x04=EOS
}

// readPage reads and checksums the Ogg page at the given offset.
func readPage(sr *binary.SafeReader, offset int64) (*Page, error) {
	magic, err := sr.Bytes(offset, 4, "Ogg magic")
	if err != nil {
		return nil, err
	}
	if string(magic) != "OggS" {
		return nil, &types.CorruptedFileError{Path: sr.Path(), Reason: "missing OggS capture pattern", Offset: offset}
	}

	version, err := binary.Read[uint8](sr, offset+4, "version")
	if err != nil {
		return nil, err
	}
	if version != 0 {
		return nil, &types.CorruptedFileError{Path: sr.Path(), Reason: "unsupported Ogg version", Offset: offset}
	}

	headerType, err := binary.Read[uint8](sr, offset+5, "header type")
	if err != nil {
		return nil, err
	}
	granule, err := binary.ReadLE[uint64](sr, offset+6, "granule position")
	if err != nil {
		return nil, err
	}
	serial, err := binary.ReadLE[uint32](sr, offset+14, "serial number")
	if err != nil {
		return nil, err
	}
	sequence, err := binary.ReadLE[uint32](sr, offset+18, "sequence number")
	if err != nil {
		return nil, err
	}
	checksum, err := binary.ReadLE[uint32](sr, offset+22, "checksum")
	if err != nil {
		return nil, err
	}
	segmentCount, err := binary.Read[uint8](sr, offset+26, "segment count")
	if err != nil {
		return nil, err
	}

	// Each lacing value is the size of a segment, 0-255
	segments, err := sr.Bytes(offset+pageHeaderSize, int(segmentCount), "segment table")
	if err != nil {
		return nil, err
	}
	dataSize := 0
	for _, seg := range segments {
		dataSize += int(seg)
	}
	dataOffset := offset + pageHeaderSize + int64(segmentCount)
	data, err := sr.Bytes(dataOffset, dataSize, "page data")
	if err != nil {
		return nil, err
	}

	page := &Page{
		HeaderType:      headerType,
		GranulePosition: int64(granule),
		SerialNumber:    serial,
		SequenceNumber:  sequence,
		Segments:        segments,
		Data:            data,
		Offset:          offset,
		Size:            dataOffset + int64(dataSize) - offset,
	}

	if sum := crc(page.Marshal(), 0); sum != checksum {
		return nil, &types.CorruptedFileError{Path: sr.Path(), Reason: "page checksum mismatch", Offset: offset}
	}

	return page, nil
}

// Marshal encodes the page with a freshly computed checksum.
func (p *Page) Marshal() []byte {
	var buf bytes.Buffer
	buf.Grow(pageHeaderSize + len(p.Segments) + len(p.Data))

	sw := binary.NewSafeWriter(&buf)
	_ = sw.WriteString("OggS")
	_ = binary.Write[uint8](sw, 0)
	_ = binary.Write(sw, p.HeaderType)
	_ = binary.WriteLE(sw, uint64(p.GranulePosition))
	_ = binary.WriteLE(sw, p.SerialNumber)
	_ = binary.WriteLE(sw, p.SequenceNumber)
	_ = binary.WriteLE[uint32](sw, 0) // checksum placeholder
	_ = binary.Write(sw, uint8(len(p.Segments)))
	_ = sw.WriteBytes(p.Segments)
	_ = sw.WriteBytes(p.Data)

	out := buf.Bytes()
	sum := crc(out, 0)
	out[22] = byte(sum)
	out[23] = byte(sum >> 8)
	out[24] = byte(sum >> 16)
	out[25] = byte(sum >> 24)
	return out
}

// endsPacket reports whether any packet finishes on this page.
func (p *Page) endsPacket() bool {
	for _, seg := range p.Segments {
		if seg < maxSegments {
			return true
		}
	}
	return false
}

// pageReader walks the pages of a file in order.
type pageReader struct {
	sr     *binary.SafeReader
	offset int64
}

func newPageReader(sr *binary.SafeReader) *pageReader {
	return &pageReader{sr: sr}
}

// next returns the next page, or nil at the end of the file.
func (r *pageReader) next() (*Page, error) {
	if r.offset >= r.sr.Size() {
		return nil, nil
	}
	page, err := readPage(r.sr, r.offset)
	if err != nil {
		return nil, err
	}
	r.offset += page.Size
	return page, nil
}

// lacing returns the lacing values of a packet of the given length.
// A packet whose length is a multiple of 255 ends with a zero value.
func lacing(n int) []byte {
	values := make([]byte, 0, n/maxSegments+1)
	for ; n >= maxSegments; n -= maxSegments {
		values = append(values, maxSegments)
	}
	return append(values, byte(n))
}

// paginate lays packets out on pages of one logical stream, starting at
// the given sequence number. Pages where a packet ends carry granule 0,
// as header pages do; pages where none ends carry -1.
func paginate(packets [][]byte, serial, sequence uint32) []*Page {
	var pages []*Page
	page := &Page{SerialNumber: serial, SequenceNumber: sequence}

	flush := func(midPacket bool) {
		page.GranulePosition = -1
		if page.endsPacket() {
			page.GranulePosition = 0
		}
		pages = append(pages, page)
		sequence++
		page = &Page{SerialNumber: serial, SequenceNumber: sequence}
		if midPacket {
			page.HeaderType = flagContinued
		}
	}

	for _, packet := range packets {
		pos := 0
		values := lacing(len(packet))
		for i, v := range values {
			if len(page.Segments) == maxSegments {
				flush(i > 0)
			}
			page.Segments = append(page.Segments, v)
			page.Data = append(page.Data, packet[pos:pos+int(v)]...)
			pos += int(v)
		}
	}
	if len(page.Segments) > 0 {
		flush(false)
	}
	return pages
}

// crcTable is the lookup table for the Ogg CRC-32: polynomial 0x04c11db7,
// no reflection, zero initial value and no final xor.
var crcTable = func() [256]uint32 {
	var t [256]uint32
	for i := range t {
		r := uint32(i) << 24
		for k := 0; k < 8; k++ {
			if r&0x80000000 != 0 {
				r = r<<1 ^ 0x04c11db7
			} else {
				r <<= 1
			}
		}
		t[i] = r
	}
	return t
}()

// crc computes the Ogg page checksum of b, treating the four checksum
// bytes at 22..25 as zero.
func crc(b []byte, sum uint32) uint32 {
	for i, c := range b {
		if i >= 22 && i < 26 {
			c = 0
		}
		sum = sum<<8 ^ crcTable[byte(sum>>24)^c]
	}
	return sum
}
