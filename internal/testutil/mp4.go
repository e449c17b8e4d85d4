package testutil

import (
	"bytes"
	"encoding/binary"
)

// Movie header values of the MP4 fixtures: five seconds at 1 kHz.
const (
	MP4Timescale = 1000
	MP4Duration  = 5000
)

// MP4Payload is the media data every MP4 fixture carries in mdat.
var MP4Payload = []byte("mp4 sample data for chunk offset checks")

// MP4Item is one ilst entry: an atom name holding a single data box.
type MP4Item struct {
	Name  string
	Class uint32 // 0 implicit, 1 UTF-8, 13 JPEG, 14 PNG
	Data  []byte
}

// MP4Text returns a UTF-8 item such as ©nam.
func MP4Text(name, v string) MP4Item {
	return MP4Item{Name: name, Class: 1, Data: []byte(v)}
}

// MP4Number returns a trkn or disk item.
func MP4Number(name string, n, total uint16) MP4Item {
	b := make([]byte, 8)
	binary.BigEndian.PutUint16(b[2:], n)
	binary.BigEndian.PutUint16(b[4:], total)
	return MP4Item{Name: name, Data: b}
}

// MP4Cover returns a covr item typed as JPEG.
func MP4Cover(data []byte) MP4Item {
	return MP4Item{Name: "covr", Class: 13, Data: data}
}

// MP4 returns an M4A file with moov (including ilst) ahead of mdat.
func MP4(items ...MP4Item) []byte {
	return mp4File(true, true, items)
}

// MP4MdatFirst returns an M4A file whose mdat precedes moov.
func MP4MdatFirst(items ...MP4Item) []byte {
	return mp4File(false, true, items)
}

// MP4NoIlst returns an M4A file whose moov carries no metadata.
func MP4NoIlst() []byte {
	return mp4File(true, false, nil)
}

func mp4File(moovFirst, withIlst bool, items []MP4Item) []byte {
	ftyp := box("ftyp", []byte("M4A "), u32(0), []byte("M4A mp42isom"))
	mdat := box("mdat", MP4Payload)

	build := func(chunk uint32) []byte {
		stco := box("stco", u32(0), u32(1), u32(chunk))
		trak := box("trak", box("mdia", box("minf", box("stbl", stco))))
		children := [][]byte{mvhd(), trak}
		if withIlst {
			var ilst bytes.Buffer
			for _, it := range items {
				ilst.Write(box(it.Name, box("data", u32(it.Class), u32(0), it.Data)))
			}
			hdlr := box("hdlr", u32(0), u32(0), []byte("mdir"), []byte("appl"), make([]byte, 8), []byte{0})
			meta := box("meta", u32(0), hdlr, box("ilst", ilst.Bytes()))
			children = append(children, box("udta", meta))
		}
		return box("moov", children...)
	}

	if !moovFirst {
		chunk := uint32(len(ftyp) + 8)
		return bytes.Join([][]byte{ftyp, mdat, build(chunk)}, nil)
	}
	moovLen := len(build(0))
	chunk := uint32(len(ftyp) + moovLen + 8)
	return bytes.Join([][]byte{ftyp, build(chunk), mdat}, nil)
}

func mvhd() []byte {
	b := make([]byte, 100)
	binary.BigEndian.PutUint32(b[12:], MP4Timescale)
	binary.BigEndian.PutUint32(b[16:], MP4Duration)
	binary.BigEndian.PutUint32(b[20:], 0x00010000) // rate 1.0
	binary.BigEndian.PutUint16(b[24:], 0x0100)     // volume 1.0
	binary.BigEndian.PutUint32(b[96:], 2)          // next track ID
	return box("mvhd", b)
}

func box(typ string, payloads ...[]byte) []byte {
	size := 8
	for _, p := range payloads {
		size += len(p)
	}
	out := make([]byte, 0, size)
	out = binary.BigEndian.AppendUint32(out, uint32(size))
	out = append(out, typ...)
	for _, p := range payloads {
		out = append(out, p...)
	}
	return out
}

func u32(n uint32) []byte {
	return binary.BigEndian.AppendUint32(nil, n)
}
