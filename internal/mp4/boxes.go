// Package mp4 implements the iTunes-style atom adapter for MP4 audio
// (M4A, M4B, M4P, ALAC).
package mp4

import (
	"encoding/binary"
	"fmt"
	"io"
	"slices"
	"time"

	gomp4 "github.com/abema/go-mp4"
)

var (
	boxTrkn = gomp4.BoxType{'t', 'r', 'k', 'n'}
	boxDisk = gomp4.BoxType{'d', 'i', 's', 'k'}
	boxCovr = gomp4.BoxType{'c', 'o', 'v', 'r'}
)

// ilstPath is where iTunes metadata items live.
var ilstPath = gomp4.BoxPath{gomp4.BoxTypeMoov(), gomp4.BoxTypeUdta(), gomp4.BoxTypeMeta(), gomp4.BoxTypeIlst()}

// chunkOffsetPaths locate the sample-table boxes holding absolute file offsets.
var chunkOffsetPaths = []gomp4.BoxPath{
	{gomp4.BoxTypeMoov(), gomp4.BoxTypeTrak(), gomp4.BoxTypeMdia(), gomp4.BoxTypeMinf(), gomp4.BoxTypeStbl(), gomp4.BoxTypeStco()},
	{gomp4.BoxTypeMoov(), gomp4.BoxTypeTrak(), gomp4.BoxTypeMdia(), gomp4.BoxTypeMinf(), gomp4.BoxTypeStbl(), gomp4.BoxTypeCo64()},
}

func extract(r io.ReadSeeker, path gomp4.BoxPath) ([]*gomp4.BoxInfoWithPayload, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return gomp4.ExtractBoxWithPayload(r, nil, path)
}

// hasIlst reports whether the file carries an ilst box to write into.
func hasIlst(r io.ReadSeeker) (bool, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return false, err
	}
	boxes, err := gomp4.ExtractBox(r, nil, ilstPath)
	return len(boxes) > 0, err
}

// movieDuration reads the presentation length from mvhd.
func movieDuration(r io.ReadSeeker) (time.Duration, bool, error) {
	boxes, err := extract(r, gomp4.BoxPath{gomp4.BoxTypeMoov(), gomp4.BoxTypeMvhd()})
	if err != nil || len(boxes) == 0 {
		return 0, false, err
	}
	mvhd, ok := boxes[0].Payload.(*gomp4.Mvhd)
	if !ok || mvhd.Timescale == 0 {
		return 0, false, nil
	}
	units := uint64(mvhd.DurationV0)
	if mvhd.GetVersion() == 1 {
		units = mvhd.DurationV1
	}
	if units == 0 {
		return 0, false, nil
	}
	seconds := float64(units) / float64(mvhd.Timescale)
	return time.Duration(seconds * float64(time.Second)), true, nil
}

// itemData walks the ilst once and calls fn with the first data box of
// every wanted item. The walk goes through ReadBoxStructure so that data
// boxes are decoded in their ilst context.
func itemData(r io.ReadSeeker, fn func(item gomp4.BoxType, info *gomp4.BoxInfo, data *gomp4.Data) error, wanted ...gomp4.BoxType) error {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return err
	}
	seen := make(map[gomp4.BoxType]bool, len(wanted))
	_, err := gomp4.ReadBoxStructure(r, func(h *gomp4.ReadHandle) (interface{}, error) {
		depth := len(h.Path)
		switch {
		case depth <= len(ilstPath):
			for i, typ := range h.Path {
				if typ != ilstPath[i] {
					return nil, nil
				}
			}
			return h.Expand()
		case depth == len(ilstPath)+1:
			if slices.Contains(wanted, h.BoxInfo.Type) && !seen[h.BoxInfo.Type] {
				return h.Expand()
			}
		case depth == len(ilstPath)+2:
			item := h.Path[depth-2]
			if h.BoxInfo.Type != gomp4.BoxTypeData() || seen[item] {
				return nil, nil
			}
			seen[item] = true
			payload, _, err := h.ReadPayload()
			if err != nil {
				return nil, fmt.Errorf("%s: %w", item, err)
			}
			if data, ok := payload.(*gomp4.Data); ok {
				return nil, fn(item, &h.BoxInfo, data)
			}
		}
		return nil, nil
	})
	return err
}

// numberPairs reads the trkn and disk items: two reserved bytes, the
// number, the total, then padding. Missing items read as zero.
func numberPairs(r io.ReadSeeker) (track, disc [2]int, err error) {
	err = itemData(r, func(item gomp4.BoxType, _ *gomp4.BoxInfo, data *gomp4.Data) error {
		var pair [2]int
		if len(data.Data) >= 4 {
			pair[0] = int(binary.BigEndian.Uint16(data.Data[2:4]))
		}
		if len(data.Data) >= 6 {
			pair[1] = int(binary.BigEndian.Uint16(data.Data[4:6]))
		}
		if item == boxTrkn {
			track = pair
		} else {
			disc = pair
		}
		return nil
	}, boxTrkn, boxDisk)
	return track, disc, err
}

// Data types of covr images the generic reader accepts.
const (
	classImplicit = 0
	classJPEG     = 13
	classPNG      = 14
)

func coverClass(mime string) (uint32, bool) {
	switch mime {
	case "image/jpeg":
		return classJPEG, true
	case "image/png":
		return classPNG, true
	}
	return 0, false
}

// typeCover stamps the image class onto an implicit covr data box. The
// atom writer leaves some images implicit, which readers reject.
func typeCover(f io.ReadSeeker, at io.WriterAt, mime string) (bool, error) {
	class, ok := coverClass(mime)
	if !ok {
		return false, nil
	}
	typed := false
	err := itemData(f, func(_ gomp4.BoxType, info *gomp4.BoxInfo, data *gomp4.Data) error {
		if data.DataType != classImplicit {
			return nil
		}
		// the type is the first word of the payload, version byte included
		var buf [4]byte
		binary.BigEndian.PutUint32(buf[:], class)
		if _, err := at.WriteAt(buf[:], int64(info.Offset+info.HeaderSize)); err != nil {
			return err
		}
		typed = true
		return nil
	}, boxCovr)
	return typed, err
}

// mdatOffset returns the file offset of the first mdat box.
func mdatOffset(r io.ReadSeeker) (int64, bool, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, false, err
	}
	boxes, err := gomp4.ExtractBox(r, nil, gomp4.BoxPath{gomp4.BoxTypeMdat()})
	if err != nil || len(boxes) == 0 {
		return 0, false, err
	}
	return int64(boxes[0].Offset), true, nil
}

// shiftChunkOffsets adds delta to every stco and co64 entry in place.
func shiftChunkOffsets(f io.ReadWriteSeeker, at io.WriterAt, delta int64) (int, error) {
	shifted := 0
	for _, path := range chunkOffsetPaths {
		boxes, err := extract(f, path)
		if err != nil {
			return shifted, err
		}
		for _, b := range boxes {
			// version/flags and entry count precede the table
			base := int64(b.Info.Offset+b.Info.HeaderSize) + 8
			var buf []byte
			switch p := b.Payload.(type) {
			case *gomp4.Stco:
				buf = make([]byte, 4*len(p.ChunkOffset))
				for i, off := range p.ChunkOffset {
					binary.BigEndian.PutUint32(buf[4*i:], uint32(int64(off)+delta))
				}
			case *gomp4.Co64:
				buf = make([]byte, 8*len(p.ChunkOffset))
				for i, off := range p.ChunkOffset {
					binary.BigEndian.PutUint64(buf[8*i:], uint64(int64(off)+delta))
				}
			default:
				continue
			}
			if _, err := at.WriteAt(buf, base); err != nil {
				return shifted, err
			}
			shifted++
		}
	}
	return shifted, nil
}
