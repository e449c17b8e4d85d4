// Package flac implements the Vorbis-comment adapter for native FLAC files.
package flac

import (
	"fmt"
	"time"

	goflac "github.com/go-flac/go-flac"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// streamInfoSize is the fixed length of a STREAMINFO block body.
const streamInfoSize = 34

// readBlocks walks the metadata blocks after the "fLaC" marker without
// touching the audio frames. It returns the blocks in file order.
func readBlocks(sr *binary.SafeReader) ([]*goflac.MetaDataBlock, error) {
	magic, err := sr.Bytes(0, 4, "FLAC magic bytes")
	if err != nil {
		return nil, fmt.Errorf("read FLAC magic: %w", err)
	}
	if string(magic) != "fLaC" {
		return nil, &types.CorruptedFileError{Path: sr.Path(), Offset: 0, Reason: "invalid FLAC magic bytes"}
	}

	var blocks []*goflac.MetaDataBlock
	offset := int64(4)
	for {
		// Header: [is_last(1) | block_type(7)] [length(24)]
		header, err := binary.Read[uint32](sr, offset, "metadata block header")
		if err != nil {
			return nil, err
		}
		isLast := header>>31 == 1
		blockType := goflac.BlockType((header >> 24) & 0x7F)
		blockLength := int(header & 0x00FFFFFF)
		offset += 4

		if len(blocks) == 0 && blockType != goflac.StreamInfo {
			return nil, &types.CorruptedFileError{Path: sr.Path(), Offset: offset - 4, Reason: "first metadata block is not STREAMINFO"}
		}

		data, err := sr.Bytes(offset, blockLength, fmt.Sprintf("metadata block type %d", blockType))
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, &goflac.MetaDataBlock{Type: blockType, Data: data})
		offset += int64(blockLength)

		if isLast {
			return blocks, nil
		}
	}
}

// streamDuration computes the playing time from a STREAMINFO body.
// An unknown sample count yields false.
func streamDuration(data []byte) (time.Duration, bool, error) {
	if len(data) != streamInfoSize {
		return 0, false, fmt.Errorf("invalid STREAMINFO size: %d (expected %d)", len(data), streamInfoSize)
	}

	// Bytes 10-17: [sample_rate(20)] [channels-1(3)] [bits-1(5)] [total_samples(36)]
	var packed uint64
	for _, b := range data[10:18] {
		packed = packed<<8 | uint64(b)
	}
	sampleRate := (packed >> 44) & 0xFFFFF
	totalSamples := packed & 0xFFFFFFFFF

	if sampleRate == 0 {
		return 0, false, fmt.Errorf("invalid sample rate 0")
	}
	if totalSamples == 0 {
		return 0, false, nil
	}
	seconds := float64(totalSamples) / float64(sampleRate)
	return time.Duration(seconds * float64(time.Second)), true, nil
}
