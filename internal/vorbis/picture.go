package vorbis

import (
	"encoding/base64"
	"fmt"

	"github.com/go-flac/flacpicture"
	goflac "github.com/go-flac/go-flac"

	"github.com/simonhull/audiotag/internal/types"
)

// FrontCover builds a FLAC picture block holding p as the front cover.
//
// Dimensions are left zero; readers treat them as unknown.
func FrontCover(p types.Picture) *flacpicture.MetadataBlockPicture {
	mime := p.MIMEType
	if mime == "" {
		mime = types.DetectMIME(p.Data)
	}
	return &flacpicture.MetadataBlockPicture{
		PictureType: flacpicture.PictureTypeFrontCover,
		MIME:        mime,
		ImageData:   p.Data,
	}
}

// ToPicture converts a FLAC picture block to the canonical picture.
func ToPicture(pic *flacpicture.MetadataBlockPicture) types.Picture {
	mime := pic.MIME
	if mime == "" || mime == "image/" {
		mime = types.DetectMIME(pic.ImageData)
	}
	return types.Picture{MIMEType: mime, Data: pic.ImageData}
}

// EncodePicture encodes a picture block as a METADATA_BLOCK_PICTURE value:
// the FLAC picture block body in standard base64.
func EncodePicture(pic *flacpicture.MetadataBlockPicture) string {
	block := pic.Marshal()
	return base64.StdEncoding.EncodeToString(block.Data)
}

// DecodePicture decodes a METADATA_BLOCK_PICTURE value.
func DecodePicture(value string) (*flacpicture.MetadataBlockPicture, error) {
	data, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}
	pic, err := flacpicture.ParseFromMetaDataBlock(goflac.MetaDataBlock{Type: goflac.Picture, Data: data})
	if err != nil {
		return nil, fmt.Errorf("invalid picture block: %w", err)
	}
	return pic, nil
}
