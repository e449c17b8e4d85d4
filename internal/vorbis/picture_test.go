package vorbis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/audiotag/internal/types"
)

func TestPictureRoundTrip(t *testing.T) {
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
	pic := FrontCover(types.Picture{Data: jpeg})
	assert.Equal(t, "image/jpeg", pic.MIME)

	decoded, err := DecodePicture(EncodePicture(pic))
	require.NoError(t, err)
	assert.Equal(t, types.Picture{MIMEType: "image/jpeg", Data: jpeg}, ToPicture(decoded))

	_, err = DecodePicture("not base64!")
	assert.Error(t, err)
}
