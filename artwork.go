package audiotag

import (
	"github.com/simonhull/audiotag/internal/types"
)

// Picture is an embedded front-cover image.
type Picture = types.Picture

// NewPicture wraps image data, sniffing its MIME type from the content.
func NewPicture(data []byte) Picture {
	return types.NewPicture(data)
}

// DetectMIME returns the MIME type of image data without parameters.
func DetectMIME(data []byte) string {
	return types.DetectMIME(data)
}
