package types

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Picture is an embedded cover image.
//
// Only the front cover travels through the canonical record. Other picture
// kinds stay in the native tag structure of the adapter that read them.
type Picture struct {
	// MIME type of the image data
	MIMEType string // "image/jpeg", "image/png"

	// Image binary data
	Data []byte
}

// NewPicture wraps image data, sniffing its MIME type from the content.
func NewPicture(data []byte) Picture {
	return Picture{MIMEType: DetectMIME(data), Data: data}
}

// DetectMIME returns the MIME type of image data, without parameters.
// Unrecognized content yields "application/octet-stream".
func DetectMIME(data []byte) string {
	mime := mimetype.Detect(data).String()
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	return mime
}

// Equal reports whether both pictures carry the same type and bytes.
func (p Picture) Equal(o Picture) bool {
	return p.MIMEType == o.MIMEType && bytes.Equal(p.Data, o.Data)
}

// Clone returns a deep copy.
func (p Picture) Clone() Picture {
	return Picture{MIMEType: p.MIMEType, Data: bytes.Clone(p.Data)}
}

// String returns a human-readable description of the picture.
//
// Example output: "JPEG, 245KB"
func (p Picture) String() string {
	return fmt.Sprintf("%s, %s", mimeToFormat(p.MIMEType), formatSize(len(p.Data)))
}

// formatSize formats byte size in human-readable form.
func formatSize(bytes int) string {
	const (
		KB = 1024
		MB = 1024 * KB
	)

	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1fMB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%dKB", bytes/KB)
	default:
		return fmt.Sprintf("%dB", bytes)
	}
}

// mimeToFormat converts MIME type to short format name.
func mimeToFormat(mime string) string {
	switch mime {
	case "image/jpeg":
		return "JPEG"
	case "image/png":
		return "PNG"
	case "image/gif":
		return "GIF"
	case "image/bmp":
		return "BMP"
	case "image/webp":
		return "WebP"
	default:
		return "Image"
	}
}
