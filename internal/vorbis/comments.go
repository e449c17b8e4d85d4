// Package vorbis provides shared Vorbis comment handling.
//
// Vorbis comments are used by both FLAC and Ogg Vorbis/Opus streams.
// The format is identical: a vendor string followed by UTF-8 strings in
// "KEY=VALUE" format, with case-insensitive keys that may repeat.
package vorbis

import (
	"errors"
	"slices"
	"strings"

	"github.com/go-flac/flacvorbis"
	goflac "github.com/go-flac/go-flac"
)

// Standard field names.
const (
	KeyTitle        = "TITLE"
	KeyArtist       = "ARTIST"
	KeyAlbum        = "ALBUM"
	KeyAlbumArtist  = "ALBUMARTIST"
	KeyDate         = "DATE"
	KeyYear         = "YEAR"
	KeyTrackNumber  = "TRACKNUMBER"
	KeyTrackTotal   = "TRACKTOTAL"
	KeyTotalTracks  = "TOTALTRACKS"
	KeyDiscNumber   = "DISCNUMBER"
	KeyDiscTotal    = "DISCTOTAL"
	KeyTotalDiscs   = "TOTALDISCS"
	KeyGenre        = "GENRE"
	KeyComposer     = "COMPOSER"
	KeyComment      = "COMMENT"
	KeyDescription  = "DESCRIPTION"
	KeyPictureBlock = "METADATA_BLOCK_PICTURE"
)

// ErrInvalidKey is returned for field names outside printable ASCII or containing '='.
var ErrInvalidKey = errors.New("invalid Vorbis comment field name")

// Comments is an ordered, mutable Vorbis comment list.
type Comments struct {
	block *flacvorbis.MetaDataBlockVorbisComment
}

// NewComments returns an empty comment list with no vendor string.
func NewComments() *Comments {
	return &Comments{block: &flacvorbis.MetaDataBlockVorbisComment{Comments: []string{}}}
}

// ParseComments decodes a comment body: vendor string, count, then entries.
// Trailing bytes, such as the Vorbis framing bit, are ignored.
func ParseComments(data []byte) (*Comments, error) {
	block, err := flacvorbis.ParseFromMetaDataBlock(goflac.MetaDataBlock{
		Type: goflac.VorbisComment,
		Data: data,
	})
	if err != nil {
		return nil, err
	}
	return &Comments{block: block}, nil
}

// FromBlock wraps a FLAC VORBIS_COMMENT metadata block.
func FromBlock(meta *goflac.MetaDataBlock) (*Comments, error) {
	block, err := flacvorbis.ParseFromMetaDataBlock(*meta)
	if err != nil {
		return nil, err
	}
	return &Comments{block: block}, nil
}

// Block encodes the comments as a FLAC VORBIS_COMMENT metadata block.
func (c *Comments) Block() goflac.MetaDataBlock {
	return c.block.Marshal()
}

// Marshal encodes the comment body without any container framing.
func (c *Comments) Marshal() []byte {
	return c.block.Marshal().Data
}

// Vendor returns the vendor string.
func (c *Comments) Vendor() string {
	return c.block.Vendor
}

// SetVendor replaces the vendor string.
func (c *Comments) SetVendor(v string) {
	c.block.Vendor = v
}

// Entries returns a copy of the raw "KEY=VALUE" entries in order.
func (c *Comments) Entries() []string {
	return slices.Clone(c.block.Comments)
}

// Len returns the number of entries.
func (c *Comments) Len() int {
	return len(c.block.Comments)
}

// Clone returns a deep copy.
func (c *Comments) Clone() *Comments {
	return &Comments{block: &flacvorbis.MetaDataBlockVorbisComment{
		Vendor:   c.block.Vendor,
		Comments: slices.Clone(c.block.Comments),
	}}
}

// Get returns every value stored under key, in order.
func (c *Comments) Get(key string) []string {
	var values []string
	for _, entry := range c.block.Comments {
		if k, v, ok := strings.Cut(entry, "="); ok && strings.EqualFold(k, key) {
			values = append(values, v)
		}
	}
	return values
}

// First returns the first value stored under key.
func (c *Comments) First(key string) (string, bool) {
	for _, entry := range c.block.Comments {
		if k, v, ok := strings.Cut(entry, "="); ok && strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

// FirstOf returns the first value of the first key that is present, and that key.
func (c *Comments) FirstOf(keys ...string) (value, key string, ok bool) {
	for _, k := range keys {
		if v, ok := c.First(k); ok {
			return v, k, true
		}
	}
	return "", "", false
}

// Keys returns the distinct field names in order of first appearance, upper-cased.
func (c *Comments) Keys() []string {
	var keys []string
	for _, entry := range c.block.Comments {
		k, _, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		k = strings.ToUpper(k)
		if !slices.Contains(keys, k) {
			keys = append(keys, k)
		}
	}
	return keys
}

// Malformed returns the entries that have no '=' separator.
func (c *Comments) Malformed() []string {
	var bad []string
	for _, entry := range c.block.Comments {
		if !strings.Contains(entry, "=") {
			bad = append(bad, entry)
		}
	}
	return bad
}

// Set replaces every value of key with values. The new entries take the
// position of the first existing one so unrelated entries keep their order.
// No values removes the key.
func (c *Comments) Set(key string, values ...string) error {
	if !ValidKey(key) {
		return ErrInvalidKey
	}
	c.set(key, values...)
	return nil
}

func (c *Comments) set(key string, values ...string) {
	entries := make([]string, 0, len(c.block.Comments)+len(values))
	inserted := false
	for _, entry := range c.block.Comments {
		if k, _, ok := strings.Cut(entry, "="); ok && strings.EqualFold(k, key) {
			if !inserted {
				entries = appendEntries(entries, key, values)
				inserted = true
			}
			continue
		}
		entries = append(entries, entry)
	}
	if !inserted {
		entries = appendEntries(entries, key, values)
	}
	c.block.Comments = entries
}

// Add appends one value under key after any existing ones.
func (c *Comments) Add(key, value string) error {
	return c.block.Add(key, value)
}

// Remove deletes every entry stored under any of the keys.
func (c *Comments) Remove(keys ...string) {
	c.block.Comments = slices.DeleteFunc(c.block.Comments, func(entry string) bool {
		k, _, ok := strings.Cut(entry, "=")
		if !ok {
			return false
		}
		for _, key := range keys {
			if strings.EqualFold(k, key) {
				return true
			}
		}
		return false
	})
}

// ValidKey reports whether key is a legal field name: printable ASCII
// from 0x20 to 0x7D, excluding '='.
func ValidKey(key string) bool {
	if key == "" {
		return false
	}
	for _, r := range key {
		if r < 0x20 || r > 0x7d || r == '=' {
			return false
		}
	}
	return true
}

func appendEntries(entries []string, key string, values []string) []string {
	for _, v := range values {
		entries = append(entries, key+"="+v)
	}
	return entries
}
