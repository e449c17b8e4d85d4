package vorbis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commentsOf(entries ...string) *Comments {
	c := NewComments()
	c.block.Comments = entries
	return c
}

func TestComments_GetIsCaseInsensitive(t *testing.T) {
	c := commentsOf("title=Song", "ARTIST=A", "Artist=B", "broken")

	assert.Equal(t, []string{"A", "B"}, c.Get("ARTIST"))
	v, ok := c.First("TITLE")
	require.True(t, ok)
	assert.Equal(t, "Song", v)

	_, ok = c.First("ALBUM")
	assert.False(t, ok)

	assert.Equal(t, []string{"TITLE", "ARTIST"}, c.Keys())
	assert.Equal(t, []string{"broken"}, c.Malformed())
}

func TestComments_SetKeepsPosition(t *testing.T) {
	c := commentsOf("TITLE=Song", "ARTIST=A", "ALBUM=X", "ARTIST=B")

	require.NoError(t, c.Set("artist", "C"))
	assert.Equal(t, []string{"TITLE=Song", "artist=C", "ALBUM=X"}, c.Entries())

	require.NoError(t, c.Set("GENRE", "Rock", "Jazz"))
	assert.Equal(t, []string{"TITLE=Song", "artist=C", "ALBUM=X", "GENRE=Rock", "GENRE=Jazz"}, c.Entries())

	require.NoError(t, c.Set("GENRE"))
	assert.Empty(t, c.Get("GENRE"))

	assert.ErrorIs(t, c.Set("BAD=KEY", "x"), ErrInvalidKey)
	assert.ErrorIs(t, c.Set("", "x"), ErrInvalidKey)
}

func TestComments_Remove(t *testing.T) {
	c := commentsOf("TRACKTOTAL=9", "TITLE=Song", "totaltracks=9", "junk")
	c.Remove(KeyTrackTotal, KeyTotalTracks)
	assert.Equal(t, []string{"TITLE=Song", "junk"}, c.Entries())
}

func TestComments_MarshalParse(t *testing.T) {
	c := commentsOf("TITLE=Song A", "ARTIST=Band B")
	c.SetVendor("libvorbis")

	// Vorbis comment packets end with a framing byte the parser must ignore.
	data := append(c.Marshal(), 0x01)

	parsed, err := ParseComments(data)
	require.NoError(t, err)
	assert.Equal(t, "libvorbis", parsed.Vendor())
	assert.Equal(t, c.Entries(), parsed.Entries())

	block := c.Block()
	fromBlock, err := FromBlock(&block)
	require.NoError(t, err)
	assert.Equal(t, 2, fromBlock.Len())

	clone := parsed.Clone()
	require.NoError(t, clone.Set(KeyTitle, "Other"))
	v, _ := parsed.First(KeyTitle)
	assert.Equal(t, "Song A", v)
}

func TestComments_ParseTruncated(t *testing.T) {
	c := commentsOf("TITLE=Song A")
	data := c.Marshal()
	_, err := ParseComments(data[:len(data)-3])
	assert.Error(t, err)
}
