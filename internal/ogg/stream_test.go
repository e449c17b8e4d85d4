package ogg

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/audiotag/internal/testutil"
)

func TestReadHeaders(t *testing.T) {
	t.Run("vorbis", func(t *testing.T) {
		h, err := readHeaders(reader(testutil.OggVorbis("TITLE=a")))
		require.NoError(t, err)
		assert.Equal(t, codecVorbis, h.codec)
		assert.Len(t, h.packets, 3)
		assert.Len(t, h.pages, 2)
		assert.Equal(t, uint32(testutil.OggSerial), h.serial)
		assert.True(t, bytes.HasPrefix(h.comment(), vorbisCommentMagic))
	})

	t.Run("opus", func(t *testing.T) {
		h, err := readHeaders(reader(testutil.OggOpus("TITLE=a")))
		require.NoError(t, err)
		assert.Equal(t, codecOpus, h.codec)
		assert.Len(t, h.packets, 2)
	})

	t.Run("unknown codec", func(t *testing.T) {
		pages := paginate([][]byte{[]byte("\x80theora")}, 9, 0)
		pages[0].HeaderType = flagBOS
		_, err := readHeaders(reader(pages[0].Marshal()))
		assert.True(t, errors.Is(err, errUnknownCodec))
	})

	t.Run("truncated", func(t *testing.T) {
		data := testutil.OggVorbis()
		first, err := readPage(reader(data), 0)
		require.NoError(t, err)
		_, err = readHeaders(reader(data[:first.Size]))
		assert.ErrorContains(t, err, "header packets")
	})
}

func TestDuration(t *testing.T) {
	h, err := readHeaders(reader(testutil.OggVorbis()))
	require.NoError(t, err)
	granule, err := lastGranule(reader(testutil.OggVorbis()), h.serial)
	require.NoError(t, err)
	d, err := h.codec.duration(h.packets[0], granule)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(testutil.OggAudioPackets)*time.Second, d)

	opus := testutil.OggOpus()
	h, err = readHeaders(reader(opus))
	require.NoError(t, err)
	granule, err = lastGranule(reader(opus), h.serial)
	require.NoError(t, err)
	d, err = h.codec.duration(h.packets[0], granule)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(testutil.OggAudioPackets)*time.Second, d, "pre-skip is subtracted")

	_, err = codecVorbis.duration(h.packets[0], -1)
	assert.Error(t, err)
}

func TestRewrite_GrowsAcrossPages(t *testing.T) {
	data := testutil.OggVorbis("TITLE=a")
	sr := reader(data)
	h, err := readHeaders(sr)
	require.NoError(t, err)

	// A comment larger than one page pushes the audio pages back.
	huge := codecVorbis.commentPacket(testutil.CommentBody("v", "COMMENT="+string(bytes.Repeat([]byte{'x'}, 70000))))
	out, err := rewrite(sr, data, h, huge)
	require.NoError(t, err)

	h2, err := readHeaders(reader(out))
	require.NoError(t, err)
	assert.Equal(t, huge, h2.comment())
	assert.Equal(t, h.packets[2], h2.packets[2], "setup header is preserved")
	assert.Greater(t, len(h2.pages), len(h.pages))

	// Sequence numbers stay contiguous and every page checksums.
	pr := newPageReader(reader(out))
	want := uint32(0)
	for {
		page, err := pr.next()
		require.NoError(t, err)
		if page == nil {
			break
		}
		assert.Equal(t, want, page.SequenceNumber)
		want++
	}
}
