package id3

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/bogem/id3v2/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/testutil"
	"github.com/simonhull/audiotag/internal/types"
)

// mp3With serializes tag in front of three MPEG frames.
func mp3With(t *testing.T, tag *id3v2.Tag) []byte {
	t.Helper()
	var buf bytes.Buffer
	_, err := tag.WriteTo(&buf)
	require.NoError(t, err)
	buf.Write(testutil.MPEGAudio())
	return buf.Bytes()
}

func TestRead_V24(t *testing.T) {
	native := id3v2.NewEmptyTag()
	native.SetTitle("Song")
	native.AddTextFrame(FrameArtist, id3v2.EncodingUTF8, "Alice\x00Bob")
	native.AddTextFrame(FrameRecording, id3v2.EncodingUTF8, "2021-06-01")
	native.AddTextFrame(FrameTrack, id3v2.EncodingUTF8, "3/12")
	native.AddTextFrame(FrameDisc, id3v2.EncodingUTF8, "1")
	native.AddTextFrame(FrameLength, id3v2.EncodingUTF8, "215000")
	native.AddCommentFrame(id3v2.CommentFrame{Encoding: id3v2.EncodingUTF8, Language: "eng", Text: "hello"})
	path := testutil.WriteFile(t, "song.mp3", mp3With(t, native))

	tag, err := Read(path, types.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, types.TagTypeID3v2, tag.Type())
	assert.Equal(t, byte(4), tag.Version())

	title, _ := tag.Title()
	assert.Equal(t, "Song", title)
	assert.Equal(t, []string{"Alice", "Bob"}, tag.Artists())
	artist, _ := tag.Artist()
	assert.Equal(t, "Alice;Bob", artist)

	year, ok := tag.Year()
	require.True(t, ok)
	assert.Equal(t, 2021, year)

	track, _ := tag.TrackNumber()
	total, ok := tag.TotalTracks()
	require.True(t, ok)
	assert.Equal(t, uint16(3), track)
	assert.Equal(t, uint16(12), total)
	_, ok = tag.TotalDiscs()
	assert.False(t, ok)

	comment, ok := tag.Comment()
	require.True(t, ok)
	assert.Equal(t, "hello", comment)

	d, ok := tag.Duration()
	require.True(t, ok)
	assert.Equal(t, 215*time.Second, d)

	assert.Contains(t, tag.FrameIDs(), FrameLength)
	assert.Empty(t, tag.Warnings())
}

func TestWrite_SingleFormatEdit(t *testing.T) {
	native := id3v2.NewEmptyTag()
	native.SetTitle("Song A")
	path := testutil.WriteFile(t, "song.mp3", mp3With(t, native))

	tag, err := Read(path, types.DefaultConfig())
	require.NoError(t, err)
	tag.SetArtist("Band B")
	require.NoError(t, tag.WriteToPath(path))

	reread, err := Read(path, types.DefaultConfig())
	require.NoError(t, err)
	title, _ := reread.Title()
	artist, _ := reread.Artist()
	assert.Equal(t, "Song A", title)
	assert.Equal(t, "Band B", artist)

	data := testutil.ReadFile(t, path)
	assert.True(t, bytes.HasSuffix(data, testutil.MPEGAudio()), "audio is untouched")
}

func TestWrite_V23KeepsVersion(t *testing.T) {
	native := id3v2.NewEmptyTag()
	native.SetVersion(3)
	native.SetDefaultEncoding(id3v2.EncodingISO)
	native.AddTextFrame(FrameYear, id3v2.EncodingISO, "1987")
	native.AddTextFrame(FrameArtist, id3v2.EncodingISO, "A;B")
	path := testutil.WriteFile(t, "old.mp3", mp3With(t, native))

	tag, err := Read(path, types.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, byte(3), tag.Version())
	assert.Equal(t, []string{"A", "B"}, tag.Artists(), "single value is split on the separator")

	year, _ := tag.Year()
	assert.Equal(t, 1987, year)

	tag.SetYear(1990)
	tag.SetArtists([]string{"Zoë", "Ünal"})
	require.NoError(t, tag.WriteToPath(path))

	reread, err := Read(path, types.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, byte(3), reread.Version())
	v, ok := reread.TextFrame(FrameYear)
	require.True(t, ok)
	assert.Equal(t, "1990", v)
	_, ok = reread.TextFrame(FrameRecording)
	assert.False(t, ok)
	assert.Equal(t, []string{"Zoë", "Ünal"}, reread.Artists())
}

func TestRead_NoTag(t *testing.T) {
	path := testutil.WriteFile(t, "bare.mp3", testutil.MPEGAudio())

	tag, err := Read(path, types.DefaultConfig())
	require.NoError(t, err)
	_, ok := tag.Title()
	assert.False(t, ok)

	_, ok = tag.Duration()
	assert.False(t, ok, "no TLEN frame")

	tag.SetTitle("Added")
	require.NoError(t, tag.WriteToPath(path))
	reread, err := Read(path, types.DefaultConfig())
	require.NoError(t, err)
	title, _ := reread.Title()
	assert.Equal(t, "Added", title)
}

func TestRead_ID3v1Seed(t *testing.T) {
	data := append(testutil.MPEGAudio(), testutil.ID3v1("Old Title", "Old Artist", "Old Album", "1994", 7)...)
	path := testutil.WriteFile(t, "v1.mp3", data)

	tag, err := Read(path, types.DefaultConfig())
	require.NoError(t, err)

	title, _ := tag.Title()
	artist, _ := tag.Artist()
	year, _ := tag.Year()
	track, _ := tag.TrackNumber()
	assert.Equal(t, "Old Title", title)
	assert.Equal(t, "Old Artist", artist)
	assert.Equal(t, 1994, year)
	assert.Equal(t, uint16(7), track)
	require.NotEmpty(t, tag.Warnings())
	assert.Equal(t, "id3v1", tag.Warnings()[0].Stage)

	require.NoError(t, tag.WriteToPath(path))
	written := testutil.ReadFile(t, path)
	assert.Equal(t, "ID3", string(written[:3]))
	assert.Equal(t, "TAG", string(written[len(written)-128:len(written)-125]), "ID3v1 tag is kept")
}

func TestRead_MalformedTrack(t *testing.T) {
	native := id3v2.NewEmptyTag()
	native.AddTextFrame(FrameTrack, id3v2.EncodingUTF8, "x/12")
	native.SetTitle("ok")
	path := testutil.WriteFile(t, "bad.mp3", mp3With(t, native))

	tag, err := Read(path, types.DefaultConfig())
	require.NoError(t, err)
	_, ok := tag.TrackNumber()
	assert.False(t, ok)
	total, ok := tag.TotalTracks()
	require.True(t, ok, "the total side still parses")
	assert.Equal(t, uint16(12), total)
	title, _ := tag.Title()
	assert.Equal(t, "ok", title)

	strict := types.DefaultConfig()
	strict.Strict = true
	_, err = Read(path, strict)
	var mf *types.MalformedFieldError
	require.True(t, errors.As(err, &mf))
	assert.Equal(t, FrameTrack, mf.Key)
	assert.Equal(t, types.FieldTrackNumber, mf.Field)
}

func TestTrackPair(t *testing.T) {
	tag := New(types.DefaultConfig())
	tag.SetTotalTracks(10)
	v, _ := tag.TextFrame(FrameTrack)
	assert.Equal(t, "/10", v)

	tag.SetTrackNumber(4)
	v, _ = tag.TextFrame(FrameTrack)
	assert.Equal(t, "4/10", v)

	tag.RemoveTotalTracks()
	v, _ = tag.TextFrame(FrameTrack)
	assert.Equal(t, "4", v)

	tag.RemoveTrackNumber()
	_, ok := tag.TextFrame(FrameTrack)
	assert.False(t, ok)
}

func TestComment_KeepsDescribedFrames(t *testing.T) {
	tag := New(types.DefaultConfig())
	tag.ID3().AddCommentFrame(id3v2.CommentFrame{Encoding: id3v2.EncodingUTF8, Language: "eng", Description: "iTunNORM", Text: "0000"})

	_, ok := tag.Comment()
	assert.False(t, ok, "described comments are not the comment field")

	tag.SetComment("mine")
	c, _ := tag.Comment()
	assert.Equal(t, "mine", c)

	tag.RemoveComment()
	_, ok = tag.Comment()
	assert.False(t, ok)
	assert.Len(t, tag.ID3().GetFrames(FrameComment), 1)
}

func TestAlbumCover(t *testing.T) {
	tag := New(types.DefaultConfig())
	tag.ID3().AddAttachedPicture(id3v2.PictureFrame{
		Encoding: id3v2.EncodingUTF8, MimeType: "image/png", PictureType: id3v2.PTBackCover,
		Description: "back", Picture: testutil.PNG(),
	})

	_, ok := tag.AlbumCover()
	assert.False(t, ok)

	tag.SetAlbumCover(types.NewPicture(testutil.JPEG()))
	cover, ok := tag.AlbumCover()
	require.True(t, ok)
	assert.Equal(t, "image/jpeg", cover.MIMEType)
	assert.Len(t, tag.Pictures(), 2)

	tag.RemoveAlbumCover()
	_, ok = tag.AlbumCover()
	assert.False(t, ok)
	assert.Len(t, tag.Pictures(), 1)
}

func TestWrite_EmptyTagStrips(t *testing.T) {
	native := id3v2.NewEmptyTag()
	native.SetTitle("gone")
	path := testutil.WriteFile(t, "song.mp3", mp3With(t, native))

	require.NoError(t, New(types.DefaultConfig()).WriteToPath(path))
	assert.Equal(t, testutil.MPEGAudio(), testutil.ReadFile(t, path))
}

func TestTagSize(t *testing.T) {
	header := []byte{'I', 'D', '3', 4, 0, 0, 0, 0, 0x02, 0x01}
	data := append(header, make([]byte, 300)...)

	size, err := tagSize(reader(data))
	require.NoError(t, err)
	assert.Equal(t, int64(10+257), size)

	data[5] = flagFooter
	size, err = tagSize(reader(data))
	require.NoError(t, err)
	assert.Equal(t, int64(10+257+10), size)

	_, err = tagSize(reader(data[:100]))
	var cfe *types.CorruptedFileError
	assert.True(t, errors.As(err, &cfe))

	size, err = tagSize(reader(testutil.MPEGAudio()))
	require.NoError(t, err)
	assert.Zero(t, size)
}

func reader(data []byte) *binary.SafeReader {
	return binary.NewSafeReader(bytes.NewReader(data), int64(len(data)), "test.mp3")
}

func TestDecodeSynchsafe(t *testing.T) {
	assert.Equal(t, uint32(257), decodeSynchsafe([]byte{0, 0, 0x02, 0x01}))
	assert.Equal(t, uint32(0x0FFFFFFF), decodeSynchsafe([]byte{0x7F, 0x7F, 0x7F, 0x7F}))
	assert.Zero(t, decodeSynchsafe([]byte{1, 2}))
}
