package mp4

import (
	"errors"
	"os"
	"testing"
	"time"

	gomp4 "github.com/abema/go-mp4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/audiotag/internal/testutil"
	"github.com/simonhull/audiotag/internal/types"
)

func fixture(t *testing.T, items ...testutil.MP4Item) string {
	t.Helper()
	return testutil.WriteFile(t, "song.m4a", testutil.MP4(items...))
}

// payloadAt follows the first stco entry and returns the bytes found there.
func payloadAt(t *testing.T, path string) []byte {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	boxes, err := extract(f, chunkOffsetPaths[0])
	require.NoError(t, err)
	require.Len(t, boxes, 1)
	stco, ok := boxes[0].Payload.(*gomp4.Stco)
	require.True(t, ok)
	require.Len(t, stco.ChunkOffset, 1)

	data := testutil.ReadFile(t, path)
	off := int(stco.ChunkOffset[0])
	require.LessOrEqual(t, off+len(testutil.MP4Payload), len(data))
	return data[off : off+len(testutil.MP4Payload)]
}

func TestRead(t *testing.T) {
	path := fixture(t,
		testutil.MP4Text(AtomTitle, "Song A"),
		testutil.MP4Text(AtomArtist, "Band A;Band B"),
		testutil.MP4Text(AtomAlbum, "Record"),
		testutil.MP4Text(AtomAlbumArtist, "Band A"),
		testutil.MP4Text(AtomYear, "2021-03-04T00:00:00Z"),
		testutil.MP4Number(AtomTrack, 300, 400),
		testutil.MP4Number(AtomDisc, 1, 2),
		testutil.MP4Text(AtomGenre, "Rock"),
		testutil.MP4Text(AtomComposer, "Writer"),
		testutil.MP4Text(AtomComment, "liner notes"),
		testutil.MP4Cover(testutil.JPEG()),
	)

	tag, err := Read(path, types.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, types.TagTypeMP4, tag.Type())

	title, ok := tag.Title()
	require.True(t, ok)
	assert.Equal(t, "Song A", title)

	assert.Equal(t, []string{"Band A", "Band B"}, tag.Artists())
	artist, ok := tag.Artist()
	require.True(t, ok)
	assert.Equal(t, "Band A;Band B", artist)

	year, ok := tag.Year()
	require.True(t, ok)
	assert.Equal(t, 2021, year)

	track, ok := tag.TrackNumber()
	require.True(t, ok)
	assert.Equal(t, uint16(300), track, "numbers above 255 keep their high byte")
	total, ok := tag.TotalTracks()
	require.True(t, ok)
	assert.Equal(t, uint16(400), total)

	disc, ok := tag.DiscNumber()
	require.True(t, ok)
	assert.Equal(t, uint16(1), disc)

	composer, ok := tag.Composer()
	require.True(t, ok)
	assert.Equal(t, "Writer", composer)

	comment, ok := tag.Comment()
	require.True(t, ok)
	assert.Equal(t, "liner notes", comment)

	cover, ok := tag.AlbumCover()
	require.True(t, ok)
	assert.Equal(t, "image/jpeg", cover.MIMEType)
	assert.Equal(t, testutil.JPEG(), cover.Data)

	d, ok := tag.Duration()
	require.True(t, ok)
	assert.Equal(t, 5*time.Second, d)
	assert.Empty(t, tag.Warnings())
}

func TestRead_Empty(t *testing.T) {
	tag, err := Read(fixture(t), types.DefaultConfig())
	require.NoError(t, err)

	for _, f := range types.AllFields() {
		assert.True(t, tag.Supports(f), f.String())
	}
	_, ok := tag.Title()
	assert.False(t, ok)
	_, ok = tag.TrackNumber()
	assert.False(t, ok)
	_, ok = tag.AlbumCover()
	assert.False(t, ok)
}

func TestRead_MalformedYear(t *testing.T) {
	path := fixture(t, testutil.MP4Text(AtomYear, "sometime"), testutil.MP4Text(AtomTitle, "Kept"))

	tag, err := Read(path, types.DefaultConfig())
	require.NoError(t, err)
	_, ok := tag.Year()
	assert.False(t, ok)
	title, _ := tag.Title()
	assert.Equal(t, "Kept", title)
	require.Len(t, tag.Warnings(), 1)
	assert.Equal(t, "field", tag.Warnings()[0].Stage)

	cfg := types.DefaultConfig()
	cfg.Strict = true
	_, err = Read(path, cfg)
	var mf *types.MalformedFieldError
	require.True(t, errors.As(err, &mf))
	assert.Equal(t, AtomYear, mf.Key)
	assert.ErrorIs(t, err, types.ErrInvalidNumber)
}

func TestRead_NotMP4(t *testing.T) {
	path := testutil.WriteFile(t, "song.m4a", testutil.FLAC())
	_, err := Read(path, types.DefaultConfig())
	var pe *types.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, types.TagTypeMP4, pe.Type)
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read("/nonexistent/song.m4a", types.DefaultConfig())
	var ioErr *types.IoError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "open", ioErr.Op)
}

func TestWrite_RoundTrip(t *testing.T) {
	path := fixture(t,
		testutil.MP4Text(AtomTitle, "Old"),
		testutil.MP4Text(AtomAlbum, "Record"),
		testutil.MP4Number(AtomTrack, 1, 9),
	)
	require.Equal(t, testutil.MP4Payload, payloadAt(t, path))

	tag, err := Read(path, types.DefaultConfig())
	require.NoError(t, err)
	tag.SetTitle("A much longer title that grows the moov box")
	tag.SetArtists([]string{"Band A", "Band B"})
	tag.SetYear(1999)
	tag.SetTrackNumber(65535)
	tag.SetTotalTracks(65535)
	tag.SetDiscNumber(2)
	tag.SetGenre("Jazz")
	tag.SetAlbumCover(types.NewPicture(testutil.PNG()))
	require.NoError(t, tag.WriteToPath(path))

	assert.Equal(t, testutil.MP4Payload, payloadAt(t, path), "stco follows the moved mdat")

	got, err := Read(path, types.DefaultConfig())
	require.NoError(t, err)

	title, _ := got.Title()
	assert.Equal(t, "A much longer title that grows the moov box", title)
	album, _ := got.Album()
	assert.Equal(t, "Record", album)
	assert.Equal(t, []string{"Band A", "Band B"}, got.Artists())
	year, _ := got.Year()
	assert.Equal(t, 1999, year)
	track, _ := got.TrackNumber()
	assert.Equal(t, uint16(65535), track)
	total, _ := got.TotalTracks()
	assert.Equal(t, uint16(65535), total)
	disc, ok := got.DiscNumber()
	require.True(t, ok)
	assert.Equal(t, uint16(2), disc)
	_, ok = got.TotalDiscs()
	assert.False(t, ok)
	genre, _ := got.Genre()
	assert.Equal(t, "Jazz", genre)

	cover, ok := got.AlbumCover()
	require.True(t, ok)
	assert.Equal(t, "image/png", cover.MIMEType)
	assert.Equal(t, testutil.PNG(), cover.Data)

	d, ok := got.Duration()
	require.True(t, ok)
	assert.Equal(t, 5*time.Second, d)
}

func TestWrite_RemoveFields(t *testing.T) {
	path := fixture(t,
		testutil.MP4Text(AtomTitle, "Song"),
		testutil.MP4Text(AtomComposer, "Writer"),
		testutil.MP4Number(AtomTrack, 4, 0),
		testutil.MP4Cover(testutil.JPEG()),
		testutil.MP4Text("\xa9too", "encoder 1.0"),
	)

	tag, err := Read(path, types.DefaultConfig())
	require.NoError(t, err)
	tag.RemoveComposer()
	tag.RemoveTrackNumber()
	tag.RemoveAlbumCover()
	require.NoError(t, tag.WriteToPath(path))
	assert.Equal(t, testutil.MP4Payload, payloadAt(t, path))

	got, err := Read(path, types.DefaultConfig())
	require.NoError(t, err)
	title, ok := got.Title()
	require.True(t, ok)
	assert.Equal(t, "Song", title)
	_, ok = got.Composer()
	assert.False(t, ok)
	_, ok = got.TrackNumber()
	assert.False(t, ok)
	_, ok = got.AlbumCover()
	assert.False(t, ok)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	enc, err := gomp4.ExtractBox(f, nil, append(append(gomp4.BoxPath{}, ilstPath...), gomp4.BoxType{0xa9, 't', 'o', 'o'}))
	require.NoError(t, err)
	assert.Len(t, enc, 1, "unmapped atoms survive")
}

func TestWrite_NewTagReplacesMappedAtoms(t *testing.T) {
	path := fixture(t,
		testutil.MP4Text(AtomTitle, "Old"),
		testutil.MP4Text(AtomAlbum, "Old Album"),
		testutil.MP4Number(AtomDisc, 1, 1),
	)

	tag := New(types.DefaultConfig())
	tag.SetTitle("New")
	require.NoError(t, tag.WriteToPath(path))

	got, err := Read(path, types.DefaultConfig())
	require.NoError(t, err)
	title, _ := got.Title()
	assert.Equal(t, "New", title)
	_, ok := got.Album()
	assert.False(t, ok)
	_, ok = got.DiscNumber()
	assert.False(t, ok)
}

func TestWrite_MdatFirst(t *testing.T) {
	path := testutil.WriteFile(t, "song.m4a", testutil.MP4MdatFirst(testutil.MP4Text(AtomTitle, "Song")))

	tag, err := Read(path, types.DefaultConfig())
	require.NoError(t, err)
	tag.SetTitle("Renamed with a longer value")
	require.NoError(t, tag.WriteToPath(path))

	assert.Equal(t, testutil.MP4Payload, payloadAt(t, path))
	got, err := Read(path, types.DefaultConfig())
	require.NoError(t, err)
	title, _ := got.Title()
	assert.Equal(t, "Renamed with a longer value", title)
}

func TestWrite_NoIlst(t *testing.T) {
	path := testutil.WriteFile(t, "song.m4a", testutil.MP4NoIlst())
	before := testutil.ReadFile(t, path)

	tag := New(types.DefaultConfig())
	tag.SetTitle("Song")
	err := tag.WriteToPath(path)

	var uw *types.UnsupportedWriteError
	require.True(t, errors.As(err, &uw))
	assert.Equal(t, types.TagTypeMP4, uw.Type)
	assert.Equal(t, before, testutil.ReadFile(t, path))
}

func TestNative(t *testing.T) {
	tag := New(types.DefaultConfig())
	tag.SetAlbumCover(types.NewPicture(testutil.JPEG()))
	tag.SetTitle("Song")

	n := tag.Native()
	assert.Equal(t, "Song", n.Title)
	n.Cover[0] = 0
	cover, _ := tag.AlbumCover()
	assert.Equal(t, testutil.JPEG(), cover.Data, "Native returns a copy")

	n.Label = "Indie"
	n.Delete = []string{"Title"}
	tag.SetNative(n)
	assert.Equal(t, "Indie", tag.Native().Label)
	assert.Empty(t, tag.Native().Delete)
}

func TestDeleteList(t *testing.T) {
	tag := New(types.DefaultConfig())
	tag.SetTitle("Song")
	tag.SetAlbumCover(types.NewPicture(testutil.PNG()))

	del := tag.deleteList()
	assert.Contains(t, del, deleteTrack)
	assert.Contains(t, del, deleteDisc)
	assert.Contains(t, del, deleteAlbum)
	assert.NotContains(t, del, deleteTitle)
	assert.NotContains(t, del, deleteCover)
}

func TestNumbers_ZeroIsAbsent(t *testing.T) {
	tag := New(types.DefaultConfig())
	tag.SetTrackNumber(0)
	_, ok := tag.TrackNumber()
	assert.False(t, ok)

	tag.SetTotalTracks(12)
	total, ok := tag.TotalTracks()
	require.True(t, ok)
	assert.Equal(t, uint16(12), total)
}

func TestWrite_TitleEditKeepsNumbers(t *testing.T) {
	path := fixture(t,
		testutil.MP4Text(AtomTitle, "Song A"),
		testutil.MP4Number(AtomTrack, 3, 12),
		testutil.MP4Number(AtomDisc, 1, 2),
	)

	tag, err := Read(path, types.DefaultConfig())
	require.NoError(t, err)
	require.Empty(t, tag.Warnings())
	tag.SetTitle("Song B")
	require.NoError(t, tag.WriteToPath(path))

	got, err := Read(path, types.DefaultConfig())
	require.NoError(t, err)
	title, _ := got.Title()
	assert.Equal(t, "Song B", title)

	for _, tc := range []struct {
		name string
		get  func() (uint16, bool)
		want uint16
	}{
		{"track", got.TrackNumber, 3},
		{"total tracks", got.TotalTracks, 12},
		{"disc", got.DiscNumber, 1},
		{"total discs", got.TotalDiscs, 2},
	} {
		v, ok := tc.get()
		require.True(t, ok, tc.name)
		assert.Equal(t, tc.want, v, tc.name)
	}
}

func TestWrite_JPEGCover(t *testing.T) {
	path := fixture(t, testutil.MP4Text(AtomTitle, "Song"))

	tag, err := Read(path, types.DefaultConfig())
	require.NoError(t, err)
	tag.SetAlbumCover(types.NewPicture(testutil.JPEG()))
	require.NoError(t, tag.WriteToPath(path))

	got, err := Read(path, types.DefaultConfig())
	require.NoError(t, err)
	cover, ok := got.AlbumCover()
	require.True(t, ok)
	assert.Equal(t, "image/jpeg", cover.MIMEType)
	assert.Equal(t, testutil.JPEG(), cover.Data)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	var class uint32
	require.NoError(t, itemData(f, func(_ gomp4.BoxType, _ *gomp4.BoxInfo, data *gomp4.Data) error {
		class = data.DataType
		return nil
	}, boxCovr))
	assert.Equal(t, uint32(classJPEG), class)
	assert.Equal(t, testutil.MP4Payload, payloadAt(t, path))
}

func TestWrite_RefusesWhenNumbersUnreadable(t *testing.T) {
	path := fixture(t, testutil.MP4Text(AtomTitle, "Song"), testutil.MP4Number(AtomTrack, 3, 12))
	before := testutil.ReadFile(t, path)

	tag, err := Read(path, types.DefaultConfig())
	require.NoError(t, err)
	tag.numbersLost = true
	tag.SetTitle("Other")

	var uw *types.UnsupportedWriteError
	require.True(t, errors.As(tag.WriteToPath(path), &uw))
	assert.Equal(t, before, testutil.ReadFile(t, path))
}

func TestWrite_RefusesUnreadableCoverType(t *testing.T) {
	path := fixture(t, testutil.MP4Text(AtomTitle, "Song"))
	before := testutil.ReadFile(t, path)

	tag, err := Read(path, types.DefaultConfig())
	require.NoError(t, err)
	tag.SetAlbumCover(types.Picture{MIMEType: "image/gif", Data: []byte("GIF89a")})

	var uw *types.UnsupportedWriteError
	require.True(t, errors.As(tag.WriteToPath(path), &uw))
	assert.Contains(t, uw.Reason, "image/gif")
	assert.Equal(t, before, testutil.ReadFile(t, path))
}

func TestNumberPairs(t *testing.T) {
	path := fixture(t,
		testutil.MP4Text(AtomTitle, "Song"),
		testutil.MP4Number(AtomDisc, 2, 3),
		testutil.MP4Number(AtomTrack, 65535, 300),
	)
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	track, disc, err := numberPairs(f)
	require.NoError(t, err)
	assert.Equal(t, [2]int{65535, 300}, track)
	assert.Equal(t, [2]int{2, 3}, disc)

	empty, err := os.Open(fixture(t))
	require.NoError(t, err)
	defer empty.Close()
	track, disc, err = numberPairs(empty)
	require.NoError(t, err)
	assert.Zero(t, track)
	assert.Zero(t, disc)
}
