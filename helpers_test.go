package audiotag_test

import (
	"testing"

	"github.com/simonhull/audiotag"
	"github.com/simonhull/audiotag/internal/testutil"
)

// fixtures builds one untagged-but-valid file per tag type.
var fixtures = []struct {
	tt   audiotag.TagType
	name string
	data func() []byte
}{
	{audiotag.TagTypeID3v2, "song.mp3", testutil.MPEGAudio},
	{audiotag.TagTypeMP4, "song.m4a", func() []byte { return testutil.MP4() }},
	{audiotag.TagTypeFLAC, "song.flac", func() []byte { return testutil.FLAC() }},
	{audiotag.TagTypeVorbis, "song.ogg", func() []byte { return testutil.OggVorbis() }},
}

// fullRecord has a value for every writable field.
func fullRecord() *audiotag.Record {
	return &audiotag.Record{
		Title:        audiotag.Ptr("Song A"),
		Artists:      []string{"Band A", "Band B"},
		Album:        audiotag.Ptr("Record"),
		AlbumArtists: []string{"Band A"},
		Year:         audiotag.Ptr(2019),
		TrackNumber:  audiotag.Ptr(uint16(3)),
		TotalTracks:  audiotag.Ptr(uint16(12)),
		DiscNumber:   audiotag.Ptr(uint16(1)),
		TotalDiscs:   audiotag.Ptr(uint16(2)),
		Genre:        audiotag.Ptr("Rock"),
		Composer:     audiotag.Ptr("Writer"),
		Comment:      audiotag.Ptr("liner notes"),
		AlbumCover:   audiotag.Ptr(audiotag.NewPicture(testutil.JPEG())),
		Config:       audiotag.DefaultConfig(),
	}
}

// supportedWritable lists the writable fields a tag supports.
func supportedWritable(t audiotag.Tag) []audiotag.Field {
	var fields []audiotag.Field
	for _, f := range audiotag.AllFields() {
		if f.Writable() && t.Supports(f) {
			fields = append(fields, f)
		}
	}
	return fields
}

func newTag(t *testing.T, tt audiotag.TagType, opts ...audiotag.Option) audiotag.Tag {
	t.Helper()
	tag, err := audiotag.New(tt, opts...)
	if err != nil {
		t.Fatalf("new %s: %v", tt, err)
	}
	return tag
}
