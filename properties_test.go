package audiotag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/audiotag"
	"github.com/simonhull/audiotag/internal/testutil"
)

// setAny stores some value in field f through the facade setters.
func setAny(tag audiotag.Tag, f audiotag.Field) {
	switch f {
	case audiotag.FieldTitle:
		tag.SetTitle("x")
	case audiotag.FieldArtist:
		tag.SetArtists([]string{"x", "y"})
	case audiotag.FieldAlbum:
		tag.SetAlbum("x")
	case audiotag.FieldAlbumArtist:
		tag.SetAlbumArtist("x")
	case audiotag.FieldYear:
		tag.SetYear(2000)
	case audiotag.FieldTrackNumber:
		tag.SetTrackNumber(1)
	case audiotag.FieldTotalTracks:
		tag.SetTotalTracks(2)
	case audiotag.FieldDiscNumber:
		tag.SetDiscNumber(1)
	case audiotag.FieldTotalDiscs:
		tag.SetTotalDiscs(2)
	case audiotag.FieldGenre:
		tag.SetGenre("x")
	case audiotag.FieldComposer:
		tag.SetComposer("x")
	case audiotag.FieldComment:
		tag.SetComment("x")
	case audiotag.FieldAlbumCover:
		tag.SetAlbumCover(audiotag.NewPicture(testutil.PNG()))
	}
}

// present reports whether the getter for f returns a value.
func present(tag audiotag.Tag, f audiotag.Field) bool {
	var ok bool
	switch f {
	case audiotag.FieldTitle:
		_, ok = tag.Title()
	case audiotag.FieldArtist:
		_, ok = tag.Artist()
		ok = ok || len(tag.Artists()) > 0
	case audiotag.FieldAlbum:
		_, ok = tag.Album()
	case audiotag.FieldAlbumArtist:
		_, ok = tag.AlbumArtist()
		ok = ok || len(tag.AlbumArtists()) > 0
	case audiotag.FieldYear:
		_, ok = tag.Year()
	case audiotag.FieldTrackNumber:
		_, ok = tag.TrackNumber()
	case audiotag.FieldTotalTracks:
		_, ok = tag.TotalTracks()
	case audiotag.FieldDiscNumber:
		_, ok = tag.DiscNumber()
	case audiotag.FieldTotalDiscs:
		_, ok = tag.TotalDiscs()
	case audiotag.FieldGenre:
		_, ok = tag.Genre()
	case audiotag.FieldComposer:
		_, ok = tag.Composer()
	case audiotag.FieldComment:
		_, ok = tag.Comment()
	case audiotag.FieldAlbumCover:
		_, ok = tag.AlbumCover()
	case audiotag.FieldDuration:
		_, ok = tag.Duration()
	}
	return ok
}

func TestRoundTripIdempotence_InMemory(t *testing.T) {
	for _, fx := range fixtures {
		t.Run(fx.tt.String(), func(t *testing.T) {
			tag := newTag(t, fx.tt)
			audiotag.ApplyRecord(fullRecord(), tag)
			first := audiotag.ToRecord(tag)

			again, _, err := audiotag.FromRecord(first, fx.tt)
			require.NoError(t, err)
			second := audiotag.ToRecord(again)

			for _, f := range supportedWritable(tag) {
				assert.True(t, first.EqualFields(second, f), f.String())
			}
		})
	}
}

func TestRoundTripIdempotence_ThroughFile(t *testing.T) {
	for _, fx := range fixtures {
		t.Run(fx.tt.String(), func(t *testing.T) {
			path := testutil.WriteFile(t, fx.name, fx.data())

			tag, tt, err := audiotag.ReadFromPath(path)
			require.NoError(t, err)
			require.Equal(t, fx.tt, tt)
			audiotag.ApplyRecord(fullRecord(), tag)
			require.NoError(t, tag.WriteToPath(path))

			got, _, err := audiotag.ReadFromPath(path)
			require.NoError(t, err)
			want, have := audiotag.ToRecord(tag), audiotag.ToRecord(got)
			for _, f := range supportedWritable(tag) {
				assert.True(t, want.EqualFields(have, f), "%s after write", f)
			}
		})
	}
}

func TestCapabilityGapSilence(t *testing.T) {
	for _, fx := range fixtures {
		t.Run(fx.tt.String(), func(t *testing.T) {
			tag := newTag(t, fx.tt)
			for _, f := range audiotag.AllFields() {
				if tag.Supports(f) || !f.Writable() {
					continue
				}
				assert.NotPanics(t, func() { setAny(tag, f) })
				assert.False(t, present(tag, f), "%s reads absent after set", f)
			}
		})
	}

	ogg := newTag(t, audiotag.TagTypeVorbis)
	for _, f := range []audiotag.Field{
		audiotag.FieldAlbumArtist, audiotag.FieldTotalTracks, audiotag.FieldDiscNumber,
		audiotag.FieldTotalDiscs, audiotag.FieldComposer, audiotag.FieldAlbumCover,
	} {
		assert.False(t, ogg.Supports(f), f.String())
	}
}

func TestWriteThenRead_Strings(t *testing.T) {
	for _, fx := range fixtures {
		t.Run(fx.tt.String(), func(t *testing.T) {
			tag := newTag(t, fx.tt)
			for _, f := range supportedWritable(tag) {
				setAny(tag, f)
				assert.True(t, present(tag, f), f.String())
			}

			tag.SetTitle("Ünïcødé ✓")
			title, _ := tag.Title()
			assert.Equal(t, "Ünïcødé ✓", title)

			tag.SetArtist("Solo")
			artist, _ := tag.Artist()
			assert.Equal(t, "Solo", artist)
			assert.Equal(t, []string{"Solo"}, tag.Artists())

			tag.RemoveTitle()
			_, ok := tag.Title()
			assert.False(t, ok)
			tag.SetArtists(nil)
			assert.Empty(t, tag.Artists())
		})
	}
}

func TestWriteThenRead_Numbers(t *testing.T) {
	numbers := []struct {
		field audiotag.Field
		set   func(audiotag.Tag, uint16)
		get   func(audiotag.Tag) (uint16, bool)
	}{
		{audiotag.FieldTrackNumber, audiotag.Tag.SetTrackNumber, audiotag.Tag.TrackNumber},
		{audiotag.FieldTotalTracks, audiotag.Tag.SetTotalTracks, audiotag.Tag.TotalTracks},
		{audiotag.FieldDiscNumber, audiotag.Tag.SetDiscNumber, audiotag.Tag.DiscNumber},
		{audiotag.FieldTotalDiscs, audiotag.Tag.SetTotalDiscs, audiotag.Tag.TotalDiscs},
	}

	for _, fx := range fixtures {
		t.Run(fx.tt.String(), func(t *testing.T) {
			tag := newTag(t, fx.tt)
			for _, n := range numbers {
				if !tag.Supports(n.field) {
					continue
				}
				for _, v := range []uint16{0, 1, 255, 256, 65535} {
					if v == 0 && fx.tt == audiotag.TagTypeMP4 {
						continue // iTunes atoms store 0 as absent
					}
					n.set(tag, v)
					got, ok := n.get(tag)
					require.True(t, ok, "%s=%d", n.field, v)
					assert.Equal(t, v, got, n.field.String())
				}
			}

			for _, y := range []int{-1, 0, 1, 1999, 2024} {
				tag.SetYear(y)
				got, ok := tag.Year()
				require.True(t, ok)
				assert.Equal(t, y, got)
			}
		})
	}
}

func TestLossyConversionDeterminism(t *testing.T) {
	for _, src := range fixtures {
		for _, dst := range fixtures {
			t.Run(src.tt.String()+"->"+dst.tt.String(), func(t *testing.T) {
				tag := newTag(t, src.tt)
				audiotag.ApplyRecord(fullRecord(), tag)

				a, err := audiotag.Convert(tag, dst.tt)
				require.NoError(t, err)
				b, err := audiotag.Convert(tag, dst.tt)
				require.NoError(t, err)

				assert.Equal(t, dst.tt, a.Type())
				assert.True(t, audiotag.ToRecord(a).Equal(audiotag.ToRecord(b)))
			})
		}
	}
}

func TestPackedSplitJoin(t *testing.T) {
	assert.Equal(t, "3/12", audiotag.SplitPair("3/12").String())

	p := audiotag.SplitPair("abc")
	assert.False(t, p.HasNumber)
	assert.False(t, p.HasTotal)

	_, err := audiotag.ParsePair("abc")
	assert.ErrorIs(t, err, audiotag.ErrInvalidNumber)

	p = audiotag.SplitPair("3/abc")
	assert.Equal(t, uint16(3), p.Number)
	assert.False(t, p.HasTotal)
}

func TestEmptyStringRemoves(t *testing.T) {
	for _, fx := range fixtures {
		t.Run(fx.tt.String(), func(t *testing.T) {
			tag := newTag(t, fx.tt)
			tag.SetTitle("Song")
			tag.SetTitle("")
			_, ok := tag.Title()
			assert.False(t, ok)

			tag.SetArtist("Solo")
			tag.SetArtist("")
			_, ok = tag.Artist()
			assert.False(t, ok)
			assert.Empty(t, tag.Artists())
		})
	}
}
