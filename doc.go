// Package audiotag reads, edits and converts audio metadata across tag formats.
//
// audiotag puts one interface, Tag, in front of several incompatible tagging
// schemes. Callers read a file, change fields and write it back without
// knowing which scheme the file uses, and can convert a tag of one scheme
// into another.
//
// # Quick Start
//
// Reading and editing a tag:
//
//	tag, tt, err := audiotag.ReadFromPath("song.flac")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	title, _ := tag.Title()
//	fmt.Printf("%s: %s\n", tt, title)
//
//	tag.SetArtist("Band B")
//	if err := tag.WriteToPath("song.flac"); err != nil {
//		log.Fatal(err)
//	}
//
// # Supported Formats
//
//   - ID3v2 (MP3): ID3v2.3 and ID3v2.4, with an ID3v1 trailer as read fallback
//   - MP4 (M4A, M4B, M4P, ALAC): iTunes metadata atoms
//   - FLAC: Vorbis comment and picture blocks
//   - Vorbis (Ogg Vorbis, Ogg Opus): the comment header
//
// # Fields and Capability Gaps
//
// Every Tag exposes the same logical fields: title, artists, album, album
// artists, year, track and disc numbers with their totals, genre, composer,
// comment, front cover and a read-only duration hint.
//
// A format that cannot store a field reports false from Supports. Its setter
// does nothing and its getter always reports the field absent. The Ogg
// comment header, for example, has no album artist, composer or cover.
//
// Getters use the comma-ok form; false means absent:
//
//	if n, ok := tag.TrackNumber(); ok {
//		fmt.Println("track", n)
//	}
//
// # Conversion
//
// Convert copies a tag into another format through a Record, the
// format-neutral snapshot. Fields the target cannot represent are dropped;
// this is expected and never an error:
//
//	ogg, err := audiotag.Convert(flacTag, audiotag.TagTypeVorbis)
//
// Converting a tag to its own type returns it unchanged.
//
// # Artists
//
// Artists are kept as lists. Formats with a single artist slot join the
// list with the configured separator (";" by default) and split it again
// on read. See WithArtistSeparator and WithSplitArtists.
//
// # Error Handling
//
// audiotag distinguishes between fatal errors and warnings:
//
//   - IoError, ParseError and UnsupportedFormatError stop a read
//   - A malformed numeric field reads as absent and is reported by
//     Tag.Warnings, unless WithStrict turns it into a MalformedFieldError
//
// Writes through Tag.WriteToFile and Tag.WriteToPath are not atomic.
// WriteFile writes a copy and renames it into place:
//
//	err := audiotag.WriteFile(tag, "song.mp3", audiotag.WithBackup(".bak"))
//
// # Concurrency
//
// A Tag is not safe for concurrent mutation. Different tags may be used from
// different goroutines freely. ReadMany reads many files in parallel.
package audiotag
