package types

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// DefaultArtistSeparator joins multiple artists into one string.
const DefaultArtistSeparator = ";"

// Config controls how multi-valued fields collapse and expand, and how
// reads treat malformed fields.
type Config struct {
	// Logger receives debug and warning events. Nil discards them.
	Logger logrus.FieldLogger

	// ArtistSeparator joins artists when a single string is needed and
	// splits single-valued native slots when SplitArtists is set.
	ArtistSeparator string

	// SplitArtists expands a single delimited native value ("A;B") into
	// multiple artists. Natively multi-valued slots are never split.
	SplitArtists bool

	// Strict turns malformed fields into read errors.
	Strict bool
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		ArtistSeparator: DefaultArtistSeparator,
		SplitArtists:    true,
	}
}

var discard = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

// Log returns the configured logger, or one that discards everything.
func (c Config) Log() logrus.FieldLogger {
	if c.Logger == nil {
		return discard
	}
	return c.Logger
}

// Separator returns the artist separator, falling back to the default.
func (c Config) Separator() string {
	if c.ArtistSeparator == "" {
		return DefaultArtistSeparator
	}
	return c.ArtistSeparator
}

// JoinArtists collapses artists into one string.
func (c Config) JoinArtists(artists []string) string {
	return strings.Join(artists, c.Separator())
}

// SplitArtist expands a single native value into artists.
// Empty input yields no artists.
func (c Config) SplitArtist(s string) []string {
	if s == "" {
		return nil
	}
	if !c.SplitArtists {
		return []string{s}
	}
	return strings.Split(s, c.Separator())
}

// Equivalent reports whether two configs behave the same, ignoring loggers.
func (c Config) Equivalent(o Config) bool {
	return c.Separator() == o.Separator() && c.SplitArtists == o.SplitArtists && c.Strict == o.Strict
}
