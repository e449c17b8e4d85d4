package audiotag

import (
	"github.com/sirupsen/logrus"

	"github.com/simonhull/audiotag/internal/types"
)

// Config controls artist joining and splitting, strictness and logging.
type Config = types.Config

// DefaultArtistSeparator joins multiple artists into one string.
const DefaultArtistSeparator = types.DefaultArtistSeparator

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() Config {
	return types.DefaultConfig()
}

// Option configures how tags are read, created and converted.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	tag, _, err := audiotag.ReadFromPath("song.flac",
//	    audiotag.WithStrict(),
//	    audiotag.WithArtistSeparator(" / "),
//	)
type Option func(*Config)

func newConfig(opts []Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithConfig replaces the whole configuration. Later options still apply.
func WithConfig(cfg Config) Option {
	return func(c *Config) {
		*c = cfg
	}
}

// WithArtistSeparator sets the string that joins multiple artists.
//
// The same separator splits a single-valued native slot ("A;B") into
// several artists when splitting is enabled.
//
// Default is ";".
func WithArtistSeparator(sep string) Option {
	return func(c *Config) {
		c.ArtistSeparator = sep
	}
}

// WithSplitArtists controls whether a single delimited native value is
// expanded into multiple artists. Natively multi-valued slots are never split.
//
// Default is true.
func WithSplitArtists(split bool) Option {
	return func(c *Config) {
		c.SplitArtists = split
	}
}

// WithStrict turns malformed fields into read errors.
//
// By default a numeric field that does not parse reads as absent and is
// reported through Tag.Warnings. With strict mode enabled the read fails
// with every malformed field joined into one error.
//
// Example:
//
//	_, _, err := audiotag.ReadFromPath("song.mp3", audiotag.WithStrict())
//	var mf *audiotag.MalformedFieldError
//	if errors.As(err, &mf) {
//	    fmt.Println("bad", mf.Key)
//	}
func WithStrict() Option {
	return func(c *Config) {
		c.Strict = true
	}
}

// WithLogger sends debug and warning events to l. Without it nothing is logged.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}
