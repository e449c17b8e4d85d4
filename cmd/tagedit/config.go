package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"

	"github.com/simonhull/audiotag"
)

// fileConfig is the TOML configuration of tagedit.
type fileConfig struct {
	ArtistSeparator string `toml:"artist_separator"`
	SplitArtists    *bool  `toml:"split_artists"`
	Strict          bool   `toml:"strict"`
	LogLevel        string `toml:"log_level"`
	BackupSuffix    string `toml:"backup_suffix"`
}

func defaultFileConfig() fileConfig {
	return fileConfig{
		ArtistSeparator: audiotag.DefaultArtistSeparator,
		LogLevel:        "warn",
	}
}

// defaultConfigPath returns $XDG_CONFIG_HOME/tagedit/config.toml, falling
// back to ~/.config.
func defaultConfigPath() (string, error) {
	if base, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "tagedit", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "tagedit", "config.toml"), nil
}

// loadConfig reads the configuration file. An explicit path must exist; the
// default location is optional.
func loadConfig(path string) (fileConfig, error) {
	cfg := defaultFileConfig()

	explicit := path != ""
	if !explicit {
		var err error
		if path, err = defaultConfigPath(); err != nil {
			return cfg, err
		}
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// options turns the configuration into library options.
func (c fileConfig) options(logger logrus.FieldLogger) []audiotag.Option {
	opts := []audiotag.Option{audiotag.WithLogger(logger)}
	if c.ArtistSeparator != "" {
		opts = append(opts, audiotag.WithArtistSeparator(c.ArtistSeparator))
	}
	if c.SplitArtists != nil {
		opts = append(opts, audiotag.WithSplitArtists(*c.SplitArtists))
	}
	if c.Strict {
		opts = append(opts, audiotag.WithStrict())
	}
	return opts
}
