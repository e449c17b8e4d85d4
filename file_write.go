package audiotag

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/simonhull/audiotag/internal/types"
)

// WriteFile writes tag into the audio file at path.
//
// Unlike Tag.WriteToPath, which rewrites the file in place, WriteFile works
// on a copy in the same directory and renames it over path once the tag is
// written and synced. If any step fails, the original file remains
// unchanged.
//
// Options can be provided to customize write behavior:
//
//	err := audiotag.WriteFile(tag, "song.mp3",
//	    audiotag.WithBackup(".bak"),
//	    audiotag.WithValidation(),
//	)
func WriteFile(tag Tag, path string, opts ...WriteOption) error { //nolint:gocyclo // Atomic file operations require sequential steps
	options := defaultWriteOptions()
	for _, opt := range opts {
		opt(options)
	}

	orig, err := os.Stat(path)
	if err != nil {
		return &IoError{Op: "stat", Path: path, Err: err}
	}

	tempPath, err := copyToTemp(path, orig.Mode().Perm())
	if err != nil {
		return err
	}
	success := false
	defer func() {
		if !success {
			_ = os.Remove(tempPath) //nolint:errcheck // Best effort cleanup
		}
	}()

	if err := types.WriteToPath(tempPath, func(f *os.File) error {
		if err := tag.WriteToFile(f); err != nil {
			return err
		}
		if err := f.Sync(); err != nil {
			return &IoError{Op: "sync", Path: tempPath, Err: err}
		}
		return nil
	}); err != nil {
		return err
	}

	if options.backupSuffix != "" {
		if err := os.Rename(path, path+options.backupSuffix); err != nil {
			return &IoError{Op: "backup", Path: path, Err: err}
		}
	}

	if err := os.Rename(tempPath, path); err != nil {
		return &IoError{Op: "rename", Path: path, Err: err}
	}
	success = true

	if options.preserveModTime {
		_ = os.Chtimes(path, orig.ModTime(), orig.ModTime()) //nolint:errcheck // Non-fatal: file was written successfully
	}

	log := tag.Config().Log().WithFields(logrus.Fields{"path": path, "tag": tag.Type()})
	if options.validate {
		if err := validateWrittenFile(tag, path); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		log = log.WithField("validated", true)
	}
	log.Debug("wrote file")
	return nil
}

// copyToTemp copies path into a new temporary file next to it.
func copyToTemp(path string, perm os.FileMode) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", &IoError{Op: "open", Path: path, Err: err}
	}
	defer src.Close()

	tmp, err := os.CreateTemp(filepath.Dir(path), ".audiotag-*.tmp")
	if err != nil {
		return "", &IoError{Op: "create", Path: path, Err: err}
	}
	tempPath := tmp.Name()

	_, err = io.Copy(tmp, src)
	if err == nil {
		err = tmp.Chmod(perm)
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tempPath) //nolint:errcheck // Best effort cleanup
		return "", &IoError{Op: "copy", Path: tempPath, Err: err}
	}
	return tempPath, nil
}

// validateWrittenFile re-reads path and compares every writable field the
// tag supports.
func validateWrittenFile(tag Tag, path string) error {
	written, _, err := ReadFromPath(path, WithConfig(tag.Config()))
	if err != nil {
		return fmt.Errorf("re-read: %w", err)
	}
	if written.Type() != tag.Type() {
		return fmt.Errorf("tag type mismatch: got %s, want %s", written.Type(), tag.Type())
	}

	want, got := ToRecord(tag), ToRecord(written)
	for _, f := range AllFields() {
		if !f.Writable() || !tag.Supports(f) {
			continue
		}
		if !want.EqualFields(got, f) {
			return fmt.Errorf("%s mismatch after write", f)
		}
	}
	return nil
}
