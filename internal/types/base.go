package types

import (
	"errors"
	"os"
	"slices"

	"github.com/sirupsen/logrus"
)

// Base carries the state every adapter shares: its configuration and the
// warnings collected when it was read. Adapters embed it.
type Base struct {
	cfg      Config
	warnings []Warning
}

// NewBase returns a Base for the given configuration.
func NewBase(cfg Config) Base {
	return Base{cfg: cfg}
}

// Config returns the adapter configuration.
func (b *Base) Config() Config { return b.cfg }

// SetConfig replaces the adapter configuration.
func (b *Base) SetConfig(cfg Config) { b.cfg = cfg }

// Warnings returns a copy of the collected warnings.
func (b *Base) Warnings() []Warning { return slices.Clone(b.warnings) }

// Warn records a non-fatal issue.
func (b *Base) Warn(stage, message string) {
	b.warnings = append(b.warnings, Warning{Stage: stage, Message: message})
}

// Check records malformed fields found while reading path. In strict mode
// it returns them joined; otherwise they become warnings and are logged.
func (b *Base) Check(path string, malformed []error) error {
	if len(malformed) == 0 {
		return nil
	}
	if b.cfg.Strict {
		return errors.Join(malformed...)
	}
	log := b.cfg.Log()
	for _, err := range malformed {
		b.Warn("field", err.Error())
		entry := log.WithField("path", path)
		var mf *MalformedFieldError
		if errors.As(err, &mf) {
			entry = entry.WithFields(logrus.Fields{"tag": mf.Type, "key": mf.Key, "value": mf.Value})
		}
		entry.Warn("malformed field treated as absent")
	}
	return nil
}

// OpenForWrite opens path for reading and writing.
func OpenForWrite(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, &IoError{Op: "open", Path: path, Err: err}
	}
	return f, nil
}

// WriteToPath opens path, hands it to write and closes it on every path.
func WriteToPath(path string, write func(*os.File) error) (err error) {
	f, err := OpenForWrite(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &IoError{Op: "close", Path: path, Err: cerr}
		}
	}()
	return write(f)
}

// Replace rewrites f with data from offset 0 and truncates it to len(data).
func Replace(f *os.File, data []byte) error {
	if _, err := f.WriteAt(data, 0); err != nil {
		return &IoError{Op: "write", Path: f.Name(), Err: err}
	}
	if err := f.Truncate(int64(len(data))); err != nil {
		return &IoError{Op: "truncate", Path: f.Name(), Err: err}
	}
	return nil
}

// ReadAll reads the whole of f from offset 0.
func ReadAll(f *os.File) ([]byte, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, &IoError{Op: "stat", Path: f.Name(), Err: err}
	}
	data := make([]byte, info.Size())
	if _, err := f.ReadAt(data, 0); err != nil && info.Size() > 0 {
		return nil, &IoError{Op: "read", Path: f.Name(), Err: err}
	}
	return data, nil
}
