package audiotag

// WriteOption configures behavior when writing files with WriteFile.
//
// Example:
//
//	err := audiotag.WriteFile(tag, path,
//	    audiotag.WithBackup(".bak"),
//	    audiotag.WithValidation(),
//	)
type WriteOption func(*writeOptions)

// writeOptions holds configuration for writing files.
type writeOptions struct {
	backupSuffix    string // Suffix for backup file (e.g., ".bak")
	validate        bool   // Re-read after write to verify
	preserveModTime bool   // Keep original modification time
}

// defaultWriteOptions returns the default configuration for writing.
func defaultWriteOptions() *writeOptions {
	return &writeOptions{}
}

// WithBackup keeps the original file next to the written one.
//
// The backup file will have the specified suffix appended to the original
// filename. For example, WithBackup(".bak") will keep "song.mp3.bak"
// after modifying "song.mp3".
//
// If the backup file already exists, it will be overwritten.
func WithBackup(suffix string) WriteOption {
	return func(o *writeOptions) {
		o.backupSuffix = suffix
	}
}

// WithValidation re-reads the file after writing and compares every
// writable field the tag supports.
//
// This adds overhead but catches formats that cannot store a value exactly,
// such as an MP4 track number of 0.
func WithValidation() WriteOption {
	return func(o *writeOptions) {
		o.validate = true
	}
}

// WithPreserveModTime keeps the original file modification time.
//
// By default, writing updates the file's modification time to the current
// time. Use this when updating metadata should not change the "modified"
// date.
func WithPreserveModTime() WriteOption {
	return func(o *writeOptions) {
		o.preserveModTime = true
	}
}
