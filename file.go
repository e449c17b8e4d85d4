package audiotag

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/audiotag/internal/registry"

	// format adapters register themselves
	_ "github.com/simonhull/audiotag/internal/flac"
	_ "github.com/simonhull/audiotag/internal/id3"
	_ "github.com/simonhull/audiotag/internal/mp4"
	_ "github.com/simonhull/audiotag/internal/ogg"
)

// ReadFromPath detects the tag type of the file at path and reads its tag.
//
// Malformed numeric fields do not fail the read unless WithStrict is given;
// they read as absent and are listed by Tag.Warnings.
//
// Example:
//
//	tag, tt, err := audiotag.ReadFromPath("song.flac")
//	if err != nil {
//		return err
//	}
//	title, _ := tag.Title()
//	fmt.Printf("%s: %s\n", tt, title)
func ReadFromPath(path string, opts ...Option) (Tag, TagType, error) {
	cfg := newConfig(opts)

	tt, err := Detect(path, WithConfig(cfg))
	if err != nil {
		return nil, TagTypeUnknown, err
	}
	adapter, ok := registry.Get(tt)
	if !ok {
		return nil, tt, &UnsupportedFormatError{
			Path:   path,
			Reason: fmt.Sprintf("no adapter registered for %s", tt),
		}
	}

	t, err := adapter.Read(path, cfg)
	if err != nil {
		return nil, tt, err
	}
	return t, tt, nil
}

// New returns an empty tag of the given type.
func New(tt TagType, opts ...Option) (Tag, error) {
	adapter, ok := registry.Get(tt)
	if !ok {
		return nil, &UnsupportedFormatError{Reason: fmt.Sprintf("no adapter registered for %s", tt)}
	}
	return adapter.New(newConfig(opts)), nil
}

// ReadMany reads the tags of several files concurrently.
//
// Files are read in parallel using up to runtime.NumCPU() goroutines.
// Results are returned in the same order as the input paths. The first
// failure cancels the remaining reads and is returned.
//
// Example:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
//	defer cancel()
//
//	tags, err := audiotag.ReadMany(ctx, paths)
//	if err != nil {
//		log.Fatal(err)
//	}
func ReadMany(ctx context.Context, paths []string, opts ...Option) ([]Tag, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]Tag, len(paths))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, _, err := ReadFromPath(path, opts...)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = t
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
