// Package registry maps tag types to their format adapters.
package registry

import (
	"sync"

	"github.com/simonhull/audiotag/internal/types"
)

// Adapter bundles the two ways a format adapter comes into existence.
type Adapter struct {
	// Read parses the tag of the file at path.
	Read func(path string, cfg types.Config) (types.Tag, error)

	// New returns an empty tag.
	New func(cfg types.Config) types.Tag
}

var (
	mu       sync.RWMutex
	adapters = make(map[types.TagType]Adapter)
)

// Register registers the adapter for a tag type.
// This is called by format packages during initialization (init functions).
func Register(t types.TagType, a Adapter) {
	mu.Lock()
	defer mu.Unlock()
	adapters[t] = a
}

// Get returns the adapter for a tag type.
// The second result is false if no adapter is registered.
func Get(t types.TagType) (Adapter, bool) {
	mu.RLock()
	defer mu.RUnlock()
	a, ok := adapters[t]
	return a, ok
}

// Types returns the registered tag types in canonical order.
func Types() []types.TagType {
	mu.RLock()
	defer mu.RUnlock()
	var out []types.TagType
	for _, t := range types.TagTypes() {
		if _, ok := adapters[t]; ok {
			out = append(out, t)
		}
	}
	return out
}
