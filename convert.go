package audiotag

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/simonhull/audiotag/internal/registry"
)

// Convert returns tag in the representation of target.
//
// A tag that already has the target type is returned unchanged. Otherwise
// the tag is copied into a Record and replayed onto a fresh target adapter
// with the same configuration. Fields the target cannot represent are
// dropped; that is expected and not an error. Converting the same tag twice
// yields identical results.
func Convert(tag Tag, target TagType) (Tag, error) {
	if tag.Type() == target {
		return tag, nil
	}
	out, err := New(target, WithConfig(tag.Config()))
	if err != nil {
		return nil, err
	}
	dropped := ApplyRecord(ToRecord(tag), out)

	if len(dropped) > 0 {
		names := make([]string, len(dropped))
		for i, f := range dropped {
			names[i] = f.String()
		}
		tag.Config().Log().WithFields(logrus.Fields{
			"from":   tag.Type(),
			"to":     target,
			"fields": names,
		}).Debug("fields dropped by conversion")
	}
	return out, nil
}

// ApplyRecord writes every present field of r that tag supports and
// returns the present fields it had to drop. Fields absent from r are left
// as they are on tag.
func ApplyRecord(r *Record, tag Tag) []Field {
	return r.ApplyTo(tag)
}

// FromRecord builds a fresh tag of type tt holding the fields of r.
func FromRecord(r *Record, tt TagType) (Tag, []Field, error) {
	adapter, ok := registry.Get(tt)
	if !ok {
		return nil, nil, &UnsupportedFormatError{Reason: fmt.Sprintf("no adapter registered for %s", tt)}
	}
	t := adapter.New(r.Config)
	return t, r.ApplyTo(t), nil
}
