// Package filters decides, per file, whether it is included in a
// backup or restore. The only filter is Ignore: a path is kept iff no
// configured glob matches it.
package filters

import (
	"path"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/Shadow53/hoard-sub001/pkg/errors"
)

// Filter reports whether a file, identified by its path relative to
// the pile root, should be kept.
type Filter interface {
	Keep(relPath string) bool
}

// Ignore keeps every path not matched by any of its glob patterns.
type Ignore struct {
	globs []string
}

// NewIgnore validates the glob patterns and returns the filter.
// Malformed patterns fail construction; evaluation is infallible.
func NewIgnore(globs []string) (*Ignore, error) {
	for _, pattern := range globs {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Newf(errors.ErrFilterGlob, "invalid glob pattern %q", pattern)
		}
	}
	return &Ignore{globs: globs}, nil
}

// Keep reports whether relPath survives the ignore list.
func (f *Ignore) Keep(relPath string) bool {
	relPath = path.Clean(relPath)
	for _, pattern := range f.globs {
		// Pattern validity was checked at construction.
		if matched, _ := doublestar.Match(pattern, relPath); matched {
			return false
		}
	}
	return true
}
