package io

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/OFFIS-RIT/compass/pkg/loader"
)

// IOSubmissionLoader loads submissions from the local filesystem with
// caching. Keys are paths relative to the root directory.
type IOSubmissionLoader struct {
	root  string
	cache *loader.Cache
}

// NewIOSubmissionLoader creates a filesystem loader rooted at dir.
func NewIOSubmissionLoader(dir string) *IOSubmissionLoader {
	return &IOSubmissionLoader{
		root:  dir,
		cache: loader.NewCache(),
	}
}

// Load reads the file for key. Results are cached. Keys that leave the root
// directory are rejected with loader.ErrInvalidKey.
func (l *IOSubmissionLoader) Load(ctx context.Context, key string) ([]byte, error) {
	rel := filepath.FromSlash(key)
	if !filepath.IsLocal(rel) {
		return nil, fmt.Errorf("%w: %q", loader.ErrInvalidKey, key)
	}
	path := filepath.Join(l.root, rel)
	return l.cache.Do(path, func() ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return os.ReadFile(path)
	})
}
